package models_test

import (
	"encoding/json"
	"testing"

	"github.com/sipolgar/sipolgar/pkg/models"
)

func TestEnumIsValid(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
		got   bool
	}{
		{"male", true, models.GenderMale.IsValid()},
		{"female", true, models.GenderFemale.IsValid()},
		{"gender lowercase", false, models.Gender("laki-laki").IsValid()},
		{"gender empty", false, models.Gender("").IsValid()},
		{"goal maintain", true, models.GoalMaintain.IsValid()},
		{"goal bulk", false, models.FitnessGoal("bulk").IsValid()},
		{"activity very_active", true, models.ActivityVeryActive.IsValid()},
		{"activity extreme", false, models.ActivityLevel("extreme").IsValid()},
		{"theme dark", true, models.ThemeDark.IsValid()},
		{"theme pink", false, models.Theme("pink").IsValid()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", tt.got, tt.valid)
			}
		})
	}
}

func TestValidListsAreClosed(t *testing.T) {
	for _, g := range models.ValidGenders() {
		if !g.IsValid() {
			t.Errorf("ValidGenders contains invalid %q", g)
		}
	}
	for _, g := range models.ValidFitnessGoals() {
		if !g.IsValid() {
			t.Errorf("ValidFitnessGoals contains invalid %q", g)
		}
	}
	if n := len(models.ValidActivityLevels()); n != 5 {
		t.Errorf("len(ValidActivityLevels()) = %d, want 5", n)
	}
}

func TestPersonel_OnboardingComplete(t *testing.T) {
	tests := []struct {
		name string
		p    *models.Personel
		want bool
	}{
		{"nil record", nil, false},
		{"both set", &models.Personel{TinggiBadan: models.Ptr(170.0), BeratBadan: models.Ptr(65.0)}, true},
		{"height missing", &models.Personel{BeratBadan: models.Ptr(65.0)}, false},
		{"weight zero", &models.Personel{TinggiBadan: models.Ptr(170.0), BeratBadan: models.Ptr(0.0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.OnboardingComplete(); got != tt.want {
				t.Errorf("OnboardingComplete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserProfile_CloneIsDeep(t *testing.T) {
	orig := &models.UserProfile{
		ID:       1,
		Personel: &models.Personel{TinggiBadan: models.Ptr(170.0), NamaLengkap: "X"},
	}
	c := orig.Clone()
	*c.Personel.TinggiBadan = 180
	c.Personel.NamaLengkap = "Y"

	if *orig.Personel.TinggiBadan != 170 {
		t.Errorf("original height mutated to %v", *orig.Personel.TinggiBadan)
	}
	if orig.Personel.NamaLengkap != "X" {
		t.Errorf("original name mutated to %q", orig.Personel.NamaLengkap)
	}
	if (*models.UserProfile)(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestPersonelUpdate_ApplyTo(t *testing.T) {
	p := &models.Personel{NamaLengkap: "X", TinggiBadan: models.Ptr(170.0)}
	goal := models.GoalGainMuscle
	u := &models.PersonelUpdate{BeratBadan: models.Ptr(70.0), FitnessGoal: &goal}
	u.ApplyTo(p)

	if p.NamaLengkap != "X" {
		t.Errorf("NamaLengkap = %q, want %q", p.NamaLengkap, "X")
	}
	if p.BeratBadan == nil || *p.BeratBadan != 70 {
		t.Errorf("BeratBadan = %v, want 70", p.BeratBadan)
	}
	if p.FitnessGoal != models.GoalGainMuscle {
		t.Errorf("FitnessGoal = %q, want %q", p.FitnessGoal, models.GoalGainMuscle)
	}

	// the patch must not alias into the record
	*u.BeratBadan = 99
	if *p.BeratBadan != 70 {
		t.Errorf("patch aliasing: BeratBadan = %v", *p.BeratBadan)
	}
}

func TestPersonelUpdate_IsEmpty(t *testing.T) {
	if !(*models.PersonelUpdate)(nil).IsEmpty() {
		t.Error("nil patch should be empty")
	}
	if !(&models.PersonelUpdate{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
	if (&models.PersonelUpdate{NoHP: models.Ptr("0812")}).IsEmpty() {
		t.Error("patch with phone should not be empty")
	}
}

func TestProfileUpdate_MarshalOmitsUnset(t *testing.T) {
	patch := models.ProfileUpdate{Personel: &models.PersonelUpdate{BeratBadan: models.Ptr(70.0)}}
	data, err := json.Marshal(patch)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"personel":{"berat_badan":70}}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestFlexInt_Unmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    models.FlexInt
		wantErr bool
	}{
		{`12`, 12, false},
		{`"12"`, 12, false},
		{`null`, 0, false},
		{`"abc"`, 0, true},
		{`1.5`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var f models.FlexInt
			err := json.Unmarshal([]byte(tt.in), &f)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && f != tt.want {
				t.Errorf("got %d, want %d", f, tt.want)
			}
		})
	}
}

func TestWorkout_Derived(t *testing.T) {
	w := models.Workout{DurationSeconds: 150, CaloriesPerSecond: "0.25"}
	if got := w.DurationMinutes(); got != 2 {
		t.Errorf("DurationMinutes() = %d, want 2", got)
	}
	kcal, err := w.EstimatedCalories()
	if err != nil {
		t.Fatalf("EstimatedCalories: %v", err)
	}
	if kcal != 37.5 {
		t.Errorf("EstimatedCalories() = %v, want 37.5", kcal)
	}

	if _, err := (models.Workout{CaloriesPerSecond: "n/a"}).EstimatedCalories(); err == nil {
		t.Error("expected error for non-numeric rate")
	}
}
