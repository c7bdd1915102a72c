package fitness

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/sipolgar/sipolgar/pkg/models"
)

const epsilon = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestBMI_MatchesFormula(t *testing.T) {
	t.Parallel()

	for _, w := range []float64{40, 65, 70.5, 120} {
		for _, h := range []float64{150, 170, 175, 199.5} {
			m := h / 100
			want := w / (m * m)
			if got := BMI(w, h); !approx(got, want) {
				t.Errorf("BMI(%v, %v) = %v, want %v", w, h, got, want)
			}
		}
	}
}

func TestCategoryOf_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bmi  float64
		want BMICategory
	}{
		{0, Underweight},
		{18.49, Underweight},
		{18.5, Normal},
		{24.99, Normal},
		{25, Overweight},
		{29.99, Overweight},
		{30, Obese},
		{55, Obese},
	}
	for _, tt := range tests {
		if got := CategoryOf(tt.bmi); got != tt.want {
			t.Errorf("CategoryOf(%v) = %v, want %v", tt.bmi, got, tt.want)
		}
	}
}

func TestCategoryOf_Monotonic(t *testing.T) {
	t.Parallel()

	prev := CategoryOf(0)
	for bmi := 0.0; bmi < 60; bmi += 0.01 {
		c := CategoryOf(bmi)
		if c < prev {
			t.Fatalf("CategoryOf not monotonic at %v: %v after %v", bmi, c, prev)
		}
		prev = c
	}
}

func TestBMICategory_Labels(t *testing.T) {
	t.Parallel()

	if got := Overweight.Label(); got != "Kelebihan berat badan" {
		t.Errorf("Overweight.Label() = %q", got)
	}
	if got := Obese.String(); got != "Obese" {
		t.Errorf("Obese.String() = %q", got)
	}
}

func TestAgeFromISO_BirthdayBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ref  time.Time
		want int
	}{
		{time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), 23},
		{time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), 24},
		{time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), 23},
		{time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), 24},
	}
	for _, tt := range tests {
		got, err := AgeFromISO("2000-06-15", tt.ref)
		if err != nil {
			t.Fatalf("AgeFromISO: %v", err)
		}
		if got != tt.want {
			t.Errorf("AgeFromISO(2000-06-15, %s) = %d, want %d", tt.ref.Format(time.DateOnly), got, tt.want)
		}
	}
}

func TestAgeFromISO_Invalid(t *testing.T) {
	t.Parallel()

	_, err := AgeFromISO("15/06/2000", time.Now())
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("err = %v, want ErrInvalidDate", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "tanggal_lahir" {
		t.Errorf("expected ValidationError on tanggal_lahir, got %v", err)
	}
}

func TestAgeFromISO_AcceptsTimestamp(t *testing.T) {
	t.Parallel()

	got, err := AgeFromISO("2000-06-15T00:00:00Z", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("AgeFromISO: %v", err)
	}
	if got != 24 {
		t.Errorf("got %d, want 24", got)
	}
}

func TestBMR(t *testing.T) {
	t.Parallel()

	male, err := BMR(70, 175, 30, models.GenderMale)
	if err != nil {
		t.Fatalf("BMR male: %v", err)
	}
	if want := 10*70 + 6.25*175 - 5*30 + 5.0; !approx(male, want) {
		t.Errorf("BMR male = %v, want %v", male, want)
	}

	female, err := BMR(70, 175, 30, models.GenderFemale)
	if err != nil {
		t.Fatalf("BMR female: %v", err)
	}
	if !approx(male-female, 166) {
		t.Errorf("male-female offset = %v, want 166", male-female)
	}
}

func TestBMR_RejectsUnknownGender(t *testing.T) {
	t.Parallel()

	for _, g := range []models.Gender{"", "male", "laki-laki", "Other"} {
		if _, err := BMR(70, 175, 30, g); !errors.Is(err, ErrInvalidGender) {
			t.Errorf("BMR(gender=%q) err = %v, want ErrInvalidGender", g, err)
		}
	}
}

func TestTDEE(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level models.ActivityLevel
		want  float64
	}{
		{models.ActivitySedentary, 1800},
		{models.ActivityLight, 2062.5},
		{models.ActivityModerate, 2325},
		{models.ActivityActive, 2587.5},
		{models.ActivityVeryActive, 2850},
		{"unknown", 1800},
		{"", 1800},
	}
	for _, tt := range tests {
		if got := TDEE(1500, tt.level); !approx(got, tt.want) {
			t.Errorf("TDEE(1500, %q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestCalorieTargets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goal       models.FitnessGoal
		wantTarget float64
	}{
		{models.GoalLoseWeight, 1825},
		{models.GoalGainMuscle, 2625},
		{models.GoalMaintain, 2325},
		{models.GoalImproveFitness, 2325},
		{"", 2325},
	}
	for _, tt := range tests {
		got := CalorieTargets(2325, tt.goal)
		if !approx(got.Target, tt.wantTarget) {
			t.Errorf("CalorieTargets(2325, %q).Target = %v, want %v", tt.goal, got.Target, tt.wantTarget)
		}
		if !approx(got.Maintenance, 2325) {
			t.Errorf("Maintenance = %v, want 2325", got.Maintenance)
		}
		if got.ProteinG < 0 || got.CarbsG < 0 || got.FatG < 0 {
			t.Errorf("negative macros: %+v", got)
		}
	}
}

func TestCalorieTargets_MacroRounding(t *testing.T) {
	t.Parallel()

	got := CalorieTargets(2325, models.GoalLoseWeight)
	// 1825 kcal: protein 547.5/4=136.875, fat 456.25/9=50.69, carbs 821.25/4=205.31
	if got.ProteinG != 137 || got.FatG != 51 || got.CarbsG != 205 {
		t.Errorf("macros = %d/%d/%d, want 137/51/205", got.ProteinG, got.FatG, got.CarbsG)
	}
}

func TestCalorieTargets_NegativeTargetClampsMacros(t *testing.T) {
	t.Parallel()

	got := CalorieTargets(300, models.GoalLoseWeight)
	if got.Target != -200 {
		t.Errorf("Target = %v, want -200", got.Target)
	}
	if got.ProteinG != 0 || got.FatG != 0 || got.CarbsG != 0 {
		t.Errorf("macros = %+v, want all zero", got)
	}
}

func TestCalorieTargets_KeepsFractionalKcal(t *testing.T) {
	t.Parallel()

	got := CalorieTargets(2000.4, models.GoalGainMuscle)
	if !approx(got.Maintenance, 2000.4) {
		t.Errorf("Maintenance = %v, want 2000.4", got.Maintenance)
	}
	if !approx(got.Target, 2300.4) {
		t.Errorf("Target = %v, want 2300.4", got.Target)
	}
}
