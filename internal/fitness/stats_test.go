package fitness

import (
	"errors"
	"testing"
	"time"

	"github.com/sipolgar/sipolgar/pkg/models"
)

var refDate = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func completePersonel() *models.Personel {
	return &models.Personel{
		TanggalLahir: "1994-06-15",
		JenisKelamin: models.GenderMale,
		TinggiBadan:  models.Ptr(175.0),
		BeratBadan:   models.Ptr(70.0),
	}
}

func TestCompute_DefaultsActivityAndGoal(t *testing.T) {
	t.Parallel()

	s, err := Compute(completePersonel(), refDate)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if s.Age != 30 {
		t.Errorf("Age = %d, want 30", s.Age)
	}
	if s.Activity != models.ActivityModerate {
		t.Errorf("Activity = %q, want moderate", s.Activity)
	}
	if s.Goal != models.GoalMaintain {
		t.Errorf("Goal = %q, want maintain", s.Goal)
	}
	wantBMR := 10*70 + 6.25*175 - 5*30 + 5.0
	if !approx(s.BMR, wantBMR) {
		t.Errorf("BMR = %v, want %v", s.BMR, wantBMR)
	}
	if !approx(s.TDEE, wantBMR*1.55) {
		t.Errorf("TDEE = %v, want %v", s.TDEE, wantBMR*1.55)
	}
	if s.Category != Normal {
		t.Errorf("Category = %v, want Normal", s.Category)
	}
}

func TestCompute_UsesRecordedGoal(t *testing.T) {
	t.Parallel()

	p := completePersonel()
	p.FitnessGoal = models.GoalLoseWeight
	p.ActivityLevel = models.ActivitySedentary

	s, err := Compute(p, refDate)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !approx(s.Targets.Target, s.TDEE-500) {
		t.Errorf("Target = %v, want TDEE-500 = %v", s.Targets.Target, s.TDEE-500)
	}
}

func TestCompute_Incomplete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(p *models.Personel) *models.Personel
		field  string
	}{
		{"nil", func(*models.Personel) *models.Personel { return nil }, "personel"},
		{"no height", func(p *models.Personel) *models.Personel { p.TinggiBadan = nil; return p }, "tinggi_badan"},
		{"zero weight", func(p *models.Personel) *models.Personel { p.BeratBadan = models.Ptr(0.0); return p }, "berat_badan"},
		{"no birth date", func(p *models.Personel) *models.Personel { p.TanggalLahir = ""; return p }, "tanggal_lahir"},
		{"no gender", func(p *models.Personel) *models.Personel { p.JenisKelamin = ""; return p }, "jenis_kelamin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.mutate(completePersonel()), refDate)
			if !errors.Is(err, ErrIncompleteProfile) {
				t.Fatalf("err = %v, want ErrIncompleteProfile", err)
			}
			var ve *ValidationError
			if errors.As(err, &ve) && ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestCompute_InvalidGender(t *testing.T) {
	t.Parallel()

	p := completePersonel()
	p.JenisKelamin = "unknown"
	if _, err := Compute(p, refDate); !errors.Is(err, ErrInvalidGender) {
		t.Errorf("err = %v, want ErrInvalidGender", err)
	}
}

func TestBMIScalePosition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bmi, want float64
	}{
		{10, 0},
		{15, 0},
		{25, 50},
		{35, 100},
		{50, 100},
	}
	for _, tt := range tests {
		if got := BMIScalePosition(tt.bmi); !approx(got, tt.want) {
			t.Errorf("BMIScalePosition(%v) = %v, want %v", tt.bmi, got, tt.want)
		}
	}
}
