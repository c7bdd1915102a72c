package fitness

import (
	"math"
	"time"

	"github.com/sipolgar/sipolgar/pkg/models"
)

// Defaults used when the personnel has not picked a level or goal yet.
const (
	DefaultActivityLevel = models.ActivityModerate
	DefaultFitnessGoal   = models.GoalMaintain
)

// BMI gauge range used by BMIScalePosition.
const (
	scaleMinBMI  = 15.0
	scaleSpanBMI = 20.0
)

// Stats is the full metric summary for one personnel record.
type Stats struct {
	HeightCm float64
	WeightKg float64
	Age      int
	BMI      float64
	Category BMICategory
	BMR      float64
	TDEE     float64
	Activity models.ActivityLevel
	Goal     models.FitnessGoal
	Targets  Targets
}

// Compute derives Stats from p as of ref.
func Compute(p *models.Personel, ref time.Time) (*Stats, error) {
	if err := requireComplete(p); err != nil {
		return nil, err
	}

	height, weight := *p.TinggiBadan, *p.BeratBadan
	age, err := AgeFromISO(p.TanggalLahir, ref)
	if err != nil {
		return nil, err
	}
	bmr, err := BMR(weight, height, age, p.JenisKelamin)
	if err != nil {
		return nil, err
	}

	activity := p.ActivityLevel
	if activity == "" {
		activity = DefaultActivityLevel
	}
	goal := p.FitnessGoal
	if goal == "" {
		goal = DefaultFitnessGoal
	}

	bmi := BMI(weight, height)
	tdee := TDEE(bmr, activity)
	return &Stats{
		HeightCm: height,
		WeightKg: weight,
		Age:      age,
		BMI:      bmi,
		Category: CategoryOf(bmi),
		BMR:      bmr,
		TDEE:     tdee,
		Activity: activity,
		Goal:     goal,
		Targets:  CalorieTargets(tdee, goal),
	}, nil
}

func requireComplete(p *models.Personel) error {
	switch {
	case p == nil:
		return &ValidationError{Field: "personel", Wrapped: ErrIncompleteProfile}
	case !p.HasHeight():
		return &ValidationError{Field: "tinggi_badan", Wrapped: ErrIncompleteProfile}
	case !p.HasWeight():
		return &ValidationError{Field: "berat_badan", Wrapped: ErrIncompleteProfile}
	case p.TanggalLahir == "":
		return &ValidationError{Field: "tanggal_lahir", Wrapped: ErrIncompleteProfile}
	case p.JenisKelamin == "":
		return &ValidationError{Field: "jenis_kelamin", Wrapped: ErrIncompleteProfile}
	}
	return nil
}

// BMIScalePosition maps bmi onto a 0-100 gauge spanning BMI 15 to 35.
func BMIScalePosition(bmi float64) float64 {
	pos := (bmi - scaleMinBMI) / scaleSpanBMI * 100
	return math.Min(math.Max(pos, 0), 100)
}
