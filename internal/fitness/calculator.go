package fitness

import (
	"math"
	"strings"
	"time"

	"github.com/sipolgar/sipolgar/pkg/models"
)

// BMICategory partitions [0, inf) into four contiguous half-open intervals.
type BMICategory int

const (
	Underweight BMICategory = iota
	Normal
	Overweight
	Obese
)

// BMI category boundaries; each lower bound is inclusive.
const (
	NormalLowerBound     = 18.5
	OverweightLowerBound = 25.0
	ObeseLowerBound      = 30.0
)

// Mifflin-St Jeor constants.
const (
	bmrMaleOffset   = 5.0
	bmrFemaleOffset = -161.0
)

// Calorie adjustments and macro split applied to the target intake.
const (
	LoseWeightDeficit = 500.0
	GainMuscleSurplus = 300.0

	proteinShare = 0.30
	fatShare     = 0.25
	carbsShare   = 0.45

	kcalPerGramProtein = 4.0
	kcalPerGramFat     = 9.0
	kcalPerGramCarbs   = 4.0
)

// DefaultActivityMultiplier is used for unknown activity levels.
const DefaultActivityMultiplier = 1.2

var activityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary:  1.2,
	models.ActivityLight:      1.375,
	models.ActivityModerate:   1.55,
	models.ActivityActive:     1.725,
	models.ActivityVeryActive: 1.9,
}

// String returns the English category name.
func (c BMICategory) String() string {
	switch c {
	case Underweight:
		return "Underweight"
	case Normal:
		return "Normal"
	case Overweight:
		return "Overweight"
	case Obese:
		return "Obese"
	}
	return "Unknown"
}

// Label returns the Indonesian category label shown to personnel.
func (c BMICategory) Label() string {
	switch c {
	case Underweight:
		return "Kekurangan berat badan"
	case Normal:
		return "Normal"
	case Overweight:
		return "Kelebihan berat badan"
	case Obese:
		return "Obesitas"
	}
	return "Tidak diketahui"
}

// BMI returns weightKg / (heightCm/100)^2, unrounded.
func BMI(weightKg, heightCm float64) float64 {
	m := heightCm / 100
	return weightKg / (m * m)
}

// CategoryOf classifies a BMI value.
func CategoryOf(bmi float64) BMICategory {
	switch {
	case bmi < NormalLowerBound:
		return Underweight
	case bmi < OverweightLowerBound:
		return Normal
	case bmi < ObeseLowerBound:
		return Overweight
	default:
		return Obese
	}
}

// Age returns the number of completed years between birth and ref.
func Age(birth, ref time.Time) int {
	age := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() || (ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		age--
	}
	return age
}

// AgeFromISO parses a YYYY-MM-DD birth date (RFC 3339 timestamps are also
// accepted) and returns the age at ref.
func AgeFromISO(birthDate string, ref time.Time) (int, error) {
	birth, err := ParseDate(birthDate)
	if err != nil {
		return 0, err
	}
	return Age(birth, ref), nil
}

// ParseDate parses the backend's date formats.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, &ValidationError{Field: "tanggal_lahir", Value: s, Wrapped: ErrInvalidDate}
}

// BMR returns the basal metabolic rate in kcal/day using Mifflin-St Jeor.
// Genders outside the closed set are rejected.
func BMR(weightKg, heightCm float64, age int, gender models.Gender) (float64, error) {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch gender {
	case models.GenderMale:
		return base + bmrMaleOffset, nil
	case models.GenderFemale:
		return base + bmrFemaleOffset, nil
	}
	return 0, &ValidationError{Field: "jenis_kelamin", Value: string(gender), Wrapped: ErrInvalidGender}
}

// ActivityMultiplier returns the TDEE multiplier for level, falling back to
// DefaultActivityMultiplier for unknown levels.
func ActivityMultiplier(level models.ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return DefaultActivityMultiplier
}

// TDEE returns the total daily energy expenditure.
func TDEE(bmr float64, level models.ActivityLevel) float64 {
	return bmr * ActivityMultiplier(level)
}

// Targets is the daily intake recommendation for a goal.
type Targets struct {
	Maintenance float64 // kcal/day, equal to TDEE
	Target      float64 // kcal/day after the goal adjustment
	ProteinG    int
	CarbsG      int
	FatG        int
}

// CalorieTargets adjusts tdee for the goal and splits the target into
// macronutrient grams. Each macro is rounded independently, so the grams
// need not add back to the target exactly.
func CalorieTargets(tdee float64, goal models.FitnessGoal) Targets {
	target := tdee
	switch goal {
	case models.GoalLoseWeight:
		target = tdee - LoseWeightDeficit
	case models.GoalGainMuscle:
		target = tdee + GainMuscleSurplus
	}

	return Targets{
		Maintenance: tdee,
		Target:      target,
		ProteinG:    grams(target*proteinShare, kcalPerGramProtein),
		CarbsG:      grams(target*carbsShare, kcalPerGramCarbs),
		FatG:        grams(target*fatShare, kcalPerGramFat),
	}
}

func grams(kcal, perGram float64) int {
	g := math.Round(kcal / perGram)
	if g < 0 {
		return 0
	}
	return int(g)
}
