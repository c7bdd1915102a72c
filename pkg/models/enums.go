package models

// Gender is the closed set of values accepted for jenis_kelamin.
type Gender string

const (
	// GenderMale is the backend value for male personnel.
	GenderMale Gender = "Laki-laki"
	// GenderFemale is the backend value for female personnel.
	GenderFemale Gender = "Perempuan"
)

// ValidGenders returns all valid gender values.
func ValidGenders() []Gender {
	return []Gender{GenderMale, GenderFemale}
}

// IsValid checks if the gender is one of the known values.
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale:
		return true
	}
	return false
}

// Label returns the display label. The backend values are already
// human-readable, so this is the value itself.
func (g Gender) Label() string {
	return string(g)
}

// FitnessGoal is the personnel's declared training goal.
type FitnessGoal string

const (
	GoalLoseWeight     FitnessGoal = "lose_weight"
	GoalGainMuscle     FitnessGoal = "gain_muscle"
	GoalMaintain       FitnessGoal = "maintain"
	GoalImproveFitness FitnessGoal = "improve_fitness"
)

// ValidFitnessGoals returns all valid fitness goal values in display order.
func ValidFitnessGoals() []FitnessGoal {
	return []FitnessGoal{GoalLoseWeight, GoalGainMuscle, GoalMaintain, GoalImproveFitness}
}

// IsValid checks if the goal is one of the known values.
func (g FitnessGoal) IsValid() bool {
	switch g {
	case GoalLoseWeight, GoalGainMuscle, GoalMaintain, GoalImproveFitness:
		return true
	}
	return false
}

// Label returns the Indonesian display label for the goal.
func (g FitnessGoal) Label() string {
	switch g {
	case GoalLoseWeight:
		return "Menurunkan Berat Badan"
	case GoalGainMuscle:
		return "Menambah Massa Otot"
	case GoalMaintain:
		return "Menjaga Berat Badan"
	case GoalImproveFitness:
		return "Meningkatkan Kebugaran"
	}
	return string(g)
}

// ActivityLevel describes how often the personnel exercises.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// ValidActivityLevels returns all valid activity levels, least active first.
func ValidActivityLevels() []ActivityLevel {
	return []ActivityLevel{ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive}
}

// IsValid checks if the activity level is one of the known values.
func (a ActivityLevel) IsValid() bool {
	switch a {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive:
		return true
	}
	return false
}

// Label returns the Indonesian display label for the activity level.
func (a ActivityLevel) Label() string {
	switch a {
	case ActivitySedentary:
		return "Jarang Berolahraga"
	case ActivityLight:
		return "Olahraga Ringan (1-2 hari/minggu)"
	case ActivityModerate:
		return "Olahraga Sedang (3-5 hari/minggu)"
	case ActivityActive:
		return "Olahraga Aktif (6-7 hari/minggu)"
	case ActivityVeryActive:
		return "Sangat Aktif (Atlet/Pelatihan Intensif)"
	}
	return string(a)
}

// Theme is the personnel's colour theme preference.
type Theme string

const (
	ThemeDefault Theme = "default"
	ThemeDark    Theme = "dark"
	ThemeBlue    Theme = "blue"
	ThemeGreen   Theme = "green"
)

// ValidThemes returns all valid theme names.
func ValidThemes() []Theme {
	return []Theme{ThemeDefault, ThemeDark, ThemeBlue, ThemeGreen}
}

// IsValid checks if the theme is one of the known values.
func (t Theme) IsValid() bool {
	switch t {
	case ThemeDefault, ThemeDark, ThemeBlue, ThemeGreen:
		return true
	}
	return false
}
