// Package wizard runs the onboarding questionnaire and the small huh forms
// the CLI uses for credentials.
package wizard

import (
	"errors"

	"github.com/sipolgar/sipolgar/internal/account"
	"github.com/sipolgar/sipolgar/pkg/models"
)

// Question IDs. They double as the personnel field names.
const (
	IDHeight    = "tinggi_badan"
	IDWeight    = "berat_badan"
	IDGender    = "jenis_kelamin"
	IDBirthDate = "tanggal_lahir"
	IDActivity  = "activity_level"
	IDGoal      = "fitness_goal"
)

// Result holds the answers of the onboarding wizard.
type Result struct {
	HeightCm  float64
	WeightKg  float64
	Gender    models.Gender
	BirthDate string
	Activity  models.ActivityLevel
	Goal      models.FitnessGoal
}

// Input converts the answers into the account service's onboarding input.
func (r *Result) Input() account.OnboardingInput {
	return account.OnboardingInput{
		HeightCm:      r.HeightCm,
		WeightKg:      r.WeightKg,
		FitnessGoal:   r.Goal,
		ActivityLevel: r.Activity,
		JenisKelamin:  r.Gender,
		TanggalLahir:  r.BirthDate,
	}
}

// QuestionType represents the type of wizard question.
type QuestionType int

const (
	// QuestionTypeSelect is a single-choice selection question.
	QuestionTypeSelect QuestionType = iota
	// QuestionTypeInput is a text input question.
	QuestionTypeInput
)

// Question defines a single wizard question.
type Question struct {
	ID          string
	Type        QuestionType
	Title       string
	Description string
	Options     []Option // select questions only
	Default     string
	Required    bool
}

// Option represents a selectable option.
type Option struct {
	Label string
	Value string
}

// Error definitions for the wizard package.
var (
	// ErrCancelled is returned when the user aborts a form.
	ErrCancelled = errors.New("wizard cancelled by user")
	// ErrNoQuestions is returned when no questions are provided.
	ErrNoQuestions = errors.New("no questions provided")
	// ErrMissingAnswer is returned when a required question has no answer.
	ErrMissingAnswer = errors.New("missing answer")
)
