package wizard

import (
	"strconv"

	"github.com/sipolgar/sipolgar/internal/fitness"
	"github.com/sipolgar/sipolgar/pkg/models"
)

// OnboardingQuestions returns the onboarding questions, pre-filled from the
// current personnel record. Gender and birth date are only asked when the
// record lacks them, since registration normally collects both.
func OnboardingQuestions(current *models.Personel) []Question {
	var p models.Personel
	if current != nil {
		p = *current
	}

	qs := []Question{
		{
			ID:          IDHeight,
			Type:        QuestionTypeInput,
			Title:       "Tinggi badan (cm)",
			Description: "Contoh: 170",
			Default:     formatFloat(p.TinggiBadan),
			Required:    true,
		},
		{
			ID:          IDWeight,
			Type:        QuestionTypeInput,
			Title:       "Berat badan (kg)",
			Description: "Contoh: 65.5",
			Default:     formatFloat(p.BeratBadan),
			Required:    true,
		},
	}

	if !p.JenisKelamin.IsValid() {
		opts := make([]Option, 0, 2)
		for _, g := range models.ValidGenders() {
			opts = append(opts, Option{Label: g.Label(), Value: string(g)})
		}
		qs = append(qs, Question{
			ID:       IDGender,
			Type:     QuestionTypeSelect,
			Title:    "Jenis kelamin",
			Options:  opts,
			Required: true,
		})
	}
	if p.TanggalLahir == "" {
		qs = append(qs, Question{
			ID:          IDBirthDate,
			Type:        QuestionTypeInput,
			Title:       "Tanggal lahir",
			Description: "Format YYYY-MM-DD",
			Required:    true,
		})
	}

	activity := make([]Option, 0, 5)
	for _, a := range models.ValidActivityLevels() {
		activity = append(activity, Option{Label: a.Label(), Value: string(a)})
	}
	goals := make([]Option, 0, 4)
	for _, g := range models.ValidFitnessGoals() {
		goals = append(goals, Option{Label: g.Label(), Value: string(g)})
	}

	return append(qs,
		Question{
			ID:          IDActivity,
			Type:        QuestionTypeSelect,
			Title:       "Tingkat aktivitas",
			Description: "Seberapa sering Anda berolahraga?",
			Options:     activity,
			Default:     stringOr(string(p.ActivityLevel), string(fitness.DefaultActivityLevel)),
		},
		Question{
			ID:      IDGoal,
			Type:    QuestionTypeSelect,
			Title:   "Tujuan kebugaran",
			Options: goals,
			Default: stringOr(string(p.FitnessGoal), string(fitness.DefaultFitnessGoal)),
		},
	)
}

func formatFloat(v *float64) string {
	if v == nil || *v == 0 {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func stringOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
