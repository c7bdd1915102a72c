package wizard

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sipolgar/sipolgar/internal/account"
	"github.com/sipolgar/sipolgar/internal/fitness"
	"github.com/sipolgar/sipolgar/internal/ui"
	"github.com/sipolgar/sipolgar/pkg/models"
)

// Run asks every question and returns the answers.
// Each question runs as its own huh.Form so a long option list never shares
// a viewport with another field.
func Run(questions []Question, theme *ui.Theme) (*Result, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	result := &Result{}
	ht := NewFormTheme(theme)
	for i := range questions {
		form := huh.NewForm(huh.NewGroup(buildField(&questions[i], result))).
			WithTheme(ht).
			WithAccessible(theme.NoColor)
		if err := form.Run(); err != nil {
			return nil, formError(err)
		}
	}
	return result, nil
}

// Answer fills a Result without prompting. Missing answers fall back to each
// question's default; a required question with neither is an error.
func Answer(questions []Question, answers map[string]string) (*Result, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	result := &Result{}
	for i := range questions {
		q := &questions[i]
		v := strings.TrimSpace(answers[q.ID])
		if v == "" {
			v = q.Default
		}
		if v == "" {
			if q.Required {
				return nil, fmt.Errorf("%w: %s", ErrMissingAnswer, q.ID)
			}
			continue
		}
		if q.Type == QuestionTypeSelect && !hasOption(q.Options, v) {
			return nil, fmt.Errorf("%s: unknown option %q", q.ID, v)
		}
		if err := saveAnswer(q.ID, v, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func hasOption(opts []Option, v string) bool {
	return slices.ContainsFunc(opts, func(o Option) bool { return o.Value == v })
}

func formError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return fmt.Errorf("wizard error: %w", err)
}

func buildField(q *Question, result *Result) huh.Field {
	if q.Type == QuestionTypeSelect {
		return buildSelectField(q, result)
	}
	return buildInputField(q, result)
}

func buildSelectField(q *Question, result *Result) *huh.Select[string] {
	selected := q.Default
	opts := make([]huh.Option[string], len(q.Options))
	for i, o := range q.Options {
		opts[i] = huh.NewOption(o.Label, o.Value)
	}

	return huh.NewSelect[string]().
		Title(q.Title).
		Description(q.Description).
		Options(opts...).
		Value(&selected).
		Validate(func(v string) error {
			return saveAnswer(q.ID, v, result)
		})
}

func buildInputField(q *Question, result *Result) *huh.Input {
	value := q.Default
	inp := huh.NewInput().
		Title(q.Title).
		Description(q.Description).
		Value(&value)
	if q.Default != "" {
		inp = inp.Placeholder(q.Default)
	}

	return inp.Validate(func(v string) error {
		v = strings.TrimSpace(v)
		if v == "" {
			v = q.Default
		}
		if v == "" {
			if q.Required {
				return errors.New("wajib diisi")
			}
			return nil
		}
		return saveAnswer(q.ID, v, result)
	})
}

// saveAnswer parses and validates value and stores it in result.
func saveAnswer(id, value string, result *Result) error {
	switch id {
	case IDHeight:
		cm, err := parseNumber(value)
		if err != nil {
			return err
		}
		if err := account.ValidateHeight(cm); err != nil {
			return err
		}
		result.HeightCm = cm
	case IDWeight:
		kg, err := parseNumber(value)
		if err != nil {
			return err
		}
		if err := account.ValidateWeight(kg); err != nil {
			return err
		}
		result.WeightKg = kg
	case IDGender:
		g := models.Gender(value)
		if !g.IsValid() {
			return fmt.Errorf("unknown gender %q", value)
		}
		result.Gender = g
	case IDBirthDate:
		d, err := fitness.ParseDate(value)
		if err != nil {
			return err
		}
		result.BirthDate = d.Format("2006-01-02")
	case IDActivity:
		result.Activity = models.ActivityLevel(value)
	case IDGoal:
		result.Goal = models.FitnessGoal(value)
	default:
		return fmt.Errorf("unknown question %q", id)
	}
	return nil
}

// parseNumber accepts a decimal comma as well as a decimal point.
func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("bukan angka: %q", s)
	}
	return f, nil
}

// NewFormTheme maps a ui.Theme onto huh's form styles.
func NewFormTheme(theme *ui.Theme) *huh.Theme {
	if theme.NoColor {
		return huh.ThemeBase()
	}
	t := huh.ThemeBase()
	c := theme.Colors

	primary := lipgloss.Color(c.Primary)
	secondary := lipgloss.Color(c.Secondary)
	green := lipgloss.Color(c.Success)
	red := lipgloss.Color(c.Error)
	muted := lipgloss.Color(c.Muted)
	border := lipgloss.Color(c.Border)

	t.Focused.Base = t.Focused.Base.BorderForeground(border)
	t.Focused.Card = t.Focused.Base
	t.Focused.Title = t.Focused.Title.Foreground(primary).Bold(true)
	t.Focused.NoteTitle = t.Focused.NoteTitle.Foreground(primary).Bold(true).MarginBottom(1)
	t.Focused.Description = t.Focused.Description.Foreground(muted)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(red)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(red)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(primary).SetString("▸ ")
	t.Focused.NextIndicator = t.Focused.NextIndicator.Foreground(primary)
	t.Focused.PrevIndicator = t.Focused.PrevIndicator.Foreground(primary)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(green)
	t.Focused.SelectedPrefix = lipgloss.NewStyle().Foreground(green).SetString("◆ ")
	t.Focused.UnselectedPrefix = lipgloss.NewStyle().Foreground(muted).SetString("◇ ")
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(primary)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(muted)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(secondary)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(lipgloss.Color("#FFFFFF")).Background(primary)
	t.Focused.Next = t.Focused.FocusedButton

	t.Blurred = t.Focused
	t.Blurred.Base = t.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	t.Blurred.Card = t.Blurred.Base
	t.Blurred.NextIndicator = lipgloss.NewStyle()
	t.Blurred.PrevIndicator = lipgloss.NewStyle()

	t.Group.Title = t.Focused.Title
	t.Group.Description = t.Focused.Description
	return t
}
