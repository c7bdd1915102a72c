package wizard

import (
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/sipolgar/sipolgar/internal/ui"
	"github.com/sipolgar/sipolgar/pkg/models"
)

// Field describes one text input of a Prompt.
type Field struct {
	Title    string
	Secret   bool
	Value    *string
	Validate func(string) error
}

// Prompt asks every field in a single form.
func Prompt(theme *ui.Theme, fields ...Field) error {
	inputs := make([]huh.Field, 0, len(fields))
	for _, f := range fields {
		in := huh.NewInput().Title(f.Title).Value(f.Value)
		if f.Secret {
			in = in.EchoMode(huh.EchoModePassword)
		}
		if f.Validate != nil {
			in = in.Validate(f.Validate)
		}
		inputs = append(inputs, in)
	}
	form := huh.NewForm(huh.NewGroup(inputs...)).
		WithTheme(NewFormTheme(theme)).
		WithAccessible(theme.NoColor)
	if err := form.Run(); err != nil {
		return formError(err)
	}
	return nil
}

// Confirm asks a yes/no question.
func Confirm(theme *ui.Theme, title string) (bool, error) {
	var ok bool
	form := huh.NewForm(huh.NewGroup(huh.NewConfirm().Title(title).Value(&ok))).
		WithTheme(NewFormTheme(theme)).
		WithAccessible(theme.NoColor)
	if err := form.Run(); err != nil {
		return false, formError(err)
	}
	return ok, nil
}

// UnitOptions turns organisational units into select options keyed by ID.
func UnitOptions(units []models.SatuanKerja, label func(string) string) []Option {
	opts := make([]Option, 0, len(units))
	for _, u := range units {
		opts = append(opts, Option{Label: label(u.NamaSatuanKerja), Value: strconv.FormatInt(u.ID, 10)})
	}
	return opts
}

// Select asks for one of opts and returns its value.
func Select(theme *ui.Theme, title string, opts []Option) (string, error) {
	if len(opts) == 0 {
		return "", ErrNoQuestions
	}
	var v string
	hopts := make([]huh.Option[string], len(opts))
	for i, o := range opts {
		hopts[i] = huh.NewOption(o.Label, o.Value)
	}
	form := huh.NewForm(huh.NewGroup(huh.NewSelect[string]().Title(title).Options(hopts...).Value(&v))).
		WithTheme(NewFormTheme(theme)).
		WithAccessible(theme.NoColor)
	if err := form.Run(); err != nil {
		return "", formError(err)
	}
	return v, nil
}
