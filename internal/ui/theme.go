// Package ui renders sipolgar output: themed lipgloss styles, spinners for
// in-flight requests, and text views of stats, workouts and weigh-ins.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sipolgar/sipolgar/internal/fitness"
	"github.com/sipolgar/sipolgar/pkg/models"
)

// Palette holds the hex colours of one theme.
type Palette struct {
	Primary   string
	Secondary string
	Accent    string
	Text      string
	Muted     string
	Border    string
	Success   string
	Warning   string
	Error     string
}

var palettes = map[models.Theme]Palette{
	models.ThemeDefault: {
		Primary: "#3b82f6", Secondary: "#10b981", Accent: "#f59e0b",
		Text: "#1f2937", Muted: "#6b7280", Border: "#e5e7eb",
		Success: "#10b981", Warning: "#f59e0b", Error: "#ef4444",
	},
	models.ThemeBlue: {
		Primary: "#2563eb", Secondary: "#06b6d4", Accent: "#ec4899",
		Text: "#1e3a8a", Muted: "#64748b", Border: "#e5e7eb",
		Success: "#10b981", Warning: "#f59e0b", Error: "#ef4444",
	},
	models.ThemeGreen: {
		Primary: "#059669", Secondary: "#6366f1", Accent: "#d946ef",
		Text: "#064e3b", Muted: "#6b7280", Border: "#e5e7eb",
		Success: "#10b981", Warning: "#f59e0b", Error: "#ef4444",
	},
	models.ThemeDark: {
		Primary: "#60a5fa", Secondary: "#4ade80", Accent: "#f472b6",
		Text: "#f9fafb", Muted: "#d1d5db", Border: "#374151",
		Success: "#34d399", Warning: "#fbbf24", Error: "#f87171",
	},
}

// Theme is a resolved palette plus the styles built from it.
type Theme struct {
	Name    models.Theme
	Colors  Palette
	NoColor bool

	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Box     lipgloss.Style
}

// NewTheme builds the styles for name. Unknown names use the default
// palette. With noColor every style is plain text.
func NewTheme(name models.Theme, noColor bool) *Theme {
	if !name.IsValid() {
		name = models.ThemeDefault
	}
	t := &Theme{Name: name, Colors: palettes[name], NoColor: noColor}

	plain := lipgloss.NewStyle()
	if noColor {
		t.Title, t.Label, t.Value, t.Muted = plain.Bold(true), plain, plain, plain
		t.Success, t.Warning, t.Error = plain, plain, plain
		t.Box = plain.Border(lipgloss.NormalBorder()).Padding(0, 1)
		return t
	}

	c := t.Colors
	t.Title = plain.Bold(true).Foreground(lipgloss.Color(c.Primary))
	t.Label = plain.Foreground(lipgloss.Color(c.Muted))
	t.Value = plain.Bold(true)
	t.Muted = plain.Foreground(lipgloss.Color(c.Muted))
	t.Success = plain.Foreground(lipgloss.Color(c.Success))
	t.Warning = plain.Foreground(lipgloss.Color(c.Warning))
	t.Error = plain.Bold(true).Foreground(lipgloss.Color(c.Error))
	t.Box = plain.
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(c.Primary)).
		Padding(0, 1)
	return t
}

// Category renders the Indonesian BMI label coloured by severity.
func (t *Theme) Category(c fitness.BMICategory) string {
	switch c {
	case fitness.Normal:
		return t.Success.Render(c.Label())
	case fitness.Overweight:
		return t.Warning.Render(c.Label())
	default:
		return t.Error.Render(c.Label())
	}
}
