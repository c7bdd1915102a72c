package ui

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sipolgar/sipolgar/internal/fitness"
	"github.com/sipolgar/sipolgar/internal/tracking"
	"github.com/sipolgar/sipolgar/pkg/models"
)

// gaugeWidth is the number of cells in the BMI gauge.
const gaugeWidth = 40

// Renderer writes themed views to an output stream.
type Renderer struct {
	w      io.Writer
	theme  *Theme
	titler cases.Caser
}

// NewRenderer returns a Renderer writing to w.
func NewRenderer(w io.Writer, theme *Theme) *Renderer {
	return &Renderer{w: w, theme: theme, titler: cases.Title(language.Indonesian)}
}

// Theme returns the renderer's theme.
func (r *Renderer) Theme() *Theme { return r.theme }

// TitleCase normalises an upper-case backend name such as a unit name for
// display.
func (r *Renderer) TitleCase(s string) string {
	return r.titler.String(strings.ToLower(strings.TrimSpace(s)))
}

func (r *Renderer) println(s string) {
	_, _ = fmt.Fprintln(r.w, s)
}

// Success prints a confirmation line.
func (r *Renderer) Success(format string, args ...any) {
	r.println(r.theme.Success.Render("✓ " + fmt.Sprintf(format, args...)))
}

// Notice prints an informational line.
func (r *Renderer) Notice(format string, args ...any) {
	r.println(r.theme.Muted.Render(fmt.Sprintf(format, args...)))
}

// Error prints msg in the error style.
func (r *Renderer) Error(msg string) {
	r.println(r.theme.Error.Render("✗ " + msg))
}

func (r *Renderer) field(label, value string) string {
	return r.theme.Label.Render(fmt.Sprintf("%-18s", label)) + " " + r.theme.Value.Render(value)
}

// BMIGauge draws a bar spanning BMI 15 to 35 with a marker at bmi.
func (r *Renderer) BMIGauge(bmi float64) string {
	pos := int(fitness.BMIScalePosition(bmi) / 100 * float64(gaugeWidth-1))
	var b strings.Builder
	for i := range gaugeWidth {
		if i == pos {
			b.WriteString("▲")
			continue
		}
		b.WriteString("─")
	}
	return r.theme.Muted.Render("15 ") + b.String() + r.theme.Muted.Render(" 35")
}

// Stats prints the fitness summary card.
func (r *Renderer) Stats(name string, s *fitness.Stats) {
	lines := []string{
		r.theme.Title.Render("Ringkasan Kebugaran"),
	}
	if name != "" {
		lines = append(lines, r.theme.Muted.Render(name))
	}
	lines = append(lines,
		"",
		r.field("Tinggi badan", fmt.Sprintf("%.0f cm", s.HeightCm)),
		r.field("Berat badan", fmt.Sprintf("%.1f kg", s.WeightKg)),
		r.field("Usia", fmt.Sprintf("%d tahun", s.Age)),
		"",
		r.field("BMI", fmt.Sprintf("%.1f", s.BMI))+"  "+r.theme.Category(s.Category),
		r.BMIGauge(s.BMI),
		"",
		r.field("BMR", fmt.Sprintf("%.0f kkal", s.BMR)),
		r.field("TDEE", fmt.Sprintf("%.0f kkal", s.TDEE)),
		r.field("Aktivitas", s.Activity.Label()),
		r.field("Tujuan", s.Goal.Label()),
		"",
		r.theme.Title.Render("Target Harian"),
		r.field("Kalori", fmt.Sprintf("%.0f kkal", s.Targets.Target)),
		r.field("Protein", fmt.Sprintf("%d g", s.Targets.ProteinG)),
		r.field("Lemak", fmt.Sprintf("%d g", s.Targets.FatG)),
		r.field("Karbohidrat", fmt.Sprintf("%d g", s.Targets.CarbsG)),
	)
	r.println(r.theme.Box.Render(strings.Join(lines, "\n")))
}

// Profile prints the account and personnel record. unit may be nil.
func (r *Renderer) Profile(u *models.UserProfile, unit *models.SatuanKerja) {
	lines := []string{
		r.theme.Title.Render("Profil"),
		r.field("Nama", u.Name),
		r.field("Username", u.Username),
		r.field("Email", u.Email),
	}
	if p := u.Personel; p != nil {
		lines = append(lines,
			r.field("Nama lengkap", p.NamaLengkap),
			r.field("No. HP", p.NoHP),
			r.field("Jenis kelamin", p.JenisKelamin.Label()),
			r.field("Tanggal lahir", p.TanggalLahir),
			r.field("Tinggi badan", optional(p.TinggiBadan, "%.0f cm")),
			r.field("Berat badan", optional(p.BeratBadan, "%.1f kg")),
		)
		if p.ActivityLevel != "" {
			lines = append(lines, r.field("Aktivitas", p.ActivityLevel.Label()))
		}
		if p.FitnessGoal != "" {
			lines = append(lines, r.field("Tujuan", p.FitnessGoal.Label()))
		}
	}
	if unit != nil {
		lines = append(lines, r.field("Satuan kerja", r.TitleCase(unit.NamaSatuanKerja)))
	}
	r.println(r.theme.Box.Render(strings.Join(lines, "\n")))
}

func optional(v *float64, format string) string {
	if v == nil || *v == 0 {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func (r *Renderer) table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.theme.Muted).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.theme.Title.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	r.println(t.Render())
}

// Workouts prints the workout catalogue.
func (r *Renderer) Workouts(list []tracking.WorkoutSummary) {
	if len(list) == 0 {
		r.Notice("Belum ada latihan.")
		return
	}
	rows := make([][]string, 0, len(list))
	for _, w := range list {
		rows = append(rows, []string{
			strconv.FormatInt(w.ID, 10),
			w.NamaLatihan,
			fmt.Sprintf("%d menit", w.Minutes),
			calories(w),
		})
	}
	r.table([]string{"ID", "Latihan", "Durasi", "Kalori"}, rows)
}

func calories(w tracking.WorkoutSummary) string {
	if !w.CaloriesKnown {
		return "-"
	}
	return fmt.Sprintf("%.0f kkal", w.Calories)
}

// Workout prints one workout with its markdown description.
func (r *Renderer) Workout(w *tracking.WorkoutSummary) error {
	r.println(r.theme.Title.Render(w.NamaLatihan))
	r.println(r.field("Durasi", fmt.Sprintf("%d menit", w.Minutes)))
	r.println(r.field("Estimasi kalori", calories(*w)))
	if w.VideoURL != "" {
		r.println(r.field("Video", w.VideoURL))
	}
	if strings.TrimSpace(w.Description) == "" {
		return nil
	}
	out, err := r.markdown(w.Description)
	if err != nil {
		return fmt.Errorf("render description: %w", err)
	}
	_, _ = io.WriteString(r.w, out)
	return nil
}

func (r *Renderer) markdown(md string) (string, error) {
	style := "light"
	switch {
	case r.theme.NoColor:
		style = "notty"
	case r.theme.Name == models.ThemeDark:
		style = "dark"
	}
	gr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", err
	}
	return gr.Render(md)
}

// Weights prints the weight history and its trend.
func (r *Renderer) Weights(log *tracking.WeightLog) {
	if len(log.Entries) == 0 {
		r.Notice("Belum ada catatan berat badan. Minggu berikutnya: %d", log.NextWeek)
		return
	}
	rows := make([][]string, 0, len(log.Entries))
	for _, e := range log.Entries {
		rows = append(rows, []string{
			strconv.Itoa(e.Week),
			e.Date,
			fmt.Sprintf("%.1f kg", e.WeightKg),
		})
	}
	r.table([]string{"Minggu", "Tanggal", "Berat"}, rows)
	if log.HasTrend {
		r.println(r.trend(log.Trend))
	}
	r.Notice("Minggu berikutnya: %d", log.NextWeek)
}

func (r *Renderer) trend(t fitness.WeightTrend) string {
	msg := fmt.Sprintf("Perubahan %+.1f kg dalam %d catatan", t.ChangeKg, t.Count)
	switch t.Direction {
	case fitness.Down:
		return r.theme.Success.Render("↓ " + msg)
	case fitness.Up:
		return r.theme.Warning.Render("↑ " + msg)
	}
	return r.theme.Muted.Render("→ " + msg)
}

// Units prints organisational units.
func (r *Renderer) Units(units []models.SatuanKerja) {
	if len(units) == 0 {
		r.Notice("Tidak ada satuan kerja.")
		return
	}
	rows := make([][]string, 0, len(units))
	for _, u := range units {
		rows = append(rows, []string{
			strconv.FormatInt(u.ID, 10),
			r.TitleCase(u.NamaSatuanKerja),
			u.Level,
		})
	}
	r.table([]string{"ID", "Satuan Kerja", "Level"}, rows)
}

// Status prints the resolved route and the persisted session flags.
func (r *Renderer) Status(route, next string, flags map[string]string) {
	r.println(r.field("Route", route))
	if next != "" {
		r.println(r.field("Next", next))
	}
	for _, k := range slices.Sorted(maps.Keys(flags)) {
		r.println(r.field(k, flags[k]))
	}
}
