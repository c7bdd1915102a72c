package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sipolgar/sipolgar/internal/fitness"
	"github.com/sipolgar/sipolgar/internal/tracking"
	"github.com/sipolgar/sipolgar/pkg/models"
)

func plainRenderer() (*Renderer, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewRenderer(&buf, NewTheme(models.ThemeDefault, true)), &buf
}

func headless() *HeadlessManager {
	hm := NewHeadlessManager()
	hm.ForceHeadless(true)
	return hm
}

func TestNewTheme_UnknownFallsBackToDefault(t *testing.T) {
	t.Parallel()

	th := NewTheme(models.Theme("purple"), false)
	if th.Name != models.ThemeDefault {
		t.Errorf("Name = %q, want %q", th.Name, models.ThemeDefault)
	}
	if th.Colors.Primary != "#3b82f6" {
		t.Errorf("Primary = %q, want default blue", th.Colors.Primary)
	}
}

func TestNewTheme_EveryThemeHasPalette(t *testing.T) {
	t.Parallel()

	for _, name := range models.ValidThemes() {
		th := NewTheme(name, false)
		if th.Colors.Primary == "" || th.Colors.Error == "" {
			t.Errorf("theme %q has an incomplete palette: %+v", name, th.Colors)
		}
	}
}

func TestTheme_CategoryUsesIndonesianLabel(t *testing.T) {
	t.Parallel()

	th := NewTheme(models.ThemeDefault, true)
	if got := th.Category(fitness.Obese); got != "Obesitas" {
		t.Errorf("Category(Obese) = %q, want %q", got, "Obesitas")
	}
}

func TestHeadlessManager_Force(t *testing.T) {
	t.Parallel()

	hm := NewHeadlessManager()
	hm.ForceHeadless(false)
	if hm.IsHeadless() {
		t.Error("forced interactive reported headless")
	}
	hm.ForceHeadless(true)
	if !hm.IsHeadless() {
		t.Error("forced headless reported interactive")
	}

	hm.ClearForce()
	hm.in, hm.out = nil, nil
	if !hm.IsHeadless() {
		t.Error("no terminal should be headless")
	}
}

func TestBMIGauge_MarkerPosition(t *testing.T) {
	t.Parallel()

	r, _ := plainRenderer()
	tests := []struct {
		bmi  float64
		cell int
	}{
		{10, 0},
		{15, 0},
		{25, 19},
		{35, gaugeWidth - 1},
		{50, gaugeWidth - 1},
	}
	for _, tt := range tests {
		bar := strings.TrimSuffix(strings.TrimPrefix(r.BMIGauge(tt.bmi), "15 "), " 35")
		cells := []rune(bar)
		if len(cells) != gaugeWidth {
			t.Fatalf("gauge has %d cells, want %d", len(cells), gaugeWidth)
		}
		if cells[tt.cell] != '▲' {
			t.Errorf("BMIGauge(%v) marker not at cell %d: %s", tt.bmi, tt.cell, bar)
		}
	}
}

func TestRenderer_Stats(t *testing.T) {
	t.Parallel()

	r, buf := plainRenderer()
	stats := &fitness.Stats{
		HeightCm: 170, WeightKg: 65, Age: 28,
		BMI: 22.49, Category: fitness.Normal,
		BMR: 1598.75, TDEE: 2478.06,
		Activity: models.ActivityModerate, Goal: models.GoalMaintain,
		Targets: fitness.CalorieTargets(2478.06, models.GoalMaintain),
	}
	r.Stats("Budi Santoso", stats)

	out := buf.String()
	for _, want := range []string{"Budi Santoso", "22.5", "Normal", "28 tahun", "2478 kkal", "Menjaga Berat Badan", "Protein"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderer_ProfileTitleCasesUnit(t *testing.T) {
	t.Parallel()

	r, buf := plainRenderer()
	u := &models.UserProfile{
		Name: "Budi", Username: "budi", Email: "budi@example.id",
		Personel: &models.Personel{NamaLengkap: "Budi Santoso", TinggiBadan: models.Ptr(170.0)},
	}
	r.Profile(u, &models.SatuanKerja{ID: 3, NamaSatuanKerja: "POLRES MALANG KOTA"})

	out := buf.String()
	if !strings.Contains(out, "Polres Malang Kota") {
		t.Errorf("unit not title-cased:\n%s", out)
	}
	if !strings.Contains(out, "170 cm") {
		t.Errorf("height missing:\n%s", out)
	}
}

func TestRenderer_Workouts(t *testing.T) {
	t.Parallel()

	r, buf := plainRenderer()
	r.Workouts([]tracking.WorkoutSummary{
		{Workout: models.Workout{ID: 1, NamaLatihan: "Push Up"}, Minutes: 5, Calories: 36, CaloriesKnown: true},
		{Workout: models.Workout{ID: 2, NamaLatihan: "Lari"}, Minutes: 30},
	})

	out := buf.String()
	for _, want := range []string{"Push Up", "5 menit", "36 kkal", "Lari"} {
		if !strings.Contains(out, want) {
			t.Errorf("workouts output missing %q:\n%s", want, out)
		}
	}

	r2, buf2 := plainRenderer()
	r2.Workouts(nil)
	if !strings.Contains(buf2.String(), "Belum ada latihan") {
		t.Errorf("empty list output = %q", buf2.String())
	}
}

func TestRenderer_WorkoutMarkdown(t *testing.T) {
	t.Parallel()

	r, buf := plainRenderer()
	w := &tracking.WorkoutSummary{
		Workout: models.Workout{NamaLatihan: "Sit Up", Description: "# Ketentuan\n\n- Lakukan **30** kali"},
		Minutes: 2,
	}
	if err := r.Workout(w); err != nil {
		t.Fatalf("Workout: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Ketentuan") || !strings.Contains(out, "30") {
		t.Errorf("description not rendered:\n%s", out)
	}
}

func TestRenderer_Weights(t *testing.T) {
	t.Parallel()

	entries := []models.WeightEntry{
		{Week: 1, Date: "2024-05-01", WeightKg: 72},
		{Week: 2, Date: "2024-05-08", WeightKg: 70.5},
	}
	trend, ok := fitness.Trend(entries)
	r, buf := plainRenderer()
	r.Weights(&tracking.WeightLog{Entries: entries, Trend: trend, HasTrend: ok, NextWeek: 3})

	out := buf.String()
	for _, want := range []string{"70.5 kg", "-1.5 kg", "Minggu berikutnya: 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("weights output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderer_StatusSortsFlags(t *testing.T) {
	t.Parallel()

	r, buf := plainRenderer()
	r.Status("ONBOARDING", "sipolgar onboarding", map[string]string{
		"passwordChanged":     "true",
		"onboardingCompleted": "false",
	})
	out := buf.String()
	if strings.Index(out, "onboardingCompleted") > strings.Index(out, "passwordChanged") {
		t.Errorf("flags not sorted:\n%s", out)
	}
	if !strings.Contains(out, "sipolgar onboarding") {
		t.Errorf("next command missing:\n%s", out)
	}
}

func TestRun_HeadlessPrintsTitle(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	wantErr := errors.New("boom")
	err := Run(context.Background(), NewTheme(models.ThemeDefault, false), headless(), &buf, "Masuk...", func(context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Run() = %v, want %v", err, wantErr)
	}
	if buf.String() != "Masuk...\n" {
		t.Errorf("output = %q, want title line", buf.String())
	}
}

func TestHeadlessSpinner_SilentAfterStop(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := newHeadlessSpinner("a", &buf)
	s.SetTitle("b")
	s.Stop()
	s.SetTitle("c")
	if buf.String() != "a\nb\n" {
		t.Errorf("output = %q, want %q", buf.String(), "a\nb\n")
	}
}

func TestInteractiveSpinner_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newInteractiveSpinner(NewTheme(models.ThemeDark, false), "Memuat",
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
	)
	s.SetTitle("Masih memuat")

	done := make(chan struct{})
	go func() {
		s.Stop()
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("spinner did not stop within 2s")
	}
}

func TestSpinnerModel_Update(t *testing.T) {
	t.Parallel()

	m := newSpinnerModel(NewTheme(models.ThemeGreen, false), "satu")
	next, _ := m.Update(spinnerTitleMsg("dua"))
	if got := next.(spinnerModel).title; got != "dua" {
		t.Errorf("title = %q, want %q", got, "dua")
	}
	next, cmd := next.Update(spinnerStopMsg{})
	if !next.(spinnerModel).done || cmd == nil {
		t.Error("stop message should finish the model and quit")
	}
	if next.View() != "" {
		t.Errorf("View() after stop = %q, want empty", next.View())
	}
}
