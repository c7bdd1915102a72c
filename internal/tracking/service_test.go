package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/sipolgar/sipolgar/internal/api"
	"github.com/sipolgar/sipolgar/internal/apitest"
	"github.com/sipolgar/sipolgar/internal/fitness"
	"github.com/sipolgar/sipolgar/pkg/models"
)

func newService(t *testing.T) (*Service, *apitest.Backend, int64) {
	t.Helper()
	b := apitest.New(t)
	id := b.AddAccount("budi", "rahasia123", models.UserProfile{Name: "Budi", Email: "budi@example.id"})
	tok, _, err := b.IssueToken("budi")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	client := api.New(b.URL(), api.WithTokenSource(api.StaticToken(tok)))
	svc := NewService(client, zaptest.NewLogger(t))
	svc.now = func() time.Time { return time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC) }
	return svc, b, id
}

func TestWorkouts(t *testing.T) {
	t.Parallel()

	svc, b, _ := newService(t)
	b.SetWorkouts(
		models.Workout{ID: 1, NamaLatihan: "Push up", DurationSeconds: 90, CaloriesPerSecond: "0.5"},
		models.Workout{ID: 2, NamaLatihan: "Old", IsDeleted: true},
		models.Workout{ID: 3, NamaLatihan: "Plank", DurationSeconds: 60, CaloriesPerSecond: "n/a"},
	)

	list, err := svc.Workouts(context.Background())
	if err != nil {
		t.Fatalf("Workouts: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2 (deleted skipped)", len(list))
	}
	if list[0].Minutes != 1 || list[0].Calories != 45 || !list[0].CaloriesKnown {
		t.Errorf("push up = %+v, want 1 min 45 kcal", list[0])
	}
	if list[1].CaloriesKnown {
		t.Error("unparseable rate reported as known")
	}

	w, err := svc.Workout(context.Background(), 3)
	if err != nil {
		t.Fatalf("Workout: %v", err)
	}
	if w.NamaLatihan != "Plank" || w.Minutes != 1 {
		t.Errorf("Workout(3) = %+v", w)
	}
}

func TestRecordWeight_FirstEntryIsWeekOne(t *testing.T) {
	t.Parallel()

	svc, b, id := newService(t)
	entry, err := svc.RecordWeight(context.Background(), 72.5, time.Time{})
	if err != nil {
		t.Fatalf("RecordWeight: %v", err)
	}
	if entry.Week != 1 {
		t.Errorf("Week = %d, want 1", entry.Week)
	}
	if entry.Date != "2024-06-03" {
		t.Errorf("Date = %q, want today", entry.Date)
	}
	if got := b.Weights(id); len(got) != 1 {
		t.Errorf("backend has %d entries, want 1", len(got))
	}
}

func TestRecordWeight_NextWeek(t *testing.T) {
	t.Parallel()

	svc, b, id := newService(t)
	b.SetWeights(id,
		models.WeightEntry{ID: 1, Week: 1, WeightKg: 75, Date: "2024-05-01"},
		models.WeightEntry{ID: 2, Week: 4, WeightKg: 73, Date: "2024-05-22"},
	)
	entry, err := svc.RecordWeight(context.Background(), 72, time.Date(2024, 5, 29, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("RecordWeight: %v", err)
	}
	if entry.Week != 5 {
		t.Errorf("Week = %d, want 5", entry.Week)
	}
}

func TestRecordWeight_Invalid(t *testing.T) {
	t.Parallel()

	svc, b, _ := newService(t)
	for _, kg := range []float64{0, -3} {
		if _, err := svc.RecordWeight(context.Background(), kg, time.Time{}); !errors.Is(err, ErrInvalidWeight) {
			t.Errorf("RecordWeight(%v) error = %v, want ErrInvalidWeight", kg, err)
		}
	}
	if n := len(b.Requests()); n != 0 {
		t.Errorf("requests = %d, want 0", n)
	}
}

func TestWeights(t *testing.T) {
	t.Parallel()

	svc, b, id := newService(t)
	b.SetWeights(id,
		models.WeightEntry{Week: 3, WeightKg: 70, Date: "2024-05-15"},
		models.WeightEntry{Week: 1, WeightKg: 74, Date: "2024-05-01"},
		models.WeightEntry{Week: 2, WeightKg: 72, Date: "2024-05-08"},
	)
	log, err := svc.Weights(context.Background())
	if err != nil {
		t.Fatalf("Weights: %v", err)
	}
	if log.Entries[0].Week != 1 || log.Entries[2].Week != 3 {
		t.Errorf("entries not ordered: %+v", log.Entries)
	}
	if !log.HasTrend || log.Trend.Direction != fitness.Down || log.Trend.ChangeKg != -4 {
		t.Errorf("trend = %+v", log.Trend)
	}
	if log.NextWeek != 4 {
		t.Errorf("NextWeek = %d, want 4", log.NextWeek)
	}
}

func TestWeights_BackdatedEntry(t *testing.T) {
	t.Parallel()

	svc, b, id := newService(t)
	b.SetWeights(id,
		models.WeightEntry{Week: 1, WeightKg: 70, Date: "2024-06-10"},
		models.WeightEntry{Week: 2, WeightKg: 72, Date: "2024-06-01"},
	)
	log, err := svc.Weights(context.Background())
	if err != nil {
		t.Fatalf("Weights: %v", err)
	}
	if log.Entries[0].Date != "2024-06-01" || log.Entries[1].Date != "2024-06-10" {
		t.Errorf("entries not ordered by date: %+v", log.Entries)
	}
	if log.Trend.Latest.Date != "2024-06-10" || log.Trend.Direction != fitness.Down {
		t.Errorf("trend = %+v, want latest 2024-06-10 going down", log.Trend)
	}
	if log.NextWeek != 3 {
		t.Errorf("NextWeek = %d, want 3", log.NextWeek)
	}
}

func TestWeights_Empty(t *testing.T) {
	t.Parallel()

	svc, _, _ := newService(t)
	log, err := svc.Weights(context.Background())
	if err != nil {
		t.Fatalf("Weights: %v", err)
	}
	if log.HasTrend || log.NextWeek != 1 || len(log.Entries) != 0 {
		t.Errorf("log = %+v", log)
	}
}
