package fitness

import (
	"testing"

	"github.com/sipolgar/sipolgar/pkg/models"
)

func TestNextWeek(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []models.WeightEntry
		want    int
	}{
		{"empty", nil, 1},
		{"week zero recorded", []models.WeightEntry{{Week: 0}}, 1},
		{"unordered", []models.WeightEntry{{Week: 3}, {Week: 1}, {Week: 2}}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextWeek(tt.entries); got != tt.want {
				t.Errorf("NextWeek() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTrend(t *testing.T) {
	t.Parallel()

	if _, ok := Trend(nil); ok {
		t.Error("Trend(nil) should report no data")
	}

	entries := []models.WeightEntry{
		{Week: 3, Date: "2024-03-15", WeightKg: 68},
		{Week: 1, Date: "2024-03-01", WeightKg: 71},
		{Week: 2, Date: "2024-03-08", WeightKg: 69.5},
	}
	tr, ok := Trend(entries)
	if !ok {
		t.Fatal("expected trend")
	}
	if tr.First.Week != 1 || tr.Latest.Week != 3 {
		t.Errorf("First/Latest weeks = %d/%d, want 1/3", tr.First.Week, tr.Latest.Week)
	}
	if !approx(tr.ChangeKg, -3) {
		t.Errorf("ChangeKg = %v, want -3", tr.ChangeKg)
	}
	if tr.Direction != Down {
		t.Errorf("Direction = %v, want down", tr.Direction)
	}
	if tr.Count != 3 {
		t.Errorf("Count = %d, want 3", tr.Count)
	}
	if entries[0].Week != 3 {
		t.Error("Trend must not reorder the caller's slice")
	}
}

func TestTrendOrdersByDate(t *testing.T) {
	t.Parallel()

	// A backdated weigh-in carries the highest week number.
	entries := []models.WeightEntry{
		{Week: 1, Date: "2024-06-10", WeightKg: 70},
		{Week: 2, Date: "2024-06-01", WeightKg: 72},
	}
	tr, ok := Trend(entries)
	if !ok {
		t.Fatal("expected trend")
	}
	if tr.First.Date != "2024-06-01" || tr.Latest.Date != "2024-06-10" {
		t.Errorf("First/Latest dates = %s/%s, want 2024-06-01/2024-06-10", tr.First.Date, tr.Latest.Date)
	}
	if !approx(tr.ChangeKg, -2) {
		t.Errorf("ChangeKg = %v, want -2", tr.ChangeKg)
	}
	if tr.Direction != Down {
		t.Errorf("Direction = %v, want down", tr.Direction)
	}
}

func TestSortEntries(t *testing.T) {
	t.Parallel()

	got := SortEntries([]models.WeightEntry{
		{ID: 1, Week: 4, Date: ""},
		{ID: 2, Week: 3, Date: "2024-06-08T07:00:00Z"},
		{ID: 3, Week: 2, Date: "2024-06-08"},
		{ID: 4, Week: 1, Date: "2024-06-15"},
	})
	want := []int64{3, 2, 4, 1}
	for i, e := range got {
		if e.ID != want[i] {
			t.Errorf("position %d: ID = %d, want %d", i, e.ID, want[i])
		}
	}
}
