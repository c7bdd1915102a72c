package fitness

import (
	"cmp"
	"slices"
	"time"

	"github.com/sipolgar/sipolgar/pkg/models"
)

// FirstWeek is the lowest week number the backend accepts.
const FirstWeek = 1

// NextWeek returns the week number for a new weigh-in: one past the highest
// recorded week, never below FirstWeek.
func NextWeek(entries []models.WeightEntry) int {
	next := FirstWeek
	for _, e := range entries {
		if e.Week+1 > next {
			next = e.Week + 1
		}
	}
	return next
}

// Direction summarises the sign of a weight change.
type Direction int

const (
	Steady Direction = iota
	Down
	Up
)

// String returns a short label for the direction.
func (d Direction) String() string {
	switch d {
	case Down:
		return "down"
	case Up:
		return "up"
	}
	return "steady"
}

// WeightTrend compares the earliest and latest weigh-ins.
type WeightTrend struct {
	First     models.WeightEntry
	Latest    models.WeightEntry
	ChangeKg  float64
	Direction Direction
	Count     int
}

// Trend orders entries by weigh-in date and compares the two ends.
// It returns false when there are no entries.
func Trend(entries []models.WeightEntry) (WeightTrend, bool) {
	if len(entries) == 0 {
		return WeightTrend{}, false
	}
	sorted := SortEntries(entries)

	first, latest := sorted[0], sorted[len(sorted)-1]
	change := latest.WeightKg - first.WeightKg
	dir := Steady
	switch {
	case change < 0:
		dir = Down
	case change > 0:
		dir = Up
	}
	return WeightTrend{
		First:     first,
		Latest:    latest,
		ChangeKg:  change,
		Direction: dir,
		Count:     len(sorted),
	}, true
}

// SortEntries returns a copy of entries ordered by weigh-in date, with the
// week number breaking ties. Entries whose date does not parse sort after
// the dated ones.
func SortEntries(entries []models.WeightEntry) []models.WeightEntry {
	type keyed struct {
		entry models.WeightEntry
		day   time.Time
		dated bool
	}
	ks := make([]keyed, len(entries))
	for i, e := range entries {
		day, err := ParseDate(e.Date)
		ks[i] = keyed{entry: e, day: day, dated: err == nil}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		switch {
		case a.dated && !b.dated:
			return -1
		case !a.dated && b.dated:
			return 1
		}
		if c := a.day.Compare(b.day); c != 0 {
			return c
		}
		return cmp.Compare(a.entry.Week, b.entry.Week)
	})
	sorted := make([]models.WeightEntry, len(ks))
	for i, k := range ks {
		sorted[i] = k.entry
	}
	return sorted
}
