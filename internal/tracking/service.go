// Package tracking serves the training catalogue and the weekly weight log
// of the logged-in personnel.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sipolgar/sipolgar/internal/api"
	"github.com/sipolgar/sipolgar/internal/fitness"
	"github.com/sipolgar/sipolgar/internal/logger"
	"github.com/sipolgar/sipolgar/pkg/models"
)

// ErrInvalidWeight is returned for a non-positive weigh-in.
var ErrInvalidWeight = errors.New("tracking: weight must be a positive number")

// Backend is the part of the API client tracking uses.
type Backend interface {
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	GetWorkout(ctx context.Context, id int64) (*models.Workout, error)
	ListWeights(ctx context.Context) ([]models.WeightEntry, error)
	SaveWeight(ctx context.Context, req api.SaveWeightRequest) (*models.WeightEntry, error)
}

// Service reads workouts and records weigh-ins.
type Service struct {
	api Backend
	log *zap.Logger
	now func() time.Time
}

// NewService returns a Service. A nil logger disables logging.
func NewService(backend Backend, log *zap.Logger) *Service {
	return &Service{api: backend, log: logger.OrNop(log), now: time.Now}
}

// WorkoutSummary is a workout with its derived figures.
type WorkoutSummary struct {
	models.Workout
	Minutes int
	// Calories is zero and CaloriesKnown false when the backend sent an
	// unparseable rate.
	Calories      float64
	CaloriesKnown bool
}

func summarize(w models.Workout, log *zap.Logger) WorkoutSummary {
	s := WorkoutSummary{Workout: w, Minutes: w.DurationMinutes()}
	kcal, err := w.EstimatedCalories()
	if err != nil {
		log.Debug("workout calorie rate unreadable", zap.Int64("id", w.ID), zap.Error(err))
		return s
	}
	s.Calories, s.CaloriesKnown = kcal, true
	return s
}

// Workouts lists the catalogue, skipping deleted entries.
func (s *Service) Workouts(ctx context.Context) ([]WorkoutSummary, error) {
	list, err := s.api.ListWorkouts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]WorkoutSummary, 0, len(list))
	for _, w := range list {
		if w.IsDeleted {
			continue
		}
		out = append(out, summarize(w, s.log))
	}
	return out, nil
}

// Workout returns one workout.
func (s *Service) Workout(ctx context.Context, id int64) (*WorkoutSummary, error) {
	w, err := s.api.GetWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	sum := summarize(*w, s.log)
	return &sum, nil
}

// WeightLog is the ordered weight history with its trend.
type WeightLog struct {
	Entries  []models.WeightEntry
	Trend    fitness.WeightTrend
	HasTrend bool
	NextWeek int
}

// Weights returns the weight history ordered by weigh-in date.
func (s *Service) Weights(ctx context.Context) (*WeightLog, error) {
	entries, err := s.api.ListWeights(ctx)
	if err != nil {
		return nil, err
	}
	trend, ok := fitness.Trend(entries)
	return &WeightLog{
		Entries:  fitness.SortEntries(entries),
		Trend:    trend,
		HasTrend: ok,
		NextWeek: fitness.NextWeek(entries),
	}, nil
}

// RecordWeight stores a weigh-in for date as the week after the latest
// recorded one. A zero date means today.
func (s *Service) RecordWeight(ctx context.Context, kg float64, date time.Time) (*models.WeightEntry, error) {
	if kg <= 0 {
		return nil, fmt.Errorf("%w (got %v)", ErrInvalidWeight, kg)
	}
	if date.IsZero() {
		date = s.now()
	}
	entries, err := s.api.ListWeights(ctx)
	if err != nil {
		return nil, err
	}
	week := fitness.NextWeek(entries)

	entry, err := s.api.SaveWeight(ctx, api.SaveWeightRequest{
		WeightKg: kg,
		Week:     week,
		Date:     date.Format(time.DateOnly),
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("weight recorded", zap.Int("week", entry.Week), zap.Float64("kg", kg))
	return entry, nil
}
