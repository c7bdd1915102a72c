package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sipolgar/sipolgar/pkg/models"
)

// ListWorkouts returns the published workouts.
func (c *Client) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	var out struct {
		Data []models.Workout `json:"data"`
	}
	if err := c.do(ctx, call{op: "list workouts", method: http.MethodGet, path: "/latihan", out: &out}); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetWorkout returns one workout.
func (c *Client) GetWorkout(ctx context.Context, id int64) (*models.Workout, error) {
	var out struct {
		Data *models.Workout `json:"data"`
	}
	err := c.do(ctx, call{
		op:     "get workout",
		method: http.MethodGet,
		path:   fmt.Sprintf("/latihan/%d", id),
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, &APIError{Op: "get workout", Status: http.StatusNotFound, Message: fmt.Sprintf("workout %d not found", id)}
	}
	return out.Data, nil
}
