package api

import (
	"context"
	"net/http"

	"github.com/sipolgar/sipolgar/pkg/models"
)

// ListWeights returns the logged-in user's weigh-ins.
func (c *Client) ListWeights(ctx context.Context) ([]models.WeightEntry, error) {
	var out struct {
		Data []models.WeightEntry `json:"data"`
	}
	if err := c.do(ctx, call{op: "list weights", method: http.MethodGet, path: "/berat-badan", out: &out}); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return []models.WeightEntry{}, nil
	}
	return out.Data, nil
}

// SaveWeightRequest is a new weigh-in.
type SaveWeightRequest struct {
	WeightKg float64 `json:"berat_badan"`
	Week     int     `json:"minggu_ke"`
	Date     string  `json:"tgl_berat_badan"`
}

// SaveWeight records a weigh-in. Week numbers below 1 are sent as 1.
func (c *Client) SaveWeight(ctx context.Context, req SaveWeightRequest) (*models.WeightEntry, error) {
	req.Week = max(req.Week, 1)
	var out struct {
		Data *models.WeightEntry `json:"data"`
	}
	err := c.do(ctx, call{op: "save weight", method: http.MethodPost, path: "/berat-badan", body: req, out: &out})
	if err != nil {
		return nil, err
	}
	if out.Data == nil {
		return &models.WeightEntry{WeightKg: req.WeightKg, Week: req.Week, Date: req.Date}, nil
	}
	return out.Data, nil
}
