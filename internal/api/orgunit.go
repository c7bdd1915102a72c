package api

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/sipolgar/sipolgar/internal/resilience"
	"github.com/sipolgar/sipolgar/pkg/models"
)

// Organisational unit lookups feed pickers, so they retry and then degrade
// to an empty result instead of failing.

// ListOrgUnits returns every organisational unit, or an empty list when the
// backend cannot be reached after retrying.
func (c *Client) ListOrgUnits(ctx context.Context) []models.SatuanKerja {
	return c.orgUnits(ctx, "list org units", "/satuan-kerja")
}

// ListParentOrgUnits returns the top-level units.
func (c *Client) ListParentOrgUnits(ctx context.Context) []models.SatuanKerja {
	return c.orgUnits(ctx, "list parent org units", "/satuan-kerja/parents")
}

// ListChildOrgUnits returns the units under parentID.
func (c *Client) ListChildOrgUnits(ctx context.Context, parentID int64) []models.SatuanKerja {
	return c.orgUnits(ctx, "list child org units", fmt.Sprintf("/satuan-kerja/children/%d", parentID))
}

// OrgUnit returns one unit, or nil when it cannot be fetched.
func (c *Client) OrgUnit(ctx context.Context, id int64) *models.SatuanKerja {
	var out struct {
		Data *models.SatuanKerja `json:"data"`
	}
	err := c.do(ctx, call{
		op:     "get org unit",
		method: http.MethodGet,
		path:   fmt.Sprintf("/satuan-kerja/%d", id),
		out:    &out,
	})
	if err != nil {
		c.log.Warn("org unit unavailable", zap.Int64("id", id), zap.Error(err))
		return nil
	}
	return out.Data
}

func (c *Client) orgUnits(ctx context.Context, op, path string) []models.SatuanKerja {
	policy := c.orgPolicy
	policy.OnRetry = func(attempt int, err error) {
		c.log.Info("retrying", zap.String("op", op), zap.Int("attempt", attempt), zap.Error(err))
	}

	var out struct {
		Data []models.SatuanKerja `json:"data"`
	}
	err := resilience.Retry(ctx, policy, func(ctx context.Context) error {
		out.Data = nil
		return c.do(ctx, call{op: op, method: http.MethodGet, path: path, out: &out})
	})
	if err != nil {
		c.log.Warn("org units unavailable, using empty list", zap.String("op", op), zap.Error(err))
		return []models.SatuanKerja{}
	}
	if out.Data == nil {
		return []models.SatuanKerja{}
	}
	return out.Data
}
