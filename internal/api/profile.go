package api

import (
	"context"
	"net/http"

	"github.com/sipolgar/sipolgar/pkg/models"
)

// GetProfile fetches the logged-in user with their personnel record.
func (c *Client) GetProfile(ctx context.Context) (*models.UserProfile, error) {
	var out struct {
		User *models.UserProfile `json:"user"`
	}
	err := c.do(ctx, call{op: "get profile", method: http.MethodGet, path: "/users", out: &out})
	if err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, &APIError{Op: "get profile", Status: http.StatusOK, Message: "profile missing from response"}
	}
	return out.User, nil
}

// updateProfileBody is the flat wire form of a ProfileUpdate.
type updateProfileBody struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	*models.PersonelUpdate
}

// UpdateProfileResponse is the body of a successful profile update. User is
// nil when the server only acknowledged the update.
type UpdateProfileResponse struct {
	Message string              `json:"message"`
	User    *models.UserProfile `json:"user,omitempty"`
}

// UpdateProfile sends a sparse profile patch.
func (c *Client) UpdateProfile(ctx context.Context, patch models.ProfileUpdate) (*UpdateProfileResponse, error) {
	var out UpdateProfileResponse
	err := c.do(ctx, call{
		op:     "update profile",
		method: http.MethodPost,
		path:   "/users/update",
		body:   updateProfileBody{Name: patch.Name, Email: patch.Email, PersonelUpdate: patch.Personel},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
