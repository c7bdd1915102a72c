package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sipolgar/sipolgar/pkg/models"
)

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Message   string              `json:"message"`
	User      *models.UserProfile `json:"user"`
	Token     string              `json:"token"`
	ExpiresAt string              `json:"expires_at,omitempty"`
}

// Expiry returns the token expiry: expires_at when the server sent a
// parseable one, otherwise the token's exp claim. Zero when neither is known.
func (r *LoginResponse) Expiry() time.Time {
	if r.ExpiresAt != "" {
		for _, layout := range []string{time.RFC3339Nano, time.DateTime} {
			if t, err := time.Parse(layout, r.ExpiresAt); err == nil {
				return t
			}
		}
	}
	t, _ := TokenExpiry(r.Token)
	return t
}

// Login exchanges a username and password for a token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, call{
		op:         "login",
		method:     http.MethodPost,
		path:       "/login",
		body:       map[string]string{"username": username, "password": password},
		out:        &out,
		credential: true,
	})
	if err != nil {
		return nil, err
	}
	if out.Token == "" || out.User == nil {
		return nil, &AuthError{Op: "login", Message: "Login failed: no token received"}
	}
	return &out, nil
}

// RegisterRequest is the body of a registration.
type RegisterRequest struct {
	NamaLengkap   string        `json:"nama_lengkap"`
	Username      string        `json:"username"`
	Email         string        `json:"email"`
	NoHP          string        `json:"no_hp"`
	TempatLahir   string        `json:"tempat_lahir"`
	TanggalLahir  string        `json:"tanggal_lahir"`
	IDSatuanKerja int64         `json:"id_satuankerja"`
	JenisKelamin  models.Gender `json:"jenis_kelamin,omitempty"`
}

// RegisteredPersonel is the personnel record echoed by registration.
type RegisteredPersonel struct {
	ID            int64          `json:"id"`
	NamaLengkap   string         `json:"nama_lengkap"`
	TempatLahir   string         `json:"tempat_lahir"`
	TanggalLahir  string         `json:"tanggal_lahir"`
	NoHP          string         `json:"no_hp"`
	IDSatuanKerja models.FlexInt `json:"id_satuankerja"`
	IDUser        int64          `json:"id_user"`
}

// RegisterResponse is the body of a successful registration.
type RegisterResponse struct {
	Message  string              `json:"message"`
	User     *models.UserProfile `json:"user"`
	Personel *RegisteredPersonel `json:"personel"`
}

// Register creates an account. The backend emails an OTP to verify it.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	err := c.do(ctx, call{
		op:         "register",
		method:     http.MethodPost,
		path:       "/register",
		body:       req,
		out:        &out,
		credential: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyEmailOTP confirms an account with the emailed one-time code.
func (c *Client) VerifyEmailOTP(ctx context.Context, email, otp string) (string, error) {
	var out messageBody
	err := c.do(ctx, call{
		op:         "verify email",
		method:     http.MethodPost,
		path:       "/verify-email-otp",
		body:       map[string]string{"email": email, "otp_code": otp},
		out:        &out,
		credential: true,
	})
	return out.Message, err
}

// VerificationStatus is the answer of the verification check.
type VerificationStatus struct {
	IsVerified bool `json:"is_verified"`
	Status     bool `json:"status"`
}

// CheckVerification asks whether email has been verified.
func (c *Client) CheckVerification(ctx context.Context, email string) (*VerificationStatus, error) {
	var out VerificationStatus
	err := c.do(ctx, call{
		op:     "check verification",
		method: http.MethodPost,
		path:   "/check-verification",
		body:   map[string]string{"email": email},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RegenerateOTP asks the backend to email a fresh OTP.
func (c *Client) RegenerateOTP(ctx context.Context, email string) (string, error) {
	var out messageBody
	err := c.do(ctx, call{
		op:     "regenerate otp",
		method: http.MethodPost,
		path:   "/regenerate-otp",
		body:   map[string]string{"email": email},
		out:    &out,
	})
	return out.Message, err
}

// ForgotPassword asks the backend to email a password reset.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out messageBody
	err := c.do(ctx, call{
		op:     "forgot password",
		method: http.MethodPost,
		path:   "/forgot-password",
		body:   map[string]string{"email": email},
		out:    &out,
	})
	return out.Message, err
}

// ChangePasswordResponse is the body of a successful password change. Token
// is set when the backend rotated the session token.
type ChangePasswordResponse struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// ChangePassword replaces the current password. Writing a rotated token back
// to storage is the caller's job.
func (c *Client) ChangePassword(ctx context.Context, current, next string) (*ChangePasswordResponse, error) {
	if current == "" || next == "" {
		return nil, errors.New("change password: passwords must not be empty")
	}
	var out ChangePasswordResponse
	err := c.do(ctx, call{
		op:         "change password",
		method:     http.MethodPost,
		path:       "/change-password",
		body:       map[string]string{"current_password": current, "new_password": next},
		out:        &out,
		credential: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
