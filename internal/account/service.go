// Package account implements the user-facing account flows: login,
// registration with email OTP, password changes, onboarding and profile
// edits. It validates input, calls the backend and records every outcome in
// the session.
package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sipolgar/sipolgar/internal/api"
	"github.com/sipolgar/sipolgar/internal/fitness"
	"github.com/sipolgar/sipolgar/internal/logger"
	"github.com/sipolgar/sipolgar/internal/session"
	"github.com/sipolgar/sipolgar/pkg/models"
)

// Backend is the part of the API client the account flows use.
type Backend interface {
	Login(ctx context.Context, username, password string) (*api.LoginResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)
	VerifyEmailOTP(ctx context.Context, email, otp string) (string, error)
	CheckVerification(ctx context.Context, email string) (*api.VerificationStatus, error)
	RegenerateOTP(ctx context.Context, email string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ChangePassword(ctx context.Context, current, next string) (*api.ChangePasswordResponse, error)
	GetProfile(ctx context.Context) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, patch models.ProfileUpdate) (*api.UpdateProfileResponse, error)
}

// Service runs account flows against a backend and a session.
type Service struct {
	api  Backend
	sess *session.Manager
	log  *zap.Logger
	now  func() time.Time
}

// NewService returns a Service. A nil logger disables logging.
func NewService(backend Backend, sess *session.Manager, log *zap.Logger) *Service {
	return &Service{api: backend, sess: sess, log: logger.OrNop(log), now: time.Now}
}

// Session returns the session the service writes to.
func (s *Service) Session() *session.Manager { return s.sess }

// Route resolves the flow the user must see next.
func (s *Service) Route(ctx context.Context) session.Route {
	return s.sess.Route(ctx)
}

// Login authenticates and records the session. The returned route tells the
// caller whether a password change or onboarding comes next.
func (s *Service) Login(ctx context.Context, username, password string) (session.Route, error) {
	username = clean(username)
	if username == "" {
		return session.RouteAuth, invalid("username", "is required")
	}
	if password == "" {
		return session.RouteAuth, invalid("password", "is required")
	}

	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.log.Info("login rejected", zap.String("username", username), zap.Error(err))
		return session.RouteAuth, err
	}

	err = s.sess.ApplyLogin(ctx, session.LoginResult{
		Token:     resp.Token,
		User:      resp.User,
		ExpiresAt: resp.Expiry(),
	})
	route := s.sess.Route(ctx)
	if err != nil {
		return route, fmt.Errorf("login succeeded but the session could not be saved: %w", err)
	}
	return route, nil
}

// RegisterInput is the registration form.
type RegisterInput struct {
	NamaLengkap   string
	Username      string
	Email         string
	NoHP          string
	TempatLahir   string
	TanggalLahir  string
	IDSatuanKerja int64
	JenisKelamin  models.Gender
}

// Validate checks the form and normalises its text fields in place.
func (in *RegisterInput) Validate() error {
	in.NamaLengkap = clean(in.NamaLengkap)
	in.Username = clean(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.NoHP = strings.TrimSpace(in.NoHP)
	in.TempatLahir = clean(in.TempatLahir)
	in.TanggalLahir = strings.TrimSpace(in.TanggalLahir)

	switch {
	case in.NamaLengkap == "":
		return invalid("nama_lengkap", "is required")
	case in.Username == "":
		return invalid("username", "is required")
	case strings.ContainsFunc(in.Username, func(r rune) bool { return r == ' ' || r == '\t' }):
		return invalid("username", "must not contain spaces")
	case in.TempatLahir == "":
		return invalid("tempat_lahir", "is required")
	case in.IDSatuanKerja <= 0:
		return invalid("id_satuankerja", "pick an organisational unit")
	}
	if err := ValidateEmail(in.Email); err != nil {
		return err
	}
	if err := ValidatePhone(in.NoHP); err != nil {
		return err
	}
	if _, err := fitness.ParseDate(in.TanggalLahir); err != nil {
		return invalid("tanggal_lahir", "must be a date like 1995-08-17")
	}
	if in.JenisKelamin != "" && !in.JenisKelamin.IsValid() {
		return invalid("jenis_kelamin", fmt.Sprintf("must be one of %v", models.ValidGenders()))
	}
	return nil
}

// Register creates an account and leaves the session waiting for the
// emailed OTP.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*api.RegisterResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	resp, err := s.api.Register(ctx, api.RegisterRequest{
		NamaLengkap:   in.NamaLengkap,
		Username:      in.Username,
		Email:         in.Email,
		NoHP:          in.NoHP,
		TempatLahir:   in.TempatLahir,
		TanggalLahir:  in.TanggalLahir,
		IDSatuanKerja: in.IDSatuanKerja,
		JenisKelamin:  in.JenisKelamin,
	})
	if err != nil {
		return nil, err
	}
	s.sess.RequireEmailVerification(in.Email)
	s.log.Info("account registered", zap.String("email", logger.MaskEmail(in.Email)))
	return resp, nil
}

// VerifyEmail submits the emailed OTP.
func (s *Service) VerifyEmail(ctx context.Context, email, otp string) (string, error) {
	email, otp = strings.TrimSpace(email), strings.TrimSpace(otp)
	if err := ValidateEmail(email); err != nil {
		return "", err
	}
	if err := ValidateOTP(otp); err != nil {
		return "", err
	}
	msg, err := s.api.VerifyEmailOTP(ctx, email, otp)
	if err != nil {
		return "", err
	}
	s.sess.MarkVerified(email, true)
	return msg, nil
}

// ResendOTP asks for a new code.
func (s *Service) ResendOTP(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if err := ValidateEmail(email); err != nil {
		return "", err
	}
	return s.api.RegenerateOTP(ctx, email)
}

// CheckVerification asks the backend whether email is verified and records
// the answer.
func (s *Service) CheckVerification(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if err := ValidateEmail(email); err != nil {
		return false, err
	}
	st, err := s.api.CheckVerification(ctx, email)
	if err != nil {
		return false, err
	}
	s.sess.MarkVerified(email, st.IsVerified)
	return st.IsVerified, nil
}

// ForgotPassword requests a password reset email.
func (s *Service) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if err := ValidateEmail(email); err != nil {
		return "", err
	}
	return s.api.ForgotPassword(ctx, email)
}

// ChangePassword replaces the password and clears the pending change. A
// token rotated by the backend replaces the stored one.
func (s *Service) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if err := ValidateNewPassword(current, next, confirm); err != nil {
		return err
	}
	resp, err := s.api.ChangePassword(ctx, current, next)
	if err != nil {
		return err
	}
	return s.sess.CompletePasswordChange(ctx, resp.Token)
}

// RefreshProfile reloads the user from the backend.
func (s *Service) RefreshProfile(ctx context.Context) (*models.UserProfile, error) {
	u, err := s.api.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.sess.ReplaceUser(ctx, u); err != nil {
		return u, err
	}
	return u, nil
}

// UpdateProfile validates and sends patch, then merges the result into the
// session.
func (s *Service) UpdateProfile(ctx context.Context, patch models.ProfileUpdate) (*models.UserProfile, error) {
	if patch.Name != nil {
		patch.Name = models.Ptr(clean(*patch.Name))
		if *patch.Name == "" {
			return nil, invalid("name", "must not be empty")
		}
	}
	if patch.Email != nil {
		if err := ValidateEmail(*patch.Email); err != nil {
			return nil, err
		}
	}
	if patch.Personel != nil && patch.Personel.NamaLengkap != nil {
		p := *patch.Personel
		p.NamaLengkap = models.Ptr(clean(*p.NamaLengkap))
		patch.Personel = &p
	}
	if err := ValidatePersonelUpdate(patch.Personel); err != nil {
		return nil, err
	}
	if patch.Name == nil && patch.Email == nil && patch.Personel.IsEmpty() {
		return nil, invalid("profile", "nothing to update")
	}

	resp, err := s.api.UpdateProfile(ctx, patch)
	if err != nil {
		return nil, err
	}
	return s.sess.ApplyProfileUpdate(ctx, patch, resp.User)
}

// OnboardingInput is the biometric data collected on first use.
type OnboardingInput struct {
	HeightCm      float64
	WeightKg      float64
	FitnessGoal   models.FitnessGoal
	ActivityLevel models.ActivityLevel
	// JenisKelamin and TanggalLahir are only sent when set.
	JenisKelamin models.Gender
	TanggalLahir string
}

// Patch converts the input into a profile update.
func (in OnboardingInput) Patch() models.ProfileUpdate {
	u := &models.PersonelUpdate{
		TinggiBadan: models.Ptr(in.HeightCm),
		BeratBadan:  models.Ptr(in.WeightKg),
	}
	if in.FitnessGoal != "" {
		u.FitnessGoal = models.Ptr(in.FitnessGoal)
	}
	if in.ActivityLevel != "" {
		u.ActivityLevel = models.Ptr(in.ActivityLevel)
	}
	if in.JenisKelamin != "" {
		u.JenisKelamin = models.Ptr(in.JenisKelamin)
	}
	if in.TanggalLahir != "" {
		u.TanggalLahir = models.Ptr(in.TanggalLahir)
	}
	return models.ProfileUpdate{Personel: u}
}

// CompleteOnboarding records height and weight. On success the route moves
// on from onboarding.
func (s *Service) CompleteOnboarding(ctx context.Context, in OnboardingInput) (*models.UserProfile, error) {
	if err := ValidateHeight(in.HeightCm); err != nil {
		return nil, err
	}
	if err := ValidateWeight(in.WeightKg); err != nil {
		return nil, err
	}
	return s.UpdateProfile(ctx, in.Patch())
}

// Stats computes the fitness summary of the logged-in user.
func (s *Service) Stats() (*fitness.Stats, error) {
	st := s.sess.State()
	if st.User == nil {
		return nil, fitness.ErrIncompleteProfile
	}
	return fitness.Compute(st.User.Personel, s.now())
}

// Logout ends the session. The theme preference survives.
func (s *Service) Logout(ctx context.Context) error {
	return s.sess.Teardown(ctx)
}
