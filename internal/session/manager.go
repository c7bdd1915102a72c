package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sipolgar/sipolgar/internal/logger"
	"github.com/sipolgar/sipolgar/internal/store"
	"github.com/sipolgar/sipolgar/pkg/models"
)

// LoginResult is what a successful login hands to the manager.
type LoginResult struct {
	Token     string
	User      *models.UserProfile
	ExpiresAt time.Time
}

// Manager owns the session state and its persisted mirror. All methods are
// safe for concurrent use; operations are applied one at a time.
type Manager struct {
	mu    sync.Mutex
	state State
	store store.Store
	log   *zap.Logger
	now   func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the manager's logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.log = logger.OrNop(l) }
}

// NewManager returns a manager in the unauthenticated state. Call Hydrate to
// restore a persisted session.
func NewManager(st store.Store, opts ...Option) *Manager {
	m := &Manager{
		state: initialState(),
		store: st,
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns a snapshot of the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Token returns the persisted bearer token, or "" when none is stored.
// It reads the store on every call so a token rotated by another process
// is picked up.
func (m *Manager) Token(ctx context.Context) (string, error) {
	tok, ok, err := m.store.Get(ctx, KeyUserToken)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return tok, nil
}

// Hydrate restores the session from the store. Missing, unreadable or
// malformed data and expired tokens leave the manager unauthenticated.
// Hydrate itself never fails.
func (m *Manager) Hydrate(ctx context.Context) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = initialState()

	tok, ok := m.read(ctx, KeyUserToken)
	if !ok || tok == "" {
		m.log.Debug("no persisted session")
		return m.state.clone()
	}
	raw, ok := m.read(ctx, KeyUserData)
	if !ok || raw == "" {
		m.log.Warn("persisted token without user data, starting unauthenticated")
		return m.state.clone()
	}
	var user models.UserProfile
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		m.log.Warn("persisted user data unreadable, starting unauthenticated", zap.Error(err))
		return m.state.clone()
	}

	var expires time.Time
	if v, ok := m.read(ctx, KeyTokenExpiresAt); ok && v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			m.log.Warn("persisted token expiry unreadable, ignoring", zap.String("value", v), zap.Error(err))
		} else {
			expires = t
		}
	}
	if !expires.IsZero() && !m.now().Before(expires) {
		m.log.Info("persisted token expired, starting unauthenticated", zap.Time("expires_at", expires))
		return m.state.clone()
	}

	changed, _ := m.read(ctx, KeyPasswordChanged)
	firstLogin, _ := m.read(ctx, KeyIsFirstLogin)

	m.state.Token = tok
	m.state.Authenticated = true
	m.state.User = &user
	m.state.ExpiresAt = expires
	m.state.IsFirstLogin = firstLogin == FlagTrue
	m.state.RequiresPasswordChange = passwordChangeRequired(&user, changed, firstLogin == FlagTrue)
	m.state.NeedsOnboarding = !user.OnboardingComplete()

	m.log.Debug("session restored",
		zap.Int64("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
		zap.String("token", logger.MaskToken(tok)))
	return m.state.clone()
}

// read returns the value under key. Read failures are logged and reported as
// absent.
func (m *Manager) read(ctx context.Context, key string) (string, bool) {
	v, ok, err := m.store.Get(ctx, key)
	if err != nil {
		m.log.Warn("session read failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return v, ok
}

// passwordChangeRequired applies the server's needs_password_change when it
// is present. Otherwise a change is pending while this device has not
// recorded a completed change for a first login.
func passwordChangeRequired(user *models.UserProfile, changedFlag string, firstLogin bool) bool {
	if user != nil && user.NeedsPasswordChange != nil {
		return *user.NeedsPasswordChange
	}
	return firstLogin && changedFlag != FlagTrue
}

// Route reads the persisted onboarding flag, reconciles it with the user's
// biometric data and returns the route to show. It never fails: storage
// problems are logged and the flag is treated as absent.
func (m *Manager) Route(ctx context.Context) Route {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.routeLocked(ctx)
}

func (m *Manager) routeLocked(ctx context.Context) Route {
	if m.state.Authenticated && m.state.Expired(m.now()) {
		m.log.Info("token expired, routing to login")
		return RouteAuth
	}
	flag, _ := Reconcile(ctx, m.store, m.state.User, m.log)
	m.state.NeedsOnboarding = NeedsOnboarding(m.state.User, flag)
	return ResolveRoute(m.state, flag)
}

// ApplyLogin records a successful login and persists the session keys.
// The in-memory state is updated first; a failed write is returned after
// the remaining writes have been attempted.
func (m *Manager) ApplyLogin(ctx context.Context, res LoginResult) error {
	if res.Token == "" || res.User == nil {
		return errors.New("session: login result needs a token and a user")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	changed, _ := m.read(ctx, KeyPasswordChanged)
	firstLogin := changed != FlagTrue

	m.state = initialState()
	m.state.Token = res.Token
	m.state.Authenticated = true
	m.state.User = res.User.Clone()
	m.state.ExpiresAt = res.ExpiresAt
	m.state.IsFirstLogin = firstLogin
	m.state.RequiresPasswordChange = passwordChangeRequired(res.User, changed, firstLogin)
	m.state.NeedsOnboarding = !res.User.OnboardingComplete()

	data, err := json.Marshal(res.User)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}

	var errs []error
	errs = append(errs, m.store.Set(ctx, KeyUserToken, res.Token))
	errs = append(errs, m.store.Set(ctx, KeyUserData, string(data)))
	if res.ExpiresAt.IsZero() {
		errs = append(errs, m.store.Remove(ctx, KeyTokenExpiresAt))
	} else {
		errs = append(errs, m.store.Set(ctx, KeyTokenExpiresAt, res.ExpiresAt.UTC().Format(time.RFC3339)))
	}
	errs = append(errs, m.store.Set(ctx, KeyIsFirstLogin, boolFlag(firstLogin)))

	m.log.Info("login applied",
		zap.Int64("user_id", res.User.ID),
		zap.String("email", logger.MaskEmail(res.User.Email)),
		zap.Bool("requires_password_change", m.state.RequiresPasswordChange))

	if err := errors.Join(errs...); err != nil {
		m.log.Warn("persist login failed", zap.Error(err))
		return err
	}
	return nil
}

// RequireEmailVerification marks the session as waiting for an emailed OTP.
func (m *Manager) RequireEmailVerification(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.RequiresEmailVerification = true
	m.state.VerificationEmail = email
}

// ClearEmailVerification drops a pending email verification.
func (m *Manager) ClearEmailVerification() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.RequiresEmailVerification = false
	m.state.VerificationEmail = ""
}

// MarkVerified records a verification result for email. A verified address
// clears the pending verification; the loaded user's is_verified is updated
// when it belongs to the same address.
func (m *Manager) MarkVerified(email string, verified bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if verified && m.state.VerificationEmail == email {
		m.state.RequiresEmailVerification = false
		m.state.VerificationEmail = ""
	}
	if m.state.User != nil && m.state.User.Email == email {
		m.state.User.IsVerified = models.Ptr(verified)
	}
}

// CompletePasswordChange records a successful password change. A rotated
// token, when the server returned one, replaces the stored token.
func (m *Manager) CompletePasswordChange(ctx context.Context, newToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.RequiresPasswordChange = false
	m.state.IsFirstLogin = false
	if m.state.User != nil {
		m.state.User.NeedsPasswordChange = models.Ptr(false)
	}
	if newToken != "" {
		m.state.Token = newToken
	}

	var errs []error
	errs = append(errs, m.store.Set(ctx, KeyPasswordChanged, FlagTrue))
	errs = append(errs, m.store.Set(ctx, KeyIsFirstLogin, FlagFalse))
	if newToken != "" {
		errs = append(errs, m.store.Set(ctx, KeyUserToken, newToken))
	}
	if m.state.User != nil {
		errs = append(errs, m.writeUserLocked(ctx))
	}
	if err := errors.Join(errs...); err != nil {
		m.log.Warn("persist password change failed", zap.Error(err))
		return err
	}
	m.log.Info("password change completed", zap.Bool("token_rotated", newToken != ""))
	return nil
}

// ReplaceUser swaps in a freshly fetched user record and reconciles the
// onboarding flag against it.
func (m *Manager) ReplaceUser(ctx context.Context, user *models.UserProfile) error {
	if user == nil {
		return errors.New("session: nil user")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.User = user.Clone()
	if user.NeedsPasswordChange != nil {
		m.state.RequiresPasswordChange = *user.NeedsPasswordChange
	}
	return m.persistUserLocked(ctx)
}

// ApplyProfileUpdate merges a successful profile update into the session and
// returns the merged record. The in-memory record is kept even when
// persisting it fails; the next reconciliation pass recovers the flag.
func (m *Manager) ApplyProfileUpdate(ctx context.Context, patch models.ProfileUpdate, server *models.UserProfile) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.User = MergeProfileUpdate(m.state.User, patch, server)
	err := m.persistUserLocked(ctx)
	return m.state.User.Clone(), err
}

// persistUserLocked writes userData, then reconciles the onboarding flag.
func (m *Manager) persistUserLocked(ctx context.Context) error {
	m.state.NeedsOnboarding = !m.state.User.OnboardingComplete()
	if err := m.writeUserLocked(ctx); err != nil {
		m.log.Warn("persist user failed", zap.Error(err))
		return err
	}
	if _, err := Reconcile(ctx, m.store, m.state.User, m.log); err != nil {
		return err
	}
	return nil
}

func (m *Manager) writeUserLocked(ctx context.Context) error {
	data, err := json.Marshal(m.state.User)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}
	return m.store.Set(ctx, KeyUserData, string(data))
}

// Teardown logs out: the state returns to unauthenticated and every auth key
// is removed. The theme preference is kept. The in-memory state is reset
// even when the store fails.
func (m *Manager) Teardown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = initialState()
	if err := m.store.Remove(ctx, authKeys...); err != nil {
		m.log.Warn("clear session keys failed", zap.Error(err))
		return err
	}
	m.log.Info("session cleared")
	return nil
}

// Theme returns the stored theme, or models.ThemeDefault when none is set or
// the stored value is unknown.
func (m *Manager) Theme(ctx context.Context) models.Theme {
	v, ok := m.read(ctx, KeyThemeName)
	if !ok {
		return models.ThemeDefault
	}
	t := models.Theme(v)
	if !t.IsValid() {
		return models.ThemeDefault
	}
	return t
}

// SetTheme stores the theme preference.
func (m *Manager) SetTheme(ctx context.Context, t models.Theme) error {
	if !t.IsValid() {
		return fmt.Errorf("session: unknown theme %q", t)
	}
	return m.store.Set(ctx, KeyThemeName, string(t))
}

// Flags returns the raw persisted flag values, for diagnostics.
func (m *Manager) Flags(ctx context.Context) map[string]string {
	out := make(map[string]string, len(authKeys)+1)
	for _, k := range append([]string{KeyThemeName}, authKeys...) {
		if k == KeyUserToken || k == KeyUserData {
			continue
		}
		if v, ok := m.read(ctx, k); ok {
			out[k] = v
		}
	}
	return out
}

func boolFlag(b bool) string {
	if b {
		return FlagTrue
	}
	return FlagFalse
}
