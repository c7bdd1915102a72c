// Package session owns the authenticated-session state, its durable mirror
// in the key-value store, and the single routing decision that picks which
// flow (login, password change, onboarding, main) the user must see.
package session

import (
	"time"

	"github.com/sipolgar/sipolgar/pkg/models"
)

// Persisted keys. Only this package writes them.
const (
	KeyUserToken           = "userToken"
	KeyUserData            = "userData"
	KeyTokenExpiresAt      = "tokenExpiresAt"
	KeyOnboardingCompleted = "onboardingCompleted"
	KeyPasswordChanged     = "passwordChanged"
	KeyIsFirstLogin        = "isFirstLogin"
)

// KeyThemeName holds the theme preference. It is not an auth key and
// survives logout.
const KeyThemeName = "themeName"

// FlagTrue and FlagFalse are the only values written to boolean flags.
const (
	FlagTrue  = "true"
	FlagFalse = "false"
)

// authKeys are removed on logout.
var authKeys = []string{
	KeyUserToken,
	KeyUserData,
	KeyTokenExpiresAt,
	KeyOnboardingCompleted,
	KeyPasswordChanged,
	KeyIsFirstLogin,
}

// State is the in-memory authenticated-session state.
type State struct {
	Token         string
	Authenticated bool
	User          *models.UserProfile
	ExpiresAt     time.Time

	RequiresEmailVerification bool
	VerificationEmail         string
	RequiresPasswordChange    bool
	NeedsOnboarding           bool
	IsFirstLogin              bool
}

// clone returns a copy that shares nothing mutable with s.
func (s State) clone() State {
	s.User = s.User.Clone()
	return s
}

// Expired reports whether the token expiry is known and not after now.
func (s State) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// initialState is the empty state at process start and after logout.
func initialState() State {
	return State{NeedsOnboarding: true}
}
