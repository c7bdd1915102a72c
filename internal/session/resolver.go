package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/sipolgar/sipolgar/internal/store"
	"github.com/sipolgar/sipolgar/pkg/models"
)

// Route is the flow the user must be shown next.
type Route int

const (
	RouteAuth Route = iota
	RouteChangePassword
	RouteOnboarding
	RouteMain
)

// String returns the route name.
func (r Route) String() string {
	switch r {
	case RouteAuth:
		return "AUTH"
	case RouteChangePassword:
		return "CHANGE_PASSWORD"
	case RouteOnboarding:
		return "ONBOARDING"
	case RouteMain:
		return "MAIN"
	}
	return "UNKNOWN"
}

// ResolveRoute picks exactly one route for s. The checks are ordered:
// authentication, password change, onboarding.
func ResolveRoute(s State, onboardingFlag string) Route {
	switch {
	case !s.Authenticated || s.RequiresEmailVerification:
		return RouteAuth
	case s.RequiresPasswordChange:
		return RouteChangePassword
	case NeedsOnboarding(s.User, onboardingFlag):
		return RouteOnboarding
	default:
		return RouteMain
	}
}

// NeedsOnboarding reports whether the user still has to enter biometric
// data. A loaded user record is authoritative: a completed flag never hides
// a missing height or weight, and complete biometrics need no flag. The
// flag only decides when no user record is available at all.
func NeedsOnboarding(user *models.UserProfile, onboardingFlag string) bool {
	if user == nil {
		return onboardingFlag != FlagTrue
	}
	return !user.OnboardingComplete()
}

// Reconcile aligns the persisted onboarding flag with the user's biometric
// data: set when height and weight are present, cleared when either is
// missing, untouched when no user record is loaded. It returns the flag
// value now in effect. A failed read is treated as an absent flag; a failed
// write is logged and returned, and the next reconciliation pass retries it.
func Reconcile(ctx context.Context, st store.Store, user *models.UserProfile, log *zap.Logger) (string, error) {
	flag, ok, err := st.Get(ctx, KeyOnboardingCompleted)
	if err != nil {
		log.Warn("read onboarding flag failed, treating as absent", zap.Error(err))
		flag, ok = "", false
	}
	if !ok {
		flag = ""
	}
	if user == nil {
		return flag, nil
	}

	complete := user.OnboardingComplete()
	switch {
	case complete && flag != FlagTrue:
		if err := st.Set(ctx, KeyOnboardingCompleted, FlagTrue); err != nil {
			log.Warn("set onboarding flag failed", zap.Error(err))
			return flag, err
		}
		log.Debug("onboarding flag set from biometric data")
		return FlagTrue, nil
	case !complete && flag == FlagTrue:
		if err := st.Remove(ctx, KeyOnboardingCompleted); err != nil {
			log.Warn("clear stale onboarding flag failed", zap.Error(err))
			return flag, err
		}
		log.Debug("stale onboarding flag cleared")
		return "", nil
	}
	return flag, nil
}
