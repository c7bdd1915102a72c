package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/sipolgar/sipolgar/internal/session"
	"github.com/sipolgar/sipolgar/internal/ui"
)

// errNeedsTerminal is returned when an answer is missing and prompts are
// disabled.
var errNeedsTerminal = errors.New("no terminal for prompts")

// RouteError reports a command run while the session is on another route.
type RouteError struct {
	Route session.Route
	Next  string
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("session is at %s; run `%s` first", e.Route, e.Next)
}

// nextCommand names the command that moves the session off r.
func nextCommand(r session.Route, st session.State) string {
	switch r {
	case session.RouteAuth:
		if st.RequiresEmailVerification {
			return "sipolgar verify --email " + st.VerificationEmail
		}
		return "sipolgar login"
	case session.RouteChangePassword:
		return "sipolgar change-password"
	case session.RouteOnboarding:
		return "sipolgar onboarding"
	}
	return "sipolgar stats"
}

// requireRoute resolves the session route and fails unless it is one of
// allowed.
func (a *app) requireRoute(ctx context.Context, allowed ...session.Route) (session.Route, error) {
	r := a.deps.Session.Route(ctx)
	if slices.Contains(allowed, r) {
		return r, nil
	}
	return r, &RouteError{Route: r, Next: nextCommand(r, a.deps.Session.State())}
}

// authenticated are the routes of a signed-in session past the password
// change.
var authenticated = []session.Route{session.RouteOnboarding, session.RouteMain}

func (a *app) out(cmd *cobra.Command) *ui.Renderer {
	return ui.NewRenderer(cmd.OutOrStdout(), a.deps.Theme)
}

// busy runs fn behind a spinner on stderr.
func (a *app) busy(cmd *cobra.Command, title string, fn func(context.Context) error) error {
	return ui.Run(cmd.Context(), a.deps.Theme, a.deps.Headless, cmd.ErrOrStderr(), title, fn)
}

// interactive reports whether prompts may be shown.
func (a *app) interactive() bool {
	return !a.deps.Headless.IsHeadless()
}

// missing builds the error for a required flag that cannot be prompted for.
func missing(flag string) error {
	return fmt.Errorf("missing --%s: %w", flag, errNeedsTerminal)
}
