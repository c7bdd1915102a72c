package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sipolgar/sipolgar/internal/session"
	"github.com/sipolgar/sipolgar/pkg/version"
)

func (a *app) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session route and stored flags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			r := a.deps.Session.Route(ctx)
			next := ""
			if r != session.RouteMain {
				next = nextCommand(r, a.deps.Session.State())
			}

			out := a.out(cmd)
			out.Status(r.String(), next, a.deps.Session.Flags(ctx))
			if st := a.deps.Session.State(); st.User != nil {
				out.Notice("Pengguna: %s (%s)", st.User.Username, st.User.Email)
				if !st.ExpiresAt.IsZero() {
					out.Notice("Token berlaku hingga %s", st.ExpiresAt.Local().Format("2006-01-02 15:04"))
				}
			}
			if s, err := a.deps.Account.Stats(); err == nil {
				out.Notice("BMI %.1f (%s)", s.BMI, s.Category.Label())
			}
			out.Notice("Server: %s", a.deps.API.BaseURL())
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print build information",
		Annotations: map[string]string{annotationStandalone: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sipolgar %s\n", version.GetFullVersion())
		},
	}
}
