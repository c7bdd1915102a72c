package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sipolgar/sipolgar/internal/api"
	"github.com/sipolgar/sipolgar/internal/ui"
	"github.com/sipolgar/sipolgar/pkg/models"
	"github.com/sipolgar/sipolgar/pkg/version"
)

// annotationStandalone marks commands that run without the wired services.
const annotationStandalone = "sipolgar/standalone"

// app carries the state shared by one command tree.
type app struct {
	opts  GlobalOptions
	deps  *Dependencies
	owned bool // deps were built here and must be closed
}

// NewRootCmd builds the command tree. A nil d makes the root wire its own
// dependencies from the configuration before each command.
func NewRootCmd(d *Dependencies) *cobra.Command {
	a := &app{deps: d}

	root := &cobra.Command{
		Use:   "sipolgar",
		Short: "Fitness tracking client for police personnel",
		Long: `sipolgar is the terminal client of the SIPOLGAR fitness service.

It signs personnel in, walks them through the mandatory password change and
biometric onboarding, and then shows fitness stats, workouts and the weekly
weight log.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.deps != nil || cmd.Annotations[annotationStandalone] != "" {
				return nil
			}
			d, err := InitDependencies(cmd.Context(), a.opts)
			if err != nil {
				return err
			}
			a.deps, a.owned = d, true
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.owned && a.deps != nil {
				return a.deps.Close()
			}
			return nil
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("sipolgar %s\n", version.GetFullVersion()))

	pf := root.PersistentFlags()
	pf.StringVar(&a.opts.Home, "home", "", "configuration directory (default $SIPOLGAR_HOME or ~/.sipolgar)")
	pf.BoolVarP(&a.opts.Verbose, "verbose", "v", false, "log debug output to stderr")
	pf.BoolVar(&a.opts.NoColor, "no-color", false, "disable colours and animations")
	pf.BoolVar(&a.opts.NonInteractive, "non-interactive", false, "never prompt; read every answer from flags")

	root.AddCommand(
		a.newLoginCmd(),
		a.newLogoutCmd(),
		a.newRegisterCmd(),
		a.newVerifyCmd(),
		a.newForgotPasswordCmd(),
		a.newChangePasswordCmd(),
		a.newOnboardingCmd(),
		a.newProfileCmd(),
		a.newStatsCmd(),
		a.newWorkoutsCmd(),
		a.newWeightCmd(),
		a.newUnitsCmd(),
		a.newStatusCmd(),
		a.newThemeCmd(),
		newConfigCmd(&a.opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI and prints any error in the error style.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCmd(nil)
	err := root.ExecuteContext(ctx)
	if err != nil {
		theme := ui.NewTheme(models.ThemeDefault, true)
		ui.NewRenderer(os.Stderr, theme).Error(api.Message(err))
	}
	return err
}
