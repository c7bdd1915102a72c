package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sipolgar/sipolgar/internal/api"
	"github.com/sipolgar/sipolgar/internal/cli/wizard"
	"github.com/sipolgar/sipolgar/internal/session"
	"github.com/sipolgar/sipolgar/internal/ui"
	"github.com/sipolgar/sipolgar/pkg/models"
)

func (a *app) newOnboardingCmd() *cobra.Command {
	answers := map[string]*string{}
	cmd := &cobra.Command{
		Use:   "onboarding",
		Short: "Record height, weight and fitness preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.requireRoute(ctx, authenticated...); err != nil {
				return err
			}

			var current *models.Personel
			if u := a.deps.Session.State().User; u != nil {
				current = u.Personel
			}
			questions := wizard.OnboardingQuestions(current)

			given := make(map[string]string, len(answers))
			for id, v := range answers {
				if *v != "" {
					given[id] = *v
				}
			}

			var (
				res *wizard.Result
				err error
			)
			if a.interactive() && len(given) == 0 {
				res, err = wizard.Run(questions, a.deps.Theme)
			} else {
				res, err = wizard.Answer(questions, given)
			}
			if err != nil {
				return err
			}

			err = a.busy(cmd, "Menyimpan data...", func(ctx context.Context) error {
				_, err := a.deps.Account.CompleteOnboarding(ctx, res.Input())
				return err
			})
			if err != nil {
				return err
			}

			out := a.out(cmd)
			out.Success("Data kebugaran tersimpan")
			if stats, err := a.deps.Account.Stats(); err == nil {
				out.Stats(displayName(a.deps.Session.State().User), stats)
			} else {
				out.Notice("Statistik belum dapat dihitung: %v", err)
			}
			return nil
		},
	}
	f := cmd.Flags()
	flag := func(id, name, usage string) {
		answers[id] = f.String(name, "", usage)
	}
	flag(wizard.IDHeight, "height", "height in cm")
	flag(wizard.IDWeight, "weight", "weight in kg")
	flag(wizard.IDGender, "gender", "Laki-laki or Perempuan")
	flag(wizard.IDBirthDate, "birth-date", "date of birth (YYYY-MM-DD)")
	flag(wizard.IDActivity, "activity", "sedentary, light, moderate, active or very_active")
	flag(wizard.IDGoal, "goal", "lose_weight, gain_muscle, maintain or improve_fitness")
	return cmd
}

func displayName(u *models.UserProfile) string {
	if u == nil {
		return ""
	}
	if u.Personel != nil && u.Personel.NamaLengkap != "" {
		return u.Personel.NamaLengkap
	}
	return u.Name
}

func (a *app) newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the account profile",
	}
	cmd.AddCommand(a.newProfileShowCmd(), a.newProfileUpdateCmd())
	return cmd
}

func (a *app) newProfileShowCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.requireRoute(ctx, authenticated...); err != nil {
				return err
			}

			user := a.deps.Session.State().User
			if refresh || user == nil {
				err := a.busy(cmd, "Memuat profil...", func(ctx context.Context) error {
					var err error
					user, err = a.deps.Account.RefreshProfile(ctx)
					return err
				})
				if err != nil {
					return err
				}
			}

			var unit *models.SatuanKerja
			if user.Personel != nil && user.Personel.IDSatuanKerja > 0 {
				unit = a.deps.API.OrgUnit(ctx, user.Personel.IDSatuanKerja)
			}
			a.out(cmd).Profile(user, unit)
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "reload the profile from the server first")
	return cmd
}

func (a *app) newProfileUpdateCmd() *cobra.Command {
	var (
		name, email, fullName, phone, birthPlace, birthDate string
		gender, activity, goal                              string
		height, weight                                      float64
	)
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields given as flags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.requireRoute(ctx, authenticated...); err != nil {
				return err
			}

			f := cmd.Flags()
			var patch models.ProfileUpdate
			p := &models.PersonelUpdate{}
			setString := func(flag string, v string, dst **string) {
				if f.Changed(flag) {
					*dst = models.Ptr(v)
				}
			}
			setString("name", name, &patch.Name)
			setString("email", email, &patch.Email)
			setString("full-name", fullName, &p.NamaLengkap)
			setString("phone", phone, &p.NoHP)
			setString("birth-place", birthPlace, &p.TempatLahir)
			setString("birth-date", birthDate, &p.TanggalLahir)
			if f.Changed("gender") {
				p.JenisKelamin = models.Ptr(models.Gender(gender))
			}
			if f.Changed("activity") {
				p.ActivityLevel = models.Ptr(models.ActivityLevel(activity))
			}
			if f.Changed("goal") {
				p.FitnessGoal = models.Ptr(models.FitnessGoal(goal))
			}
			if f.Changed("height") {
				p.TinggiBadan = models.Ptr(height)
			}
			if f.Changed("weight") {
				p.BeratBadan = models.Ptr(weight)
			}
			if !p.IsEmpty() {
				patch.Personel = p
			}

			var user *models.UserProfile
			err := a.busy(cmd, "Memperbarui profil...", func(ctx context.Context) error {
				var err error
				user, err = a.deps.Account.UpdateProfile(ctx, patch)
				return err
			})
			if err != nil {
				return err
			}

			out := a.out(cmd)
			out.Success("Profil diperbarui")
			out.Profile(user, nil)
			if r := a.deps.Session.Route(ctx); r == session.RouteOnboarding {
				out.Notice("Langkah berikutnya: %s", nextCommand(r, a.deps.Session.State()))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "display name")
	f.StringVar(&email, "email", "", "email address")
	f.StringVar(&fullName, "full-name", "", "full name on the personnel record")
	f.StringVar(&phone, "phone", "", "phone number")
	f.StringVar(&birthPlace, "birth-place", "", "place of birth")
	f.StringVar(&birthDate, "birth-date", "", "date of birth (YYYY-MM-DD)")
	f.StringVar(&gender, "gender", "", "Laki-laki or Perempuan")
	f.StringVar(&activity, "activity", "", "activity level")
	f.StringVar(&goal, "goal", "", "fitness goal")
	f.Float64Var(&height, "height", 0, "height in cm")
	f.Float64Var(&weight, "weight", 0, "weight in kg")
	return cmd
}

func (a *app) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show BMI, calorie needs and daily targets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireRoute(cmd.Context(), session.RouteMain); err != nil {
				return err
			}
			stats, err := a.deps.Account.Stats()
			if err != nil {
				return fmt.Errorf("compute stats: %w", err)
			}
			a.out(cmd).Stats(displayName(a.deps.Session.State().User), stats)
			return nil
		},
	}
}

func (a *app) newThemeCmd() *cobra.Command {
	names := make([]string, 0, 4)
	for _, t := range models.ValidThemes() {
		names = append(names, string(t))
	}
	return &cobra.Command{
		Use:       "theme [" + strings.Join(names, "|") + "]",
		Short:     "Show or set the colour theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 0 {
				a.out(cmd).Notice("Tema: %s", a.deps.Session.Theme(ctx))
				return nil
			}

			t := models.Theme(strings.ToLower(args[0]))
			if err := a.deps.Session.SetTheme(ctx, t); err != nil {
				return err
			}
			a.deps.Theme = ui.NewTheme(t, a.deps.Theme.NoColor)
			out := a.out(cmd)
			out.Success("Tema diganti ke %s", t)

			// The profile copy is best effort; the local preference is what
			// the client reads.
			if a.deps.Session.Route(ctx) != session.RouteMain {
				return nil
			}
			_, err := a.deps.Account.UpdateProfile(ctx, models.ProfileUpdate{
				Personel: &models.PersonelUpdate{Theme: models.Ptr(t)},
			})
			if err != nil {
				a.deps.Logger.Debug("theme not saved to profile", zap.Error(err))
				out.Notice("Tema belum tersimpan di server: %s", api.Message(err))
			}
			return nil
		},
	}
}
