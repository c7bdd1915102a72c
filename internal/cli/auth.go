package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sipolgar/sipolgar/internal/account"
	"github.com/sipolgar/sipolgar/internal/api"
	"github.com/sipolgar/sipolgar/internal/cli/wizard"
	"github.com/sipolgar/sipolgar/internal/session"
	"github.com/sipolgar/sipolgar/pkg/models"
)

func (a *app) newLoginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with username and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" || password == "" {
				if !a.interactive() {
					if username == "" {
						return missing("username")
					}
					return missing("password")
				}
				if err := wizard.Prompt(a.deps.Theme,
					wizard.Field{Title: "Username", Value: &username},
					wizard.Field{Title: "Password", Secret: true, Value: &password},
				); err != nil {
					return err
				}
			}

			var route session.Route
			err := a.busy(cmd, "Masuk...", func(ctx context.Context) error {
				var err error
				route, err = a.deps.Account.Login(ctx, username, password)
				return err
			})
			if err != nil {
				return err
			}

			out := a.out(cmd)
			user := a.deps.Session.State().User
			out.Success("Masuk sebagai %s", user.Username)
			if route != session.RouteMain {
				out.Notice("Langkah berikutnya: %s", nextCommand(route, a.deps.Session.State()))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func (a *app) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.deps.Account.Logout(cmd.Context()); err != nil {
				return err
			}
			a.out(cmd).Success("Keluar")
			return nil
		},
	}
}

func (a *app) newRegisterCmd() *cobra.Command {
	var (
		in     account.RegisterInput
		gender string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account; the backend emails a verification code",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.JenisKelamin = models.Gender(gender)
			if err := a.completeRegistration(cmd, &in); err != nil {
				return err
			}

			var resp *api.RegisterResponse
			err := a.busy(cmd, "Mendaftarkan akun...", func(ctx context.Context) error {
				var err error
				resp, err = a.deps.Account.Register(ctx, in)
				return err
			})
			if err != nil {
				return err
			}

			out := a.out(cmd)
			out.Success("%s", messageOr(resp.Message, "Registrasi berhasil"))
			out.Notice("Kode OTP dikirim ke %s. Lanjutkan dengan: sipolgar verify --email %s --otp <kode>", in.Email, in.Email)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.NamaLengkap, "name", "", "full name")
	f.StringVar(&in.Username, "username", "", "username")
	f.StringVar(&in.Email, "email", "", "email address")
	f.StringVar(&in.NoHP, "phone", "", "phone number")
	f.StringVar(&in.TempatLahir, "birth-place", "", "place of birth")
	f.StringVar(&in.TanggalLahir, "birth-date", "", "date of birth (YYYY-MM-DD)")
	f.StringVar(&gender, "gender", "", "Laki-laki or Perempuan")
	f.Int64Var(&in.IDSatuanKerja, "unit", 0, "organisational unit ID (see `sipolgar units`)")
	return cmd
}

// completeRegistration prompts for every registration field left empty.
// The unit is picked by drilling from a parent unit into its children.
func (a *app) completeRegistration(cmd *cobra.Command, in *account.RegisterInput) error {
	if !a.interactive() {
		return nil
	}

	var fields []wizard.Field
	ask := func(title string, v *string) {
		if *v == "" {
			fields = append(fields, wizard.Field{Title: title, Value: v})
		}
	}
	ask("Nama lengkap", &in.NamaLengkap)
	ask("Username", &in.Username)
	ask("Email", &in.Email)
	ask("No. HP", &in.NoHP)
	ask("Tempat lahir", &in.TempatLahir)
	ask("Tanggal lahir (YYYY-MM-DD)", &in.TanggalLahir)
	if len(fields) > 0 {
		if err := wizard.Prompt(a.deps.Theme, fields...); err != nil {
			return err
		}
	}

	if in.JenisKelamin == "" {
		opts := make([]wizard.Option, 0, 2)
		for _, g := range models.ValidGenders() {
			opts = append(opts, wizard.Option{Label: g.Label(), Value: string(g)})
		}
		g, err := wizard.Select(a.deps.Theme, "Jenis kelamin", opts)
		if err != nil {
			return err
		}
		in.JenisKelamin = models.Gender(g)
	}

	if in.IDSatuanKerja == 0 {
		id, err := a.pickUnit(cmd)
		if err != nil {
			return err
		}
		in.IDSatuanKerja = id
	}
	return nil
}

func (a *app) pickUnit(cmd *cobra.Command) (int64, error) {
	ctx := cmd.Context()
	label := a.out(cmd).TitleCase

	parents := a.deps.API.ListParentOrgUnits(ctx)
	if len(parents) == 0 {
		return 0, missing("unit")
	}
	pid, err := wizard.Select(a.deps.Theme, "Satuan kerja induk", wizard.UnitOptions(parents, label))
	if err != nil {
		return 0, err
	}
	parentID, _ := strconv.ParseInt(pid, 10, 64)

	children := a.deps.API.ListChildOrgUnits(ctx, parentID)
	if len(children) == 0 {
		return parentID, nil
	}
	opts := append([]wizard.Option{{Label: "(satuan induk)", Value: pid}}, wizard.UnitOptions(children, label)...)
	cid, err := wizard.Select(a.deps.Theme, "Satuan kerja", opts)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(cid, 10, 64)
}

func (a *app) newVerifyCmd() *cobra.Command {
	var (
		email, otp    string
		resend, check bool
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the account email with the emailed code",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" {
				email = a.deps.Session.State().VerificationEmail
			}
			if email == "" {
				if !a.interactive() {
					return missing("email")
				}
				if err := wizard.Prompt(a.deps.Theme, wizard.Field{Title: "Email", Value: &email}); err != nil {
					return err
				}
			}
			out := a.out(cmd)

			switch {
			case resend:
				var msg string
				err := a.busy(cmd, "Mengirim ulang OTP...", func(ctx context.Context) error {
					var err error
					msg, err = a.deps.Account.ResendOTP(ctx, email)
					return err
				})
				if err != nil {
					return err
				}
				out.Success("%s", messageOr(msg, "Kode OTP baru telah dikirim"))
				return nil
			case check:
				var verified bool
				err := a.busy(cmd, "Memeriksa status verifikasi...", func(ctx context.Context) error {
					var err error
					verified, err = a.deps.Account.CheckVerification(ctx, email)
					return err
				})
				if err != nil {
					return err
				}
				if verified {
					out.Success("Email %s sudah terverifikasi", email)
				} else {
					out.Notice("Email %s belum terverifikasi", email)
				}
				return nil
			}

			if otp == "" {
				if !a.interactive() {
					return missing("otp")
				}
				if err := wizard.Prompt(a.deps.Theme, wizard.Field{Title: "Kode OTP", Value: &otp, Validate: account.ValidateOTP}); err != nil {
					return err
				}
			}
			var msg string
			err := a.busy(cmd, "Memverifikasi...", func(ctx context.Context) error {
				var err error
				msg, err = a.deps.Account.VerifyEmail(ctx, email, otp)
				return err
			})
			if err != nil {
				return err
			}
			out.Success("%s", messageOr(msg, "Email terverifikasi"))
			out.Notice("Langkah berikutnya: sipolgar login")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&email, "email", "", "email address used at registration")
	f.StringVar(&otp, "otp", "", "6-digit code from the email")
	f.BoolVar(&resend, "resend", false, "send a new code")
	f.BoolVar(&check, "check", false, "only report whether the email is verified")
	cmd.MarkFlagsMutuallyExclusive("resend", "check", "otp")
	return cmd
}

func (a *app) newForgotPasswordCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset email",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" {
				if !a.interactive() {
					return missing("email")
				}
				if err := wizard.Prompt(a.deps.Theme, wizard.Field{Title: "Email", Value: &email}); err != nil {
					return err
				}
			}
			var msg string
			err := a.busy(cmd, "Mengirim permintaan...", func(ctx context.Context) error {
				var err error
				msg, err = a.deps.Account.ForgotPassword(ctx, email)
				return err
			})
			if err != nil {
				return err
			}
			a.out(cmd).Success("%s", messageOr(msg, "Instruksi reset kata sandi telah dikirim"))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func (a *app) newChangePasswordCmd() *cobra.Command {
	var current, next, confirm string
	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Replace the account password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.requireRoute(ctx, session.RouteChangePassword, session.RouteOnboarding, session.RouteMain); err != nil {
				return err
			}

			if current == "" || next == "" {
				if !a.interactive() {
					if current == "" {
						return missing("current")
					}
					return missing("new")
				}
				if err := wizard.Prompt(a.deps.Theme,
					wizard.Field{Title: "Kata sandi saat ini", Secret: true, Value: &current},
					wizard.Field{Title: "Kata sandi baru", Secret: true, Value: &next},
					wizard.Field{Title: "Ulangi kata sandi baru", Secret: true, Value: &confirm},
				); err != nil {
					return err
				}
			}
			if confirm == "" && !a.interactive() {
				confirm = next
			}

			err := a.busy(cmd, "Mengganti kata sandi...", func(ctx context.Context) error {
				return a.deps.Account.ChangePassword(ctx, current, next, confirm)
			})
			if err != nil {
				return err
			}

			out := a.out(cmd)
			out.Success("Kata sandi diganti")
			if r := a.deps.Session.Route(ctx); r != session.RouteMain {
				out.Notice("Langkah berikutnya: %s", nextCommand(r, a.deps.Session.State()))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&current, "current", "", "current password")
	f.StringVar(&next, "new", "", "new password (at least 8 characters)")
	f.StringVar(&confirm, "confirm", "", "new password again (defaults to --new without a terminal)")
	return cmd
}

func messageOr(msg, def string) string {
	if strings.TrimSpace(msg) == "" {
		return def
	}
	return msg
}
