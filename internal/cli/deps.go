// Package cli provides the cobra command tree of the sipolgar client and the
// composition root that wires configuration, storage, session and backend
// client together.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/sipolgar/sipolgar/internal/account"
	"github.com/sipolgar/sipolgar/internal/api"
	"github.com/sipolgar/sipolgar/internal/config"
	"github.com/sipolgar/sipolgar/internal/logger"
	"github.com/sipolgar/sipolgar/internal/netprobe"
	"github.com/sipolgar/sipolgar/internal/resilience"
	"github.com/sipolgar/sipolgar/internal/session"
	"github.com/sipolgar/sipolgar/internal/store"
	"github.com/sipolgar/sipolgar/internal/tracking"
	"github.com/sipolgar/sipolgar/internal/ui"
)

// Dependencies holds every service the commands use. It is built once per
// invocation by InitDependencies, or handed in pre-wired by tests.
type Dependencies struct {
	Settings *config.Config
	Logger   *zap.Logger
	Store    store.Store
	Session  *session.Manager
	API      *api.Client
	Account  *account.Service
	Tracking *tracking.Service
	Headless *ui.HeadlessManager
	Theme    *ui.Theme

	closers []io.Closer
}

// GlobalOptions are the persistent root flags.
type GlobalOptions struct {
	Home           string
	Verbose        bool
	NoColor        bool
	NonInteractive bool
}

// InitDependencies loads the configuration and wires every service. The
// session is hydrated from the store before it returns.
func InitDependencies(ctx context.Context, opts GlobalOptions) (*Dependencies, error) {
	home := opts.Home
	if home == "" {
		h, err := config.HomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate config directory: %w", err)
		}
		home = h
	}

	cfg, err := config.NewManager(home, nil, nil).Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Log.Level
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, Format: cfg.Log.Format, Output: os.Stderr})
	if err != nil {
		return nil, err
	}

	d := &Dependencies{Settings: cfg, Logger: log}
	if err := d.openStore(home); err != nil {
		return nil, err
	}

	var prober netprobe.Prober = netprobe.Always(false)
	if !cfg.API.Offline {
		dialer, err := netprobe.NewDialer(cfg.API.BaseURL, cfg.API.ProbeTimeout, log)
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("configure network probe: %w", err)
		}
		prober = dialer
	}

	d.Session = session.NewManager(d.Store, session.WithLogger(log))
	d.API = api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithTokenSource(d.Session),
		api.WithProber(prober),
		api.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		api.WithOrgUnitRetry(resilience.Policy{
			MaxRetries: cfg.API.Retry.MaxRetries,
			BaseDelay:  cfg.API.Retry.Delay,
			MaxDelay:   cfg.API.Retry.Delay,
		}),
		api.WithLogger(log),
	)
	d.wireServices(ctx, cfg.UI.NoColor || opts.NoColor, cfg.UI.NonInteractive || opts.NonInteractive)
	return d, nil
}

func (d *Dependencies) openStore(home string) error {
	s := d.Settings.Storage
	switch s.Driver {
	case config.DriverMemory:
		d.Store = store.NewMemory(nil)
	case config.DriverRedis:
		r, err := store.OpenRedis(s.RedisURL, s.KeyPrefix)
		if err != nil {
			return err
		}
		d.Store = r
		d.closers = append(d.closers, r)
	default:
		d.Store = store.NewFile(s.Path)
	}
	d.Logger.Debug("session store ready", zap.String("driver", s.Driver), zap.String("home", home))
	return nil
}

// wireServices builds the services that sit on top of the session and the
// API client, then hydrates the session and resolves the theme.
func (d *Dependencies) wireServices(ctx context.Context, noColor, nonInteractive bool) {
	d.Account = account.NewService(d.API, d.Session, d.Logger)
	d.Tracking = tracking.NewService(d.API, d.Logger)

	d.Session.Hydrate(ctx)
	d.Theme = ui.NewTheme(d.Session.Theme(ctx), noColor)

	d.Headless = ui.NewHeadlessManager()
	if nonInteractive {
		d.Headless.ForceHeadless(true)
	}
}

// NewTestDependencies wires services around st and a client for baseURL.
// Prompts are disabled and output is colourless.
func NewTestDependencies(ctx context.Context, st store.Store, baseURL string, log *zap.Logger, opts ...api.Option) *Dependencies {
	log = logger.OrNop(log)
	d := &Dependencies{
		Settings: config.NewDefaultConfig(),
		Logger:   log,
		Store:    st,
		Session:  session.NewManager(st, session.WithLogger(log)),
	}
	opts = append([]api.Option{api.WithTokenSource(d.Session), api.WithLogger(log)}, opts...)
	d.API = api.New(baseURL, opts...)
	d.wireServices(ctx, true, true)
	return d
}

// Close releases the store connection, if any.
func (d *Dependencies) Close() error {
	var errs []error
	for _, c := range d.closers {
		errs = append(errs, c.Close())
	}
	_ = d.Logger.Sync()
	return errors.Join(errs...)
}
