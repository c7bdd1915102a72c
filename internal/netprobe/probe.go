// Package netprobe answers whether the backend is reachable before a
// request is attempted.
package netprobe

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single reachability check.
const DefaultTimeout = 3 * time.Second

// Prober reports whether the network path to the backend is up.
type Prober interface {
	Reachable(ctx context.Context) bool
}

// Dialer checks reachability with a TCP connect to the backend host.
type Dialer struct {
	addr    string
	timeout time.Duration
	log     *zap.Logger
}

// NewDialer returns a Dialer for the host of baseURL. The port defaults to
// the scheme's well-known port.
func NewDialer(baseURL string, timeout time.Duration, log *zap.Logger) (*Dialer, error) {
	addr, err := hostPort(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dialer{addr: addr, timeout: timeout, log: log}, nil
}

// Addr returns the host:port that is dialled.
func (d *Dialer) Addr() string { return d.addr }

// Reachable dials the backend and closes the connection immediately.
func (d *Dialer) Reachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var nd net.Dialer
	conn, err := nd.DialContext(ctx, "tcp", d.addr)
	if err != nil {
		d.log.Debug("backend unreachable", zap.String("addr", d.addr), zap.Error(err))
		return false
	}
	_ = conn.Close()
	return true
}

func hostPort(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("netprobe: parse %q: %w", baseURL, err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("netprobe: no host in %q", baseURL)
	}
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		case "http":
			port = "80"
		default:
			return "", fmt.Errorf("netprobe: unsupported scheme %q", u.Scheme)
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}

// Static is a Prober with a fixed answer, used for offline mode and tests.
type Static bool

// Reachable returns the fixed answer.
func (s Static) Reachable(context.Context) bool { return bool(s) }

// Always returns a Prober that always answers up.
func Always(up bool) Prober { return Static(up) }
