// Package api is the client for the sipolgar backend REST API.
//
// Every request consults the network probe first, waits on the client rate
// limiter, and carries the bearer token read from the token source at send
// time. Failures are returned as NetworkError, AuthError or APIError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sipolgar/sipolgar/internal/netprobe"
	"github.com/sipolgar/sipolgar/internal/resilience"
	"github.com/sipolgar/sipolgar/pkg/version"
)

// DefaultTimeout is the per-request timeout.
const DefaultTimeout = 15 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// TokenSource returns the current bearer token, or "" when logged out.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed TokenSource.
type StaticToken string

// Token returns the fixed token.
func (s StaticToken) Token(context.Context) (string, error) { return string(s), nil }

// Client talks to the backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	probe   netprobe.Prober
	limiter *rate.Limiter
	log     *zap.Logger
	agent   string

	orgPolicy resilience.Policy
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithProber sets the reachability check run before each request.
func WithProber(p netprobe.Prober) Option {
	return func(c *Client) { c.probe = p }
}

// WithRateLimit limits outgoing requests to r per second with the given
// burst. A non-positive r disables limiting.
func WithRateLimit(r float64, burst int) Option {
	return func(c *Client) {
		if r <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(r), max(burst, 1))
	}
}

// WithOrgUnitRetry overrides the retry policy of organisational unit lookups.
func WithOrgUnitRetry(p resilience.Policy) Option {
	return func(c *Client) { c.orgPolicy = p }
}

// WithLogger sets the client's logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		tokens:  StaticToken(""),
		probe:   netprobe.Always(true),
		log:     zap.NewNop(),
		agent:   "sipolgar/" + version.GetVersion(),

		orgPolicy: resilience.OrgUnitPolicy,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string { return c.baseURL }

// call describes one request.
type call struct {
	op     string
	method string
	path   string
	body   any
	out    any

	// credential marks endpoints where 400/422 means rejected credentials.
	credential bool
}

// messageBody is the envelope every response shares.
type messageBody struct {
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, cl call) error {
	if !c.probe.Reachable(ctx) {
		c.log.Warn("backend unreachable, request not sent", zap.String("op", cl.op))
		return &NetworkError{Op: cl.op, Err: ErrNoConnection}
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &NetworkError{Op: cl.op, Err: err}
		}
	}

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", cl.op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", cl.op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.agent)
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok, err := c.tokens.Token(ctx); err != nil {
		c.log.Warn("read token failed, sending without one", zap.String("op", cl.op), zap.Error(err))
	} else if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	log := c.log.With(zap.String("op", cl.op), zap.String("request_id", reqID))
	start := time.Now()
	log.Debug("api request", zap.String("method", cl.method), zap.String("path", cl.path))

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("api request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return &NetworkError{Op: cl.op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &NetworkError{Op: cl.op, Err: fmt.Errorf("read response: %w", err)}
	}
	log.Debug("api response", zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var mb messageBody
		_ = json.Unmarshal(data, &mb)
		err := classify(cl.op, resp.StatusCode, strings.TrimSpace(mb.Message), cl.credential)
		log.Info("api error response", zap.Int("status", resp.StatusCode), zap.Error(err))
		return err
	}

	if cl.out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, cl.out); err != nil {
		return fmt.Errorf("%s: decode response: %w", cl.op, err)
	}
	return nil
}
