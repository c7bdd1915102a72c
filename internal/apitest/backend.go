// Package apitest provides an in-process fake of the sipolgar backend for
// tests. It speaks the same JSON as the real API, issues signed JWTs and
// can be told to fail specific endpoints.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sipolgar/sipolgar/pkg/models"
)

// DefaultPassword is given to accounts created through registration.
const DefaultPassword = "sipolgar123"

// Account is one user known to the backend.
type Account struct {
	Password string
	Verified bool
	OTP      string
	Profile  models.UserProfile
}

// Request is a recorded incoming request.
type Request struct {
	Method    string
	Path      string
	Auth      string
	RequestID string
	Body      []byte
}

// Backend is the fake API.
type Backend struct {
	mu       sync.Mutex
	accounts map[string]*Account
	units    []models.SatuanKerja
	workouts []models.Workout
	weights  map[int64][]models.WeightEntry
	failures map[string][]int
	requests []Request
	secret   []byte
	nextID   int64
	otpSeq   int

	// TokenTTL is the lifetime of issued tokens.
	TokenTTL time.Duration
	// RotateTokenOnPasswordChange makes /change-password return a new token.
	RotateTokenOnPasswordChange bool
	// OmitPersonelOnUpdate drops personel from /users/update responses.
	OmitPersonelOnUpdate bool
	// OmitUserOnUpdate drops the user from /users/update responses.
	OmitUserOnUpdate bool
	// OmitExpiresAt leaves expires_at out of login responses.
	OmitExpiresAt bool

	srv *httptest.Server
}

// New starts a backend that is closed when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()
	b := NewBackend()
	b.srv = httptest.NewServer(b.Handler())
	t.Cleanup(b.srv.Close)
	return b
}

// NewBackend returns a backend that is not yet serving.
func NewBackend() *Backend {
	return &Backend{
		accounts: make(map[string]*Account),
		weights:  make(map[int64][]models.WeightEntry),
		failures: make(map[string][]int),
		secret:   []byte(uuid.NewString()),
		nextID:   100,
		TokenTTL: 24 * time.Hour,
	}
}

// URL returns the base URL of the running server.
func (b *Backend) URL() string {
	if b.srv == nil {
		return ""
	}
	return b.srv.URL
}

// Close stops the server started by New.
func (b *Backend) Close() {
	if b.srv != nil {
		b.srv.Close()
	}
}

// AddAccount registers a verified account and returns its user ID.
func (b *Backend) AddAccount(username, password string, profile models.UserProfile) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if profile.ID == 0 {
		profile.ID = b.id()
	}
	profile.Username = username
	b.accounts[username] = &Account{Password: password, Verified: true, Profile: profile}
	return profile.ID
}

// Account returns a copy of the account, or nil.
func (b *Backend) Account(username string) *Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.accounts[username]
	if !ok {
		return nil
	}
	c := *a
	c.Profile = *a.Profile.Clone()
	return &c
}

// OTP returns the current one-time code for email.
func (b *Backend) OTP(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if a := b.byEmail(email); a != nil {
		return a.OTP
	}
	return ""
}

// SetOrgUnits replaces the organisational units.
func (b *Backend) SetOrgUnits(units ...models.SatuanKerja) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.units = append([]models.SatuanKerja(nil), units...)
}

// SetWorkouts replaces the workout catalogue.
func (b *Backend) SetWorkouts(ws ...models.Workout) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.workouts = append([]models.Workout(nil), ws...)
}

// SetWeights replaces the weigh-ins of a user.
func (b *Backend) SetWeights(userID int64, entries ...models.WeightEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.weights[userID] = append([]models.WeightEntry(nil), entries...)
}

// Weights returns the weigh-ins of a user.
func (b *Backend) Weights(userID int64) []models.WeightEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.WeightEntry(nil), b.weights[userID]...)
}

// FailNext makes the next n requests to method and path answer status.
func (b *Backend) FailNext(method, path string, status, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := method + " " + path
	for range n {
		b.failures[key] = append(b.failures[key], status)
	}
}

// Requests returns the recorded requests in arrival order.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// CountRequests returns how many requests hit method and path.
func (b *Backend) CountRequests(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// IssueToken signs a token for username with the configured lifetime.
func (b *Backend) IssueToken(username string) (string, time.Time, error) {
	exp := time.Now().Add(b.TokenTTL).UTC().Truncate(time.Second)
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	return tok, exp, err
}

// Handler returns the router.
func (b *Backend) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(b.record)
	r.Use(b.injectFailures)

	r.Post("/login", b.login)
	r.Post("/register", b.register)
	r.Post("/verify-email-otp", b.verifyOTP)
	r.Post("/check-verification", b.checkVerification)
	r.Post("/regenerate-otp", b.regenerateOTP)
	r.Post("/forgot-password", b.forgotPassword)

	r.Route("/satuan-kerja", func(r chi.Router) {
		r.Get("/", b.listUnits)
		r.Get("/parents", b.parentUnits)
		r.Get("/children/{id}", b.childUnits)
		r.Get("/{id}", b.unitDetail)
	})

	r.Group(func(r chi.Router) {
		r.Use(b.requireToken)
		r.Post("/change-password", b.changePassword)
		r.Get("/users", b.getUser)
		r.Post("/users/update", b.updateUser)
		r.Get("/latihan", b.listWorkouts)
		r.Get("/latihan/{id}", b.getWorkout)
		r.Get("/berat-badan", b.listWeights)
		r.Post("/berat-badan", b.saveWeight)
	})
	return r
}

func (b *Backend) id() int64 {
	b.nextID++
	return b.nextID
}

func (b *Backend) byEmail(email string) *Account {
	for _, a := range b.accounts {
		if strings.EqualFold(a.Profile.Email, email) {
			return a
		}
	}
	return nil
}

func (b *Backend) newOTP() string {
	b.otpSeq++
	return fmt.Sprintf("%06d", 123455+b.otpSeq)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed request body")
		return false
	}
	return true
}

func strconvInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}
