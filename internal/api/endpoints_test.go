package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sipolgar/sipolgar/internal/apitest"
	"github.com/sipolgar/sipolgar/pkg/models"
)

func authed(t *testing.T, b *apitest.Backend) *Client {
	t.Helper()
	tok := loginToken(t, newClient(t, b.URL()))
	return newClient(t, b.URL(), WithTokenSource(StaticToken(tok)))
}

func TestRegisterVerifyFlow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := apitest.New(t)
	c := newClient(t, b.URL())

	resp, err := c.Register(ctx, RegisterRequest{
		NamaLengkap:   "Siti Aminah",
		Username:      "siti",
		Email:         "siti@example.id",
		NoHP:          "08123456789",
		TempatLahir:   "Bandung",
		TanggalLahir:  "1998-02-14",
		IDSatuanKerja: 12,
		JenisKelamin:  models.GenderFemale,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.Personel == nil || resp.Personel.IDSatuanKerja != 12 {
		t.Errorf("personel = %+v, want id_satuankerja 12", resp.Personel)
	}

	if _, err := c.Register(ctx, RegisterRequest{NamaLengkap: "X", Username: "siti", Email: "y@example.id"}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("duplicate Register error = %v, want AuthError", err)
	}

	status, err := c.CheckVerification(ctx, "siti@example.id")
	if err != nil {
		t.Fatalf("CheckVerification: %v", err)
	}
	if status.IsVerified {
		t.Error("new account already verified")
	}

	if _, err := c.VerifyEmailOTP(ctx, "siti@example.id", "000000"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong OTP error = %v, want AuthError", err)
	}
	if _, err := c.RegenerateOTP(ctx, "siti@example.id"); err != nil {
		t.Fatalf("RegenerateOTP: %v", err)
	}
	if _, err := c.VerifyEmailOTP(ctx, "siti@example.id", b.OTP("siti@example.id")); err != nil {
		t.Fatalf("VerifyEmailOTP: %v", err)
	}

	status, err = c.CheckVerification(ctx, "siti@example.id")
	if err != nil {
		t.Fatalf("CheckVerification: %v", err)
	}
	if !status.IsVerified {
		t.Error("account not verified after OTP")
	}

	login, err := c.Login(ctx, "siti", apitest.DefaultPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.NeedsPasswordChange == nil || !*login.User.NeedsPasswordChange {
		t.Error("registered account should need a password change")
	}
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := apitest.New(t)
	b.RotateTokenOnPasswordChange = true
	seedUser(b)
	c := authed(t, b)

	if _, err := c.ChangePassword(ctx, "wrong-pass", "newpassword1"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong current password error = %v, want AuthError", err)
	}
	resp, err := c.ChangePassword(ctx, "rahasia123", "newpassword1")
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if resp.Token == "" {
		t.Error("rotated token missing")
	}
	if b.Account("budi").Password != "newpassword1" {
		t.Error("password not changed on the backend")
	}
	if _, err := c.ChangePassword(ctx, "", "x"); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestForgotPassword(t *testing.T) {
	t.Parallel()

	b := apitest.New(t)
	seedUser(b)
	c := newClient(t, b.URL())

	msg, err := c.ForgotPassword(context.Background(), "budi@example.id")
	if err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if msg == "" {
		t.Error("empty message")
	}
	_, err = c.ForgotPassword(context.Background(), "nobody@example.id")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("unknown email error = %v, want 404 APIError", err)
	}
}

func TestUpdateProfileSendsFlatBody(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := apitest.New(t)
	seedUser(b)
	c := authed(t, b)

	patch := models.ProfileUpdate{
		Name: models.Ptr("Budi S"),
		Personel: &models.PersonelUpdate{
			BeratBadan:    models.Ptr(70.0),
			FitnessGoal:   models.Ptr(models.GoalLoseWeight),
			ActivityLevel: models.Ptr(models.ActivityModerate),
		},
	}
	resp, err := c.UpdateProfile(ctx, patch)
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if resp.User == nil || *resp.User.Personel.BeratBadan != 70 {
		t.Errorf("response user = %+v", resp.User)
	}

	reqs := b.Requests()
	var body map[string]any
	if err := json.Unmarshal(reqs[len(reqs)-1].Body, &body); err != nil {
		t.Fatalf("request body: %v", err)
	}
	want := map[string]any{
		"name":           "Budi S",
		"berat_badan":    70.0,
		"fitness_goal":   "lose_weight",
		"activity_level": "moderate",
	}
	if len(body) != len(want) {
		t.Errorf("body = %v, want %v", body, want)
	}
	for k, v := range want {
		if body[k] != v {
			t.Errorf("body[%q] = %v, want %v", k, body[k], v)
		}
	}
}

func TestGetProfile(t *testing.T) {
	t.Parallel()

	b := apitest.New(t)
	id := seedUser(b)
	c := authed(t, b)

	u, err := c.GetProfile(context.Background())
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if u.ID != id || u.Username != "budi" {
		t.Errorf("user = %+v", u)
	}
}

func TestOrgUnits(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := apitest.New(t)
	b.SetOrgUnits(
		models.SatuanKerja{ID: 1, NamaSatuanKerja: "Polda Jabar"},
		models.SatuanKerja{ID: 2, NamaSatuanKerja: "Polres Bandung", ParentID: models.Ptr[int64](1)},
		models.SatuanKerja{ID: 3, NamaSatuanKerja: "Polres Cimahi", ParentID: models.Ptr[int64](1)},
	)
	c := newClient(t, b.URL())

	if got := len(c.ListOrgUnits(ctx)); got != 3 {
		t.Errorf("ListOrgUnits() len = %d, want 3", got)
	}
	if got := c.ListParentOrgUnits(ctx); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("ListParentOrgUnits() = %+v", got)
	}
	if got := c.ListChildOrgUnits(ctx, 1); len(got) != 2 {
		t.Errorf("ListChildOrgUnits(1) len = %d, want 2", len(got))
	}
	if got := c.OrgUnit(ctx, 2); got == nil || got.NamaSatuanKerja != "Polres Bandung" {
		t.Errorf("OrgUnit(2) = %+v", got)
	}
	if got := c.OrgUnit(ctx, 99); got != nil {
		t.Errorf("OrgUnit(99) = %+v, want nil", got)
	}
}

func TestOrgUnitsRetryThenSucceed(t *testing.T) {
	t.Parallel()

	b := apitest.New(t)
	b.SetOrgUnits(models.SatuanKerja{ID: 1, NamaSatuanKerja: "Polda Jabar"})
	b.FailNext(http.MethodGet, "/satuan-kerja", http.StatusBadGateway, 2)
	c := newClient(t, b.URL())

	if got := c.ListOrgUnits(context.Background()); len(got) != 1 {
		t.Errorf("ListOrgUnits() len = %d, want 1", len(got))
	}
	if n := b.CountRequests(http.MethodGet, "/satuan-kerja"); n != 3 {
		t.Errorf("requests = %d, want 3", n)
	}
}

func TestOrgUnitsDegradeToEmpty(t *testing.T) {
	t.Parallel()

	b := apitest.New(t)
	b.SetOrgUnits(models.SatuanKerja{ID: 1})
	b.FailNext(http.MethodGet, "/satuan-kerja/parents", http.StatusServiceUnavailable, 5)
	c := newClient(t, b.URL())

	got := c.ListParentOrgUnits(context.Background())
	if got == nil || len(got) != 0 {
		t.Errorf("ListParentOrgUnits() = %v, want empty non-nil", got)
	}
	if n := b.CountRequests(http.MethodGet, "/satuan-kerja/parents"); n != 3 {
		t.Errorf("requests = %d, want 3 (initial + 2 retries)", n)
	}
}

func TestOrgUnitsNoRetryOnClientError(t *testing.T) {
	t.Parallel()

	b := apitest.New(t)
	b.FailNext(http.MethodGet, "/satuan-kerja", http.StatusNotFound, 5)
	c := newClient(t, b.URL())

	_ = c.ListOrgUnits(context.Background())
	if n := b.CountRequests(http.MethodGet, "/satuan-kerja"); n != 1 {
		t.Errorf("requests = %d, want 1", n)
	}
}

func TestWorkouts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := apitest.New(t)
	seedUser(b)
	b.SetWorkouts(models.Workout{ID: 4, NamaLatihan: "Lari", DurationSeconds: 150, CaloriesPerSecond: "0.2"})
	c := authed(t, b)

	list, err := c.ListWorkouts(ctx)
	if err != nil {
		t.Fatalf("ListWorkouts: %v", err)
	}
	if len(list) != 1 || list[0].DurationMinutes() != 2 {
		t.Errorf("ListWorkouts() = %+v", list)
	}
	w, err := c.GetWorkout(ctx, 4)
	if err != nil {
		t.Fatalf("GetWorkout: %v", err)
	}
	if w.NamaLatihan != "Lari" {
		t.Errorf("NamaLatihan = %q", w.NamaLatihan)
	}
	var apiErr *APIError
	if _, err := c.GetWorkout(ctx, 5); !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("GetWorkout(5) error = %v, want 404", err)
	}
}

func TestWeights(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := apitest.New(t)
	id := seedUser(b)
	c := authed(t, b)

	list, err := c.ListWeights(ctx)
	if err != nil {
		t.Fatalf("ListWeights: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("ListWeights() = %v, want empty", list)
	}

	entry, err := c.SaveWeight(ctx, SaveWeightRequest{WeightKg: 64.5, Week: 0, Date: "2024-06-01"})
	if err != nil {
		t.Fatalf("SaveWeight: %v", err)
	}
	if entry.Week != 1 {
		t.Errorf("Week = %d, want clamped to 1", entry.Week)
	}
	if got := b.Weights(id); len(got) != 1 || got[0].WeightKg != 64.5 {
		t.Errorf("backend weights = %+v", got)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Parallel()

	b := apitest.New(t)
	b.TokenTTL = -time.Minute
	seedUser(b)
	c := authed(t, b)

	if _, err := c.GetProfile(context.Background()); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("GetProfile error = %v, want ErrUnauthorized", err)
	}
}
