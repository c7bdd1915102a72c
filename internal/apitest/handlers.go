package apitest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sipolgar/sipolgar/pkg/models"
)

type ctxKey struct{}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:    r.Method,
			Path:      r.URL.Path,
			Auth:      r.Header.Get("Authorization"),
			RequestID: r.Header.Get("X-Request-ID"),
			Body:      body,
		})
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		b.mu.Lock()
		queue := b.failures[key]
		status := 0
		if len(queue) > 0 {
			status, b.failures[key] = queue[0], queue[1:]
		}
		b.mu.Unlock()
		if status != 0 {
			writeMessage(w, status, "Injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeMessage(w, http.StatusUnauthorized, "Unauthenticated.")
			return
		}
		claims := jwt.RegisteredClaims{}
		_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
			return b.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			msg := "Invalid token."
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired."
			}
			writeMessage(w, http.StatusUnauthorized, msg)
			return
		}
		b.mu.Lock()
		_, known := b.accounts[claims.Subject]
		b.mu.Unlock()
		if !known {
			writeMessage(w, http.StatusUnauthorized, "Invalid token.")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims.Subject)))
	})
}

func username(r *http.Request) string {
	s, _ := r.Context().Value(ctxKey{}).(string)
	return s
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeMessage(w, http.StatusUnprocessableEntity, "Username and password are required.")
		return
	}

	b.mu.Lock()
	a, ok := b.accounts[req.Username]
	if !ok || a.Password != req.Password {
		b.mu.Unlock()
		writeMessage(w, http.StatusUnauthorized, "Invalid username or password.")
		return
	}
	if !a.Verified {
		b.mu.Unlock()
		writeMessage(w, http.StatusForbidden, "Please verify your email before logging in.")
		return
	}
	user := a.Profile.Clone()
	b.mu.Unlock()

	tok, exp, err := b.IssueToken(req.Username)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]any{"message": "Login successful", "user": user, "token": tok}
	if !b.OmitExpiresAt {
		resp["expires_at"] = exp.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NamaLengkap   string        `json:"nama_lengkap"`
		Username      string        `json:"username"`
		Email         string        `json:"email"`
		NoHP          string        `json:"no_hp"`
		TempatLahir   string        `json:"tempat_lahir"`
		TanggalLahir  string        `json:"tanggal_lahir"`
		IDSatuanKerja int64         `json:"id_satuankerja"`
		JenisKelamin  models.Gender `json:"jenis_kelamin"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Email == "" || req.NamaLengkap == "" {
		writeMessage(w, http.StatusUnprocessableEntity, "The given data was invalid.")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, taken := b.accounts[req.Username]; taken {
		writeMessage(w, http.StatusUnprocessableEntity, "The username has already been taken.")
		return
	}
	if b.byEmail(req.Email) != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "The email has already been taken.")
		return
	}

	userID, personelID := b.id(), b.id()
	a := &Account{
		Password: DefaultPassword,
		OTP:      b.newOTP(),
		Profile: models.UserProfile{
			ID:                  userID,
			Name:                req.NamaLengkap,
			Username:            req.Username,
			Email:               req.Email,
			Role:                "personel",
			NeedsPasswordChange: models.Ptr(true),
			Personel: &models.Personel{
				ID:            personelID,
				NamaLengkap:   req.NamaLengkap,
				TempatLahir:   req.TempatLahir,
				TanggalLahir:  req.TanggalLahir,
				NoHP:          req.NoHP,
				JenisKelamin:  req.JenisKelamin,
				IDSatuanKerja: req.IDSatuanKerja,
				IDUser:        userID,
			},
		},
	}
	b.accounts[req.Username] = a

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Registration successful. Please check your email for the verification code.",
		"user": map[string]any{
			"id": userID, "name": req.NamaLengkap, "username": req.Username,
			"email": req.Email, "role": "personel", "status": false,
		},
		"personel": map[string]any{
			"id": personelID, "nama_lengkap": req.NamaLengkap, "tempat_lahir": req.TempatLahir,
			"tanggal_lahir": req.TanggalLahir, "no_hp": req.NoHP,
			"id_satuankerja": strconvInt(req.IDSatuanKerja), "id_user": userID,
		},
	})
}

func (b *Backend) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp_code"`
	}
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	a := b.byEmail(req.Email)
	if a == nil {
		writeMessage(w, http.StatusNotFound, "Email not found.")
		return
	}
	if a.OTP == "" || a.OTP != req.OTP {
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid or expired OTP code.")
		return
	}
	a.Verified = true
	a.OTP = ""
	a.Profile.Status = true
	writeMessage(w, http.StatusOK, "Email verified successfully.")
}

func (b *Backend) checkVerification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	a := b.byEmail(req.Email)
	if a == nil {
		writeMessage(w, http.StatusNotFound, "Email not found.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_verified": a.Verified, "status": a.Profile.Status})
}

func (b *Backend) regenerateOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	a := b.byEmail(req.Email)
	if a == nil {
		writeMessage(w, http.StatusNotFound, "Email not found.")
		return
	}
	if a.Verified {
		writeMessage(w, http.StatusUnprocessableEntity, "Email is already verified.")
		return
	}
	a.OTP = b.newOTP()
	writeMessage(w, http.StatusOK, "A new OTP code has been sent to your email.")
}

func (b *Backend) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	a := b.byEmail(req.Email)
	if a == nil {
		writeMessage(w, http.StatusNotFound, "We can't find a user with that email address.")
		return
	}
	a.Password = DefaultPassword
	a.Profile.NeedsPasswordChange = models.Ptr(true)
	writeMessage(w, http.StatusOK, "A new password has been sent to your email.")
}

func (b *Backend) changePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Current string `json:"current_password"`
		New     string `json:"new_password"`
	}
	if !decode(w, r, &req) {
		return
	}
	name := username(r)

	b.mu.Lock()
	a := b.accounts[name]
	if a.Password != req.Current {
		b.mu.Unlock()
		writeMessage(w, http.StatusUnprocessableEntity, "Current password is incorrect.")
		return
	}
	if len(req.New) < 8 {
		b.mu.Unlock()
		writeMessage(w, http.StatusUnprocessableEntity, "The new password must be at least 8 characters.")
		return
	}
	a.Password = req.New
	a.Profile.NeedsPasswordChange = models.Ptr(false)
	b.mu.Unlock()

	resp := map[string]any{"message": "Password changed successfully."}
	if b.RotateTokenOnPasswordChange {
		tok, _, err := b.IssueToken(name)
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp["token"] = tok
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *Backend) getUser(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	user := b.accounts[username(r)].Profile.Clone()
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (b *Backend) updateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
		models.PersonelUpdate
	}
	if !decode(w, r, &req) {
		return
	}
	if req.TinggiBadan != nil && *req.TinggiBadan <= 0 || req.BeratBadan != nil && *req.BeratBadan <= 0 {
		writeMessage(w, http.StatusUnprocessableEntity, "Height and weight must be positive.")
		return
	}

	b.mu.Lock()
	a := b.accounts[username(r)]
	if req.Name != nil {
		a.Profile.Name = *req.Name
	}
	if req.Email != nil {
		a.Profile.Email = *req.Email
	}
	if !req.PersonelUpdate.IsEmpty() {
		if a.Profile.Personel == nil {
			a.Profile.Personel = &models.Personel{ID: b.id(), IDUser: a.Profile.ID}
		}
		req.PersonelUpdate.ApplyTo(a.Profile.Personel)
	}
	a.Profile.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	user := a.Profile.Clone()
	b.mu.Unlock()

	resp := map[string]any{"message": "Profile updated successfully."}
	switch {
	case b.OmitUserOnUpdate:
	case b.OmitPersonelOnUpdate:
		user.Personel = nil
		resp["user"] = user
	default:
		resp["user"] = user
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *Backend) listUnits(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"message": "ok", "data": b.units})
}

func (b *Backend) parentUnits(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.SatuanKerja{}
	for _, u := range b.units {
		if u.ParentID == nil {
			out = append(out, u)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "ok", "data": out})
}

func (b *Backend) childUnits(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.SatuanKerja{}
	for _, u := range b.units {
		if u.ParentID != nil && *u.ParentID == id {
			out = append(out, u)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "ok", "data": out})
}

func (b *Backend) unitDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.units {
		if u.ID == id {
			writeJSON(w, http.StatusOK, map[string]any{"message": "ok", "data": u})
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Satuan kerja not found.")
}

func (b *Backend) listWorkouts(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": b.workouts})
}

func (b *Backend) getWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, wo := range b.workouts {
		if wo.ID == id {
			writeJSON(w, http.StatusOK, map[string]any{"data": wo})
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Latihan not found.")
}

func (b *Backend) listWeights(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.accounts[username(r)].Profile.ID
	writeJSON(w, http.StatusOK, map[string]any{"data": b.weights[id]})
}

func (b *Backend) saveWeight(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeightKg float64 `json:"berat_badan"`
		Week     int     `json:"minggu_ke"`
		Date     string  `json:"tgl_berat_badan"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.WeightKg <= 0 {
		writeMessage(w, http.StatusUnprocessableEntity, "The berat badan must be greater than 0.")
		return
	}
	if req.Week < 1 {
		writeMessage(w, http.StatusUnprocessableEntity, "The minggu ke must be at least 1.")
		return
	}

	b.mu.Lock()
	a := b.accounts[username(r)]
	entry := models.WeightEntry{
		ID:         b.id(),
		Date:       req.Date,
		WeightKg:   req.WeightKg,
		Week:       req.Week,
		IDPersonel: a.Profile.ID,
	}
	b.weights[a.Profile.ID] = append(b.weights[a.Profile.ID], entry)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"message": "Data berat badan berhasil disimpan", "data": entry})
}
