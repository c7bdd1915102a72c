package models

import (
	"encoding/json"
	"slices"
)

// UserProfile is the account record returned by the backend.
type UserProfile struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Status    bool   `json:"status"`
	Role      string `json:"role,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`

	// NeedsPasswordChange is the server's hint that the account still uses
	// a system-issued password. Nil when the server did not say.
	NeedsPasswordChange *bool `json:"needs_password_change,omitempty"`

	// IsVerified is filled locally from the verification status endpoint.
	IsVerified   *bool  `json:"isVerified,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`

	Personel *Personel `json:"personel,omitempty"`
}

// Personel holds the biometric and organisational data of a user.
type Personel struct {
	ID             int64           `json:"id,omitempty"`
	NamaLengkap    string          `json:"nama_lengkap,omitempty"`
	TempatLahir    string          `json:"tempat_lahir,omitempty"`
	TanggalLahir   string          `json:"tanggal_lahir,omitempty"`
	NoHP           string          `json:"no_hp,omitempty"`
	JenisKelamin   Gender          `json:"jenis_kelamin,omitempty"`
	JenisPekerjaan *string         `json:"jenis_pekerjaan,omitempty"`
	Intensitas     json.RawMessage `json:"intensitas,omitempty"`
	TinggiBadan    *float64        `json:"tinggi_badan"`
	BeratBadan     *float64        `json:"berat_badan"`
	FitnessGoal    FitnessGoal     `json:"fitness_goal,omitempty"`
	ActivityLevel  ActivityLevel   `json:"activity_level,omitempty"`
	IDSatuanKerja  int64           `json:"id_satuankerja,omitempty"`
	IDPangkat      *int64          `json:"id_pangkat,omitempty"`
	IDUser         int64           `json:"id_user,omitempty"`
	Theme          Theme           `json:"theme_preference,omitempty"`
	CreatedAt      string          `json:"created_at,omitempty"`
	UpdatedAt      string          `json:"updated_at,omitempty"`
}

// HasHeight reports whether a non-zero height is recorded.
func (p *Personel) HasHeight() bool {
	return p != nil && p.TinggiBadan != nil && *p.TinggiBadan != 0
}

// HasWeight reports whether a non-zero weight is recorded.
func (p *Personel) HasWeight() bool {
	return p != nil && p.BeratBadan != nil && *p.BeratBadan != 0
}

// OnboardingComplete reports whether both height and weight are recorded.
// This is the authoritative onboarding invariant; persisted flags only cache it.
func (p *Personel) OnboardingComplete() bool {
	return p.HasHeight() && p.HasWeight()
}

// Clone returns a deep copy of the record. A nil receiver returns nil.
func (p *Personel) Clone() *Personel {
	if p == nil {
		return nil
	}
	c := *p
	c.JenisPekerjaan = clonePtr(p.JenisPekerjaan)
	c.TinggiBadan = clonePtr(p.TinggiBadan)
	c.BeratBadan = clonePtr(p.BeratBadan)
	c.IDPangkat = clonePtr(p.IDPangkat)
	if p.Intensitas != nil {
		c.Intensitas = slices.Clone(p.Intensitas)
	}
	return &c
}

// Clone returns a deep copy of the profile. A nil receiver returns nil.
func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	c := *u
	c.NeedsPasswordChange = clonePtr(u.NeedsPasswordChange)
	c.IsVerified = clonePtr(u.IsVerified)
	c.Personel = u.Personel.Clone()
	return &c
}

// OnboardingComplete reports whether the user's personnel record has both
// height and weight. A user without a personnel record is not complete.
func (u *UserProfile) OnboardingComplete() bool {
	return u != nil && u.Personel.OnboardingComplete()
}

// ProfileUpdate is a sparse patch sent to the profile update endpoint.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name     *string         `json:"name,omitempty"`
	Email    *string         `json:"email,omitempty"`
	Personel *PersonelUpdate `json:"personel,omitempty"`
}

// PersonelUpdate is the personnel part of a ProfileUpdate.
type PersonelUpdate struct {
	NamaLengkap    *string        `json:"nama_lengkap,omitempty"`
	TempatLahir    *string        `json:"tempat_lahir,omitempty"`
	TanggalLahir   *string        `json:"tanggal_lahir,omitempty"`
	NoHP           *string        `json:"no_hp,omitempty"`
	JenisKelamin   *Gender        `json:"jenis_kelamin,omitempty"`
	JenisPekerjaan *string        `json:"jenis_pekerjaan,omitempty"`
	TinggiBadan    *float64       `json:"tinggi_badan,omitempty"`
	BeratBadan     *float64       `json:"berat_badan,omitempty"`
	FitnessGoal    *FitnessGoal   `json:"fitness_goal,omitempty"`
	ActivityLevel  *ActivityLevel `json:"activity_level,omitempty"`
	IDSatuanKerja  *int64         `json:"id_satuankerja,omitempty"`
	IDPangkat      *int64         `json:"id_pangkat,omitempty"`
	Theme          *Theme         `json:"theme_preference,omitempty"`
}

// IsEmpty reports whether the patch sets no field at all.
func (u *PersonelUpdate) IsEmpty() bool {
	if u == nil {
		return true
	}
	return *u == PersonelUpdate{}
}

// CompletesOnboarding reports whether the patch itself supplies a non-zero
// height and weight.
func (u *PersonelUpdate) CompletesOnboarding() bool {
	return u != nil &&
		u.TinggiBadan != nil && *u.TinggiBadan != 0 &&
		u.BeratBadan != nil && *u.BeratBadan != 0
}

// ApplyTo overlays the set fields of the patch onto p. Patch values win.
func (u *PersonelUpdate) ApplyTo(p *Personel) {
	if u == nil || p == nil {
		return
	}
	setIf(&p.NamaLengkap, u.NamaLengkap)
	setIf(&p.TempatLahir, u.TempatLahir)
	setIf(&p.TanggalLahir, u.TanggalLahir)
	setIf(&p.NoHP, u.NoHP)
	setIf(&p.JenisKelamin, u.JenisKelamin)
	setIf(&p.FitnessGoal, u.FitnessGoal)
	setIf(&p.ActivityLevel, u.ActivityLevel)
	setIf(&p.IDSatuanKerja, u.IDSatuanKerja)
	setIf(&p.Theme, u.Theme)
	if u.JenisPekerjaan != nil {
		p.JenisPekerjaan = clonePtr(u.JenisPekerjaan)
	}
	if u.TinggiBadan != nil {
		p.TinggiBadan = clonePtr(u.TinggiBadan)
	}
	if u.BeratBadan != nil {
		p.BeratBadan = clonePtr(u.BeratBadan)
	}
	if u.IDPangkat != nil {
		p.IDPangkat = clonePtr(u.IDPangkat)
	}
}

// Ptr returns a pointer to v. It keeps literal patches short:
//
//	models.PersonelUpdate{BeratBadan: models.Ptr(70.0)}
func Ptr[T any](v T) *T {
	return &v
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
