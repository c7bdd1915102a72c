package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SatuanKerja is an organisational unit personnel belong to.
type SatuanKerja struct {
	ID              int64  `json:"id"`
	NamaSatuanKerja string `json:"nama_satuan_kerja"`
	ParentID        *int64 `json:"parent_id,omitempty"`
	Level           string `json:"level,omitempty"`
	MapsURL         string `json:"maps_url,omitempty"`
	Latitude        string `json:"latitude,omitempty"`
	Longitude       string `json:"longitude,omitempty"`
	IsDeleted       bool   `json:"isDeleted,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}

// Workout is a training exercise published by the backend.
type Workout struct {
	ID                int64  `json:"id"`
	NamaLatihan       string `json:"nama_latihan"`
	DurationSeconds   int    `json:"ratarata_waktu_perdetik"`
	CaloriesPerSecond string `json:"kalori_ratarata_perdetik"`
	VideoURL          string `json:"video_ketentuan_latihan,omitempty"`
	Description       string `json:"deskripsi_ketentuan_latihan,omitempty"`
	PostedAt          string `json:"tgl_post_ketentuan_latihan,omitempty"`
	IsDeleted         bool   `json:"isDeleted,omitempty"`
	CreatedAt         string `json:"created_at,omitempty"`
	UpdatedAt         string `json:"updated_at,omitempty"`
}

// DurationMinutes returns the average duration in whole minutes, rounded down.
func (w Workout) DurationMinutes() int {
	return w.DurationSeconds / 60
}

// EstimatedCalories returns calories-per-second times the average duration.
// The backend sends the rate as a decimal string.
func (w Workout) EstimatedCalories() (float64, error) {
	rate, err := strconv.ParseFloat(strings.TrimSpace(w.CaloriesPerSecond), 64)
	if err != nil {
		return 0, fmt.Errorf("parse calorie rate %q: %w", w.CaloriesPerSecond, err)
	}
	return rate * float64(w.DurationSeconds), nil
}

// WeightEntry is one weekly weigh-in.
type WeightEntry struct {
	ID         int64   `json:"id,omitempty"`
	Date       string  `json:"tgl_berat_badan"`
	WeightKg   float64 `json:"berat_badan"`
	Week       int     `json:"minggu_ke"`
	IDPersonel int64   `json:"id_personel,omitempty"`
	CreatedAt  string  `json:"created_at,omitempty"`
	UpdatedAt  string  `json:"updated_at,omitempty"`
}

// FlexInt decodes a JSON number or a numeric string. The register endpoint
// echoes id_satuankerja as a string while other endpoints send a number.
type FlexInt int64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("flexint: %q is not numeric", s)
	}
	if n != math.Trunc(n) {
		return fmt.Errorf("flexint: %q is not an integer", s)
	}
	*f = FlexInt(n)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(f))
}
