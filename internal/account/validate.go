package account

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/sipolgar/sipolgar/internal/fitness"
	"github.com/sipolgar/sipolgar/pkg/models"
)

// MinPasswordLength is the shortest accepted new password.
const MinPasswordLength = 8

// OTPLength is the number of digits in an emailed code.
const OTPLength = 6

// ErrInvalidInput matches every InputError.
var ErrInvalidInput = errors.New("invalid input")

// InputError is a rejected form field. It is returned before any request is
// sent.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidInput.
func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

func invalid(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}

// clean trims s and normalises it to Unicode NFC.
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ValidateEmail checks that s is a bare email address.
func ValidateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return invalid("email", "is required")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return invalid("email", "is not a valid email address")
	}
	return nil
}

// ValidateOTP checks that s is exactly OTPLength digits.
func ValidateOTP(s string) error {
	if len(s) != OTPLength {
		return invalid("otp", fmt.Sprintf("must be %d digits", OTPLength))
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return invalid("otp", fmt.Sprintf("must be %d digits", OTPLength))
		}
	}
	return nil
}

// ValidateNewPassword checks the password policy for a new password and its
// confirmation.
func ValidateNewPassword(current, next, confirm string) error {
	if current == "" {
		return invalid("current_password", "is required")
	}
	if len([]rune(next)) < MinPasswordLength {
		return invalid("new_password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	if next != confirm {
		return invalid("confirm_password", "does not match the new password")
	}
	if next == current {
		return invalid("new_password", "must differ from the current password")
	}
	return nil
}

// ValidatePhone accepts digits with an optional leading +.
func ValidatePhone(s string) error {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	if len(s) < 8 || len(s) > 15 {
		return invalid("no_hp", "must be 8 to 15 digits")
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return invalid("no_hp", "must contain digits only")
		}
	}
	return nil
}

// ValidateWeight checks a body weight in kilograms.
func ValidateWeight(kg float64) error {
	if kg <= 0 || kg > 400 {
		return invalid("berat_badan", "must be a positive number of kilograms")
	}
	return nil
}

// ValidateHeight checks a body height in centimetres.
func ValidateHeight(cm float64) error {
	if cm <= 0 || cm > 300 {
		return invalid("tinggi_badan", "must be a positive number of centimetres")
	}
	return nil
}

// ValidatePersonelUpdate checks every field the patch sets.
func ValidatePersonelUpdate(u *models.PersonelUpdate) error {
	if u == nil {
		return nil
	}
	if u.TinggiBadan != nil {
		if err := ValidateHeight(*u.TinggiBadan); err != nil {
			return err
		}
	}
	if u.BeratBadan != nil {
		if err := ValidateWeight(*u.BeratBadan); err != nil {
			return err
		}
	}
	if u.JenisKelamin != nil && !u.JenisKelamin.IsValid() {
		return invalid("jenis_kelamin", fmt.Sprintf("must be one of %v", models.ValidGenders()))
	}
	if u.FitnessGoal != nil && !u.FitnessGoal.IsValid() {
		return invalid("fitness_goal", fmt.Sprintf("must be one of %v", models.ValidFitnessGoals()))
	}
	if u.ActivityLevel != nil && !u.ActivityLevel.IsValid() {
		return invalid("activity_level", fmt.Sprintf("must be one of %v", models.ValidActivityLevels()))
	}
	if u.TanggalLahir != nil {
		if _, err := fitness.ParseDate(*u.TanggalLahir); err != nil {
			return invalid("tanggal_lahir", "must be a date like 1995-08-17")
		}
	}
	if u.NoHP != nil {
		if err := ValidatePhone(*u.NoHP); err != nil {
			return err
		}
	}
	return nil
}
