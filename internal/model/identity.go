package model

import (
	"errors"
	"strings"
)

// Identity errors.
var (
	// ErrInvalidPhone is returned when the phone number format is invalid.
	ErrInvalidPhone = errors.New("invalid phone number: expected 03XXXXXXXXX or +923XXXXXXXXX")
	// ErrEmptyPhone is returned when the phone number is empty.
	ErrEmptyPhone = errors.New("phone number cannot be empty")
	// ErrEmptyName is returned when the display name is empty.
	ErrEmptyName = errors.New("display name cannot be empty")
)

const (
	// localPrefix is the canonical local phone prefix.
	localPrefix = "03"
	// internationalPrefix is the accepted international phone prefix.
	internationalPrefix = "+923"
	// canonicalPhoneLength is the length of a canonical phone number ("03" + 9 digits).
	canonicalPhoneLength = 11
)

// Identity is the locally cached user record used to attribute counting
// history and reports. It is written at login/signup, read by every command
// that needs attribution, and cleared at logout.
//
// The phone number is stored in canonical form: "03" followed by nine
// digits. It acts as the unique correlation key between local state and
// server-side history.
type Identity struct {
	// Name is the user's display name, shown on reports as the farmer name.
	Name string `json:"name"`

	// Phone is the canonical phone number ("03" + 9 digits).
	Phone string `json:"phone"`
}

// NewIdentity creates an Identity from a display name and a phone number in
// either accepted input format. The phone number is canonicalized.
func NewIdentity(name, phone string) (Identity, error) {
	if strings.TrimSpace(name) == "" {
		return Identity{}, ErrEmptyName
	}

	canonical, err := NormalizePhone(phone)
	if err != nil {
		return Identity{}, err
	}

	return Identity{
		Name:  strings.TrimSpace(name),
		Phone: canonical,
	}, nil
}

// NormalizePhone validates a phone number and converts it to canonical form.
// Two input formats are accepted:
//   - "03" followed by nine digits (canonical, returned unchanged)
//   - "+923" followed by nine digits (converted to the canonical form)
//
// Design decision: We canonicalize at the boundary rather than comparing
// both formats everywhere. History filtering and local storage both key on
// the phone number, so a single canonical representation avoids missed
// matches between "+923..." and "03..." spellings of the same number.
func NormalizePhone(phone string) (string, error) {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return "", ErrEmptyPhone
	}

	// Convert the international prefix to the local one before validating.
	if rest, ok := strings.CutPrefix(trimmed, internationalPrefix); ok {
		trimmed = localPrefix + rest
	}

	if len(trimmed) != canonicalPhoneLength || !strings.HasPrefix(trimmed, localPrefix) {
		return "", ErrInvalidPhone
	}
	for _, c := range trimmed {
		if c < '0' || c > '9' {
			return "", ErrInvalidPhone
		}
	}

	return trimmed, nil
}

// MaskPhone returns a redacted form of a phone number suitable for logs and
// terminal output: the first three and last two digits are kept, the middle
// digits are replaced with asterisks. Invalid or short input is fully masked.
func MaskPhone(phone string) string {
	if len(phone) < 6 {
		return strings.Repeat("*", len(phone))
	}
	return phone[:3] + strings.Repeat("*", len(phone)-5) + phone[len(phone)-2:]
}
