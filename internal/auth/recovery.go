package auth

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/citruscounter/citruscounter/internal/model"
)

// RecoveryContact is the admin phone number that handles password resets.
// The backend has no self-service reset endpoint; an admin verifies the
// farmer over WhatsApp and changes the password manually.
const RecoveryContact = "03229259925"

// RecoveryRequest is a password-reset request addressed to the admin.
type RecoveryRequest struct {
	// Name is the account's registered display name.
	Name string

	// Phone is the account's registered phone number in canonical form.
	Phone string
}

// NewRecoveryRequest validates the account details and returns a request.
func NewRecoveryRequest(name, phone string) (RecoveryRequest, error) {
	identity, err := model.NewIdentity(name, phone)
	if err != nil {
		return RecoveryRequest{}, err
	}
	return RecoveryRequest{Name: identity.Name, Phone: identity.Phone}, nil
}

// Message returns the text the farmer sends to the admin. The admin matches
// it against the registered account before resetting anything, so it must
// carry both the name and the registered number.
func (r RecoveryRequest) Message() string {
	return fmt.Sprintf("Forgot Password Request:\nFull Name: %s\nRegistered Phone Number: %s", r.Name, r.Phone)
}

// WhatsAppURL returns a link that opens a WhatsApp chat with the admin,
// prefilled with the request message.
func (r RecoveryRequest) WhatsAppURL() string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", internationalDigits(RecoveryContact), url.QueryEscape(r.Message()))
}

// internationalDigits rewrites a canonical "03..." number into the bare
// international digit form wa.me links expect ("923...").
func internationalDigits(phone string) string {
	return "92" + strings.TrimPrefix(phone, "0")
}
