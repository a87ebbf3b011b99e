package validation

import (
	"errors"
	"net/mail"
	"strings"
)

// ValidateEmail checks length (RFC 5321) and format (RFC 5322 via net/mail).
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email address is required")
	}

	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, "@") {
		return errors.New("invalid email address format")
	}

	return nil
}
