package validation

import (
	"errors"
	"regexp"
	"strings"
)

var e164 = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)

// NormalizePhone strips spaces, dashes, dots and parentheses.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}

// ValidatePhone requires E.164 format, which the SMS provider expects.
func ValidatePhone(phone string) error {
	if phone == "" {
		return errors.New("phone number is required")
	}

	if !e164.MatchString(phone) {
		return errors.New("phone number must be in international format, e.g. +15551234567")
	}

	return nil
}
