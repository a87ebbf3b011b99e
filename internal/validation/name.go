package validation

import (
	"errors"
	"strings"
)

func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	if len(trimmed) > 100 {
		return errors.New("name is too long (max 100 characters)")
	}

	return nil
}

// ValidateTitle applies the same rules to goal titles with a higher limit.
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return errors.New("title is required")
	}

	if len(trimmed) > 200 {
		return errors.New("title is too long (max 200 characters)")
	}

	return nil
}
