// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %q", email)
	}

	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}

	return nil
}

// ValidateRequired rejects empty or whitespace-only values.
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// ValidateProgress checks that a progress percentage is within [0, 100].
func ValidateProgress(progress float64) error {
	if progress < 0 || progress > 100 {
		return fmt.Errorf("progress must be between 0 and 100, got %v", progress)
	}
	return nil
}

// ValidatePages checks a reading position against the book length.
func ValidatePages(read, total int) error {
	if total <= 0 {
		return fmt.Errorf("total pages must be positive, got %d", total)
	}
	if read < 0 || read > total {
		return fmt.Errorf("pages read must be between 0 and %d, got %d", total, read)
	}
	return nil
}
