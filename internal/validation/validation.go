// Package validation provides input validation and normalization utilities.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims surrounding whitespace and lowercases the address so
// the unique index compares canonical values.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeDisplayName trims surrounding whitespace.
func NormalizeDisplayName(name string) string {
	return strings.TrimSpace(name)
}

// ValidateEmail checks the address shape after normalization.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("Email is required.")
	}
	if len(email) > 254 || !emailRegex.MatchString(email) {
		return fmt.Errorf("Email address is not valid.")
	}
	return nil
}

// ValidateDisplayName checks the display name after normalization.
func ValidateDisplayName(name string) error {
	if name == "" {
		return fmt.Errorf("Display name is required.")
	}
	if utf8.RuneCountInString(name) < 2 {
		return fmt.Errorf("Display name must be at least 2 characters.")
	}
	if utf8.RuneCountInString(name) > 80 {
		return fmt.Errorf("Display name must not exceed 80 characters.")
	}
	return nil
}

// ValidatePassword checks password length bounds.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("Password is required.")
	}
	if len(password) < 6 {
		return fmt.Errorf("Password must be at least 6 characters.")
	}
	if len(password) > 128 {
		return fmt.Errorf("Password must not exceed 128 characters.")
	}
	return nil
}
