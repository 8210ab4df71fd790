// internal/app/system/authutil/authutil.go
// Package authutil provides password and email validation shared by the
// signup, login, and Google sign-in flows.
package authutil

import (
	"errors"
	"strings"
)

// Supported auth methods. Email is the login identity for both.
const (
	MethodPassword = "password"
	MethodGoogle   = "google"
)

// Common validation errors
var (
	ErrEmailRequired = errors.New("Email is required.")
	ErrInvalidEmail  = errors.New("Please enter a valid email address.")
)

// ValidateEmail checks that an email is present and plausibly formed.
// It checks for a single @ with a dotted domain; full RFC validation is
// deliberately out of scope (the mailbox is never dereferenced here).
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if !isValidEmail(email) {
		return ErrInvalidEmail
	}
	return nil
}

// isValidEmail performs a basic email format validation.
// It checks for the presence of @ and at least one character on each side.
func isValidEmail(email string) bool {
	// Basic validation: must have @ with text on both sides
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	// Local part must not be empty
	if len(parts[0]) == 0 {
		return false
	}
	// Domain must contain at least one dot after @
	domain := parts[1]
	dotIdx := strings.LastIndex(domain, ".")
	if dotIdx < 1 || dotIdx >= len(domain)-1 {
		return false
	}
	return true
}
