package services

import (
	"errors"
	"fmt"
)

var (
	ErrUsernameTaken      = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")

	ErrHearingNotFound = errors.New("hearing not found")
	ErrUpdateNotFound  = errors.New("update not found")
	ErrForbidden       = errors.New("you are not allowed to view this hearing")
)

// ValidationError rejects caller input. Field names the offending input when
// there is one.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func required(field string) error {
	return &ValidationError{Field: field, Message: "This field is required."}
}
