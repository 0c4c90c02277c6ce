package app

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrEmailExists       = errors.New("email already exists")
	ErrUsernameExists    = errors.New("username already exists")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrAccountDisabled   = errors.New("user account is disabled")
	ErrForbidden         = errors.New("permission denied")
	ErrNotFound          = errors.New("not found")
	ErrSlugConflict      = errors.New("slug already exists")
	ErrInvalidUID        = errors.New("invalid uid")
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	ErrInvalidToken      = errors.New("token is invalid or expired")
	ErrIncorrectPassword = errors.New("current password is incorrect")
	ErrInvalidPage       = errors.New("invalid page")
)

// ValidationError carries a field-level message for ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
