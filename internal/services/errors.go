package services

import "errors"

// ValidationError is a user-caused failure (self-rating, duplicate rating,
// bad rank, insufficient funds). Handlers surface the message directly and
// do not log it as a system failure.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Validation wraps a user-facing reason as a ValidationError.
func Validation(msg string) error {
	return &ValidationError{msg: msg}
}

// NotFoundError marks a missing mission/user/item. Surfaced to the caller
// like a validation error, but also logged: it usually indicates a sync bug.
type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

// NotFound wraps a user-facing reason as a NotFoundError.
func NotFound(msg string) error {
	return &NotFoundError{msg: msg}
}

// IsValidation reports whether err is a user-caused failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a missing-entity failure.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}
