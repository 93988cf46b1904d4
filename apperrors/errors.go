package apperrors

import (
	"errors"
	"net/http"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrCorruptData        = errors.New("stored data is corrupted")
	ErrDuplicateLogin     = errors.New("this user ID is already taken")
	ErrInvalidCredentials = errors.New("invalid user ID or password")
	ErrUnauthorized       = errors.New("unauthorized")
)

// ValidationError carries the message shown to the user. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Validation(msg string) error {
	return &ValidationError{Message: msg}
}

// UserMessage returns the text safe to show to the user for err.
func UserMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	switch {
	case errors.Is(err, ErrDuplicateLogin), errors.Is(err, ErrInvalidCredentials):
		return rootMessage(err)
	case errors.Is(err, ErrNotFound):
		return "record not found"
	case errors.Is(err, ErrCorruptData):
		return "stored data could not be read"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	}
	return "internal server error"
}

// HTTPStatus maps err onto a response status code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrDuplicateLogin):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrCorruptData):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func rootMessage(err error) string {
	for _, sentinel := range []error{ErrDuplicateLogin, ErrInvalidCredentials} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
