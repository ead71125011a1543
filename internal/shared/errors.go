package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or missing client input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates the resource does not exist for the requesting user.
	ErrNotFound = errors.New("not found")
	// ErrReference indicates a line item points at a product that cannot be resolved.
	ErrReference = errors.New("invalid product")
	// ErrDocumentRender indicates the PDF engine could not produce a document.
	ErrDocumentRender = errors.New("document render failed")
	// ErrDuplicate indicates a uniqueness constraint was violated.
	ErrDuplicate = errors.New("already exists")
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Duplicatef wraps ErrDuplicate with a formatted message.
func Duplicatef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDuplicate, fmt.Sprintf(format, args...))
}

// Kind reports the taxonomy bucket of err, used as the problem type in API responses.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrReference):
		return "reference"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrDocumentRender):
		return "document_render"
	default:
		return "internal"
	}
}
