package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeMalformedRecord = "MALFORMED_RECORD"
	ErrCodeParse           = "PARSE_ERROR"
	ErrCodeNoSelection     = "NO_SELECTION"
	ErrCodeNoDeck          = "NO_DECK"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeNotImplemented  = "NOT_IMPLEMENTED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// AppError is an application error carrying a code and a user-facing message.
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "PARSE_ERROR")
	Message string // Human-readable error message
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another AppError by code, so sentinel values work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound        = &AppError{Code: ErrCodeNotFound, Message: "not found"}
	ErrMalformedRecord = &AppError{Code: ErrCodeMalformedRecord, Message: "malformed record"}
	ErrParse           = &AppError{Code: ErrCodeParse, Message: "parse error"}
	ErrNoSelection     = &AppError{Code: ErrCodeNoSelection, Message: "no deck selected"}
	ErrNoDeck          = &AppError{Code: ErrCodeNoDeck, Message: "no deck"}
	ErrNotImplemented  = &AppError{Code: ErrCodeNotImplemented, Message: "not implemented"}
)

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
	}
}

// NewMalformedRecordError reports a record with the wrong number of fields.
func NewMalformedRecordError(want, got int) *AppError {
	return &AppError{
		Code:    ErrCodeMalformedRecord,
		Message: fmt.Sprintf("expected %d fields, got %d", want, got),
	}
}

// NewParseError reports a field that could not be parsed.
func NewParseError(field string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeParse,
		Message: fmt.Sprintf("invalid %s", field),
		Err:     err,
	}
}

// NewNoSelectionError creates a new NO_SELECTION error
func NewNoSelectionError() *AppError {
	return &AppError{
		Code:    ErrCodeNoSelection,
		Message: "no deck selected",
	}
}

// NewNoDeckError creates a new NO_DECK error
func NewNoDeckError() *AppError {
	return &AppError{
		Code:    ErrCodeNoDeck,
		Message: "no deck",
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
	}
}

// NewNotImplementedError creates a new NOT_IMPLEMENTED error
func NewNotImplementedError(feature string) *AppError {
	return &AppError{
		Code:    ErrCodeNotImplemented,
		Message: fmt.Sprintf("%s is not implemented", feature),
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal error",
		Err:     err,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or "" if none.
func CodeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsNotFound(err error) bool    { return CodeOf(err) == ErrCodeNotFound }
func IsNoSelection(err error) bool { return CodeOf(err) == ErrCodeNoSelection }
func IsNoDeck(err error) bool      { return CodeOf(err) == ErrCodeNoDeck }
