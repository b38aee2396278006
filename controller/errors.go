package controller

import "fmt"

// ValidationCode classifies rejected user input.
type ValidationCode string

const (
	CodeTooLarge        ValidationCode = "TOO_LARGE"
	CodeNotAnImage      ValidationCode = "NOT_AN_IMAGE"
	CodeInvalidParam    ValidationCode = "INVALID_PARAM"
	CodeUnknownLanguage ValidationCode = "UNKNOWN_LANGUAGE"
	CodeUnknownExample  ValidationCode = "UNKNOWN_EXAMPLE"
)

// ValidationError is returned when a mutation is rejected. A rejected
// mutation never changes state.
type ValidationError struct {
	Code    ValidationCode
	Field   string
	Message string
}

var (
	ErrTooLarge        = &ValidationError{Code: CodeTooLarge}
	ErrNotAnImage      = &ValidationError{Code: CodeNotAnImage}
	ErrInvalidParam    = &ValidationError{Code: CodeInvalidParam}
	ErrUnknownLanguage = &ValidationError{Code: CodeUnknownLanguage}
	ErrUnknownExample  = &ValidationError{Code: CodeUnknownExample}
)

func (e *ValidationError) Error() string {
	switch {
	case e.Field != "" && e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return string(e.Code)
}

// Is matches any *ValidationError with the same code.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Code == e.Code
}

func invalidParam(field, format string, args ...any) error {
	return &ValidationError{Code: CodeInvalidParam, Field: field, Message: fmt.Sprintf(format, args...)}
}
