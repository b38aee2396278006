package render

import (
	"errors"
	"fmt"
)

// Code is a machine-readable rendering or export failure class.
type Code string

const (
	CodeEncodingFailed   Code = "ENCODING_FAILED"
	CodeLogoDecodeFailed Code = "LOGO_DECODE_FAILED"
	CodeEmptyCanvas      Code = "EMPTY_CANVAS"
)

// Error is returned by the pipeline and by surface export. Two errors match
// under errors.Is when their codes are equal, so callers can compare against
// the sentinel values below.
type Error struct {
	Code  Code
	Cause error
}

var (
	ErrEncodingFailed   = &Error{Code: CodeEncodingFailed}
	ErrLogoDecodeFailed = &Error{Code: CodeLogoDecodeFailed}
	ErrEmptyCanvas      = &Error{Code: CodeEmptyCanvas}
)

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Cause)
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// GetCode extracts the code from err, or "" when err is not a render error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func encodingFailed(err error) error {
	return &Error{Code: CodeEncodingFailed, Cause: err}
}

func logoDecodeFailed(err error) error {
	return &Error{Code: CodeLogoDecodeFailed, Cause: err}
}
