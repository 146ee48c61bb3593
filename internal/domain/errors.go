package domain

import "fmt"

type ErrCode string

const (
	CodeValidation ErrCode = "validation_error"
	CodeNotFound   ErrCode = "not_found"
	CodeForbidden  ErrCode = "forbidden"
	CodeFetch      ErrCode = "fetch_error"
)

type AppError struct {
	Code    ErrCode
	Message string
	Meta    map[string]string
}

func (e *AppError) Error() string {
	if len(e.Meta) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Meta)
}

func ErrValidation(msg string) error { return &AppError{Code: CodeValidation, Message: msg} }
func ErrValidationMeta(msg string, meta map[string]string) error {
	return &AppError{Code: CodeValidation, Message: msg, Meta: meta}
}
func ErrNotFound(msg string) error  { return &AppError{Code: CodeNotFound, Message: msg} }
func ErrForbidden(msg string) error { return &AppError{Code: CodeForbidden, Message: msg} }

// ErrFetch wraps a backend/network failure retrieving events. Retryable,
// never fatal to the caller.
func ErrFetch(msg string, cause error) error {
	if cause != nil {
		return &AppError{Code: CodeFetch, Message: msg, Meta: map[string]string{"cause": cause.Error()}}
	}
	return &AppError{Code: CodeFetch, Message: msg}
}
