package app

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type ErrorCode string

const (
	ErrValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrPlanNotFound     ErrorCode = "PLAN_NOT_FOUND"
	ErrDependencyFailed ErrorCode = "DEPENDENCY_FAILED"
	ErrInternal         ErrorCode = "INTERNAL_ERROR"
)

// GenerateError is returned by every plan use case. Fields carries
// per-field messages for validation failures.
type GenerateError struct {
	Code    ErrorCode
	Message string
	Fields  map[string]string
	Err     error
}

func (e *GenerateError) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	return msg
}

func (e *GenerateError) Unwrap() error { return e.Err }

func ValidationError(fields map[string]string) *GenerateError {
	return &GenerateError{Code: ErrValidationFailed, Message: "invalid request", Fields: fields}
}

func NotFoundError(format string, args ...any) *GenerateError {
	return &GenerateError{Code: ErrPlanNotFound, Message: fmt.Sprintf(format, args...)}
}

func DependencyError(err error, format string, args ...any) *GenerateError {
	return &GenerateError{Code: ErrDependencyFailed, Message: fmt.Sprintf(format, args...), Err: err}
}

func InternalError(err error) *GenerateError {
	return &GenerateError{Code: ErrInternal, Message: "internal error", Err: err}
}

// CodeOf returns the code carried by err, or ErrInternal for anything that
// is not a GenerateError.
func CodeOf(err error) ErrorCode {
	var ge *GenerateError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ErrInternal
}
