package functions

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/raushankrgupta/stylesync/ai"
	"github.com/raushankrgupta/stylesync/store"
	"github.com/raushankrgupta/stylesync/validation"
)

// Code is a callable error code.
type Code string

const (
	CodeUnauthenticated    Code = "unauthenticated"
	CodeInvalidArgument    Code = "invalid-argument"
	CodeNotFound           Code = "not-found"
	CodePermissionDenied   Code = "permission-denied"
	CodeFailedPrecondition Code = "failed-precondition"
	CodeResourceExhausted  Code = "resource-exhausted"
	CodeInternal           Code = "internal"
)

// Error is returned to callers as {"error": {"code", "message"}}.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPStatus maps the code onto the status used by the HTTP surface.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeInvalidArgument, CodeFailedPrecondition:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeResourceExhausted:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsError converts any error into a callable error. Unknown errors become
// internal with a generic message so backend details never reach clients.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		return &Error{Code: CodeInvalidArgument, Message: ve.Error()}
	case errors.Is(err, ai.ErrMissingCredential):
		return &Error{Code: CodeFailedPrecondition, Message: "AI provider is not configured"}
	case errors.Is(err, store.ErrNotFound):
		return &Error{Code: CodeNotFound, Message: "Not found"}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Code: CodeInternal, Message: "Analysis timed out"}
	default:
		return &Error{Code: CodeInternal, Message: "Internal error"}
	}
}
