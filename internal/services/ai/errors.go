// File: internal/services/ai/errors.go
package ai

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeProvider   ErrorType = "PROVIDER"
	ErrTypeRateLimit  ErrorType = "RATE_LIMIT"
	ErrTypeQuota      ErrorType = "QUOTA"
	ErrTypeModel      ErrorType = "MODEL"
	ErrTypeValidation ErrorType = "VALIDATION"
)

// ErrorContext is the nested explanation a remote function may attach to an
// error payload. It is usually more specific than Message.
type ErrorContext struct {
	Message string `json:"message"`
}

type AIError struct {
	Type      ErrorType
	Code      int
	Message   string
	Context   *ErrorContext
	Model     string
	Operation string
	Cause     error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("AI %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *AIError) Unwrap() error { return e.Cause }

// ContextMessage returns the remote context message, if any.
func (e *AIError) ContextMessage() string {
	if e.Context == nil {
		return ""
	}
	return e.Context.Message
}

// DetailMessage returns Message without the type and operation decoration.
// Network errors carry their cause, since "request failed" alone says nothing.
func (e *AIError) DetailMessage() string {
	if e.Type == ErrTypeNetwork && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Retryable reports whether repeating the same call could succeed.
func (e *AIError) Retryable() bool {
	switch e.Type {
	case ErrTypeNetwork, ErrTypeRateLimit:
		return true
	case ErrTypeProvider:
		return e.Code >= http.StatusInternalServerError
	default:
		return false
	}
}

func NewConfigError(msg string) *AIError {
	return &AIError{Type: ErrTypeConfig, Message: msg, Operation: "config"}
}

func NewProviderError(operation, msg string, cause error) *AIError {
	return &AIError{Type: ErrTypeProvider, Operation: operation, Message: msg, Cause: cause}
}

func NewNetworkError(operation string, cause error) *AIError {
	return &AIError{Type: ErrTypeNetwork, Operation: operation, Message: "request failed", Cause: cause}
}

// NewStatusError classifies a non-2xx reply by its HTTP status code.
func NewStatusError(operation string, code int, msg string, ctx *ErrorContext) *AIError {
	t := ErrTypeProvider
	switch {
	case code == http.StatusTooManyRequests:
		t = ErrTypeRateLimit
	case code == http.StatusPaymentRequired:
		t = ErrTypeQuota
	case code == http.StatusNotFound:
		t = ErrTypeModel
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		t = ErrTypeValidation
	}
	return &AIError{Type: t, Code: code, Operation: operation, Message: msg, Context: ctx}
}

// IsRetryable reports whether err is an *AIError worth retrying.
func IsRetryable(err error) bool {
	var aiErr *AIError
	if errors.As(err, &aiErr) {
		return aiErr.Retryable()
	}
	return false
}
