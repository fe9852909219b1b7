// File: internal/services/chat/errors.go
package chat

import (
	"errors"
	"fmt"
)

// ErrChatNotFound is returned for ids the store does not hold (never created,
// or already deleted).
var ErrChatNotFound = errors.New("chat not found")

// ErrChatPending is returned by TrySubmit while the chat still waits for an
// answer.
var ErrChatPending = errors.New("chat has a pending answer")

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeAnswer     ErrorType = "ANSWER"
)

type ChatError struct {
	Type      ErrorType
	Operation string
	Message   string
	ChatID    string
	Cause     error
}

func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Chat %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Chat %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ChatError) Unwrap() error { return e.Cause }

func NewValidationError(operation, msg string) *ChatError {
	return &ChatError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewConfigError(msg string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeConfig, Operation: "config", Message: msg, Cause: cause}
}

// NewNotFoundError wraps ErrChatNotFound so callers can use errors.Is.
func NewNotFoundError(operation, chatID string) *ChatError {
	return &ChatError{
		Type:      ErrTypeNotFound,
		Operation: operation,
		Message:   "chat not found",
		ChatID:    chatID,
		Cause:     ErrChatNotFound,
	}
}

// NewAnswerError wraps a failed answer service call.
func NewAnswerError(chatID string, cause error) *ChatError {
	return &ChatError{
		Type:      ErrTypeAnswer,
		Operation: "answer",
		Message:   "answer service call failed",
		ChatID:    chatID,
		Cause:     cause,
	}
}

// contextMessager is implemented by errors that carry a nested, more specific
// explanation from the remote side.
type contextMessager interface {
	ContextMessage() string
}

// detailMessager is implemented by errors whose human-readable message
// differs from their Error() string.
type detailMessager interface {
	DetailMessage() string
}

// errorDetail picks the best text to show the user for a failed answer call:
// the remote context message, then the error's own message, then a fallback.
func errorDetail(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var cm contextMessager
	if errors.As(err, &cm) {
		if msg := cm.ContextMessage(); msg != "" {
			return msg
		}
	}
	var dm detailMessager
	if errors.As(err, &dm) {
		if msg := dm.DetailMessage(); msg != "" {
			return msg
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
