// File: internal/services/chat/types.go
package chat

import (
	"time"

	"github.com/iyunix/go-brainchat/internal/domain"
)

// Logger defines the logging interface used across chat services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

// EventType names the kind of state change a Store subscriber is told about.
type EventType string

const (
	EventChatCreated     EventType = "chat_created"
	EventChatSelected    EventType = "chat_selected"
	EventChatDeleted     EventType = "chat_deleted"
	EventChatRenamed     EventType = "chat_renamed"
	EventMessageAppended EventType = "message_appended"
	EventPendingChanged  EventType = "pending_changed"
)

// Event is the re-render trigger emitted after every Store mutation.
type Event struct {
	Type      EventType `json:"type"`
	ChatID    string    `json:"chat_id"`
	MessageID string    `json:"message_id,omitempty"`
	Pending   bool      `json:"pending,omitempty"`
	At        time.Time `json:"at"`
}

// Snapshot is a consistent read of the whole store.
type Snapshot struct {
	Chats        []domain.Chat   `json:"chats"` // newest-created first
	ActiveChatID string          `json:"active_chat_id"`
	Pending      map[string]bool `json:"pending"`
}

// Outcome is the terminal state of one submission.
type Outcome string

const (
	// OutcomeAnswered: the answer (or the blank-answer fallback) was appended.
	OutcomeAnswered Outcome = "answered"
	// OutcomeFailed: the call failed and the error bubble was appended.
	OutcomeFailed Outcome = "failed"
	// OutcomeDiscarded: the chat was gone when the call settled.
	OutcomeDiscarded Outcome = "discarded"
)

// Result describes how a submission settled.
type Result struct {
	Outcome Outcome
	Reply   *domain.Message // nil when discarded
	Err     error           // answer service error, if any
	Latency time.Duration
}
