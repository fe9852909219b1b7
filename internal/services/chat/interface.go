// File: internal/services/chat/interface.go
package chat

import (
	"context"

	"github.com/iyunix/go-brainchat/internal/domain"
)

// Answerer turns a prompt into a response. Implementations live in the ai
// package; any error is treated the same way by the pipeline.
type Answerer interface {
	Answer(ctx context.Context, prompt string) (string, error)
}

// AnswerFunc adapts a function to Answerer.
type AnswerFunc func(ctx context.Context, prompt string) (string, error)

func (f AnswerFunc) Answer(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Notifier surfaces transient diagnostics to the user.
type Notifier interface {
	Notify(n domain.Notification)
}

// SubmissionRecorder receives one record per settled submission.
type SubmissionRecorder interface {
	Record(ctx context.Context, rec *domain.SubmissionRecord) error
}

// ChatProvider is the read/write surface the presentation layer uses.
type ChatProvider interface {
	CreateChat() domain.Chat
	SelectChat(id string) error
	DeleteChat(id string) error
	RenameChat(id, title string) (domain.Chat, error)
	Chats() []domain.Chat
	Chat(id string) (domain.Chat, bool)
	ActiveChatID() string
	ActiveChat() (domain.Chat, bool)
	IsPending(id string) bool
	Snapshot() Snapshot
	Subscribe(fn func(Event)) (cancel func())
}

// SubmitProvider starts submissions.
type SubmitProvider interface {
	Submit(ctx context.Context, chatID, rawText string) (*Submission, bool)
	SubmitActive(ctx context.Context, rawText string) (*Submission, bool)
}

var (
	_ ChatProvider   = (*Store)(nil)
	_ SubmitProvider = (*Pipeline)(nil)
)
