// File: internal/domain/chat.go
package domain

import "time"

// DefaultChatTitle is the title every chat starts with until it is renamed
// or derived from its first user message.
const DefaultChatTitle = "New Chat"

// UntitledChatTitle replaces a rename to an empty (or blank) title.
const UntitledChatTitle = "Untitled Chat"

// Chat represents a single conversation thread.
type Chat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`   // e.g. "Explain risk exposure ..."
	Renamed   bool      `json:"renamed"` // set once the user picked the title
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewChat builds an empty chat carrying the placeholder title.
func NewChat(id string, now time.Time) Chat {
	return Chat{
		ID:        id,
		Title:     DefaultChatTitle,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a copy that shares no mutable state with c.
func (c Chat) Clone() Chat {
	out := c
	out.Messages = make([]Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return out
}
