// File: internal/domain/message.go
package domain

import "time"

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message represents a single message within a chat. Messages are never
// edited once appended.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserMessage(id, content string, now time.Time) Message {
	return Message{ID: id, Role: RoleUser, Content: content, CreatedAt: now}
}

func NewAssistantMessage(id, content string, now time.Time) Message {
	return Message{ID: id, Role: RoleAssistant, Content: content, CreatedAt: now}
}
