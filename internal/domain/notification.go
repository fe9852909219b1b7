package domain

import "time"

// NotificationVariant mirrors the toast styles the frontend knows about.
type NotificationVariant string

const VariantDestructive NotificationVariant = "destructive"

// Notification is a transient, non-blocking message for the user. It never
// becomes part of a chat transcript.
type Notification struct {
	ChatID      string              `json:"chat_id,omitempty"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Variant     NotificationVariant `json:"variant"`
	CreatedAt   time.Time           `json:"created_at"`
}
