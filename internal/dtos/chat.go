// File: internal/dtos/chat.go
package dtos

import (
	"time"

	"github.com/iyunix/go-brainchat/internal/domain"
	chatservice "github.com/iyunix/go-brainchat/internal/services/chat"
)

// DisplayTimeFormat is the hour:minute stamp shown next to each message.
const DisplayTimeFormat = "15:04"

// MessageDTO is a message as the chat view renders it.
type MessageDTO struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	HTML      string `json:"html"`
	Time      string `json:"time"`
	CreatedAt string `json:"created_at"`
}

// ChatSummaryDTO is one row of the chat list.
type ChatSummaryDTO struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Renamed      bool   `json:"renamed"`
	Active       bool   `json:"active"`
	Pending      bool   `json:"pending"`
	MessageCount int    `json:"message_count"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// ChatDTO is a chat with its full transcript.
type ChatDTO struct {
	ChatSummaryDTO
	Messages []MessageDTO `json:"messages"`
}

// StateDTO is everything the sidebar and the open conversation need.
type StateDTO struct {
	Chats        []ChatSummaryDTO `json:"chats"`
	ActiveChatID string           `json:"active_chat_id"`
	ActiveChat   *ChatDTO         `json:"active_chat,omitempty"`
}

type NotificationDTO struct {
	ChatID      string `json:"chat_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
	CreatedAt   string `json:"created_at"`
}

// SubmitRequestDTO is the body of a message submission.
type SubmitRequestDTO struct {
	Message string `json:"message"`
}

// SubmitResponseDTO reports whether a submission was accepted.
type SubmitResponseDTO struct {
	Accepted    bool        `json:"accepted"`
	ChatID      string      `json:"chat_id,omitempty"`
	UserMessage *MessageDTO `json:"user_message,omitempty"`
}

type RenameRequestDTO struct {
	Title string `json:"title"`
}

// SessionResponseDTO is returned by the mock sign-in.
type SessionResponseDTO struct {
	Token     string `json:"token"`
	OwnerID   string `json:"owner_id"`
	ExpiresAt string `json:"expires_at"`
}

// SubmissionDTO is one audit ledger row.
type SubmissionDTO struct {
	ChatID      string `json:"chat_id"`
	Outcome     string `json:"outcome"`
	PromptChars int    `json:"prompt_chars"`
	ReplyChars  int    `json:"reply_chars"`
	LatencyMS   int64  `json:"latency_ms"`
	ErrorDetail string `json:"error_detail,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// SubmissionStatsDTO summarises a workspace's ledger.
type SubmissionStatsDTO struct {
	Counts map[string]int64 `json:"counts"`
	Recent []SubmissionDTO  `json:"recent"`
}

// Presenter converts domain values into DTOs.
type Presenter struct {
	markdown *MarkdownRenderer
	location *time.Location
}

func NewPresenter(loc *time.Location) *Presenter {
	if loc == nil {
		loc = time.Local
	}
	return &Presenter{markdown: NewMarkdownRenderer(), location: loc}
}

func (p *Presenter) Message(m domain.Message) MessageDTO {
	return MessageDTO{
		ID:        m.ID,
		Role:      string(m.Role),
		Content:   m.Content,
		HTML:      p.markdown.Render(m.Content),
		Time:      m.CreatedAt.In(p.location).Format(DisplayTimeFormat),
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (p *Presenter) Summary(c domain.Chat, activeID string, pending bool) ChatSummaryDTO {
	return ChatSummaryDTO{
		ID:           c.ID,
		Title:        c.Title,
		Renamed:      c.Renamed,
		Active:       c.ID == activeID,
		Pending:      pending,
		MessageCount: len(c.Messages),
		CreatedAt:    c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (p *Presenter) Chat(c domain.Chat, activeID string, pending bool) ChatDTO {
	msgs := make([]MessageDTO, 0, len(c.Messages))
	for _, m := range c.Messages {
		msgs = append(msgs, p.Message(m))
	}
	return ChatDTO{ChatSummaryDTO: p.Summary(c, activeID, pending), Messages: msgs}
}

// State renders a store snapshot. The active chat carries its transcript.
func (p *Presenter) State(s chatservice.Snapshot) StateDTO {
	out := StateDTO{
		Chats:        make([]ChatSummaryDTO, 0, len(s.Chats)),
		ActiveChatID: s.ActiveChatID,
	}
	for _, c := range s.Chats {
		out.Chats = append(out.Chats, p.Summary(c, s.ActiveChatID, s.Pending[c.ID]))
		if c.ID == s.ActiveChatID {
			active := p.Chat(c, s.ActiveChatID, s.Pending[c.ID])
			out.ActiveChat = &active
		}
	}
	return out
}

func (p *Presenter) Notification(n domain.Notification) NotificationDTO {
	return NotificationDTO{
		ChatID:      n.ChatID,
		Title:       n.Title,
		Description: n.Description,
		Variant:     string(n.Variant),
		CreatedAt:   n.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (p *Presenter) Submission(rec domain.SubmissionRecord) SubmissionDTO {
	return SubmissionDTO{
		ChatID:      rec.ChatID,
		Outcome:     rec.Outcome,
		PromptChars: rec.PromptChars,
		ReplyChars:  rec.ReplyChars,
		LatencyMS:   rec.LatencyMS,
		ErrorDetail: rec.ErrorDetail,
		CreatedAt:   rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}
