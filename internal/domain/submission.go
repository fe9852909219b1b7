// File: internal/domain/submission.go
package domain

import "time"

// SubmissionRecord is the audit row written once a submission settles.
// It holds sizes and timings only; message content stays in memory.
type SubmissionRecord struct {
	ID          uint   `gorm:"primarykey"`
	WorkspaceID string `gorm:"index;size:64"`
	ChatID      string `gorm:"index;size:64;not null"`
	Outcome     string `gorm:"index;size:16;not null"` // "answered", "failed" or "discarded"
	PromptChars int
	ReplyChars  int
	LatencyMS   int64
	ErrorDetail string `gorm:"size:512"`
	CreatedAt   time.Time
}
