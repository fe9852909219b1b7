// File: internal/services/chat/config.go
package chat

import (
	"fmt"
	"time"
)

type Config struct {
	// Title derivation
	TitleMaxRunes  int    // first messages longer than this get cut
	TitleCutRunes  int    // runes kept when cutting
	TitleEllipsis  string // appended after a cut
	RenameMaxRunes int    // upper bound for user-chosen titles

	// Answer call
	AnswerTimeout time.Duration // bound on a single answer service call

	// Fixed user-facing texts
	NoResponseText    string // assistant bubble when the answer is blank
	FailureText       string // assistant bubble when the answer call fails
	NotificationTitle string
	FailurePrefix     string // prepended to the diagnostic detail
	UnknownErrorText  string

	// Notifications
	NotificationBacklog int // feed capacity; oldest entries are dropped
}

func (c *Config) Validate() error {
	if c.TitleCutRunes <= 0 {
		return fmt.Errorf("title_cut_runes must be positive")
	}
	if c.TitleMaxRunes < c.TitleCutRunes {
		return fmt.Errorf("title_max_runes must be >= title_cut_runes")
	}
	if c.RenameMaxRunes <= 0 {
		return fmt.Errorf("rename_max_runes must be positive")
	}
	if c.AnswerTimeout <= 0 {
		return fmt.Errorf("answer_timeout must be positive")
	}
	if c.NoResponseText == "" || c.FailureText == "" {
		return fmt.Errorf("fallback texts are required")
	}
	if c.NotificationBacklog < 1 {
		return fmt.Errorf("notification_backlog must be at least 1")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		TitleMaxRunes:       25,
		TitleCutRunes:       22,
		TitleEllipsis:       "...",
		RenameMaxRunes:      100,
		AnswerTimeout:       60 * time.Second,
		NoResponseText:      "Sorry, I couldn't get a response. Please try again.",
		FailureText:         "Sorry, I encountered an error. Please check the function logs and your API key.",
		NotificationTitle:   "Error",
		FailurePrefix:       "Failed to get AI response: ",
		UnknownErrorText:    "An unknown error occurred.",
		NotificationBacklog: 20,
	}
}
