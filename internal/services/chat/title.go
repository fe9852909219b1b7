// File: internal/services/chat/title.go
package chat

import (
	"strings"
	"unicode/utf8"
)

// DeriveTitle builds a sidebar title from a chat's first user message.
// The length check runs on the message as typed: input longer than maxRunes
// keeps the first cutRunes runes of its trimmed text plus ellipsis, shorter
// input is used trimmed.
func DeriveTitle(text string, maxRunes, cutRunes int, ellipsis string) string {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= maxRunes {
		return trimmed
	}
	return truncateRunes(trimmed, cutRunes) + ellipsis
}

// normalizeTitle applies the rename rules: trim, fall back to the untitled
// placeholder, cap the length.
func normalizeTitle(title, placeholder string, maxRunes int) string {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return placeholder
	}
	return truncateRunes(trimmed, maxRunes)
}

// truncateRunes safely truncates a UTF-8 string to maxLen runes.
func truncateRunes(input string, maxLen int) string {
	if input == "" || maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(input) <= maxLen {
		return input
	}

	var b strings.Builder
	count := 0
	for _, r := range input {
		if count >= maxLen {
			break
		}
		b.WriteRune(r)
		count++
	}
	return b.String()
}
