package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetailMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *AIError
		want string
	}{
		{"network error names its cause", NewNetworkError("answer", errors.New("dial tcp: connection refused")), "request failed: dial tcp: connection refused"},
		{"timeout reads as a deadline", NewNetworkError("answer", context.DeadlineExceeded), "request failed: context deadline exceeded"},
		{"network error without cause", &AIError{Type: ErrTypeNetwork, Message: "request failed"}, "request failed"},
		{"provider error keeps its message", NewProviderError("answer", "empty reply", errors.New("eof")), "empty reply"},
		{"status error", NewStatusError("answer", 500, "boom", nil), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.DetailMessage())
		})
	}
}
