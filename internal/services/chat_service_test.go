package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-brainchat/internal/domain"
	chatservice "github.com/iyunix/go-brainchat/internal/services/chat"
)

func echoAnswerer() chatservice.Answerer {
	return chatservice.AnswerFunc(func(_ context.Context, prompt string) (string, error) {
		return "echo: " + prompt, nil
	})
}

func newTestChatService(t *testing.T, cfg *ChatServiceConfig, answerer chatservice.Answerer) *ChatService {
	t.Helper()
	svc, err := NewChatService(cfg, nil, answerer, nil, nil)
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}

func TestChatServiceWorkspaceIsCreatedOnce(t *testing.T) {
	svc := newTestChatService(t, &ChatServiceConfig{}, echoAnswerer())

	a, err := svc.Workspace("owner-1")
	require.NoError(t, err)
	b, err := svc.Workspace("owner-1")
	require.NoError(t, err)
	c, err := svc.Workspace("owner-2")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, svc.Len())
	assert.Equal(t, 1, a.Store.Len(), "a new workspace starts with one chat")

	_, err = svc.Workspace("  ")
	require.Error(t, err)
}

func TestChatServiceWorkspacesAreIsolated(t *testing.T) {
	svc := newTestChatService(t, &ChatServiceConfig{}, echoAnswerer())
	a, _ := svc.Workspace("a")
	b, _ := svc.Workspace("b")

	sub, ok := a.Pipeline.SubmitActive(context.Background(), "hello")
	require.True(t, ok)
	_, err := sub.Wait(context.Background())
	require.NoError(t, err)

	chatA, _ := a.Store.ActiveChat()
	chatB, _ := b.Store.ActiveChat()
	assert.Len(t, chatA.Messages, 2)
	assert.Empty(t, chatB.Messages)
}

func TestChatServiceDropAndLookup(t *testing.T) {
	svc := newTestChatService(t, &ChatServiceConfig{}, echoAnswerer())
	first, _ := svc.Workspace("a")

	got, ok := svc.Lookup("a")
	require.True(t, ok)
	assert.Same(t, first, got)

	assert.True(t, svc.Drop("a"))
	assert.False(t, svc.Drop("a"))
	_, ok = svc.Lookup("a")
	assert.False(t, ok)

	again, _ := svc.Workspace("a")
	assert.NotSame(t, first, again)
}

func TestChatServiceEvictsIdleWorkspaces(t *testing.T) {
	release := make(chan struct{})
	answerer := chatservice.AnswerFunc(func(ctx context.Context, _ string) (string, error) {
		<-release
		return "done", nil
	})
	svc := newTestChatService(t, &ChatServiceConfig{IdleTTL: time.Minute}, answerer)

	var mu sync.Mutex
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	_, _ = svc.Workspace("idle")
	busy, _ := svc.Workspace("busy")
	sub, ok := busy.Pipeline.SubmitActive(context.Background(), "hi")
	require.True(t, ok)
	_, _ = svc.Workspace("fresh")

	advance(30 * time.Second)
	_, _ = svc.Workspace("fresh")
	assert.Zero(t, svc.evictIdle())

	advance(45 * time.Second)
	assert.Equal(t, 1, svc.evictIdle(), "only the idle workspace without a pending answer goes")
	_, ok = svc.Lookup("idle")
	assert.False(t, ok)
	_, ok = svc.Lookup("busy")
	assert.True(t, ok)

	close(release)
	_, err := sub.Wait(context.Background())
	require.NoError(t, err)
}

type memoryRecorder struct {
	mu   sync.Mutex
	recs []domain.SubmissionRecord
}

func (r *memoryRecorder) Record(_ context.Context, rec *domain.SubmissionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recs = append(r.recs, *rec)
	return nil
}

func (r *memoryRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.recs)
}

func TestChatServiceCloseWaitsForDroppedWorkspaces(t *testing.T) {
	release := make(chan struct{})
	answerer := chatservice.AnswerFunc(func(_ context.Context, _ string) (string, error) {
		<-release
		return "late", nil
	})
	recorder := &memoryRecorder{}
	svc, err := NewChatService(&ChatServiceConfig{}, nil, answerer, recorder, nil)
	require.NoError(t, err)

	ws, err := svc.Workspace("gone")
	require.NoError(t, err)
	_, ok := ws.Pipeline.SubmitActive(context.Background(), "hi")
	require.True(t, ok)
	require.True(t, svc.Drop("gone"))

	closed := make(chan struct{})
	go func() {
		svc.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while a dropped workspace was still answering")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return after the answer settled")
	}
	assert.Equal(t, 1, recorder.Len(), "the record lands before Close returns")
}

func TestChatServiceCloseStopsLoop(t *testing.T) {
	svc, err := NewChatService(&ChatServiceConfig{IdleTTL: time.Hour, CleanupPeriod: time.Millisecond}, nil, echoAnswerer(), nil, nil)
	require.NoError(t, err)
	svc.Close()
	svc.Close()
}

func TestNewChatServiceRequiresAnswerer(t *testing.T) {
	_, err := NewChatService(nil, nil, nil, nil, nil)
	require.Error(t, err)
}
