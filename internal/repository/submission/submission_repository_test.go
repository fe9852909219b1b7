package submission

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-brainchat/internal/domain"
	"github.com/iyunix/go-brainchat/internal/repository"
)

func newTestRepo(t *testing.T) SubmissionRepository {
	t.Helper()
	db, err := repository.OpenDatabase(filepath.Join(t.TempDir(), "audit.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.CloseDatabase(db) })
	return NewSubmissionRepository(db)
}

func record(ws, chat, outcome string, at time.Time) *domain.SubmissionRecord {
	return &domain.SubmissionRecord{
		WorkspaceID: ws,
		ChatID:      chat,
		Outcome:     outcome,
		PromptChars: 12,
		CreatedAt:   at,
	}
}

func TestCreateAssignsID(t *testing.T) {
	repo := newTestRepo(t)
	rec := record("ws-1", "chat-1", "answered", time.Now())

	require.NoError(t, repo.Create(context.Background(), rec))
	assert.NotZero(t, rec.ID)
}

func TestCreateRejectsInvalidRecords(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Create(ctx, nil), ErrInvalidRecord)
	assert.ErrorIs(t, repo.Create(ctx, record("ws", "", "answered", time.Now())), ErrInvalidRecord)
	assert.ErrorIs(t, repo.Record(ctx, record("ws", "c", " ", time.Now())), ErrInvalidRecord)
}

func TestCountByOutcome(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now()

	for _, rec := range []*domain.SubmissionRecord{
		record("ws-1", "c1", "answered", now),
		record("ws-1", "c1", "answered", now),
		record("ws-1", "c2", "failed", now),
		record("ws-2", "c3", "discarded", now),
	} {
		require.NoError(t, repo.Record(ctx, rec))
	}

	counts, err := repo.CountByOutcome(ctx, "ws-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"answered": 2, "failed": 1}, counts)

	all, err := repo.CountByOutcome(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), all["discarded"])
}

func TestFindRecentNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, record("ws-1", "c1", "answered", base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, repo.Create(ctx, record("ws-2", "c9", "failed", base.Add(time.Hour))))

	recs, err := repo.FindRecent(ctx, "ws-1", 3)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.True(t, recs[0].CreatedAt.After(recs[1].CreatedAt))
	assert.True(t, recs[0].CreatedAt.Equal(base.Add(4*time.Minute)))

	recs, err = repo.FindRecent(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, recs, 6)
	assert.Equal(t, "ws-2", recs[0].WorkspaceID)
}
