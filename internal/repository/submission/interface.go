package submission

import (
	"context"

	"github.com/iyunix/go-brainchat/internal/domain"
)

// SubmissionRepository persists one audit row per settled submission.
type SubmissionRepository interface {
	Create(ctx context.Context, rec *domain.SubmissionRecord) error
	Record(ctx context.Context, rec *domain.SubmissionRecord) error
	CountByOutcome(ctx context.Context, workspaceID string) (map[string]int64, error)
	FindRecent(ctx context.Context, workspaceID string, limit int) ([]domain.SubmissionRecord, error)
}
