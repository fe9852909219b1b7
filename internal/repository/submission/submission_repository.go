// File: internal/repository/submission/submission_repository.go
package submission

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/iyunix/go-brainchat/internal/domain"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 200
)

var ErrInvalidRecord = errors.New("invalid submission record")

type gormSubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &gormSubmissionRepository{db: db}
}

// Create inserts a submission record.
func (r *gormSubmissionRepository) Create(ctx context.Context, rec *domain.SubmissionRecord) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return errors.Wrapf(err, "create submission record for chat %s", rec.ChatID)
	}
	return nil
}

// Record lets the repository act as the pipeline's SubmissionRecorder.
func (r *gormSubmissionRepository) Record(ctx context.Context, rec *domain.SubmissionRecord) error {
	return r.Create(ctx, rec)
}

// CountByOutcome tallies records per outcome. An empty workspaceID counts
// across all workspaces.
func (r *gormSubmissionRepository) CountByOutcome(ctx context.Context, workspaceID string) (map[string]int64, error) {
	var rows []struct {
		Outcome string
		Total   int64
	}
	q := r.db.WithContext(ctx).
		Model(&domain.SubmissionRecord{}).
		Select("outcome, COUNT(*) AS total").
		Group("outcome")
	if workspaceID != "" {
		q = q.Where("workspace_id = ?", workspaceID)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "count submissions by outcome")
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Outcome] = row.Total
	}
	return out, nil
}

// FindRecent returns the newest records first.
func (r *gormSubmissionRepository) FindRecent(ctx context.Context, workspaceID string, limit int) ([]domain.SubmissionRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	var recs []domain.SubmissionRecord
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit)
	if workspaceID != "" {
		q = q.Where("workspace_id = ?", workspaceID)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, errors.Wrap(err, "find recent submissions")
	}
	return recs, nil
}

func validateRecord(rec *domain.SubmissionRecord) error {
	if rec == nil {
		return errors.Wrap(ErrInvalidRecord, "record is nil")
	}
	if strings.TrimSpace(rec.ChatID) == "" {
		return errors.Wrap(ErrInvalidRecord, "chat id is required")
	}
	if strings.TrimSpace(rec.Outcome) == "" {
		return errors.Wrap(ErrInvalidRecord, "outcome is required")
	}
	return nil
}
