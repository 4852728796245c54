package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jadamsuryateja/feedback-console/internal/model"
)

// ActivityFilter narrows an activity listing.
type ActivityFilter struct {
	Title    string
	Username string
	Offset   int
	Limit    int
}

// ActivityLogRepository stores the configuration audit trail.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *model.ActivityLog) error
	List(ctx context.Context, f ActivityFilter) ([]model.ActivityLog, int64, error)
}

// activityLogRepo ActivityLogRepository backed by GORM
type activityLogRepo struct {
	db *gorm.DB
}

// NewActivityLogRepo creates an ActivityLogRepository on db.
func NewActivityLogRepo(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepo{db: db}
}

func (r *activityLogRepo) Create(ctx context.Context, entry *model.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityLogRepo) List(ctx context.Context, f ActivityFilter) ([]model.ActivityLog, int64, error) {
	var logs []model.ActivityLog
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ActivityLog{})
	if f.Title != "" {
		db = db.Where("title = ?", f.Title)
	}
	if f.Username != "" {
		db = db.Where("username = ?", f.Username)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(f.Offset).Limit(f.Limit).
		Order("created_at DESC").
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// noopActivityLogRepo is used when no database is configured.
type noopActivityLogRepo struct{}

// NewNoopActivityLogRepo returns a repository that stores nothing.
func NewNoopActivityLogRepo() ActivityLogRepository { return noopActivityLogRepo{} }

func (noopActivityLogRepo) Create(context.Context, *model.ActivityLog) error { return nil }

func (noopActivityLogRepo) List(context.Context, ActivityFilter) ([]model.ActivityLog, int64, error) {
	return []model.ActivityLog{}, 0, nil
}
