package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jadamsuryateja/feedback-console/internal/dto"
	"github.com/jadamsuryateja/feedback-console/internal/model"
	"github.com/jadamsuryateja/feedback-console/internal/repository"
)

// ActivityService configuration audit trail
type ActivityService interface {
	// Record stores entry and publishes it to the event stream. Failures are
	// logged and never returned.
	Record(ctx context.Context, entry *model.ActivityLog)
	List(ctx context.Context, req *dto.ActivityListRequest) ([]model.ActivityLog, int64, error)
}

type activityService struct {
	repo      *repository.Repository
	publisher EventPublisher
	logger    *zap.Logger
}

// NewActivityService creates an ActivityService. publisher may be nil.
func NewActivityService(repo *repository.Repository, publisher EventPublisher, logger *zap.Logger) ActivityService {
	return &activityService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *activityService) Record(ctx context.Context, entry *model.ActivityLog) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	// the user operation already happened upstream; don't let a canceled
	// request lose its audit row
	ctx = context.WithoutCancel(ctx)

	if err := s.repo.ActivityLog.Create(ctx, entry); err != nil {
		s.logger.Error("record activity",
			zap.String("action", entry.Action),
			zap.String("title", entry.Title),
			zap.Error(err),
		)
	}
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Send(ctx, entry.Title, entry); err != nil {
		s.logger.Error("publish activity event",
			zap.String("action", entry.Action),
			zap.String("title", entry.Title),
			zap.Error(err),
		)
	}
}

func (s *activityService) List(ctx context.Context, req *dto.ActivityListRequest) ([]model.ActivityLog, int64, error) {
	logs, total, err := s.repo.ActivityLog.List(ctx, repository.ActivityFilter{
		Title:    req.Title,
		Username: req.Username,
		Offset:   req.GetOffset(),
		Limit:    req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("list activity", zap.Error(err))
		return nil, 0, err
	}
	return logs, total, nil
}
