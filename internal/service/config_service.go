package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/jadamsuryateja/feedback-console/config"
	"github.com/jadamsuryateja/feedback-console/internal/dto"
	"github.com/jadamsuryateja/feedback-console/internal/gateway"
	"github.com/jadamsuryateja/feedback-console/internal/identity"
	"github.com/jadamsuryateja/feedback-console/internal/model"
	apperrors "github.com/jadamsuryateja/feedback-console/pkg/errors"
)

var (
	ErrConfigNotFound       = errors.New("configuration not found")
	ErrSubmissionInProgress = errors.New("another submission is in progress")
	ErrDeleteNotConfirmed   = errors.New("deleting a configuration must be confirmed")
)

// ConfigService configuration use cases
type ConfigService interface {
	// Validate runs the advisory checks shown while the form is edited.
	Validate(actor *Actor, req *dto.ConfigRequest) *dto.FieldErrorsResponse
	List(ctx context.Context, actor *Actor, q *dto.ConfigListQuery) ([]model.Configuration, error)
	GetByTitle(ctx context.Context, title string) (*model.Configuration, error)
	Create(ctx context.Context, actor *Actor, req *dto.ConfigRequest) (*model.Configuration, error)
	Update(ctx context.Context, actor *Actor, id string, req *dto.ConfigRequest) (*model.Configuration, error)
	// Delete removes id. branch is the refresh hint for live sessions.
	Delete(ctx context.Context, actor *Actor, id, branch string) error
	// InvalidateCache drops every cached list.
	InvalidateCache()
}

type configService struct {
	upstream Upstream
	notifier RefreshNotifier
	activity ActivityService
	lists    *cache.Cache
	inflight sync.Map // session id -> struct{}
	logger   *zap.Logger
}

// NewConfigService creates a ConfigService.
func NewConfigService(
	cfg *config.Config,
	upstream Upstream,
	notifier RefreshNotifier,
	activity ActivityService,
	logger *zap.Logger,
) ConfigService {
	return &configService{
		upstream: upstream,
		notifier: notifier,
		activity: activity,
		lists:    cache.New(cfg.Cache.ConfigListTTL, 2*cfg.Cache.ConfigListTTL),
		logger:   logger,
	}
}

func (s *configService) Validate(actor *Actor, req *dto.ConfigRequest) *dto.FieldErrorsResponse {
	form := identity.LoadForEdit(req.ToModel(), actor.Role())
	return &dto.FieldErrorsResponse{
		Valid:  form.Valid(),
		Errors: form.FieldErrors(),
	}
}

func (s *configService) List(ctx context.Context, actor *Actor, q *dto.ConfigListQuery) ([]model.Configuration, error) {
	query := gateway.ListQuery{
		AcademicYear: q.AcademicYear,
		Year:         q.Year,
		Semester:     q.Semester,
		Branch:       q.Branch,
		Section:      q.Section,
		Role:         model.Role(q.Role),
	}
	if query.Role == "" && actor.Role().IsBSH() {
		query.Role = model.RoleBSH
	}

	key := fmt.Sprintf("%s|%s|%s", actor.Role(), actor.Identity.Branch, query.Values().Encode())
	if !q.Refresh {
		if v, ok := s.lists.Get(key); ok {
			return v.([]model.Configuration), nil
		}
	}

	configs, err := s.upstream.ListConfigs(ctx, actor.UpstreamToken, query)
	if err != nil {
		s.logger.Error("list configurations", zap.Error(err))
		return nil, err
	}
	s.lists.Set(key, configs, cache.DefaultExpiration)
	return configs, nil
}

func (s *configService) GetByTitle(ctx context.Context, title string) (*model.Configuration, error) {
	cfg, err := s.upstream.GetConfigByTitle(ctx, identity.NormalizeTitle(title))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrConfigNotFound
		}
		s.logger.Error("get configuration", zap.String("title", title), zap.Error(err))
		return nil, err
	}
	return cfg, nil
}

func (s *configService) Create(ctx context.Context, actor *Actor, req *dto.ConfigRequest) (*model.Configuration, error) {
	release, err := s.acquire(actor)
	if err != nil {
		return nil, err
	}
	defer release()

	cfg, err := identity.LoadForEdit(req.ToModel(), actor.Role()).Finalize()
	if err != nil {
		return nil, err
	}

	res, err := s.upstream.CreateConfig(ctx, actor.UpstreamToken, cfg)
	if err != nil {
		s.logger.Error("create configuration", zap.String("title", cfg.Title), zap.Error(err))
		s.record(ctx, actor, model.ActionCreate, cfg, model.OutcomeFailed, err)
		return nil, err
	}
	if dup := res.DuplicateError(); dup != nil {
		s.record(ctx, actor, model.ActionCreate, cfg, model.OutcomeDuplicate, dup)
		return nil, dup
	}

	created := cfg
	if res.Config != nil {
		created = *res.Config
	}
	s.changed(ctx, created.Branch)
	s.record(ctx, actor, model.ActionCreate, created, model.OutcomeOK, nil)
	return &created, nil
}

func (s *configService) Update(ctx context.Context, actor *Actor, id string, req *dto.ConfigRequest) (*model.Configuration, error) {
	release, err := s.acquire(actor)
	if err != nil {
		return nil, err
	}
	defer release()

	cfg, err := identity.LoadForEdit(req.ToModel(), actor.Role()).Finalize()
	if err != nil {
		return nil, err
	}
	cfg.ID = id

	updated, err := s.upstream.UpdateConfig(ctx, actor.UpstreamToken, id, cfg)
	if err != nil {
		s.record(ctx, actor, model.ActionUpdate, cfg, model.OutcomeFailed, err)
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrConfigNotFound
		}
		s.logger.Error("update configuration", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if updated.Title == "" {
		// upstream acknowledged without echoing the record
		updated = &cfg
	}

	s.changed(ctx, updated.Branch)
	s.record(ctx, actor, model.ActionUpdate, *updated, model.OutcomeOK, nil)
	return updated, nil
}

func (s *configService) Delete(ctx context.Context, actor *Actor, id, branch string) error {
	target := model.Configuration{ID: id, Branch: branch}
	if err := s.upstream.DeleteConfig(ctx, actor.UpstreamToken, id); err != nil {
		s.record(ctx, actor, model.ActionDelete, target, model.OutcomeFailed, err)
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrConfigNotFound
		}
		s.logger.Error("delete configuration", zap.String("id", id), zap.Error(err))
		return err
	}

	// BSH sessions listen on the department tag, not a branch
	hint := branch
	if actor.Role().IsBSH() {
		hint = model.BSHTag
	}
	s.changed(ctx, hint)
	s.record(ctx, actor, model.ActionDelete, target, model.OutcomeOK, nil)
	return nil
}

func (s *configService) InvalidateCache() {
	s.lists.Flush()
}

// acquire enforces one in-flight submission per session.
func (s *configService) acquire(actor *Actor) (func(), error) {
	if _, busy := s.inflight.LoadOrStore(actor.SessionID, struct{}{}); busy {
		return nil, ErrSubmissionInProgress
	}
	return func() { s.inflight.Delete(actor.SessionID) }, nil
}

func (s *configService) changed(ctx context.Context, branch string) {
	s.InvalidateCache()
	if s.notifier == nil {
		return
	}
	if err := s.notifier.ConfigChanged(ctx, branch); err != nil {
		s.logger.Warn("notify config change", zap.String("branch", branch), zap.Error(err))
	}
}

func (s *configService) record(ctx context.Context, actor *Actor, action string, cfg model.Configuration, outcome string, cause error) {
	entry := &model.ActivityLog{
		Username:  actor.Identity.Username,
		Role:      string(actor.Role()),
		Action:    action,
		ConfigID:  cfg.ID,
		Title:     cfg.Title,
		Branch:    cfg.Branch,
		Outcome:   outcome,
		RequestID: actor.RequestID,
	}
	if cause != nil {
		entry.Message = cause.Error()
	}
	s.activity.Record(ctx, entry)
}
