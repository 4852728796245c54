package service

import (
	"go.uber.org/zap"

	"github.com/jadamsuryateja/feedback-console/config"
	"github.com/jadamsuryateja/feedback-console/internal/notify"
	"github.com/jadamsuryateja/feedback-console/internal/repository"
	"github.com/jadamsuryateja/feedback-console/pkg/jwt"
)

// Deps collaborators shared by the services
type Deps struct {
	Upstream  Upstream
	Sessions  SessionStore
	Notifier  RefreshNotifier
	Closer    SessionCloser
	Publisher EventPublisher
}

// Service aggregate entry point of every service
type Service struct {
	Auth     AuthService
	Config   ConfigService
	Feedback FeedbackService
	Activity ActivityService
}

// NewService creates the Service aggregate. A nil Sessions falls back to
// the in-process store.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	deps Deps,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) *Service {
	if deps.Sessions == nil {
		deps.Sessions = NewMemorySessionStore()
	}
	activity := NewActivityService(repo, deps.Publisher, logger.Named("activity"))
	return &Service{
		Auth:     NewAuthService(cfg, deps.Upstream, deps.Sessions, deps.Closer, jwtMgr, logger.Named("auth")),
		Config:   NewConfigService(cfg, deps.Upstream, deps.Notifier, activity, logger.Named("config")),
		Feedback: NewFeedbackService(cfg, deps.Upstream, deps.Notifier, logger.Named("feedback")),
		Activity: activity,
	}
}

// ObserveRefresh drops the cached configuration lists when a config-refresh
// passes through the broker, whichever instance published it. Install it as
// the hub's Observe hook so the cache is empty before sockets re-fetch.
func (s *Service) ObserveRefresh(m notify.Message) {
	if m.Frame.Event == notify.EventConfigRefresh {
		s.Config.InvalidateCache()
	}
}
