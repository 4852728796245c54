package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jadamsuryateja/feedback-console/internal/gateway"
	"github.com/jadamsuryateja/feedback-console/internal/model"
)

// Upstream is the external feedback backend. *gateway.Client implements it.
type Upstream interface {
	Login(ctx context.Context, req gateway.LoginRequest) (*gateway.LoginResult, error)
	Verify(ctx context.Context, token string) (*model.Identity, error)

	CreateConfig(ctx context.Context, token string, cfg model.Configuration) (*gateway.CreateResult, error)
	ListConfigs(ctx context.Context, token string, q gateway.ListQuery) ([]model.Configuration, error)
	GetConfigByTitle(ctx context.Context, title string) (*model.Configuration, error)
	UpdateConfig(ctx context.Context, token, id string, cfg model.Configuration) (*model.Configuration, error)
	DeleteConfig(ctx context.Context, token, id string) error

	SubmitFeedback(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
	FeedbackSummary(ctx context.Context, token string, q gateway.SummaryQuery) (*gateway.Summary, error)
	FeedbackResponses(ctx context.Context, token string, q gateway.SummaryQuery) ([]model.FeedbackResponse, error)
}

// SessionStore maps console sessions to upstream tokens and tracks revoked
// console tokens. *redis.Client implements it.
type SessionStore interface {
	SaveSession(ctx context.Context, sid, upstreamToken string, ttl time.Duration) error
	LoadSession(ctx context.Context, sid string) (string, bool, error)
	DeleteSession(ctx context.Context, sid string) error
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// RefreshNotifier tells live sessions to re-fetch. *notify.Notifier implements it.
type RefreshNotifier interface {
	ConfigChanged(ctx context.Context, branch string) error
	FeedbackChanged(ctx context.Context, branch string) error
}

// SessionCloser drops the live connections of a signed-out session.
type SessionCloser interface {
	Disconnect(sessionID string)
}

// EventPublisher writes change events to a stream. *kafka.Producer implements it.
type EventPublisher interface {
	Send(ctx context.Context, key string, message interface{}) error
}

// Actor is the authenticated caller of a use case.
type Actor struct {
	Identity      model.Identity
	SessionID     string
	UpstreamToken string
	ExpiresAt     time.Time
	RequestID     string
}

// Role shorthand
func (a *Actor) Role() model.Role { return a.Identity.Role }

// memorySessionStore keeps sessions in process; used when redis is not configured.
type memorySessionStore struct {
	sessions  *cache.Cache
	blacklist *cache.Cache
}

// NewMemorySessionStore returns a single-instance SessionStore.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{
		sessions:  cache.New(cache.NoExpiration, 10*time.Minute),
		blacklist: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

func (m *memorySessionStore) SaveSession(_ context.Context, sid, upstreamToken string, ttl time.Duration) error {
	m.sessions.Set(sid, upstreamToken, ttl)
	return nil
}

func (m *memorySessionStore) LoadSession(_ context.Context, sid string) (string, bool, error) {
	v, ok := m.sessions.Get(sid)
	if !ok {
		return "", false, nil
	}
	return v.(string), true, nil
}

func (m *memorySessionStore) DeleteSession(_ context.Context, sid string) error {
	m.sessions.Delete(sid)
	return nil
}

func (m *memorySessionStore) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.blacklist.Set(jti, struct{}{}, ttl)
	return nil
}

func (m *memorySessionStore) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := m.blacklist.Get(jti)
	return ok, nil
}
