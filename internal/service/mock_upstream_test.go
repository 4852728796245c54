package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jadamsuryateja/feedback-console/config"
	"github.com/jadamsuryateja/feedback-console/internal/gateway"
	"github.com/jadamsuryateja/feedback-console/internal/model"
	"github.com/jadamsuryateja/feedback-console/internal/repository"
	apperrors "github.com/jadamsuryateja/feedback-console/pkg/errors"
)

// ── Mock Upstream ──

type mockAccount struct {
	password string
	identity model.Identity
	token    string
}

type mockUpstream struct {
	mu sync.Mutex

	accounts map[string]mockAccount         // username
	tokens   map[string]model.Identity      // upstream token
	configs  map[string]model.Configuration // id
	nextID   int

	summary   *gateway.Summary
	responses []model.FeedbackResponse
	submitted []json.RawMessage

	lastList    gateway.ListQuery
	lastSummary gateway.SummaryQuery
	listCalls   int
	verifyCalls int

	// failWith is returned by every call when set
	failWith error
	// createGate blocks CreateConfig until closed
	createGate chan struct{}
}

func newMockUpstream() *mockUpstream {
	return &mockUpstream{
		accounts: make(map[string]mockAccount),
		tokens:   make(map[string]model.Identity),
		configs:  make(map[string]model.Configuration),
	}
}

func (m *mockUpstream) addAccount(username, password string, role model.Role, branch string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	token := "upstream-" + username
	id := model.Identity{Username: username, Role: role, Branch: branch}
	m.accounts[username] = mockAccount{password: password, identity: id, token: token}
	m.tokens[token] = id
	return token
}

func (m *mockUpstream) revoke(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
}

func (m *mockUpstream) Login(_ context.Context, req gateway.LoginRequest) (*gateway.LoginResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	acc, ok := m.accounts[req.Username]
	if !ok || acc.password != req.Password || acc.identity.Role != req.Role {
		return nil, fmt.Errorf("login: %w", apperrors.ErrAuthentication)
	}
	return &gateway.LoginResult{Token: acc.token, User: acc.identity}, nil
}

func (m *mockUpstream) Verify(_ context.Context, token string) (*model.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifyCalls++
	if m.failWith != nil {
		return nil, m.failWith
	}
	id, ok := m.tokens[token]
	if !ok {
		return nil, fmt.Errorf("verify: %w", apperrors.ErrAuthentication)
	}
	return &id, nil
}

func (m *mockUpstream) CreateConfig(_ context.Context, token string, cfg model.Configuration) (*gateway.CreateResult, error) {
	if m.createGate != nil {
		<-m.createGate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if token == "" {
		return nil, apperrors.ErrAuthentication
	}
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, c := range m.configs {
		if c.Title == cfg.Title {
			return &gateway.CreateResult{Outcome: gateway.Duplicate, Title: cfg.Title}, nil
		}
	}
	m.nextID++
	cfg.ID = fmt.Sprintf("cfg-%d", m.nextID)
	now := time.Now()
	cfg.CreatedAt = &now
	m.configs[cfg.ID] = cfg
	out := cfg.Clone()
	return &gateway.CreateResult{Outcome: gateway.Created, Config: &out, Title: cfg.Title}, nil
}

func (m *mockUpstream) ListConfigs(_ context.Context, _ string, q gateway.ListQuery) ([]model.Configuration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	m.lastList = q
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []model.Configuration{}
	for _, c := range m.configs {
		if q.Branch != "" && c.Branch != q.Branch {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *mockUpstream) GetConfigByTitle(_ context.Context, title string) (*model.Configuration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.configs {
		if c.Title == title {
			out := c.Clone()
			return &out, nil
		}
	}
	return nil, fmt.Errorf("get config: %w", apperrors.ErrNotFound)
}

func (m *mockUpstream) UpdateConfig(_ context.Context, token, id string, cfg model.Configuration) (*model.Configuration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token == "" {
		return nil, apperrors.ErrAuthentication
	}
	if _, ok := m.configs[id]; !ok {
		return nil, fmt.Errorf("update config: %w", apperrors.ErrNotFound)
	}
	cfg.ID = id
	m.configs[id] = cfg
	out := cfg.Clone()
	return &out, nil
}

func (m *mockUpstream) DeleteConfig(_ context.Context, token, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token == "" {
		return apperrors.ErrAuthentication
	}
	if _, ok := m.configs[id]; !ok {
		return fmt.Errorf("delete config: %w", apperrors.ErrNotFound)
	}
	delete(m.configs, id)
	return nil
}

func (m *mockUpstream) SubmitFeedback(_ context.Context, payload json.RawMessage) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.submitted = append(m.submitted, payload)
	return json.RawMessage(`{"message":"Feedback submitted successfully"}`), nil
}

func (m *mockUpstream) FeedbackSummary(_ context.Context, _ string, q gateway.SummaryQuery) (*gateway.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSummary = q
	if m.failWith != nil {
		return nil, m.failWith
	}
	if m.summary == nil {
		return &gateway.Summary{}, nil
	}
	return m.summary, nil
}

func (m *mockUpstream) FeedbackResponses(_ context.Context, _ string, q gateway.SummaryQuery) ([]model.FeedbackResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSummary = q
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.responses, nil
}

// ── Mock Notifier ──

type refreshCall struct {
	kind   string // config | feedback
	branch string
}

type mockNotifier struct {
	mu    sync.Mutex
	calls []refreshCall
}

func (n *mockNotifier) ConfigChanged(_ context.Context, branch string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, refreshCall{"config", branch})
	return nil
}

func (n *mockNotifier) FeedbackChanged(_ context.Context, branch string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, refreshCall{"feedback", branch})
	return nil
}

func (n *mockNotifier) snapshot() []refreshCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]refreshCall(nil), n.calls...)
}

// ── Mock ActivityLogRepository ──

type mockActivityRepo struct {
	mu      sync.Mutex
	entries []model.ActivityLog
	failErr error
}

func (r *mockActivityRepo) Create(_ context.Context, entry *model.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *mockActivityRepo) List(_ context.Context, f repository.ActivityFilter) ([]model.ActivityLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []model.ActivityLog
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if f.Title != "" && e.Title != f.Title {
			continue
		}
		if f.Username != "" && e.Username != f.Username {
			continue
		}
		matched = append(matched, e)
	}
	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return []model.ActivityLog{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[f.Offset:end], total, nil
}

func (r *mockActivityRepo) snapshot() []model.ActivityLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.ActivityLog(nil), r.entries...)
}

// ── Mock EventPublisher ──

type mockPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *mockPublisher) Send(_ context.Context, key string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return p.err
}

// ── Mock SessionCloser ──

type mockCloser struct {
	closed []string
}

func (c *mockCloser) Disconnect(sessionID string) {
	c.closed = append(c.closed, sessionID)
}

// ── helpers ──

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret-key-for-unit-testing",
			AccessTokenTTL: 15 * time.Minute,
		},
		Cache: config.CacheConfig{
			ConfigListTTL: time.Minute,
			VerifyTTL:     time.Minute,
		},
		Report: config.ReportConfig{
			AggregationPolicy: "mean",
			InstitutionName:   "TEST COLLEGE",
			ReportTitle:       "FEEDBACK REPORT",
			Signatory:         "Signature of Vice Principal",
		},
	}
}

func testActor(role model.Role, branch string) *Actor {
	return &Actor{
		Identity:      model.Identity{Username: "tester", Role: role, Branch: branch},
		SessionID:     "sid-" + string(role),
		UpstreamToken: "upstream-tester",
		ExpiresAt:     time.Now().Add(time.Hour),
		RequestID:     "req-1",
	}
}

func testLogger() *zap.Logger { return zap.NewNop() }
