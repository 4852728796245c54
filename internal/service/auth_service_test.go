package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jadamsuryateja/feedback-console/internal/dto"
	"github.com/jadamsuryateja/feedback-console/internal/model"
	apperrors "github.com/jadamsuryateja/feedback-console/pkg/errors"
	"github.com/jadamsuryateja/feedback-console/pkg/jwt"
)

type authFixture struct {
	svc      AuthService
	upstream *mockUpstream
	store    SessionStore
	closer   *mockCloser
	jwtMgr   *jwt.Manager
}

func setupTestAuthService() *authFixture {
	cfg := testConfig()
	up := newMockUpstream()
	up.addAccount("cse-coord", "secret", model.RoleCoordinator, "CSE")
	store := NewMemorySessionStore()
	closer := &mockCloser{}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	return &authFixture{
		svc:      NewAuthService(cfg, up, store, closer, jwtMgr, testLogger()),
		upstream: up,
		store:    store,
		closer:   closer,
		jwtMgr:   jwtMgr,
	}
}

func loginCoordinator(t *testing.T, f *authFixture) *dto.LoginResponse {
	t.Helper()
	res, err := f.svc.Login(context.Background(), &dto.LoginRequest{
		Username: "cse-coord",
		Password: "secret",
		Role:     "coordinator",
	})
	if err != nil {
		t.Fatalf("Login should succeed: %v", err)
	}
	return res
}

func TestLogin_Success(t *testing.T) {
	f := setupTestAuthService()
	res := loginCoordinator(t, f)

	if res.AccessToken == "" {
		t.Error("AccessToken should not be empty")
	}
	if res.ExpiresIn != 900 {
		t.Errorf("expected ExpiresIn=900, got %d", res.ExpiresIn)
	}
	if res.User.Username != "cse-coord" || res.User.Role != "coordinator" || res.User.Branch != "CSE" {
		t.Errorf("unexpected user %+v", res.User)
	}

	claims, err := f.jwtMgr.ParseToken(res.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	token, ok, _ := f.store.LoadSession(context.Background(), claims.SessionID)
	if !ok || token != "upstream-cse-coord" {
		t.Errorf("session should hold the upstream token, got %q (%v)", token, ok)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := setupTestAuthService()
	cases := []dto.LoginRequest{
		{Username: "cse-coord", Password: "wrong", Role: "coordinator"},
		{Username: "cse-coord", Password: "secret", Role: "admin"},
		{Username: "nobody", Password: "secret", Role: "coordinator"},
	}
	for _, req := range cases {
		req := req
		if _, err := f.svc.Login(context.Background(), &req); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("%+v: expected ErrInvalidCredentials, got %v", req, err)
		}
	}
}

func TestLogin_UpstreamUnreachable(t *testing.T) {
	f := setupTestAuthService()
	f.upstream.failWith = &apperrors.TransportError{Op: "login", Err: context.DeadlineExceeded}

	_, err := f.svc.Login(context.Background(), &dto.LoginRequest{Username: "cse-coord", Password: "secret", Role: "coordinator"})
	var te *apperrors.TransportError
	if !errors.As(err, &te) {
		t.Errorf("expected TransportError, got %v", err)
	}
}

func TestAuthenticate_Success(t *testing.T) {
	f := setupTestAuthService()
	res := loginCoordinator(t, f)

	for i := 0; i < 2; i++ {
		actor, err := f.svc.Authenticate(context.Background(), res.AccessToken)
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		if actor.Identity.Username != "cse-coord" || actor.UpstreamToken != "upstream-cse-coord" {
			t.Errorf("unexpected actor %+v", actor)
		}
		if actor.ExpiresAt.IsZero() {
			t.Error("ExpiresAt should come from the token")
		}
	}
	if f.upstream.verifyCalls != 0 {
		t.Errorf("identity from login should be cached, got %d verify calls", f.upstream.verifyCalls)
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	f := setupTestAuthService()
	if _, err := f.svc.Authenticate(context.Background(), "not-a-jwt"); !errors.Is(err, jwt.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAuthenticate_UpstreamRevokedSession(t *testing.T) {
	f := setupTestAuthService()
	res := loginCoordinator(t, f)
	f.upstream.revoke("upstream-cse-coord")

	// a second instance has a cold verify cache
	cfg := testConfig()
	other := NewAuthService(cfg, f.upstream, f.store, nil, f.jwtMgr, testLogger())
	if _, err := other.Authenticate(context.Background(), res.AccessToken); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if f.upstream.verifyCalls != 1 {
		t.Errorf("expected one verify call, got %d", f.upstream.verifyCalls)
	}

	claims, _ := f.jwtMgr.ParseToken(res.AccessToken)
	if _, ok, _ := f.store.LoadSession(context.Background(), claims.SessionID); ok {
		t.Error("rejected session should be removed")
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	f := setupTestAuthService()
	res := loginCoordinator(t, f)

	actor, err := f.svc.Authenticate(context.Background(), res.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if err := f.svc.Logout(context.Background(), actor); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, err := f.svc.Authenticate(context.Background(), res.AccessToken); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("expected ErrTokenRevoked after logout, got %v", err)
	}
	if len(f.closer.closed) != 1 || f.closer.closed[0] != actor.SessionID {
		t.Errorf("live connections should be closed, got %v", f.closer.closed)
	}
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	if _, ok, _ := store.LoadSession(ctx, "missing"); ok {
		t.Error("missing session should not load")
	}
	_ = store.SaveSession(ctx, "sid", "tok", 0)
	if tok, ok, _ := store.LoadSession(ctx, "sid"); !ok || tok != "tok" {
		t.Errorf("expected tok, got %q", tok)
	}
	_ = store.DeleteSession(ctx, "sid")
	if _, ok, _ := store.LoadSession(ctx, "sid"); ok {
		t.Error("deleted session should not load")
	}

	_ = store.BlacklistToken(ctx, "jti", 0)
	if revoked, _ := store.IsBlacklisted(ctx, "jti"); !revoked {
		t.Error("jti should be blacklisted")
	}
}
