package service

import (
	"context"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/jadamsuryateja/feedback-console/config"
	"github.com/jadamsuryateja/feedback-console/internal/dto"
	"github.com/jadamsuryateja/feedback-console/internal/gateway"
	"github.com/jadamsuryateja/feedback-console/internal/model"
	apperrors "github.com/jadamsuryateja/feedback-console/pkg/errors"
	"github.com/jadamsuryateja/feedback-console/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username, password or role")
	ErrSessionExpired     = errors.New("session expired, please sign in again")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// AuthService console sign-in on top of the upstream session
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, actor *Actor) error
	// Authenticate resolves a console token to its caller. The upstream
	// verification is cached for cache.verify_ttl.
	Authenticate(ctx context.Context, token string) (*Actor, error)
}

type authService struct {
	cfg      *config.Config
	upstream Upstream
	store    SessionStore
	closer   SessionCloser
	jwtMgr   *jwt.Manager
	verified *cache.Cache
	logger   *zap.Logger
}

// NewAuthService creates an AuthService. closer may be nil.
func NewAuthService(
	cfg *config.Config,
	upstream Upstream,
	store SessionStore,
	closer SessionCloser,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:      cfg,
		upstream: upstream,
		store:    store,
		closer:   closer,
		jwtMgr:   jwtMgr,
		verified: cache.New(cfg.Cache.VerifyTTL, 2*cfg.Cache.VerifyTTL),
		logger:   logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	// 1. upstream credentials
	res, err := s.upstream.Login(ctx, gateway.LoginRequest{
		Username: req.Username,
		Password: req.Password,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrAuthentication) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("upstream login failed", zap.String("username", req.Username), zap.Error(err))
		return nil, err
	}
	user := res.User

	// 2. console token
	token, claims, err := s.jwtMgr.GenerateAccessToken(user.Username, string(user.Role), user.Branch)
	if err != nil {
		s.logger.Error("sign access token", zap.Error(err))
		return nil, err
	}

	// 3. keep the upstream token server side
	if err := s.store.SaveSession(ctx, claims.SessionID, res.Token, s.jwtMgr.TTL()); err != nil {
		s.logger.Error("save session", zap.Error(err))
		return nil, err
	}
	s.verified.Set(claims.SessionID, user, cache.DefaultExpiration)

	s.logger.Info("signed in",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
		zap.String("branch", user.Branch),
	)

	return &dto.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.TTL().Seconds()),
		User:        dto.NewUserResponse(user),
	}, nil
}

func (s *authService) Logout(ctx context.Context, actor *Actor) error {
	if err := s.store.DeleteSession(ctx, actor.SessionID); err != nil {
		s.logger.Error("delete session", zap.String("sid", actor.SessionID), zap.Error(err))
		return err
	}
	if remaining := time.Until(actor.ExpiresAt); remaining > 0 {
		if err := s.store.BlacklistToken(ctx, actor.SessionID, remaining); err != nil {
			s.logger.Error("blacklist token", zap.String("sid", actor.SessionID), zap.Error(err))
			return err
		}
	}
	s.verified.Delete(actor.SessionID)
	if s.closer != nil {
		s.closer.Disconnect(actor.SessionID)
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*Actor, error) {
	claims, err := s.jwtMgr.ParseToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.store.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Error("check token blacklist", zap.Error(err))
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	upstreamToken, ok, err := s.store.LoadSession(ctx, claims.SessionID)
	if err != nil {
		s.logger.Error("load session", zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, ErrSessionExpired
	}

	user, err := s.verify(ctx, claims.SessionID, upstreamToken)
	if err != nil {
		return nil, err
	}
	if user.Role == "" {
		user.Role = model.Role(claims.Role)
	}

	actor := &Actor{
		Identity:      user,
		SessionID:     claims.SessionID,
		UpstreamToken: upstreamToken,
	}
	if claims.ExpiresAt != nil {
		actor.ExpiresAt = claims.ExpiresAt.Time
	}
	return actor, nil
}

// verify confirms the upstream session is still alive. A rejected upstream
// token ends the console session too.
func (s *authService) verify(ctx context.Context, sid, upstreamToken string) (model.Identity, error) {
	if v, ok := s.verified.Get(sid); ok {
		return v.(model.Identity), nil
	}
	user, err := s.upstream.Verify(ctx, upstreamToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrAuthentication) {
			if derr := s.store.DeleteSession(ctx, sid); derr != nil {
				s.logger.Warn("drop rejected session", zap.Error(derr))
			}
			return model.Identity{}, ErrSessionExpired
		}
		s.logger.Error("upstream verify failed", zap.Error(err))
		return model.Identity{}, err
	}
	s.verified.Set(sid, *user, cache.DefaultExpiration)
	return *user, nil
}
