package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jadamsuryateja/feedback-console/internal/model"
	apperrors "github.com/jadamsuryateja/feedback-console/pkg/errors"
)

// LoginRequest is the upstream login body.
type LoginRequest struct {
	Username string     `json:"username"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

// LoginResult is the upstream session and who it belongs to.
type LoginResult struct {
	Token string
	User  model.Identity
}

// identityEnvelope accepts both {"user":{...}} and a bare identity object.
type identityEnvelope struct {
	Token string          `json:"token"`
	User  *model.Identity `json:"user"`
	model.Identity
}

func (e identityEnvelope) identity() model.Identity {
	if e.User != nil {
		return *e.User
	}
	return e.Identity
}

// Login exchanges credentials for an upstream token. Wrong credentials
// surface as ErrAuthentication.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	var env identityEnvelope
	if err := c.do(ctx, request{
		op:     "login",
		method: http.MethodPost,
		path:   "/auth/login",
		body:   req,
	}, &env); err != nil {
		return nil, err
	}
	if env.Token == "" {
		return nil, &apperrors.ServerError{Status: http.StatusBadGateway, Message: genericServerMessage}
	}

	id := env.identity()
	if id.Username == "" {
		id.Username = req.Username
	}
	if id.Role == "" {
		id.Role = req.Role
	}
	return &LoginResult{Token: env.Token, User: id}, nil
}

// Verify checks an upstream token and returns its identity.
func (c *Client) Verify(ctx context.Context, token string) (*model.Identity, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.do(ctx, request{
		op:     "verify",
		method: http.MethodGet,
		path:   "/auth/verify",
		token:  token,
	}, &raw); err != nil {
		return nil, err
	}
	var env identityEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &apperrors.ServerError{Status: http.StatusBadGateway, Message: genericServerMessage}
	}
	id := env.identity()
	return &id, nil
}
