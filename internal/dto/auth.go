package dto

import "github.com/jadamsuryateja/feedback-console/internal/model"

// ── auth ──

// LoginRequest console login, forwarded to the upstream
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"     binding:"required,oneof=admin coordinator bsh"`
}

// UserResponse the signed-in identity
type UserResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Branch   string `json:"branch,omitempty"`
}

// LoginResponse console session token plus identity
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"`
	User        UserResponse `json:"user"`
}

// NewUserResponse converts an identity for output.
func NewUserResponse(id model.Identity) UserResponse {
	return UserResponse{
		Username: id.Username,
		Role:     string(id.Role),
		Branch:   id.Branch,
	}
}
