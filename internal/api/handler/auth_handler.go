package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jadamsuryateja/feedback-console/internal/dto"
	"github.com/jadamsuryateja/feedback-console/internal/service"
	"github.com/jadamsuryateja/feedback-console/pkg/response"
)

// AuthHandler sign-in endpoints
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login signs in through the upstream
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout ends the console session and closes its sockets
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), actor); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, nil)
}

// Me returns the signed-in identity
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	response.OK(c, dto.NewUserResponse(actor.Identity))
}
