package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jadamsuryateja/feedback-console/internal/model"
	"github.com/jadamsuryateja/feedback-console/internal/service"
	apperrors "github.com/jadamsuryateja/feedback-console/pkg/errors"
	"github.com/jadamsuryateja/feedback-console/pkg/jwt"
	"github.com/jadamsuryateja/feedback-console/pkg/response"
)

// JWTAuth authenticates the console token and injects the caller.
// The token comes from Authorization: Bearer <token>, or from ?token= for
// WebSocket upgrades where browsers cannot set headers.
func JWTAuth(authSvc service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, 10002, "missing or malformed authorization header")
			c.Abort()
			return
		}

		actor, err := authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortAuth(c, err)
			return
		}
		actor.RequestID = c.GetString(requestIDKey)

		c.Set("actor", actor)
		c.Set("username", actor.Identity.Username)
		c.Set("role", string(actor.Role()))
		c.Set("branch", actor.Identity.Branch)

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if t := c.Query("token"); t != "" {
			return t, true
		}
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func abortAuth(c *gin.Context, err error) {
	var te *apperrors.TransportError
	var se *apperrors.ServerError
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		response.Unauthorized(c, 10002, "token expired")
	case errors.Is(err, jwt.ErrTokenInvalid):
		response.Unauthorized(c, 10002, "invalid token")
	case errors.Is(err, service.ErrTokenRevoked), errors.Is(err, service.ErrSessionExpired):
		response.Unauthorized(c, 10002, err.Error())
	case errors.As(err, &te):
		response.Error(c, http.StatusServiceUnavailable, 19002, "feedback backend unreachable")
	case errors.As(err, &se):
		response.Error(c, http.StatusBadGateway, 19001, se.Message)
	default:
		response.InternalError(c)
	}
	c.Abort()
}

// RoleAuth allows only the given roles through.
func RoleAuth(allowedRoles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, 10002, "not authenticated")
			c.Abort()
			return
		}

		userRole := model.Role(role.(string))
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "access denied")
		c.Abort()
	}
}
