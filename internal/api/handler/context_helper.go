package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jadamsuryateja/feedback-console/internal/service"
	"github.com/jadamsuryateja/feedback-console/pkg/response"
)

// MustGetActor extracts the caller injected by JWTAuth.
// On failure it writes a 401 and returns false; callers return immediately.
func MustGetActor(c *gin.Context) (*service.Actor, bool) {
	v, exists := c.Get("actor")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	actor, ok := v.(*service.Actor)
	if !ok || actor == nil {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	return actor, true
}
