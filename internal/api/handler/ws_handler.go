package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jadamsuryateja/feedback-console/internal/model"
)

// SocketServer serves authenticated live-update connections. *notify.Hub
// implements it.
type SocketServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, id model.Identity, sessionID string) error
}

// WSHandler live-update socket endpoint
type WSHandler struct {
	hub SocketServer
}

// NewWSHandler creates a WSHandler
func NewWSHandler(hub SocketServer) *WSHandler {
	return &WSHandler{hub: hub}
}

// Serve upgrades to a WebSocket. The upgrader writes its own error response.
// GET /api/v1/ws?token=
func (h *WSHandler) Serve(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	if err := h.hub.ServeWS(c.Writer, c.Request, actor.Identity, actor.SessionID); err != nil {
		_ = c.Error(err)
	}
}
