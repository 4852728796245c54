package handler

import "github.com/jadamsuryateja/feedback-console/internal/service"

// Handler aggregate entry point of every handler
type Handler struct {
	Auth     *AuthHandler
	Config   *ConfigHandler
	Feedback *FeedbackHandler
	Activity *ActivityHandler
	WS       *WSHandler
}

// NewHandler creates the Handler aggregate
func NewHandler(svc *service.Service, hub SocketServer) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		Config:   NewConfigHandler(svc.Config),
		Feedback: NewFeedbackHandler(svc.Feedback),
		Activity: NewActivityHandler(svc.Activity),
		WS:       NewWSHandler(hub),
	}
}
