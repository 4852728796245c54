package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jadamsuryateja/feedback-console/internal/dto"
	"github.com/jadamsuryateja/feedback-console/internal/service"
	"github.com/jadamsuryateja/feedback-console/pkg/response"
)

// ActivityHandler audit log endpoints
type ActivityHandler struct {
	activitySvc service.ActivityService
}

// NewActivityHandler creates an ActivityHandler
func NewActivityHandler(activitySvc service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activitySvc: activitySvc}
}

// List configuration changes, newest first
// GET /api/v1/activity
func (h *ActivityHandler) List(c *gin.Context) {
	var req dto.ActivityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	logs, total, err := h.activitySvc.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, logs, total, req.GetPage(), req.GetPageSize())
}
