package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/jadamsuryateja/feedback-console/internal/dto"
	"github.com/jadamsuryateja/feedback-console/internal/service"
	"github.com/jadamsuryateja/feedback-console/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FeedbackHandler feedback endpoints
type FeedbackHandler struct {
	feedbackSvc service.FeedbackService
}

// NewFeedbackHandler creates a FeedbackHandler
func NewFeedbackHandler(feedbackSvc service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackSvc: feedbackSvc}
}

// Summary per-subject scores with overall percentage
// GET /api/v1/feedback/summary
func (h *FeedbackHandler) Summary(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var q dto.SummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.feedbackSvc.Summary(c.Request.Context(), actor, &q)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, res)
}

// Responses raw student responses
// GET /api/v1/feedback/responses
func (h *FeedbackHandler) Responses(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var q dto.SummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.feedbackSvc.Responses(c.Request.Context(), actor, &q)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, res)
}

// Submit forwards a student response; no sign-in needed
// POST /api/v1/feedback/submit
func (h *FeedbackHandler) Submit(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondBindError(c, err)
		return
	}
	if !json.Valid(body) {
		response.BadRequest(c, 10001, "invalid JSON body")
		return
	}

	res, err := h.feedbackSvc.Submit(c.Request.Context(), body)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, res)
}

// Report printable xlsx report
// GET /api/v1/feedback/report
func (h *FeedbackHandler) Report(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var q dto.SummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	file, err := h.feedbackSvc.Report(c.Request.Context(), actor, &q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(file.Name))
	c.Data(http.StatusOK, xlsxContentType, file.Content.Bytes())
}
