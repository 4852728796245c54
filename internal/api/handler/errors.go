package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jadamsuryateja/feedback-console/internal/service"
	"github.com/jadamsuryateja/feedback-console/internal/validate"
	apperrors "github.com/jadamsuryateja/feedback-console/pkg/errors"
	"github.com/jadamsuryateja/feedback-console/pkg/response"
)

// respondError maps service and upstream errors onto the response envelope.
func respondError(c *gin.Context, err error) {
	var (
		ve  *apperrors.ValidationError
		dup *apperrors.DuplicateIdentityError
		se  *apperrors.ServerError
		te  *apperrors.TransportError
	)
	switch {
	case errors.As(err, &ve):
		response.Unprocessable(c, 12001, ve.Message, validate.FieldMessage{Field: ve.Field, Message: ve.Message})
	case errors.As(err, &dup):
		response.Conflict(c, 12002, dup.Error())
	case errors.Is(err, service.ErrSubmissionInProgress):
		response.Conflict(c, 12004, err.Error())
	case errors.Is(err, service.ErrConfigNotFound), errors.Is(err, apperrors.ErrNotFound):
		response.NotFound(c, 12003, "configuration not found")
	case errors.Is(err, service.ErrMissingSummaryFilters),
		errors.Is(err, service.ErrBranchRequired),
		errors.Is(err, service.ErrBSHBranchRequired):
		response.BadRequest(c, 13001, err.Error())
	case errors.Is(err, service.ErrEmptySubmission):
		response.BadRequest(c, 10001, err.Error())
	case errors.Is(err, service.ErrNoFeedbackData):
		response.NotFound(c, 13002, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, 10002, err.Error())
	case errors.Is(err, apperrors.ErrAuthentication):
		response.Unauthorized(c, 10002, "upstream session rejected, please sign in again")
	case errors.As(err, &se):
		response.Error(c, http.StatusBadGateway, 19001, se.Message)
	case errors.As(err, &te):
		response.Error(c, http.StatusServiceUnavailable, 19002, "feedback backend unreachable")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// respondBindError answers a failed ShouldBind*.
func respondBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "request body too large")
		return
	}
	if msgs := validate.Messages(err); len(msgs) > 0 {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, msgs[0].Message, msgs)
		return
	}
	response.BadRequest(c, 10001, "invalid request parameters")
}
