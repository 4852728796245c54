package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jadamsuryateja/feedback-console/internal/dto"
	"github.com/jadamsuryateja/feedback-console/internal/service"
	"github.com/jadamsuryateja/feedback-console/pkg/response"
)

// ConfigHandler configuration endpoints
type ConfigHandler struct {
	configSvc service.ConfigService
}

// NewConfigHandler creates a ConfigHandler
func NewConfigHandler(configSvc service.ConfigService) *ConfigHandler {
	return &ConfigHandler{configSvc: configSvc}
}

// Validate advisory per-field checks for the editing form
// POST /api/v1/configs/validate
func (h *ConfigHandler) Validate(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.ConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	response.OK(c, h.configSvc.Validate(actor, &req))
}

// List configurations matching the filters
// GET /api/v1/configs
func (h *ConfigHandler) List(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var q dto.ConfigListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	configs, err := h.configSvc.List(c.Request.Context(), actor, &q)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, configs)
}

// GetByTitle one configuration by its unique title
// GET /api/v1/configs/title/:title
func (h *ConfigHandler) GetByTitle(c *gin.Context) {
	cfg, err := h.configSvc.GetByTitle(c.Request.Context(), c.Param("title"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, cfg)
}

// Create a configuration
// POST /api/v1/configs
func (h *ConfigHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.ConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cfg, err := h.configSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, cfg)
}

// Update a configuration
// PUT /api/v1/configs/:id
func (h *ConfigHandler) Update(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.ConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cfg, err := h.configSvc.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, cfg)
}

// Delete a configuration; requires ?confirm=true
// DELETE /api/v1/configs/:id
func (h *ConfigHandler) Delete(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var q dto.DeleteConfigQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	if !q.Confirm {
		response.BadRequest(c, 10001, service.ErrDeleteNotConfirmed.Error())
		return
	}

	if err := h.configSvc.Delete(c.Request.Context(), actor, c.Param("id"), q.Branch); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, nil)
}
