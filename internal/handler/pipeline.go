package handler

import (
	"net/http"

	"github.com/fes-crm/clientgate/internal/middleware"
	"github.com/fes-crm/clientgate/internal/model"
	"github.com/fes-crm/clientgate/internal/pkg/apperrors"
	"github.com/fes-crm/clientgate/internal/service"
	"github.com/gin-gonic/gin"
)

type PipelineHandler struct {
	svc *service.PipelineService
}

func NewPipelineHandler(svc *service.PipelineService) *PipelineHandler {
	return &PipelineHandler{svc: svc}
}

// Board handles GET /v1/pipeline.
func (h *PipelineHandler) Board(c *gin.Context) {
	columns, err := h.svc.Board(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stages": columns})
}

// Move handles POST /v1/pipeline/move.
func (h *PipelineHandler) Move(c *gin.Context) {
	var req model.MoveStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest(err.Error()))
		return
	}

	if err := h.svc.Move(c.Request.Context(), req); err != nil {
		c.Error(err)
		return
	}

	middleware.AddAuditContext(c, "action", "move_stage")
	middleware.AddAuditContext(c, "client_id", req.ClientID)
	middleware.AddAuditContext(c, "step", req.StepNumber)

	c.JSON(http.StatusOK, gin.H{"moved": true})
}
