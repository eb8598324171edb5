package handler

import (
	"net/http"

	"github.com/fes-crm/clientgate/internal/model"
	"github.com/fes-crm/clientgate/internal/pkg/apperrors"
	"github.com/fes-crm/clientgate/internal/service"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	svc *service.ProfileService
}

func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// Get handles GET /v1/profile. A caller without a stored profile gets null
// rather than 404; the UI treats that as "fill in your profile".
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.svc.Get(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// Save handles PUT /v1/profile.
func (h *ProfileHandler) Save(c *gin.Context) {
	var profile model.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.Error(apperrors.NewInvalidRequest(err.Error()))
		return
	}

	if err := h.svc.Save(c.Request.Context(), profile); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}
