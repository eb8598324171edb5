package handler

import (
	"net/http"

	"github.com/fes-crm/clientgate/internal/middleware"
	"github.com/fes-crm/clientgate/internal/model"
	"github.com/fes-crm/clientgate/internal/pkg/apperrors"
	"github.com/fes-crm/clientgate/internal/service"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	svc *service.AdminService
}

func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// List handles GET /v1/admins.
func (h *AdminHandler) List(c *gin.Context) {
	entries, err := h.svc.Entries(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admins": entries})
}

// Me handles GET /v1/admins/me.
func (h *AdminHandler) Me(c *gin.Context) {
	entry, err := h.svc.CallerEntry(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	if entry == nil {
		c.JSON(http.StatusOK, gin.H{"admin": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": entry})
}

// Add handles POST /v1/admins.
func (h *AdminHandler) Add(c *gin.Context) {
	var req model.AddAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest(err.Error()))
		return
	}

	if err := h.svc.AddStaff(c.Request.Context(), req); err != nil {
		c.Error(err)
		return
	}

	middleware.AddAuditContext(c, "action", "add_admin")
	middleware.AddAuditContext(c, "admin_principal", req.Principal)

	c.JSON(http.StatusCreated, gin.H{"added": req.Principal})
}

// Remove handles DELETE /v1/admins/:principal.
func (h *AdminHandler) Remove(c *gin.Context) {
	principal := c.Param("principal")
	if principal == "" {
		c.Error(apperrors.NewInvalidRequest("missing principal"))
		return
	}

	if err := h.svc.RemoveStaff(c.Request.Context(), principal); err != nil {
		c.Error(err)
		return
	}

	middleware.AddAuditContext(c, "action", "remove_admin")
	middleware.AddAuditContext(c, "admin_principal", principal)

	c.JSON(http.StatusOK, gin.H{"removed": principal})
}
