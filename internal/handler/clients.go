package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fes-crm/clientgate/internal/export"
	"github.com/fes-crm/clientgate/internal/middleware"
	"github.com/fes-crm/clientgate/internal/model"
	"github.com/fes-crm/clientgate/internal/pkg/apperrors"
	"github.com/fes-crm/clientgate/internal/reconcile"
	"github.com/fes-crm/clientgate/internal/service"
	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	svc *service.ClientService
}

func NewClientHandler(svc *service.ClientService) *ClientHandler {
	return &ClientHandler{svc: svc}
}

// List handles GET /v1/clients?q=&sort=&order=
func (h *ClientHandler) List(c *gin.Context) {
	sortField := reconcile.SortField(c.DefaultQuery("sort", string(reconcile.SortByName)))
	descending := c.Query("order") == "desc"

	clients, err := h.svc.ListClients(c.Request.Context(), c.Query("q"), sortField, descending)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients, "count": len(clients)})
}

// Create handles POST /v1/clients.
func (h *ClientHandler) Create(c *gin.Context) {
	var req model.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest(err.Error()))
		return
	}

	result, err := h.svc.CreateClient(c.Request.Context(), req, middleware.Principal(c))
	if err != nil {
		c.Error(err)
		return
	}

	middleware.AddAuditContext(c, "action", "create_client")
	middleware.AddAuditContext(c, "client_id", result.ID)
	if result.Fallback {
		middleware.AddAuditContext(c, "fallback", true)
	}

	c.JSON(http.StatusCreated, result)
}

// Get handles GET /v1/clients/:id.
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}

	view, err := h.svc.GetClient(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Update handles PUT /v1/clients/:id with a full record.
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}

	var record model.ClientRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.Error(apperrors.NewInvalidRequest(err.Error()))
		return
	}

	fallback, err := h.svc.UpdateClient(c.Request.Context(), id, record)
	if err != nil {
		c.Error(err)
		return
	}

	middleware.AddAuditContext(c, "action", "update_client")
	middleware.AddAuditContext(c, "client_id", id)

	c.JSON(http.StatusOK, gin.H{"fallback": fallback})
}

// PatchOverview handles PATCH /v1/clients/:id/overview.
func (h *ClientHandler) PatchOverview(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}

	var patch model.OverviewPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(apperrors.NewInvalidRequest(err.Error()))
		return
	}
	if len(patch) == 0 {
		c.Error(apperrors.NewInvalidRequest("empty patch"))
		return
	}

	fallback, err := h.svc.SaveOverview(c.Request.Context(), id, patch, middleware.Principal(c), c.ClientIP())
	if err != nil {
		c.Error(err)
		return
	}

	middleware.AddAuditContext(c, "action", "patch_overview")
	middleware.AddAuditContext(c, "client_id", id)

	c.JSON(http.StatusOK, gin.H{"fallback": fallback})
}

// Delete handles DELETE /v1/clients/:id.
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteClient(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	middleware.AddAuditContext(c, "action", "delete_client")
	middleware.AddAuditContext(c, "client_id", id)

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Activity handles GET /v1/clients/:id/activity.
func (h *ClientHandler) Activity(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}

	entries, err := h.svc.ActivityLog(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// AppendActivity handles POST /v1/clients/:id/activity.
func (h *ClientHandler) AppendActivity(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}

	var req model.ActivityAppendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest(err.Error()))
		return
	}

	if err := h.svc.AppendActivity(c.Request.Context(), id, req.Entries, middleware.Principal(c), c.ClientIP()); err != nil {
		c.Error(apperrors.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"appended": len(req.Entries)})
}

// Detail handles GET /v1/clients/:id/detail.
func (h *ClientHandler) Detail(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.svc.Detail(id))
}

// Export handles GET /v1/clients/:id/export: the print-ready profile
// document, with the suggested filename in Content-Disposition.
func (h *ClientHandler) Export(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}

	view, err := h.svc.GetClient(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	now := time.Now()
	doc, err := export.Render(&view.Client, h.svc.Detail(id), now)
	if err != nil {
		c.Error(apperrors.Wrap(err))
		return
	}

	middleware.AddAuditContext(c, "action", "export_profile")
	middleware.AddAuditContext(c, "client_id", id)

	c.Header("Content-Disposition", `inline; filename="`+export.Filename(&view.Client, now)+`"`)
	c.Data(http.StatusOK, "text/html; charset=utf-8", doc)
}

// Dashboard handles GET /v1/dashboard.
func (h *ClientHandler) Dashboard(c *gin.Context) {
	stats, err := h.svc.DashboardStats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func clientID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.Error(apperrors.NewInvalidRequest("invalid client id"))
		return 0, false
	}
	return id, true
}
