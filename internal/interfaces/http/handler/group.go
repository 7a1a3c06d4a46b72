package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/openbooks/backend/internal/application/ledger"
)

// GroupHandler handles account group API endpoints
type GroupHandler struct {
	BaseHandler
	chartService *ledgerapp.ChartService
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(chartService *ledgerapp.ChartService) *GroupHandler {
	return &GroupHandler{chartService: chartService}
}

// MoveGroupRequest re-parents a group. A null parent makes it a root group.
type MoveGroupRequest struct {
	ParentID *uuid.UUID `json:"parent_id"`
}

// CreateGroup godoc
// @Summary      Create an account group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Router       /groups [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant context required")
		return
	}

	var req ledgerapp.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	group, err := h.chartService.CreateGroup(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, group)
}

// GetGroup godoc
// @Summary      Get an account group by ID
// @Tags         groups
// @Produce      json
// @Router       /groups/{id} [get]
func (h *GroupHandler) GetGroup(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant context required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	group, err := h.chartService.GetGroup(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// ListGroups godoc
// @Summary      List account groups with hierarchy depth
// @Tags         groups
// @Produce      json
// @Router       /groups [get]
func (h *GroupHandler) ListGroups(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant context required")
		return
	}

	groups, err := h.chartService.ListGroups(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, groups)
}

// UpdateGroup godoc
// @Summary      Update an account group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Router       /groups/{id} [put]
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant context required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	var req ledgerapp.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	group, err := h.chartService.UpdateGroup(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// MoveGroup godoc
// @Summary      Move a group under a new parent
// @Tags         groups
// @Accept       json
// @Produce      json
// @Router       /groups/{id}/move [post]
func (h *GroupHandler) MoveGroup(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant context required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	var req MoveGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	group, err := h.chartService.MoveGroup(c.Request.Context(), tenantID, id, req.ParentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// DeleteGroup godoc
// @Summary      Delete an empty account group
// @Tags         groups
// @Router       /groups/{id} [delete]
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant context required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	if err := h.chartService.DeleteGroup(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// DeactivateGroup godoc
// @Summary      Deactivate an account group
// @Tags         groups
// @Router       /groups/{id}/deactivate [post]
func (h *GroupHandler) DeactivateGroup(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant context required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	if err := h.chartService.DeactivateGroup(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers all account group routes
func (h *GroupHandler) RegisterRoutes(rg *gin.RouterGroup) {
	groups := rg.Group("/groups")
	{
		groups.POST("", h.CreateGroup)
		groups.GET("", h.ListGroups)
		groups.GET("/:id", h.GetGroup)
		groups.PUT("/:id", h.UpdateGroup)
		groups.POST("/:id/move", h.MoveGroup)
		groups.POST("/:id/deactivate", h.DeactivateGroup)
		groups.DELETE("/:id", h.DeleteGroup)
	}
}
