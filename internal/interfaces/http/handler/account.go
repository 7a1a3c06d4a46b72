package handler

import (
	"github.com/gin-gonic/gin"

	ledgerapp "github.com/openbooks/backend/internal/application/ledger"
)

// AccountHandler handles ledger account API endpoints
type AccountHandler struct {
	BaseHandler
	chartService *ledgerapp.ChartService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(chartService *ledgerapp.ChartService) *AccountHandler {
	return &AccountHandler{chartService: chartService}
}

// CreateAccount godoc
// @Summary      Create a ledger account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Router       /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant context required")
		return
	}

	var req ledgerapp.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	account, err := h.chartService.CreateAccount(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, account)
}

// GetAccount godoc
// @Summary      Get a ledger account by ID
// @Tags         accounts
// @Produce      json
// @Router       /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant context required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	account, err := h.chartService.GetAccount(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// ListAccounts godoc
// @Summary      List ledger accounts with search and paging
// @Tags         accounts
// @Produce      json
// @Router       /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant context required")
		return
	}

	var filter ledgerapp.AccountListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	accounts, total, err := h.chartService.ListAccounts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, accounts, total, filter.Page, filter.PageSize)
}

// UpdateAccount godoc
// @Summary      Update a ledger account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Router       /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant context required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req ledgerapp.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	account, err := h.chartService.UpdateAccount(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// DeactivateAccount godoc
// @Summary      Deactivate a ledger account
// @Tags         accounts
// @Router       /accounts/{id}/deactivate [post]
func (h *AccountHandler) DeactivateAccount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant context required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.chartService.DeactivateAccount(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// DeleteAccount godoc
// @Summary      Delete a ledger account without postings
// @Tags         accounts
// @Router       /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant context required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.chartService.DeleteAccount(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers all ledger account routes
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.CreateAccount)
		accounts.GET("", h.ListAccounts)
		accounts.GET("/:id", h.GetAccount)
		accounts.PUT("/:id", h.UpdateAccount)
		accounts.POST("/:id/deactivate", h.DeactivateAccount)
		accounts.DELETE("/:id", h.DeleteAccount)
	}
}
