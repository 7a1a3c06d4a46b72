package handler

import (
	"github.com/gin-gonic/gin"

	ledgerapp "github.com/openbooks/backend/internal/application/ledger"
)

// ReportHandler handles financial report API endpoints
type ReportHandler struct {
	BaseHandler
	reportingService *ledgerapp.ReportingService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportingService *ledgerapp.ReportingService) *ReportHandler {
	return &ReportHandler{reportingService: reportingService}
}

// RefreshBalancesResponse reports how many account balances were updated
type RefreshBalancesResponse struct {
	UpdatedAccounts int `json:"updated_accounts"`
}

// GetAccountBalances godoc
// @Summary      Get computed balances for all accounts
// @Description  Balances are derived from opening balances plus postings up
// @Description  to the optional as_of date
// @Tags         reports
// @Produce      json
// @Router       /reports/balances [get]
func (h *ReportHandler) GetAccountBalances(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant context required")
		return
	}

	asOf, err := parseDateQuery(c, "as_of")
	if err != nil {
		h.BadRequest(c, "Invalid as_of date, expected YYYY-MM-DD")
		return
	}

	balances, err := h.reportingService.GetAccountBalances(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balances)
}

// GetTrialBalance godoc
// @Summary      Get the trial balance
// @Description  One row per account with debit and credit columns, never
// @Description  netted. An unbalanced ledger is reported, not corrected.
// @Tags         reports
// @Produce      json
// @Router       /reports/trial-balance [get]
func (h *ReportHandler) GetTrialBalance(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant context required")
		return
	}

	asOf, err := parseDateQuery(c, "as_of")
	if err != nil {
		h.BadRequest(c, "Invalid as_of date, expected YYYY-MM-DD")
		return
	}

	report, err := h.reportingService.GetTrialBalance(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// GetBalanceSheet godoc
// @Summary      Get the balance sheet
// @Tags         reports
// @Produce      json
// @Router       /reports/balance-sheet [get]
func (h *ReportHandler) GetBalanceSheet(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant context required")
		return
	}

	asOf, err := parseDateQuery(c, "as_of")
	if err != nil {
		h.BadRequest(c, "Invalid as_of date, expected YYYY-MM-DD")
		return
	}

	report, err := h.reportingService.GetBalanceSheet(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// GetProfitAndLoss godoc
// @Summary      Get the profit and loss statement
// @Description  The period is inclusive on both ends
// @Tags         reports
// @Produce      json
// @Router       /reports/profit-and-loss [get]
func (h *ReportHandler) GetProfitAndLoss(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant context required")
		return
	}

	start, err := parseDateQuery(c, "start")
	if err != nil {
		h.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
		return
	}
	end, err := parseDateQuery(c, "end")
	if err != nil {
		h.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
		return
	}

	report, err := h.reportingService.GetProfitAndLoss(c.Request.Context(), tenantID, start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// RefreshBalances godoc
// @Summary      Refresh persisted account balances
// @Description  Recomputes every account balance from postings and persists
// @Description  the accounts whose stored balance drifted
// @Tags         reports
// @Produce      json
// @Router       /reports/refresh-balances [post]
func (h *ReportHandler) RefreshBalances(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant context required")
		return
	}

	asOf, err := parseDateQuery(c, "as_of")
	if err != nil {
		h.BadRequest(c, "Invalid as_of date, expected YYYY-MM-DD")
		return
	}

	updated, err := h.reportingService.RefreshBalanceCache(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, RefreshBalancesResponse{UpdatedAccounts: updated})
}

// RegisterRoutes registers all report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/balances", h.GetAccountBalances)
		reports.GET("/trial-balance", h.GetTrialBalance)
		reports.GET("/balance-sheet", h.GetBalanceSheet)
		reports.GET("/profit-and-loss", h.GetProfitAndLoss)
		reports.POST("/refresh-balances", h.RefreshBalances)
	}
}
