package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	ledgerapp "github.com/openbooks/backend/internal/application/ledger"
)

// dateLayout is the wire format for date-only query parameters
const dateLayout = "2006-01-02"

// parseDateQuery parses an optional date query parameter. A missing parameter
// yields the zero time, which the services treat as an open bound.
func parseDateQuery(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, raw)
}

// JournalHandler handles journal entry API endpoints
type JournalHandler struct {
	BaseHandler
	journalService *ledgerapp.JournalService
}

// NewJournalHandler creates a new JournalHandler
func NewJournalHandler(journalService *ledgerapp.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

// RecordEntry godoc
// @Summary      Record a balanced journal entry
// @Description  Accepts a set of debit and credit lines that must balance
// @Tags         journal
// @Accept       json
// @Produce      json
// @Router       /journal-entries [post]
func (h *JournalHandler) RecordEntry(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant context required")
		return
	}

	var req ledgerapp.RecordJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	entry, err := h.journalService.RecordEntry(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entry)
}

// ListAccountPostings godoc
// @Summary      List postings for an account
// @Description  Optional from/to date parameters bound the period inclusively
// @Tags         journal
// @Produce      json
// @Router       /accounts/{id}/postings [get]
func (h *JournalHandler) ListAccountPostings(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant context required")
		return
	}

	accountID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	from, err := parseDateQuery(c, "from")
	if err != nil {
		h.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		h.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
		return
	}

	postings, err := h.journalService.ListAccountPostings(c.Request.Context(), tenantID, accountID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, postings)
}

// RegisterRoutes registers all journal routes
func (h *JournalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/journal-entries", h.RecordEntry)
	rg.GET("/accounts/:id/postings", h.ListAccountPostings)
}
