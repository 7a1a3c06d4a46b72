package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/ledger"
)

// CreateGroupRequest represents a request to create an account group
type CreateGroupRequest struct {
	Code        string     `json:"code" binding:"required,min=1,max=50"`
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	AccountType string     `json:"account_type" binding:"omitempty,oneof=asset liability income expense equity"`
	ParentID    *uuid.UUID `json:"parent_id"`
	SortOrder   *int       `json:"sort_order"`
}

// UpdateGroupRequest represents a request to update an account group
type UpdateGroupRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=100"`
	SortOrder *int    `json:"sort_order"`
}

// GroupResponse represents an account group in API responses
type GroupResponse struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	AccountType string     `json:"account_type"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	SortOrder   int        `json:"sort_order"`
	Status      string     `json:"status"`
	Depth       int        `json:"depth"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToGroupResponse maps a group aggregate to its response form
func ToGroupResponse(g *ledger.Group, depth int) *GroupResponse {
	return &GroupResponse{
		ID:          g.ID,
		Code:        g.Code,
		Name:        g.Name,
		AccountType: g.AccountType.String(),
		ParentID:    g.ParentID,
		SortOrder:   g.SortOrder,
		Status:      string(g.Status),
		Depth:       depth,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// CreateAccountRequest represents a request to create a ledger account
type CreateAccountRequest struct {
	Code           string           `json:"code" binding:"required,min=1,max=50"`
	Name           string           `json:"name" binding:"required,min=1,max=100"`
	GroupID        uuid.UUID        `json:"group_id" binding:"required"`
	OpeningBalance *decimal.Decimal `json:"opening_balance"`
}

// UpdateAccountRequest represents a request to update a ledger account
type UpdateAccountRequest struct {
	Name    *string    `json:"name" binding:"omitempty,min=1,max=100"`
	GroupID *uuid.UUID `json:"group_id"`
}

// AccountResponse represents a ledger account in API responses
type AccountResponse struct {
	ID             uuid.UUID       `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	GroupID        uuid.UUID       `json:"group_id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToAccountResponse maps an account aggregate to its response form
func ToAccountResponse(a *ledger.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Code:           a.Code,
		Name:           a.Name,
		GroupID:        a.GroupID,
		OpeningBalance: a.OpeningBalance,
		CurrentBalance: a.CurrentBalance,
		Status:         string(a.Status),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountListFilter represents filter options for the account list
type AccountListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// JournalLineRequest is one leg of a journal entry
type JournalLineRequest struct {
	AccountID uuid.UUID       `json:"account_id" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// RecordJournalEntryRequest represents a balanced journal entry to record
type RecordJournalEntryRequest struct {
	Date       time.Time            `json:"date" binding:"required"`
	Reference  string               `json:"reference" binding:"max=100"`
	SourceType string               `json:"source_type" binding:"max=50"`
	Lines      []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// JournalEntryResponse summarizes a recorded journal entry
type JournalEntryResponse struct {
	Reference    string          `json:"reference"`
	Date         time.Time       `json:"date"`
	PostingCount int             `json:"posting_count"`
	TotalDebit   decimal.Decimal `json:"total_debit"`
	TotalCredit  decimal.Decimal `json:"total_credit"`
	PostingIDs   []uuid.UUID     `json:"posting_ids"`
}

// PostingResponse represents a posting in API responses
type PostingResponse struct {
	ID         uuid.UUID       `json:"id"`
	AccountID  uuid.UUID       `json:"account_id"`
	Date       time.Time       `json:"date"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Reference  string          `json:"reference"`
	SourceType string          `json:"source_type"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToPostingResponse maps a posting to its response form
func ToPostingResponse(p *ledger.Posting) *PostingResponse {
	return &PostingResponse{
		ID:         p.ID,
		AccountID:  p.AccountID,
		Date:       p.Date,
		Debit:      p.Debit,
		Credit:     p.Credit,
		Reference:  p.Reference,
		SourceType: p.SourceType,
		CreatedAt:  p.CreatedAt,
	}
}

// AccountBalanceResponse is the computed balance for one account
type AccountBalanceResponse struct {
	AccountID      uuid.UUID       `json:"account_id"`
	AccountCode    string          `json:"account_code"`
	DebitTotal     decimal.Decimal `json:"debit_total"`
	CreditTotal    decimal.Decimal `json:"credit_total"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}
