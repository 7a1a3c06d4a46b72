package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/shared"
)

// Event types for the ledger domain
const (
	EventTypeGroupCreated     = "ledger.group.created"
	EventTypeGroupUpdated     = "ledger.group.updated"
	EventTypeAccountCreated   = "ledger.account.created"
	EventTypeAccountUpdated   = "ledger.account.updated"
	EventTypePostingsRecorded = "ledger.postings.recorded"
)

// GroupCreatedEvent is raised when a new account group is created
type GroupCreatedEvent struct {
	shared.BaseDomainEvent
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"account_type"`
	ParentID    *uuid.UUID  `json:"parent_id,omitempty"`
}

// NewGroupCreatedEvent creates a new GroupCreatedEvent
func NewGroupCreatedEvent(g *Group) *GroupCreatedEvent {
	return &GroupCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGroupCreated, "Group", g.ID, g.TenantID),
		Code:            g.Code,
		Name:            g.Name,
		AccountType:     g.AccountType,
		ParentID:        g.ParentID,
	}
}

// GroupUpdatedEvent is raised when an account group changes
type GroupUpdatedEvent struct {
	shared.BaseDomainEvent
	Code   string      `json:"code"`
	Name   string      `json:"name"`
	Status GroupStatus `json:"status"`
}

// NewGroupUpdatedEvent creates a new GroupUpdatedEvent
func NewGroupUpdatedEvent(g *Group) *GroupUpdatedEvent {
	return &GroupUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGroupUpdated, "Group", g.ID, g.TenantID),
		Code:            g.Code,
		Name:            g.Name,
		Status:          g.Status,
	}
}

// AccountCreatedEvent is raised when a new account is created
type AccountCreatedEvent struct {
	shared.BaseDomainEvent
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	GroupID        uuid.UUID       `json:"group_id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// NewAccountCreatedEvent creates a new AccountCreatedEvent
func NewAccountCreatedEvent(a *Account) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountCreated, "Account", a.ID, a.TenantID),
		Code:            a.Code,
		Name:            a.Name,
		GroupID:         a.GroupID,
		OpeningBalance:  a.OpeningBalance,
	}
}

// AccountUpdatedEvent is raised when an account changes
type AccountUpdatedEvent struct {
	shared.BaseDomainEvent
	Code   string        `json:"code"`
	Name   string        `json:"name"`
	Status AccountStatus `json:"status"`
}

// NewAccountUpdatedEvent creates a new AccountUpdatedEvent
func NewAccountUpdatedEvent(a *Account) *AccountUpdatedEvent {
	return &AccountUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountUpdated, "Account", a.ID, a.TenantID),
		Code:            a.Code,
		Name:            a.Name,
		Status:          a.Status,
	}
}

// PostingsRecordedEvent is raised when a balanced journal entry is recorded.
// Report caches key their invalidation off this event.
type PostingsRecordedEvent struct {
	shared.BaseDomainEvent
	Reference    string          `json:"reference"`
	PostingCount int             `json:"posting_count"`
	TotalDebit   decimal.Decimal `json:"total_debit"`
	TotalCredit  decimal.Decimal `json:"total_credit"`
	EntryDate    time.Time       `json:"entry_date"`
}

// NewPostingsRecordedEvent creates a new PostingsRecordedEvent
func NewPostingsRecordedEvent(tenantID uuid.UUID, reference string, postings []Posting) *PostingsRecordedEvent {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	var entryDate time.Time
	for i := range postings {
		totalDebit = totalDebit.Add(postings[i].Debit)
		totalCredit = totalCredit.Add(postings[i].Credit)
		entryDate = postings[i].Date
	}

	return &PostingsRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePostingsRecorded, "Posting", uuid.New(), tenantID),
		Reference:       reference,
		PostingCount:    len(postings),
		TotalDebit:      totalDebit,
		TotalCredit:     totalCredit,
		EntryDate:       entryDate,
	}
}
