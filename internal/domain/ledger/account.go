package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/shared"
)

// AccountStatus represents the status of a ledger account
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

// Account is a ledger account in the chart of accounts. The opening balance is
// signed and debit-positive: a positive value represents a debit-nature
// balance (assets, expenses), a negative value a credit-nature balance
// (liabilities, income, equity).
//
// CurrentBalance is a derived cache refreshed from the balance calculator. It
// is never the source of truth; postings plus the opening balance are.
type Account struct {
	shared.TenantAggregateRoot
	Code           string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_ledger_account_tenant_code,priority:2"`
	Name           string          `gorm:"type:varchar(100);not null"`
	GroupID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status         AccountStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "ledger_accounts"
}

// NewAccount creates a new account under the given group
func NewAccount(tenantID uuid.UUID, code, name string, groupID uuid.UUID, openingBalance decimal.Decimal) (*Account, error) {
	if err := validateAccountCode(code); err != nil {
		return nil, err
	}
	if err := validateAccountName(name); err != nil {
		return nil, err
	}
	if groupID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_GROUP", "Account must belong to a group")
	}

	account := &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		GroupID:             groupID,
		OpeningBalance:      openingBalance,
		CurrentBalance:      openingBalance,
		Status:              AccountStatusActive,
	}
	account.AddDomainEvent(NewAccountCreatedEvent(account))

	return account, nil
}

// Update updates the account's basic information
func (a *Account) Update(name string, groupID uuid.UUID) error {
	if err := validateAccountName(name); err != nil {
		return err
	}
	if groupID == uuid.Nil {
		return shared.NewDomainError("INVALID_GROUP", "Account must belong to a group")
	}

	a.Name = name
	a.GroupID = groupID
	a.touch()
	a.AddDomainEvent(NewAccountUpdatedEvent(a))

	return nil
}

// RefreshBalance updates the derived balance cache from a computed balance
func (a *Account) RefreshBalance(balance decimal.Decimal) {
	if a.CurrentBalance.Equal(balance) {
		return
	}
	a.CurrentBalance = balance
	a.touch()
}

// Deactivate marks the account inactive. Inactive accounts keep their history
// and still participate in reports.
func (a *Account) Deactivate() {
	if a.Status == AccountStatusInactive {
		return
	}
	a.Status = AccountStatusInactive
	a.touch()
	a.AddDomainEvent(NewAccountUpdatedEvent(a))
}

// Activate marks the account active
func (a *Account) Activate() {
	if a.Status == AccountStatusActive {
		return
	}
	a.Status = AccountStatusActive
	a.touch()
	a.AddDomainEvent(NewAccountUpdatedEvent(a))
}

// IsActive returns true if the account is active
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

func (a *Account) touch() {
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

func validateAccountCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Account code is required")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Account code cannot exceed 50 characters")
	}
	return nil
}

func validateAccountName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Account name is required")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Account name cannot exceed 100 characters")
	}
	return nil
}
