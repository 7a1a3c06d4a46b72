package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/shared"
)

// Posting is a single dated debit or credit entry against one account.
// Postings are immutable once recorded; balances are always derived from
// them, never stored as an independent source of truth.
type Posting struct {
	shared.BaseEntity
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date       time.Time       `gorm:"not null;index"`
	Debit      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Credit     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Reference  string          `gorm:"type:varchar(100)"`
	SourceType string          `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (Posting) TableName() string {
	return "ledger_postings"
}

// NewDebitPosting creates a posting on the debit side
func NewDebitPosting(tenantID, accountID uuid.UUID, date time.Time, amount decimal.Decimal, reference, sourceType string) (*Posting, error) {
	return newPosting(tenantID, accountID, date, amount, decimal.Zero, reference, sourceType)
}

// NewCreditPosting creates a posting on the credit side
func NewCreditPosting(tenantID, accountID uuid.UUID, date time.Time, amount decimal.Decimal, reference, sourceType string) (*Posting, error) {
	return newPosting(tenantID, accountID, date, decimal.Zero, amount, reference, sourceType)
}

func newPosting(tenantID, accountID uuid.UUID, date time.Time, debit, credit decimal.Decimal, reference, sourceType string) (*Posting, error) {
	p := &Posting{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		AccountID:  accountID,
		Date:       date,
		Debit:      debit,
		Credit:     credit,
		Reference:  reference,
		SourceType: sourceType,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that the posting is a well-formed single-sided entry
func (p *Posting) Validate() error {
	if p.AccountID == uuid.Nil {
		return NewInvalidReferenceError("posting has no account reference")
	}
	if p.Debit.IsNegative() || p.Credit.IsNegative() {
		return NewInconsistentPostingError(p.ID, "debit and credit amounts cannot be negative")
	}
	hasDebit := !p.Debit.IsZero()
	hasCredit := !p.Credit.IsZero()
	if hasDebit == hasCredit {
		return NewInconsistentPostingError(p.ID, "posting must have exactly one of debit or credit")
	}
	if p.Date.IsZero() {
		return NewInconsistentPostingError(p.ID, "posting date is required")
	}
	return nil
}

// Amount returns the posting amount regardless of side
func (p *Posting) Amount() decimal.Decimal {
	if !p.Debit.IsZero() {
		return p.Debit
	}
	return p.Credit
}

// IsDebit returns true if the posting is on the debit side
func (p *Posting) IsDebit() bool {
	return !p.Debit.IsZero()
}
