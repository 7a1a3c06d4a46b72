package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/shared"
)

// AccountType classifies an account group by its accounting nature
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
	AccountTypeEquity    AccountType = "equity"
)

// IsValid checks if the account type is a known value
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeIncome, AccountTypeExpense, AccountTypeEquity:
		return true
	}
	return false
}

// String returns the string representation
func (t AccountType) String() string {
	return string(t)
}

// IsBalanceSheetType returns true for types that appear on the balance sheet
func (t AccountType) IsBalanceSheetType() bool {
	return t == AccountTypeAsset || t == AccountTypeLiability || t == AccountTypeEquity
}

// IsProfitAndLossType returns true for types that appear on the profit and loss statement
func (t AccountType) IsProfitAndLossType() bool {
	return t == AccountTypeIncome || t == AccountTypeExpense
}

// GroupStatus represents the status of an account group
type GroupStatus string

const (
	GroupStatusActive   GroupStatus = "active"
	GroupStatusInactive GroupStatus = "inactive"
)

// Group is a hierarchical category (e.g. "Current Assets") that classifies
// accounts by nature. A root group declares an account type; a child group may
// omit it, in which case reporting resolves the type from the nearest ancestor
// that declares one. Mixed-type hierarchies are tolerated by the reporting
// core; write-time validation only rejects cycles and unknown parents.
type Group struct {
	shared.TenantAggregateRoot
	Code        string      `gorm:"type:varchar(50);not null;uniqueIndex:idx_ledger_group_tenant_code,priority:2"`
	Name        string      `gorm:"type:varchar(100);not null"`
	AccountType AccountType `gorm:"type:varchar(20)"`
	ParentID    *uuid.UUID  `gorm:"type:uuid;index"`
	SortOrder   int         `gorm:"not null;default:0"`
	Status      GroupStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Group) TableName() string {
	return "account_groups"
}

// NewGroup creates a new root group. Root groups must declare an account type
// because they anchor classification for their whole subtree.
func NewGroup(tenantID uuid.UUID, code, name string, accountType AccountType) (*Group, error) {
	if err := validateGroupCode(code); err != nil {
		return nil, err
	}
	if err := validateGroupName(name); err != nil {
		return nil, err
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Account type must be one of asset, liability, income, expense, equity")
	}

	group := &Group{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		AccountType:         accountType,
		Status:              GroupStatusActive,
	}
	group.AddDomainEvent(NewGroupCreatedEvent(group))

	return group, nil
}

// NewChildGroup creates a new group under a parent. The account type is
// optional; when empty the group inherits its classification from the parent
// chain at reporting time.
func NewChildGroup(tenantID uuid.UUID, code, name string, accountType AccountType, parent *Group) (*Group, error) {
	if parent == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent group is required")
	}
	if err := validateGroupCode(code); err != nil {
		return nil, err
	}
	if err := validateGroupName(name); err != nil {
		return nil, err
	}
	if accountType != "" && !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Account type must be one of asset, liability, income, expense, equity")
	}

	group := &Group{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		AccountType:         accountType,
		ParentID:            &parent.ID,
		Status:              GroupStatusActive,
	}
	group.AddDomainEvent(NewGroupCreatedEvent(group))

	return group, nil
}

// Update updates the group's basic information
func (g *Group) Update(name string, sortOrder int) error {
	if err := validateGroupName(name); err != nil {
		return err
	}

	g.Name = name
	g.SortOrder = sortOrder
	g.touch()
	g.AddDomainEvent(NewGroupUpdatedEvent(g))

	return nil
}

// Reparent moves the group under a new parent. Cycle detection against the
// full group set is the responsibility of the application service; the
// aggregate only rejects self-parenting.
func (g *Group) Reparent(parentID *uuid.UUID) error {
	if parentID != nil && *parentID == g.ID {
		return shared.NewDomainError("INVALID_PARENT", "Group cannot be its own parent")
	}

	g.ParentID = parentID
	g.touch()
	g.AddDomainEvent(NewGroupUpdatedEvent(g))

	return nil
}

// Deactivate marks the group inactive
func (g *Group) Deactivate() {
	if g.Status == GroupStatusInactive {
		return
	}
	g.Status = GroupStatusInactive
	g.touch()
	g.AddDomainEvent(NewGroupUpdatedEvent(g))
}

// Activate marks the group active
func (g *Group) Activate() {
	if g.Status == GroupStatusActive {
		return
	}
	g.Status = GroupStatusActive
	g.touch()
	g.AddDomainEvent(NewGroupUpdatedEvent(g))
}

// IsActive returns true if the group is active
func (g *Group) IsActive() bool {
	return g.Status == GroupStatusActive
}

func (g *Group) touch() {
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
}

func validateGroupCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Group code is required")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Group code cannot exceed 50 characters")
	}
	return nil
}

func validateGroupName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Group name is required")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Group name cannot exceed 100 characters")
	}
	return nil
}
