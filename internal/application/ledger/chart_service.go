package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/shared"
)

// ChartService manages the chart of accounts: the group hierarchy and the
// accounts hanging off it. Reports consume the chart read-only through
// ReportingService; this service owns all writes.
type ChartService struct {
	groupRepo   ledger.GroupRepository
	accountRepo ledger.AccountRepository
	postingRepo ledger.PostingRepository
	events      shared.EventPublisher
}

// NewChartService creates a new ChartService
func NewChartService(
	groupRepo ledger.GroupRepository,
	accountRepo ledger.AccountRepository,
	postingRepo ledger.PostingRepository,
) *ChartService {
	return &ChartService{
		groupRepo:   groupRepo,
		accountRepo: accountRepo,
		postingRepo: postingRepo,
	}
}

// SetEventPublisher sets the publisher that receives domain events after a
// successful save
func (s *ChartService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// publishEvents drains the aggregate's pending events into the publisher.
// Publish failures stay with the publisher; the save has already succeeded.
func (s *ChartService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	if s.events == nil {
		return
	}
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.events.Publish(ctx, events...)
	aggregate.ClearDomainEvents()
}

// CreateGroup creates a new account group, as a root or under a parent
func (s *ChartService) CreateGroup(ctx context.Context, tenantID uuid.UUID, req CreateGroupRequest) (*GroupResponse, error) {
	existing, err := s.groupRepo.FindByCode(ctx, tenantID, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Group with this code already exists")
	}

	var group *ledger.Group
	if req.ParentID != nil {
		parent, err := s.groupRepo.FindByID(ctx, tenantID, *req.ParentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PARENT", "Parent group not found")
			}
			return nil, err
		}
		group, err = ledger.NewChildGroup(tenantID, req.Code, req.Name, ledger.AccountType(req.AccountType), parent)
		if err != nil {
			return nil, err
		}
	} else {
		group, err = ledger.NewGroup(tenantID, req.Code, req.Name, ledger.AccountType(req.AccountType))
		if err != nil {
			return nil, err
		}
	}

	if req.SortOrder != nil {
		group.SortOrder = *req.SortOrder
	}

	if err := s.groupRepo.Save(ctx, group); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, group)

	return ToGroupResponse(group, 0), nil
}

// GetGroup retrieves a single group
func (s *ChartService) GetGroup(ctx context.Context, tenantID, id uuid.UUID) (*GroupResponse, error) {
	group, err := s.groupRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToGroupResponse(group, 0), nil
}

// ListGroups returns all groups with their depth in the hierarchy. A
// malformed hierarchy (cycle, dangling parent) fails instead of rendering a
// partial tree.
func (s *ChartService) ListGroups(ctx context.Context, tenantID uuid.UUID) ([]GroupResponse, error) {
	groups, err := s.groupRepo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*ledger.Group, len(groups))
	for i := range groups {
		byID[groups[i].ID] = &groups[i]
	}

	responses := make([]GroupResponse, 0, len(groups))
	for i := range groups {
		depth, err := groupDepth(&groups[i], byID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *ToGroupResponse(&groups[i], depth))
	}
	return responses, nil
}

// UpdateGroup updates a group's name and sort order
func (s *ChartService) UpdateGroup(ctx context.Context, tenantID, id uuid.UUID, req UpdateGroupRequest) (*GroupResponse, error) {
	group, err := s.groupRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name := group.Name
	if req.Name != nil {
		name = *req.Name
	}
	sortOrder := group.SortOrder
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}
	if err := group.Update(name, sortOrder); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Save(ctx, group); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, group)
	return ToGroupResponse(group, 0), nil
}

// MoveGroup reparents a group. The new parent chain is checked against the
// full group set so the move can never introduce a cycle.
func (s *ChartService) MoveGroup(ctx context.Context, tenantID, id uuid.UUID, parentID *uuid.UUID) (*GroupResponse, error) {
	group, err := s.groupRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		if _, err := s.groupRepo.FindByID(ctx, tenantID, *parentID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PARENT", "Parent group not found")
			}
			return nil, err
		}

		groups, err := s.groupRepo.FindAll(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		byID := make(map[uuid.UUID]*ledger.Group, len(groups))
		for i := range groups {
			byID[groups[i].ID] = &groups[i]
		}

		// Walk up from the proposed parent; hitting the moving group means
		// the move would close a cycle.
		current := byID[*parentID]
		for steps := 0; current != nil && steps <= len(byID); steps++ {
			if current.ID == id {
				return nil, ledger.NewCyclicGroupError(id)
			}
			if current.ParentID == nil {
				break
			}
			current = byID[*current.ParentID]
		}
	}

	if err := group.Reparent(parentID); err != nil {
		return nil, err
	}
	if err := s.groupRepo.Save(ctx, group); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, group)
	return ToGroupResponse(group, 0), nil
}

// DeactivateGroup marks a group inactive without touching its history
func (s *ChartService) DeactivateGroup(ctx context.Context, tenantID, id uuid.UUID) error {
	group, err := s.groupRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	group.Deactivate()
	if err := s.groupRepo.Save(ctx, group); err != nil {
		return err
	}
	s.publishEvents(ctx, group)
	return nil
}

// DeleteGroup removes an empty group. Groups that still hold accounts or
// child groups cannot be deleted.
func (s *ChartService) DeleteGroup(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.groupRepo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}

	accountCount, err := s.groupRepo.CountAccounts(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if accountCount > 0 {
		return shared.NewDomainError("GROUP_NOT_EMPTY", "Group still has accounts; deactivate it instead")
	}

	childCount, err := s.groupRepo.CountChildren(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if childCount > 0 {
		return shared.NewDomainError("GROUP_NOT_EMPTY", "Group still has child groups; deactivate it instead")
	}

	return s.groupRepo.Delete(ctx, tenantID, id)
}

// CreateAccount creates a new account under an existing group
func (s *ChartService) CreateAccount(ctx context.Context, tenantID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	existing, err := s.accountRepo.FindByCode(ctx, tenantID, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Account with this code already exists")
	}

	if _, err := s.groupRepo.FindByID(ctx, tenantID, req.GroupID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_GROUP", "Group not found")
		}
		return nil, err
	}

	opening := decimal.Zero
	if req.OpeningBalance != nil {
		opening = *req.OpeningBalance
	}

	account, err := ledger.NewAccount(tenantID, req.Code, req.Name, req.GroupID, opening)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, account)

	return ToAccountResponse(account), nil
}

// GetAccount retrieves a single account
func (s *ChartService) GetAccount(ctx context.Context, tenantID, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToAccountResponse(account), nil
}

// ListAccounts returns a page of accounts
func (s *ChartService) ListAccounts(ctx context.Context, tenantID uuid.UUID, filter AccountListFilter) ([]AccountResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.OrderBy = "code"
	domainFilter.OrderDir = "asc"

	// The status predicate runs in the repository so the page and the total
	// count describe the same result set.
	accounts, total, err := s.accountRepo.FindPage(ctx, tenantID, ledger.AccountStatus(filter.Status), domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, *ToAccountResponse(&accounts[i]))
	}
	return responses, total, nil
}

// UpdateAccount updates an account's name or group
func (s *ChartService) UpdateAccount(ctx context.Context, tenantID, id uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name := account.Name
	if req.Name != nil {
		name = *req.Name
	}
	groupID := account.GroupID
	if req.GroupID != nil {
		if _, err := s.groupRepo.FindByID(ctx, tenantID, *req.GroupID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_GROUP", "Group not found")
			}
			return nil, err
		}
		groupID = *req.GroupID
	}

	if err := account.Update(name, groupID); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, account)
	return ToAccountResponse(account), nil
}

// DeactivateAccount marks an account inactive; its postings and balances
// remain visible in reports
func (s *ChartService) DeactivateAccount(ctx context.Context, tenantID, id uuid.UUID) error {
	account, err := s.accountRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	account.Deactivate()
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return err
	}
	s.publishEvents(ctx, account)
	return nil
}

// DeleteAccount removes an account that has never been posted to. Accounts
// with postings are part of the audit trail and can only be deactivated.
func (s *ChartService) DeleteAccount(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.accountRepo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}

	count, err := s.postingRepo.CountByAccount(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("ACCOUNT_HAS_POSTINGS", "Account has postings; deactivate it instead")
	}

	return s.accountRepo.Delete(ctx, tenantID, id)
}

// groupDepth returns how deep the group sits in the hierarchy, guarding
// against cycles the same way the report classification walk does
func groupDepth(group *ledger.Group, byID map[uuid.UUID]*ledger.Group) (int, error) {
	depth := 0
	current := group
	for steps := 0; steps <= len(byID); steps++ {
		if current.ParentID == nil {
			return depth, nil
		}
		parent, ok := byID[*current.ParentID]
		if !ok {
			return 0, ledger.NewInvalidReferenceError("group " + current.ID.String() + " references unknown parent " + current.ParentID.String())
		}
		current = parent
		depth++
	}
	return 0, ledger.NewCyclicGroupError(group.ID)
}
