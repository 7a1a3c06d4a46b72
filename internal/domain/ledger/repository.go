package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks/backend/internal/domain/shared"
)

// GroupRepository persists account groups
type GroupRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Group, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Group, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]Group, error)
	Save(ctx context.Context, group *Group) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	CountAccounts(ctx context.Context, tenantID, groupID uuid.UUID) (int64, error)
	CountChildren(ctx context.Context, tenantID, groupID uuid.UUID) (int64, error)
}

// AccountRepository persists ledger accounts
type AccountRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Account, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]Account, error)
	FindPage(ctx context.Context, tenantID uuid.UUID, status AccountStatus, filter shared.Filter) ([]Account, int64, error)
	Save(ctx context.Context, account *Account) error
	SaveAll(ctx context.Context, accounts []*Account) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// PostingRepository persists ledger postings. Postings are append-only;
// there is deliberately no update or delete operation.
type PostingRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Posting, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]Posting, error)
	FindByAccount(ctx context.Context, tenantID, accountID uuid.UUID, from, to time.Time) ([]Posting, error)
	FindByPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]Posting, error)
	CountByAccount(ctx context.Context, tenantID, accountID uuid.UUID) (int64, error)
	SaveBatch(ctx context.Context, postings []*Posting) error
}
