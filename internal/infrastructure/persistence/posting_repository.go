package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/shared"
)

// GormPostingRepository implements ledger.PostingRepository using GORM.
// Postings are append-only; the repository exposes no update or delete.
type GormPostingRepository struct {
	db *gorm.DB
}

// NewGormPostingRepository creates a new GormPostingRepository
func NewGormPostingRepository(db *gorm.DB) *GormPostingRepository {
	return &GormPostingRepository{db: db}
}

// FindByID finds a posting by ID within a tenant
func (r *GormPostingRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Posting, error) {
	var posting ledger.Posting
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&posting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &posting, nil
}

// FindAll returns every posting for a tenant
func (r *GormPostingRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]ledger.Posting, error) {
	var postings []ledger.Posting
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("date ASC, created_at ASC").
		Find(&postings).Error; err != nil {
		return nil, err
	}
	return postings, nil
}

// FindByAccount returns an account's postings within a period. Zero bounds
// leave that side of the period open.
func (r *GormPostingRepository) FindByAccount(ctx context.Context, tenantID, accountID uuid.UUID, from, to time.Time) ([]ledger.Posting, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND account_id = ?", tenantID, accountID)
	query = applyPeriod(query, from, to)

	var postings []ledger.Posting
	if err := query.Order("date ASC, created_at ASC").Find(&postings).Error; err != nil {
		return nil, err
	}
	return postings, nil
}

// FindByPeriod returns every posting for a tenant within a period. Bounds
// are inclusive; zero bounds leave that side open.
func (r *GormPostingRepository) FindByPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]ledger.Posting, error) {
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	query = applyPeriod(query, from, to)

	var postings []ledger.Posting
	if err := query.Order("date ASC, created_at ASC").Find(&postings).Error; err != nil {
		return nil, err
	}
	return postings, nil
}

// CountByAccount counts the postings referencing an account
func (r *GormPostingRepository) CountByAccount(ctx context.Context, tenantID, accountID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ledger.Posting{}).
		Where("tenant_id = ? AND account_id = ?", tenantID, accountID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SaveBatch inserts a batch of postings in one transaction so a journal
// entry is recorded completely or not at all
func (r *GormPostingRepository) SaveBatch(ctx context.Context, postings []*ledger.Posting) error {
	if len(postings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(postings).Error
	})
}

func applyPeriod(query *gorm.DB, from, to time.Time) *gorm.DB {
	if !from.IsZero() {
		query = query.Where("date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("date <= ?", to)
	}
	return query
}

// Ensure GormPostingRepository implements PostingRepository
var _ ledger.PostingRepository = (*GormPostingRepository)(nil)
