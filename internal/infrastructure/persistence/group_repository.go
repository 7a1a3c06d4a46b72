package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openbooks/backend/internal/domain/ledger"
	"github.com/openbooks/backend/internal/domain/shared"
)

// GormGroupRepository implements ledger.GroupRepository using GORM
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGormGroupRepository creates a new GormGroupRepository
func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

// FindByID finds a group by ID within a tenant
func (r *GormGroupRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Group, error) {
	var group ledger.Group
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// FindByCode finds a group by its code within a tenant
func (r *GormGroupRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*ledger.Group, error) {
	var group ledger.Group
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// FindAll returns every group for a tenant, ordered for stable display
func (r *GormGroupRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]ledger.Group, error) {
	var groups []ledger.Group
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("sort_order ASC, code ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// Save persists a group (insert or update)
func (r *GormGroupRepository) Save(ctx context.Context, group *ledger.Group) error {
	return r.db.WithContext(ctx).Save(group).Error
}

// Delete removes a group within a tenant
func (r *GormGroupRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&ledger.Group{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountAccounts counts the accounts attached directly to a group
func (r *GormGroupRepository) CountAccounts(ctx context.Context, tenantID, groupID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ledger.Account{}).
		Where("tenant_id = ? AND group_id = ?", tenantID, groupID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountChildren counts the direct child groups of a group
func (r *GormGroupRepository) CountChildren(ctx context.Context, tenantID, groupID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ledger.Group{}).
		Where("tenant_id = ? AND parent_id = ?", tenantID, groupID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormGroupRepository implements GroupRepository
var _ ledger.GroupRepository = (*GormGroupRepository)(nil)
