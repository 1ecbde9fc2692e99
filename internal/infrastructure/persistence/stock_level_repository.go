package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/brewdash/backend/internal/domain/ledger"
	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockLevelRepository implements StockLevelRepository using GORM
type GormStockLevelRepository struct {
	db *gorm.DB
}

// NewGormStockLevelRepository creates a new GormStockLevelRepository
func NewGormStockLevelRepository(db *gorm.DB) *GormStockLevelRepository {
	return &GormStockLevelRepository{db: db}
}

// FindByID finds a stock level by its ID
func (r *GormStockLevelRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.StockLevel, error) {
	var level ledger.StockLevel
	if err := r.db.WithContext(ctx).First(&level, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	level.SyncLoadedVersion()
	return &level, nil
}

// FindByIngredient finds the stock level for an ingredient within a tenant.
// Returns nil without error when no level exists yet; callers decide whether
// a missing level means "zero stock" or a failure.
func (r *GormStockLevelRepository) FindByIngredient(ctx context.Context, tenantID, ingredientID uuid.UUID) (*ledger.StockLevel, error) {
	var level ledger.StockLevel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND ingredient_id = ?", tenantID, ingredientID).
		First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	level.SyncLoadedVersion()
	return &level, nil
}

// FindByIngredients finds stock levels for multiple ingredients
func (r *GormStockLevelRepository) FindByIngredients(ctx context.Context, tenantID uuid.UUID, ingredientIDs []uuid.UUID) ([]ledger.StockLevel, error) {
	if len(ingredientIDs) == 0 {
		return nil, nil
	}
	var levels []ledger.StockLevel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND ingredient_id IN ?", tenantID, ingredientIDs).
		Find(&levels).Error; err != nil {
		return nil, err
	}
	for i := range levels {
		levels[i].SyncLoadedVersion()
	}
	return levels, nil
}

// FindAllForTenant finds all stock levels for a tenant
func (r *GormStockLevelRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.StockLevel, error) {
	var levels []ledger.StockLevel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&ledger.StockLevel{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&levels).Error; err != nil {
		return nil, err
	}
	for i := range levels {
		levels[i].SyncLoadedVersion()
	}
	return levels, nil
}

// FindBelowThreshold finds levels whose available stock is under the alert threshold
func (r *GormStockLevelRepository) FindBelowThreshold(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.StockLevel, error) {
	var levels []ledger.StockLevel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&ledger.StockLevel{}).
			Where("tenant_id = ? AND low_stock_threshold > 0 AND (current_stock - reserved_stock) < low_stock_threshold", tenantID),
		filter,
	)

	if err := query.Find(&levels).Error; err != nil {
		return nil, err
	}
	for i := range levels {
		levels[i].SyncLoadedVersion()
	}
	return levels, nil
}

// Save creates or updates a stock level
func (r *GormStockLevelRepository) Save(ctx context.Context, level *ledger.StockLevel) error {
	if err := r.db.WithContext(ctx).Save(level).Error; err != nil {
		return err
	}
	level.SyncLoadedVersion()
	return nil
}

// SaveWithLock saves with optimistic locking. The predicate compares against
// the version the aggregate was loaded with, not Version-1, because domain
// methods may bump the version more than once before a single save (a batch
// with two lines of the same ingredient applies twice to one level).
func (r *GormStockLevelRepository) SaveWithLock(ctx context.Context, level *ledger.StockLevel) error {
	result := r.db.WithContext(ctx).
		Model(level).
		Where("id = ? AND version = ?", level.ID, level.LoadedVersion()).
		Updates(map[string]interface{}{
			"current_stock":       level.CurrentStock,
			"reserved_stock":      level.ReservedStock,
			"low_stock_threshold": level.LowStockThreshold,
			"ingredient_name":     level.IngredientName,
			"unit":                level.Unit,
			"version":             level.Version,
			"updated_at":          level.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Stock level was modified by another transaction")
	}
	level.SyncLoadedVersion()
	return nil
}

// CountForTenant counts stock levels matching the filter
func (r *GormStockLevelRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&ledger.StockLevel{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options including pagination to the query
func (r *GormStockLevelRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, stockLevelSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStockLevelRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("ingredient_name ILIKE ?", "%"+strings.TrimSpace(filter.Search)+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "ingredient_id":
			query = query.Where("ingredient_id = ?", value)
		case "unit":
			query = query.Where("unit = ?", value)
		case "below_threshold":
			if value == true {
				query = query.Where("low_stock_threshold > 0 AND (current_stock - reserved_stock) < low_stock_threshold")
			}
		case "has_stock":
			if value == true {
				query = query.Where("current_stock > 0")
			}
		}
	}
	return query
}

var stockLevelSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"ingredient_name": true,
	"current_stock":   true,
	"reserved_stock":  true,
}

var _ ledger.StockLevelRepository = (*GormStockLevelRepository)(nil)
