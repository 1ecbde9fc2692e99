package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/brewdash/backend/internal/domain/warehouse"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWarehouseBatchRepository implements warehouse.BatchRepository using GORM
type GormWarehouseBatchRepository struct {
	db *gorm.DB
}

// NewGormWarehouseBatchRepository creates a new GormWarehouseBatchRepository
func NewGormWarehouseBatchRepository(db *gorm.DB) *GormWarehouseBatchRepository {
	return &GormWarehouseBatchRepository{db: db}
}

// FindByID finds a batch by its ID
func (r *GormWarehouseBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*warehouse.Batch, error) {
	var batch warehouse.Batch
	if err := r.db.WithContext(ctx).Preload("Items").First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByIDForTenant finds a batch with its items within a tenant
func (r *GormWarehouseBatchRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*warehouse.Batch, error) {
	var batch warehouse.Batch
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByBatchNumber finds a batch by its sequential number
func (r *GormWarehouseBatchRepository) FindByBatchNumber(ctx context.Context, tenantID uuid.UUID, batchNumber int64) (*warehouse.Batch, error) {
	var batch warehouse.Batch
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND batch_number = ?", tenantID, batchNumber).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindAllForTenant finds all batches for a tenant
func (r *GormWarehouseBatchRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]warehouse.Batch, error) {
	var batches []warehouse.Batch
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&warehouse.Batch{}).
			Preload("Items").
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindByDateRange finds batches whose intake date falls within a range
func (r *GormWarehouseBatchRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]warehouse.Batch, error) {
	var batches []warehouse.Batch
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&warehouse.Batch{}).
			Preload("Items").
			Where("tenant_id = ? AND date_added >= ? AND date_added <= ?", tenantID, start, end),
		filter,
	)

	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// NextBatchNumber returns max existing number + 1, starting at 1 when empty.
// Callers run this inside the same transaction as the insert so the unique
// index on (tenant_id, batch_number) catches concurrent intakes.
func (r *GormWarehouseBatchRepository) NextBatchNumber(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var next int64
	if err := r.db.WithContext(ctx).
		Model(&warehouse.Batch{}).
		Select("COALESCE(MAX(batch_number), 0) + 1").
		Where("tenant_id = ?", tenantID).
		Scan(&next).Error; err != nil {
		return 0, err
	}
	return next, nil
}

// Save creates or updates a batch with its items
func (r *GormWarehouseBatchRepository) Save(ctx context.Context, batch *warehouse.Batch) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(batch).Error
}

// DeleteForTenant deletes a batch and its items within a tenant
func (r *GormWarehouseBatchRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&warehouse.Item{}, "batch_id = ?", id).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Delete(&warehouse.Batch{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts batches matching the filter
func (r *GormWarehouseBatchRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&warehouse.Batch{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options including pagination to the query
func (r *GormWarehouseBatchRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, warehouseBatchSortFields, "batch_number")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormWarehouseBatchRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "batch_number":
			query = query.Where("batch_number = ?", value)
		}
	}
	return query
}

var warehouseBatchSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"batch_number": true,
	"date_added":   true,
}

var _ warehouse.BatchRepository = (*GormWarehouseBatchRepository)(nil)
