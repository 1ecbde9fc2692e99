package persistence

import (
	"context"
	"errors"

	"github.com/brewdash/backend/internal/domain/production"
	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductionBatchRepository implements production.BatchRepository using GORM
type GormProductionBatchRepository struct {
	db *gorm.DB
}

// NewGormProductionBatchRepository creates a new GormProductionBatchRepository
func NewGormProductionBatchRepository(db *gorm.DB) *GormProductionBatchRepository {
	return &GormProductionBatchRepository{db: db}
}

// FindByID finds a batch by its ID
func (r *GormProductionBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.Batch, error) {
	var batch production.Batch
	if err := r.db.WithContext(ctx).Preload("Items").First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	batch.SyncLoadedVersion()
	return &batch, nil
}

// FindByIDForTenant finds a batch with its items within a tenant
func (r *GormProductionBatchRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*production.Batch, error) {
	var batch production.Batch
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	batch.SyncLoadedVersion()
	return &batch, nil
}

// FindByBatchNumber finds a batch by its sequential number
func (r *GormProductionBatchRepository) FindByBatchNumber(ctx context.Context, tenantID uuid.UUID, batchNumber int64) (*production.Batch, error) {
	var batch production.Batch
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND batch_number = ?", tenantID, batchNumber).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	batch.SyncLoadedVersion()
	return &batch, nil
}

// FindAllForTenant finds all batches for a tenant
func (r *GormProductionBatchRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]production.Batch, error) {
	var batches []production.Batch
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&production.Batch{}).
			Preload("Items").
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	for i := range batches {
		batches[i].SyncLoadedVersion()
	}
	return batches, nil
}

// FindByStatus finds batches in a given lifecycle state
func (r *GormProductionBatchRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status production.BatchStatus, filter shared.Filter) ([]production.Batch, error) {
	var batches []production.Batch
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&production.Batch{}).
			Preload("Items").
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)

	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	for i := range batches {
		batches[i].SyncLoadedVersion()
	}
	return batches, nil
}

// NextBatchNumber returns max existing number + 1, starting at 1 when empty
func (r *GormProductionBatchRepository) NextBatchNumber(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var next int64
	if err := r.db.WithContext(ctx).
		Model(&production.Batch{}).
		Select("COALESCE(MAX(batch_number), 0) + 1").
		Where("tenant_id = ?", tenantID).
		Scan(&next).Error; err != nil {
		return 0, err
	}
	return next, nil
}

// Save creates or updates a batch with its items
func (r *GormProductionBatchRepository) Save(ctx context.Context, batch *production.Batch) error {
	if err := r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(batch).Error; err != nil {
		return err
	}
	batch.SyncLoadedVersion()
	return nil
}

// SaveWithLock saves with optimistic locking against the loaded version.
// Items are fixed at creation, so only the batch row is touched here.
func (r *GormProductionBatchRepository) SaveWithLock(ctx context.Context, batch *production.Batch) error {
	result := r.db.WithContext(ctx).
		Model(batch).
		Where("id = ? AND version = ?", batch.ID, batch.LoadedVersion()).
		Updates(map[string]interface{}{
			"status":          batch.Status,
			"product_name":    batch.Output.ProductName,
			"output_quantity": batch.Output.OutputQuantity,
			"output_unit":     batch.Output.OutputUnit,
			"version":         batch.Version,
			"updated_at":      batch.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Production batch was modified by another transaction")
	}
	batch.SyncLoadedVersion()
	return nil
}

// DeleteForTenant deletes a batch and its items within a tenant
func (r *GormProductionBatchRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&production.Item{}, "batch_id = ?", id).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Delete(&production.Batch{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts batches matching the filter
func (r *GormProductionBatchRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&production.Batch{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts batches in a given lifecycle state
func (r *GormProductionBatchRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, status production.BatchStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&production.Batch{}).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options including pagination to the query
func (r *GormProductionBatchRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, productionBatchSortFields, "batch_number")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProductionBatchRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "batch_number":
			query = query.Where("batch_number = ?", value)
		}
	}
	return query
}

var productionBatchSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"batch_number": true,
	"date_created": true,
	"status":       true,
}

var _ production.BatchRepository = (*GormProductionBatchRepository)(nil)
