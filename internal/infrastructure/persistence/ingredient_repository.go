package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/brewdash/backend/internal/domain/catalog"
	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormIngredientRepository implements IngredientRepository using GORM
type GormIngredientRepository struct {
	db *gorm.DB
}

// NewGormIngredientRepository creates a new GormIngredientRepository
func NewGormIngredientRepository(db *gorm.DB) *GormIngredientRepository {
	return &GormIngredientRepository{db: db}
}

// FindByID finds an ingredient by its ID
func (r *GormIngredientRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Ingredient, error) {
	var ingredient catalog.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

// FindByIDForTenant finds an ingredient by ID within a tenant
func (r *GormIngredientRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Ingredient, error) {
	var ingredient catalog.Ingredient
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

// FindByNameAndUnit looks up an ingredient by its display identity
func (r *GormIngredientRepository) FindByNameAndUnit(ctx context.Context, tenantID uuid.UUID, name, unit string) (*catalog.Ingredient, error) {
	var ingredient catalog.Ingredient
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND name = ? AND unit = ?", tenantID, name, unit).
		First(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

// FindAll finds all ingredients matching the filter
func (r *GormIngredientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Ingredient, error) {
	var ingredients []catalog.Ingredient
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Ingredient{}), filter)

	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// FindAllForTenant finds all ingredients for a tenant
func (r *GormIngredientRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Ingredient, error) {
	var ingredients []catalog.Ingredient
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Ingredient{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// Save creates or updates an ingredient
func (r *GormIngredientRepository) Save(ctx context.Context, ingredient *catalog.Ingredient) error {
	return r.db.WithContext(ctx).Save(ingredient).Error
}

// Delete deletes an ingredient
func (r *GormIngredientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Ingredient{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts ingredients matching the filter
func (r *GormIngredientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Ingredient{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options including pagination to the query
func (r *GormIngredientRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ingredientSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormIngredientRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+strings.TrimSpace(filter.Search)+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "unit":
			query = query.Where("unit = ?", value)
		case "has_costing":
			if value == true {
				query = query.Where("base_unit_cost > 0 AND base_unit_quantity > 0 AND usage_per_cup > 0")
			}
		}
	}
	return query
}

var ingredientSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"unit":       true,
}

var _ catalog.IngredientRepository = (*GormIngredientRepository)(nil)
