package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/brewdash/backend/internal/domain/ledger"
	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStockTransactionRepository implements StockTransactionRepository using GORM.
// The ledger is append-only, so the repository exposes no update or delete.
type GormStockTransactionRepository struct {
	db *gorm.DB
}

// NewGormStockTransactionRepository creates a new GormStockTransactionRepository
func NewGormStockTransactionRepository(db *gorm.DB) *GormStockTransactionRepository {
	return &GormStockTransactionRepository{db: db}
}

// FindByID finds a transaction by its ID
func (r *GormStockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.StockTransaction, error) {
	var tx ledger.StockTransaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindByIngredient finds transactions for an ingredient
func (r *GormStockTransactionRepository) FindByIngredient(ctx context.Context, tenantID, ingredientID uuid.UUID, filter shared.Filter) ([]ledger.StockTransaction, error) {
	var txs []ledger.StockTransaction
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&ledger.StockTransaction{}).
			Where("tenant_id = ? AND ingredient_id = ?", tenantID, ingredientID),
		filter,
	)

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByProductionBatch finds transactions linked to a production batch
func (r *GormStockTransactionRepository) FindByProductionBatch(ctx context.Context, tenantID, productionBatchID uuid.UUID) ([]ledger.StockTransaction, error) {
	var txs []ledger.StockTransaction
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND production_batch_id = ?", tenantID, productionBatchID).
		Order("transaction_date ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByWarehouseBatch finds transactions linked to a warehouse batch
func (r *GormStockTransactionRepository) FindByWarehouseBatch(ctx context.Context, tenantID, batchID uuid.UUID) ([]ledger.StockTransaction, error) {
	var txs []ledger.StockTransaction
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND batch_id = ?", tenantID, batchID).
		Order("transaction_date ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByDateRange finds transactions within a date range
func (r *GormStockTransactionRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]ledger.StockTransaction, error) {
	var txs []ledger.StockTransaction
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&ledger.StockTransaction{}).
			Where("tenant_id = ? AND transaction_date >= ? AND transaction_date <= ?", tenantID, start, end),
		filter,
	)

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindForTenant finds all transactions for a tenant
func (r *GormStockTransactionRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.StockTransaction, error) {
	var txs []ledger.StockTransaction
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&ledger.StockTransaction{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Create creates a new transaction
func (r *GormStockTransactionRepository) Create(ctx context.Context, tx *ledger.StockTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// CreateBatch creates multiple transactions in one statement
func (r *GormStockTransactionRepository) CreateBatch(ctx context.Context, txs []*ledger.StockTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(txs).Error
}

// CountForTenant counts transactions matching the filter
func (r *GormStockTransactionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&ledger.StockTransaction{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumQuantityByType sums signed quantities of one type for an ingredient
func (r *GormStockTransactionRepository) SumQuantityByType(ctx context.Context, tenantID, ingredientID uuid.UUID, txType ledger.TransactionType) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&ledger.StockTransaction{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Where("tenant_id = ? AND ingredient_id = ? AND transaction_type = ?", tenantID, ingredientID, txType).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// applyFilter applies filter options including pagination to the query
func (r *GormStockTransactionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, stockTransactionSortFields, "transaction_date")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStockTransactionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "ingredient_id":
			query = query.Where("ingredient_id = ?", value)
		case "transaction_type":
			query = query.Where("transaction_type = ?", value)
		case "batch_id":
			query = query.Where("batch_id = ?", value)
		case "production_batch_id":
			query = query.Where("production_batch_id = ?", value)
		case "reservation_id":
			query = query.Where("reservation_id = ?", value)
		}
	}
	return query
}

var stockTransactionSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"transaction_date": true,
	"ingredient_name":  true,
	"transaction_type": true,
	"quantity":         true,
}

var _ ledger.StockTransactionRepository = (*GormStockTransactionRepository)(nil)
