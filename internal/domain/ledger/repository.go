package ledger

import (
	"context"
	"time"

	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLevelRepository defines the interface for stock level persistence
type StockLevelRepository interface {
	// FindByID finds a stock level by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockLevel, error)

	// FindByIngredient finds the stock level for an ingredient within a tenant,
	// returning nil (not an error) when no level exists yet
	FindByIngredient(ctx context.Context, tenantID, ingredientID uuid.UUID) (*StockLevel, error)

	// FindByIngredients finds stock levels for multiple ingredients
	FindByIngredients(ctx context.Context, tenantID uuid.UUID, ingredientIDs []uuid.UUID) ([]StockLevel, error)

	// FindAllForTenant finds all stock levels for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockLevel, error)

	// FindBelowThreshold finds levels whose available stock is under the alert threshold
	FindBelowThreshold(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockLevel, error)

	// Save creates or updates a stock level
	Save(ctx context.Context, level *StockLevel) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, level *StockLevel) error

	// CountForTenant counts stock levels matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// StockTransactionRepository defines the interface for ledger entry persistence.
// The ledger is append-only: entries are created, never updated or deleted.
type StockTransactionRepository interface {
	// FindByID finds a transaction by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockTransaction, error)

	// FindByIngredient finds transactions for an ingredient
	FindByIngredient(ctx context.Context, tenantID, ingredientID uuid.UUID, filter shared.Filter) ([]StockTransaction, error)

	// FindByProductionBatch finds transactions linked to a production batch
	FindByProductionBatch(ctx context.Context, tenantID, productionBatchID uuid.UUID) ([]StockTransaction, error)

	// FindByWarehouseBatch finds transactions linked to a warehouse batch
	FindByWarehouseBatch(ctx context.Context, tenantID, batchID uuid.UUID) ([]StockTransaction, error)

	// FindByDateRange finds transactions within a date range
	FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]StockTransaction, error)

	// FindForTenant finds all transactions for a tenant
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockTransaction, error)

	// Create creates a new transaction (append-only, no update allowed)
	Create(ctx context.Context, tx *StockTransaction) error

	// CreateBatch creates multiple transactions
	CreateBatch(ctx context.Context, txs []*StockTransaction) error

	// CountForTenant counts transactions matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// SumQuantityByType sums signed quantities of one type for an ingredient,
	// used to audit the materialized stock level against the ledger
	SumQuantityByType(ctx context.Context, tenantID, ingredientID uuid.UUID, txType TransactionType) (decimal.Decimal, error)
}

// TransactionFilter extends shared.Filter with ledger-specific filters
type TransactionFilter struct {
	shared.Filter
	IngredientID      *uuid.UUID
	TransactionType   *TransactionType
	BatchID           *uuid.UUID
	ProductionBatchID *uuid.UUID
	StartDate         *time.Time
	EndDate           *time.Time
}
