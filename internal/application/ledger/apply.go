package ledger

import (
	"context"

	"github.com/brewdash/backend/internal/domain/ledger"
	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApplyParams describes one ledger mutation
type ApplyParams struct {
	IngredientID       uuid.UUID
	IngredientName     string
	Unit               string
	Type               ledger.TransactionType
	Quantity           decimal.Decimal
	Reason             string
	BatchID            *uuid.UUID
	ProductionBatchID  *uuid.UUID
	ReservationID      *uuid.UUID
	ReservationPurpose string
}

// ApplyInScope is the single legal mutation path for stock. It loads the
// stock level (creating it lazily on first use), applies the transaction,
// persists the level with optimistic locking and appends the ledger entry,
// all against the repositories of the caller's transaction scope so the
// warehouse and production services can fold ledger writes into their own
// atomic operations.
//
// The returned level still carries its domain events; the caller publishes
// them after the surrounding transaction commits.
func ApplyInScope(
	ctx context.Context,
	levels ledger.StockLevelRepository,
	transactions ledger.StockTransactionRepository,
	tenantID uuid.UUID,
	params ApplyParams,
) (*ledger.StockLevel, *ledger.StockTransaction, error) {
	if tenantID == uuid.Nil {
		return nil, nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}

	level, err := levels.FindByIngredient(ctx, tenantID, params.IngredientID)
	if err != nil {
		return nil, nil, err
	}

	created := false
	if level == nil {
		level, err = ledger.NewStockLevel(tenantID, params.IngredientID, params.IngredientName, params.Unit)
		if err != nil {
			return nil, nil, err
		}
		created = true
	}

	currentBefore := level.CurrentStock
	reservedBefore := level.ReservedStock

	if err := level.Apply(params.Type, params.Quantity); err != nil {
		return nil, nil, err
	}

	if created {
		if err := levels.Save(ctx, level); err != nil {
			return nil, nil, err
		}
	} else {
		if err := levels.SaveWithLock(ctx, level); err != nil {
			return nil, nil, err
		}
	}

	entry, err := ledger.NewStockTransaction(
		tenantID, params.IngredientID, level.IngredientName, level.Unit,
		params.Type, params.Quantity, params.Reason,
	)
	if err != nil {
		return nil, nil, err
	}
	entry.RecordBalances(currentBefore, level.CurrentStock, reservedBefore, level.ReservedStock)
	if params.BatchID != nil {
		entry.WithBatchID(*params.BatchID)
	}
	if params.ProductionBatchID != nil {
		entry.WithProductionBatchID(*params.ProductionBatchID)
	}
	if params.ReservationID != nil {
		entry.WithReservation(*params.ReservationID, params.ReservationPurpose)
	}

	if err := transactions.Create(ctx, entry); err != nil {
		return nil, nil, err
	}

	return level, entry, nil
}
