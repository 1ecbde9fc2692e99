package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/brewdash/backend/internal/domain/ledger"
	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerEntry(t *testing.T, tenantID, ingredientID uuid.UUID, txType ledger.TransactionType, qty int64) *ledger.StockTransaction {
	t.Helper()

	tx, err := ledger.NewStockTransaction(tenantID, ingredientID, "Coffee Beans", "g", txType, decimal.NewFromInt(qty), "test entry")
	require.NoError(t, err)
	return tx
}

func TestGormStockTransactionRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockTransactionRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	ingredientID := uuid.New()

	t.Run("creates and finds by ID", func(t *testing.T) {
		tx := newLedgerEntry(t, tenantID, ingredientID, ledger.TransactionTypeAdd, 500)
		require.NoError(t, repo.Create(ctx, tx))

		found, err := repo.FindByID(ctx, tx.ID)

		require.NoError(t, err)
		assert.Equal(t, ledger.TransactionTypeAdd, found.TransactionType)
		decimalEqual(t, 500, found.Quantity)
	})

	t.Run("returns not found for unknown ID", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("creates a batch of entries atomically", func(t *testing.T) {
		otherIngredient := uuid.New()
		txs := []*ledger.StockTransaction{
			newLedgerEntry(t, tenantID, otherIngredient, ledger.TransactionTypeAdd, 300),
			newLedgerEntry(t, tenantID, otherIngredient, ledger.TransactionTypeDeduct, -100),
		}
		require.NoError(t, repo.CreateBatch(ctx, txs))

		found, err := repo.FindByIngredient(ctx, tenantID, otherIngredient, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.CreateBatch(ctx, nil))
	})
}

func TestGormStockTransactionRepository_FindByBatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockTransactionRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	ingredientID := uuid.New()

	warehouseBatchID := uuid.New()
	intake := newLedgerEntry(t, tenantID, ingredientID, ledger.TransactionTypeAdd, 1000)
	intake.BatchID = &warehouseBatchID
	require.NoError(t, repo.Create(ctx, intake))

	productionBatchID := uuid.New()
	reservationID := uuid.New()
	reserve := newLedgerEntry(t, tenantID, ingredientID, ledger.TransactionTypeReserve, 200)
	reserve.ProductionBatchID = &productionBatchID
	reserve.ReservationID = &reservationID
	require.NoError(t, repo.Create(ctx, reserve))

	t.Run("finds entries for a warehouse batch", func(t *testing.T) {
		txs, err := repo.FindByWarehouseBatch(ctx, tenantID, warehouseBatchID)

		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, ledger.TransactionTypeAdd, txs[0].TransactionType)
	})

	t.Run("finds entries for a production batch", func(t *testing.T) {
		txs, err := repo.FindByProductionBatch(ctx, tenantID, productionBatchID)

		require.NoError(t, err)
		require.Len(t, txs, 1)
		require.NotNil(t, txs[0].ReservationID)
		assert.Equal(t, reservationID, *txs[0].ReservationID)
	})

	t.Run("filters by transaction type", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["transaction_type"] = ledger.TransactionTypeReserve

		txs, err := repo.FindForTenant(ctx, tenantID, filter)

		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, ledger.TransactionTypeReserve, txs[0].TransactionType)
	})
}

func TestGormStockTransactionRepository_FindByDateRange(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockTransactionRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	ingredientID := uuid.New()

	old := newLedgerEntry(t, tenantID, ingredientID, ledger.TransactionTypeAdd, 100)
	old.TransactionDate = time.Now().AddDate(0, 0, -30)
	require.NoError(t, repo.Create(ctx, old))

	recent := newLedgerEntry(t, tenantID, ingredientID, ledger.TransactionTypeAdd, 200)
	require.NoError(t, repo.Create(ctx, recent))

	txs, err := repo.FindByDateRange(ctx, tenantID,
		time.Now().AddDate(0, 0, -7), time.Now().Add(time.Hour), shared.DefaultFilter())

	require.NoError(t, err)
	require.Len(t, txs, 1)
	decimalEqual(t, 200, txs[0].Quantity)
}

func TestGormStockTransactionRepository_SumQuantityByType(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockTransactionRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	ingredientID := uuid.New()

	require.NoError(t, repo.Create(ctx, newLedgerEntry(t, tenantID, ingredientID, ledger.TransactionTypeAdd, 500)))
	require.NoError(t, repo.Create(ctx, newLedgerEntry(t, tenantID, ingredientID, ledger.TransactionTypeAdd, 300)))
	require.NoError(t, repo.Create(ctx, newLedgerEntry(t, tenantID, ingredientID, ledger.TransactionTypeDeduct, -200)))

	t.Run("sums signed quantities of one type", func(t *testing.T) {
		total, err := repo.SumQuantityByType(ctx, tenantID, ingredientID, ledger.TransactionTypeAdd)

		require.NoError(t, err)
		decimalEqual(t, 800, total)
	})

	t.Run("returns zero when no entries match", func(t *testing.T) {
		total, err := repo.SumQuantityByType(ctx, tenantID, ingredientID, ledger.TransactionTypeProductionComplete)

		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})
}
