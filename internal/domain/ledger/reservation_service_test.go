package ledger

import (
	"context"
	"testing"

	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createStockedLevel(t *testing.T, tenantID uuid.UUID, name string, current int64) *StockLevel {
	t.Helper()
	level, err := NewStockLevel(tenantID, uuid.New(), name, "g")
	require.NoError(t, err)
	require.NoError(t, level.Apply(TransactionTypeAdd, decimal.NewFromInt(current)))
	level.ClearDomainEvents()
	return level
}

func TestReservationService_Reserve(t *testing.T) {
	ctx := context.Background()
	svc := NewReservationService()
	tenantID := uuid.New()

	t.Run("reserves all lines and produces ledger entries", func(t *testing.T) {
		coffee := createStockedLevel(t, tenantID, "Coffee", 100)
		milk := createStockedLevel(t, tenantID, "Milk", 200)
		batchID := uuid.New()

		result, err := svc.Reserve(ctx, ReservationRequest{
			Lines: []ReservationLine{
				{Level: coffee, Quantity: decimal.NewFromInt(30)},
				{Level: milk, Quantity: decimal.NewFromInt(50)},
			},
			ProductionBatchID: batchID,
			Purpose:           "morning run",
		})

		require.NoError(t, err)
		require.Len(t, result.Transactions, 2)
		assert.Equal(t, decimal.NewFromInt(30), coffee.ReservedStock)
		assert.Equal(t, decimal.NewFromInt(50), milk.ReservedStock)

		tx := result.Transactions[0]
		assert.Equal(t, TransactionTypeReserve, tx.TransactionType)
		assert.Equal(t, decimal.NewFromInt(30), tx.Quantity)
		require.NotNil(t, tx.ProductionBatchID)
		assert.Equal(t, batchID, *tx.ProductionBatchID)
		require.NotNil(t, tx.ReservationID)
		assert.Equal(t, result.ReservationID, *tx.ReservationID)
		assert.Equal(t, "morning run", tx.ReservationPurpose)
		assert.True(t, tx.ReservedBefore.IsZero())
		assert.Equal(t, decimal.NewFromInt(30), tx.ReservedAfter)
	})

	t.Run("rolls back earlier lines when one is short", func(t *testing.T) {
		coffee := createStockedLevel(t, tenantID, "Coffee", 100)
		milk := createStockedLevel(t, tenantID, "Milk", 10)

		result, err := svc.Reserve(ctx, ReservationRequest{
			Lines: []ReservationLine{
				{Level: coffee, Quantity: decimal.NewFromInt(30)},
				{Level: milk, Quantity: decimal.NewFromInt(50)},
			},
			ProductionBatchID: uuid.New(),
		})

		require.Error(t, err)
		assert.Nil(t, result)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Contains(t, err.Error(), "Milk")

		// No reservations stick on either level
		assert.True(t, coffee.ReservedStock.IsZero())
		assert.True(t, milk.ReservedStock.IsZero())
	})

	t.Run("rejects empty request", func(t *testing.T) {
		_, err := svc.Reserve(ctx, ReservationRequest{ProductionBatchID: uuid.New()})
		require.Error(t, err)
	})

	t.Run("rejects non-positive line quantity", func(t *testing.T) {
		coffee := createStockedLevel(t, tenantID, "Coffee", 100)

		_, err := svc.Reserve(ctx, ReservationRequest{
			Lines:             []ReservationLine{{Level: coffee, Quantity: decimal.Zero}},
			ProductionBatchID: uuid.New(),
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})
}

func TestReservationService_Release(t *testing.T) {
	ctx := context.Background()
	svc := NewReservationService()
	tenantID := uuid.New()

	t.Run("returns reserved stock to availability", func(t *testing.T) {
		coffee := createStockedLevel(t, tenantID, "Coffee", 100)
		require.NoError(t, coffee.Apply(TransactionTypeReserve, decimal.NewFromInt(30)))
		batchID := uuid.New()

		txs, err := svc.Release(ctx, batchID, []ReservationLine{
			{Level: coffee, Quantity: decimal.NewFromInt(30)},
		})

		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, TransactionTypeUnreserve, txs[0].TransactionType)
		assert.Equal(t, decimal.NewFromInt(-30), txs[0].Quantity)
		assert.True(t, coffee.ReservedStock.IsZero())
		assert.Equal(t, decimal.NewFromInt(100), coffee.CurrentStock)
	})

	t.Run("fails when releasing more than reserved", func(t *testing.T) {
		coffee := createStockedLevel(t, tenantID, "Coffee", 100)
		require.NoError(t, coffee.Apply(TransactionTypeReserve, decimal.NewFromInt(10)))

		_, err := svc.Release(ctx, uuid.New(), []ReservationLine{
			{Level: coffee, Quantity: decimal.NewFromInt(30)},
		})

		require.Error(t, err)
	})
}

func TestReservationService_Consume(t *testing.T) {
	ctx := context.Background()
	svc := NewReservationService()
	tenantID := uuid.New()

	t.Run("reduces current and reserved together", func(t *testing.T) {
		coffee := createStockedLevel(t, tenantID, "Coffee", 100)
		require.NoError(t, coffee.Apply(TransactionTypeReserve, decimal.NewFromInt(30)))
		batchID := uuid.New()

		txs, err := svc.Consume(ctx, batchID, []ReservationLine{
			{Level: coffee, Quantity: decimal.NewFromInt(30)},
		})

		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, TransactionTypeProductionComplete, txs[0].TransactionType)
		assert.Equal(t, decimal.NewFromInt(-30), txs[0].Quantity)
		assert.Equal(t, decimal.NewFromInt(70), coffee.CurrentStock)
		assert.True(t, coffee.ReservedStock.IsZero())

		assert.Equal(t, decimal.NewFromInt(100), txs[0].CurrentBefore)
		assert.Equal(t, decimal.NewFromInt(70), txs[0].CurrentAfter)
		assert.Equal(t, decimal.NewFromInt(30), txs[0].ReservedBefore)
		assert.True(t, txs[0].ReservedAfter.IsZero())
	})

	t.Run("fails when consuming beyond the reservation", func(t *testing.T) {
		coffee := createStockedLevel(t, tenantID, "Coffee", 100)
		require.NoError(t, coffee.Apply(TransactionTypeReserve, decimal.NewFromInt(10)))

		_, err := svc.Consume(ctx, uuid.New(), []ReservationLine{
			{Level: coffee, Quantity: decimal.NewFromInt(30)},
		})

		require.Error(t, err)
	})
}

func TestStockTransaction_Deltas(t *testing.T) {
	tenantID := uuid.New()
	ingredientID := uuid.New()

	reserve, err := NewStockTransaction(tenantID, ingredientID, "Coffee", "g", TransactionTypeReserve, decimal.NewFromInt(5), "test")
	require.NoError(t, err)
	assert.True(t, reserve.CurrentStockDelta().IsZero())
	assert.Equal(t, decimal.NewFromInt(5), reserve.ReservedStockDelta())

	add, err := NewStockTransaction(tenantID, ingredientID, "Coffee", "g", TransactionTypeAdd, decimal.NewFromInt(5), "test")
	require.NoError(t, err)
	assert.Equal(t, decimal.NewFromInt(5), add.CurrentStockDelta())
	assert.True(t, add.ReservedStockDelta().IsZero())

	complete, err := NewStockTransaction(tenantID, ingredientID, "Coffee", "g", TransactionTypeProductionComplete, decimal.NewFromInt(-5), "test")
	require.NoError(t, err)
	assert.Equal(t, decimal.NewFromInt(-5), complete.CurrentStockDelta())
	assert.Equal(t, decimal.NewFromInt(-5), complete.ReservedStockDelta())
}
