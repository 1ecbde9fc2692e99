package warehouse

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewdash/backend/internal/domain/catalog"
	"github.com/brewdash/backend/internal/domain/ledger"
	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/brewdash/backend/internal/domain/warehouse"
)

// memBatchRepo is an in-memory BatchRepository for service tests
type memBatchRepo struct {
	mu      sync.Mutex
	batches map[uuid.UUID]*warehouse.Batch
}

func newMemBatchRepo() *memBatchRepo {
	return &memBatchRepo{batches: make(map[uuid.UUID]*warehouse.Batch)}
}

func (r *memBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*warehouse.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if batch, ok := r.batches[id]; ok {
		copied := *batch
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memBatchRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*warehouse.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if batch, ok := r.batches[id]; ok && batch.TenantID == tenantID {
		copied := *batch
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memBatchRepo) FindByBatchNumber(_ context.Context, tenantID uuid.UUID, batchNumber int64) (*warehouse.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, batch := range r.batches {
		if batch.TenantID == tenantID && batch.BatchNumber == batchNumber {
			copied := *batch
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memBatchRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]warehouse.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]warehouse.Batch, 0)
	for _, batch := range r.batches {
		if batch.TenantID == tenantID {
			result = append(result, *batch)
		}
	}
	return result, nil
}

func (r *memBatchRepo) FindByDateRange(_ context.Context, tenantID uuid.UUID, start, end time.Time, _ shared.Filter) ([]warehouse.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]warehouse.Batch, 0)
	for _, batch := range r.batches {
		if batch.TenantID == tenantID && !batch.DateAdded.Before(start) && !batch.DateAdded.After(end) {
			result = append(result, *batch)
		}
	}
	return result, nil
}

func (r *memBatchRepo) NextBatchNumber(_ context.Context, tenantID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var max int64
	for _, batch := range r.batches {
		if batch.TenantID == tenantID && batch.BatchNumber > max {
			max = batch.BatchNumber
		}
	}
	return max + 1, nil
}

func (r *memBatchRepo) Save(_ context.Context, batch *warehouse.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *batch
	copied.ClearDomainEvents()
	r.batches[batch.ID] = &copied
	return nil
}

func (r *memBatchRepo) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if batch, ok := r.batches[id]; ok && batch.TenantID == tenantID {
		delete(r.batches, id)
		return nil
	}
	return shared.ErrNotFound
}

func (r *memBatchRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, batch := range r.batches {
		if batch.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

// memLevelRepo is a map-backed StockLevelRepository
type memLevelRepo struct {
	mu     sync.Mutex
	levels map[uuid.UUID]*ledger.StockLevel
}

func newMemLevelRepo() *memLevelRepo {
	return &memLevelRepo{levels: make(map[uuid.UUID]*ledger.StockLevel)}
}

func (r *memLevelRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, level := range r.levels {
		if level.ID == id {
			copied := *level
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memLevelRepo) FindByIngredient(_ context.Context, tenantID, ingredientID uuid.UUID) (*ledger.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	level, ok := r.levels[ingredientID]
	if !ok || level.TenantID != tenantID {
		return nil, nil
	}
	copied := *level
	return &copied, nil
}

func (r *memLevelRepo) FindByIngredients(_ context.Context, tenantID uuid.UUID, ingredientIDs []uuid.UUID) ([]ledger.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.StockLevel, 0)
	for _, id := range ingredientIDs {
		if level, ok := r.levels[id]; ok && level.TenantID == tenantID {
			result = append(result, *level)
		}
	}
	return result, nil
}

func (r *memLevelRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]ledger.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.StockLevel, 0)
	for _, level := range r.levels {
		if level.TenantID == tenantID {
			result = append(result, *level)
		}
	}
	return result, nil
}

func (r *memLevelRepo) FindBelowThreshold(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]ledger.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.StockLevel, 0)
	for _, level := range r.levels {
		if level.TenantID == tenantID && level.IsBelowThreshold() {
			result = append(result, *level)
		}
	}
	return result, nil
}

func (r *memLevelRepo) Save(_ context.Context, level *ledger.StockLevel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *level
	copied.ClearDomainEvents()
	r.levels[level.IngredientID] = &copied
	return nil
}

func (r *memLevelRepo) SaveWithLock(ctx context.Context, level *ledger.StockLevel) error {
	return r.Save(ctx, level)
}

func (r *memLevelRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, level := range r.levels {
		if level.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

// memTxRepo is a slice-backed StockTransactionRepository
type memTxRepo struct {
	mu      sync.Mutex
	entries []ledger.StockTransaction
}

func newMemTxRepo() *memTxRepo {
	return &memTxRepo{entries: make([]ledger.StockTransaction, 0)}
}

func (r *memTxRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.StockTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].ID == id {
			copied := r.entries[i]
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memTxRepo) FindByIngredient(_ context.Context, tenantID, ingredientID uuid.UUID, _ shared.Filter) ([]ledger.StockTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.StockTransaction, 0)
	for _, e := range r.entries {
		if e.TenantID == tenantID && e.IngredientID == ingredientID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *memTxRepo) FindByProductionBatch(_ context.Context, tenantID, productionBatchID uuid.UUID) ([]ledger.StockTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.StockTransaction, 0)
	for _, e := range r.entries {
		if e.TenantID == tenantID && e.ProductionBatchID != nil && *e.ProductionBatchID == productionBatchID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *memTxRepo) FindByWarehouseBatch(_ context.Context, tenantID, batchID uuid.UUID) ([]ledger.StockTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.StockTransaction, 0)
	for _, e := range r.entries {
		if e.TenantID == tenantID && e.BatchID != nil && *e.BatchID == batchID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *memTxRepo) FindByDateRange(_ context.Context, tenantID uuid.UUID, start, end time.Time, _ shared.Filter) ([]ledger.StockTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.StockTransaction, 0)
	for _, e := range r.entries {
		if e.TenantID == tenantID && !e.TransactionDate.Before(start) && !e.TransactionDate.After(end) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *memTxRepo) FindForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]ledger.StockTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]ledger.StockTransaction, 0)
	for _, e := range r.entries {
		if e.TenantID == tenantID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *memTxRepo) Create(_ context.Context, tx *ledger.StockTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *tx)
	return nil
}

func (r *memTxRepo) CreateBatch(ctx context.Context, txs []*ledger.StockTransaction) error {
	for _, tx := range txs {
		if err := r.Create(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

func (r *memTxRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, e := range r.entries {
		if e.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

func (r *memTxRepo) SumQuantityByType(_ context.Context, tenantID, ingredientID uuid.UUID, txType ledger.TransactionType) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, e := range r.entries {
		if e.TenantID == tenantID && e.IngredientID == ingredientID && e.TransactionType == txType {
			sum = sum.Add(e.Quantity)
		}
	}
	return sum, nil
}

// memIngredientRepo is a map-backed IngredientRepository
type memIngredientRepo struct {
	mu          sync.Mutex
	ingredients map[uuid.UUID]*catalog.Ingredient
}

func newMemIngredientRepo() *memIngredientRepo {
	return &memIngredientRepo{ingredients: make(map[uuid.UUID]*catalog.Ingredient)}
}

func (r *memIngredientRepo) add(ing *catalog.Ingredient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ingredients[ing.ID] = ing
}

func (r *memIngredientRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ing, ok := r.ingredients[id]; ok {
		return ing, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memIngredientRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ing, ok := r.ingredients[id]; ok && ing.TenantID == tenantID {
		return ing, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memIngredientRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]catalog.Ingredient, 0, len(r.ingredients))
	for _, ing := range r.ingredients {
		result = append(result, *ing)
	}
	return result, nil
}

func (r *memIngredientRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]catalog.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]catalog.Ingredient, 0)
	for _, ing := range r.ingredients {
		if ing.TenantID == tenantID {
			result = append(result, *ing)
		}
	}
	return result, nil
}

func (r *memIngredientRepo) FindByNameAndUnit(_ context.Context, tenantID uuid.UUID, name, unit string) (*catalog.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ing := range r.ingredients {
		if ing.TenantID == tenantID && ing.Name == name && ing.Unit == unit {
			return ing, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memIngredientRepo) Save(_ context.Context, ing *catalog.Ingredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ingredients[ing.ID] = ing
	return nil
}

func (r *memIngredientRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ingredients, id)
	return nil
}

func (r *memIngredientRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.ingredients)), nil
}

type intakeFixture struct {
	service     *IntakeService
	batches     *memBatchRepo
	levels      *memLevelRepo
	txs         *memTxRepo
	ingredients *memIngredientRepo
	tenantID    uuid.UUID
	coffee      *catalog.Ingredient
}

func newIntakeFixture(t *testing.T) *intakeFixture {
	t.Helper()
	tenantID := uuid.New()
	batches := newMemBatchRepo()
	levels := newMemLevelRepo()
	txs := newMemTxRepo()
	ingredients := newMemIngredientRepo()

	coffee, err := catalog.NewIngredient(tenantID, "Coffee Beans", "g")
	require.NoError(t, err)
	ingredients.add(coffee)

	scope := NewNoOpTransactionScope(batches, levels, txs)
	service := NewIntakeService(scope, batches, ingredients)
	return &intakeFixture{
		service:     service,
		batches:     batches,
		levels:      levels,
		txs:         txs,
		ingredients: ingredients,
		tenantID:    tenantID,
		coffee:      coffee,
	}
}

func TestIntakeService_CreateBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("numbers batches sequentially per tenant", func(t *testing.T) {
		f := newIntakeFixture(t)

		first, err := f.service.CreateBatch(ctx, f.tenantID, CreateBatchRequest{Note: "morning delivery"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, first.BatchNumber)
		assert.Equal(t, "morning delivery", first.Note)

		second, err := f.service.CreateBatch(ctx, f.tenantID, CreateBatchRequest{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, second.BatchNumber)

		// Another tenant starts over at 1
		other, err := f.service.CreateBatch(ctx, uuid.New(), CreateBatchRequest{})
		require.NoError(t, err)
		assert.EqualValues(t, 1, other.BatchNumber)
	})

	t.Run("uses the provided intake date", func(t *testing.T) {
		f := newIntakeFixture(t)
		date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

		resp, err := f.service.CreateBatch(ctx, f.tenantID, CreateBatchRequest{DateAdded: &date})

		require.NoError(t, err)
		assert.True(t, date.Equal(resp.DateAdded))
	})
}

func TestIntakeService_AddItemsToBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("records items and raises stock through the ledger", func(t *testing.T) {
		f := newIntakeFixture(t)
		batch, err := f.service.CreateBatch(ctx, f.tenantID, CreateBatchRequest{})
		require.NoError(t, err)

		resp, err := f.service.AddItemsToBatch(ctx, f.tenantID, batch.ID, []IntakeItemRequest{
			{IngredientID: f.coffee.ID, Quantity: decimal.NewFromInt(1000), CostPerUnit: decimal.NewFromFloat(0.02)},
		})

		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Coffee Beans", resp.Items[0].IngredientName)
		assert.True(t, decimal.NewFromInt(20).Equal(resp.Items[0].TotalCost))
		assert.True(t, decimal.NewFromInt(20).Equal(resp.TotalCost))

		level, err := f.levels.FindByIngredient(ctx, f.tenantID, f.coffee.ID)
		require.NoError(t, err)
		require.NotNil(t, level)
		assert.True(t, decimal.NewFromInt(1000).Equal(level.CurrentStock))

		entries, err := f.txs.FindByWarehouseBatch(ctx, f.tenantID, batch.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, ledger.TransactionTypeAdd, entries[0].TransactionType)
		assert.Equal(t, "warehouse intake", entries[0].Reason)
	})

	t.Run("rejects unknown ingredient", func(t *testing.T) {
		f := newIntakeFixture(t)
		batch, err := f.service.CreateBatch(ctx, f.tenantID, CreateBatchRequest{})
		require.NoError(t, err)

		_, err = f.service.AddItemsToBatch(ctx, f.tenantID, batch.ID, []IntakeItemRequest{
			{IngredientID: uuid.New(), Quantity: decimal.NewFromInt(10)},
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("rejects empty item list", func(t *testing.T) {
		f := newIntakeFixture(t)
		batch, err := f.service.CreateBatch(ctx, f.tenantID, CreateBatchRequest{})
		require.NoError(t, err)

		_, err = f.service.AddItemsToBatch(ctx, f.tenantID, batch.ID, nil)

		require.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		f := newIntakeFixture(t)
		batch, err := f.service.CreateBatch(ctx, f.tenantID, CreateBatchRequest{})
		require.NoError(t, err)

		_, err = f.service.AddItemsToBatch(ctx, f.tenantID, batch.ID, []IntakeItemRequest{
			{IngredientID: f.coffee.ID, Quantity: decimal.NewFromInt(-5)},
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})
}

func TestIntakeService_AddFromShoppingList(t *testing.T) {
	ctx := context.Background()

	t.Run("creates batch and derives cost per unit", func(t *testing.T) {
		f := newIntakeFixture(t)

		result := f.service.AddFromShoppingList(ctx, f.tenantID, IntakeFromShoppingListRequest{
			Items: []ShoppingListIntakeItem{
				{IngredientID: f.coffee.ID, Quantity: decimal.NewFromInt(2000), TotalCost: decimal.NewFromInt(40)},
			},
			Note: "restock run",
		})

		require.True(t, result.Success)
		require.NotNil(t, result.Batch)
		assert.Empty(t, result.Error)
		assert.Equal(t, "restock run", result.Batch.Note)
		require.Len(t, result.Batch.Items, 1)
		assert.True(t, decimal.NewFromFloat(0.02).Equal(result.Batch.Items[0].CostPerUnit))
		assert.True(t, decimal.NewFromInt(40).Equal(result.Batch.TotalCost))

		level, err := f.levels.FindByIngredient(ctx, f.tenantID, f.coffee.ID)
		require.NoError(t, err)
		require.NotNil(t, level)
		assert.True(t, decimal.NewFromInt(2000).Equal(level.CurrentStock))
	})

	t.Run("reports failure as data", func(t *testing.T) {
		f := newIntakeFixture(t)

		result := f.service.AddFromShoppingList(ctx, f.tenantID, IntakeFromShoppingListRequest{
			Items: []ShoppingListIntakeItem{
				{IngredientID: uuid.New(), Quantity: decimal.NewFromInt(1), TotalCost: decimal.NewFromInt(1)},
			},
		})

		require.False(t, result.Success)
		assert.Nil(t, result.Batch)
		assert.NotEmpty(t, result.Error)

		// the failed intake must not leave an empty batch behind
		count, err := f.batches.CountForTenant(ctx, f.tenantID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("empty list fails without creating a batch", func(t *testing.T) {
		f := newIntakeFixture(t)

		result := f.service.AddFromShoppingList(ctx, f.tenantID, IntakeFromShoppingListRequest{})

		require.False(t, result.Success)
		count, err := f.batches.CountForTenant(ctx, f.tenantID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestIntakeService_UpdateNote(t *testing.T) {
	ctx := context.Background()
	f := newIntakeFixture(t)
	batch, err := f.service.CreateBatch(ctx, f.tenantID, CreateBatchRequest{Note: "draft"})
	require.NoError(t, err)

	resp, err := f.service.UpdateNote(ctx, f.tenantID, batch.ID, UpdateNoteRequest{Note: "supplier invoice 118"})

	require.NoError(t, err)
	assert.Equal(t, "supplier invoice 118", resp.Note)

	reloaded, err := f.service.GetBatch(ctx, f.tenantID, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, "supplier invoice 118", reloaded.Note)
}
