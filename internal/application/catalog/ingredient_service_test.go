package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewdash/backend/internal/domain/catalog"
	"github.com/brewdash/backend/internal/domain/shared"
)

// memIngredientRepo is a map-backed IngredientRepository
type memIngredientRepo struct {
	mu          sync.Mutex
	ingredients map[uuid.UUID]*catalog.Ingredient
}

func newMemIngredientRepo() *memIngredientRepo {
	return &memIngredientRepo{ingredients: make(map[uuid.UUID]*catalog.Ingredient)}
}

func (r *memIngredientRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ing, ok := r.ingredients[id]; ok {
		copied := *ing
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memIngredientRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ing, ok := r.ingredients[id]; ok && ing.TenantID == tenantID {
		copied := *ing
		return &copied, nil
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
			copied := *ing
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memIngredientRepo) Save(_ context.Context, ing *catalog.Ingredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *ing
	r.ingredients[ing.ID] = &copied
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

func TestIngredientService_CreateIngredient(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates an ingredient with costing data", func(t *testing.T) {
		service := NewIngredientService(newMemIngredientRepo())

		resp, err := service.CreateIngredient(ctx, tenantID, CreateIngredientRequest{
			Name:             "Milk",
			Unit:             "ml",
			BaseUnitCost:     decimal.NewFromInt(12),
			BaseUnitQuantity: decimal.NewFromInt(1000),
			UsagePerCup:      decimal.NewFromInt(5),
		})

		require.NoError(t, err)
		assert.Equal(t, "Milk", resp.Name)
		assert.True(t, resp.HasCompleteCosting)
	})

	t.Run("creates without costing data for later setup", func(t *testing.T) {
		service := NewIngredientService(newMemIngredientRepo())

		resp, err := service.CreateIngredient(ctx, tenantID, CreateIngredientRequest{Name: "Milk", Unit: "ml"})

		require.NoError(t, err)
		assert.False(t, resp.HasCompleteCosting)
	})

	t.Run("rejects duplicate name and unit", func(t *testing.T) {
		service := NewIngredientService(newMemIngredientRepo())
		_, err := service.CreateIngredient(ctx, tenantID, CreateIngredientRequest{Name: "Milk", Unit: "ml"})
		require.NoError(t, err)

		_, err = service.CreateIngredient(ctx, tenantID, CreateIngredientRequest{Name: "Milk", Unit: "ml"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("same name with a different unit is a distinct ingredient", func(t *testing.T) {
		service := NewIngredientService(newMemIngredientRepo())
		_, err := service.CreateIngredient(ctx, tenantID, CreateIngredientRequest{Name: "Milk", Unit: "ml"})
		require.NoError(t, err)

		_, err = service.CreateIngredient(ctx, tenantID, CreateIngredientRequest{Name: "Milk", Unit: "l"})

		require.NoError(t, err)
	})
}

func TestIngredientService_UpdateIngredient(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	setup := func(t *testing.T) (*IngredientService, uuid.UUID) {
		t.Helper()
		service := NewIngredientService(newMemIngredientRepo())
		resp, err := service.CreateIngredient(ctx, tenantID, CreateIngredientRequest{
			Name:             "Milk",
			Unit:             "ml",
			BaseUnitCost:     decimal.NewFromInt(12),
			BaseUnitQuantity: decimal.NewFromInt(1000),
			UsagePerCup:      decimal.NewFromInt(5),
		})
		require.NoError(t, err)
		return service, resp.ID
	}

	t.Run("renames without touching costing", func(t *testing.T) {
		service, id := setup(t)
		name := "Whole Milk"

		resp, err := service.UpdateIngredient(ctx, tenantID, id, UpdateIngredientRequest{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, "Whole Milk", resp.Name)
		assert.True(t, decimal.NewFromInt(12).Equal(resp.BaseUnitCost))
	})

	t.Run("updates a single costing field", func(t *testing.T) {
		service, id := setup(t)
		cost := decimal.NewFromInt(14)

		resp, err := service.UpdateIngredient(ctx, tenantID, id, UpdateIngredientRequest{BaseUnitCost: &cost})

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(14).Equal(resp.BaseUnitCost))
		assert.True(t, decimal.NewFromInt(1000).Equal(resp.BaseUnitQuantity))
		assert.True(t, decimal.NewFromInt(5).Equal(resp.UsagePerCup))
	})

	t.Run("rejects negative costing values", func(t *testing.T) {
		service, id := setup(t)
		cost := decimal.NewFromInt(-1)

		_, err := service.UpdateIngredient(ctx, tenantID, id, UpdateIngredientRequest{BaseUnitCost: &cost})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_COST", domainErr.Code)
	})

	t.Run("unknown ingredient fails", func(t *testing.T) {
		service, _ := setup(t)

		_, err := service.UpdateIngredient(ctx, tenantID, uuid.New(), UpdateIngredientRequest{})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestIngredientService_DeleteIngredient(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	service := NewIngredientService(newMemIngredientRepo())
	resp, err := service.CreateIngredient(ctx, tenantID, CreateIngredientRequest{Name: "Milk", Unit: "ml"})
	require.NoError(t, err)

	require.NoError(t, service.DeleteIngredient(ctx, tenantID, resp.ID))

	_, err = service.GetIngredient(ctx, tenantID, resp.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
