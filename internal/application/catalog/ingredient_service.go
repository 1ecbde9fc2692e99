package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brewdash/backend/internal/domain/catalog"
	"github.com/brewdash/backend/internal/domain/shared"
)

// IngredientService manages the ingredient reference data that the ledger,
// procurement and intake modules build on
type IngredientService struct {
	ingredientRepo catalog.IngredientRepository
}

// NewIngredientService creates a new IngredientService
func NewIngredientService(ingredientRepo catalog.IngredientRepository) *IngredientService {
	return &IngredientService{ingredientRepo: ingredientRepo}
}

// CreateIngredient defines a new ingredient. The (name, unit) pair must be
// unique per tenant; the same name with a different unit is allowed.
func (s *IngredientService) CreateIngredient(ctx context.Context, tenantID uuid.UUID, req CreateIngredientRequest) (*IngredientResponse, error) {
	existing, err := s.ingredientRepo.FindByNameAndUnit(ctx, tenantID, req.Name, req.Unit)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS",
			"Ingredient "+req.Name+" ("+req.Unit+") already exists")
	}

	ingredient, err := catalog.NewIngredient(tenantID, req.Name, req.Unit)
	if err != nil {
		return nil, err
	}
	hasCosting := req.BaseUnitCost.GreaterThan(decimal.Zero) ||
		req.BaseUnitQuantity.GreaterThan(decimal.Zero) ||
		req.UsagePerCup.GreaterThan(decimal.Zero)
	if hasCosting {
		if err := ingredient.UpdateCosting(req.BaseUnitCost, req.BaseUnitQuantity, req.UsagePerCup); err != nil {
			return nil, err
		}
	}

	if err := s.ingredientRepo.Save(ctx, ingredient); err != nil {
		return nil, err
	}

	response := ToIngredientResponse(ingredient)
	return &response, nil
}

// UpdateIngredient edits name and costing fields. Only provided fields change.
func (s *IngredientService) UpdateIngredient(ctx context.Context, tenantID, ingredientID uuid.UUID, req UpdateIngredientRequest) (*IngredientResponse, error) {
	ingredient, err := s.ingredientRepo.FindByIDForTenant(ctx, tenantID, ingredientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != ingredient.Name {
		duplicate, err := s.ingredientRepo.FindByNameAndUnit(ctx, tenantID, *req.Name, ingredient.Unit)
		if err != nil && !shared.IsNotFound(err) {
			return nil, err
		}
		if duplicate != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS",
				"Ingredient "+*req.Name+" ("+ingredient.Unit+") already exists")
		}
		if err := ingredient.Rename(*req.Name); err != nil {
			return nil, err
		}
	}

	if req.BaseUnitCost != nil || req.BaseUnitQuantity != nil || req.UsagePerCup != nil {
		cost := ingredient.BaseUnitCost
		quantity := ingredient.BaseUnitQuantity
		usage := ingredient.UsagePerCup
		if req.BaseUnitCost != nil {
			cost = *req.BaseUnitCost
		}
		if req.BaseUnitQuantity != nil {
			quantity = *req.BaseUnitQuantity
		}
		if req.UsagePerCup != nil {
			usage = *req.UsagePerCup
		}
		if err := ingredient.UpdateCosting(cost, quantity, usage); err != nil {
			return nil, err
		}
	}

	if err := s.ingredientRepo.Save(ctx, ingredient); err != nil {
		return nil, err
	}

	response := ToIngredientResponse(ingredient)
	return &response, nil
}

// GetIngredient returns one ingredient
func (s *IngredientService) GetIngredient(ctx context.Context, tenantID, ingredientID uuid.UUID) (*IngredientResponse, error) {
	ingredient, err := s.ingredientRepo.FindByIDForTenant(ctx, tenantID, ingredientID)
	if err != nil {
		return nil, err
	}
	response := ToIngredientResponse(ingredient)
	return &response, nil
}

// ListIngredients returns all ingredients for a tenant
func (s *IngredientService) ListIngredients(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]IngredientResponse, error) {
	ingredients, err := s.ingredientRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]IngredientResponse, len(ingredients))
	for i := range ingredients {
		responses[i] = ToIngredientResponse(&ingredients[i])
	}
	return responses, nil
}

// DeleteIngredient removes an ingredient definition. Ledger history for the
// ingredient is kept; only the reference row goes away.
func (s *IngredientService) DeleteIngredient(ctx context.Context, tenantID, ingredientID uuid.UUID) error {
	ingredient, err := s.ingredientRepo.FindByIDForTenant(ctx, tenantID, ingredientID)
	if err != nil {
		return err
	}
	return s.ingredientRepo.Delete(ctx, ingredient.ID)
}
