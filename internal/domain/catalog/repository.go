package catalog

import (
	"context"

	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// IngredientRepository provides access to ingredient reference data
type IngredientRepository interface {
	shared.TenantRepository[Ingredient]
	// FindByNameAndUnit looks up an ingredient by its display identity
	FindByNameAndUnit(ctx context.Context, tenantID uuid.UUID, name, unit string) (*Ingredient, error)
}
