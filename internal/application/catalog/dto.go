package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brewdash/backend/internal/domain/catalog"
)

// CreateIngredientRequest defines a new ingredient
type CreateIngredientRequest struct {
	Name             string          `json:"name" binding:"required,max=100"`
	Unit             string          `json:"unit" binding:"required,max=20"`
	BaseUnitCost     decimal.Decimal `json:"base_unit_cost"`
	BaseUnitQuantity decimal.Decimal `json:"base_unit_quantity"`
	UsagePerCup      decimal.Decimal `json:"usage_per_cup"`
}

// UpdateIngredientRequest edits an ingredient. Nil fields are left unchanged.
type UpdateIngredientRequest struct {
	Name             *string          `json:"name,omitempty" binding:"omitempty,max=100"`
	BaseUnitCost     *decimal.Decimal `json:"base_unit_cost,omitempty"`
	BaseUnitQuantity *decimal.Decimal `json:"base_unit_quantity,omitempty"`
	UsagePerCup      *decimal.Decimal `json:"usage_per_cup,omitempty"`
}

// IngredientResponse is the API representation of an ingredient
type IngredientResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Unit               string          `json:"unit"`
	BaseUnitCost       decimal.Decimal `json:"base_unit_cost"`
	BaseUnitQuantity   decimal.Decimal `json:"base_unit_quantity"`
	UsagePerCup        decimal.Decimal `json:"usage_per_cup"`
	HasCompleteCosting bool            `json:"has_complete_costing"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ToIngredientResponse converts an ingredient to its API representation
func ToIngredientResponse(ing *catalog.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:                 ing.ID,
		Name:               ing.Name,
		Unit:               ing.Unit,
		BaseUnitCost:       ing.BaseUnitCost,
		BaseUnitQuantity:   ing.BaseUnitQuantity,
		UsagePerCup:        ing.UsagePerCup,
		HasCompleteCosting: ing.HasCompleteCosting(),
		CreatedAt:          ing.CreatedAt,
		UpdatedAt:          ing.UpdatedAt,
	}
}
