package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brewdash/backend/internal/domain/catalog"
	"github.com/brewdash/backend/internal/domain/ledger"
	"github.com/brewdash/backend/internal/domain/procurement"
	"github.com/brewdash/backend/internal/domain/shared"
)

// ProcurementService turns the ingredient catalog into purchasing plans.
// The heavy lifting lives in the pure domain calculator; this layer only
// loads data and shapes responses.
type ProcurementService struct {
	ingredientRepo catalog.IngredientRepository
	levelRepo      ledger.StockLevelRepository
}

// NewProcurementService creates a new ProcurementService
func NewProcurementService(
	ingredientRepo catalog.IngredientRepository,
	levelRepo ledger.StockLevelRepository,
) *ProcurementService {
	return &ProcurementService{
		ingredientRepo: ingredientRepo,
		levelRepo:      levelRepo,
	}
}

// GetShoppingList computes the procurement plan for a daily production
// target across every ingredient with complete costing data
func (s *ProcurementService) GetShoppingList(ctx context.Context, tenantID uuid.UUID, dailyTarget decimal.Decimal) (*procurement.ShoppingListSummary, error) {
	if dailyTarget.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Daily production target must be positive")
	}

	ingredients, err := s.ingredientRepo.FindAllForTenant(ctx, tenantID, shared.UnpagedFilter())
	if err != nil {
		return nil, err
	}

	costings := make([]procurement.IngredientCosting, 0, len(ingredients))
	for i := range ingredients {
		costings = append(costings, toCosting(&ingredients[i]))
	}

	summary := procurement.BuildShoppingList(costings, dailyTarget)
	return &summary, nil
}

// RestockItem is one low-stock ingredient with the purchase that would
// bring it back over its threshold
type RestockItem struct {
	IngredientID   uuid.UUID       `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Unit           string          `json:"unit"`
	Available      decimal.Decimal `json:"available"`
	Threshold      decimal.Decimal `json:"threshold"`
	Shortfall      decimal.Decimal `json:"shortfall"`
	UnitsToBuy     int64           `json:"units_to_buy"`
	ActualQuantity decimal.Decimal `json:"actual_quantity"`
	TotalCost      decimal.Decimal `json:"total_cost"`
}

// GetRestockList proposes purchases for every ingredient under its low
// stock threshold. Ingredients without costing data are listed with zero
// units so the gap is still visible.
func (s *ProcurementService) GetRestockList(ctx context.Context, tenantID uuid.UUID) ([]RestockItem, error) {
	levels, err := s.levelRepo.FindBelowThreshold(ctx, tenantID, shared.UnpagedFilter())
	if err != nil {
		return nil, err
	}

	items := make([]RestockItem, 0, len(levels))
	for i := range levels {
		level := &levels[i]
		shortfall := level.LowStockThreshold.Sub(level.AvailableForDisplay())
		item := RestockItem{
			IngredientID:   level.IngredientID,
			IngredientName: level.IngredientName,
			Unit:           level.Unit,
			Available:      level.AvailableForDisplay(),
			Threshold:      level.LowStockThreshold,
			Shortfall:      shortfall,
		}

		ingredient, err := s.ingredientRepo.FindByIDForTenant(ctx, tenantID, level.IngredientID)
		if err == nil && ingredient.BaseUnitQuantity.GreaterThan(decimal.Zero) {
			item.UnitsToBuy = procurement.PurchaseUnits(shortfall, ingredient.BaseUnitQuantity)
			item.ActualQuantity = procurement.ActualQuantityToAdd(shortfall, ingredient.BaseUnitQuantity)
			item.TotalCost = ingredient.BaseUnitCost.Mul(decimal.NewFromInt(item.UnitsToBuy))
		}
		items = append(items, item)
	}
	return items, nil
}

func toCosting(ing *catalog.Ingredient) procurement.IngredientCosting {
	return procurement.IngredientCosting{
		IngredientID:     ing.ID,
		Name:             ing.Name,
		Unit:             ing.Unit,
		BaseUnitCost:     ing.BaseUnitCost,
		BaseUnitQuantity: ing.BaseUnitQuantity,
		UsagePerCup:      ing.UsagePerCup,
	}
}
