package procurement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Suppliers sell in fixed package sizes, so buying "exactly what is needed"
// under-orders. The calculator rounds requirements up to whole base units and
// quantifies the waste that packaging granularity forces, so sourcing
// decisions can weigh smaller packages against their price.
//
// All functions are pure. Zero or negative denominators never panic: the
// guards below return the zero/identity result instead.

// PurchaseUnits returns how many whole base units cover totalNeeded.
// Returns 0 when either input is not positive.
func PurchaseUnits(totalNeeded, baseUnitQuantity decimal.Decimal) int64 {
	if totalNeeded.LessThanOrEqual(decimal.Zero) || baseUnitQuantity.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return totalNeeded.Div(baseUnitQuantity).Ceil().IntPart()
}

// Waste returns the quantity purchased beyond what is needed, never negative
func Waste(totalNeeded, baseUnitQuantity decimal.Decimal, unitsToBuy int64) decimal.Decimal {
	purchased := baseUnitQuantity.Mul(decimal.NewFromInt(unitsToBuy))
	waste := purchased.Sub(totalNeeded)
	if waste.IsNegative() {
		return decimal.Zero
	}
	return waste
}

// ActualQuantityToAdd rounds a desired quantity up to the nearest whole
// multiple of the base unit, the quantity that can physically be purchased.
// Returns quantityToAdd unchanged when either input is not positive.
func ActualQuantityToAdd(quantityToAdd, baseUnitQuantity decimal.Decimal) decimal.Decimal {
	if quantityToAdd.LessThanOrEqual(decimal.Zero) || baseUnitQuantity.LessThanOrEqual(decimal.Zero) {
		return quantityToAdd
	}
	units := quantityToAdd.Div(baseUnitQuantity).Ceil()
	return units.Mul(baseUnitQuantity)
}

// IngredientCosting is the slice of catalog data the calculator needs
type IngredientCosting struct {
	IngredientID     uuid.UUID
	Name             string
	Unit             string
	BaseUnitCost     decimal.Decimal
	BaseUnitQuantity decimal.Decimal
	UsagePerCup      decimal.Decimal
}

// IsComplete reports whether every field required for planning is set.
// Ingredients still being configured are skipped, not rejected.
func (c IngredientCosting) IsComplete() bool {
	return c.BaseUnitCost.GreaterThan(decimal.Zero) &&
		c.BaseUnitQuantity.GreaterThan(decimal.Zero) &&
		c.UsagePerCup.GreaterThan(decimal.Zero)
}

// ShoppingListItem is the procurement plan for one ingredient
type ShoppingListItem struct {
	IngredientID     uuid.UUID       `json:"ingredient_id"`
	IngredientName   string          `json:"ingredient_name"`
	Unit             string          `json:"unit"`
	TotalNeeded      decimal.Decimal `json:"total_needed"`
	UnitsToBuy       int64           `json:"units_to_buy"`
	ActualQuantity   decimal.Decimal `json:"actual_quantity"`
	WasteAmount      decimal.Decimal `json:"waste_amount"`
	WastePercentage  decimal.Decimal `json:"waste_percentage"`
	BaseUnitCost     decimal.Decimal `json:"base_unit_cost"`
	BaseUnitQuantity decimal.Decimal `json:"base_unit_quantity"`
	TheoreticalCost  decimal.Decimal `json:"theoretical_cost"` // Pro-rata cost of exactly what is needed
	TotalCost        decimal.Decimal `json:"total_cost"`       // Cost of the whole units actually bought
}

// ShoppingListSummary aggregates the plan across all ingredients
type ShoppingListSummary struct {
	Items                []ShoppingListItem `json:"items"`
	TotalItems           int                `json:"total_items"`
	TotalCost            decimal.Decimal    `json:"total_cost"`
	TotalTheoreticalCost decimal.Decimal    `json:"total_theoretical_cost"`
	TotalWaste           decimal.Decimal    `json:"total_waste"`
}

// BuildShoppingList computes the procurement plan for a daily production
// target. Ingredients with incomplete costing data are silently excluded.
func BuildShoppingList(ingredients []IngredientCosting, dailyTarget decimal.Decimal) ShoppingListSummary {
	summary := ShoppingListSummary{
		Items:                make([]ShoppingListItem, 0, len(ingredients)),
		TotalCost:            decimal.Zero,
		TotalTheoreticalCost: decimal.Zero,
		TotalWaste:           decimal.Zero,
	}
	if dailyTarget.LessThanOrEqual(decimal.Zero) {
		return summary
	}

	for _, ing := range ingredients {
		if !ing.IsComplete() {
			continue
		}

		totalNeeded := ing.UsagePerCup.Mul(dailyTarget)
		unitsToBuy := PurchaseUnits(totalNeeded, ing.BaseUnitQuantity)
		wasteAmount := Waste(totalNeeded, ing.BaseUnitQuantity, unitsToBuy)

		wastePercentage := decimal.Zero
		purchased := totalNeeded.Add(wasteAmount)
		if purchased.GreaterThan(decimal.Zero) {
			wastePercentage = wasteAmount.Div(purchased).Mul(decimal.NewFromInt(100))
		}

		theoreticalCost := totalNeeded.Div(ing.BaseUnitQuantity).Mul(ing.BaseUnitCost)
		totalCost := ing.BaseUnitCost.Mul(decimal.NewFromInt(unitsToBuy))

		summary.Items = append(summary.Items, ShoppingListItem{
			IngredientID:     ing.IngredientID,
			IngredientName:   ing.Name,
			Unit:             ing.Unit,
			TotalNeeded:      totalNeeded,
			UnitsToBuy:       unitsToBuy,
			ActualQuantity:   ActualQuantityToAdd(totalNeeded, ing.BaseUnitQuantity),
			WasteAmount:      wasteAmount,
			WastePercentage:  wastePercentage,
			BaseUnitCost:     ing.BaseUnitCost,
			BaseUnitQuantity: ing.BaseUnitQuantity,
			TheoreticalCost:  theoreticalCost,
			TotalCost:        totalCost,
		})
		summary.TotalCost = summary.TotalCost.Add(totalCost)
		summary.TotalTheoreticalCost = summary.TotalTheoreticalCost.Add(theoreticalCost)
		summary.TotalWaste = summary.TotalWaste.Add(wasteAmount)
	}
	summary.TotalItems = len(summary.Items)
	return summary
}
