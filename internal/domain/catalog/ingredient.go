package catalog

import (
	"time"

	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ingredient is reference data describing a purchasable raw material.
// Identity is a surrogate UUID; the (name, unit) pair is unique per tenant
// but name remains a mutable display attribute.
type Ingredient struct {
	shared.TenantAggregateRoot
	Name             string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_ingredient_tenant_name_unit,priority:2"`
	Unit             string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_ingredient_tenant_name_unit,priority:3"`
	BaseUnitCost     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Price of one purchasable package
	BaseUnitQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Package size in measurement units
	UsagePerCup      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Consumption per produced cup
}

// TableName returns the table name for GORM
func (Ingredient) TableName() string {
	return "ingredients"
}

// NewIngredient creates a new ingredient definition
func NewIngredient(tenantID uuid.UUID, name, unit string) (*Ingredient, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Ingredient name cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Ingredient unit cannot be empty")
	}

	return &Ingredient{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Unit:                unit,
		BaseUnitCost:        decimal.Zero,
		BaseUnitQuantity:    decimal.Zero,
		UsagePerCup:         decimal.Zero,
	}, nil
}

// Rename changes the display name without disturbing ledger references
func (i *Ingredient) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Ingredient name cannot be empty")
	}
	i.Name = name
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// UpdateCosting sets the purchasing parameters used by procurement
func (i *Ingredient) UpdateCosting(baseUnitCost, baseUnitQuantity, usagePerCup decimal.Decimal) error {
	if baseUnitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Base unit cost cannot be negative")
	}
	if baseUnitQuantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Base unit quantity cannot be negative")
	}
	if usagePerCup.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Usage per cup cannot be negative")
	}

	i.BaseUnitCost = baseUnitCost
	i.BaseUnitQuantity = baseUnitQuantity
	i.UsagePerCup = usagePerCup
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// HasCompleteCosting reports whether the ingredient carries all fields
// required for procurement planning. Partially configured ingredients are
// expected during setup and are skipped by shopping list generation.
func (i *Ingredient) HasCompleteCosting() bool {
	return i.BaseUnitCost.GreaterThan(decimal.Zero) &&
		i.BaseUnitQuantity.GreaterThan(decimal.Zero) &&
		i.UsagePerCup.GreaterThan(decimal.Zero)
}
