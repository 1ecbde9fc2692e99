package ledger

import (
	"fmt"
	"time"

	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLevel is the materialized view of the ledger for one ingredient.
// It is the aggregate root for stock mutations; every change goes through
// Apply so the 0 <= reserved <= current invariant holds at all times.
type StockLevel struct {
	shared.TenantAggregateRoot
	IngredientID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_tenant_ingredient,priority:2"`
	IngredientName    string          `gorm:"type:varchar(100);not null"`
	Unit              string          `gorm:"type:varchar(20);not null"`
	CurrentStock      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // On-hand, reservation-inclusive
	ReservedStock     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Committed to in-flight production
	LowStockThreshold decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Alert threshold, zero disables
}

// TableName returns the table name for GORM
func (StockLevel) TableName() string {
	return "stock_levels"
}

// NewStockLevel creates a zeroed stock level for an ingredient. Levels are
// created lazily on first transaction and never deleted.
func NewStockLevel(tenantID, ingredientID uuid.UUID, ingredientName, unit string) (*StockLevel, error) {
	if ingredientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INGREDIENT", "Ingredient ID cannot be empty")
	}
	if ingredientName == "" {
		return nil, shared.NewDomainError("INVALID_INGREDIENT", "Ingredient name cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}

	return &StockLevel{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		IngredientID:        ingredientID,
		IngredientName:      ingredientName,
		Unit:                unit,
		CurrentStock:        decimal.Zero,
		ReservedStock:       decimal.Zero,
		LowStockThreshold:   decimal.Zero,
	}, nil
}

// Available returns the quantity not committed to production
func (s *StockLevel) Available() decimal.Decimal {
	return s.CurrentStock.Sub(s.ReservedStock)
}

// AvailableForDisplay returns Available clamped at zero for UI consumption
func (s *StockLevel) AvailableForDisplay() decimal.Decimal {
	available := s.Available()
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}

// CanReserve returns true if the available quantity covers the request
func (s *StockLevel) CanReserve(quantity decimal.Decimal) bool {
	return s.Available().GreaterThanOrEqual(quantity)
}

// Apply mutates the level according to a validated ledger transaction.
// ADD/DEDUCT move current stock, RESERVE/UNRESERVE move reserved stock,
// PRODUCTION_COMPLETE moves both by the same negative magnitude, and ADJUST
// moves current stock in either direction. Any result that would breach
// 0 <= reserved <= current is rejected before state changes.
func (s *StockLevel) Apply(txType TransactionType, quantity decimal.Decimal) error {
	if err := txType.ValidateQuantity(quantity); err != nil {
		return err
	}

	newCurrent := s.CurrentStock
	newReserved := s.ReservedStock
	if txType.AffectsCurrentStock() {
		newCurrent = newCurrent.Add(quantity)
	}
	if txType.AffectsReservedStock() {
		newReserved = newReserved.Add(quantity)
	}

	if newCurrent.IsNegative() {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock of %s: on hand %s, requested %s",
				s.IngredientName, s.CurrentStock.String(), quantity.Abs().String()))
	}
	if newReserved.IsNegative() {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Cannot release %s of %s: only %s reserved",
				quantity.Abs().String(), s.IngredientName, s.ReservedStock.String()))
	}
	if newReserved.GreaterThan(newCurrent) {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock of %s: available %s, requested %s",
				s.IngredientName, s.Available().String(), quantity.Abs().String()))
	}

	s.CurrentStock = newCurrent
	s.ReservedStock = newReserved
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStockChangedEvent(s, txType, quantity))
	if s.IsBelowThreshold() {
		s.AddDomainEvent(NewStockBelowThresholdEvent(s))
	}

	return nil
}

// SetLowStockThreshold sets the alert threshold, zero disables alerts
func (s *StockLevel) SetLowStockThreshold(threshold decimal.Decimal) error {
	if threshold.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Threshold cannot be negative")
	}
	s.LowStockThreshold = threshold
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// IsBelowThreshold returns true if available stock has fallen under the alert threshold
func (s *StockLevel) IsBelowThreshold() bool {
	return s.LowStockThreshold.GreaterThan(decimal.Zero) && s.Available().LessThan(s.LowStockThreshold)
}
