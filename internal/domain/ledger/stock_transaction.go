package ledger

import (
	"time"

	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of stock ledger transaction
type TransactionType string

const (
	// TransactionTypeAdd represents stock entering the warehouse (intake)
	TransactionTypeAdd TransactionType = "ADD"
	// TransactionTypeDeduct represents stock leaving outside the production flow
	TransactionTypeDeduct TransactionType = "DEDUCT"
	// TransactionTypeAdjust represents an out-of-band stocktake correction
	TransactionTypeAdjust TransactionType = "ADJUST"
	// TransactionTypeReserve represents stock committed to an in-flight production batch
	TransactionTypeReserve TransactionType = "RESERVE"
	// TransactionTypeUnreserve represents a reservation released back to availability
	TransactionTypeUnreserve TransactionType = "UNRESERVE"
	// TransactionTypeProductionComplete represents reserved stock consumed by a
	// completed production batch, reducing on-hand and reserved in one step
	TransactionTypeProductionComplete TransactionType = "PRODUCTION_COMPLETE"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeAdd,
		TransactionTypeDeduct,
		TransactionTypeAdjust,
		TransactionTypeReserve,
		TransactionTypeUnreserve,
		TransactionTypeProductionComplete:
		return true
	}
	return false
}

// AffectsCurrentStock returns true if this type moves on-hand quantity
func (t TransactionType) AffectsCurrentStock() bool {
	switch t {
	case TransactionTypeAdd, TransactionTypeDeduct, TransactionTypeAdjust, TransactionTypeProductionComplete:
		return true
	}
	return false
}

// AffectsReservedStock returns true if this type moves reserved quantity
func (t TransactionType) AffectsReservedStock() bool {
	switch t {
	case TransactionTypeReserve, TransactionTypeUnreserve, TransactionTypeProductionComplete:
		return true
	}
	return false
}

// ValidateQuantity checks that the signed quantity matches the polarity the
// transaction type demands. ADD and RESERVE are strictly positive, DEDUCT,
// UNRESERVE and PRODUCTION_COMPLETE are strictly negative, ADJUST accepts
// either direction but never zero.
func (t TransactionType) ValidateQuantity(quantity decimal.Decimal) error {
	if quantity.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "Transaction quantity cannot be zero")
	}
	switch t {
	case TransactionTypeAdd, TransactionTypeReserve:
		if quantity.IsNegative() {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive for "+t.String())
		}
	case TransactionTypeDeduct, TransactionTypeUnreserve, TransactionTypeProductionComplete:
		if quantity.IsPositive() {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be negative for "+t.String())
		}
	case TransactionTypeAdjust:
		// Either direction is a valid correction
	default:
		return shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
	return nil
}

// StockTransaction represents an immutable ledger entry recording a single
// stock movement. Once created, transactions are never modified or deleted -
// corrections are made with further ADJUST transactions.
type StockTransaction struct {
	shared.BaseEntity
	TenantID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_tx_tenant_time,priority:1"`
	IngredientID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_tx_ingredient"`
	IngredientName     string          `gorm:"type:varchar(100);not null"`
	Unit               string          `gorm:"type:varchar(20);not null"`
	TransactionType    TransactionType `gorm:"type:varchar(30);not null;index:idx_stock_tx_type"`
	Quantity           decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Signed, polarity fixed by type
	Reason             string          `gorm:"type:varchar(255)"`
	BatchID            *uuid.UUID      `gorm:"type:uuid;index"` // Warehouse batch (optional)
	ProductionBatchID  *uuid.UUID      `gorm:"type:uuid;index"` // Production batch (optional)
	ReservationID      *uuid.UUID      `gorm:"type:uuid;index"` // Reservation this entry belongs to (optional)
	ReservationPurpose string          `gorm:"type:varchar(100)"`
	CurrentBefore      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // On-hand quantity before
	CurrentAfter       decimal.Decimal `gorm:"type:decimal(18,4);not null"` // On-hand quantity after
	ReservedBefore     decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Reserved quantity before
	ReservedAfter      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Reserved quantity after
	TransactionDate    time.Time       `gorm:"not null;index:idx_stock_tx_tenant_time,priority:2"`
}

// TableName returns the table name for GORM
func (StockTransaction) TableName() string {
	return "stock_transactions"
}

// NewStockTransaction creates a new ledger entry
func NewStockTransaction(
	tenantID uuid.UUID,
	ingredientID uuid.UUID,
	ingredientName string,
	unit string,
	txType TransactionType,
	quantity decimal.Decimal,
	reason string,
) (*StockTransaction, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if ingredientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INGREDIENT", "Ingredient ID cannot be empty")
	}
	if ingredientName == "" {
		return nil, shared.NewDomainError("INVALID_INGREDIENT", "Ingredient name cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
	if err := txType.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	return &StockTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		TenantID:        tenantID,
		IngredientID:    ingredientID,
		IngredientName:  ingredientName,
		Unit:            unit,
		TransactionType: txType,
		Quantity:        quantity,
		Reason:          reason,
		TransactionDate: time.Now(),
	}, nil
}

// WithBatchID links the transaction to a warehouse batch
func (t *StockTransaction) WithBatchID(batchID uuid.UUID) *StockTransaction {
	t.BatchID = &batchID
	return t
}

// WithProductionBatchID links the transaction to a production batch
func (t *StockTransaction) WithProductionBatchID(batchID uuid.UUID) *StockTransaction {
	t.ProductionBatchID = &batchID
	return t
}

// WithReservation links the transaction to a reservation
func (t *StockTransaction) WithReservation(reservationID uuid.UUID, purpose string) *StockTransaction {
	t.ReservationID = &reservationID
	t.ReservationPurpose = purpose
	return t
}

// WithTransactionDate overrides the default transaction timestamp
func (t *StockTransaction) WithTransactionDate(date time.Time) *StockTransaction {
	t.TransactionDate = date
	return t
}

// RecordBalances captures the stock level snapshot around this transaction
func (t *StockTransaction) RecordBalances(currentBefore, currentAfter, reservedBefore, reservedAfter decimal.Decimal) {
	t.CurrentBefore = currentBefore
	t.CurrentAfter = currentAfter
	t.ReservedBefore = reservedBefore
	t.ReservedAfter = reservedAfter
}

// CurrentStockDelta returns this entry's contribution to on-hand stock
func (t *StockTransaction) CurrentStockDelta() decimal.Decimal {
	if t.TransactionType.AffectsCurrentStock() {
		return t.Quantity
	}
	return decimal.Zero
}

// ReservedStockDelta returns this entry's contribution to reserved stock
func (t *StockTransaction) ReservedStockDelta() decimal.Decimal {
	if t.TransactionType.AffectsReservedStock() {
		return t.Quantity
	}
	return decimal.Zero
}
