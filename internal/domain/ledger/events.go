package ledger

import (
	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeStockLevel = "StockLevel"

// Event type constants
const (
	EventTypeStockChanged        = "StockChanged"
	EventTypeStockBelowThreshold = "StockBelowThreshold"
	EventTypeStockReserved       = "StockReserved"
	EventTypeStockReleased       = "StockReleased"
	EventTypeStockConsumed       = "StockConsumed"
)

// StockChangedEvent is raised whenever a ledger transaction mutates a stock level
type StockChangedEvent struct {
	shared.BaseDomainEvent
	IngredientID    uuid.UUID       `json:"ingredient_id"`
	IngredientName  string          `json:"ingredient_name"`
	Unit            string          `json:"unit"`
	TransactionType TransactionType `json:"transaction_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	CurrentStock    decimal.Decimal `json:"current_stock"`
	ReservedStock   decimal.Decimal `json:"reserved_stock"`
}

// NewStockChangedEvent creates a new StockChangedEvent
func NewStockChangedEvent(level *StockLevel, txType TransactionType, quantity decimal.Decimal) *StockChangedEvent {
	return &StockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockChanged, AggregateTypeStockLevel, level.ID, level.TenantID),
		IngredientID:    level.IngredientID,
		IngredientName:  level.IngredientName,
		Unit:            level.Unit,
		TransactionType: txType,
		Quantity:        quantity,
		CurrentStock:    level.CurrentStock,
		ReservedStock:   level.ReservedStock,
	}
}

// EventType returns the event type name
func (e *StockChangedEvent) EventType() string {
	return EventTypeStockChanged
}

// StockBelowThresholdEvent is raised when available stock drops under the alert threshold
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	IngredientID      uuid.UUID       `json:"ingredient_id"`
	IngredientName    string          `json:"ingredient_name"`
	Unit              string          `json:"unit"`
	AvailableStock    decimal.Decimal `json:"available_stock"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
}

// NewStockBelowThresholdEvent creates a new StockBelowThresholdEvent
func NewStockBelowThresholdEvent(level *StockLevel) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, AggregateTypeStockLevel, level.ID, level.TenantID),
		IngredientID:      level.IngredientID,
		IngredientName:    level.IngredientName,
		Unit:              level.Unit,
		AvailableStock:    level.AvailableForDisplay(),
		LowStockThreshold: level.LowStockThreshold,
	}
}

// EventType returns the event type name
func (e *StockBelowThresholdEvent) EventType() string {
	return EventTypeStockBelowThreshold
}

// StockReservedEvent is raised when stock is committed to a production batch
type StockReservedEvent struct {
	shared.BaseDomainEvent
	IngredientID      uuid.UUID       `json:"ingredient_id"`
	IngredientName    string          `json:"ingredient_name"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservationID     uuid.UUID       `json:"reservation_id"`
	ProductionBatchID uuid.UUID       `json:"production_batch_id"`
	Purpose           string          `json:"purpose"`
}

// NewStockReservedEvent creates a new StockReservedEvent
func NewStockReservedEvent(level *StockLevel, quantity decimal.Decimal, reservationID, productionBatchID uuid.UUID, purpose string) *StockReservedEvent {
	return &StockReservedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockReserved, AggregateTypeStockLevel, level.ID, level.TenantID),
		IngredientID:      level.IngredientID,
		IngredientName:    level.IngredientName,
		Quantity:          quantity,
		ReservationID:     reservationID,
		ProductionBatchID: productionBatchID,
		Purpose:           purpose,
	}
}

// EventType returns the event type name
func (e *StockReservedEvent) EventType() string {
	return EventTypeStockReserved
}

// StockReleasedEvent is raised when a reservation is returned to availability
type StockReleasedEvent struct {
	shared.BaseDomainEvent
	IngredientID      uuid.UUID       `json:"ingredient_id"`
	IngredientName    string          `json:"ingredient_name"`
	Quantity          decimal.Decimal `json:"quantity"`
	ProductionBatchID uuid.UUID       `json:"production_batch_id"`
}

// NewStockReleasedEvent creates a new StockReleasedEvent
func NewStockReleasedEvent(level *StockLevel, quantity decimal.Decimal, productionBatchID uuid.UUID) *StockReleasedEvent {
	return &StockReleasedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockReleased, AggregateTypeStockLevel, level.ID, level.TenantID),
		IngredientID:      level.IngredientID,
		IngredientName:    level.IngredientName,
		Quantity:          quantity,
		ProductionBatchID: productionBatchID,
	}
}

// EventType returns the event type name
func (e *StockReleasedEvent) EventType() string {
	return EventTypeStockReleased
}

// StockConsumedEvent is raised when a completed production batch consumes reserved stock
type StockConsumedEvent struct {
	shared.BaseDomainEvent
	IngredientID      uuid.UUID       `json:"ingredient_id"`
	IngredientName    string          `json:"ingredient_name"`
	Quantity          decimal.Decimal `json:"quantity"`
	ProductionBatchID uuid.UUID       `json:"production_batch_id"`
}

// NewStockConsumedEvent creates a new StockConsumedEvent
func NewStockConsumedEvent(level *StockLevel, quantity decimal.Decimal, productionBatchID uuid.UUID) *StockConsumedEvent {
	return &StockConsumedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockConsumed, AggregateTypeStockLevel, level.ID, level.TenantID),
		IngredientID:      level.IngredientID,
		IngredientName:    level.IngredientName,
		Quantity:          quantity,
		ProductionBatchID: productionBatchID,
	}
}

// EventType returns the event type name
func (e *StockConsumedEvent) EventType() string {
	return EventTypeStockConsumed
}
