package warehouse

import (
	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeWarehouseBatch = "WarehouseBatch"

// Event type constants
const (
	EventTypeBatchCreated = "WarehouseBatchCreated"
	EventTypeItemReceived = "WarehouseItemReceived"
)

// BatchCreatedEvent is raised when a new delivery batch is opened
type BatchCreatedEvent struct {
	shared.BaseDomainEvent
	BatchNumber int64 `json:"batch_number"`
}

// NewBatchCreatedEvent creates a new BatchCreatedEvent
func NewBatchCreatedEvent(batch *Batch) *BatchCreatedEvent {
	return &BatchCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchCreated, AggregateTypeWarehouseBatch, batch.ID, batch.TenantID),
		BatchNumber:     batch.BatchNumber,
	}
}

// EventType returns the event type name
func (e *BatchCreatedEvent) EventType() string {
	return EventTypeBatchCreated
}

// ItemReceivedEvent is raised when an ingredient line lands in a batch
type ItemReceivedEvent struct {
	shared.BaseDomainEvent
	BatchNumber    int64           `json:"batch_number"`
	IngredientID   uuid.UUID       `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
	TotalCost      decimal.Decimal `json:"total_cost"`
}

// NewItemReceivedEvent creates a new ItemReceivedEvent
func NewItemReceivedEvent(batch *Batch, item *Item) *ItemReceivedEvent {
	return &ItemReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemReceived, AggregateTypeWarehouseBatch, batch.ID, batch.TenantID),
		BatchNumber:     batch.BatchNumber,
		IngredientID:    item.IngredientID,
		IngredientName:  item.IngredientName,
		Unit:            item.Unit,
		Quantity:        item.Quantity,
		TotalCost:       item.TotalCost,
	}
}

// EventType returns the event type name
func (e *ItemReceivedEvent) EventType() string {
	return EventTypeItemReceived
}
