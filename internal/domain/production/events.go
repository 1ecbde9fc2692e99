package production

import (
	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeProductionBatch = "ProductionBatch"

// Event type constants
const (
	EventTypeBatchCreated       = "ProductionBatchCreated"
	EventTypeBatchStatusChanged = "ProductionBatchStatusChanged"
	EventTypeBatchCompleted     = "ProductionBatchCompleted"
)

// BatchCreatedEvent is raised when a new production batch is opened
type BatchCreatedEvent struct {
	shared.BaseDomainEvent
	BatchNumber int64 `json:"batch_number"`
}

// NewBatchCreatedEvent creates a new BatchCreatedEvent
func NewBatchCreatedEvent(batch *Batch) *BatchCreatedEvent {
	return &BatchCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchCreated, AggregateTypeProductionBatch, batch.ID, batch.TenantID),
		BatchNumber:     batch.BatchNumber,
	}
}

// EventType returns the event type name
func (e *BatchCreatedEvent) EventType() string {
	return EventTypeBatchCreated
}

// BatchStatusChangedEvent is raised on every lifecycle transition
type BatchStatusChangedEvent struct {
	shared.BaseDomainEvent
	BatchNumber int64       `json:"batch_number"`
	FromStatus  BatchStatus `json:"from_status"`
	ToStatus    BatchStatus `json:"to_status"`
}

// NewBatchStatusChangedEvent creates a new BatchStatusChangedEvent
func NewBatchStatusChangedEvent(batch *Batch, from, to BatchStatus) *BatchStatusChangedEvent {
	return &BatchStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchStatusChanged, AggregateTypeProductionBatch, batch.ID, batch.TenantID),
		BatchNumber:     batch.BatchNumber,
		FromStatus:      from,
		ToStatus:        to,
	}
}

// EventType returns the event type name
func (e *BatchStatusChangedEvent) EventType() string {
	return EventTypeBatchStatusChanged
}

// BatchCompletedEvent is raised when a batch finishes and records its output
type BatchCompletedEvent struct {
	shared.BaseDomainEvent
	BatchNumber    int64           `json:"batch_number"`
	ProductName    string          `json:"product_name,omitempty"`
	OutputQuantity decimal.Decimal `json:"output_quantity"`
	OutputUnit     string          `json:"output_unit,omitempty"`
}

// NewBatchCompletedEvent creates a new BatchCompletedEvent
func NewBatchCompletedEvent(batch *Batch) *BatchCompletedEvent {
	return &BatchCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchCompleted, AggregateTypeProductionBatch, batch.ID, batch.TenantID),
		BatchNumber:     batch.BatchNumber,
		ProductName:     batch.Output.ProductName,
		OutputQuantity:  batch.Output.OutputQuantity,
		OutputUnit:      batch.Output.OutputUnit,
	}
}

// EventType returns the event type name
func (e *BatchCompletedEvent) EventType() string {
	return EventTypeBatchCompleted
}
