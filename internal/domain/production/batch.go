package production

import (
	"strings"
	"time"

	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchStatus represents the lifecycle state of a production batch
type BatchStatus string

const (
	// StatusPending means the batch is created and its ingredients are reserved
	StatusPending BatchStatus = "PENDING"
	// StatusInProgress means manufacturing has started
	StatusInProgress BatchStatus = "IN_PROGRESS"
	// StatusCompleted means the batch is finished and its reservations consumed
	StatusCompleted BatchStatus = "COMPLETED"
)

// String returns the string representation of BatchStatus
func (s BatchStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a known state
func (s BatchStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo returns true only for the immediate successor state.
// The lifecycle is strictly monotonic: PENDING to IN_PROGRESS to COMPLETED,
// no regression and no skipping.
func (s BatchStatus) CanTransitionTo(next BatchStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusCompleted
	}
	return false
}

// ParseStatus canonicalizes the loosely cased status strings seen in legacy
// data ("Completed", "completed", "In Progress", "in_progress") into the
// single serialization used everywhere else.
func ParseStatus(raw string) (BatchStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")

	status := BatchStatus(normalized)
	if !status.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", "Unknown batch status: "+raw)
	}
	return status, nil
}

// Output records what a completed batch produced. Informational only: the
// produced goods do not feed back into ingredient stock.
type Output struct {
	ProductName    string          `gorm:"type:varchar(100)" json:"product_name"`
	OutputQuantity decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"output_quantity"`
	OutputUnit     string          `gorm:"type:varchar(20)" json:"output_unit"`
}

// Batch represents one manufacturing run. Creating a batch reserves its
// ingredients in the stock ledger; completing it consumes the reservations.
type Batch struct {
	shared.TenantAggregateRoot
	BatchNumber int64       `gorm:"not null;uniqueIndex:idx_production_batch_tenant_number,priority:2"`
	DateCreated time.Time   `gorm:"not null"`
	Status      BatchStatus `gorm:"type:varchar(20);not null;index"`
	Output      Output      `gorm:"embedded"`

	Items []Item `gorm:"foreignKey:BatchID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Batch) TableName() string {
	return "production_batches"
}

// Item is a single reserved ingredient quantity within a production batch
type Item struct {
	shared.BaseEntity
	BatchID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	IngredientID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	IngredientName string          `gorm:"type:varchar(100);not null"`
	Unit           string          `gorm:"type:varchar(20);not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "production_items"
}

// NewBatch creates a new pending production batch
func NewBatch(tenantID uuid.UUID, batchNumber int64, dateCreated time.Time) (*Batch, error) {
	if batchNumber <= 0 {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number must be positive")
	}
	if dateCreated.IsZero() {
		dateCreated = time.Now()
	}

	batch := &Batch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BatchNumber:         batchNumber,
		DateCreated:         dateCreated,
		Status:              StatusPending,
		Items:               make([]Item, 0),
	}
	batch.AddDomainEvent(NewBatchCreatedEvent(batch))
	return batch, nil
}

// AddItem appends an ingredient line. Items can only change while the batch
// is still pending; the caller reserves the quantity in the same scope.
func (b *Batch) AddItem(ingredientID uuid.UUID, ingredientName, unit string, quantity decimal.Decimal) (*Item, error) {
	if b.Status != StatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Items can only be added to a pending batch")
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
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}

	item := Item{
		BaseEntity:     shared.NewBaseEntity(),
		BatchID:        b.ID,
		IngredientID:   ingredientID,
		IngredientName: ingredientName,
		Unit:           unit,
		Quantity:       quantity,
	}
	b.Items = append(b.Items, item)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return &b.Items[len(b.Items)-1], nil
}

// TransitionTo moves the batch to the next lifecycle state, rejecting
// anything but the immediate successor
func (b *Batch) TransitionTo(next BatchStatus) error {
	if !next.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown batch status: "+next.String())
	}
	if !b.Status.CanTransitionTo(next) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Cannot transition batch from "+b.Status.String()+" to "+next.String())
	}

	previous := b.Status
	b.Status = next
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBatchStatusChangedEvent(b, previous, next))
	return nil
}

// Complete transitions to COMPLETED and records the optional output data.
// Ledger consumption is the caller's responsibility within the same scope.
func (b *Batch) Complete(output *Output) error {
	if output != nil && output.OutputQuantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Output quantity cannot be negative")
	}
	if err := b.TransitionTo(StatusCompleted); err != nil {
		return err
	}
	if output != nil {
		b.Output = *output
	}
	b.AddDomainEvent(NewBatchCompletedEvent(b))
	return nil
}

// IsCompleted returns true once the batch has consumed its reservations
func (b *Batch) IsCompleted() bool {
	return b.Status == StatusCompleted
}

// HoldsReservations returns true while the batch still has live reservations
// that deletion must release before removal
func (b *Batch) HoldsReservations() bool {
	return b.Status == StatusPending || b.Status == StatusInProgress
}
