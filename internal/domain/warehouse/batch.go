package warehouse

import (
	"time"

	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Batch represents one purchased delivery arriving at the warehouse.
// Batches are numbered sequentially per tenant and are immutable after
// creation except for note edits. Each item added to a batch feeds one ADD
// transaction into the stock ledger.
type Batch struct {
	shared.TenantAggregateRoot
	BatchNumber int64     `gorm:"not null;uniqueIndex:idx_warehouse_batch_tenant_number,priority:2"`
	DateAdded   time.Time `gorm:"not null"`
	Note        string    `gorm:"type:varchar(500)"`

	Items []Item `gorm:"foreignKey:BatchID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Batch) TableName() string {
	return "warehouse_batches"
}

// Item is a single ingredient line within a delivery
type Item struct {
	shared.BaseEntity
	BatchID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	IngredientID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	IngredientName string          `gorm:"type:varchar(100);not null"`
	Unit           string          `gorm:"type:varchar(20);not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CostPerUnit    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalCost      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "warehouse_items"
}

// NewBatch creates a new warehouse batch with a caller-assigned sequential number
func NewBatch(tenantID uuid.UUID, batchNumber int64, dateAdded time.Time, note string) (*Batch, error) {
	if batchNumber <= 0 {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number must be positive")
	}
	if dateAdded.IsZero() {
		dateAdded = time.Now()
	}

	batch := &Batch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BatchNumber:         batchNumber,
		DateAdded:           dateAdded,
		Note:                note,
		Items:               make([]Item, 0),
	}
	batch.AddDomainEvent(NewBatchCreatedEvent(batch))
	return batch, nil
}

// AddItem appends an ingredient line to the batch. The caller is responsible
// for issuing the matching ADD ledger transaction in the same scope.
func (b *Batch) AddItem(ingredientID uuid.UUID, ingredientName, unit string, quantity, costPerUnit decimal.Decimal) (*Item, error) {
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
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Intake quantity must be positive")
	}
	if costPerUnit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Cost per unit cannot be negative")
	}

	item := Item{
		BaseEntity:     shared.NewBaseEntity(),
		BatchID:        b.ID,
		IngredientID:   ingredientID,
		IngredientName: ingredientName,
		Unit:           unit,
		Quantity:       quantity,
		CostPerUnit:    costPerUnit,
		TotalCost:      quantity.Mul(costPerUnit),
	}
	b.Items = append(b.Items, item)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewItemReceivedEvent(b, &item))
	return &b.Items[len(b.Items)-1], nil
}

// UpdateNote edits the free-text note, the only mutable field after intake
func (b *Batch) UpdateNote(note string) {
	b.Note = note
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// TotalCost returns the summed cost of every item in the delivery
func (b *Batch) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.TotalCost)
	}
	return total
}
