package warehouse

import (
	"time"

	"github.com/brewdash/backend/internal/domain/warehouse"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBatchRequest represents a request to open a new intake batch
type CreateBatchRequest struct {
	DateAdded *time.Time `json:"date_added"`
	Note      string     `json:"note" binding:"max=500"`
}

// IntakeItemRequest represents one ingredient line to receive
type IntakeItemRequest struct {
	IngredientID uuid.UUID       `json:"ingredient_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required,dgt0"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
}

// UpdateNoteRequest represents a request to edit a batch note
type UpdateNoteRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// ItemResponse represents a warehouse item in API responses
type ItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	IngredientID   uuid.UUID       `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
	CostPerUnit    decimal.Decimal `json:"cost_per_unit"`
	TotalCost      decimal.Decimal `json:"total_cost"`
}

// BatchResponse represents a warehouse batch in API responses
type BatchResponse struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	BatchNumber int64           `json:"batch_number"`
	DateAdded   time.Time       `json:"date_added"`
	Note        string          `json:"note,omitempty"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	Items       []ItemResponse  `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToBatchResponse converts a domain batch to a response
func ToBatchResponse(batch *warehouse.Batch) BatchResponse {
	items := make([]ItemResponse, len(batch.Items))
	for i, item := range batch.Items {
		items[i] = ItemResponse{
			ID:             item.ID,
			IngredientID:   item.IngredientID,
			IngredientName: item.IngredientName,
			Unit:           item.Unit,
			Quantity:       item.Quantity,
			CostPerUnit:    item.CostPerUnit,
			TotalCost:      item.TotalCost,
		}
	}
	return BatchResponse{
		ID:          batch.ID,
		TenantID:    batch.TenantID,
		BatchNumber: batch.BatchNumber,
		DateAdded:   batch.DateAdded,
		Note:        batch.Note,
		TotalCost:   batch.TotalCost(),
		Items:       items,
		CreatedAt:   batch.CreatedAt,
		UpdatedAt:   batch.UpdatedAt,
	}
}

// ShoppingListIntakeItem is one purchased line derived from a shopping list
type ShoppingListIntakeItem struct {
	IngredientID uuid.UUID       `json:"ingredient_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required,dgt0"` // Whole base units actually bought
	TotalCost    decimal.Decimal `json:"total_cost"`
}

// IntakeFromShoppingListRequest receives a purchased shopping list as a batch
type IntakeFromShoppingListRequest struct {
	Items []ShoppingListIntakeItem `json:"items" binding:"required,min=1,dive"`
	Note  string                   `json:"note" binding:"max=500"`
}

// IntakeResult reports the outcome of a shopping list intake as data rather
// than an error, so UI layers can render inline messages
type IntakeResult struct {
	Success bool           `json:"success"`
	Batch   *BatchResponse `json:"batch,omitempty"`
	Error   string         `json:"error,omitempty"`
}
