package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brewdash/backend/internal/domain/production"
)

// BatchItemRequest is one ingredient line of a new production batch
type BatchItemRequest struct {
	IngredientID uuid.UUID       `json:"ingredient_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required,dgt0"`
}

// CreateBatchRequest creates a production batch and reserves its ingredients
type CreateBatchRequest struct {
	DateCreated *time.Time         `json:"date_created,omitempty"`
	Items       []BatchItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OutputRequest describes what a completed batch produced
type OutputRequest struct {
	ProductName    string          `json:"product_name" binding:"required"`
	OutputQuantity decimal.Decimal `json:"output_quantity" binding:"required,dgt0"`
	OutputUnit     string          `json:"output_unit" binding:"required"`
}

// UpdateStatusRequest moves a batch along its lifecycle. Output is required
// when the target status is COMPLETED and ignored otherwise.
type UpdateStatusRequest struct {
	Status string         `json:"status" binding:"required"`
	Output *OutputRequest `json:"output,omitempty"`
}

// BatchItemResponse is the API representation of a batch ingredient line
type BatchItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	IngredientID   uuid.UUID       `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
}

// BatchResponse is the API representation of a production batch
type BatchResponse struct {
	ID             uuid.UUID           `json:"id"`
	BatchNumber    int64               `json:"batch_number"`
	DateCreated    time.Time           `json:"date_created"`
	Status         string              `json:"status"`
	ProductName    string              `json:"product_name,omitempty"`
	OutputQuantity decimal.Decimal     `json:"output_quantity"`
	OutputUnit     string              `json:"output_unit,omitempty"`
	Items          []BatchItemResponse `json:"items"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// ToBatchResponse converts a production batch to its API representation
func ToBatchResponse(b *production.Batch) *BatchResponse {
	items := make([]BatchItemResponse, 0, len(b.Items))
	for _, item := range b.Items {
		items = append(items, BatchItemResponse{
			ID:             item.ID,
			IngredientID:   item.IngredientID,
			IngredientName: item.IngredientName,
			Unit:           item.Unit,
			Quantity:       item.Quantity,
		})
	}

	return &BatchResponse{
		ID:             b.ID,
		BatchNumber:    b.BatchNumber,
		DateCreated:    b.DateCreated,
		Status:         string(b.Status),
		ProductName:    b.Output.ProductName,
		OutputQuantity: b.Output.OutputQuantity,
		OutputUnit:     b.Output.OutputUnit,
		Items:          items,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
