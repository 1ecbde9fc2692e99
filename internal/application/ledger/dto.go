package ledger

import (
	"time"

	"github.com/brewdash/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLevelResponse represents a stock level in API responses
type StockLevelResponse struct {
	ID                uuid.UUID       `json:"id"`
	TenantID          uuid.UUID       `json:"tenant_id"`
	IngredientID      uuid.UUID       `json:"ingredient_id"`
	IngredientName    string          `json:"ingredient_name"`
	Unit              string          `json:"unit"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	ReservedStock     decimal.Decimal `json:"reserved_stock"`
	AvailableStock    decimal.Decimal `json:"available_stock"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	IsBelowThreshold  bool            `json:"is_below_threshold"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// ToStockLevelResponse converts a domain stock level to a response
func ToStockLevelResponse(level *ledger.StockLevel) StockLevelResponse {
	return StockLevelResponse{
		ID:                level.ID,
		TenantID:          level.TenantID,
		IngredientID:      level.IngredientID,
		IngredientName:    level.IngredientName,
		Unit:              level.Unit,
		CurrentStock:      level.CurrentStock,
		ReservedStock:     level.ReservedStock,
		AvailableStock:    level.AvailableForDisplay(),
		LowStockThreshold: level.LowStockThreshold,
		IsBelowThreshold:  level.IsBelowThreshold(),
		UpdatedAt:         level.UpdatedAt,
		Version:           level.GetVersion(),
	}
}

// ZeroStockLevelResponse builds the zeroed view returned for ingredients
// that have no ledger activity yet. Unknown ingredients are a valid resting
// state, never an error.
func ZeroStockLevelResponse(tenantID, ingredientID uuid.UUID, name, unit string) StockLevelResponse {
	return StockLevelResponse{
		TenantID:       tenantID,
		IngredientID:   ingredientID,
		IngredientName: name,
		Unit:           unit,
		CurrentStock:   decimal.Zero,
		ReservedStock:  decimal.Zero,
		AvailableStock: decimal.Zero,
	}
}

// StockTransactionResponse represents a ledger entry in API responses
type StockTransactionResponse struct {
	ID                 uuid.UUID       `json:"id"`
	IngredientID       uuid.UUID       `json:"ingredient_id"`
	IngredientName     string          `json:"ingredient_name"`
	Unit               string          `json:"unit"`
	TransactionType    string          `json:"transaction_type"`
	Quantity           decimal.Decimal `json:"quantity"`
	Reason             string          `json:"reason,omitempty"`
	BatchID            *uuid.UUID      `json:"batch_id,omitempty"`
	ProductionBatchID  *uuid.UUID      `json:"production_batch_id,omitempty"`
	ReservationID      *uuid.UUID      `json:"reservation_id,omitempty"`
	ReservationPurpose string          `json:"reservation_purpose,omitempty"`
	CurrentBefore      decimal.Decimal `json:"current_before"`
	CurrentAfter       decimal.Decimal `json:"current_after"`
	ReservedBefore     decimal.Decimal `json:"reserved_before"`
	ReservedAfter      decimal.Decimal `json:"reserved_after"`
	TransactionDate    time.Time       `json:"transaction_date"`
}

// ToStockTransactionResponse converts a domain ledger entry to a response
func ToStockTransactionResponse(tx *ledger.StockTransaction) StockTransactionResponse {
	return StockTransactionResponse{
		ID:                 tx.ID,
		IngredientID:       tx.IngredientID,
		IngredientName:     tx.IngredientName,
		Unit:               tx.Unit,
		TransactionType:    tx.TransactionType.String(),
		Quantity:           tx.Quantity,
		Reason:             tx.Reason,
		BatchID:            tx.BatchID,
		ProductionBatchID:  tx.ProductionBatchID,
		ReservationID:      tx.ReservationID,
		ReservationPurpose: tx.ReservationPurpose,
		CurrentBefore:      tx.CurrentBefore,
		CurrentAfter:       tx.CurrentAfter,
		ReservedBefore:     tx.ReservedBefore,
		ReservedAfter:      tx.ReservedAfter,
		TransactionDate:    tx.TransactionDate,
	}
}

// ApplyTransactionRequest represents a request to record a ledger transaction
type ApplyTransactionRequest struct {
	IngredientID       uuid.UUID       `json:"ingredient_id" binding:"required"`
	IngredientName     string          `json:"ingredient_name"`
	Unit               string          `json:"unit"`
	TransactionType    string          `json:"transaction_type" binding:"required"`
	Quantity           decimal.Decimal `json:"quantity" binding:"required"`
	Reason             string          `json:"reason"`
	BatchID            *uuid.UUID      `json:"batch_id"`
	ProductionBatchID  *uuid.UUID      `json:"production_batch_id"`
	ReservationPurpose string          `json:"reservation_purpose"`
}

// SetThresholdRequest represents a request to change a low stock threshold
type SetThresholdRequest struct {
	Threshold decimal.Decimal `json:"threshold"`
}

// TransactionListFilter represents filter options for the ledger history
type TransactionListFilter struct {
	IngredientID    *uuid.UUID `form:"ingredient_id"`
	TransactionType string     `form:"transaction_type"`
	StartDate       *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate         *time.Time `form:"end_date" time_format:"2006-01-02"`
	Page            int        `form:"page" binding:"omitempty,min=1"`
	PageSize        int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy         string     `form:"order_by"`
	OrderDir        string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
