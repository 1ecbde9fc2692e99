package ledger

import (
	"context"
	"time"

	"github.com/brewdash/backend/internal/domain/ledger"
	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LowStockAlert is the dashboard-facing record of a threshold breach
type LowStockAlert struct {
	TenantID       uuid.UUID       `json:"tenant_id"`
	IngredientID   uuid.UUID       `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Unit           string          `json:"unit"`
	AvailableStock decimal.Decimal `json:"available_stock"`
	Threshold      decimal.Decimal `json:"threshold"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// AlertSink receives low stock alerts for later display
type AlertSink interface {
	RecordLowStockAlert(ctx context.Context, alert LowStockAlert) error
}

// StockAlertHandler reacts to StockBelowThreshold events by logging the
// shortage and recording an alert for the dashboard
type StockAlertHandler struct {
	sink   AlertSink
	logger *zap.Logger
}

// NewStockAlertHandler creates a new StockAlertHandler
func NewStockAlertHandler(sink AlertSink, logger *zap.Logger) *StockAlertHandler {
	return &StockAlertHandler{sink: sink, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *StockAlertHandler) EventTypes() []string {
	return []string{ledger.EventTypeStockBelowThreshold}
}

// Handle processes a domain event
func (h *StockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	breach, ok := event.(*ledger.StockBelowThresholdEvent)
	if !ok {
		return nil
	}

	h.logger.Warn("stock below threshold",
		zap.String("tenant_id", breach.TenantID().String()),
		zap.String("ingredient", breach.IngredientName),
		zap.String("unit", breach.Unit),
		zap.String("available", breach.AvailableStock.String()),
		zap.String("threshold", breach.LowStockThreshold.String()),
	)

	if h.sink == nil {
		return nil
	}
	return h.sink.RecordLowStockAlert(ctx, LowStockAlert{
		TenantID:       breach.TenantID(),
		IngredientID:   breach.IngredientID,
		IngredientName: breach.IngredientName,
		Unit:           breach.Unit,
		AvailableStock: breach.AvailableStock,
		Threshold:      breach.LowStockThreshold,
		OccurredAt:     breach.OccurredAt(),
	})
}

var _ shared.EventHandler = (*StockAlertHandler)(nil)
