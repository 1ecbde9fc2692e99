package ledger

import (
	"context"
	"fmt"

	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationService is a domain service coordinating reservations across
// multiple StockLevel aggregates. A production batch reserves several
// ingredients at once and the outcome must be all-or-nothing: if any
// ingredient is short, no reservation takes effect.
//
// The service mutates the StockLevel aggregates in place and returns the
// ledger entries describing the mutation, but it does NOT persist anything.
// The caller retrieves the levels, invokes the service, then persists levels
// and transactions inside one transaction scope and publishes the events.
// On failure the service compensates in-memory reservations it already
// applied, so the aggregates are safe to discard or reuse either way.
type ReservationService struct{}

// NewReservationService creates a new reservation service
func NewReservationService() *ReservationService {
	return &ReservationService{}
}

// ReservationLine is a single ingredient quantity to reserve or release
type ReservationLine struct {
	Level    *StockLevel
	Quantity decimal.Decimal // Always positive
}

// ReservationRequest asks for stock to be reserved for a production batch
type ReservationRequest struct {
	Lines             []ReservationLine
	ProductionBatchID uuid.UUID
	Purpose           string
}

// Validate validates the reservation request
func (r *ReservationRequest) Validate() error {
	if len(r.Lines) == 0 {
		return shared.NewDomainError("INVALID_REQUEST", "At least one line is required for reservation")
	}
	if r.ProductionBatchID == uuid.Nil {
		return shared.NewDomainError("INVALID_REQUEST", "Production batch ID is required")
	}
	for i, line := range r.Lines {
		if line.Level == nil {
			return shared.NewDomainError("INVALID_REQUEST", fmt.Sprintf("Stock level at index %d is nil", i))
		}
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Quantity at index %d must be positive", i))
		}
	}
	return nil
}

// ReservationResult carries the ledger entries produced by a reservation
type ReservationResult struct {
	ReservationID uuid.UUID
	Transactions  []*StockTransaction
}

// Reserve applies RESERVE to every line, all-or-nothing. If any level cannot
// cover its requested quantity the reservations already applied are rolled
// back in memory and the shortage error for the failing ingredient is
// returned, naming the ingredient and the available amount.
func (s *ReservationService) Reserve(ctx context.Context, req ReservationRequest) (*ReservationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	reservationID := uuid.New()
	result := &ReservationResult{
		ReservationID: reservationID,
		Transactions:  make([]*StockTransaction, 0, len(req.Lines)),
	}

	applied := make([]ReservationLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		tx, err := s.applyLine(line.Level, TransactionTypeReserve, line.Quantity, "production reservation")
		if err != nil {
			// Roll back reservations already applied to earlier lines
			for _, done := range applied {
				_ = done.Level.Apply(TransactionTypeUnreserve, done.Quantity.Neg())
			}
			return nil, err
		}
		tx.WithProductionBatchID(req.ProductionBatchID)
		tx.WithReservation(reservationID, req.Purpose)
		line.Level.AddDomainEvent(NewStockReservedEvent(line.Level, line.Quantity, reservationID, req.ProductionBatchID, req.Purpose))
		result.Transactions = append(result.Transactions, tx)
		applied = append(applied, line)
	}

	return result, nil
}

// Release applies UNRESERVE to every line, returning reserved quantities to
// availability. Used when a pending or in-progress batch is deleted.
func (s *ReservationService) Release(ctx context.Context, productionBatchID uuid.UUID, lines []ReservationLine) ([]*StockTransaction, error) {
	transactions := make([]*StockTransaction, 0, len(lines))
	for i, line := range lines {
		if line.Level == nil {
			return nil, shared.NewDomainError("INVALID_REQUEST", fmt.Sprintf("Stock level at index %d is nil", i))
		}
		tx, err := s.applyLine(line.Level, TransactionTypeUnreserve, line.Quantity.Neg(), "production batch deleted")
		if err != nil {
			return nil, err
		}
		tx.WithProductionBatchID(productionBatchID)
		line.Level.AddDomainEvent(NewStockReleasedEvent(line.Level, line.Quantity, productionBatchID))
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// Consume applies PRODUCTION_COMPLETE to every line, removing the physical
// stock and its reservation in one step per ingredient so no intermediate
// state ever shows reserved greater than current.
func (s *ReservationService) Consume(ctx context.Context, productionBatchID uuid.UUID, lines []ReservationLine) ([]*StockTransaction, error) {
	transactions := make([]*StockTransaction, 0, len(lines))
	for i, line := range lines {
		if line.Level == nil {
			return nil, shared.NewDomainError("INVALID_REQUEST", fmt.Sprintf("Stock level at index %d is nil", i))
		}
		tx, err := s.applyLine(line.Level, TransactionTypeProductionComplete, line.Quantity.Neg(), "production completed")
		if err != nil {
			return nil, err
		}
		tx.WithProductionBatchID(productionBatchID)
		line.Level.AddDomainEvent(NewStockConsumedEvent(line.Level, line.Quantity, productionBatchID))
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// applyLine applies one mutation to a level and records a ledger entry with
// the balance snapshot around it
func (s *ReservationService) applyLine(level *StockLevel, txType TransactionType, quantity decimal.Decimal, reason string) (*StockTransaction, error) {
	currentBefore := level.CurrentStock
	reservedBefore := level.ReservedStock

	if err := level.Apply(txType, quantity); err != nil {
		return nil, err
	}

	tx, err := NewStockTransaction(level.TenantID, level.IngredientID, level.IngredientName, level.Unit, txType, quantity, reason)
	if err != nil {
		return nil, err
	}
	tx.RecordBalances(currentBefore, level.CurrentStock, reservedBefore, level.ReservedStock)
	return tx, nil
}
