package production

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brewdash/backend/internal/domain/catalog"
	"github.com/brewdash/backend/internal/domain/ledger"
	"github.com/brewdash/backend/internal/domain/production"
	"github.com/brewdash/backend/internal/domain/shared"
)

// BatchService drives the production batch lifecycle. Creating a batch
// reserves every ingredient atomically, completion consumes the
// reservations, and deletion releases whatever is still held. All stock
// movement goes through the ledger inside the same transaction scope as
// the batch write.
type BatchService struct {
	txScope        TransactionScope
	batchRepo      production.BatchRepository
	ingredientRepo catalog.IngredientRepository
	reservations   *ledger.ReservationService
	eventPublisher shared.EventPublisher
}

// NewBatchService creates a new BatchService
func NewBatchService(
	txScope TransactionScope,
	batchRepo production.BatchRepository,
	ingredientRepo catalog.IngredientRepository,
) *BatchService {
	return &BatchService{
		txScope:        txScope,
		batchRepo:      batchRepo,
		ingredientRepo: ingredientRepo,
		reservations:   ledger.NewReservationService(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BatchService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes pending events of the given aggregates
func (s *BatchService) publishDomainEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, aggregate := range aggregates {
		if aggregate == nil {
			continue
		}
		events := aggregate.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		_ = s.eventPublisher.Publish(ctx, events...)
		aggregate.ClearDomainEvents()
	}
}

// CreateBatch creates a pending batch and reserves all of its ingredients
// in one transaction. If any ingredient is short the whole operation fails
// and no stock moves.
func (s *BatchService) CreateBatch(ctx context.Context, tenantID uuid.UUID, req CreateBatchRequest) (*BatchResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_REQUEST", "A production batch needs at least one ingredient")
	}

	dateCreated := time.Now()
	if req.DateCreated != nil {
		dateCreated = *req.DateCreated
	}

	var batch *production.Batch
	var touched []*ledger.StockLevel
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		batchNumber, err := repos.BatchRepo().NextBatchNumber(ctx, tenantID)
		if err != nil {
			return err
		}
		batch, err = production.NewBatch(tenantID, batchNumber, dateCreated)
		if err != nil {
			return err
		}

		// Load each level once; two lines for the same ingredient must
		// share one aggregate or the availability check would double count.
		levels := make(map[uuid.UUID]*ledger.StockLevel)
		created := make(map[uuid.UUID]bool)
		lines := make([]ledger.ReservationLine, 0, len(req.Items))
		for _, item := range req.Items {
			ingredient, err := s.ingredientRepo.FindByIDForTenant(ctx, tenantID, item.IngredientID)
			if err != nil {
				return err
			}

			level, ok := levels[item.IngredientID]
			if !ok {
				level, err = repos.LevelRepo().FindByIngredient(ctx, tenantID, item.IngredientID)
				if err != nil {
					return err
				}
				if level == nil {
					// No ledger activity yet, so nothing is available.
					// Reserving against the zeroed level produces the
					// shortage error naming the ingredient.
					level, err = ledger.NewStockLevel(tenantID, item.IngredientID, ingredient.Name, ingredient.Unit)
					if err != nil {
						return err
					}
					created[item.IngredientID] = true
				}
				levels[item.IngredientID] = level
			}

			if _, err := batch.AddItem(item.IngredientID, ingredient.Name, ingredient.Unit, item.Quantity); err != nil {
				return err
			}
			lines = append(lines, ledger.ReservationLine{Level: level, Quantity: item.Quantity})
		}

		result, err := s.reservations.Reserve(ctx, ledger.ReservationRequest{
			Lines:             lines,
			ProductionBatchID: batch.ID,
			Purpose:           "production batch",
		})
		if err != nil {
			return err
		}

		for ingredientID, level := range levels {
			if created[ingredientID] {
				if err := repos.LevelRepo().Save(ctx, level); err != nil {
					return err
				}
			} else if err := repos.LevelRepo().SaveWithLock(ctx, level); err != nil {
				return err
			}
			touched = append(touched, level)
		}
		if err := repos.TransactionRepo().CreateBatch(ctx, result.Transactions); err != nil {
			return err
		}
		return repos.BatchRepo().Save(ctx, batch)
	})
	if err != nil {
		return nil, err
	}

	aggregates := make([]shared.AggregateRoot, 0, len(touched)+1)
	aggregates = append(aggregates, batch)
	for _, level := range touched {
		aggregates = append(aggregates, level)
	}
	s.publishDomainEvents(ctx, aggregates...)

	return ToBatchResponse(batch), nil
}

// UpdateStatus moves a batch to the next lifecycle state. Transitioning to
// COMPLETED consumes the reservations: current and reserved stock both drop
// by the reserved quantity for every ingredient, atomically with the batch.
func (s *BatchService) UpdateStatus(ctx context.Context, tenantID, batchID uuid.UUID, req UpdateStatusRequest) (*BatchResponse, error) {
	status, err := production.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	var batch *production.Batch
	var touched []*ledger.StockLevel
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		batch, err = repos.BatchRepo().FindByIDForTenant(ctx, tenantID, batchID)
		if err != nil {
			return err
		}

		if status != production.StatusCompleted {
			if err := batch.TransitionTo(status); err != nil {
				return err
			}
			return repos.BatchRepo().SaveWithLock(ctx, batch)
		}

		var output *production.Output
		if req.Output != nil {
			output = &production.Output{
				ProductName:    req.Output.ProductName,
				OutputQuantity: req.Output.OutputQuantity,
				OutputUnit:     req.Output.OutputUnit,
			}
		}
		if err := batch.Complete(output); err != nil {
			return err
		}

		lines, levels, err := s.loadLines(ctx, repos, batch)
		if err != nil {
			return err
		}
		entries, err := s.reservations.Consume(ctx, batch.ID, lines)
		if err != nil {
			return err
		}
		for _, level := range levels {
			if err := repos.LevelRepo().SaveWithLock(ctx, level); err != nil {
				return err
			}
			touched = append(touched, level)
		}
		if err := repos.TransactionRepo().CreateBatch(ctx, entries); err != nil {
			return err
		}
		return repos.BatchRepo().SaveWithLock(ctx, batch)
	})
	if err != nil {
		return nil, err
	}

	aggregates := make([]shared.AggregateRoot, 0, len(touched)+1)
	aggregates = append(aggregates, batch)
	for _, level := range touched {
		aggregates = append(aggregates, level)
	}
	s.publishDomainEvents(ctx, aggregates...)

	return ToBatchResponse(batch), nil
}

// DeleteBatch removes a batch. Pending and in-progress batches still hold
// reservations, which are released back to availability in the same
// transaction. Deleting a completed batch is pure record removal; the
// consumed stock stays consumed.
func (s *BatchService) DeleteBatch(ctx context.Context, tenantID, batchID uuid.UUID) error {
	var touched []*ledger.StockLevel
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		batch, err := repos.BatchRepo().FindByIDForTenant(ctx, tenantID, batchID)
		if err != nil {
			return err
		}

		if batch.HoldsReservations() {
			lines, levels, err := s.loadLines(ctx, repos, batch)
			if err != nil {
				return err
			}
			entries, err := s.reservations.Release(ctx, batch.ID, lines)
			if err != nil {
				return err
			}
			for _, level := range levels {
				if err := repos.LevelRepo().SaveWithLock(ctx, level); err != nil {
					return err
				}
				touched = append(touched, level)
			}
			if err := repos.TransactionRepo().CreateBatch(ctx, entries); err != nil {
				return err
			}
		}

		return repos.BatchRepo().DeleteForTenant(ctx, tenantID, batchID)
	})
	if err != nil {
		return err
	}

	aggregates := make([]shared.AggregateRoot, 0, len(touched))
	for _, level := range touched {
		aggregates = append(aggregates, level)
	}
	s.publishDomainEvents(ctx, aggregates...)
	return nil
}

// GetBatch returns a batch with its items
func (s *BatchService) GetBatch(ctx context.Context, tenantID, batchID uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByIDForTenant(ctx, tenantID, batchID)
	if err != nil {
		return nil, err
	}
	return ToBatchResponse(batch), nil
}

// ListBatches returns a page of batches for a tenant
func (s *BatchService) ListBatches(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[BatchResponse], error) {
	batches, err := s.batchRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.batchRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]BatchResponse, len(batches))
	for i := range batches {
		responses[i] = *ToBatchResponse(&batches[i])
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListByStatus returns batches in a given lifecycle state
func (s *BatchService) ListByStatus(ctx context.Context, tenantID uuid.UUID, rawStatus string, filter shared.Filter) ([]BatchResponse, error) {
	status, err := production.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	batches, err := s.batchRepo.FindByStatus(ctx, tenantID, status, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]BatchResponse, len(batches))
	for i := range batches {
		responses[i] = *ToBatchResponse(&batches[i])
	}
	return responses, nil
}

// loadLines builds reservation lines from a batch's items against freshly
// loaded stock levels, merging duplicate ingredients onto one aggregate
func (s *BatchService) loadLines(ctx context.Context, repos TransactionalRepositories, batch *production.Batch) ([]ledger.ReservationLine, map[uuid.UUID]*ledger.StockLevel, error) {
	levels := make(map[uuid.UUID]*ledger.StockLevel)
	lines := make([]ledger.ReservationLine, 0, len(batch.Items))
	for _, item := range batch.Items {
		level, ok := levels[item.IngredientID]
		if !ok {
			var err error
			level, err = repos.LevelRepo().FindByIngredient(ctx, batch.TenantID, item.IngredientID)
			if err != nil {
				return nil, nil, err
			}
			if level == nil {
				return nil, nil, shared.NewDomainError("INVALID_STATE",
					"No stock level exists for reserved ingredient "+item.IngredientName)
			}
			levels[item.IngredientID] = level
		}
		lines = append(lines, ledger.ReservationLine{Level: level, Quantity: item.Quantity})
	}
	return lines, levels, nil
}
