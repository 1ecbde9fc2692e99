package warehouse

import (
	"context"
	"time"

	ledgerapp "github.com/brewdash/backend/internal/application/ledger"
	"github.com/brewdash/backend/internal/domain/catalog"
	"github.com/brewdash/backend/internal/domain/ledger"
	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/brewdash/backend/internal/domain/warehouse"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IntakeService receives purchased ingredient batches and feeds their
// quantities into the stock ledger as ADD transactions
type IntakeService struct {
	txScope        TransactionScope
	batchRepo      warehouse.BatchRepository
	ingredientRepo catalog.IngredientRepository
	eventPublisher shared.EventPublisher
}

// NewIntakeService creates a new IntakeService
func NewIntakeService(
	txScope TransactionScope,
	batchRepo warehouse.BatchRepository,
	ingredientRepo catalog.IngredientRepository,
) *IntakeService {
	return &IntakeService{
		txScope:        txScope,
		batchRepo:      batchRepo,
		ingredientRepo: ingredientRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *IntakeService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *IntakeService) publishDomainEvents(ctx context.Context, roots ...shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, root := range roots {
		if root == nil {
			continue
		}
		events := root.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		_ = s.eventPublisher.Publish(ctx, events...)
		root.ClearDomainEvents()
	}
}

// CreateBatch opens a new intake batch with the next sequential number
func (s *IntakeService) CreateBatch(ctx context.Context, tenantID uuid.UUID, req CreateBatchRequest) (*BatchResponse, error) {
	dateAdded := time.Now()
	if req.DateAdded != nil {
		dateAdded = *req.DateAdded
	}

	var batch *warehouse.Batch
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		number, err := repos.BatchRepo().NextBatchNumber(ctx, tenantID)
		if err != nil {
			return err
		}
		batch, err = warehouse.NewBatch(tenantID, number, dateAdded, req.Note)
		if err != nil {
			return err
		}
		return repos.BatchRepo().Save(ctx, batch)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, batch)
	response := ToBatchResponse(batch)
	return &response, nil
}

// intakeItems appends the items to the batch and issues one ADD ledger
// transaction per item against the scope's repositories. The caller saves
// the batch afterwards, inside the same scope.
func (s *IntakeService) intakeItems(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, batch *warehouse.Batch, items []IntakeItemRequest) ([]*ledger.StockLevel, error) {
	touched := make([]*ledger.StockLevel, 0, len(items))
	for _, item := range items {
		ingredient, err := s.ingredientRepo.FindByIDForTenant(ctx, tenantID, item.IngredientID)
		if err != nil {
			return nil, err
		}

		added, err := batch.AddItem(ingredient.ID, ingredient.Name, ingredient.Unit, item.Quantity, item.CostPerUnit)
		if err != nil {
			return nil, err
		}

		level, _, err := ledgerapp.ApplyInScope(ctx, repos.LevelRepo(), repos.TransactionRepo(), tenantID, ledgerapp.ApplyParams{
			IngredientID:   added.IngredientID,
			IngredientName: added.IngredientName,
			Unit:           added.Unit,
			Type:           ledger.TransactionTypeAdd,
			Quantity:       added.Quantity,
			Reason:         "warehouse intake",
			BatchID:        &batch.ID,
		})
		if err != nil {
			return nil, err
		}
		touched = append(touched, level)
	}
	return touched, nil
}

// AddItemsToBatch persists the items and issues one ADD ledger transaction
// per item. Item insertion and its ledger entry are one unit: if any ledger
// write fails, every write in the call rolls back.
func (s *IntakeService) AddItemsToBatch(ctx context.Context, tenantID, batchID uuid.UUID, items []IntakeItemRequest) (*BatchResponse, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_REQUEST", "At least one item is required")
	}

	var batch *warehouse.Batch
	var touchedLevels []*ledger.StockLevel
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		batch, err = repos.BatchRepo().FindByIDForTenant(ctx, tenantID, batchID)
		if err != nil {
			return err
		}

		touchedLevels, err = s.intakeItems(ctx, repos, tenantID, batch, items)
		if err != nil {
			return err
		}

		return repos.BatchRepo().Save(ctx, batch)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, batch)
	for _, level := range touchedLevels {
		s.publishDomainEvents(ctx, level)
	}

	response := ToBatchResponse(batch)
	return &response, nil
}

// AddFromShoppingList creates a batch and receives items derived from a
// procurement shopping list in one transaction, so a failing intake leaves
// no half-filled batch behind. It reports a result object instead of an
// error so the UI can render the failure inline.
func (s *IntakeService) AddFromShoppingList(ctx context.Context, tenantID uuid.UUID, req IntakeFromShoppingListRequest) *IntakeResult {
	if len(req.Items) == 0 {
		return &IntakeResult{Success: false, Error: "shopping list is empty"}
	}

	items := make([]IntakeItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		costPerUnit := decimal.Zero
		if item.Quantity.GreaterThan(decimal.Zero) {
			costPerUnit = item.TotalCost.Div(item.Quantity)
		}
		items = append(items, IntakeItemRequest{
			IngredientID: item.IngredientID,
			Quantity:     item.Quantity,
			CostPerUnit:  costPerUnit,
		})
	}

	var batch *warehouse.Batch
	var touchedLevels []*ledger.StockLevel
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		number, err := repos.BatchRepo().NextBatchNumber(ctx, tenantID)
		if err != nil {
			return err
		}
		batch, err = warehouse.NewBatch(tenantID, number, time.Now(), req.Note)
		if err != nil {
			return err
		}

		touchedLevels, err = s.intakeItems(ctx, repos, tenantID, batch, items)
		if err != nil {
			return err
		}

		return repos.BatchRepo().Save(ctx, batch)
	})
	if err != nil {
		return &IntakeResult{Success: false, Error: err.Error()}
	}

	s.publishDomainEvents(ctx, batch)
	for _, level := range touchedLevels {
		s.publishDomainEvents(ctx, level)
	}

	response := ToBatchResponse(batch)
	return &IntakeResult{Success: true, Batch: &response}
}

// UpdateNote edits the free-text note of an existing batch
func (s *IntakeService) UpdateNote(ctx context.Context, tenantID, batchID uuid.UUID, req UpdateNoteRequest) (*BatchResponse, error) {
	var batch *warehouse.Batch
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		batch, err = repos.BatchRepo().FindByIDForTenant(ctx, tenantID, batchID)
		if err != nil {
			return err
		}
		batch.UpdateNote(req.Note)
		return repos.BatchRepo().Save(ctx, batch)
	})
	if err != nil {
		return nil, err
	}

	response := ToBatchResponse(batch)
	return &response, nil
}

// GetBatch returns a batch with its items
func (s *IntakeService) GetBatch(ctx context.Context, tenantID, batchID uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByIDForTenant(ctx, tenantID, batchID)
	if err != nil {
		return nil, err
	}
	response := ToBatchResponse(batch)
	return &response, nil
}

// ListBatches returns a page of intake batches for a tenant
func (s *IntakeService) ListBatches(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[BatchResponse], error) {
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
		responses[i] = ToBatchResponse(&batches[i])
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}
