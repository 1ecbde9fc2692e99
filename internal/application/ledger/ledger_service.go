package ledger

import (
	"context"

	"github.com/brewdash/backend/internal/domain/catalog"
	"github.com/brewdash/backend/internal/domain/ledger"
	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerService exposes the stock ledger to the rest of the application.
// Transactions are the only legal mutation path for stock; everything else
// is read-only derivation over the materialized levels.
type LedgerService struct {
	txScope         TransactionScope
	levelRepo       ledger.StockLevelRepository
	transactionRepo ledger.StockTransactionRepository
	ingredientRepo  catalog.IngredientRepository
	eventPublisher  shared.EventPublisher
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	txScope TransactionScope,
	levelRepo ledger.StockLevelRepository,
	transactionRepo ledger.StockTransactionRepository,
	ingredientRepo catalog.IngredientRepository,
) *LedgerService {
	return &LedgerService{
		txScope:         txScope,
		levelRepo:       levelRepo,
		transactionRepo: transactionRepo,
		ingredientRepo:  ingredientRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes the pending events of a stock level
func (s *LedgerService) publishDomainEvents(ctx context.Context, level *ledger.StockLevel) {
	if s.eventPublisher == nil || level == nil {
		return
	}
	events := level.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Errors are logged by the event bus, not propagated
	_ = s.eventPublisher.Publish(ctx, events...)
	level.ClearDomainEvents()
}

// resolveIngredient fills name and unit from the catalog when the caller
// did not provide them
func (s *LedgerService) resolveIngredient(ctx context.Context, tenantID uuid.UUID, req *ApplyTransactionRequest) error {
	if req.IngredientName != "" && req.Unit != "" {
		return nil
	}
	ingredient, err := s.ingredientRepo.FindByIDForTenant(ctx, tenantID, req.IngredientID)
	if err != nil {
		return err
	}
	if req.IngredientName == "" {
		req.IngredientName = ingredient.Name
	}
	if req.Unit == "" {
		req.Unit = ingredient.Unit
	}
	return nil
}

// ApplyTransaction appends a ledger transaction and atomically updates the
// corresponding stock level. The polarity of the quantity must match the
// transaction type, and the resulting level must keep 0 <= reserved <= current.
func (s *LedgerService) ApplyTransaction(ctx context.Context, tenantID uuid.UUID, req ApplyTransactionRequest) (*StockTransactionResponse, error) {
	txType := ledger.TransactionType(req.TransactionType)
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type: "+req.TransactionType)
	}
	if err := s.resolveIngredient(ctx, tenantID, &req); err != nil {
		return nil, err
	}

	var level *ledger.StockLevel
	var entry *ledger.StockTransaction
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var applyErr error
		level, entry, applyErr = ApplyInScope(ctx, repos.LevelRepo(), repos.TransactionRepo(), tenantID, ApplyParams{
			IngredientID:       req.IngredientID,
			IngredientName:     req.IngredientName,
			Unit:               req.Unit,
			Type:               txType,
			Quantity:           req.Quantity,
			Reason:             req.Reason,
			BatchID:            req.BatchID,
			ProductionBatchID:  req.ProductionBatchID,
			ReservationPurpose: req.ReservationPurpose,
		})
		return applyErr
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, level)

	response := ToStockTransactionResponse(entry)
	return &response, nil
}

// GetStockLevel returns the stock level for an ingredient, or a zeroed view
// when no ledger activity exists yet. Unknown ingredients never error.
func (s *LedgerService) GetStockLevel(ctx context.Context, tenantID, ingredientID uuid.UUID) (*StockLevelResponse, error) {
	level, err := s.levelRepo.FindByIngredient(ctx, tenantID, ingredientID)
	if err != nil {
		return nil, err
	}
	if level == nil {
		name, unit := "", ""
		if ingredient, err := s.ingredientRepo.FindByIDForTenant(ctx, tenantID, ingredientID); err == nil && ingredient != nil {
			name, unit = ingredient.Name, ingredient.Unit
		}
		response := ZeroStockLevelResponse(tenantID, ingredientID, name, unit)
		return &response, nil
	}
	response := ToStockLevelResponse(level)
	return &response, nil
}

// GetAvailable returns current minus reserved, clamped at zero for display
func (s *LedgerService) GetAvailable(ctx context.Context, tenantID, ingredientID uuid.UUID) (decimal.Decimal, error) {
	level, err := s.levelRepo.FindByIngredient(ctx, tenantID, ingredientID)
	if err != nil {
		return decimal.Zero, err
	}
	if level == nil {
		return decimal.Zero, nil
	}
	return level.AvailableForDisplay(), nil
}

// ListStockLevels returns a page of stock levels for a tenant
func (s *LedgerService) ListStockLevels(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[StockLevelResponse], error) {
	levels, err := s.levelRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.levelRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]StockLevelResponse, len(levels))
	for i := range levels {
		responses[i] = ToStockLevelResponse(&levels[i])
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListLowStock returns levels whose available stock is under their threshold
func (s *LedgerService) ListLowStock(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockLevelResponse, error) {
	levels, err := s.levelRepo.FindBelowThreshold(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]StockLevelResponse, len(levels))
	for i := range levels {
		responses[i] = ToStockLevelResponse(&levels[i])
	}
	return responses, nil
}

// ListTransactions returns a page of the ledger history
func (s *LedgerService) ListTransactions(ctx context.Context, tenantID uuid.UUID, filter TransactionListFilter) (*shared.Paginated[StockTransactionResponse], error) {
	repoFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		repoFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		repoFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		repoFilter.OrderBy = filter.OrderBy
	} else {
		repoFilter.OrderBy = "transaction_date"
	}
	if filter.OrderDir != "" {
		repoFilter.OrderDir = filter.OrderDir
	}
	if filter.TransactionType != "" {
		repoFilter.Filters["transaction_type"] = filter.TransactionType
	}

	var entries []ledger.StockTransaction
	var err error
	switch {
	case filter.IngredientID != nil:
		entries, err = s.transactionRepo.FindByIngredient(ctx, tenantID, *filter.IngredientID, repoFilter)
	case filter.StartDate != nil && filter.EndDate != nil:
		entries, err = s.transactionRepo.FindByDateRange(ctx, tenantID, *filter.StartDate, *filter.EndDate, repoFilter)
	default:
		entries, err = s.transactionRepo.FindForTenant(ctx, tenantID, repoFilter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.transactionRepo.CountForTenant(ctx, tenantID, repoFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]StockTransactionResponse, len(entries))
	for i := range entries {
		responses[i] = ToStockTransactionResponse(&entries[i])
	}
	result := shared.NewPaginated(responses, total, repoFilter.Page, repoFilter.PageSize)
	return &result, nil
}

// SetLowStockThreshold changes the alert threshold for an ingredient,
// creating the level lazily when none exists yet
func (s *LedgerService) SetLowStockThreshold(ctx context.Context, tenantID, ingredientID uuid.UUID, threshold decimal.Decimal) (*StockLevelResponse, error) {
	var level *ledger.StockLevel
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.LevelRepo().FindByIngredient(ctx, tenantID, ingredientID)
		if err != nil {
			return err
		}
		if found == nil {
			ingredient, err := s.ingredientRepo.FindByIDForTenant(ctx, tenantID, ingredientID)
			if err != nil {
				return err
			}
			found, err = ledger.NewStockLevel(tenantID, ingredientID, ingredient.Name, ingredient.Unit)
			if err != nil {
				return err
			}
			if err := found.SetLowStockThreshold(threshold); err != nil {
				return err
			}
			level = found
			return repos.LevelRepo().Save(ctx, found)
		}
		if err := found.SetLowStockThreshold(threshold); err != nil {
			return err
		}
		level = found
		return repos.LevelRepo().SaveWithLock(ctx, found)
	})
	if err != nil {
		return nil, err
	}

	response := ToStockLevelResponse(level)
	return &response, nil
}

// LedgerAuditResponse compares the materialized level with the replayed ledger
type LedgerAuditResponse struct {
	IngredientID          uuid.UUID       `json:"ingredient_id"`
	CurrentStock          decimal.Decimal `json:"current_stock"`
	ReservedStock         decimal.Decimal `json:"reserved_stock"`
	LedgerCurrentBalance  decimal.Decimal `json:"ledger_current_balance"`
	LedgerReservedBalance decimal.Decimal `json:"ledger_reserved_balance"`
	Consistent            bool            `json:"consistent"`
}

// AuditIngredient replays the ledger for one ingredient and checks that the
// materialized level matches the summed transaction history. The level is in
// principle always recomputable from the log; a mismatch indicates a write
// that bypassed the ledger.
func (s *LedgerService) AuditIngredient(ctx context.Context, tenantID, ingredientID uuid.UUID) (*LedgerAuditResponse, error) {
	level, err := s.levelRepo.FindByIngredient(ctx, tenantID, ingredientID)
	if err != nil {
		return nil, err
	}

	currentBalance := decimal.Zero
	reservedBalance := decimal.Zero
	for _, txType := range []ledger.TransactionType{
		ledger.TransactionTypeAdd,
		ledger.TransactionTypeDeduct,
		ledger.TransactionTypeAdjust,
		ledger.TransactionTypeReserve,
		ledger.TransactionTypeUnreserve,
		ledger.TransactionTypeProductionComplete,
	} {
		sum, err := s.transactionRepo.SumQuantityByType(ctx, tenantID, ingredientID, txType)
		if err != nil {
			return nil, err
		}
		if txType.AffectsCurrentStock() {
			currentBalance = currentBalance.Add(sum)
		}
		if txType.AffectsReservedStock() {
			reservedBalance = reservedBalance.Add(sum)
		}
	}

	audit := &LedgerAuditResponse{
		IngredientID:          ingredientID,
		LedgerCurrentBalance:  currentBalance,
		LedgerReservedBalance: reservedBalance,
	}
	if level != nil {
		audit.CurrentStock = level.CurrentStock
		audit.ReservedStock = level.ReservedStock
	} else {
		audit.CurrentStock = decimal.Zero
		audit.ReservedStock = decimal.Zero
	}
	audit.Consistent = audit.CurrentStock.Equal(currentBalance) && audit.ReservedStock.Equal(reservedBalance)
	return audit, nil
}
