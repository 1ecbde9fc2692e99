package production

import (
	"context"

	"github.com/brewdash/backend/internal/domain/ledger"
	"github.com/brewdash/backend/internal/domain/production"
)

// TransactionScope provides transactional access to the repositories the
// batch engine needs. Reservations span multiple ingredients and must be
// all-or-nothing, so the batch, its stock levels and their ledger entries
// are written in one database transaction.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the production repositories
// within a transaction. All repositories share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// BatchRepo returns the production batch repository scoped to the current transaction
	BatchRepo() production.BatchRepository
	// LevelRepo returns the stock level repository scoped to the current transaction
	LevelRepo() ledger.StockLevelRepository
	// TransactionRepo returns the ledger entry repository scoped to the current transaction
	TransactionRepo() ledger.StockTransactionRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	batchRepo       production.BatchRepository
	levelRepo       ledger.StockLevelRepository
	transactionRepo ledger.StockTransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	batchRepo production.BatchRepository,
	levelRepo ledger.StockLevelRepository,
	transactionRepo ledger.StockTransactionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		batchRepo:       batchRepo,
		levelRepo:       levelRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// BatchRepo returns the production batch repository
func (s *NoOpTransactionScope) BatchRepo() production.BatchRepository {
	return s.batchRepo
}

// LevelRepo returns the stock level repository
func (s *NoOpTransactionScope) LevelRepo() ledger.StockLevelRepository {
	return s.levelRepo
}

// TransactionRepo returns the ledger entry repository
func (s *NoOpTransactionScope) TransactionRepo() ledger.StockTransactionRepository {
	return s.transactionRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
