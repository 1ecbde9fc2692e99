package ledger

import (
	"context"

	"github.com/brewdash/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to ledger repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically. The stock level update and its ledger entry must never
// be persisted separately.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repositories
// within a transaction. Both repositories share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// LevelRepo returns the stock level repository scoped to the current transaction
	LevelRepo() ledger.StockLevelRepository
	// TransactionRepo returns the ledger entry repository scoped to the current transaction
	TransactionRepo() ledger.StockTransactionRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	levelRepo       ledger.StockLevelRepository
	transactionRepo ledger.StockTransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	levelRepo ledger.StockLevelRepository,
	transactionRepo ledger.StockTransactionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		levelRepo:       levelRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
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
