package persistence

import (
	"context"

	appledger "github.com/brewdash/backend/internal/application/ledger"
	"github.com/brewdash/backend/internal/domain/ledger"
	"gorm.io/gorm"
)

// GormLedgerTransactionScope implements the ledger TransactionScope using
// GORM transactions. Level mutation and entry creation commit or roll back
// together, which is what keeps the materialized levels honest against the
// append-only ledger.
type GormLedgerTransactionScope struct {
	db *gorm.DB
}

// NewGormLedgerTransactionScope creates a new GormLedgerTransactionScope
func NewGormLedgerTransactionScope(db *gorm.DB) *GormLedgerTransactionScope {
	return &GormLedgerTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormLedgerTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedgerRepositories{tx: tx})
	})
}

type gormLedgerRepositories struct {
	tx *gorm.DB
}

// LevelRepo returns the stock level repository scoped to the current transaction
func (r *gormLedgerRepositories) LevelRepo() ledger.StockLevelRepository {
	return NewGormStockLevelRepository(r.tx)
}

// TransactionRepo returns the ledger entry repository scoped to the current transaction
func (r *gormLedgerRepositories) TransactionRepo() ledger.StockTransactionRepository {
	return NewGormStockTransactionRepository(r.tx)
}

var _ appledger.TransactionScope = (*GormLedgerTransactionScope)(nil)
var _ appledger.TransactionalRepositories = (*gormLedgerRepositories)(nil)
