package persistence

import (
	"context"

	appproduction "github.com/brewdash/backend/internal/application/production"
	"github.com/brewdash/backend/internal/domain/ledger"
	"github.com/brewdash/backend/internal/domain/production"
	"gorm.io/gorm"
)

// GormProductionTransactionScope implements the production TransactionScope
// using GORM transactions. Batch lifecycle changes and their reservation
// movements in the ledger commit or roll back together.
type GormProductionTransactionScope struct {
	db *gorm.DB
}

// NewGormProductionTransactionScope creates a new GormProductionTransactionScope
func NewGormProductionTransactionScope(db *gorm.DB) *GormProductionTransactionScope {
	return &GormProductionTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormProductionTransactionScope) Execute(ctx context.Context, fn func(repos appproduction.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormProductionRepositories{tx: tx})
	})
}

type gormProductionRepositories struct {
	tx *gorm.DB
}

// BatchRepo returns the production batch repository scoped to the current transaction
func (r *gormProductionRepositories) BatchRepo() production.BatchRepository {
	return NewGormProductionBatchRepository(r.tx)
}

// LevelRepo returns the stock level repository scoped to the current transaction
func (r *gormProductionRepositories) LevelRepo() ledger.StockLevelRepository {
	return NewGormStockLevelRepository(r.tx)
}

// TransactionRepo returns the ledger entry repository scoped to the current transaction
func (r *gormProductionRepositories) TransactionRepo() ledger.StockTransactionRepository {
	return NewGormStockTransactionRepository(r.tx)
}

var _ appproduction.TransactionScope = (*GormProductionTransactionScope)(nil)
var _ appproduction.TransactionalRepositories = (*gormProductionRepositories)(nil)
