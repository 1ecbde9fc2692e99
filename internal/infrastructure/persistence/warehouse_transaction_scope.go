package persistence

import (
	"context"

	appwarehouse "github.com/brewdash/backend/internal/application/warehouse"
	"github.com/brewdash/backend/internal/domain/ledger"
	"github.com/brewdash/backend/internal/domain/warehouse"
	"gorm.io/gorm"
)

// GormWarehouseTransactionScope implements the warehouse TransactionScope
// using GORM transactions. An intake writes the batch, the stock levels and
// the ledger entries as one unit.
type GormWarehouseTransactionScope struct {
	db *gorm.DB
}

// NewGormWarehouseTransactionScope creates a new GormWarehouseTransactionScope
func NewGormWarehouseTransactionScope(db *gorm.DB) *GormWarehouseTransactionScope {
	return &GormWarehouseTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormWarehouseTransactionScope) Execute(ctx context.Context, fn func(repos appwarehouse.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormWarehouseRepositories{tx: tx})
	})
}

type gormWarehouseRepositories struct {
	tx *gorm.DB
}

// BatchRepo returns the warehouse batch repository scoped to the current transaction
func (r *gormWarehouseRepositories) BatchRepo() warehouse.BatchRepository {
	return NewGormWarehouseBatchRepository(r.tx)
}

// LevelRepo returns the stock level repository scoped to the current transaction
func (r *gormWarehouseRepositories) LevelRepo() ledger.StockLevelRepository {
	return NewGormStockLevelRepository(r.tx)
}

// TransactionRepo returns the ledger entry repository scoped to the current transaction
func (r *gormWarehouseRepositories) TransactionRepo() ledger.StockTransactionRepository {
	return NewGormStockTransactionRepository(r.tx)
}

var _ appwarehouse.TransactionScope = (*GormWarehouseTransactionScope)(nil)
var _ appwarehouse.TransactionalRepositories = (*gormWarehouseRepositories)(nil)
