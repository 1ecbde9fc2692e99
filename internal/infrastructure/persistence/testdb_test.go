package persistence

import (
	"fmt"
	"strings"
	"testing"

	"github.com/brewdash/backend/internal/domain/catalog"
	"github.com/brewdash/backend/internal/domain/ledger"
	"github.com/brewdash/backend/internal/domain/production"
	"github.com/brewdash/backend/internal/domain/warehouse"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with the full schema.
// The named shared-cache DSN plus a single connection keeps every pooled
// connection (including the ones GORM opens inside Transaction) on the
// same database; a plain ":memory:" DSN gives each connection its own
// empty one. Naming the database after the test isolates test functions
// from each other.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&catalog.Ingredient{},
		&ledger.StockLevel{},
		&ledger.StockTransaction{},
		&warehouse.Batch{},
		&warehouse.Item{},
		&production.Batch{},
		&production.Item{},
	)
	require.NoError(t, err)

	return db
}

// newStockLevel builds a stock level with the given on-hand quantity
func newStockLevel(t *testing.T, tenantID uuid.UUID, name string, onHand int64) *ledger.StockLevel {
	t.Helper()

	level, err := ledger.NewStockLevel(tenantID, uuid.New(), name, "g")
	require.NoError(t, err)
	if onHand > 0 {
		require.NoError(t, level.Apply(ledger.TransactionTypeAdd, decimal.NewFromInt(onHand)))
	}
	level.ClearDomainEvents()
	return level
}

func decimalEqual(t *testing.T, expected int64, actual decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.NewFromInt(expected).Equal(actual),
		"expected %d, got %s", expected, actual.String())
}
