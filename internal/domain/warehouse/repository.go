package warehouse

import (
	"context"
	"time"

	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BatchRepository defines the interface for warehouse batch persistence.
// Items travel with their batch: they are child entities persisted through
// the aggregate root, never written independently.
type BatchRepository interface {
	// FindByID finds a batch by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Batch, error)

	// FindByIDForTenant finds a batch with its items within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Batch, error)

	// FindByBatchNumber finds a batch by its sequential number
	FindByBatchNumber(ctx context.Context, tenantID uuid.UUID, batchNumber int64) (*Batch, error)

	// FindAllForTenant finds all batches for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Batch, error)

	// FindByDateRange finds batches whose intake date falls within a range
	FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]Batch, error)

	// NextBatchNumber returns max existing number + 1, starting at 1 when empty
	NextBatchNumber(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// Save creates or updates a batch with its items
	Save(ctx context.Context, batch *Batch) error

	// DeleteForTenant deletes a batch and its items within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts batches matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
