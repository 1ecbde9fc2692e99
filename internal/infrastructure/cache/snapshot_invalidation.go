package cache

import (
	"context"

	"github.com/brewdash/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SnapshotInvalidationHandler drops a tenant's cached stock listing whenever
// one of its stock levels changes. Registered as a catch-all for ledger
// events; any event carrying a tenant triggers the invalidation.
type SnapshotInvalidationHandler struct {
	cache      SnapshotCache
	eventTypes []string
	logger     *zap.Logger
}

// NewSnapshotInvalidationHandler creates a handler for the given event types
func NewSnapshotInvalidationHandler(cache SnapshotCache, logger *zap.Logger, eventTypes ...string) *SnapshotInvalidationHandler {
	return &SnapshotInvalidationHandler{
		cache:      cache,
		eventTypes: eventTypes,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SnapshotInvalidationHandler) EventTypes() []string {
	return h.eventTypes
}

// Handle drops the cached snapshot for the event's tenant
func (h *SnapshotInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.cache.Invalidate(ctx, event.TenantID()); err != nil {
		h.logger.Warn("failed to invalidate stock snapshot",
			zap.String("tenant_id", event.TenantID().String()),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	}
	return nil
}

var _ shared.EventHandler = (*SnapshotInvalidationHandler)(nil)
