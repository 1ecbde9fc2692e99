package cache

import (
	"context"
	"sync"

	appledger "github.com/brewdash/backend/internal/application/ledger"
	"github.com/google/uuid"
)

// MemoryAlertSink keeps low stock alerts in process memory. Used when Redis
// is disabled; alerts are lost on restart, which is acceptable for a
// single-instance deployment.
type MemoryAlertSink struct {
	mu     sync.RWMutex
	alerts map[uuid.UUID][]appledger.LowStockAlert
}

// NewMemoryAlertSink creates a new in-memory alert sink
func NewMemoryAlertSink() *MemoryAlertSink {
	return &MemoryAlertSink{
		alerts: make(map[uuid.UUID][]appledger.LowStockAlert),
	}
}

// RecordLowStockAlert prepends the alert to the tenant's list and trims it
func (s *MemoryAlertSink) RecordLowStockAlert(_ context.Context, alert appledger.LowStockAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := append([]appledger.LowStockAlert{alert}, s.alerts[alert.TenantID]...)
	if len(list) > maxAlertsPerTenant {
		list = list[:maxAlertsPerTenant]
	}
	s.alerts[alert.TenantID] = list
	return nil
}

// RecentAlerts returns the newest alerts for a tenant, newest first
func (s *MemoryAlertSink) RecentAlerts(_ context.Context, tenantID uuid.UUID, limit int) ([]appledger.LowStockAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.alerts[tenantID]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}

	result := make([]appledger.LowStockAlert, limit)
	copy(result, list[:limit])
	return result, nil
}

var _ appledger.AlertSink = (*MemoryAlertSink)(nil)
