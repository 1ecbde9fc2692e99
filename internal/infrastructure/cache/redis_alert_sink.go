package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appledger "github.com/brewdash/backend/internal/application/ledger"
	"github.com/brewdash/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// maxAlertsPerTenant caps the alert list so a chatty tenant cannot grow it unbounded
const maxAlertsPerTenant = 100

// RedisAlertSink stores low stock alerts in a per-tenant Redis list so the
// dashboard can show recent shortages across instances.
type RedisAlertSink struct {
	client     *redis.Client
	ownsClient bool
	keyPrefix  string
}

// NewRedisAlertSink creates a sink with its own Redis connection
func NewRedisAlertSink(cfg *config.RedisConfig) (*RedisAlertSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisAlertSink{
		client:     client,
		ownsClient: true,
		keyPrefix:  "alerts:low_stock:",
	}, nil
}

// NewRedisAlertSinkWithClient creates a sink sharing an existing Redis client
func NewRedisAlertSinkWithClient(client *redis.Client) *RedisAlertSink {
	return &RedisAlertSink{
		client:    client,
		keyPrefix: "alerts:low_stock:",
	}
}

// RecordLowStockAlert prepends the alert to the tenant's list and trims it
func (s *RedisAlertSink) RecordLowStockAlert(ctx context.Context, alert appledger.LowStockAlert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	key := s.keyPrefix + alert.TenantID.String()
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, maxAlertsPerTenant-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record alert: %w", err)
	}
	return nil
}

// RecentAlerts returns the newest alerts for a tenant, newest first
func (s *RedisAlertSink) RecentAlerts(ctx context.Context, tenantID uuid.UUID, limit int) ([]appledger.LowStockAlert, error) {
	if limit <= 0 || limit > maxAlertsPerTenant {
		limit = maxAlertsPerTenant
	}

	key := s.keyPrefix + tenantID.String()
	entries, err := s.client.LRange(ctx, key, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read alerts: %w", err)
	}

	alerts := make([]appledger.LowStockAlert, 0, len(entries))
	for _, entry := range entries {
		var alert appledger.LowStockAlert
		if err := json.Unmarshal([]byte(entry), &alert); err != nil {
			// skip entries written by an older incompatible build
			continue
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

// Close closes the Redis client if this sink owns it
func (s *RedisAlertSink) Close() error {
	if !s.ownsClient {
		return nil
	}
	return s.client.Close()
}

var _ appledger.AlertSink = (*RedisAlertSink)(nil)
