package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SnapshotCache caches the rendered stock level listing per tenant. Entries
// are short-lived and invalidated whenever the ledger moves, so a stale read
// can only survive for the configured TTL.
type SnapshotCache interface {
	// Get returns the cached payload, or ok=false on a miss
	Get(ctx context.Context, tenantID uuid.UUID) (payload []byte, ok bool, err error)
	// Set stores the payload for the tenant
	Set(ctx context.Context, tenantID uuid.UUID, payload []byte) error
	// Invalidate drops the tenant's cached payload
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

// RedisSnapshotCache implements SnapshotCache on Redis
type RedisSnapshotCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisSnapshotCache creates a snapshot cache sharing an existing Redis client
func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration) *RedisSnapshotCache {
	return &RedisSnapshotCache{
		client:    client,
		keyPrefix: "snapshot:stock_levels:",
		ttl:       ttl,
	}
}

// Get returns the cached payload, or ok=false on a miss
func (c *RedisSnapshotCache) Get(ctx context.Context, tenantID uuid.UUID) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, c.keyPrefix+tenantID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return payload, true, nil
}

// Set stores the payload for the tenant with the configured TTL
func (c *RedisSnapshotCache) Set(ctx context.Context, tenantID uuid.UUID, payload []byte) error {
	return c.client.Set(ctx, c.keyPrefix+tenantID.String(), payload, c.ttl).Err()
}

// Invalidate drops the tenant's cached payload
func (c *RedisSnapshotCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	return c.client.Del(ctx, c.keyPrefix+tenantID.String()).Err()
}

var _ SnapshotCache = (*RedisSnapshotCache)(nil)

// MemorySnapshotCache implements SnapshotCache in process memory
type MemorySnapshotCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]memorySnapshotEntry
	ttl     time.Duration
}

type memorySnapshotEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewMemorySnapshotCache creates a new in-memory snapshot cache
func NewMemorySnapshotCache(ttl time.Duration) *MemorySnapshotCache {
	return &MemorySnapshotCache{
		entries: make(map[uuid.UUID]memorySnapshotEntry),
		ttl:     ttl,
	}
}

// Get returns the cached payload, or ok=false on a miss or expired entry
func (c *MemorySnapshotCache) Get(_ context.Context, tenantID uuid.UUID) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[tenantID]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return entry.payload, true, nil
}

// Set stores the payload for the tenant with the configured TTL
func (c *MemorySnapshotCache) Set(_ context.Context, tenantID uuid.UUID, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[tenantID] = memorySnapshotEntry{
		payload:   payload,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Invalidate drops the tenant's cached payload
func (c *MemorySnapshotCache) Invalidate(_ context.Context, tenantID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, tenantID)
	return nil
}

var _ SnapshotCache = (*MemorySnapshotCache)(nil)
