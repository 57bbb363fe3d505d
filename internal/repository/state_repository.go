package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/univ-registry-api/pkg/errors"
)

type stateLookupRecorder interface {
	RecordStateLookup(hit bool, duration time.Duration)
}

// StateRepository persists registry state (custom years, archived years,
// activity feed) as durable JSON entries in Redis. Entries carry no TTL;
// the store is authoritative, not a cache. Concurrent writers from two
// admin sessions can race last-write-wins, a known limitation carried
// over from the original single-admin design.
type StateRepository struct {
	client    *redis.Client
	namespace string
	metrics   stateLookupRecorder
	logger    *zap.Logger
}

// NewStateRepository constructs a state repository. metrics may be nil.
func NewStateRepository(client *redis.Client, namespace string, metrics stateLookupRecorder, logger *zap.Logger) *StateRepository {
	if namespace == "" {
		namespace = "registry"
	}
	return &StateRepository{client: client, namespace: namespace, metrics: metrics, logger: logger}
}

// Get retrieves and unmarshals the stored value into dest. A missing key
// returns ErrStateMiss and counts as a lookup miss.
func (r *StateRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if r.client == nil {
		return appErrors.ErrStateMiss
	}

	start := time.Now()
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			r.recordLookup(false, time.Since(start))
			return appErrors.ErrStateMiss
		}
		return fmt.Errorf("state get %s: %w", key, err)
	}
	r.recordLookup(true, time.Since(start))

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal state value for %s: %w", key, err)
	}

	return nil
}

// Set marshals the provided value and stores it without expiry.
func (r *StateRepository) Set(ctx context.Context, key string, value interface{}) error {
	if r.client == nil {
		return fmt.Errorf("state store unavailable")
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal state value for %s: %w", key, err)
	}

	if err := r.client.Set(ctx, r.key(key), payload, 0).Err(); err != nil {
		return fmt.Errorf("state set %s: %w", key, err)
	}

	return nil
}

func (r *StateRepository) recordLookup(hit bool, duration time.Duration) {
	if r.metrics != nil {
		r.metrics.RecordStateLookup(hit, duration)
	}
}

func (r *StateRepository) key(key string) string {
	return r.namespace + ":" + key
}
