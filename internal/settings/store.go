package settings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jobsight/pkg/models"
)

// Key is the Redis key holding the settings object
const Key = "jobsight:settings"

// Store keeps the single structured settings object
type Store interface {
	Load(ctx context.Context) (models.Settings, error)
	Save(ctx context.Context, s models.Settings) (models.Settings, error)
}

// MemoryStore keeps settings in process; used when Redis is not configured
type MemoryStore struct {
	mu       sync.RWMutex
	settings models.Settings
	now      func() time.Time
}

// NewMemoryStore creates a store holding the default settings
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{settings: models.DefaultSettings(), now: time.Now}
}

func (m *MemoryStore) Load(context.Context) (models.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings, nil
}

func (m *MemoryStore) Save(_ context.Context, s models.Settings) (models.Settings, error) {
	s.UpdatedAt = m.now().UTC()
	m.mu.Lock()
	m.settings = s
	m.mu.Unlock()
	return s, nil
}

// JSONStore is the subset of the Redis client the settings store needs
type JSONStore interface {
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
}

// RedisStore keeps settings as one JSON value without expiry
type RedisStore struct {
	kv  JSONStore
	now func() time.Time
}

// NewRedisStore creates a store over kv
func NewRedisStore(kv JSONStore) *RedisStore {
	return &RedisStore{kv: kv, now: time.Now}
}

// Load returns the saved settings, or the defaults when nothing was saved
func (r *RedisStore) Load(ctx context.Context) (models.Settings, error) {
	s := models.DefaultSettings()
	if _, err := r.kv.GetJSON(ctx, Key, &s); err != nil {
		return models.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, s models.Settings) (models.Settings, error) {
	s.UpdatedAt = r.now().UTC()
	if err := r.kv.SetJSON(ctx, Key, s, 0); err != nil {
		return models.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return s, nil
}
