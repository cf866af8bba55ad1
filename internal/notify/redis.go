package notify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"jobsight/pkg/models"
)

const (
	latestKey     = "jobsight:posting:latest"
	postingPrefix = "jobsight:posting:"
)

// JSONStore is the subset of the Redis client the notifier needs
type JSONStore interface {
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	PublishJSON(ctx context.Context, channel string, v interface{}) (int64, error)
}

// RedisNotifier caches each posting by URL, remembers the latest one and
// publishes it for subscribers such as a UI
type RedisNotifier struct {
	store   JSONStore
	channel string
	ttl     time.Duration
}

// NewRedisNotifier creates a notifier publishing on channel
func NewRedisNotifier(store JSONStore, channel string, ttl time.Duration) *RedisNotifier {
	return &RedisNotifier{store: store, channel: channel, ttl: ttl}
}

func (n *RedisNotifier) Notify(ctx context.Context, posting *models.JobPosting) error {
	if err := n.store.SetJSON(ctx, PostingKey(posting.SourceURL), posting, n.ttl); err != nil {
		return err
	}
	if err := n.store.SetJSON(ctx, latestKey, posting, n.ttl); err != nil {
		return err
	}
	_, err := n.store.PublishJSON(ctx, n.channel, posting)
	return err
}

// Latest returns the most recently emitted posting, or nil
func (n *RedisNotifier) Latest(ctx context.Context) (*models.JobPosting, error) {
	return n.get(ctx, latestKey)
}

// Posting returns the cached posting for url, or nil
func (n *RedisNotifier) Posting(ctx context.Context, url string) (*models.JobPosting, error) {
	return n.get(ctx, PostingKey(url))
}

func (n *RedisNotifier) get(ctx context.Context, key string) (*models.JobPosting, error) {
	var p models.JobPosting
	ok, err := n.store.GetJSON(ctx, key, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

// PostingKey is the cache key for a posting's source URL
func PostingKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return postingPrefix + hex.EncodeToString(sum[:])
}
