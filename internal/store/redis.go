package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// DefaultKeyPrefix namespaces every key written to Redis.
const DefaultKeyPrefix = "metrofocus:"

const (
	sessionEventsKey = "session_events"
	sequenceKey      = "sequence"
)

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	Addr       string
	Password   string
	DB         int
	KeyPrefix  string
	MaxRetries uint64
}

// RedisStore is the Redis backend. Values live under prefixed string keys
// and session events in a prefixed list.
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ Backend = (*RedisStore)(nil)

// OpenRedis connects to Redis, retrying the initial ping with exponential
// backoff.
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	retries := opts.MaxRetries
	if retries == 0 {
		retries = 5
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries),
		ctx,
	)
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		if err := client.Ping(ctx).Err(); err != nil {
			logrus.Warnf("redis ping failed (attempt %d): %v", attempt, err)
			return err
		}
		return nil
	}, policy)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}
	logrus.Debugf("connected to redis at %s (attempt %d)", opts.Addr, attempt)

	return NewRedisStore(client, opts.KeyPrefix), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(k string) string {
	return r.prefix + k
}

func (r *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", key, err)
	}
	return data, nil
}

func (r *RedisStore) Save(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (r *RedisStore) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seq, err := r.client.Incr(ctx, r.key(sequenceKey)).Result()
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	rec := SessionEventRecord{
		SessionEventData: data,
		Sequence:         seq,
		Timestamp:        time.Now().UTC(),
	}
	encoded, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session event: %w", err)
	}
	if err := r.client.RPush(ctx, r.key(sessionEventsKey), encoded).Err(); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *RedisStore) QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEventRecord, error) {
	all, err := r.allEvents(ctx)
	if err != nil {
		return nil, err
	}

	var records []SessionEventRecord
	for i := len(all) - 1; i >= 0; i-- {
		if !matchesOpts(all[i], opts) {
			continue
		}
		records = append(records, all[i])
		if opts.Limit > 0 && len(records) == opts.Limit {
			break
		}
	}
	return records, nil
}

func (r *RedisStore) SessionTotals(ctx context.Context) (SessionTotals, error) {
	all, err := r.allEvents(ctx)
	if err != nil {
		return SessionTotals{}, err
	}
	var totals SessionTotals
	for _, rec := range all {
		addToTotals(&totals, rec.SessionEventData)
	}
	return totals, nil
}

func (r *RedisStore) allEvents(ctx context.Context) ([]SessionEventRecord, error) {
	raw, err := r.client.LRange(ctx, r.key(sessionEventsKey), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	records := make([]SessionEventRecord, 0, len(raw))
	for _, item := range raw {
		var rec SessionEventRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal session event: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Close closes the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
