package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
)

// casScript writes KEYS[1] only if the counter at KEYS[2] equals ARGV[1],
// then bumps the counter. Returns -1 on a version mismatch.
const casScript = `
local v = redis.call('GET', KEYS[2])
if not v then v = '0' end
if v ~= ARGV[1] then return -1 end
redis.call('SET', KEYS[1], ARGV[2])
return redis.call('INCR', KEYS[2])
`

// RedisStorage keeps the document in one Redis string with a companion version counter.
type RedisStorage struct {
	client     redis.UniversalClient
	key        string
	versionKey string
}

var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a Redis storage using key for the document.
func NewRedisStorage(client redis.UniversalClient, key string) *RedisStorage {
	if key == "" {
		key = Key
	}
	return &RedisStorage{client: client, key: key, versionKey: key + ":version"}
}

// Load fetches the document and its version in one round trip.
func (r *RedisStorage) Load(ctx context.Context) (Snapshot, error) {
	vals, err := r.client.MGet(ctx, r.key, r.versionKey).Result()
	if err != nil {
		return Snapshot{}, fmt.Errorf("redis mget: %w", err)
	}

	var snap Snapshot
	if s, ok := vals[0].(string); ok {
		snap.Body = []byte(s)
	}
	if s, ok := vals[1].(string); ok {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return Snapshot{}, fmt.Errorf("parsing version %q: %w", s, err)
		}
		snap.Version = v
	}
	return snap, nil
}

// CompareAndSwap runs the CAS script atomically on the server.
func (r *RedisStorage) CompareAndSwap(ctx context.Context, expected uint64, body []byte) (uint64, error) {
	res, err := r.client.Eval(ctx, casScript,
		[]string{r.key, r.versionKey},
		strconv.FormatUint(expected, 10), string(body),
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("redis cas: %w", err)
	}
	if res < 0 {
		return 0, ErrVersionConflict
	}
	return uint64(res), nil
}

// Ping pings the server.
func (r *RedisStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the client.
func (r *RedisStorage) Close() error {
	return r.client.Close()
}

// Name returns "redis".
func (r *RedisStorage) Name() string { return "redis" }
