package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
	"github.com/LibertytechX/seeds-metrics/internal/domain/port"
)

const (
	keyPrefix = "loanmetrics:snapshot:"

	// generationTTL bounds how long an invalidation counter outlives the last
	// write to its loan. It only has to exceed the slowest database read.
	generationTTL = 24 * time.Hour
)

// fillScript stores ARGV[1] under KEYS[1] only while the generation counter
// in KEYS[2] still equals ARGV[2]. ARGV[3] is the TTL in milliseconds, 0 for
// none.
var fillScript = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[2] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

// invalidateScript bumps the generation counter and drops the entry.
var invalidateScript = redis.NewScript(`
redis.call('INCR', KEYS[2])
redis.call('PEXPIRE', KEYS[2], ARGV[1])
redis.call('DEL', KEYS[1])
return 1
`)

// Client is the subset of redis.Cmdable the cache uses.
type Client interface {
	redis.Scripter
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

// RedisSnapshotCache implements port.SnapshotCache, holding each loan's
// latest snapshot as JSON with a fixed TTL next to an invalidation counter.
type RedisSnapshotCache struct {
	client Client
	ttl    time.Duration
}

// NewRedisClient opens a go-redis client.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRedisSnapshotCache creates a cache. A zero ttl keeps entries until
// they are invalidated.
func NewRedisSnapshotCache(client Client, ttl time.Duration) *RedisSnapshotCache {
	return &RedisSnapshotCache{client: client, ttl: ttl}
}

func snapshotKey(loanID string) string {
	return keyPrefix + loanID
}

func generationKey(loanID string) string {
	return keyPrefix + loanID + ":gen"
}

func (c *RedisSnapshotCache) Get(ctx context.Context, loanID string) (port.CachedSnapshot, error) {
	vals, err := c.client.MGet(ctx, snapshotKey(loanID), generationKey(loanID)).Result()
	if err != nil {
		return port.CachedSnapshot{}, fmt.Errorf("redis get: %w", err)
	}
	if len(vals) != 2 {
		return port.CachedSnapshot{}, fmt.Errorf("redis get: expected 2 values, got %d", len(vals))
	}

	var result port.CachedSnapshot
	if raw, ok := vals[1].(string); ok {
		gen, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return port.CachedSnapshot{}, fmt.Errorf("decode cache generation: %w", err)
		}
		result.Generation = gen
	}

	raw, ok := vals[0].(string)
	if !ok {
		return result, nil
	}
	if err := json.Unmarshal([]byte(raw), &result.Snapshot); err != nil {
		return port.CachedSnapshot{}, fmt.Errorf("decode cached snapshot: %w", err)
	}
	result.Hit = true
	return result, nil
}

func (c *RedisSnapshotCache) Fill(ctx context.Context, snapshot model.MetricsSnapshot, generation int64) error {
	val, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	keys := []string{snapshotKey(snapshot.LoanID), generationKey(snapshot.LoanID)}
	err = fillScript.Run(ctx, c.client, keys, val, generation, c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisSnapshotCache) Invalidate(ctx context.Context, loanID string) error {
	keys := []string{snapshotKey(loanID), generationKey(loanID)}
	if err := invalidateScript.Run(ctx, c.client, keys, generationTTL.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
