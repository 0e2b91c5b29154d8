// README: Occupancy counter backed by Redis; an injected service, not a
// process-global variable.
package movement

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const occupancyKey = "movement:occupancy"

// RedisCounter tracks how many vehicles are currently in the lot. Redis keeps
// the count consistent across instances; a stray extra exit floors at zero
// instead of going negative.
type RedisCounter struct {
	redis *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{redis: client}
}

func (c *RedisCounter) Enter(ctx context.Context) (int64, error) {
	return c.redis.Incr(ctx, occupancyKey).Result()
}

func (c *RedisCounter) Leave(ctx context.Context) (int64, error) {
	n, err := c.redis.Decr(ctx, occupancyKey).Result()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		if err := c.redis.Set(ctx, occupancyKey, 0, 0).Err(); err != nil {
			return 0, err
		}
		return 0, nil
	}
	return n, nil
}

func (c *RedisCounter) Current(ctx context.Context) (int64, error) {
	n, err := c.redis.Get(ctx, occupancyKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}
