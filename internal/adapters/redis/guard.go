package redisad

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"hotel_mailer/internal/adapters/observability"
)

const keyPrefix = "hotelmail:sent:"

// Guard remembers delivered submissions by hash for a limited time.
// Only the key is stored; the value is a constant.
type Guard struct{ c *redis.Client }

func New(addr, pass string, db int) *Guard {
	return &Guard{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (g *Guard) Seen(ctx context.Context, key string) (bool, error) {
	n, err := g.c.Exists(ctx, keyPrefix+key).Result()
	if err != nil {
		return false, err
	}
	if n > 0 {
		observability.ObserveGuard("hit")
		return true, nil
	}
	observability.ObserveGuard("miss")
	return false, nil
}

func (g *Guard) Mark(ctx context.Context, key string, ttl time.Duration) error {
	observability.ObserveGuard("mark")
	return g.c.Set(ctx, keyPrefix+key, 1, ttl).Err()
}

func (g *Guard) Ping(ctx context.Context) error { return g.c.Ping(ctx).Err() }

func (g *Guard) Close() error { return g.c.Close() }
