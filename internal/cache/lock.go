package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"collabia/internal/observability"

	"github.com/redis/go-redis/v9"
)

// SeedLockKey is the Redis key held for the duration of a seeding run.
const SeedLockKey = "collabia:seed:lock"

// ErrSeedInProgress is returned when another run holds the seed lock.
var ErrSeedInProgress = errors.New("another seeding run holds the lock")

// releaseScript deletes the lock only if it still carries our token, so a run
// that outlived its TTL cannot drop a lock taken by a newer run.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// AcquireSeedLock takes the seed lock for token. A zero ttl holds the lock
// until release. The returned function releases it and is safe to call more
// than once.
func AcquireSeedLock(ctx context.Context, client *redis.Client, token string, ttl time.Duration) (func(context.Context) error, error) {
	ok, err := client.SetNX(ctx, SeedLockKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire seed lock: %w", err)
	}
	if !ok {
		holder, err := client.Get(ctx, SeedLockKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w (holder unknown: %v)", ErrSeedInProgress, err)
		}
		return nil, fmt.Errorf("%w: held by run %s", ErrSeedInProgress, holder)
	}
	observability.Logger.InfoContext(ctx, "Seed lock acquired", slog.String("key", SeedLockKey), slog.Duration("ttl", ttl))

	released := false
	return func(ctx context.Context) error {
		if released {
			return nil
		}
		released = true
		n, err := releaseScript.Run(ctx, client, []string{SeedLockKey}, token).Int()
		if err != nil {
			return fmt.Errorf("release seed lock: %w", err)
		}
		if n == 0 {
			observability.Logger.WarnContext(ctx, "Seed lock expired before release", slog.String("key", SeedLockKey))
		}
		return nil
	}, nil
}
