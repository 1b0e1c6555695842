package admission

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"roomkey/internal/pkg/logx"
)

const (
	redisKeyPrefix = "roomkey:observer:"

	// redisLockTTL bounds how long a crashed holder can block a room.
	// It must exceed ObserverSectionTimeout or the lock can lapse mid-admission.
	redisLockTTL = 15 * time.Second

	// redisAcquireTimeout applies when the caller's context has no deadline.
	redisAcquireTimeout = 3 * time.Second

	redisRetryInterval = 25 * time.Millisecond
)

// releaseScript deletes the lock only if it still carries the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ErrLockTimeout is returned when a room lock could not be taken in time.
var ErrLockTimeout = errors.New("observer admission lock timed out")

// RedisLedger is a SlotLedger shared by every instance pointed at the same Redis.
// The lock is a SET NX key; holds are a sorted set scored by expiry in Unix milliseconds.
type RedisLedger struct {
	rdb    redis.UniversalClient
	hold   time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// NewRedisLedger returns a ledger on rdb whose holds last for hold.
func NewRedisLedger(rdb redis.UniversalClient, hold time.Duration) *RedisLedger {
	return &RedisLedger{
		rdb:    rdb,
		hold:   hold,
		now:    time.Now,
		logger: logx.Logger().With().Str("component", "RedisLedger").Logger(),
	}
}

func lockKey(room string) string { return redisKeyPrefix + "lock:" + room }

func heldKey(room string) string { return redisKeyPrefix + "held:" + room }

func (l *RedisLedger) Acquire(ctx context.Context, room string) (func(), error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, redisAcquireTimeout)
		defer cancel()
	}

	key := lockKey(room)
	token := uuid.NewString()

	ticker := time.NewTicker(redisRetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, redisLockTTL).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, room)
		case <-ticker.C:
		}
	}

	return func() { l.release(key, token) }, nil
}

// release drops the lock on a fresh context, since the request context may already be gone.
func (l *RedisLedger) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	deleted, err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Int()
	switch {
	case err != nil:
		l.logger.Warn().Err(err).Str("key", key).Msg("Failed to release observer lock; it expires on its own")
	case deleted == 0:
		l.logger.Warn().Str("key", key).Msg("Observer lock expired before release")
	}
}

func (l *RedisLedger) Held(ctx context.Context, room string) ([]string, error) {
	key := heldKey(room)
	now := strconv.FormatInt(l.now().UnixMilli(), 10)

	pipe := l.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", now)
	live := pipe.ZRangeByScore(ctx, key, &redis.ZRangeBy{Min: "(" + now, Max: "+inf"})
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis held %s: %w", key, err)
	}

	return live.Val(), nil
}

func (l *RedisLedger) Hold(ctx context.Context, room, identity string) error {
	if l.hold <= 0 {
		return nil
	}

	key := heldKey(room)
	expiry := l.now().Add(l.hold)

	pipe := l.rdb.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(expiry.UnixMilli()), Member: identity})
	pipe.PExpire(ctx, key, l.hold)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis hold %s: %w", key, err)
	}

	return nil
}
