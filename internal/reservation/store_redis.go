package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// badValueCode prefixes the script's error reply for a non-integer counter.
const badValueCode = "BADVALUE"

// KEYS[1] counter, ARGV[1] initial value used when the counter is absent.
// Returns the remaining count, or -1 when there is nothing left.
var decrementIfPositive = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if not v then
	v = ARGV[1]
end
local n = tonumber(v)
if n == nil then
	return redis.error_reply('` + badValueCode + ` non-integer reservation value')
end
if n <= 0 then
	return -1
end
redis.call('SET', KEYS[1], n - 1)
return n - 1
`)

type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %w", ErrStoreUnavailable, key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %w", ErrStoreUnavailable, key, err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) DecrementIfPositive(ctx context.Context, key string, initial int) (int, bool, error) {
	n, err := decrementIfPositive.Run(ctx, s.client, []string{key}, initial).Int()
	if err != nil {
		if isBadValueReply(err) {
			return 0, false, fmt.Errorf("%w: %s", ErrBadValue, key)
		}
		return 0, false, fmt.Errorf("%w: decrement %s: %w", ErrStoreUnavailable, key, err)
	}
	if n < 0 {
		return 0, false, nil
	}
	return n, true, nil
}

func isBadValueReply(err error) bool {
	return strings.HasPrefix(err.Error(), badValueCode+" ")
}
