package kit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const rateKeyPrefix = "ratelimit:"

// RedisRateLimiter shares the budget across every replica using the same Redis.
type RedisRateLimiter struct {
	limiter *redis_rate.Limiter
	limit   redis_rate.Limit
	scope   string
	log     *zap.Logger
}

func NewRedisRateLimiter(client *redis.Client, scope string, limit int, window time.Duration, log *zap.Logger) *RedisRateLimiter {
	return &RedisRateLimiter{
		limiter: redis_rate.NewLimiter(client),
		limit: redis_rate.Limit{
			Rate:   limit,
			Burst:  limit,
			Period: window,
		},
		scope: scope,
		log:   log,
	}
}

func (l *RedisRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rateKeyPrefix + l.scope + ":" + clientIP(r)

		res, err := l.limiter.Allow(r.Context(), key, l.limit)
		if err != nil {
			// Fail open: the reservation itself reports the store outage.
			if l.log != nil {
				l.log.Warn("rate limit check failed", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}

		if res.Allowed == 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
