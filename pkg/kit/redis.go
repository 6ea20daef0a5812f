package kit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient returns a client and logs whether the first PING succeeded.
// An unreachable server is not fatal: the client reconnects on demand and
// /readyz reports the outage.
func NewRedisClient(ctx context.Context, cfg RedisConfig, log *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pctx).Err(); err != nil {
		log.Warn("redis client not connected to the server", zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		log.Info("redis client connected to the server", zap.String("addr", cfg.Addr))
	}
	return client
}
