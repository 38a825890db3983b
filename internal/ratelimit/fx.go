package ratelimit

import (
	"context"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/invoicegen/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("rate.limit",
	fx.Provide(NewLimiter),
)

const publicKeyPrefix = "invoicegen:ratelimit:public:"

// NewLimiter uses Redis when REDIS_ADDR is set and an in-process limiter otherwise.
func NewLimiter(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) Limiter {
	log = log.Named("ratelimit")
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		log.Info("using in-process rate limiter")
		return NewLocalLimiter(cfg.PublicRateLimit, cfg.PublicRateBurst, 10*time.Minute)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("redis ping failed", zap.String("addr", addr), zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	log.Info("using redis rate limiter", zap.String("addr", addr))
	return NewRedisLimiter(NewTokenBucket(client), publicKeyPrefix, cfg.PublicRateLimit, cfg.PublicRateBurst)
}
