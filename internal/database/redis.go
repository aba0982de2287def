package database

import (
	"context"
	"fmt"
	"time"

	"github.com/community-records-api/internal/config"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// NewRedis connects to Redis and verifies the connection with a PING
func NewRedis(cfg *config.RedisConfig, log zerolog.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info().
		Str("component", "redis").
		Str("addr", cfg.Addr).
		Int("rate_limit", cfg.RateLimit).
		Dur("window", cfg.Window).
		Msg("Redis connection established")

	return rdb, nil
}
