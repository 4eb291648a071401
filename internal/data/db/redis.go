package db

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/narraforge/pipeline/internal/platform/envutil"
	"github.com/narraforge/pipeline/internal/platform/logger"
)

// NewRedisClient connects to the Redis instance backing the Task Store
// (both the per-step hash records and the task_queue dispatch list).
func NewRedisClient(ctx context.Context, log *logger.Logger) (*goredis.Client, error) {
	addr := envutil.String("REDIS_ADDR", "localhost:6379")
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    envutil.String("REDIS_PASSWORD", ""),
		DB:          envutil.Int("REDIS_DB", 0),
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	log.Info("connected to redis", "addr", addr)
	return rdb, nil
}
