package main

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"bookstore-catalog/pkg/logger"
)

// checkRedis: asynq server/scheduler không báo lỗi kết nối lúc khởi động nên ping trước
func checkRedis(ctx context.Context, opt asynq.RedisClientOpt) error {
	client, ok := opt.MakeRedisClient().(redis.UniversalClient)
	if !ok {
		return fmt.Errorf("unexpected redis client type")
	}
	defer client.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	logger.Info("[Startup] Redis connection OK", map[string]interface{}{"addr": opt.Addr})
	return nil
}
