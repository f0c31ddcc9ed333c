package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"bookstore-catalog/pkg/container"
	"bookstore-catalog/pkg/logger"
)

func main() {
	envErr := godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"))
	if envErr != nil {
		logger.Debug("No .env file found, using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.NewContainer(ctx)
	if err != nil {
		logger.Error("[Container] Failed to initialize", err)
		os.Exit(1)
	}
	defer c.Cleanup()

	redisOpt := asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}

	if err := checkRedis(ctx, redisOpt); err != nil {
		logger.Error("[Startup] Health check failed", err)
		os.Exit(1)
	}

	srv := setupAsynqServer(redisOpt, c.Config.Worker.Concurrency, newHandlerRegistry(c))

	var scheduler *asynqScheduler
	if c.Config.Discount.SweepEnabled {
		scheduler, err = setupScheduler(redisOpt, c.Config.Discount.SweepCron)
		if err != nil {
			logger.Error("[Scheduler] Failed to start", err)
			srv.Shutdown()
			os.Exit(1)
		}
	} else {
		logger.Info("[Scheduler] Discount sweep disabled, expiry stays lazy", nil)
	}

	<-ctx.Done()
	logger.Info("[Shutdown] Gracefully stopping...", nil)
	if scheduler != nil {
		scheduler.Shutdown()
	}
	srv.Shutdown()
	logger.Info("[Shutdown] Stopped", nil)
}
