package main

import (
	"context"

	"github.com/hibiken/asynq"

	"bookstore-catalog/internal/shared"
	"bookstore-catalog/pkg/logger"
)

// asynqServer wraps asynq.Server
type asynqServer struct {
	*asynq.Server
}

func setupAsynqServer(redisOpt asynq.RedisClientOpt, concurrency int, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	if concurrency < 1 {
		concurrency = 1
	}

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Queues: map[string]int{
				shared.QueueDiscount: 10,
				"default":            1,
			},
			Concurrency: concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Warn("[Asynq] Task failed", map[string]interface{}{
					"type":  task.Type(),
					"error": err.Error(),
				})
			}),
		},
	)

	go func() {
		logger.Info("[Worker] Starting...", map[string]interface{}{"concurrency": concurrency})
		if err := srv.Run(mux); err != nil {
			logger.Error("[Worker] Stopped with error", err)
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown chờ các task đang chạy xong (asynq mặc định tối đa 8s)
func (s *asynqServer) Shutdown() {
	logger.Info("[Worker] Shutting down...", nil)
	s.Server.Shutdown()
}
