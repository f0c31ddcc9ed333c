package main

import (
	"github.com/hibiken/asynq"

	"bookstore-catalog/internal/infrastructure/queue"
	"bookstore-catalog/pkg/logger"
)

// asynqScheduler wraps queue.Scheduler
type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(redisOpt asynq.RedisClientOpt, sweepCron string) (*asynqScheduler, error) {
	scheduler := queue.NewScheduler(redisOpt, sweepCron)

	if err := scheduler.RegisterReconcileExpiredJob(); err != nil {
		return nil, err
	}

	// Start không block
	if err := scheduler.Start(); err != nil {
		return nil, err
	}
	logger.Info("[Scheduler] Started", nil)

	return &asynqScheduler{Scheduler: scheduler}, nil
}

func (s *asynqScheduler) Shutdown() {
	logger.Info("[Scheduler] Shutting down...", nil)
	s.Scheduler.Shutdown()
}
