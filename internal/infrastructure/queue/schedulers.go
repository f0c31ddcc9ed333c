package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"bookstore-catalog/internal/shared"
	"bookstore-catalog/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	sweepCron string
}

func NewScheduler(redisOpt asynq.RedisConnOpt, sweepCron string) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		sweepCron: sweepCron,
	}
}

// ================================================
// JOB: Reconcile expired discounts (opt-in)
// ================================================
func (s *Scheduler) RegisterReconcileExpiredJob() error {
	payload, err := json.Marshal(shared.ReconcileExpiredPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeReconcileExpiredDiscounts, payload)

	entryID, err := s.scheduler.Register(
		s.sweepCron,
		task,
		asynq.Queue(shared.QueueDiscount),
		asynq.MaxRetry(2),
		asynq.Timeout(2*time.Minute),
		// không cho hai lần sweep chạy chồng nhau
		asynq.Unique(time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register ReconcileExpired job", err)
		return err
	}

	logger.Info("Registered ReconcileExpired job", map[string]interface{}{
		"entry_id": entryID,
		"cron":     s.sweepCron,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
