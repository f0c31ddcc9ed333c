package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"bookstore-catalog/internal/shared"
	"bookstore-catalog/pkg/logger"
)

// ================================================
// RECONCILE EXPIRED DISCOUNTS JOB HANDLER
// ================================================

// Expiry của sale là lazy: on_sale có thể còn true sau discount_end_date.
// Job này (opt-in qua DISCOUNT_SWEEP_ENABLED) dọn các sale đã hết hạn để
// consumer đọc thẳng bảng books cũng thấy đúng.

type Reconciler interface {
	ReconcileExpired(ctx context.Context) (int, error)
}

// ReconcileExpiredHandler handles the scheduled job
type ReconcileExpiredHandler struct {
	reconciler Reconciler
}

func NewReconcileExpiredHandler(reconciler Reconciler) *ReconcileExpiredHandler {
	return &ReconcileExpiredHandler{reconciler: reconciler}
}

// ProcessTask is the main entry point for the scheduled job
func (h *ReconcileExpiredHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.ReconcileExpiredPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			// Payload hỏng → không retry
			logger.Error("ReconcileExpired: Failed to unmarshal payload", err)
			return fmt.Errorf("unmarshal ReconcileExpired payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	startedAt := time.Now()
	cleared, err := h.reconciler.ReconcileExpired(ctx)
	if err != nil {
		// Lỗi DB → cho phép retry
		logger.Error("ReconcileExpired: failed", err)
		return err
	}

	logger.Info("ReconcileExpired: completed", map[string]interface{}{
		"cleared_books": cleared,
		"duration_ms":   time.Since(startedAt).Milliseconds(),
	})
	return nil
}
