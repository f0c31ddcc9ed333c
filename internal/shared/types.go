package shared

import "time"

// Asynq task types
const (
	TypeReconcileExpiredDiscounts = "discount:reconcile_expired"
)

// Asynq queues
const (
	QueueDiscount = "discount"
)

// ReconcileExpiredPayload - payload của job reconcile (cron gửi payload rỗng)
type ReconcileExpiredPayload struct {
	// RequestedAt chỉ dùng cho log
	RequestedAt time.Time `json:"requested_at,omitempty"`
}
