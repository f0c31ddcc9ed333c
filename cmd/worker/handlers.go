package main

import (
	"github.com/hibiken/asynq"

	discountJob "bookstore-catalog/internal/domains/discount/job"
	"bookstore-catalog/internal/shared"
	"bookstore-catalog/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	reconcileExpired *discountJob.ReconcileExpiredHandler
}

func newHandlerRegistry(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		reconcileExpired: c.ReconcileJob,
	}
}

// RegisterHandlers registers all handlers with the mux
func (r *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.Handle(shared.TypeReconcileExpiredDiscounts, r.reconcileExpired)
}
