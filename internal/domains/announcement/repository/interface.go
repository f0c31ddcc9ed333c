package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bookstore-catalog/internal/domains/announcement/model"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Announcement, error)
	// GetByIDForUpdate lock row trong transaction hiện tại
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Announcement, error)
	// List theo start_date giảm dần (mới nhất trước)
	List(ctx context.Context) ([]model.Announcement, error)
	// ListLive: is_active và start <= now <= end, category nil = mọi category
	ListLive(ctx context.Context, now time.Time, category *string) ([]model.Announcement, error)
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.Announcement, error)
	// Categories: các category khác null, sort tăng dần
	Categories(ctx context.Context) ([]string, error)

	Create(ctx context.Context, a *model.Announcement) error
	Update(ctx context.Context, a *model.Announcement) error
	Delete(ctx context.Context, id uuid.UUID) error
}
