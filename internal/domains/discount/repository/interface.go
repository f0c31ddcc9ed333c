package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bookstore-catalog/internal/domains/discount/model"
)

// DiscountRepository định nghĩa interface cho discount data access
type DiscountRepository interface {
	// Read operations
	GetByID(ctx context.Context, id uuid.UUID) (*model.Discount, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Discount, error)
	// List theo created_at tăng dần
	List(ctx context.Context) ([]model.Discount, error)
	// FindActiveByBook trả về nil nếu book không có discount active (ngoại trừ excludeID)
	FindActiveByBook(ctx context.Context, bookID uuid.UUID, now time.Time, excludeID *uuid.UUID) (*model.Discount, error)

	// Write operations
	Create(ctx context.Context, d *model.Discount) error
	Update(ctx context.Context, d *model.Discount) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByBook(ctx context.Context, bookID uuid.UUID) (int, error)
}
