package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bookstore-catalog/internal/domains/book/model"
)

// RepositoryInterface là BookRecord store.
// Mọi method đọc transaction từ ctx (nếu có) để ghi/đọc trong cùng transaction.
type RepositoryInterface interface {
	// Create insert book và gán Seq
	Create(ctx context.Context, book *model.Book) error
	Update(ctx context.Context, book *model.Book) error
	// UpdateSale chỉ ghi 3 sale fields
	UpdateSale(ctx context.Context, id uuid.UUID, sale model.SaleFields, now time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error

	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	// GetByIDForUpdate lock row tới hết transaction
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Book, error)
	ExistsByTitle(ctx context.Context, title string, excludeID *uuid.UUID) (bool, error)
	ExistsByISBN(ctx context.Context, isbn string, excludeID *uuid.UUID) (bool, error)

	// List trả về trang kết quả + tổng số record match
	List(ctx context.Context, c model.Criteria) ([]model.Book, int, error)
	// All trả về toàn bộ sách theo thứ tự insert
	All(ctx context.Context) ([]model.Book, error)
	ListByAuthor(ctx context.Context, author string) ([]model.Book, error)
	ListAuthors(ctx context.Context) ([]string, error)
	// Titles dùng để join title cho discount/announcement view
	Titles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)

	// ClearExpiredSales xóa sale fields của các sách có discount_end_date <= now
	ClearExpiredSales(ctx context.Context, now time.Time) (int, error)
}
