package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	bookModel "bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/domains/discount/model"
	"bookstore-catalog/internal/domains/discount/repository"
	"bookstore-catalog/pkg/database"
	"bookstore-catalog/pkg/logger"
)

// BookPort là phần của book service mà Discount Ledger cần
type BookPort interface {
	GetForUpdate(ctx context.Context, id uuid.UUID) (*bookModel.Book, error)
	ApplySale(ctx context.Context, id uuid.UUID, sale bookModel.SaleFields) error
	Titles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	ClearExpiredSales(ctx context.Context, now time.Time) (int, error)
	InvalidateCache(ctx context.Context)
}

// DiscountService - Discount Ledger: CRUD discount và giữ sale fields của book nhất quán.
// Mọi mutation lock row book trước (SELECT ... FOR UPDATE) nên các writer trên cùng
// một book được serialize bởi store.
type DiscountService struct {
	repo  repository.DiscountRepository
	books BookPort
	tx    database.TxManager
	now   func() time.Time
}

func NewDiscountService(
	repo repository.DiscountRepository,
	books BookPort,
	tx database.TxManager,
	now func() time.Time,
) *DiscountService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &DiscountService{repo: repo, books: books, tx: tx, now: now}
}

// -------------------------------------------------------------------
// QUERIES
// -------------------------------------------------------------------

func (s *DiscountService) Get(ctx context.Context, id uuid.UUID) (*model.View, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.withTitles(ctx, []model.Discount{*d})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *DiscountService) List(ctx context.Context) ([]model.View, error) {
	discounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.withTitles(ctx, discounts)
}

// ListCurrent: discount có start_date <= now <= end_date
func (s *DiscountService) ListCurrent(ctx context.Context) ([]model.View, error) {
	discounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	current := make([]model.Discount, 0, len(discounts))
	for i := range discounts {
		if discounts[i].IsCurrent(now) {
			current = append(current, discounts[i])
		}
	}
	return s.withTitles(ctx, current)
}

// -------------------------------------------------------------------
// COMMANDS
// -------------------------------------------------------------------

// Create: book tồn tại → khoảng ngày hợp lệ → không có discount active khác → insert
// (+ áp sale fields nếu is_on_sale)
func (s *DiscountService) Create(ctx context.Context, req model.CreateDiscountRequest) (*model.View, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	d := &model.Discount{
		ID:        uuid.New(),
		BookID:    req.BookID,
		CreatedAt: now,
	}
	req.Terms().ApplyTo(d, now)

	var title string
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		book, err := s.books.GetForUpdate(ctx, d.BookID)
		if err != nil {
			return err
		}
		title = book.Title

		active, err := s.repo.FindActiveByBook(ctx, d.BookID, now, nil)
		if err != nil {
			return err
		}
		if active != nil {
			return conflict(active)
		}

		if d.IsOnSale {
			if err := s.applyTo(ctx, book, d, now); err != nil {
				return err
			}
		}
		return s.repo.Create(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	s.books.InvalidateCache(ctx)
	logger.Info("Discount created", map[string]interface{}{
		"discount_id": d.ID,
		"book_id":     d.BookID,
		"percentage":  d.Percentage.String(),
		"is_on_sale":  d.IsOnSale,
	})
	return &model.View{Discount: *d, BookTitle: title}, nil
}

// Update ghi đè terms. Nếu discount đang bật thì tính lại giá từ price hiện tại của book;
// nếu bị tắt trong khi đang chi phối book thì đồng bộ lại sale fields.
func (s *DiscountService) Update(ctx context.Context, id uuid.UUID, req model.UpdateDiscountRequest) (*model.View, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	var view *model.View
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		d, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		book, err := s.books.GetForUpdate(ctx, d.BookID)
		if err != nil {
			return err
		}

		wasOnSale := d.IsOnSale
		req.Terms().ApplyTo(d, now)

		switch {
		case d.IsOnSale:
			other, err := s.repo.FindActiveByBook(ctx, d.BookID, now, &d.ID)
			if err != nil {
				return err
			}
			if other != nil {
				return conflict(other)
			}
			if err := s.applyTo(ctx, book, d, now); err != nil {
				return err
			}
		case wasOnSale:
			if err := s.resync(ctx, book, &d.ID, now); err != nil {
				return err
			}
		}

		if err := s.repo.Update(ctx, d); err != nil {
			return err
		}
		view = &model.View{Discount: *d, BookTitle: book.Title}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.books.InvalidateCache(ctx)
	return view, nil
}

// Delete xóa discount; nếu discount đang bật thì sale fields của book được đồng bộ lại
// (không còn discount active nào → xóa sạch sale fields)
func (s *DiscountService) Delete(ctx context.Context, id uuid.UUID) error {
	now := s.now()
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		d, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		if !d.IsOnSale {
			return nil
		}

		book, err := s.books.GetForUpdate(ctx, d.BookID)
		if errors.Is(err, bookModel.ErrBookNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return s.resync(ctx, book, &d.ID, now)
	})
	if err != nil {
		return err
	}

	s.books.InvalidateCache(ctx)
	return nil
}

// RepriceForBook áp lại discount active sau khi price của book đổi.
// Phải gọi trong transaction đã lock book.
func (s *DiscountService) RepriceForBook(ctx context.Context, book *bookModel.Book) error {
	now := s.now()
	active, err := s.repo.FindActiveByBook(ctx, book.ID, now, nil)
	if err != nil {
		return err
	}
	if active == nil {
		// sale đã hết hạn (lazy expiry) nhưng vẫn lưu on_sale: xóa luôn để discount_price không vượt price mới
		if !book.OnSale {
			return nil
		}
		book.ApplySale(bookModel.SaleFields{})
		return s.books.ApplySale(ctx, book.ID, bookModel.SaleFields{})
	}
	return s.applyTo(ctx, book, active, now)
}

// DeleteByBook xóa mọi discount của book (cascade khi xóa book)
func (s *DiscountService) DeleteByBook(ctx context.Context, bookID uuid.UUID) (int, error) {
	return s.repo.DeleteByBook(ctx, bookID)
}

// ReconcileExpired xóa sale fields đã hết hạn (expiry mặc định là lazy, job này opt-in)
func (s *DiscountService) ReconcileExpired(ctx context.Context) (int, error) {
	n, err := s.books.ClearExpiredSales(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Info("Expired sales cleared", map[string]interface{}{"books": n})
	}
	return n, nil
}

// -------------------------------------------------------------------
// HELPERS
// -------------------------------------------------------------------

func (s *DiscountService) applyTo(ctx context.Context, book *bookModel.Book, d *model.Discount, now time.Time) error {
	sale, err := ApplyDiscount(book, d, now)
	if err != nil {
		return err
	}
	book.ApplySale(sale)
	return s.books.ApplySale(ctx, book.ID, sale)
}

// resync: discount excludeID không còn chi phối book nữa.
// Còn discount active khác thì áp nó, không thì xóa sale fields.
func (s *DiscountService) resync(ctx context.Context, book *bookModel.Book, excludeID *uuid.UUID, now time.Time) error {
	other, err := s.repo.FindActiveByBook(ctx, book.ID, now, excludeID)
	if err != nil {
		return err
	}
	if other != nil {
		return s.applyTo(ctx, book, other, now)
	}
	book.ApplySale(bookModel.SaleFields{})
	return s.books.ApplySale(ctx, book.ID, bookModel.SaleFields{})
}

func (s *DiscountService) withTitles(ctx context.Context, discounts []model.Discount) ([]model.View, error) {
	ids := make([]uuid.UUID, 0, len(discounts))
	for i := range discounts {
		ids = append(ids, discounts[i].BookID)
	}
	titles, err := s.books.Titles(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]model.View, 0, len(discounts))
	for i := range discounts {
		views = append(views, model.View{
			Discount:  discounts[i],
			BookTitle: titles[discounts[i].BookID],
		})
	}
	return views, nil
}

func conflict(active *model.Discount) error {
	return model.ErrConflictingActiveDiscount.WithDetails(map[string]interface{}{
		"active_discount_id": active.ID,
		"end_date":           active.EndDate,
	})
}
