package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/domains/book/repository"
	"bookstore-catalog/pkg/cache"
	"bookstore-catalog/pkg/database"
	"bookstore-catalog/pkg/logger"
)

const (
	cacheKeyPrefix    = "books"
	listCachePrefix   = cacheKeyPrefix + ":list"
	detailCachePrefix = cacheKeyPrefix + ":detail"
	invalidatePattern = cacheKeyPrefix + ":*"
	defaultCacheTTL   = 10 * time.Minute
)

// Config cho BookService
type Config struct {
	Paging   model.Paging
	CacheTTL time.Duration
	Now      func() time.Time
}

// BookService - business logic của BookRecord store
type BookService struct {
	repo     repository.RepositoryInterface
	tx       database.TxManager
	cache    cache.Cache
	engine   *QueryEngine
	cacheTTL time.Duration
	now      func() time.Time
}

// NewService - Constructor with DI
func NewService(
	repo repository.RepositoryInterface,
	tx database.TxManager,
	cache cache.Cache,
	cfg Config,
) *BookService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	return &BookService{
		repo:     repo,
		tx:       tx,
		cache:    cache,
		engine:   NewQueryEngine(repo, cfg.Paging),
		cacheTTL: cfg.CacheTTL,
		now:      cfg.Now,
	}
}

// ============================================
// QUERY
// ============================================

// ListBooks - cache-aside quanh QueryEngine
func (s *BookService) ListBooks(ctx context.Context, f model.Filter) (*model.Page, error) {
	c, err := s.engine.Criteria(f)
	if err != nil {
		return nil, err
	}

	cacheKey := c.CacheKey(listCachePrefix)
	var cached model.Page
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	page, err := s.engine.Run(ctx, c)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cacheKey, page)
	return page, nil
}

func (s *BookService) GetBook(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	cacheKey := fmt.Sprintf("%s:%s", detailCachePrefix, id)
	var cached model.Book
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cacheKey, b)
	return b, nil
}

// AllBooks - full scan theo thứ tự insert (dùng cho classifier)
func (s *BookService) AllBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.All(ctx)
}

func (s *BookService) ListAuthors(ctx context.Context) ([]string, error) {
	return s.repo.ListAuthors(ctx)
}

func (s *BookService) ListBooksByAuthor(ctx context.Context, author string) ([]model.Book, error) {
	return s.repo.ListByAuthor(ctx, author)
}

func (s *BookService) Titles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	return s.repo.Titles(ctx, ids)
}

// ============================================
// COMMAND
// ============================================

// CreateBook - validate → check trùng title/isbn → insert
func (s *BookService) CreateBook(ctx context.Context, req model.BookRequest) (*model.Book, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	book := req.ToEntity(s.now())
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkDuplicates(ctx, book.Title, book.ISBN, nil); err != nil {
			return err
		}
		return s.repo.Create(ctx, book)
	})
	if err != nil {
		return nil, err
	}

	s.InvalidateCache(ctx)
	logger.Info("Book created", map[string]interface{}{
		"book_id": book.ID,
		"title":   book.Title,
	})
	return book, nil
}

// UpdateBook trả về book sau update và cờ price có thay đổi hay không
// (caller dùng để re-price discount đang active)
func (s *BookService) UpdateBook(ctx context.Context, id uuid.UUID, req model.BookRequest) (*model.Book, bool, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	var (
		updated      *model.Book
		priceChanged bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := s.checkDuplicates(ctx, req.Title, req.ISBN, &id); err != nil {
			return err
		}
		if req.SalesCount < current.SalesCount {
			return model.ErrSalesCountDecrease.WithDetails(map[string]interface{}{
				"current": current.SalesCount,
			})
		}

		priceChanged = !current.Price.Equal(req.Price)
		req.ApplyTo(current, s.now())
		if err := s.repo.Update(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s.InvalidateCache(ctx)
	return updated, priceChanged, nil
}

func (s *BookService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.InvalidateCache(ctx)
	return nil
}

// UpdateStock - set số lượng tồn kho, is_available theo stock
func (s *BookService) UpdateStock(ctx context.Context, id uuid.UUID, req model.UpdateStockRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(b *model.Book) error {
		b.StockQuantity = *req.StockQuantity
		b.IsAvailable = b.StockQuantity > 0
		return nil
	})
}

// RecordSale - trừ kho và cộng sales_count (monotonic)
func (s *BookService) RecordSale(ctx context.Context, id uuid.UUID, req model.RecordSaleRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(b *model.Book) error {
		if b.StockQuantity < req.Quantity {
			return model.ErrInsufficientStock.WithDetails(map[string]interface{}{
				"stock_quantity": b.StockQuantity,
				"requested":      req.Quantity,
			})
		}
		b.StockQuantity -= req.Quantity
		b.SalesCount += req.Quantity
		b.IsAvailable = b.StockQuantity > 0
		return nil
	})
}

// ApplySale ghi sale fields (chỉ Discount Ledger gọi)
func (s *BookService) ApplySale(ctx context.Context, id uuid.UUID, sale model.SaleFields) error {
	return s.repo.UpdateSale(ctx, id, sale, s.now())
}

// GetForUpdate lock book trong transaction hiện tại
func (s *BookService) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return s.repo.GetByIDForUpdate(ctx, id)
}

// ClearExpiredSales - reconciliation cho lazy expiry
func (s *BookService) ClearExpiredSales(ctx context.Context, now time.Time) (int, error) {
	n, err := s.repo.ClearExpiredSales(ctx, now)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.InvalidateCache(ctx)
	}
	return n, nil
}

// InvalidateCache xóa toàn bộ cache của books (list + detail)
func (s *BookService) InvalidateCache(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, invalidatePattern); err != nil {
		logger.Error("Failed to invalidate book cache", err)
	}
}

// ============================================
// HELPERS
// ============================================

func (s *BookService) mutate(ctx context.Context, id uuid.UUID, fn func(b *model.Book) error) (*model.Book, error) {
	var updated *model.Book
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(b); err != nil {
			return err
		}
		b.UpdatedAt = s.now()
		b.SyncComingSoon(b.UpdatedAt)
		if err := s.repo.Update(ctx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.InvalidateCache(ctx)
	return updated, nil
}

func (s *BookService) checkDuplicates(ctx context.Context, title, isbn string, excludeID *uuid.UUID) error {
	exists, err := s.repo.ExistsByTitle(ctx, title, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return model.ErrDuplicateTitle
	}

	exists, err = s.repo.ExistsByISBN(ctx, isbn, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return model.ErrDuplicateISBN
	}
	return nil
}

// cacheGet - cache lỗi thì coi như MISS
func (s *BookService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		logger.Error("Cache GET error for key "+key, err)
		return false
	}
	if !found {
		logger.Debug("Cache MISS for key: " + key)
	}
	return found
}

func (s *BookService) cacheSet(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		logger.Error("Cache SET error for key "+key, err)
	}
}
