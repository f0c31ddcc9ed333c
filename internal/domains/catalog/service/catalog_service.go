package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	announcementModel "bookstore-catalog/internal/domains/announcement/model"
	announcementService "bookstore-catalog/internal/domains/announcement/service"
	bookModel "bookstore-catalog/internal/domains/book/model"
	bookService "bookstore-catalog/internal/domains/book/service"
	categoryModel "bookstore-catalog/internal/domains/category/model"
	categoryService "bookstore-catalog/internal/domains/category/service"
	discountModel "bookstore-catalog/internal/domains/discount/model"
	discountService "bookstore-catalog/internal/domains/discount/service"
	"bookstore-catalog/pkg/database"
	"bookstore-catalog/pkg/logger"
)

// CatalogService là façade mà tầng HTTP và worker dùng.
// Các thao tác đụng nhiều domain (update price, delete book) chạy trong một transaction.
type CatalogService struct {
	tx            database.TxManager
	books         *bookService.BookService
	categories    *categoryService.CategoryService
	discounts     *discountService.DiscountService
	announcements *announcementService.AnnouncementService
}

func NewCatalogService(
	tx database.TxManager,
	books *bookService.BookService,
	categories *categoryService.CategoryService,
	discounts *discountService.DiscountService,
	announcements *announcementService.AnnouncementService,
) *CatalogService {
	return &CatalogService{
		tx:            tx,
		books:         books,
		categories:    categories,
		discounts:     discounts,
		announcements: announcements,
	}
}

// ============================================
// BOOKS
// ============================================

func (s *CatalogService) ListBooks(ctx context.Context, f bookModel.Filter) (*bookModel.Page, error) {
	return s.books.ListBooks(ctx, f)
}

func (s *CatalogService) GetBook(ctx context.Context, id uuid.UUID) (*bookModel.Book, error) {
	return s.books.GetBook(ctx, id)
}

func (s *CatalogService) CreateBook(ctx context.Context, req bookModel.BookRequest) (*bookModel.Book, error) {
	return s.books.CreateBook(ctx, req)
}

// UpdateBook: đổi price của book đang sale thì discount active được áp lại trong cùng transaction.
// Giá mới không còn giảm được (vd price = 0) → rollback toàn bộ update.
func (s *CatalogService) UpdateBook(ctx context.Context, id uuid.UUID, req bookModel.BookRequest) (*bookModel.Book, error) {
	var updated *bookModel.Book
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		book, priceChanged, err := s.books.UpdateBook(ctx, id, req)
		if err != nil {
			return err
		}
		if priceChanged {
			if err := s.discounts.RepriceForBook(ctx, book); err != nil {
				return err
			}
		}
		updated = book
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.books.InvalidateCache(ctx)
	return updated, nil
}

// DeleteBook xóa book cùng các discount của nó. Announcement giữ nguyên (book_id không có FK).
func (s *CatalogService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	var removed int
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.books.GetForUpdate(ctx, id); err != nil {
			return err
		}
		n, err := s.discounts.DeleteByBook(ctx, id)
		if err != nil {
			return err
		}
		removed = n
		return s.books.DeleteBook(ctx, id)
	})
	if err != nil {
		return err
	}

	s.books.InvalidateCache(ctx)
	logger.Info("Book deleted", map[string]interface{}{
		"book_id":           id,
		"discounts_removed": removed,
	})
	return nil
}

func (s *CatalogService) UpdateStock(ctx context.Context, id uuid.UUID, req bookModel.UpdateStockRequest) (*bookModel.Book, error) {
	return s.books.UpdateStock(ctx, id, req)
}

func (s *CatalogService) RecordSale(ctx context.Context, id uuid.UUID, req bookModel.RecordSaleRequest) (*bookModel.Book, error) {
	return s.books.RecordSale(ctx, id, req)
}

func (s *CatalogService) ListAuthors(ctx context.Context) ([]string, error) {
	return s.books.ListAuthors(ctx)
}

func (s *CatalogService) ListBooksByAuthor(ctx context.Context, author string) ([]bookModel.Book, error) {
	return s.books.ListBooksByAuthor(ctx, author)
}

func (s *CatalogService) ExportBooksToExcel(ctx context.Context, f bookModel.Filter) (*excelize.File, error) {
	return s.books.ExportBooksToExcel(ctx, f)
}

// ============================================
// CATEGORIES
// ============================================

func (s *CatalogService) ListByCategory(ctx context.Context, name string) ([]bookModel.Book, error) {
	return s.categories.ListByCategory(ctx, name)
}

func (s *CatalogService) CategoryCounts(ctx context.Context) (categoryModel.Counts, error) {
	return s.categories.Counts(ctx)
}

// ============================================
// DISCOUNTS
// ============================================

func (s *CatalogService) ListDiscounts(ctx context.Context) ([]discountModel.View, error) {
	return s.discounts.List(ctx)
}

func (s *CatalogService) ListCurrentDiscounts(ctx context.Context) ([]discountModel.View, error) {
	return s.discounts.ListCurrent(ctx)
}

func (s *CatalogService) GetDiscount(ctx context.Context, id uuid.UUID) (*discountModel.View, error) {
	return s.discounts.Get(ctx, id)
}

func (s *CatalogService) CreateDiscount(ctx context.Context, req discountModel.CreateDiscountRequest) (*discountModel.View, error) {
	return s.discounts.Create(ctx, req)
}

func (s *CatalogService) UpdateDiscount(ctx context.Context, id uuid.UUID, req discountModel.UpdateDiscountRequest) (*discountModel.View, error) {
	return s.discounts.Update(ctx, id, req)
}

func (s *CatalogService) DeleteDiscount(ctx context.Context, id uuid.UUID) error {
	return s.discounts.Delete(ctx, id)
}

// ReconcileExpired - entry point của job discount:reconcile_expired
func (s *CatalogService) ReconcileExpired(ctx context.Context) (int, error) {
	return s.discounts.ReconcileExpired(ctx)
}

// ============================================
// ANNOUNCEMENTS
// ============================================

func (s *CatalogService) ListAnnouncements(ctx context.Context) ([]announcementModel.View, error) {
	return s.announcements.List(ctx)
}

func (s *CatalogService) ListActiveAnnouncements(ctx context.Context) ([]announcementModel.View, error) {
	return s.announcements.ListActive(ctx)
}

func (s *CatalogService) ListAnnouncementsByCategory(ctx context.Context, category string) ([]announcementModel.View, error) {
	return s.announcements.ListByCategory(ctx, category)
}

func (s *CatalogService) ListAnnouncementsByBook(ctx context.Context, bookID uuid.UUID) ([]announcementModel.View, error) {
	return s.announcements.ListByBook(ctx, bookID)
}

func (s *CatalogService) ListAnnouncementCategories(ctx context.Context) ([]string, error) {
	return s.announcements.Categories(ctx)
}

func (s *CatalogService) GetAnnouncement(ctx context.Context, id uuid.UUID) (*announcementModel.View, error) {
	return s.announcements.Get(ctx, id)
}

func (s *CatalogService) CreateAnnouncement(ctx context.Context, req announcementModel.AnnouncementRequest) (*announcementModel.View, error) {
	return s.announcements.Create(ctx, req)
}

func (s *CatalogService) UpdateAnnouncement(ctx context.Context, id uuid.UUID, req announcementModel.AnnouncementRequest) (*announcementModel.View, error) {
	return s.announcements.Update(ctx, id, req)
}

func (s *CatalogService) DeleteAnnouncement(ctx context.Context, id uuid.UUID) error {
	return s.announcements.Delete(ctx, id)
}

func (s *CatalogService) ToggleAnnouncement(ctx context.Context, id uuid.UUID) (*announcementModel.View, error) {
	return s.announcements.ToggleActive(ctx, id)
}
