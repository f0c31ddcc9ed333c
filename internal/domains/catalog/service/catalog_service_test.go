package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	announcementModel "bookstore-catalog/internal/domains/announcement/model"
	announcementRepo "bookstore-catalog/internal/domains/announcement/repository"
	announcementService "bookstore-catalog/internal/domains/announcement/service"
	bookModel "bookstore-catalog/internal/domains/book/model"
	bookRepo "bookstore-catalog/internal/domains/book/repository"
	bookService "bookstore-catalog/internal/domains/book/service"
	categoryModel "bookstore-catalog/internal/domains/category/model"
	categoryService "bookstore-catalog/internal/domains/category/service"
	discountModel "bookstore-catalog/internal/domains/discount/model"
	discountRepo "bookstore-catalog/internal/domains/discount/repository"
	discountService "bookstore-catalog/internal/domains/discount/service"
	infraCache "bookstore-catalog/internal/infrastructure/cache"
	"bookstore-catalog/internal/infrastructure/memstore"
	"bookstore-catalog/internal/shared/apperr"
	"bookstore-catalog/internal/shared/utils"
)

var testNow = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newCatalog(t *testing.T) *CatalogService {
	t.Helper()
	return newCatalogWithClock(t, func() time.Time { return testNow })
}

func newCatalogWithClock(t *testing.T, now func() time.Time) *CatalogService {
	t.Helper()
	store := memstore.New()

	books := bookService.NewService(bookRepo.NewMemoryRepository(store), store, infraCache.NewNoopCache(),
		bookService.Config{Now: now})
	discounts := discountService.NewDiscountService(discountRepo.NewMemoryRepository(store), books, store, now)
	announcements := announcementService.NewAnnouncementService(
		announcementRepo.NewMemoryRepository(store), books, store, now)

	return NewCatalogService(store, books, categoryService.NewCategoryService(books, now), discounts, announcements)
}

func bookRequest(title, price string) bookModel.BookRequest {
	return bookModel.BookRequest{
		Title:         title,
		Author:        "Frank Herbert",
		ISBN:          "isbn-" + title,
		Description:   "desc",
		Genre:         "Science Fiction",
		Price:         dec(price),
		YearPublished: 1965,
		PublishedDate: utils.NewUTCTime(time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC)),
		Publisher:     "Chilton",
		Language:      "English",
		Format:        "Hardcover",
		StockQuantity: 5,
	}
}

func activeDiscount(bookID uuid.UUID, pct string) discountModel.CreateDiscountRequest {
	return discountModel.CreateDiscountRequest{
		BookID:     bookID,
		Percentage: dec(pct),
		StartDate:  utils.NewUTCTime(testNow.AddDate(0, 0, -1)),
		EndDate:    utils.NewUTCTime(testNow.AddDate(0, 0, 7)),
		IsOnSale:   true,
	}
}

func TestUpdateBook_RepricesActiveDiscount(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	b, err := c.CreateBook(ctx, bookRequest("Dune", "100"))
	require.NoError(t, err)
	_, err = c.CreateDiscount(ctx, activeDiscount(b.ID, "20"))
	require.NoError(t, err)

	updated, err := c.UpdateBook(ctx, b.ID, bookRequest("Dune", "60"))
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(dec("60")))

	got, err := c.GetBook(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.OnSale)
	require.NotNil(t, got.DiscountPrice)
	assert.True(t, got.DiscountPrice.Equal(dec("48")))
	assert.True(t, got.DiscountPrice.LessThan(got.Price))
}

func TestUpdateBook_UnsupportedPriceRollsBack(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	b, err := c.CreateBook(ctx, bookRequest("Dune", "100"))
	require.NoError(t, err)
	_, err = c.CreateDiscount(ctx, activeDiscount(b.ID, "20"))
	require.NoError(t, err)

	_, err = c.UpdateBook(ctx, b.ID, bookRequest("Dune", "0"))
	assert.ErrorIs(t, err, discountModel.ErrNoPriceReduction)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	got, err := c.GetBook(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(dec("100")))
	assert.True(t, got.DiscountPrice.Equal(dec("80")))
}

func TestUpdateBook_LapsedSaleClearedOnPriceChange(t *testing.T) {
	ctx := context.Background()
	clock := testNow
	c := newCatalogWithClock(t, func() time.Time { return clock })

	b, err := c.CreateBook(ctx, bookRequest("Dune", "100"))
	require.NoError(t, err)
	_, err = c.CreateDiscount(ctx, activeDiscount(b.ID, "20"))
	require.NoError(t, err)

	// discount hết hạn, on_sale vẫn còn lưu (lazy expiry)
	clock = testNow.AddDate(0, 0, 30)
	stale, err := c.GetBook(ctx, b.ID)
	require.NoError(t, err)
	require.True(t, stale.OnSale)

	_, err = c.UpdateBook(ctx, b.ID, bookRequest("Dune", "50"))
	require.NoError(t, err)

	got, err := c.GetBook(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(dec("50")))
	assert.False(t, got.OnSale)
	assert.Nil(t, got.DiscountPrice)
	assert.Nil(t, got.DiscountEndDate)
}

func TestUpdateBook_WithoutDiscountKeepsSaleCleared(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	b, err := c.CreateBook(ctx, bookRequest("Dune", "100"))
	require.NoError(t, err)

	updated, err := c.UpdateBook(ctx, b.ID, bookRequest("Dune Messiah", "0"))
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.False(t, updated.OnSale)
	assert.Nil(t, updated.DiscountPrice)
}

func TestDeleteBook_CascadesDiscountsKeepsAnnouncements(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	b, err := c.CreateBook(ctx, bookRequest("Dune", "100"))
	require.NoError(t, err)
	d, err := c.CreateDiscount(ctx, activeDiscount(b.ID, "20"))
	require.NoError(t, err)
	a, err := c.CreateAnnouncement(ctx, announcementModel.AnnouncementRequest{
		Title:     "Dune week",
		Content:   "All week long",
		StartDate: utils.NewUTCTime(testNow.Add(-time.Hour)),
		EndDate:   utils.NewUTCTime(testNow.Add(time.Hour)),
		BookID:    &b.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, a.BookTitle)

	require.NoError(t, c.DeleteBook(ctx, b.ID))

	_, err = c.GetBook(ctx, b.ID)
	assert.ErrorIs(t, err, bookModel.ErrBookNotFound)
	_, err = c.GetDiscount(ctx, d.ID)
	assert.ErrorIs(t, err, discountModel.ErrDiscountNotFound)

	kept, err := c.GetAnnouncement(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.BookTitle)

	assert.ErrorIs(t, c.DeleteBook(ctx, b.ID), bookModel.ErrBookNotFound)
}

func TestCategoriesThroughCatalog(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	b, err := c.CreateBook(ctx, bookRequest("Dune", "100"))
	require.NoError(t, err)
	_, err = c.CreateBook(ctx, bookRequest("Emma", "12"))
	require.NoError(t, err)
	_, err = c.CreateDiscount(ctx, activeDiscount(b.ID, "10"))
	require.NoError(t, err)

	deals, err := c.ListByCategory(ctx, "deals")
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, "Dune", deals[0].Title)

	counts, err := c.CategoryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[categoryModel.All])
	assert.Equal(t, 1, counts[categoryModel.Deals])

	_, err = c.ListByCategory(ctx, "bogus")
	assert.Equal(t, apperr.KindInvalidCategory, apperr.KindOf(err))
}
