package service

import (
	"context"
	"slices"
	"strings"
	"time"

	bookModel "bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/domains/category/model"
)

// BookSource cung cấp full scan của BookRecord store theo thứ tự insert
type BookSource interface {
	AllBooks(ctx context.Context) ([]bookModel.Book, error)
}

// CategoryService evaluate category trên toàn bộ store mỗi lần gọi (không cache)
type CategoryService struct {
	books BookSource
	now   func() time.Time
}

func NewCategoryService(books BookSource, now func() time.Time) *CategoryService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &CategoryService{books: books, now: now}
}

// ListByCategory trả về sách thuộc category, sort theo title (tie-break theo thứ tự insert).
// Kết quả rỗng không phải lỗi.
func (s *CategoryService) ListByCategory(ctx context.Context, name string) ([]bookModel.Book, error) {
	category, err := model.Parse(name)
	if err != nil {
		return nil, err
	}

	books, err := s.books.AllBooks(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]bookModel.Book, 0, len(books))
	for i := range books {
		if Matches(category, &books[i], now) {
			out = append(out, books[i])
		}
	}
	slices.SortStableFunc(out, func(a, b bookModel.Book) int {
		return strings.Compare(a.Title, b.Title)
	})
	return out, nil
}

// Counts đếm số sách của mọi category canonical (category rỗng = 0)
func (s *CategoryService) Counts(ctx context.Context) (model.Counts, error) {
	books, err := s.books.AllBooks(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	counts := make(model.Counts, len(model.Names))
	for _, n := range model.Names {
		counts[n] = 0
	}
	for i := range books {
		counts[model.All]++
		for _, n := range Classify(&books[i], now) {
			counts[n]++
		}
	}
	return counts, nil
}
