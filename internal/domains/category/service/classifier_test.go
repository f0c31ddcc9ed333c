package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookModel "bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/domains/category/model"
	"bookstore-catalog/internal/shared/apperr"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestMatches_NewReleaseBoundaries(t *testing.T) {
	lower := now.AddDate(0, -3, 0)
	tests := []struct {
		name      string
		published time.Time
		want      bool
	}{
		{"exactly three months ago", lower, true},
		{"one day older", lower.AddDate(0, 0, -1), false},
		{"exactly now", now, true},
		{"one second in the future", now.Add(time.Second), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &bookModel.Book{PublishedDate: tt.published}
			assert.Equal(t, tt.want, Matches(model.NewReleases, b, now))
		})
	}
}

func TestMonthsBefore_ClampsMonthEnd(t *testing.T) {
	tests := []struct {
		from time.Time
		n    int
		want time.Time
	}{
		{time.Date(2024, 5, 31, 9, 0, 0, 0, time.UTC), 3, time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC)},
		{time.Date(2023, 5, 31, 9, 0, 0, 0, time.UTC), 3, time.Date(2023, 2, 28, 9, 0, 0, 0, time.UTC)},
		{time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), 3, time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC)},
		{now, 3, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, monthsBefore(tt.from, tt.n), "from %s", tt.from)
	}
}

func TestMatches_NewReleaseAtMonthEnd(t *testing.T) {
	mayEnd := time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC)
	leapDay := &bookModel.Book{PublishedDate: time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)}
	assert.True(t, Matches(model.NewReleases, leapDay, mayEnd))

	older := &bookModel.Book{PublishedDate: time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC)}
	assert.False(t, Matches(model.NewReleases, older, mayEnd))
}

func TestMatches_NewArrivalAndComingSoon(t *testing.T) {
	b := &bookModel.Book{AddedDate: now.AddDate(0, -1, 0), PublishedDate: now.Add(time.Hour)}
	assert.True(t, Matches(model.NewArrivals, b, now))
	assert.True(t, Matches(model.ComingSoon, b, now))

	b.AddedDate = b.AddedDate.Add(-time.Second)
	assert.False(t, Matches(model.NewArrivals, b, now))

	// cờ lưu trữ không ảnh hưởng tới coming-soon
	stale := &bookModel.Book{PublishedDate: now.AddDate(-1, 0, 0), IsComingSoon: true}
	assert.False(t, Matches(model.ComingSoon, stale, now))
}

func TestMatches_DealsLazyExpiry(t *testing.T) {
	price := decimal.RequireFromString("8")
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	expired := &bookModel.Book{OnSale: true, DiscountPrice: &price, DiscountEndDate: &past}
	live := &bookModel.Book{OnSale: true, DiscountPrice: &price, DiscountEndDate: &future}

	assert.False(t, Matches(model.Deals, expired, now))
	assert.True(t, Matches(model.Deals, live, now))
}

func TestClassify(t *testing.T) {
	b := &bookModel.Book{
		IsBestseller:  true,
		IsAwardWinner: true,
		PublishedDate: now.AddDate(0, -1, 0),
		AddedDate:     now,
	}
	assert.Equal(t,
		[]model.Name{model.Bestsellers, model.AwardWinners, model.NewReleases, model.NewArrivals},
		Classify(b, now))
}

func TestParse(t *testing.T) {
	tests := map[string]model.Name{
		"deals":        model.Deals,
		"deal":         model.Deals,
		"Bestseller":   model.Bestsellers,
		"award-winner": model.AwardWinners,
		"coming-soon":  model.ComingSoon,
		" all ":        model.All,
	}
	for in, want := range tests {
		got, err := model.Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := model.Parse("romance")
	assert.ErrorIs(t, err, model.ErrInvalidCategory)
	assert.Equal(t, apperr.KindInvalidCategory, apperr.KindOf(err))
}

type stubBooks struct {
	books []bookModel.Book
	err   error
}

func (s stubBooks) AllBooks(context.Context) ([]bookModel.Book, error) { return s.books, s.err }

func TestCategoryService(t *testing.T) {
	books := []bookModel.Book{
		{Seq: 1, Title: "Zeta", IsBestseller: true, AddedDate: now.AddDate(-1, 0, 0), PublishedDate: now.AddDate(-2, 0, 0)},
		{Seq: 2, Title: "Alpha", IsBestseller: true, AddedDate: now, PublishedDate: now.AddDate(0, 2, 0)},
		{Seq: 3, Title: "Alpha", AddedDate: now.AddDate(-1, 0, 0), PublishedDate: now.AddDate(-3, 0, 0)},
	}
	svc := NewCategoryService(stubBooks{books: books}, func() time.Time { return now })

	t.Run("list sorted by title then insertion order", func(t *testing.T) {
		got, err := svc.ListByCategory(context.Background(), "all")
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []int64{2, 3, 1}, []int64{got[0].Seq, got[1].Seq, got[2].Seq})
	})

	t.Run("empty category is not an error", func(t *testing.T) {
		got, err := svc.ListByCategory(context.Background(), "deals")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := svc.ListByCategory(context.Background(), "romance")
		assert.ErrorIs(t, err, model.ErrInvalidCategory)
	})

	t.Run("counts cover every category", func(t *testing.T) {
		counts, err := svc.Counts(context.Background())
		require.NoError(t, err)
		assert.Len(t, counts, len(model.Names))
		assert.Equal(t, 3, counts[model.All])
		assert.Equal(t, 2, counts[model.Bestsellers])
		assert.Equal(t, 1, counts[model.NewArrivals])
		assert.Equal(t, 1, counts[model.ComingSoon])
		assert.Equal(t, 0, counts[model.Deals])
	})

	t.Run("store error is propagated", func(t *testing.T) {
		failing := NewCategoryService(stubBooks{err: errors.New("boom")}, nil)
		_, err := failing.Counts(context.Background())
		assert.Error(t, err)
	})
}
