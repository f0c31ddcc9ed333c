package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookModel "bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/domains/discount/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDiscountPrice(t *testing.T) {
	tests := []struct {
		price, pct, want string
	}{
		{"100", "20", "80"},
		{"19.99", "15", "16.99"},
		{"10.05", "50", "5.03"}, // 5.025 → half-up
		{"10", "0", "10"},
		{"10", "100", "0"},
		{"0", "30", "0"},
	}
	for _, tt := range tests {
		got := DiscountPrice(dec(tt.price), dec(tt.pct))
		assert.True(t, got.Equal(dec(tt.want)), "%s at %s%%: got %s want %s", tt.price, tt.pct, got, tt.want)
	}

	b := CalculateWithBreakdown(dec("10.05"), dec("50"))
	assert.True(t, b.RawPrice.Equal(dec("5.025")))
	assert.True(t, b.DiscountPrice.Equal(dec("5.03")))
}

func TestApplyDiscount(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	book := &bookModel.Book{Price: dec("100")}

	t.Run("active discount sets sale fields", func(t *testing.T) {
		d := &model.Discount{Percentage: dec("20"), EndDate: now.AddDate(0, 0, 7), IsOnSale: true}
		sale, err := ApplyDiscount(book, d, now)
		require.NoError(t, err)
		assert.True(t, sale.OnSale)
		require.NotNil(t, sale.DiscountPrice)
		assert.True(t, sale.DiscountPrice.Equal(dec("80")))
		require.NotNil(t, sale.DiscountEndDate)
		assert.Equal(t, d.EndDate, *sale.DiscountEndDate)
	})

	t.Run("inactive discount clears", func(t *testing.T) {
		d := &model.Discount{Percentage: dec("20"), EndDate: now.AddDate(0, 0, 7)}
		sale, err := ApplyDiscount(book, d, now)
		require.NoError(t, err)
		assert.Equal(t, bookModel.SaleFields{}, sale)
	})

	t.Run("zero percent does not reduce price", func(t *testing.T) {
		d := &model.Discount{Percentage: dec("0"), EndDate: now.AddDate(0, 0, 7), IsOnSale: true}
		_, err := ApplyDiscount(book, d, now)
		assert.ErrorIs(t, err, model.ErrNoPriceReduction)
	})

	t.Run("free book cannot go on sale", func(t *testing.T) {
		d := &model.Discount{Percentage: dec("50"), EndDate: now.AddDate(0, 0, 7), IsOnSale: true}
		_, err := ApplyDiscount(&bookModel.Book{Price: decimal.Zero}, d, now)
		assert.ErrorIs(t, err, model.ErrNoPriceReduction)
	})

	t.Run("end not after now", func(t *testing.T) {
		d := &model.Discount{Percentage: dec("20"), EndDate: now, IsOnSale: true}
		_, err := ApplyDiscount(book, d, now)
		assert.ErrorIs(t, err, model.ErrDiscountEnded)
	})
}
