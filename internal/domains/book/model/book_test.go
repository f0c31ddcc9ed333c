package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		page      int
		size      int
		wantPages int
		wantPrev  bool
		wantNext  bool
	}{
		{"empty store", 0, 1, 10, 0, false, false},
		{"exact fit", 20, 1, 10, 2, false, true},
		{"ceil", 21, 3, 10, 3, true, false},
		{"page past end", 5, 4, 2, 3, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage(nil, tt.total, Criteria{Page: tt.page, PageSize: tt.size})
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantPrev, p.HasPreviousPage)
			assert.Equal(t, tt.wantNext, p.HasNextPage)
			assert.NotNil(t, p.Books)
			assert.Empty(t, p.Books)
		})
	}
}

func TestBook_SaleLive(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	price := decimal.RequireFromString("100")
	discounted := decimal.RequireFromString("80")
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	live := Book{Price: price, OnSale: true, DiscountPrice: &discounted, DiscountEndDate: &future}
	assert.True(t, live.SaleLive(now))
	assert.True(t, live.EffectivePrice(now).Equal(discounted))

	// Lazy expiry: cờ OnSale vẫn true nhưng sale đã hết hạn
	expired := Book{Price: price, OnSale: true, DiscountPrice: &discounted, DiscountEndDate: &past}
	assert.False(t, expired.SaleLive(now))
	assert.True(t, expired.EffectivePrice(now).Equal(price))

	// end == now không còn live
	boundary := Book{Price: price, OnSale: true, DiscountPrice: &discounted, DiscountEndDate: &now}
	assert.False(t, boundary.SaleLive(now))
}

func TestBook_ApplySaleAndComingSoon(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	b := Book{PublishedDate: now.AddDate(0, 1, 0)}
	b.SyncComingSoon(now)
	assert.True(t, b.IsComingSoon)

	d := decimal.RequireFromString("5")
	b.ApplySale(SaleFields{OnSale: true, DiscountPrice: &d, DiscountEndDate: &now})
	assert.Equal(t, SaleFields{OnSale: true, DiscountPrice: &d, DiscountEndDate: &now}, b.Sale())

	b.ApplySale(SaleFields{})
	assert.False(t, b.OnSale)
	assert.Nil(t, b.DiscountPrice)
	assert.Nil(t, b.DiscountEndDate)
}
