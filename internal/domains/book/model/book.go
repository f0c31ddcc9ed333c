package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book represents the main book entity
type Book struct {
	// Identity
	ID    uuid.UUID `json:"id" db:"id"`
	Seq   int64     `json:"-" db:"seq"` // thứ tự insert, dùng làm tie-break khi sort
	Title string    `json:"title" db:"title"`
	ISBN  string    `json:"isbn" db:"isbn"`

	// Content
	Author        string    `json:"author" db:"author"`
	Description   string    `json:"description" db:"description"`
	Genre         string    `json:"genre" db:"genre"`
	ImageURL      string    `json:"image_url" db:"image_url"`
	YearPublished int       `json:"year_published" db:"year_published"`
	PublishedDate time.Time `json:"published_date" db:"published_date"`
	Publisher     string    `json:"publisher" db:"publisher"`
	Language      string    `json:"language" db:"language"`
	Format        string    `json:"format" db:"format"`

	// Pricing
	Price decimal.Decimal `json:"price" db:"price"`

	// Sale fields - chỉ Discount Ledger được ghi
	OnSale          bool             `json:"on_sale" db:"on_sale"`
	DiscountPrice   *decimal.Decimal `json:"discount_price,omitempty" db:"discount_price"`
	DiscountEndDate *time.Time       `json:"discount_end_date,omitempty" db:"discount_end_date"`

	// Inventory & stats
	StockQuantity int  `json:"stock_quantity" db:"stock_quantity"`
	IsAvailable   bool `json:"is_available" db:"is_available"`
	SalesCount    int  `json:"sales_count" db:"sales_count"`

	// Flags
	IsBestseller  bool `json:"is_bestseller" db:"is_bestseller"`
	IsAwardWinner bool `json:"is_award_winner" db:"is_award_winner"`
	IsComingSoon  bool `json:"is_coming_soon" db:"is_coming_soon"`

	// Timestamps
	AddedDate time.Time `json:"added_date" db:"added_date"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SaleFields là bộ 3 field giá sale trên Book
// Zero value = không sale
type SaleFields struct {
	OnSale          bool
	DiscountPrice   *decimal.Decimal
	DiscountEndDate *time.Time
}

// Sale trả về sale fields hiện tại của book
func (b *Book) Sale() SaleFields {
	return SaleFields{
		OnSale:          b.OnSale,
		DiscountPrice:   b.DiscountPrice,
		DiscountEndDate: b.DiscountEndDate,
	}
}

// ApplySale ghi đè sale fields
func (b *Book) ApplySale(f SaleFields) {
	b.OnSale = f.OnSale
	b.DiscountPrice = f.DiscountPrice
	b.DiscountEndDate = f.DiscountEndDate
}

// SaleLive kiểm tra sale còn hiệu lực tại thời điểm now.
// Expiry là lazy: OnSale có thể vẫn true sau DiscountEndDate cho tới lần ghi kế tiếp,
// nên reader luôn phải so sánh với now.
func (b *Book) SaleLive(now time.Time) bool {
	return b.OnSale && b.DiscountEndDate != nil && b.DiscountEndDate.After(now)
}

// EffectivePrice là giá bán thực tế tại now
func (b *Book) EffectivePrice(now time.Time) decimal.Decimal {
	if b.SaleLive(now) && b.DiscountPrice != nil {
		return *b.DiscountPrice
	}
	return b.Price
}

// SyncComingSoon đồng bộ cờ is_coming_soon từ published_date.
// Classifier không đọc cờ này; nó chỉ được giữ cho các consumer đọc thẳng bảng books.
func (b *Book) SyncComingSoon(now time.Time) {
	b.IsComingSoon = b.PublishedDate.After(now)
}
