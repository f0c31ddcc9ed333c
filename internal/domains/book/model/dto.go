package model

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bookstore-catalog/internal/shared/apperr"
	"bookstore-catalog/internal/shared/utils"
)

// -------------------------------------------------------------------
// CREATE / UPDATE BOOK
// -------------------------------------------------------------------

// BookRequest dùng cho cả POST (create) và PUT (full update).
// Sale fields (on_sale, discount_price, discount_end_date) không có ở đây:
// chúng chỉ được ghi qua Discount Ledger.
type BookRequest struct {
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	ISBN          string          `json:"isbn"`
	Description   string          `json:"description"`
	Genre         string          `json:"genre"`
	ImageURL      string          `json:"image_url"`
	Price         decimal.Decimal `json:"price"`
	YearPublished int             `json:"year_published"`
	PublishedDate utils.UTCTime   `json:"published_date"`
	Publisher     string          `json:"publisher"`
	Language      string          `json:"language"`
	Format        string          `json:"format"`
	StockQuantity int             `json:"stock_quantity"`
	IsAvailable   *bool           `json:"is_available"`
	IsBestseller  bool            `json:"is_bestseller"`
	IsAwardWinner bool            `json:"is_award_winner"`
	SalesCount    int             `json:"sales_count"`
}

func (r *BookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.ISBN = strings.TrimSpace(r.ISBN)
	r.Genre = strings.TrimSpace(r.Genre)
	r.Publisher = strings.TrimSpace(r.Publisher)
	r.Language = strings.TrimSpace(r.Language)
	r.Format = strings.TrimSpace(r.Format)
	r.ImageURL = strings.TrimSpace(r.ImageURL)
}

// Validate validates BookRequest
func (r BookRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&r.Author, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&r.ISBN, validation.Required, validation.RuneLength(1, 13)),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.Genre, validation.Required),
		validation.Field(&r.ImageURL, is.URL),
		validation.Field(&r.Price, validation.By(nonNegativeDecimal)),
		validation.Field(&r.YearPublished, validation.Required, validation.Min(1), validation.Max(9999)),
		validation.Field(&r.PublishedDate, validation.By(requiredTime)),
		validation.Field(&r.Publisher, validation.Required),
		validation.Field(&r.Language, validation.Required),
		validation.Field(&r.Format, validation.Required),
		validation.Field(&r.StockQuantity, validation.Min(0)),
		validation.Field(&r.SalesCount, validation.Min(0)),
	)
	return apperr.FromValidation(err)
}

// ToEntity build Book mới từ request
func (r BookRequest) ToEntity(now time.Time) *Book {
	b := &Book{
		ID:        uuid.New(),
		AddedDate: now,
	}
	r.ApplyTo(b, now)
	return b
}

// ApplyTo ghi các field nhận từ client lên book, không đụng tới sale fields
func (r BookRequest) ApplyTo(b *Book, now time.Time) {
	b.Title = r.Title
	b.Author = r.Author
	b.ISBN = r.ISBN
	b.Description = r.Description
	b.Genre = r.Genre
	b.ImageURL = r.ImageURL
	b.Price = r.Price
	b.YearPublished = r.YearPublished
	b.PublishedDate = r.PublishedDate.UTC()
	b.Publisher = r.Publisher
	b.Language = r.Language
	b.Format = r.Format
	b.StockQuantity = r.StockQuantity
	b.IsAvailable = true
	if r.IsAvailable != nil {
		b.IsAvailable = *r.IsAvailable
	}
	b.IsBestseller = r.IsBestseller
	b.IsAwardWinner = r.IsAwardWinner
	b.SalesCount = r.SalesCount
	b.UpdatedAt = now
	b.SyncComingSoon(now)
}

// -------------------------------------------------------------------
// STOCK / SALES
// -------------------------------------------------------------------

type UpdateStockRequest struct {
	StockQuantity *int `json:"stock_quantity"`
}

func (r UpdateStockRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.StockQuantity, validation.NotNil, validation.Min(0)),
	)
	return apperr.FromValidation(err)
}

type RecordSaleRequest struct {
	Quantity int `json:"quantity"`
}

func (r RecordSaleRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
	)
	return apperr.FromValidation(err)
}

// -------------------------------------------------------------------
// RULE HELPERS
// -------------------------------------------------------------------

func nonNegativeDecimal(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("must be a decimal")
	}
	if d.IsNegative() {
		return errors.New("must be greater than or equal to 0")
	}
	return nil
}

func requiredTime(value interface{}) error {
	t, ok := value.(utils.UTCTime)
	if !ok || t.IsZero() {
		return errors.New("cannot be blank")
	}
	return nil
}
