package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Discount - giảm giá theo % cho đúng một book trong khoảng [StartDate, EndDate]
type Discount struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	BookID     uuid.UUID       `json:"book_id" db:"book_id"`
	Percentage decimal.Decimal `json:"percentage" db:"percentage"`
	StartDate  time.Time       `json:"start_date" db:"start_date"`
	EndDate    time.Time       `json:"end_date" db:"end_date"`
	// IsOnSale: discount đang được áp lên sale fields của book
	IsOnSale bool `json:"is_on_sale" db:"is_on_sale"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsActive: discount đang được bật và chưa hết hạn.
// Mỗi book có tối đa một discount active.
func (d *Discount) IsActive(now time.Time) bool {
	return d.IsOnSale && d.EndDate.After(now)
}

// IsCurrent: now nằm trong [StartDate, EndDate]
func (d *Discount) IsCurrent(now time.Time) bool {
	return !d.StartDate.After(now) && !d.EndDate.Before(now)
}

// View là discount kèm title của book để hiển thị
type View struct {
	Discount
	BookTitle string `json:"book_title"`
}
