package service

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// pricePrecision: giá lưu với 2 chữ số thập phân (NUMERIC(10,2))
const pricePrecision = 2

// DiscountPrice tính giá sau giảm
//
// Business Logic:
//   - discount_price = price × (100 - percentage) / 100
//   - Làm tròn về 2 chữ số thập phân, ROUND_HALF_UP (>= 0.5 làm tròn lên)
//
// VD: 19.99 giảm 15% → 16.9915 → 16.99
func DiscountPrice(price, percentage decimal.Decimal) decimal.Decimal {
	return price.Mul(hundred.Sub(percentage)).Div(hundred).Round(pricePrecision)
}

// Breakdown chứa chi tiết tính toán (dùng cho logging/debugging)
type Breakdown struct {
	Price         decimal.Decimal `json:"price"`
	Percentage    decimal.Decimal `json:"percentage"`
	RawPrice      decimal.Decimal `json:"raw_price"`   // Trước khi làm tròn
	DiscountPrice decimal.Decimal `json:"final_price"` // Sau khi làm tròn
}

func CalculateWithBreakdown(price, percentage decimal.Decimal) Breakdown {
	raw := price.Mul(hundred.Sub(percentage)).Div(hundred)
	return Breakdown{
		Price:         price,
		Percentage:    percentage,
		RawPrice:      raw,
		DiscountPrice: raw.Round(pricePrecision),
	}
}
