package service

import (
	"time"

	bookModel "bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/domains/discount/model"
)

// ApplyDiscount tính sale fields của book khi discount được áp lên nó.
// Hàm thuần: không đọc store, không ghi gì; caller tự persist kết quả.
//
//   - discount không bật (IsOnSale=false) → sale fields rỗng
//   - discount bật → on_sale=true, discount_price theo %, discount_end_date = end_date
//
// Kết quả luôn giữ invariant: on_sale ⇒ discount_price < price ∧ discount_end_date > now
func ApplyDiscount(book *bookModel.Book, d *model.Discount, now time.Time) (bookModel.SaleFields, error) {
	if !d.IsOnSale {
		return bookModel.SaleFields{}, nil
	}

	if !d.EndDate.After(now) {
		return bookModel.SaleFields{}, model.ErrDiscountEnded.WithDetails(map[string]interface{}{
			"end_date": d.EndDate,
		})
	}

	price := DiscountPrice(book.Price, d.Percentage)
	if !price.LessThan(book.Price) {
		return bookModel.SaleFields{}, model.ErrNoPriceReduction.WithDetails(map[string]interface{}{
			"price":          book.Price,
			"discount_price": price,
		})
	}

	end := d.EndDate
	return bookModel.SaleFields{
		OnSale:          true,
		DiscountPrice:   &price,
		DiscountEndDate: &end,
	}, nil
}
