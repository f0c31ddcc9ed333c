package model

import (
	"bookstore-catalog/internal/shared/apperr"
)

var (
	ErrBookNotFound = apperr.New(apperr.KindNotFound, "BOOK_NOT_FOUND",
		"The specified book does not exist")
	ErrDuplicateTitle = apperr.New(apperr.KindConflict, "BOOK_DUPLICATE_TITLE",
		"A book with this title already exists")
	ErrDuplicateISBN = apperr.New(apperr.KindConflict, "BOOK_DUPLICATE_ISBN",
		"This ISBN is already registered")
	ErrInvalidPriceRange = apperr.New(apperr.KindInvalidRange, "BOOK_INVALID_PRICE_RANGE",
		"min_price must be less than or equal to max_price")
	ErrSalesCountDecrease = apperr.New(apperr.KindValidation, "BOOK_SALES_COUNT_DECREASE",
		"sales_count cannot decrease")
	ErrInsufficientStock = apperr.New(apperr.KindValidation, "BOOK_INSUFFICIENT_STOCK",
		"Not enough stock to record this sale")
)

// Unique constraints trên bảng books (xem migrations)
const (
	ConstraintTitleUnique = "books_title_key"
	ConstraintISBNUnique  = "books_isbn_key"
)

// ErrorForConstraint map unique violation về lỗi Conflict tương ứng
func ErrorForConstraint(constraint string) (*apperr.AppError, bool) {
	switch constraint {
	case ConstraintTitleUnique:
		return ErrDuplicateTitle, true
	case ConstraintISBNUnique:
		return ErrDuplicateISBN, true
	}
	return nil, false
}
