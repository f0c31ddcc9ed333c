package model

import "bookstore-catalog/internal/shared/apperr"

var (
	ErrDiscountNotFound = apperr.New(apperr.KindNotFound, "DISCOUNT_NOT_FOUND",
		"The specified discount does not exist")
	ErrConflictingActiveDiscount = apperr.New(apperr.KindConflict, "DISCOUNT_ACTIVE_CONFLICT",
		"Book already has an active discount")
	ErrInvalidDateRange = apperr.New(apperr.KindInvalidRange, "DISCOUNT_INVALID_DATE_RANGE",
		"end_date must be after start_date")
	ErrNoPriceReduction = apperr.New(apperr.KindValidation, "DISCOUNT_NO_PRICE_REDUCTION",
		"Discount price must be lower than the book price")
	ErrDiscountEnded = apperr.New(apperr.KindValidation, "DISCOUNT_ALREADY_ENDED",
		"Cannot activate a discount whose end_date has passed")
)
