package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bookstore-catalog/internal/shared/apperr"
	"bookstore-catalog/internal/shared/utils"
)

var hundred = decimal.NewFromInt(100)

// -------------------------------------------------------------------
// REQUEST DTOs
// -------------------------------------------------------------------

// CreateDiscountRequest - POST /v1/discounts
type CreateDiscountRequest struct {
	BookID     uuid.UUID       `json:"book_id"`
	Percentage decimal.Decimal `json:"percentage"`
	StartDate  utils.UTCTime   `json:"start_date"`
	EndDate    utils.UTCTime   `json:"end_date"`
	IsOnSale   bool            `json:"is_on_sale"`
}

func (r CreateDiscountRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.By(requiredUUID)),
		validation.Field(&r.Percentage, validation.By(percentage)),
		validation.Field(&r.StartDate, validation.By(requiredTime)),
		validation.Field(&r.EndDate, validation.By(requiredTime)),
	)
	if err != nil {
		return apperr.FromValidation(err)
	}
	return checkRange(r.StartDate.Time, r.EndDate.Time)
}

func (r CreateDiscountRequest) Terms() Terms {
	return Terms{
		Percentage: r.Percentage,
		StartDate:  r.StartDate.UTC(),
		EndDate:    r.EndDate.UTC(),
		IsOnSale:   r.IsOnSale,
	}
}

// UpdateDiscountRequest - PUT /v1/discounts/:id (book_id không đổi được)
type UpdateDiscountRequest struct {
	Percentage decimal.Decimal `json:"percentage"`
	StartDate  utils.UTCTime   `json:"start_date"`
	EndDate    utils.UTCTime   `json:"end_date"`
	IsOnSale   bool            `json:"is_on_sale"`
}

func (r UpdateDiscountRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Percentage, validation.By(percentage)),
		validation.Field(&r.StartDate, validation.By(requiredTime)),
		validation.Field(&r.EndDate, validation.By(requiredTime)),
	)
	if err != nil {
		return apperr.FromValidation(err)
	}
	return checkRange(r.StartDate.Time, r.EndDate.Time)
}

func (r UpdateDiscountRequest) Terms() Terms {
	return Terms{
		Percentage: r.Percentage,
		StartDate:  r.StartDate.UTC(),
		EndDate:    r.EndDate.UTC(),
		IsOnSale:   r.IsOnSale,
	}
}

// Terms là phần có thể sửa của một discount
type Terms struct {
	Percentage decimal.Decimal
	StartDate  time.Time
	EndDate    time.Time
	IsOnSale   bool
}

func (t Terms) ApplyTo(d *Discount, now time.Time) {
	d.Percentage = t.Percentage
	d.StartDate = t.StartDate
	d.EndDate = t.EndDate
	d.IsOnSale = t.IsOnSale
	d.UpdatedAt = now
}

// -------------------------------------------------------------------
// RULE HELPERS
// -------------------------------------------------------------------

func checkRange(start, end time.Time) error {
	if !start.Before(end) {
		return ErrInvalidDateRange
	}
	return nil
}

func percentage(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("must be a decimal")
	}
	if d.IsNegative() || d.GreaterThan(hundred) {
		return errors.New("must be between 0 and 100")
	}
	return nil
}

func requiredUUID(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return errors.New("cannot be blank")
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
