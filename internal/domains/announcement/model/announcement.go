package model

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"bookstore-catalog/internal/shared/apperr"
	"bookstore-catalog/internal/shared/utils"
)

// Announcement - thông báo hiển thị trên storefront.
// BookID chỉ được kiểm tra lúc ghi, không cascade khi book bị xóa.
type Announcement struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Title     string     `json:"title" db:"title"`
	Content   string     `json:"content" db:"content"`
	StartDate time.Time  `json:"start_date" db:"start_date"`
	EndDate   time.Time  `json:"end_date" db:"end_date"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	Category  *string    `json:"category,omitempty" db:"category"`
	BookID    *uuid.UUID `json:"book_id,omitempty" db:"book_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// IsLive: is_active và now nằm trong [start, end]
func (a *Announcement) IsLive(now time.Time) bool {
	return a.IsActive && !a.StartDate.After(now) && !a.EndDate.Before(now)
}

// View kèm title của book (nếu có và book còn tồn tại)
type View struct {
	Announcement
	BookTitle *string `json:"book_title,omitempty"`
}

// ================================================
// ERRORS
// ================================================

var (
	ErrAnnouncementNotFound = apperr.New(apperr.KindNotFound, "ANNOUNCEMENT_NOT_FOUND",
		"Announcement not found")
	ErrInvalidDateRange = apperr.New(apperr.KindInvalidRange, "ANNOUNCEMENT_INVALID_DATE_RANGE",
		"end_date must be after start_date")
	ErrReferencedBookNotFound = apperr.New(apperr.KindValidation, "ANNOUNCEMENT_BOOK_NOT_FOUND",
		"Referenced book does not exist")
)

// ================================================
// REQUEST DTO
// ================================================

// AnnouncementRequest dùng cho cả create và update
type AnnouncementRequest struct {
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	StartDate utils.UTCTime `json:"start_date"`
	EndDate   utils.UTCTime `json:"end_date"`
	IsActive  *bool         `json:"is_active"`
	Category  *string       `json:"category"`
	BookID    *uuid.UUID    `json:"book_id"`
}

func (r *AnnouncementRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	if r.Category != nil {
		r.Category = utils.NonEmpty(*r.Category)
	}
	if r.BookID != nil && *r.BookID == uuid.Nil {
		r.BookID = nil
	}
}

func (r AnnouncementRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.StartDate, validation.By(requiredTime)),
		validation.Field(&r.EndDate, validation.By(requiredTime)),
		validation.Field(&r.Category, validation.NilOrNotEmpty, validation.RuneLength(1, 100)),
	)
	if err != nil {
		return apperr.FromValidation(err)
	}
	if !r.StartDate.Before(r.EndDate.Time) {
		return ErrInvalidDateRange
	}
	return nil
}

// ApplyTo ghi request lên announcement (is_active mặc định true)
func (r AnnouncementRequest) ApplyTo(a *Announcement, now time.Time) {
	a.Title = r.Title
	a.Content = r.Content
	a.StartDate = r.StartDate.UTC()
	a.EndDate = r.EndDate.UTC()
	a.IsActive = true
	if r.IsActive != nil {
		a.IsActive = *r.IsActive
	}
	a.Category = r.Category
	a.BookID = r.BookID
	a.UpdatedAt = now
}

func requiredTime(value interface{}) error {
	t, ok := value.(utils.UTCTime)
	if !ok || t.IsZero() {
		return errors.New("cannot be blank")
	}
	return nil
}
