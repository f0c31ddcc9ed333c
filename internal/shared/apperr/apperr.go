package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind phân loại lỗi theo taxonomy của catalog
type Kind string

const (
	KindValidation      Kind = "VALIDATION"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindInvalidRange    Kind = "INVALID_RANGE"
	KindInvalidCategory Kind = "INVALID_CATEGORY"
	KindUnavailable     Kind = "UNAVAILABLE"
	KindInternal        Kind = "INTERNAL"
)

var kindStatus = map[Kind]int{
	KindValidation:      http.StatusBadRequest,
	KindNotFound:        http.StatusNotFound,
	KindConflict:        http.StatusConflict,
	KindInvalidRange:    http.StatusBadRequest,
	KindInvalidCategory: http.StatusBadRequest,
	KindUnavailable:     http.StatusServiceUnavailable,
	KindInternal:        http.StatusInternalServerError,
}

// AppError là error chuẩn được trả về từ service layer
// Handler chỉ cần đọc HTTPStatus + Code để render response
type AppError struct {
	Kind       Kind                   `json:"-"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`

	cause error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Is so sánh theo Code, nhờ vậy errors.Is vẫn đúng với bản copy có details/cause
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetails trả về bản copy kèm details (không mutate sentinel)
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// Wrap trả về bản copy giữ lại error gốc
func (e *AppError) Wrap(cause error) *AppError {
	cp := *e
	cp.cause = cause
	return &cp
}

func New(kind Kind, code, message string) *AppError {
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &AppError{
		Kind:       kind,
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

// Validation tạo lỗi VALIDATION với details theo field
func Validation(message string, details map[string]interface{}) *AppError {
	return New(KindValidation, "VAL_INVALID_INPUT", message).WithDetails(details)
}

var (
	ErrUnavailable = New(KindUnavailable, "SYS_STORE_UNAVAILABLE", "Record store is unavailable")
	ErrInternal    = New(KindInternal, "SYS_INTERNAL_ERROR", "Internal server error")
)

// As lấy *AppError ra khỏi error chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf trả về Kind của err, KindInternal nếu không phải AppError
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// FromStore chuẩn hóa lỗi từ record store:
// timeout / mất kết nối → UNAVAILABLE, còn lại giữ nguyên
func FromStore(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}

	var connectErr *pgconn.ConnectError
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.As(err, &connectErr),
		pgconn.Timeout(err):
		return ErrUnavailable.Wrap(err)
	}
	return err
}
