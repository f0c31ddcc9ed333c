package utils

import (
	"strings"

	"github.com/google/uuid"
)

// ParseUUID parse id từ path param, trả về false nếu sai format
func ParseUUID(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// Ptr trả về con trỏ tới bản copy của v
func Ptr[T any](v T) *T {
	return &v
}

// NonEmpty trả về nil nếu chuỗi rỗng (sau trim), dùng cho optional filter
func NonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
