package model

import (
	"strings"

	"bookstore-catalog/internal/shared/apperr"
)

// Name là tên canonical của một category dẫn xuất
type Name string

const (
	All          Name = "all"
	Bestsellers  Name = "bestsellers"
	AwardWinners Name = "award-winners"
	NewReleases  Name = "new-releases"
	NewArrivals  Name = "new-arrivals"
	ComingSoon   Name = "coming-soon"
	Deals        Name = "deals"
)

// Names theo thứ tự hiển thị
var Names = []Name{All, Bestsellers, AwardWinners, NewReleases, NewArrivals, ComingSoon, Deals}

// aliases: dạng số ít vẫn được chấp nhận
var aliases = map[string]Name{
	"bestseller":   Bestsellers,
	"award-winner": AwardWinners,
	"new-release":  NewReleases,
	"new-arrival":  NewArrivals,
	"deal":         Deals,
}

var ErrInvalidCategory = apperr.New(apperr.KindInvalidCategory, "CATEGORY_INVALID",
	"Unrecognized category")

// Parse chuẩn hóa tên category (không phân biệt hoa thường, chấp nhận alias)
func Parse(s string) (Name, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, n := range Names {
		if key == string(n) {
			return n, nil
		}
	}
	if n, ok := aliases[key]; ok {
		return n, nil
	}
	return "", ErrInvalidCategory.WithDetails(map[string]interface{}{
		"category": s,
		"allowed":  Names,
	})
}

// Counts là số sách trong mỗi category
type Counts map[Name]int
