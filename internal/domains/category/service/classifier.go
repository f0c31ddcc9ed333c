package service

import (
	"time"

	bookModel "bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/domains/category/model"
)

// Cửa sổ thời gian của các category dẫn xuất
const (
	newReleaseMonths = 3
	newArrivalMonths = 1
)

// Matches: book có thuộc category name tại thời điểm now không.
// Hàm thuần, chỉ đọc snapshot của book.
func Matches(name model.Name, b *bookModel.Book, now time.Time) bool {
	switch name {
	case model.All:
		return true
	case model.Bestsellers:
		return b.IsBestseller
	case model.AwardWinners:
		return b.IsAwardWinner
	case model.NewReleases:
		// [now - 3 tháng, now], đóng cả hai đầu
		from := monthsBefore(now, newReleaseMonths)
		return !b.PublishedDate.Before(from) && !b.PublishedDate.After(now)
	case model.NewArrivals:
		return !b.AddedDate.Before(monthsBefore(now, newArrivalMonths))
	case model.ComingSoon:
		// luôn dẫn xuất từ published_date, không đọc cờ is_coming_soon
		return b.PublishedDate.After(now)
	case model.Deals:
		return b.SaleLive(now)
	}
	return false
}

// monthsBefore lùi n tháng theo lịch, ngày bị kẹp về ngày cuối của tháng đích
// (31/05 - 3 tháng = 29/02, không tràn sang tháng 3 như time.AddDate)
func monthsBefore(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()-time.Month(n), 1,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	return first.AddDate(0, 0, min(t.Day(), lastDay)-1)
}

// Classify trả về mọi category (trừ "all") mà book thuộc về
func Classify(b *bookModel.Book, now time.Time) []model.Name {
	out := make([]model.Name, 0, 2)
	for _, n := range model.Names {
		if n == model.All {
			continue
		}
		if Matches(n, b, now) {
			out = append(out, n)
		}
	}
	return out
}
