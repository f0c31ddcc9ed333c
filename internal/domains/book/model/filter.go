package model

import (
	"crypto/md5"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"bookstore-catalog/internal/shared/apperr"
)

// SortField là field dùng để sort danh sách sách
type SortField string

const (
	SortByTitle     SortField = "title"
	SortByPrice     SortField = "price"
	SortByYear      SortField = "year"
	SortByDateAdded SortField = "dateadded"
)

// ParseSortField không phân biệt hoa thường.
// Rỗng = mặc định title. Giá trị lạ fallback về title và ok=false (không trả lỗi).
func ParseSortField(s string) (field SortField, ok bool) {
	switch SortField(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByTitle:
		return SortByTitle, true
	case SortByPrice:
		return SortByPrice, true
	case SortByYear:
		return SortByYear, true
	case SortByDateAdded:
		return SortByDateAdded, true
	default:
		return SortByTitle, false
	}
}

// Filter là input của Catalog Query Engine.
// Field nil = filter không được cung cấp, không tham gia predicate.
type Filter struct {
	Genre     *string
	Search    *string
	Author    *string
	OnSale    *bool
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	Language  *string
	Format    *string
	Publisher *string

	SortBy    string
	SortOrder string
	Page      *int
	PageSize  *int
}

// Paging chứa giới hạn phân trang lấy từ config
type Paging struct {
	DefaultPageSize int
	MaxPageSize     int
}

var DefaultPaging = Paging{DefaultPageSize: 10, MaxPageSize: 100}

// Validate kiểm tra input trước khi query.
// Thứ tự: lỗi field (VALIDATION) trước, sau đó mới tới khoảng giá (INVALID_RANGE).
func (f Filter) Validate() error {
	details := map[string]interface{}{}
	if f.Page != nil && *f.Page < 1 {
		details["page"] = "must be greater than or equal to 1"
	}
	if f.PageSize != nil && *f.PageSize < 1 {
		details["page_size"] = "must be greater than or equal to 1"
	}
	if f.MinPrice != nil && f.MinPrice.IsNegative() {
		details["min_price"] = "must be greater than or equal to 0"
	}
	if f.MaxPrice != nil && f.MaxPrice.IsNegative() {
		details["max_price"] = "must be greater than or equal to 0"
	}
	if len(details) > 0 {
		return apperr.Validation("Invalid book filter", details)
	}

	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return ErrInvalidPriceRange
	}
	return nil
}

// Criteria là Filter đã được chuẩn hóa: default đã điền, string rỗng bị bỏ
type Criteria struct {
	Genre     *string
	Search    *string
	Author    *string
	OnSale    *bool
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	Language  *string
	Format    *string
	Publisher *string

	SortBy   SortField
	Desc     bool
	Page     int
	PageSize int
}

// Normalize gọi sau Validate
func (f Filter) Normalize(p Paging) Criteria {
	sortBy, known := ParseSortField(f.SortBy)
	c := Criteria{
		Genre:     nonEmpty(f.Genre),
		Search:    nonEmpty(f.Search),
		Author:    nonEmpty(f.Author),
		OnSale:    f.OnSale,
		MinPrice:  f.MinPrice,
		MaxPrice:  f.MaxPrice,
		Language:  nonEmpty(f.Language),
		Format:    nonEmpty(f.Format),
		Publisher: nonEmpty(f.Publisher),
		SortBy:    sortBy,
		// sortBy lạ → title ascending, bỏ qua sortOrder
		Desc:      known && strings.EqualFold(strings.TrimSpace(f.SortOrder), "desc"),
		Page:      1,
		PageSize:  p.DefaultPageSize,
	}
	if f.Page != nil {
		c.Page = *f.Page
	}
	if f.PageSize != nil {
		c.PageSize = *f.PageSize
	}
	if p.MaxPageSize > 0 && c.PageSize > p.MaxPageSize {
		c.PageSize = p.MaxPageSize
	}
	return c
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func (c Criteria) Offset() int {
	return (c.Page - 1) * c.PageSize
}

// Matches áp dụng AND của mọi filter được cung cấp.
// search/author: substring không phân biệt hoa thường.
// genre/language/format/publisher: so khớp chính xác, phân biệt hoa thường.
func (c Criteria) Matches(b *Book) bool {
	if c.Genre != nil && b.Genre != *c.Genre {
		return false
	}
	if c.Search != nil {
		needle := strings.ToLower(*c.Search)
		if !containsFold(b.Title, needle) &&
			!containsFold(b.Description, needle) &&
			!containsFold(b.ISBN, needle) {
			return false
		}
	}
	if c.Author != nil && !containsFold(b.Author, strings.ToLower(*c.Author)) {
		return false
	}
	if c.OnSale != nil && b.OnSale != *c.OnSale {
		return false
	}
	if c.MinPrice != nil && b.Price.LessThan(*c.MinPrice) {
		return false
	}
	if c.MaxPrice != nil && b.Price.GreaterThan(*c.MaxPrice) {
		return false
	}
	if c.Language != nil && b.Language != *c.Language {
		return false
	}
	if c.Format != nil && b.Format != *c.Format {
		return false
	}
	if c.Publisher != nil && b.Publisher != *c.Publisher {
		return false
	}
	return true
}

func containsFold(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}

// Less là comparator một key; tie-break luôn theo Seq tăng dần (thứ tự insert)
func (c Criteria) Less(a, b *Book) bool {
	cmp := CompareBy(c.SortBy, a, b)
	if c.Desc {
		cmp = -cmp
	}
	if cmp != 0 {
		return cmp < 0
	}
	return a.Seq < b.Seq
}

// CompareBy so sánh 2 book theo một field, title so sánh theo byte (giống COLLATE "C")
func CompareBy(field SortField, a, b *Book) int {
	switch field {
	case SortByPrice:
		return a.Price.Cmp(b.Price)
	case SortByYear:
		return compareInt(a.YearPublished, b.YearPublished)
	case SortByDateAdded:
		return a.AddedDate.Compare(b.AddedDate)
	default:
		return strings.Compare(a.Title, b.Title)
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// CacheKey tạo key ngắn cho cache-aside của ListBooks
func (c Criteria) CacheKey(prefix string) string {
	parts := []string{
		strPart(c.Genre),
		strPart(c.Search),
		strPart(c.Author),
		boolPart(c.OnSale),
		decPart(c.MinPrice),
		decPart(c.MaxPrice),
		strPart(c.Language),
		strPart(c.Format),
		strPart(c.Publisher),
		string(c.SortBy),
		strconv.FormatBool(c.Desc),
		strconv.Itoa(c.Page),
		strconv.Itoa(c.PageSize),
	}
	keyStr := strings.Join(parts, "|")
	return fmt.Sprintf("%s:%x", prefix, md5.Sum([]byte(keyStr)))
}

func strPart(s *string) string {
	if s == nil {
		return "-"
	}
	return strconv.Quote(*s)
}

func boolPart(b *bool) string {
	if b == nil {
		return "-"
	}
	return strconv.FormatBool(*b)
}

func decPart(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.String()
}
