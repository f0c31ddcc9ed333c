package model

// Page là envelope kết quả của ListBooks
type Page struct {
	TotalCount      int    `json:"total_count"`
	Page            int    `json:"page"`
	PageSize        int    `json:"page_size"`
	TotalPages      int    `json:"total_pages"`
	HasPreviousPage bool   `json:"has_previous_page"`
	HasNextPage     bool   `json:"has_next_page"`
	Books           []Book `json:"books"`
}

// NewPage build envelope; page vượt quá totalPages trả về danh sách rỗng
func NewPage(books []Book, totalCount int, c Criteria) Page {
	totalPages := 0
	if c.PageSize > 0 {
		totalPages = (totalCount + c.PageSize - 1) / c.PageSize
	}
	if books == nil {
		books = []Book{}
	}
	return Page{
		TotalCount:      totalCount,
		Page:            c.Page,
		PageSize:        c.PageSize,
		TotalPages:      totalPages,
		HasPreviousPage: c.Page > 1,
		HasNextPage:     c.Page < totalPages,
		Books:           books,
	}
}
