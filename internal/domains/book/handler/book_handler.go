package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/shared/apperr"
	"bookstore-catalog/internal/shared/response"
	"bookstore-catalog/internal/shared/utils"
	"bookstore-catalog/pkg/logger"
)

// Service là phần của catalog façade mà book handler cần
type Service interface {
	ListBooks(ctx context.Context, f model.Filter) (*model.Page, error)
	GetBook(ctx context.Context, id uuid.UUID) (*model.Book, error)
	CreateBook(ctx context.Context, req model.BookRequest) (*model.Book, error)
	UpdateBook(ctx context.Context, id uuid.UUID, req model.BookRequest) (*model.Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
	UpdateStock(ctx context.Context, id uuid.UUID, req model.UpdateStockRequest) (*model.Book, error)
	RecordSale(ctx context.Context, id uuid.UUID, req model.RecordSaleRequest) (*model.Book, error)
	ListAuthors(ctx context.Context) ([]string, error)
	ListBooksByAuthor(ctx context.Context, author string) ([]model.Book, error)
	ExportBooksToExcel(ctx context.Context, f model.Filter) (*excelize.File, error)
}

// Handler - HTTP Handler (single file)
type Handler struct {
	service Service
}

// NewHandler - Constructor with DI
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListBooks - GET /v1/books
// Query params: genre, search, author, onSale, minPrice, maxPrice, language, format,
// publisher, sortBy, sortOrder, page, pageSize
func (h *Handler) ListBooks(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	page, err := h.service.ListBooks(c.Request.Context(), filter)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Get books successfully", page)
}

// GetBook - GET /v1/books/:id
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	book, err := h.service.GetBook(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Get book successfully", book)
}

// CreateBook - POST /v1/books
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apperr.Validation("Invalid request data", map[string]interface{}{
			"body": err.Error(),
		}))
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Book created successfully", book)
}

// UpdateBook - PUT /v1/books/:id (full update, sale fields bị bỏ qua)
func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	var req model.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apperr.Validation("Invalid request data", map[string]interface{}{
			"body": err.Error(),
		}))
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Book updated successfully", book)
}

// DeleteBook - DELETE /v1/books/:id (xóa kèm discounts của book)
func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteBook(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Book deleted successfully", gin.H{"id": id})
}

// UpdateStock - PATCH /v1/books/:id/stock
func (h *Handler) UpdateStock(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	var req model.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apperr.Validation("Invalid request data", map[string]interface{}{
			"body": err.Error(),
		}))
		return
	}

	book, err := h.service.UpdateStock(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Stock updated successfully", book)
}

// RecordSale - POST /v1/books/:id/sales
func (h *Handler) RecordSale(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	var req model.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apperr.Validation("Invalid request data", map[string]interface{}{
			"body": err.Error(),
		}))
		return
	}

	book, err := h.service.RecordSale(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Sale recorded successfully", book)
}

// ListAuthors - GET /v1/books/authors
func (h *Handler) ListAuthors(c *gin.Context) {
	authors, err := h.service.ListAuthors(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Get authors successfully", authors)
}

// ListBooksByAuthor - GET /v1/books/by-author/:name
func (h *Handler) ListBooksByAuthor(c *gin.Context) {
	books, err := h.service.ListBooksByAuthor(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Get books successfully", books)
}

// ExportBooks - GET /v1/books/export
// Cùng query params với ListBooks, trả về file xlsx
func (h *Handler) ExportBooks(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	file, err := h.service.ExportBooksToExcel(c.Request.Context(), filter)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Error("Failed to close excel file", err)
		}
	}()

	filename := fmt.Sprintf("books_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
	if err := file.Write(c.Writer); err != nil {
		logger.Error("Failed to write excel response", err)
	}
}

// ============================================
// HELPERS
// ============================================

func bookID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := utils.ParseUUID(c.Param("id"))
	if !ok {
		response.HandleError(c, apperr.Validation("Invalid book id", map[string]interface{}{
			"id": "must be a valid UUID",
		}))
	}
	return id, ok
}

// parseFilter đọc query string thành model.Filter.
// Chấp nhận cả camelCase (onSale) lẫn snake_case (on_sale).
func parseFilter(c *gin.Context) (model.Filter, error) {
	details := map[string]interface{}{}
	f := model.Filter{
		Genre:     utils.NonEmpty(c.Query("genre")),
		Search:    utils.NonEmpty(c.Query("search")),
		Author:    utils.NonEmpty(c.Query("author")),
		Language:  utils.NonEmpty(c.Query("language")),
		Format:    utils.NonEmpty(c.Query("format")),
		Publisher: utils.NonEmpty(c.Query("publisher")),
		SortBy:    query(c, "sortBy", "sort_by"),
		SortOrder: query(c, "sortOrder", "sort_order"),
	}

	if v := query(c, "onSale", "on_sale"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			details["onSale"] = "must be true or false"
		} else {
			f.OnSale = &b
		}
	}
	f.MinPrice = parseDecimal(query(c, "minPrice", "min_price"), "minPrice", details)
	f.MaxPrice = parseDecimal(query(c, "maxPrice", "max_price"), "maxPrice", details)
	f.Page = parseInt(c.Query("page"), "page", details)
	f.PageSize = parseInt(query(c, "pageSize", "page_size"), "pageSize", details)

	if len(details) > 0 {
		return f, apperr.Validation("Invalid query parameters", details)
	}
	return f, nil
}

func query(c *gin.Context, keys ...string) string {
	for _, k := range keys {
		if v := c.Query(k); v != "" {
			return v
		}
	}
	return ""
}

func parseDecimal(v, field string, details map[string]interface{}) *decimal.Decimal {
	if v == "" {
		return nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		details[field] = "must be a number"
		return nil
	}
	return &d
}

func parseInt(v, field string, details map[string]interface{}) *int {
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		details[field] = "must be an integer"
		return nil
	}
	return &n
}
