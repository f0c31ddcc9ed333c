package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	bookModel "bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/domains/category/model"
	"bookstore-catalog/internal/shared/response"
)

// ============================================================
// HANDLER STRUCT
// ============================================================

type Service interface {
	ListByCategory(ctx context.Context, name string) ([]bookModel.Book, error)
	CategoryCounts(ctx context.Context) (model.Counts, error)
}

type CategoryHandler struct {
	service Service
}

func NewCategoryHandler(svc Service) *CategoryHandler {
	return &CategoryHandler{
		service: svc,
	}
}

// ========== GET /v1/categories ==========
// Số sách trong mỗi category (category rỗng vẫn có mặt với giá trị 0)
func (h *CategoryHandler) Counts(c *gin.Context) {
	counts, err := h.service.CategoryCounts(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Get category counts successfully", counts)
}

// ========== GET /v1/categories/:name/books ==========
// name: all, bestsellers, award-winners, new-releases, new-arrivals, coming-soon, deals
// (kèm alias số ít). Danh sách rỗng vẫn trả 200.
func (h *CategoryHandler) ListBooks(c *gin.Context) {
	books, err := h.service.ListByCategory(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Get books by category successfully", books)
}
