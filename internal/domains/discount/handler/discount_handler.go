package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookstore-catalog/internal/domains/discount/model"
	"bookstore-catalog/internal/shared/apperr"
	"bookstore-catalog/internal/shared/response"
	"bookstore-catalog/internal/shared/utils"
)

type Service interface {
	ListDiscounts(ctx context.Context) ([]model.View, error)
	ListCurrentDiscounts(ctx context.Context) ([]model.View, error)
	GetDiscount(ctx context.Context, id uuid.UUID) (*model.View, error)
	CreateDiscount(ctx context.Context, req model.CreateDiscountRequest) (*model.View, error)
	UpdateDiscount(ctx context.Context, id uuid.UUID, req model.UpdateDiscountRequest) (*model.View, error)
	DeleteDiscount(ctx context.Context, id uuid.UUID) error
}

// DiscountHandler xử lý HTTP requests cho discount
type DiscountHandler struct {
	service Service
}

// NewDiscountHandler tạo instance mới
func NewDiscountHandler(service Service) *DiscountHandler {
	return &DiscountHandler{service: service}
}

// List godoc
// GET /v1/discounts
func (h *DiscountHandler) List(c *gin.Context) {
	discounts, err := h.service.ListDiscounts(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Lấy danh sách discount thành công", discounts)
}

// ListCurrent godoc
// GET /v1/discounts/current - discount có start_date <= now <= end_date
func (h *DiscountHandler) ListCurrent(c *gin.Context) {
	discounts, err := h.service.ListCurrentDiscounts(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Lấy danh sách discount hiện hành thành công", discounts)
}

// Get godoc
// GET /v1/discounts/:id
func (h *DiscountHandler) Get(c *gin.Context) {
	id, ok := discountID(c)
	if !ok {
		return
	}

	discount, err := h.service.GetDiscount(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Lấy discount thành công", discount)
}

// Create godoc
// POST /v1/discounts
func (h *DiscountHandler) Create(c *gin.Context) {
	var req model.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apperr.Validation("Dữ liệu request không hợp lệ", map[string]interface{}{
			"body": err.Error(),
		}))
		return
	}

	discount, err := h.service.CreateDiscount(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Tạo discount thành công", discount)
}

// Update godoc
// PUT /v1/discounts/:id
func (h *DiscountHandler) Update(c *gin.Context) {
	id, ok := discountID(c)
	if !ok {
		return
	}

	var req model.UpdateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apperr.Validation("Dữ liệu request không hợp lệ", map[string]interface{}{
			"body": err.Error(),
		}))
		return
	}

	discount, err := h.service.UpdateDiscount(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Cập nhật discount thành công", discount)
}

// Delete godoc
// DELETE /v1/discounts/:id
func (h *DiscountHandler) Delete(c *gin.Context) {
	id, ok := discountID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteDiscount(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Xóa discount thành công", gin.H{"id": id})
}

func discountID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := utils.ParseUUID(c.Param("id"))
	if !ok {
		response.HandleError(c, apperr.Validation("Discount ID không hợp lệ", map[string]interface{}{
			"id": "must be a valid UUID",
		}))
	}
	return id, ok
}
