package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookstore-catalog/internal/domains/announcement/model"
	"bookstore-catalog/internal/shared/apperr"
	"bookstore-catalog/internal/shared/response"
	"bookstore-catalog/internal/shared/utils"
)

type Service interface {
	ListAnnouncements(ctx context.Context) ([]model.View, error)
	ListActiveAnnouncements(ctx context.Context) ([]model.View, error)
	ListAnnouncementsByCategory(ctx context.Context, category string) ([]model.View, error)
	ListAnnouncementsByBook(ctx context.Context, bookID uuid.UUID) ([]model.View, error)
	ListAnnouncementCategories(ctx context.Context) ([]string, error)
	GetAnnouncement(ctx context.Context, id uuid.UUID) (*model.View, error)
	CreateAnnouncement(ctx context.Context, req model.AnnouncementRequest) (*model.View, error)
	UpdateAnnouncement(ctx context.Context, id uuid.UUID, req model.AnnouncementRequest) (*model.View, error)
	DeleteAnnouncement(ctx context.Context, id uuid.UUID) error
	ToggleAnnouncement(ctx context.Context, id uuid.UUID) (*model.View, error)
}

type AnnouncementHandler struct {
	service Service
}

func NewAnnouncementHandler(service Service) *AnnouncementHandler {
	return &AnnouncementHandler{service: service}
}

// GET /v1/announcements
func (h *AnnouncementHandler) List(c *gin.Context) {
	items, err := h.service.ListAnnouncements(c.Request.Context())
	h.respondList(c, items, err)
}

// GET /v1/announcements/active
func (h *AnnouncementHandler) ListActive(c *gin.Context) {
	items, err := h.service.ListActiveAnnouncements(c.Request.Context())
	h.respondList(c, items, err)
}

// GET /v1/announcements/category/:category
func (h *AnnouncementHandler) ListByCategory(c *gin.Context) {
	items, err := h.service.ListAnnouncementsByCategory(c.Request.Context(), c.Param("category"))
	h.respondList(c, items, err)
}

// GET /v1/announcements/book/:bookId
func (h *AnnouncementHandler) ListByBook(c *gin.Context) {
	bookID, ok := utils.ParseUUID(c.Param("bookId"))
	if !ok {
		response.HandleError(c, apperr.Validation("Book ID không hợp lệ", map[string]interface{}{
			"book_id": "must be a valid UUID",
		}))
		return
	}
	items, err := h.service.ListAnnouncementsByBook(c.Request.Context(), bookID)
	h.respondList(c, items, err)
}

// GET /v1/announcements/categories
func (h *AnnouncementHandler) Categories(c *gin.Context) {
	categories, err := h.service.ListAnnouncementCategories(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Lấy danh sách category thành công", categories)
}

// GET /v1/announcements/:id
func (h *AnnouncementHandler) Get(c *gin.Context) {
	id, ok := announcementID(c)
	if !ok {
		return
	}
	item, err := h.service.GetAnnouncement(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Lấy announcement thành công", item)
}

// POST /v1/announcements
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req model.AnnouncementRequest
	if !bindRequest(c, &req) {
		return
	}
	item, err := h.service.CreateAnnouncement(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Tạo announcement thành công", item)
}

// PUT /v1/announcements/:id
func (h *AnnouncementHandler) Update(c *gin.Context) {
	id, ok := announcementID(c)
	if !ok {
		return
	}
	var req model.AnnouncementRequest
	if !bindRequest(c, &req) {
		return
	}
	item, err := h.service.UpdateAnnouncement(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Cập nhật announcement thành công", item)
}

// DELETE /v1/announcements/:id
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	id, ok := announcementID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteAnnouncement(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Xóa announcement thành công", gin.H{"id": id})
}

// PATCH /v1/announcements/:id/toggle-active
func (h *AnnouncementHandler) ToggleActive(c *gin.Context) {
	id, ok := announcementID(c)
	if !ok {
		return
	}
	item, err := h.service.ToggleAnnouncement(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	message := "Announcement đã tắt"
	if item.IsActive {
		message = "Announcement đã bật"
	}
	response.Success(c, http.StatusOK, message, item)
}

func (h *AnnouncementHandler) respondList(c *gin.Context, items []model.View, err error) {
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Lấy danh sách announcement thành công", items)
}

func bindRequest(c *gin.Context, req *model.AnnouncementRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.HandleError(c, apperr.Validation("Dữ liệu request không hợp lệ", map[string]interface{}{
			"body": err.Error(),
		}))
		return false
	}
	return true
}

func announcementID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := utils.ParseUUID(c.Param("id"))
	if !ok {
		response.HandleError(c, apperr.Validation("Announcement ID không hợp lệ", map[string]interface{}{
			"id": "must be a valid UUID",
		}))
	}
	return id, ok
}
