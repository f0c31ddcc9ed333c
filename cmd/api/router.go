package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookstore-catalog/internal/shared/middleware"
	"bookstore-catalog/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.RequestContext(),
		middleware.Recovery(),
		middleware.Logger(),
		middleware.RateLimit(c.RateLimiter),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupBookRoutes(v1, c)
		setupCategoryRoutes(v1, c)
		setupDiscountRoutes(v1, c)
		setupAnnouncementRoutes(v1, c)
	}

	return router
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	{
		books.GET("", c.BookHandler.ListBooks)
		books.GET("/export", c.BookHandler.ExportBooks)
		books.GET("/authors", c.BookHandler.ListAuthors)
		books.GET("/by-author/:name", c.BookHandler.ListBooksByAuthor)
		books.GET("/:id", c.BookHandler.GetBook)
		books.POST("", c.BookHandler.CreateBook)
		books.PUT("/:id", c.BookHandler.UpdateBook)
		books.PATCH("/:id/stock", c.BookHandler.UpdateStock)
		books.POST("/:id/sales", c.BookHandler.RecordSale)
		books.DELETE("/:id", c.BookHandler.DeleteBook)
	}
}

// ========================================
// CATEGORY ROUTES
// ========================================
func setupCategoryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	categories := v1.Group("/categories")
	{
		categories.GET("", c.CategoryHandler.Counts)
		categories.GET("/:name/books", c.CategoryHandler.ListBooks)
	}
}

// ========================================
// DISCOUNT ROUTES
// ========================================
func setupDiscountRoutes(v1 *gin.RouterGroup, c *container.Container) {
	discounts := v1.Group("/discounts")
	{
		discounts.GET("", c.DiscountHandler.List)
		discounts.GET("/current", c.DiscountHandler.ListCurrent)
		discounts.GET("/:id", c.DiscountHandler.Get)
		discounts.POST("", c.DiscountHandler.Create)
		discounts.PUT("/:id", c.DiscountHandler.Update)
		discounts.DELETE("/:id", c.DiscountHandler.Delete)
	}
}

// ========================================
// ANNOUNCEMENT ROUTES
// ========================================
func setupAnnouncementRoutes(v1 *gin.RouterGroup, c *container.Container) {
	announcements := v1.Group("/announcements")
	{
		announcements.GET("", c.AnnouncementHandler.List)
		announcements.GET("/active", c.AnnouncementHandler.ListActive)
		announcements.GET("/categories", c.AnnouncementHandler.Categories)
		announcements.GET("/category/:category", c.AnnouncementHandler.ListByCategory)
		announcements.GET("/book/:bookId", c.AnnouncementHandler.ListByBook)
		announcements.GET("/:id", c.AnnouncementHandler.Get)
		announcements.POST("", c.AnnouncementHandler.Create)
		announcements.PUT("/:id", c.AnnouncementHandler.Update)
		announcements.PATCH("/:id/toggle-active", c.AnnouncementHandler.ToggleActive)
		announcements.DELETE("/:id", c.AnnouncementHandler.Delete)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		services, healthy := appCtx.HealthCheck(ctx)
		status, code := "ok", http.StatusOK
		if !healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		} else if services["cache"] != "ok" {
			status = "degraded"
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  services,
		})
	}
}
