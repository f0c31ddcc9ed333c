package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookstore-catalog/internal/shared/utils"
)

const (
	RequestIDHeader = "X-Request-ID"

	ctxKeyRequestID = "request_id"
	ctxKeyClientIP  = "client_ip"
)

// RequestContext gắn request_id và client_ip vào gin context.
// Phải đăng ký trước Logger, Recovery và RateLimit.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		c.Set(ctxKeyRequestID, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Set(ctxKeyClientIP, utils.ExtractClientIP(c))
		c.Next()
	}
}

// ClientIP trả về IP đã extract, fallback về gin nếu middleware chưa chạy
func ClientIP(c *gin.Context) string {
	if ip := c.GetString(ctxKeyClientIP); ip != "" {
		return ip
	}
	return utils.ExtractClientIP(c)
}
