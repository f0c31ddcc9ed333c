package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-catalog/internal/shared/apperr"
	"bookstore-catalog/pkg/logger"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Success responses
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error responses
func Error(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// HandleError render error từ service layer.
// AppError → status + code tương ứng; error lạ → log và trả 500 (không lộ chi tiết).
func HandleError(c *gin.Context, err error) {
	if appErr, ok := apperr.As(err); ok {
		if appErr.Kind == apperr.KindInternal || appErr.Kind == apperr.KindUnavailable {
			logger.Error("Request failed: "+c.Request.Method+" "+c.FullPath(), err)
		}
		var details interface{}
		if len(appErr.Details) > 0 {
			details = appErr.Details
		}
		Error(c, appErr.HTTPStatus, appErr.Code, appErr.Message, details)
		return
	}

	logger.Error("Unhandled error: "+c.Request.Method+" "+c.FullPath(), err)
	InternalServerError(c, "Internal server error")
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "BAD_REQUEST", message, nil)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, "RATE_LIMITED", message, nil)
}

func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, "SYS_INTERNAL_ERROR", message, nil)
}
