package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bookstore-catalog/internal/shared/response"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("request_id", c.GetString(ctxKeyRequestID)).
					Str("path", c.Request.URL.Path).
					Interface("error", err).
					Bytes("stack", debug.Stack()).
					Msg("Panic recovered")

				response.Error(c, http.StatusInternalServerError, "SYS_INTERNAL_ERROR", "Internal server error", nil)
				c.Abort()
			}
		}()

		c.Next()
	}
}
