package middleware

import (
	"net/http"

	"courier-chat/internal/transport/httpdto"
	"courier-chat/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler logs errors attached with c.Error and answers with a generic
// 500 when the handler wrote nothing.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		log := l
		if log == nil {
			log = logger.GetGlobalLogger()
		}
		if log != nil {
			log.WithContext(c.Request.Context()).Error("request error",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
		}
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal server error", "INTERNAL_ERROR"))
		}
	}
}
