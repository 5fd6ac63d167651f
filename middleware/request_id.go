package middleware

import (
	"time"

	"beamhealth/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestID tags every request with an ID and a logger carrying it, then
// logs the request once it completes.
func RequestID(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := clientRequestID(c.GetHeader(utils.RequestIDHeader))
		if id == "" {
			id = uuid.New().String()
		}
		logger := base.With(zap.String("request_id", id))
		c.Set(utils.ContextRequestIDKey, id)
		c.Set(utils.ContextLoggerKey, logger)
		c.Header(utils.RequestIDHeader, id)

		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", getClientIP(c)),
		)
	}
}

// clientRequestID accepts a caller's ID only in canonical uuid form.
func clientRequestID(header string) string {
	if len(header) != 36 {
		return ""
	}
	parsed, err := uuid.Parse(header)
	if err != nil {
		return ""
	}
	return parsed.String()
}
