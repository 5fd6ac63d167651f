package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				RequestLogger(c).Error("Unhandled panic", zap.Any("error", err))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	logger := RequestLogger(c)
	if status >= http.StatusInternalServerError {
		logger.Error(message, zap.Int("status", status), zap.String("details", details))
	} else {
		logger.Warn(message, zap.Int("status", status), zap.String("details", details))
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Details: details})
}

// RequestLogger returns the request-scoped logger set by the request ID
// middleware, or the global logger outside a request.
func RequestLogger(c *gin.Context) *zap.Logger {
	if c != nil {
		if l, exists := c.Get(ContextLoggerKey); exists {
			if logger, ok := l.(*zap.Logger); ok {
				return logger
			}
		}
	}
	return GetLogger()
}
