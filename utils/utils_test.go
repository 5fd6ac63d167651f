package utils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevel(t *testing.T) {
	logger, err := NewLogger("production", "warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = NewLogger("development", "nonsense")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestHealthMonitorRefresh(t *testing.T) {
	m := NewHealthMonitor(time.Hour, map[string]HealthCheck{
		"records": func(ctx context.Context) error { return nil },
		"redis":   func(ctx context.Context) error { return errors.New("refused") },
	})

	status := m.Refresh(context.Background())
	assert.False(t, status.Healthy)
	assert.Equal(t, map[string]bool{"records": true, "redis": false}, status.Checks)
	assert.Equal(t, status, m.Status())
}

func TestHealthMonitorNoChecksIsHealthy(t *testing.T) {
	m := NewHealthMonitor(time.Hour, nil)
	assert.True(t, m.Refresh(context.Background()).Healthy)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	defer client.Close()

	mr.Close()
	_, err = NewRedisClient(context.Background(), mr.Addr(), "", 0)
	assert.Error(t, err)
}

func TestErrorHandlerRecoversPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Logger = zap.NewNop()

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Internal Server Error","details":"An unexpected error occurred. Please try again later."}`, w.Body.String())
}

func TestRequestLoggerPrefersContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	scoped := zap.NewNop().Named("scoped")
	c.Set(ContextLoggerKey, scoped)
	assert.Same(t, scoped, RequestLogger(c))
}
