package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func performRequest(handler gin.HandlerFunc, route gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(handler)
	engine.GET("/stock-records", route)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stock-records?status=ACTIVE", nil)
	engine.ServeHTTP(w, req)
	return w
}

func TestGinMiddlewareLogsRequest(t *testing.T) {
	log, logs := newObservedLogger()

	w := performRequest(GinMiddleware(log), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, w.Code)

	entries := logs.All()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, "HTTP Request", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/stock-records", fields["path"])
	assert.Equal(t, "status=ACTIVE", fields["query"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
}

func TestGinMiddlewareLevelByStatus(t *testing.T) {
	cases := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusUnprocessableEntity, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tc := range cases {
		log, logs := newObservedLogger()
		performRequest(GinMiddleware(log), func(c *gin.Context) {
			c.Status(tc.status)
		})

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, tc.level, entries[0].Level, "status %d", tc.status)
	}
}

func TestGinMiddlewareStoresRequestLogger(t *testing.T) {
	log, _ := newObservedLogger()

	performRequest(GinMiddleware(log), func(c *gin.Context) {
		reqLog := GetGinLogger(c)
		assert.NotNil(t, reqLog)
		reqLog.Info("from handler")
		c.Status(http.StatusOK)
	})
}

func TestGetGinLoggerWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.NotNil(t, GetGinLogger(c))
}

func TestRecoveryLogsPanic(t *testing.T) {
	log, logs := newObservedLogger()

	w := performRequest(Recovery(log), func(c *gin.Context) {
		panic("ledger exploded")
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "Panic recovered", entries[0].Message)
	assert.Equal(t, "ledger exploded", entries[0].ContextMap()["error"])
}
