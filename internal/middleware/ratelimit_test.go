package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, zap.NewNop())

	r := gin.New()
	r.POST("/login", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))

	// Buckets are per client.
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1, zap.NewNop())
	rl.getLimiter("stale")
	rl.getLimiter("fresh")
	rl.limiters["stale"].lastSeen = time.Now().Add(-time.Hour)

	rl.Cleanup()

	assert.NotContains(t, rl.limiters, "stale")
	assert.Contains(t, rl.limiters, "fresh")
}
