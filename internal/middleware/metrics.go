package middleware

import (
	"strconv"
	"time"

	"github.com/agromanage/agromanage/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latencies by route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.RequestStarted()
		defer metrics.RequestFinished()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.ObserveRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
