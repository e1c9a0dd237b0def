package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPRecorder receives one observation per handled request.
type HTTPRecorder interface {
	ObserveHTTPRequest(route, method string, status int, elapsed time.Duration)
}

// Metrics returns a gin middleware that reports request counts and latency
// to rec. A nil recorder disables the middleware.
func Metrics(rec HTTPRecorder) gin.HandlerFunc {
	if rec == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		rec.ObserveHTTPRequest(routeLabel(c), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
