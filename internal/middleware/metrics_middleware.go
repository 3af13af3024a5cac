package middleware

import (
	"time"

	"github.com/coupleswish/wishes-backend/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records every request on m, labelled by the matched
// route template so that path ids do not explode label cardinality.
func MetricsMiddleware(m *metrics.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.Observe(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
