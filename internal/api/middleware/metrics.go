package middleware

import (
	"strconv"
	"time"

	"recipe-plaza/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics 記錄每個路由的請求數與延遲
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// 以路由樣板作為標籤，避免工作階段 ID 造成標籤爆量
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		metrics.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
