package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"school-organizer/pkg/metrics"
	"school-organizer/pkg/observability"
)

// Metrics Prometheus 请求计数与耗时
// route 取路由模板，未匹配的请求归为 unmatched，避免标签基数膨胀
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, status).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// SentryReport 将 5xx 响应中记录的错误上报 Sentry
// Handler 通过 c.Error(err) 记录内部错误
func SentryReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 500 {
			return
		}
		err := errors.New("internal server error")
		if last := c.Errors.Last(); last != nil {
			err = last.Err
		}
		observability.CaptureRequestErr(
			fmt.Errorf("%s %s: %w", c.Request.Method, c.FullPath(), err),
			c.Request.Method,
			c.FullPath(),
			c.GetString(requestIDKey),
		)
	}
}
