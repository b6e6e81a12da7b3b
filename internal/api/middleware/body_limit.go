package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"school-organizer/pkg/response"
)

// BodyLimit 请求体大小限制
// 保存每日记录时笔记可能较长，默认上限由路由层传入
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.Writer.Written() {
			return
		}
		for _, e := range c.Errors {
			var tooLarge *http.MaxBytesError
			if errors.As(e.Err, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				return
			}
		}
	}
}
