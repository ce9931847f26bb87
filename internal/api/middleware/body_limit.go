package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cabin-lottery/backend/pkg/response"
)

// BodyLimit 请求体大小限制中间件
// Content-Length 明确超限时直接拒绝；分块传输等无长度的请求
// 由 MaxBytesReader 在读取阶段截断。
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
