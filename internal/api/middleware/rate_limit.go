package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cabin-lottery/backend/pkg/redis"
	"cabin-lottery/backend/pkg/response"
)

// RateLimit 登录等敏感接口的速率限制中间件
// 以「路由 + 客户端 IP」为粒度做 Redis 滑动窗口计数。
// Redis 不可用（rdb 为 nil 或出错）时放行，限流是防护手段而非功能依赖。
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), c.ClientIP())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil || allowed {
			c.Next()
			return
		}

		response.Error(c, http.StatusTooManyRequests, 10004, "请求过于频繁，请稍后再试")
		c.Abort()
	}
}
