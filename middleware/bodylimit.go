package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimitMiddleware 将请求体大小限制在 maxBytes 字节以内。
// - 发帖路由 50KB、评论路由 10KB，由路由注册时分别传入。
// - 超限时底层读取返回错误，由绑定层转化为 400；这里不提前读体。
func BodyLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
