package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/anon_forum_service/myErrors"
	"github.com/Xushengqwer/anon_forum_service/security"
)

// maxInspectBody 是攻击特征扫描读取请求体的上限。
// 请求体本身已被 BodyLimitMiddleware 限制，这里只是双保险。
const maxInspectBody = 64 << 10

// SuspiciousInputMiddleware 对请求的查询参数、路径参数与 JSON 请求体内的
// 所有字符串做攻击特征扫描（脚本标签、危险协议前缀、SQL 注入惯用语）。
// - 命中即整体拒绝（403），不尝试清洗后放行。
// - 拦截日志只记录来源散列、路径与截断摘录，绝不落全文。
func SuspiciousInputMiddleware(hasher *security.IPHasher, logger *core.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 查询参数：键和值都扫。
		for key, values := range c.Request.URL.Query() {
			if security.IsSuspicious(key) {
				rejectSuspicious(c, hasher, logger, key)
				return
			}
			for _, v := range values {
				if security.IsSuspicious(v) {
					rejectSuspicious(c, hasher, logger, v)
					return
				}
			}
		}

		// 路径参数。
		for _, p := range c.Params {
			if security.IsSuspicious(p.Value) {
				rejectSuspicious(c, hasher, logger, p.Value)
				return
			}
		}

		// JSON 请求体：读出后回填，供后续绑定层再次读取。
		if c.Request.Body != nil && strings.Contains(c.ContentType(), "application/json") {
			body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxInspectBody))
			if err != nil {
				// 读体失败（多半是超过大小上限），交给绑定层报 400。
				c.Request.Body = io.NopCloser(bytes.NewReader(body))
				c.Next()
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(body))

			var payload interface{}
			if json.Unmarshal(body, &payload) == nil {
				if bad, found := findSuspiciousValue(payload); found {
					rejectSuspicious(c, hasher, logger, bad)
					return
				}
			}
			// JSON 解析失败不在这里报错，绑定层会给出 400。
		}

		c.Next()
	}
}

// findSuspiciousValue 递归遍历解码后的 JSON 值，返回第一个命中特征的字符串。
func findSuspiciousValue(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		if security.IsSuspicious(val) {
			return val, true
		}
	case map[string]interface{}:
		for key, item := range val {
			if security.IsSuspicious(key) {
				return key, true
			}
			if bad, found := findSuspiciousValue(item); found {
				return bad, true
			}
		}
	case []interface{}:
		for _, item := range val {
			if bad, found := findSuspiciousValue(item); found {
				return bad, true
			}
		}
	}
	return "", false
}

// rejectSuspicious 记录拦截日志并以最少信息拒绝请求。
// 哨兵错误挂到请求上下文，供访问日志中间件记录拦截原因。
func rejectSuspicious(c *gin.Context, hasher *security.IPHasher, logger *core.ZapLogger, matched string) {
	logger.Warn("请求命中攻击特征被拒绝",
		zap.String("ipHash", hasher.Hash(c.ClientIP())),
		zap.String("path", c.Request.URL.Path),
		zap.String("excerpt", security.Truncate(matched, 48)),
	)
	_ = c.Error(myErrors.ErrSuspiciousInput)
	response.RespondError(c, http.StatusForbidden, response.ErrCodeClientInvalidInput, "请求被拒绝")
	c.Abort()
}
