package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sharedConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/anon_forum_service/config"
	"github.com/Xushengqwer/anon_forum_service/myErrors"
	"github.com/Xushengqwer/anon_forum_service/security"
)

func newSuspiciousRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, err := core.NewZapLogger(sharedConfig.ZapConfig{})
	require.NoError(t, err)
	hasher := security.NewIPHasher(&config.SecurityConfig{IPSalt: "test-salt"})

	router := gin.New()
	router.Use(SuspiciousInputMiddleware(hasher, logger))
	router.GET("/search", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.POST("/posts", func(c *gin.Context) {
		// 确认中间件回填了请求体，绑定层仍能读到。
		var payload map[string]interface{}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.String(http.StatusBadRequest, "bad json")
			return
		}
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestSuspiciousInputMiddleware_Query(t *testing.T) {
	router := newSuspiciousRouter(t)

	// 正常查询放行。
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search?q=golang", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// 查询值命中脚本特征。
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search?q=%3Cscript%3Ealert(1)%3C/script%3E", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 查询值命中 SQL 注入惯用语。
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search?q=1+union+select+password", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSuspiciousInputMiddleware_JSONBody(t *testing.T) {
	router := newSuspiciousRouter(t)

	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	// 干净的请求体放行，且回填后绑定层能正常解析。
	assert.Equal(t, http.StatusOK, post(`{"title":"正常标题","content":"正常内容"}`).Code)

	// 顶层字符串命中。
	assert.Equal(t, http.StatusForbidden, post(`{"content":"<iframe src=//evil>"}`).Code)

	// 嵌套数组里的字符串也要扫到。
	assert.Equal(t, http.StatusForbidden, post(`{"tags":["ok","javascript:alert(1)"]}`).Code)

	// 键名同样在扫描范围内。
	assert.Equal(t, http.StatusForbidden, post(`{"onload=": "x"}`).Code)

	// 无法解析的 JSON 交给绑定层报 400，而不是在这里 403。
	assert.Equal(t, http.StatusBadRequest, post(`{"broken`).Code)
}

func TestSuspiciousInputMiddleware_AttachesSentinelError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, err := core.NewZapLogger(sharedConfig.ZapConfig{})
	require.NoError(t, err)
	hasher := security.NewIPHasher(&config.SecurityConfig{IPSalt: "test-salt"})

	var captured []error
	router := gin.New()
	// 前置中间件在请求结束后收集 c.Errors，模拟访问日志中间件的视角。
	router.Use(func(c *gin.Context) {
		c.Next()
		for _, e := range c.Errors {
			captured = append(captured, e.Err)
		}
	})
	router.Use(SuspiciousInputMiddleware(hasher, logger))
	router.GET("/search", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search?q=%3Cscript%3Ealert(1)%3C/script%3E", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.Len(t, captured, 1)
	assert.ErrorIs(t, captured[0], myErrors.ErrSuspiciousInput)
}
