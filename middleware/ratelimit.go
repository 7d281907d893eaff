package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/anon_forum_service/config"
	"github.com/Xushengqwer/anon_forum_service/constant"
	"github.com/Xushengqwer/anon_forum_service/myErrors"
	"github.com/Xushengqwer/anon_forum_service/repo/redis"
	"github.com/Xushengqwer/anon_forum_service/security"
)

// RateLimiter 基于 Redis 固定窗口实现分层限流。
// - 全局窗口覆盖所有请求，并在超过减速阈值后注入递增延迟（只延迟、不拒绝）。
// - 各写操作（发帖/评论/点赞/举报）拥有相互独立的窗口，一个打满不影响其他。
// - 客户端标识是来源地址+UA 的加盐散列，与落库的 ipHash 相互独立。
type RateLimiter struct {
	repo   redis.RateLimitRepository
	hasher *security.IPHasher
	cfg    config.RateLimitConfig
	logger *core.ZapLogger
}

// NewRateLimiter 创建 RateLimiter 实例。
func NewRateLimiter(repo redis.RateLimitRepository, hasher *security.IPHasher, cfg config.RateLimitConfig, logger *core.ZapLogger) *RateLimiter {
	return &RateLimiter{
		repo:   repo,
		hasher: hasher,
		cfg:    cfg.WithDefaults(),
		logger: logger,
	}
}

// Global 返回全局限流中间件：15 分钟窗口计数 + 超阈值减速。
func (rl *RateLimiter) Global() gin.HandlerFunc {
	window := time.Duration(rl.cfg.Global.WindowSeconds) * time.Second
	return func(c *gin.Context) {
		clientKey := rl.hasher.ClientKey(c.ClientIP(), c.Request.UserAgent())

		count, ttl, err := rl.repo.IncrWindow(c.Request.Context(), constant.RateScopeGlobal, clientKey, window)
		if err != nil {
			// Redis 故障时放行：限流是保护层而不是功能本身，
			// 拒绝所有流量比短暂失去限流更糟。
			rl.logger.Error("全局限流计数失败，本次放行", zap.Error(err))
			c.Next()
			return
		}

		if count > rl.cfg.Global.Max {
			rejectRateLimited(c, ttl)
			return
		}

		// 减速区间：每超出一个请求增加一档延迟，封顶后维持最大延迟。
		if excess := count - rl.cfg.SlowDownAfter; excess > 0 {
			delayMillis := int64(excess) * int64(rl.cfg.SlowDownStepMillis)
			if delayMillis > int64(rl.cfg.SlowDownMaxMillis) {
				delayMillis = int64(rl.cfg.SlowDownMaxMillis)
			}
			timer := time.NewTimer(time.Duration(delayMillis) * time.Millisecond)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-c.Request.Context().Done():
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// ScopeByName 按作用域名称选取配置里对应的窗口参数。
// 未知名称回退到全局窗口参数（不应发生，名称都来自 constant 包）。
func (rl *RateLimiter) ScopeByName(scope string) gin.HandlerFunc {
	var w config.WindowConfig
	switch scope {
	case constant.RateScopeCreatePost:
		w = rl.cfg.CreatePost
	case constant.RateScopeCreateComment:
		w = rl.cfg.CreateComment
	case constant.RateScopeLike:
		w = rl.cfg.Like
	case constant.RateScopeFlag:
		w = rl.cfg.Flag
	default:
		w = rl.cfg.Global
	}
	return rl.Scope(scope, w)
}

// Scope 返回指定写操作的限流中间件。
// scope 取 constant.RateScope* 之一，窗口参数由配置给出。
func (rl *RateLimiter) Scope(scope string, w config.WindowConfig) gin.HandlerFunc {
	window := time.Duration(w.WindowSeconds) * time.Second
	return func(c *gin.Context) {
		clientKey := rl.hasher.ClientKey(c.ClientIP(), c.Request.UserAgent())

		count, ttl, err := rl.repo.IncrWindow(c.Request.Context(), scope, clientKey, window)
		if err != nil {
			rl.logger.Error("操作限流计数失败，本次放行", zap.Error(err), zap.String("scope", scope))
			c.Next()
			return
		}

		if count > w.Max {
			rejectRateLimited(c, ttl)
			return
		}

		c.Next()
	}
}

// rejectRateLimited 以通用提示拒绝请求，不透露命中的是哪个窗口。
// 错误以 RateLimitError 形式挂到请求上下文，供访问日志中间件记录。
func rejectRateLimited(c *gin.Context, ttl time.Duration) {
	rlErr := &myErrors.RateLimitError{RetryAfter: ttl}
	_ = c.Error(rlErr)

	retryAfter := int(math.Ceil(rlErr.RetryAfter.Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	response.RespondError(c, http.StatusTooManyRequests, response.ErrCodeClientInvalidInput, "请求过于频繁，请稍后再试")
	c.Abort()
}
