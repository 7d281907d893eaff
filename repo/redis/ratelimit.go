package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/anon_forum_service/constant"
)

// RateLimitRepository 定义限流计数器在 Redis 中的操作接口。
// - 固定窗口实现：计数器在窗口首个请求时创建并绑定过期时间，到期整体重置。
//   窗口边界处可能出现短时突发，属于已知且可接受的权衡。
// - 计数为可丢失状态：Redis 重启后所有窗口清零，不构成持久化保证。
type RateLimitRepository interface {
	// IncrWindow 原子性地递增 (scope, clientKey) 对应的窗口计数器。
	// - 首次递增时为计数器设置窗口过期时间（Lua 脚本保证两步原子）
	// - 返回递增后的计数值与窗口剩余时间，供调用方判断是否超限及计算 Retry-After
	IncrWindow(ctx context.Context, scope, clientKey string, window time.Duration) (count int64, ttl time.Duration, err error)
}

type rateLimitRepository struct {
	redisClient *redis.Client
	logger      *core.ZapLogger
}

// NewRateLimitRepository 创建 RateLimitRepository 实例。
func NewRateLimitRepository(redisClient *redis.Client, logger *core.ZapLogger) RateLimitRepository {
	return &rateLimitRepository{
		redisClient: redisClient,
		logger:      logger,
	}
}

// incrWindowScript 原子完成 INCR 与首次 EXPIRE。
// 返回 {当前计数, 剩余毫秒}。单独两条命令在并发下可能产生永不过期的计数器
// （INCR 成功后进程崩溃、EXPIRE 未执行），因此必须走 Lua。
var incrWindowScript = redis.NewScript(`
	local count = redis.call("INCR", KEYS[1])
	if count == 1 then
		redis.call("PEXPIRE", KEYS[1], ARGV[1])
	end
	local ttl = redis.call("PTTL", KEYS[1])
	return {count, ttl}
`)

// IncrWindow 实现固定窗口计数器的原子递增。
func (r *rateLimitRepository) IncrWindow(ctx context.Context, scope, clientKey string, window time.Duration) (int64, time.Duration, error) {
	key := fmt.Sprintf("%s%s:%s", constant.RateLimitKeyPrefix, scope, clientKey)

	res, err := incrWindowScript.Run(ctx, r.redisClient, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		r.logger.Error("限流计数器递增失败",
			zap.Error(err),
			zap.String("scope", scope),
		)
		return 0, 0, fmt.Errorf("限流计数器递增失败 (scope=%s): %w", scope, err)
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) != 2 {
		return 0, 0, fmt.Errorf("限流脚本返回值格式异常 (scope=%s): %v", scope, res)
	}
	count, _ := vals[0].(int64)
	ttlMillis, _ := vals[1].(int64)
	if ttlMillis < 0 {
		// PTTL 对无过期时间的 Key 返回 -1，按完整窗口处理。
		ttlMillis = window.Milliseconds()
	}

	return count, time.Duration(ttlMillis) * time.Millisecond, nil
}
