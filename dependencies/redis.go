// dependencies/redis.go
package dependencies

import (
	"context"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/anon_forum_service/config"
)

// InitRedis 初始化 Redis 客户端并验证连通性。
// Redis 承载两类状态：限流窗口计数器与热度榜单 ZSet，均为可丢失数据，
// 因此这里不做重试循环，连不上直接失败让编排层重启。
func InitRedis(redisCfg *appConfig.RedisConfig, logger *core.ZapLogger) (*redis.Client, error) {
	if redisCfg.Address == "" {
		return nil, fmt.Errorf("redis 地址 (redis.address) 未配置")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Address,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
		PoolSize: redisCfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("无法连接到 Redis", zap.String("address", redisCfg.Address), zap.Error(err))
		return nil, fmt.Errorf("无法连接到 Redis: %w", err)
	}

	logger.Info("成功初始化 Redis 连接",
		zap.String("address", redisCfg.Address),
		zap.Int("db", redisCfg.DB),
	)
	return client, nil
}
