package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/anon_forum_service/constant"
)

// TrendingRepository 定义热度榜单在 Redis 中的操作接口。
// - 榜单是一个 Sorted Set：成员为帖子 ID，分数为累计点赞数
// - 榜单是锦上添花的可丢失状态，Redis 清空后由后续点赞自然重建，
//   因此所有写入失败都只记日志，不影响主流程
type TrendingRepository interface {
	// IncrScore 点赞时将帖子在榜单中的分数 +1（ZINCRBY，原子）。
	IncrScore(ctx context.Context, postID uint64) error

	// Remove 将帖子从榜单移除（软删除或物理清理时调用）。
	Remove(ctx context.Context, postIDs ...uint64) error

	// TopN 返回榜单分数最高的前 n 个帖子 ID，降序。
	TopN(ctx context.Context, n int) ([]uint64, error)
}

type trendingRepository struct {
	redisClient *redis.Client
	logger      *core.ZapLogger
}

// NewTrendingRepository 创建 TrendingRepository 实例。
func NewTrendingRepository(redisClient *redis.Client, logger *core.ZapLogger) TrendingRepository {
	return &trendingRepository{
		redisClient: redisClient,
		logger:      logger,
	}
}

// IncrScore 实现榜单分数递增。
func (r *trendingRepository) IncrScore(ctx context.Context, postID uint64) error {
	member := strconv.FormatUint(postID, 10)
	if err := r.redisClient.ZIncrBy(ctx, constant.TrendingPostsKey, 1, member).Err(); err != nil {
		r.logger.Warn("热度榜单分数递增失败", zap.Error(err), zap.Uint64("postID", postID))
		return fmt.Errorf("热度榜单分数递增失败 (postID=%d): %w", postID, err)
	}
	return nil
}

// Remove 实现榜单成员移除。
func (r *trendingRepository) Remove(ctx context.Context, postIDs ...uint64) error {
	if len(postIDs) == 0 {
		return nil
	}
	members := make([]interface{}, 0, len(postIDs))
	for _, id := range postIDs {
		members = append(members, strconv.FormatUint(id, 10))
	}
	if err := r.redisClient.ZRem(ctx, constant.TrendingPostsKey, members...).Err(); err != nil {
		r.logger.Warn("热度榜单成员移除失败", zap.Error(err), zap.Int("count", len(postIDs)))
		return fmt.Errorf("热度榜单成员移除失败: %w", err)
	}
	return nil
}

// TopN 实现榜单前 N 查询。
func (r *trendingRepository) TopN(ctx context.Context, n int) ([]uint64, error) {
	if n <= 0 {
		return nil, nil
	}
	members, err := r.redisClient.ZRevRange(ctx, constant.TrendingPostsKey, 0, int64(n-1)).Result()
	if err != nil {
		r.logger.Error("读取热度榜单失败", zap.Error(err), zap.Int("n", n))
		return nil, fmt.Errorf("读取热度榜单失败: %w", err)
	}

	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		id, convErr := strconv.ParseUint(m, 10, 64)
		if convErr != nil {
			// 单个脏成员不应让整个榜单不可用，记录后跳过。
			r.logger.Warn("热度榜单包含无法解析的成员", zap.String("member", m))
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
