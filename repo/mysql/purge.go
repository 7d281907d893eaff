package mysql

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/anon_forum_service/models/entities"
)

// PurgeRepository 定义到期内容物理删除的批量操作接口，由清理任务独占使用。
//
// 设计目标:
// 分批删除控制单条 DELETE 的锁持有时间；单个批次失败只记录并继续，
// 不让一次故障中断整轮清理（残留记录下一轮自然补删，操作天然幂等）。
type PurgeRepository interface {
	// PurgeExpired 物理删除所有 expires_at <= now 的帖子与评论（含已软删除的）。
	// - 返回删除的帖子数、评论数与被删除的帖子 ID 列表（供热度榜单同步移除）。
	// - 幂等：重复或并发执行作用于不相交的残余记录，结果一致。
	PurgeExpired(ctx context.Context, now time.Time, batchSize int) (postsPurged, commentsPurged int64, purgedPostIDs []uint64, err error)
}

type purgeRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewPurgeRepository 创建 PurgeRepository 实例。
func NewPurgeRepository(db *gorm.DB, logger *core.ZapLogger) PurgeRepository {
	return &purgeRepository{db: db, logger: logger}
}

// PurgeExpired 实现到期内容的分批物理删除。
//
// 先删评论、后删帖子：评论的到期时间继承自父帖，父帖到期时其评论必然同时
// 到期，这个顺序保证不会出现指向已删除帖子的孤儿评论。
// 删除采用“先选 ID、再按 ID 删”的两步式，避免依赖 DELETE ... LIMIT 方言。
func (r *purgeRepository) PurgeExpired(ctx context.Context, now time.Time, batchSize int) (int64, int64, []uint64, error) {
	if batchSize <= 0 {
		batchSize = 500
	}

	commentsPurged := r.purgeBatches(ctx, now, batchSize, &entities.Comment{}, nil)

	var purgedPostIDs []uint64
	postsPurged := r.purgeBatches(ctx, now, batchSize, &entities.Post{}, &purgedPostIDs)

	return postsPurged, commentsPurged, purgedPostIDs, nil
}

// purgeBatches 对单个模型执行分批删除，返回累计删除行数。
// collectIDs 非 nil 时收集被删除记录的 ID。
func (r *purgeRepository) purgeBatches(ctx context.Context, now time.Time, batchSize int, model interface{}, collectIDs *[]uint64) int64 {
	var total int64
	for {
		select {
		case <-ctx.Done():
			r.logger.Warn("清理批次被上下文取消，提前结束", zap.Error(ctx.Err()), zap.Int64("purgedSoFar", total))
			return total
		default:
		}

		// Unscoped: 已软删除的到期记录同样需要物理清除。
		var ids []uint64
		err := r.db.WithContext(ctx).Model(model).Unscoped().
			Where("expires_at <= ?", now).
			Order("id ASC").
			Limit(batchSize).
			Pluck("id", &ids).Error
		if err != nil {
			r.logger.Error("查询到期记录批次失败，跳过本轮剩余批次", zap.Error(err))
			return total
		}
		if len(ids) == 0 {
			return total
		}

		result := r.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Delete(model)
		if result.Error != nil {
			// 删除失败时结束本模型的清理，残留记录下一轮补删，避免原地重试同一批。
			r.logger.Error("物理删除到期记录批次失败",
				zap.Error(result.Error),
				zap.Int("batchSize", len(ids)),
			)
			return total
		}

		total += result.RowsAffected
		if collectIDs != nil {
			*collectIDs = append(*collectIDs, ids...)
		}

		// 批次不满说明已到表尾。
		if len(ids) < batchSize {
			return total
		}
	}
}
