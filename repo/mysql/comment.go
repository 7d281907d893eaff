package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/anon_forum_service/models/entities"
)

// CommentRepository 定义了评论数据在 MySQL 中的持久化操作接口。
// 可见性约定与 PostRepository 相同：软删除、过期、自动隐藏一律不可读。
type CommentRepository interface {
	// CreateComment 持久化一条新评论。
	// - ExpiresAt 由服务层从父帖复制而来，评论存活期永不超过父帖。
	CreateComment(ctx context.Context, db *gorm.DB, comment *entities.Comment) error

	// GetVisibleByID 按 ID 检索单条可见评论。
	GetVisibleByID(ctx context.Context, id uint64, now time.Time) (*entities.Comment, error)

	// GetByID 按 ID 检索评论，不应用过期/隐藏过滤（软删除仍然过滤）。
	// - 服务于外部下架指令：目标通常已是自动隐藏状态。
	GetByID(ctx context.Context, id uint64) (*entities.Comment, error)

	// ListVisibleByPost 分页查询指定帖子下的可见评论，按创建时间升序。
	ListVisibleByPost(ctx context.Context, postID uint64, page, pageSize int, now time.Time) ([]*entities.Comment, int64, error)

	// IncrementFlag 原子性地将评论举报数 +1，新计数达到 threshold 时置位 is_flagged。
	// 语义与 PostRepository.IncrementFlag 一致，评论阈值更低。
	IncrementFlag(ctx context.Context, id uint64, threshold uint64, now time.Time) (flagCount uint64, flagged bool, err error)

	// SoftDelete 对指定评论执行软删除。
	SoftDelete(ctx context.Context, db *gorm.DB, id uint64) error
}

// commentRepository 是 CommentRepository 接口针对 MySQL 的具体实现。
type commentRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewCommentRepository 是 commentRepository 的构造函数。
func NewCommentRepository(db *gorm.DB, logger *core.ZapLogger) CommentRepository {
	return &commentRepository{
		db:     db,
		logger: logger,
	}
}

// CreateComment 实现评论的数据库插入操作。
func (r *commentRepository) CreateComment(ctx context.Context, db *gorm.DB, comment *entities.Comment) error {
	if err := db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	return nil
}

// GetVisibleByID 实现单条评论检索。
func (r *commentRepository) GetVisibleByID(ctx context.Context, id uint64, now time.Time) (*entities.Comment, error) {
	var comment entities.Comment
	err := visibleScope(r.db.WithContext(ctx), now).First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取评论数据库查询失败", zap.Uint64("commentID", id), zap.Error(err))
		return nil, err
	}
	return &comment, nil
}

// GetByID 实现绕过可见性过滤的单条检索（下架指令专用）。
func (r *commentRepository) GetByID(ctx context.Context, id uint64) (*entities.Comment, error) {
	var comment entities.Comment
	err := r.db.WithContext(ctx).First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取评论数据库查询失败", zap.Uint64("commentID", id), zap.Error(err))
		return nil, err
	}
	return &comment, nil
}

// ListVisibleByPost 实现评论列表分页查询。
// 评论区按时间正序展示（楼层语义），与帖子列表的倒序相反。
func (r *commentRepository) ListVisibleByPost(ctx context.Context, postID uint64, page, pageSize int, now time.Time) ([]*entities.Comment, int64, error) {
	var comments []*entities.Comment
	var totalCount int64

	query := visibleScope(r.db.WithContext(ctx).Model(&entities.Comment{}), now).
		Where("post_id = ?", postID)

	if err := query.Count(&totalCount).Error; err != nil {
		r.logger.Error("评论列表计数查询失败", zap.Error(err), zap.Uint64("postID", postID))
		return nil, 0, fmt.Errorf("计数评论列表失败: %w", err)
	}
	if totalCount == 0 {
		return comments, 0, nil
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at ASC").Order("id ASC").
		Offset(offset).Limit(pageSize).
		Find(&comments).Error
	if err != nil {
		r.logger.Error("评论列表查询失败", zap.Error(err), zap.Uint64("postID", postID), zap.Int("page", page))
		return nil, 0, fmt.Errorf("查询评论列表失败: %w", err)
	}

	return comments, totalCount, nil
}

// IncrementFlag 实现评论举报计数自增与阈值置位。
// SET 子句顺序与帖子实现保持一致（is_flagged 在前，条件引用自增前的计数）。
func (r *commentRepository) IncrementFlag(ctx context.Context, id uint64, threshold uint64, now time.Time) (uint64, bool, error) {
	result := r.db.WithContext(ctx).Exec(
		"UPDATE comments SET is_flagged = (CASE WHEN flag_count + 1 >= ? THEN ? ELSE is_flagged END), flag_count = flag_count + 1, updated_at = ? "+
			"WHERE id = ? AND deleted_at IS NULL AND expires_at > ?",
		threshold, true, time.Now(), id, now,
	)
	if result.Error != nil {
		r.logger.Error("评论举报自增失败", zap.Error(result.Error), zap.Uint64("commentID", id))
		return 0, false, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, false, commonerrors.ErrRepoNotFound
	}

	var row struct {
		FlagCount uint64
		IsFlagged bool
	}
	err := r.db.WithContext(ctx).Model(&entities.Comment{}).
		Select("flag_count", "is_flagged").
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		r.logger.Error("回读评论举报状态失败", zap.Error(err), zap.Uint64("commentID", id))
		return 0, false, err
	}
	return row.FlagCount, row.IsFlagged, nil
}

// SoftDelete 实现评论的软删除。
// db 参数允许传入事务句柄：评论删除与父帖计数自减由服务层显式编排在同一事务内。
func (r *commentRepository) SoftDelete(ctx context.Context, db *gorm.DB, id uint64) error {
	result := db.WithContext(ctx).Delete(&entities.Comment{}, id)
	if result.Error != nil {
		r.logger.Error("评论软删除失败", zap.Error(result.Error), zap.Uint64("commentID", id))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}
