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

	"github.com/Xushengqwer/anon_forum_service/models/dto"
	"github.com/Xushengqwer/anon_forum_service/models/entities"
)

// PostRepository 定义了帖子数据在 MySQL 中的持久化操作接口。
// 接口的设计旨在将数据访问逻辑与业务逻辑（服务层）解耦。
//
// 可见性约定: 所有读路径统一过滤三类不可见记录——已软删除（GORM 自动过滤）、
// 已过期（expires_at <= now）、已自动隐藏（is_flagged）。过期内容在清理任务
// 物理删除之前就必须不可读，这一约定由查询层兜底。
type PostRepository interface {
	// CreatePost 持久化一个新的帖子记录。
	// - 这是帖子生命周期的起点；ExpiresAt 在此刻已被服务层固定，之后不可变。
	CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error

	// GetVisibleByID 按 ID 检索单个可见帖子。
	// - 过期、隐藏、软删除、不存在四种情况一律返回 commonerrors.ErrRepoNotFound，
	//   上层不区分，避免泄露审核状态。
	GetVisibleByID(ctx context.Context, id uint64, now time.Time) (*entities.Post, error)

	// ListVisible 分页查询可见帖子列表，支持版块过滤与排序。
	// - 排序字段限定为 created_at / likes / comment_count（白名单，防注入）。
	// - 返回: 帖子列表, 符合条件的总记录数, 错误。
	ListVisible(ctx context.Context, params *dto.ListPostsRequest, now time.Time) ([]*entities.Post, int64, error)

	// GetVisibleByIDs 根据 ID 列表批量检索可见帖子，服务于热度榜单页。
	// - 返回结果保持与入参 ID 相同的顺序；不可见的 ID 被静默跳过。
	GetVisibleByIDs(ctx context.Context, ids []uint64, now time.Time) ([]*entities.Post, error)

	// IncrementLikes 原子性地将可见帖子的点赞数 +1，返回更新后的计数。
	// - 使用数据库侧的原地自增（likes = likes + 1），并发点赞不丢失更新。
	IncrementLikes(ctx context.Context, id uint64, now time.Time) (uint64, error)

	// IncrementFlag 原子性地将帖子举报数 +1；新计数达到 threshold 时同一条
	// UPDATE 内置位 is_flagged（置位后不可逆）。返回更新后的计数与隐藏状态。
	// - 对已隐藏的帖子继续举报仍然累加计数，is_flagged 保持为 true。
	IncrementFlag(ctx context.Context, id uint64, threshold uint64, now time.Time) (flagCount uint64, flagged bool, err error)

	// IncrementCommentCount / DecrementCommentCount 原子性地维护评论计数。
	// - 直接对存储发出原地自增/自减，绝不做读-改-写，并发创建评论不丢失计数。
	IncrementCommentCount(ctx context.Context, db *gorm.DB, postID uint64) error
	DecrementCommentCount(ctx context.Context, db *gorm.DB, postID uint64) error

	// SoftDelete 对指定帖子执行软删除（填充 deleted_at），数据保留到清理任务物理删除。
	SoftDelete(ctx context.Context, id uint64) error
}

// postRepository 是 PostRepository 接口针对 MySQL 的具体实现。
type postRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewPostRepository 是 postRepository 的构造函数。
func NewPostRepository(db *gorm.DB, logger *core.ZapLogger) PostRepository {
	return &postRepository{
		db:     db,
		logger: logger,
	}
}

// visibleScope 构建统一的可见性查询条件（软删除由 GORM 自动追加）。
func visibleScope(db *gorm.DB, now time.Time) *gorm.DB {
	return db.Where("expires_at > ?", now).Where("is_flagged = ?", false)
}

// CreatePost 实现帖子的数据库插入操作。
func (r *postRepository) CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error {
	if err := db.WithContext(ctx).Create(post).Error; err != nil {
		// 在仓库层直接返回数据库错误，由服务层决定如何包装。
		return err
	}
	return nil
}

// GetVisibleByID 实现单帖检索。
func (r *postRepository) GetVisibleByID(ctx context.Context, id uint64, now time.Time) (*entities.Post, error) {
	var post entities.Post
	err := visibleScope(r.db.WithContext(ctx), now).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 未找到/过期/隐藏统一归并为一种错误。
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取帖子数据库查询失败", zap.Uint64("postID", id), zap.Error(err))
		return nil, err
	}
	return &post, nil
}

// sortColumns 是排序字段白名单，键为 DTO 中的 sort_by 取值。
var sortColumns = map[string]string{
	"created_at":    "created_at DESC",
	"likes":         "likes DESC",
	"comment_count": "comment_count DESC",
}

// ListVisible 实现分页列表查询。
func (r *postRepository) ListVisible(ctx context.Context, params *dto.ListPostsRequest, now time.Time) ([]*entities.Post, int64, error) {
	var posts []*entities.Post
	var totalCount int64

	query := visibleScope(r.db.WithContext(ctx).Model(&entities.Post{}), now)
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	// 先计数后取页：计数在应用分页前执行。
	if err := query.Count(&totalCount).Error; err != nil {
		r.logger.Error("帖子列表计数查询失败",
			zap.Error(err),
			zap.String("category", params.Category),
		)
		return nil, 0, fmt.Errorf("计数帖子列表失败: %w", err)
	}
	if totalCount == 0 {
		return posts, 0, nil
	}

	orderBy, ok := sortColumns[params.SortBy]
	if !ok {
		orderBy = sortColumns["created_at"]
	}

	offset := (params.Page - 1) * params.PageSize
	err := query.Order(orderBy).Order("id DESC").
		Offset(offset).Limit(params.PageSize).
		Find(&posts).Error
	if err != nil {
		r.logger.Error("帖子列表查询失败",
			zap.Error(err),
			zap.String("category", params.Category),
			zap.String("sortBy", params.SortBy),
			zap.Int("page", params.Page),
		)
		return nil, 0, fmt.Errorf("查询帖子列表失败: %w", err)
	}

	return posts, totalCount, nil
}

// GetVisibleByIDs 实现批量检索，保持入参顺序。
func (r *postRepository) GetVisibleByIDs(ctx context.Context, ids []uint64, now time.Time) ([]*entities.Post, error) {
	if len(ids) == 0 {
		return []*entities.Post{}, nil
	}

	var posts []*entities.Post
	err := visibleScope(r.db.WithContext(ctx), now).
		Where("id IN ?", ids).
		Find(&posts).Error
	if err != nil {
		r.logger.Error("批量获取帖子失败", zap.Error(err), zap.Int("idCount", len(ids)))
		return nil, fmt.Errorf("批量获取帖子失败: %w", err)
	}

	// IN 查询不保证顺序，这里按入参 ID 顺序重排（榜单顺序即热度顺序）。
	byID := make(map[uint64]*entities.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]*entities.Post, 0, len(posts))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// IncrementLikes 实现点赞计数的原子自增。
func (r *postRepository) IncrementLikes(ctx context.Context, id uint64, now time.Time) (uint64, error) {
	result := r.db.WithContext(ctx).Exec(
		"UPDATE posts SET likes = likes + 1, updated_at = ? WHERE id = ? AND deleted_at IS NULL AND expires_at > ? AND is_flagged = ?",
		time.Now(), id, now, false,
	)
	if result.Error != nil {
		r.logger.Error("帖子点赞自增失败", zap.Error(result.Error), zap.Uint64("postID", id))
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, commonerrors.ErrRepoNotFound
	}

	// 自增后回读计数。并发点赞时读到的可能是更新的值，计数单调不减，可接受。
	var row struct {
		Likes uint64
	}
	if err := r.db.WithContext(ctx).Model(&entities.Post{}).
		Select("likes").
		Where("id = ?", id).
		Take(&row).Error; err != nil {
		r.logger.Error("回读帖子点赞计数失败", zap.Error(err), zap.Uint64("postID", id))
		return 0, err
	}
	return row.Likes, nil
}

// IncrementFlag 实现举报计数自增与阈值置位。
//
// SET 子句顺序刻意将 is_flagged 放在 flag_count 之前：
// 置位条件引用的是自增前的 flag_count（flag_count + 1 >= threshold），
// 这样无论数据库按从左到右还是按语句开始快照求值，语义一致。
func (r *postRepository) IncrementFlag(ctx context.Context, id uint64, threshold uint64, now time.Time) (uint64, bool, error) {
	result := r.db.WithContext(ctx).Exec(
		"UPDATE posts SET is_flagged = (CASE WHEN flag_count + 1 >= ? THEN ? ELSE is_flagged END), flag_count = flag_count + 1, updated_at = ? "+
			"WHERE id = ? AND deleted_at IS NULL AND expires_at > ?",
		threshold, true, time.Now(), id, now,
	)
	if result.Error != nil {
		r.logger.Error("帖子举报自增失败", zap.Error(result.Error), zap.Uint64("postID", id))
		return 0, false, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, false, commonerrors.ErrRepoNotFound
	}

	// 回读更新后的计数与隐藏状态。注意这里不能走 visibleScope：
	// 刚刚被置位隐藏的帖子也要把结果告诉举报方。
	var row struct {
		FlagCount uint64
		IsFlagged bool
	}
	err := r.db.WithContext(ctx).Model(&entities.Post{}).
		Select("flag_count", "is_flagged").
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		r.logger.Error("回读帖子举报状态失败", zap.Error(err), zap.Uint64("postID", id))
		return 0, false, err
	}
	return row.FlagCount, row.IsFlagged, nil
}

// IncrementCommentCount 实现评论计数原子自增。
func (r *postRepository) IncrementCommentCount(ctx context.Context, db *gorm.DB, postID uint64) error {
	result := db.WithContext(ctx).Model(&entities.Post{}).
		Where("id = ?", postID).
		UpdateColumn("comment_count", gorm.Expr("comment_count + 1"))
	if result.Error != nil {
		r.logger.Error("帖子评论计数自增失败", zap.Error(result.Error), zap.Uint64("postID", postID))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// DecrementCommentCount 实现评论计数原子自减，带下界保护（不降到 0 以下）。
func (r *postRepository) DecrementCommentCount(ctx context.Context, db *gorm.DB, postID uint64) error {
	result := db.WithContext(ctx).Model(&entities.Post{}).
		Where("id = ? AND comment_count > 0", postID).
		UpdateColumn("comment_count", gorm.Expr("comment_count - 1"))
	if result.Error != nil {
		r.logger.Error("帖子评论计数自减失败", zap.Error(result.Error), zap.Uint64("postID", postID))
		return result.Error
	}
	// RowsAffected == 0 说明帖子不存在或计数已为 0；自减是尽力而为，不报错。
	return nil
}

// SoftDelete 实现帖子的软删除。
func (r *postRepository) SoftDelete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&entities.Post{}, id)
	if result.Error != nil {
		r.logger.Error("帖子软删除失败", zap.Error(result.Error), zap.Uint64("postID", id))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}
