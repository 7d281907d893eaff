package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/anon_forum_service/constant"
	"github.com/Xushengqwer/anon_forum_service/models/events"
	"github.com/Xushengqwer/anon_forum_service/models/vo"
	"github.com/Xushengqwer/anon_forum_service/mq/producer"
	"github.com/Xushengqwer/anon_forum_service/myErrors"
	"github.com/Xushengqwer/anon_forum_service/repo/mysql"
	"github.com/Xushengqwer/anon_forum_service/repo/redis"
)

// ModerationService 定义了点赞、举报与下架相关的业务逻辑接口。
//
// 点赞与举报都是匿名的：没有账号体系，无法做同源去重，防刷完全依赖
// 各自的限流窗口。同一来源在窗口内重复操作会被限流层拒绝。
type ModerationService interface {
	// LikePost 对可见帖子点赞，返回点赞后的计数。
	// - 计数只增不减；同时同步累加热度榜单分数。
	LikePost(ctx context.Context, postID uint64) (*vo.LikeResultVO, error)

	// FlagPost 对可见帖子记一次举报。
	// - 计数达到阈值（帖子为 5）的那一次举报会原子置位自动隐藏，置位不可逆。
	// - 仅在发生置位的那一次发出 ContentFlagged 事件，供人工复审消费。
	FlagPost(ctx context.Context, postID uint64) (*vo.FlagResultVO, error)

	// FlagComment 对可见评论记一次举报，阈值为 3，其余语义与 FlagPost 一致。
	FlagComment(ctx context.Context, commentID uint64) (*vo.FlagResultVO, error)

	// Takedown 执行外部复审服务下达的下架指令（软删除目标内容）。
	// - 目标通常已是自动隐藏状态，因此这里绕过可见性过滤直接定位记录。
	// - 幂等：目标已删除或不存在时静默成功。
	Takedown(ctx context.Context, kind events.ContentKind, contentID uint64, reason string) error
}

// moderationService 是 ModerationService 接口的具体实现。
type moderationService struct {
	db           *gorm.DB
	postRepo     mysql.PostRepository
	commentRepo  mysql.CommentRepository
	trendingRepo redis.TrendingRepository
	kafkaSvc     *producer.KafkaProducer
	logger       *core.ZapLogger
}

// NewModerationService 是 moderationService 的构造函数。
func NewModerationService(
	db *gorm.DB,
	postRepo mysql.PostRepository,
	commentRepo mysql.CommentRepository,
	trendingRepo redis.TrendingRepository,
	kafkaSvc *producer.KafkaProducer,
	logger *core.ZapLogger,
) ModerationService {
	return &moderationService{
		db:           db,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		trendingRepo: trendingRepo,
		kafkaSvc:     kafkaSvc,
		logger:       logger,
	}
}

// LikePost 实现帖子点赞。
func (s *moderationService) LikePost(ctx context.Context, postID uint64) (*vo.LikeResultVO, error) {
	likes, err := s.postRepo.IncrementLikes(ctx, postID, time.Now())
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrNotFoundOrExpired
		}
		return nil, fmt.Errorf("帖子点赞失败: %w", err)
	}

	// 榜单分数累加失败只记录：榜单是派生数据，点赞本身已落库。
	if err := s.trendingRepo.IncrScore(ctx, postID); err != nil {
		s.logger.Warn("累加热度榜单分数失败", zap.Uint64("postID", postID), zap.Error(err))
	}

	return &vo.LikeResultVO{Likes: likes}, nil
}

// FlagPost 实现帖子举报。
func (s *moderationService) FlagPost(ctx context.Context, postID uint64) (*vo.FlagResultVO, error) {
	return s.flag(ctx, events.KindPost, postID)
}

// FlagComment 实现评论举报。
func (s *moderationService) FlagComment(ctx context.Context, commentID uint64) (*vo.FlagResultVO, error) {
	return s.flag(ctx, events.KindComment, commentID)
}

// flag 是帖子与评论共用的举报流程，仅阈值与仓库不同。
func (s *moderationService) flag(ctx context.Context, kind events.ContentKind, contentID uint64) (*vo.FlagResultVO, error) {
	now := time.Now()

	var flagCount uint64
	var flagged bool
	var err error
	if kind == events.KindPost {
		flagCount, flagged, err = s.postRepo.IncrementFlag(ctx, contentID, constant.PostFlagThreshold, now)
	} else {
		flagCount, flagged, err = s.commentRepo.IncrementFlag(ctx, contentID, constant.CommentFlagThreshold, now)
	}
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrNotFoundOrExpired
		}
		return nil, fmt.Errorf("内容举报失败: %w", err)
	}

	// 恰好在本次举报发生置位时发出事件：flagged 为真且新计数等于阈值。
	// 已隐藏内容的后续举报只累加计数，不再重复发事件。
	threshold := uint64(constant.PostFlagThreshold)
	if kind == events.KindComment {
		threshold = constant.CommentFlagThreshold
	}
	if flagged && flagCount == threshold {
		s.logger.Info("内容达到举报阈值被自动隐藏",
			zap.String("kind", string(kind)),
			zap.Uint64("contentID", contentID),
			zap.Uint64("flagCount", flagCount),
		)
		go func() {
			sendCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.kafkaSvc.SendContentFlaggedEvent(sendCtx, kind, contentID, flagCount); err != nil {
				s.logger.Error("发送内容隐藏事件失败",
					zap.String("kind", string(kind)),
					zap.Uint64("contentID", contentID),
					zap.Error(err),
				)
			}
		}()

		// 被自动隐藏的帖子从热度榜单移除。
		if kind == events.KindPost {
			if err := s.trendingRepo.Remove(ctx, contentID); err != nil {
				s.logger.Warn("从热度榜单移除被隐藏帖子失败", zap.Uint64("postID", contentID), zap.Error(err))
			}
		}
	}

	return &vo.FlagResultVO{FlagCount: flagCount, Flagged: flagged}, nil
}

// Takedown 实现外部下架指令。
func (s *moderationService) Takedown(ctx context.Context, kind events.ContentKind, contentID uint64, reason string) error {
	s.logger.Info("执行外部下架指令",
		zap.String("kind", string(kind)),
		zap.Uint64("contentID", contentID),
		zap.String("reason", reason),
	)

	switch kind {
	case events.KindPost:
		if err := s.postRepo.SoftDelete(ctx, contentID); err != nil {
			if errors.Is(err, commonerrors.ErrRepoNotFound) {
				return nil // 已删除，幂等成功
			}
			return fmt.Errorf("下架帖子失败: %w", err)
		}
		if err := s.trendingRepo.Remove(ctx, contentID); err != nil {
			s.logger.Warn("从热度榜单移除下架帖子失败", zap.Uint64("postID", contentID), zap.Error(err))
		}
		return nil

	case events.KindComment:
		// 目标评论通常已被自动隐藏，绕过可见性过滤直接取记录。
		comment, err := s.commentRepo.GetByID(ctx, contentID)
		if err != nil {
			if errors.Is(err, commonerrors.ErrRepoNotFound) {
				return nil
			}
			return fmt.Errorf("定位下架评论失败: %w", err)
		}
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.commentRepo.SoftDelete(ctx, tx, contentID); err != nil {
				return fmt.Errorf("下架评论失败: %w", err)
			}
			if err := s.postRepo.DecrementCommentCount(ctx, tx, comment.PostID); err != nil {
				return fmt.Errorf("递减父帖评论计数失败: %w", err)
			}
			return nil
		})

	default:
		return fmt.Errorf("未知的下架内容类型: %q", kind)
	}
}
