package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/anon_forum_service/constant"
	"github.com/Xushengqwer/anon_forum_service/models/dto"
	"github.com/Xushengqwer/anon_forum_service/models/entities"
	"github.com/Xushengqwer/anon_forum_service/models/vo"
	"github.com/Xushengqwer/anon_forum_service/myErrors"
	"github.com/Xushengqwer/anon_forum_service/repo/mysql"
	"github.com/Xushengqwer/anon_forum_service/security"
)

// CommentService 定义了处理评论业务逻辑的接口。
type CommentService interface {
	// CreateComment 在指定帖子下创建匿名评论。
	// - 父帖必须可见（存在、未过期、未隐藏），否则返回 ErrNotFoundOrExpired。
	// - 评论的到期时间从父帖复制，存活期永不超过父帖。
	// - 评论创建与父帖评论计数自增在同一事务内完成。
	CreateComment(ctx context.Context, postID uint64, req *dto.CreateCommentRequest, clientAddr string) (*vo.CommentVO, error)

	// ListComments 分页查询帖子下的可见评论，按创建时间升序（楼层顺序）。
	// - 父帖不可见时返回 ErrNotFoundOrExpired，而不是空列表。
	ListComments(ctx context.Context, postID uint64, req *dto.ListCommentsRequest) (*vo.ListCommentsPageVO, error)

	// DeleteComment 软删除评论，并在同一事务内原子递减父帖评论计数。
	DeleteComment(ctx context.Context, commentID uint64) error
}

// commentService 是 CommentService 接口的具体实现。
type commentService struct {
	db            *gorm.DB
	commentRepo   mysql.CommentRepository
	postRepo      mysql.PostRepository
	cipher        *security.ContentCipher
	ipHasher      *security.IPHasher
	contentFilter *security.ContentFilter
	logger        *core.ZapLogger
}

// NewCommentService 是 commentService 的构造函数。
func NewCommentService(
	db *gorm.DB,
	commentRepo mysql.CommentRepository,
	postRepo mysql.PostRepository,
	cipher *security.ContentCipher,
	ipHasher *security.IPHasher,
	contentFilter *security.ContentFilter,
	logger *core.ZapLogger,
) CommentService {
	return &commentService{
		db:            db,
		commentRepo:   commentRepo,
		postRepo:      postRepo,
		cipher:        cipher,
		ipHasher:      ipHasher,
		contentFilter: contentFilter,
		logger:        logger,
	}
}

// CreateComment 实现评论创建流程。
func (s *commentService) CreateComment(ctx context.Context, postID uint64, req *dto.CreateCommentRequest, clientAddr string) (*vo.CommentVO, error) {
	// 1. 垃圾启发式扫原始输入（评论使用更严格的 URL/大写阈值）。
	//    净化会剥掉标记，藏在属性里的 URL 必须在剥离之前捕获。
	if err := s.contentFilter.CheckSpam(req.Content, security.SpamKindComment); err != nil {
		s.logger.Warn("评论被垃圾启发式拦截",
			zap.Uint64("postID", postID),
			zap.String("ipHash", s.ipHasher.Hash(clientAddr)),
			zap.String("excerpt", security.Truncate(req.Content, 64)),
		)
		return nil, err
	}

	// 2. 净化与净化后长度校验。
	content := security.Sanitize(req.Content)
	contentLen := utf8.RuneCountInString(content)
	if contentLen < constant.CommentContentMinLen || contentLen > constant.CommentContentMaxLen {
		return nil, myErrors.NewValidationError(myErrors.FieldError{
			Field:   "content",
			Message: fmt.Sprintf("评论净化后长度须在 %d-%d 字符之间", constant.CommentContentMinLen, constant.CommentContentMaxLen),
		})
	}

	// 策略拒绝清单作用在净化后的文本上。
	if err := s.contentFilter.CheckPolicy(content); err != nil {
		s.logger.Warn("评论命中策略拒绝清单",
			zap.Uint64("postID", postID),
			zap.String("ipHash", s.ipHasher.Hash(clientAddr)),
		)
		return nil, err
	}

	// 3. 父帖必须可见。到期时间从父帖复制。
	now := time.Now()
	parent, err := s.postRepo.GetVisibleByID(ctx, postID, now)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrNotFoundOrExpired
		}
		return nil, fmt.Errorf("检查父帖可见性失败: %w", err)
	}

	// 4. 加密评论正文。
	sealed, err := s.cipher.Encrypt(content)
	if err != nil {
		s.logger.Error("评论正文加密失败", zap.Error(err), zap.Uint64("postID", postID))
		return nil, fmt.Errorf("加密评论正文失败: %w", err)
	}

	comment := &entities.Comment{
		PostID:     postID,
		AnonID:     security.GenerateAnonID(),
		Ciphertext: sealed.Ciphertext,
		IV:         sealed.IV,
		AuthTag:    sealed.AuthTag,
		IPHash:     s.ipHasher.Hash(clientAddr),
		ExpiresAt:  parent.ExpiresAt,
	}

	// 5. 评论插入与父帖计数自增放进同一事务。计数自增是数据库侧的
	//    原地操作，并发创建评论不会丢失计数。
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.commentRepo.CreateComment(ctx, tx, comment); err != nil {
			return fmt.Errorf("创建评论记录失败: %w", err)
		}
		if err := s.postRepo.IncrementCommentCount(ctx, tx, postID); err != nil {
			return fmt.Errorf("递增父帖评论计数失败: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("评论创建事务失败", zap.Error(err), zap.Uint64("postID", postID))
		return nil, err
	}

	s.logger.Info("匿名评论创建成功",
		zap.Uint64("commentID", comment.ID),
		zap.Uint64("postID", postID),
	)

	return &vo.CommentVO{
		ID:        comment.ID,
		PostID:    comment.PostID,
		AnonID:    comment.AnonID,
		Content:   content,
		CreatedAt: comment.CreatedAt,
		ExpiresAt: comment.ExpiresAt,
	}, nil
}

// ListComments 实现评论列表查询。
func (s *commentService) ListComments(ctx context.Context, postID uint64, req *dto.ListCommentsRequest) (*vo.ListCommentsPageVO, error) {
	req.Normalize()
	now := time.Now()

	// 父帖不可见时评论列表整体不可见。
	if _, err := s.postRepo.GetVisibleByID(ctx, postID, now); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrNotFoundOrExpired
		}
		return nil, fmt.Errorf("检查父帖可见性失败: %w", err)
	}

	comments, total, err := s.commentRepo.ListVisibleByPost(ctx, postID, req.Page, req.PageSize, now)
	if err != nil {
		return nil, fmt.Errorf("查询评论列表失败: %w", err)
	}

	// 逐条解密。单条解密失败以占位串展示，不影响其余楼层。
	items := make([]*vo.CommentVO, 0, len(comments))
	for _, c := range comments {
		plaintext := s.cipher.DecryptOrFallback(&security.SealedContent{
			Ciphertext: c.Ciphertext,
			IV:         c.IV,
			AuthTag:    c.AuthTag,
		})
		items = append(items, &vo.CommentVO{
			ID:        c.ID,
			PostID:    c.PostID,
			AnonID:    c.AnonID,
			Content:   plaintext,
			CreatedAt: c.CreatedAt,
			ExpiresAt: c.ExpiresAt,
		})
	}

	return &vo.ListCommentsPageVO{
		Comments: items,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// DeleteComment 实现评论软删除。
func (s *commentService) DeleteComment(ctx context.Context, commentID uint64) error {
	comment, err := s.commentRepo.GetVisibleByID(ctx, commentID, time.Now())
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return myErrors.ErrNotFoundOrExpired
		}
		return fmt.Errorf("获取评论失败: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.commentRepo.SoftDelete(ctx, tx, commentID); err != nil {
			return fmt.Errorf("软删除评论失败: %w", err)
		}
		// 自减带下界保护，父帖已删除时静默跳过。
		if err := s.postRepo.DecrementCommentCount(ctx, tx, comment.PostID); err != nil {
			return fmt.Errorf("递减父帖评论计数失败: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("评论删除事务失败", zap.Error(err), zap.Uint64("commentID", commentID))
		return err
	}

	s.logger.Info("评论已软删除", zap.Uint64("commentID", commentID), zap.Uint64("postID", comment.PostID))
	return nil
}
