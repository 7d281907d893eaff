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

	"github.com/Xushengqwer/anon_forum_service/config"
	"github.com/Xushengqwer/anon_forum_service/constant"
	"github.com/Xushengqwer/anon_forum_service/models/dto"
	"github.com/Xushengqwer/anon_forum_service/models/entities"
	"github.com/Xushengqwer/anon_forum_service/models/vo"
	"github.com/Xushengqwer/anon_forum_service/mq/producer"
	"github.com/Xushengqwer/anon_forum_service/myErrors"
	"github.com/Xushengqwer/anon_forum_service/repo/mysql"
	"github.com/Xushengqwer/anon_forum_service/repo/redis"
	"github.com/Xushengqwer/anon_forum_service/security"
)

// PostService 定义了处理帖子核心业务逻辑的接口。
type PostService interface {
	// CreatePost 处理匿名发帖的业务流程。
	// - 净化所有字符串字段后重新校验长度（净化可能缩短内容）。
	// - 依次执行垃圾启发式与策略拒绝清单检查，命中即拒绝。
	// - 生成一次性匿名展示名，正文加密后落库，到期时间在此刻固定。
	// - clientAddr 是提交来源地址，仅用于生成加盐散列，原始地址不落库。
	CreatePost(ctx context.Context, req *dto.CreatePostRequest, clientAddr string) (*vo.PostVO, error)

	// GetPostByID 获取单个帖子详情，正文解密后返回。
	// - 过期/隐藏/删除/不存在统一返回 myErrors.ErrNotFoundOrExpired。
	// - 解密失败时返回占位正文而不是错误，避免单条坏数据打挂详情页。
	GetPostByID(ctx context.Context, postID uint64) (*vo.PostVO, error)

	// ListPosts 分页查询可见帖子列表（摘要，不含正文）。
	ListPosts(ctx context.Context, req *dto.ListPostsRequest) (*vo.ListPostsPageVO, error)

	// GetTrendingPosts 返回热度榜单（按累计点赞降序的可见帖子摘要）。
	// - 榜单里已不可见的帖子被静默跳过，返回数量可能少于 n。
	GetTrendingPosts(ctx context.Context, n int) (*vo.TrendingPostsVO, error)

	// DeletePost 对帖子执行软删除，并同步移出热度榜单、发出删除事件。
	DeletePost(ctx context.Context, postID uint64) error
}

// postService 是 PostService 接口的具体实现。
type postService struct {
	db            *gorm.DB
	postRepo      mysql.PostRepository
	trendingRepo  redis.TrendingRepository
	cipher        *security.ContentCipher
	ipHasher      *security.IPHasher
	contentFilter *security.ContentFilter
	lifecycle     config.LifecycleConfig
	kafkaSvc      *producer.KafkaProducer
	logger        *core.ZapLogger
}

// NewPostService 是 postService 的构造函数，通过依赖注入初始化服务实例。
func NewPostService(
	db *gorm.DB,
	postRepo mysql.PostRepository,
	trendingRepo redis.TrendingRepository,
	cipher *security.ContentCipher,
	ipHasher *security.IPHasher,
	contentFilter *security.ContentFilter,
	lifecycle config.LifecycleConfig,
	kafkaSvc *producer.KafkaProducer,
	logger *core.ZapLogger,
) PostService {
	return &postService{
		db:            db,
		postRepo:      postRepo,
		trendingRepo:  trendingRepo,
		cipher:        cipher,
		ipHasher:      ipHasher,
		contentFilter: contentFilter,
		lifecycle:     lifecycle.WithDefaults(),
		kafkaSvc:      kafkaSvc,
		logger:        logger,
	}
}

// validatePostFields 对净化后的字段重新做长度与数量校验。
// 不短路：收集全部字段错误后一次性返回，便于客户端逐项提示。
func validatePostFields(title, content string, tags []string) *myErrors.ValidationError {
	var fields []myErrors.FieldError

	titleLen := utf8.RuneCountInString(title)
	if titleLen < constant.TitleMinLen || titleLen > constant.TitleMaxLen {
		fields = append(fields, myErrors.FieldError{
			Field:   "title",
			Message: fmt.Sprintf("标题净化后长度须在 %d-%d 字符之间", constant.TitleMinLen, constant.TitleMaxLen),
		})
	}

	contentLen := utf8.RuneCountInString(content)
	if contentLen < constant.PostContentMinLen || contentLen > constant.PostContentMaxLen {
		fields = append(fields, myErrors.FieldError{
			Field:   "content",
			Message: fmt.Sprintf("正文净化后长度须在 %d-%d 字符之间", constant.PostContentMinLen, constant.PostContentMaxLen),
		})
	}

	if len(tags) > constant.MaxTags {
		fields = append(fields, myErrors.FieldError{
			Field:   "tags",
			Message: fmt.Sprintf("标签最多 %d 个", constant.MaxTags),
		})
	}
	for _, tag := range tags {
		if utf8.RuneCountInString(tag) > constant.MaxTagLen {
			fields = append(fields, myErrors.FieldError{
				Field:   "tags",
				Message: fmt.Sprintf("单个标签不超过 %d 字符", constant.MaxTagLen),
			})
			break
		}
	}

	if len(fields) > 0 {
		return myErrors.NewValidationError(fields...)
	}
	return nil
}

// CreatePost 实现匿名发帖流程。
func (s *postService) CreatePost(ctx context.Context, req *dto.CreatePostRequest, clientAddr string) (*vo.PostVO, error) {
	// 1. 垃圾启发式扫原始输入。净化会剥掉标记，藏在属性里的 URL、
	//    全大写长串等特征必须在剥离之前捕获。
	if err := s.contentFilter.CheckSpam(req.Content, security.SpamKindPost); err != nil {
		s.logger.Warn("发帖被垃圾启发式拦截",
			zap.String("ipHash", s.ipHasher.Hash(clientAddr)),
			zap.String("excerpt", security.Truncate(req.Content, 64)),
		)
		return nil, err
	}

	// 2. 净化所有字符串字段。绑定层已做形状校验，这里处理内容本身。
	title := security.Sanitize(req.Title)
	content := security.Sanitize(req.Content)
	tags := security.SanitizeSlice(req.Tags)

	// 3. 净化可能缩短内容，长度边界以净化后的为准重新校验。
	if vErr := validatePostFields(title, content, tags); vErr != nil {
		return nil, vErr
	}

	// 4. 策略拒绝清单作用在净化后的文本上，绕不过大小写与标记混淆。
	if err := s.contentFilter.CheckPolicy(title, content); err != nil {
		s.logger.Warn("发帖命中策略拒绝清单",
			zap.String("ipHash", s.ipHasher.Hash(clientAddr)),
		)
		return nil, err
	}

	// 5. 加密正文。每次加密生成新的随机 IV。
	sealed, err := s.cipher.Encrypt(content)
	if err != nil {
		s.logger.Error("帖子正文加密失败", zap.Error(err))
		return nil, fmt.Errorf("加密帖子正文失败: %w", err)
	}

	// 6. 组装实体。到期时间在此刻一次性固定，之后不可延长。
	now := time.Now()
	post := &entities.Post{
		AnonID:     security.GenerateAnonID(),
		Title:      title,
		Ciphertext: sealed.Ciphertext,
		IV:         sealed.IV,
		AuthTag:    sealed.AuthTag,
		Category:   constant.Category(req.Category),
		Tags:       tags,
		IPHash:     s.ipHasher.Hash(clientAddr),
		ExpiresAt:  now.Add(time.Duration(s.lifecycle.PostTTLDays) * 24 * time.Hour),
	}

	if err := s.postRepo.CreatePost(ctx, s.db, post); err != nil {
		s.logger.Error("持久化帖子失败", zap.Error(err))
		return nil, fmt.Errorf("创建帖子失败: %w", err)
	}

	s.logger.Info("匿名帖子创建成功",
		zap.Uint64("postID", post.ID),
		zap.String("category", string(post.Category)),
		zap.Time("expiresAt", post.ExpiresAt),
	)

	// 创建响应直接返回净化后的明文，省一次解密。
	return vo.MapPostToVO(post, content), nil
}

// GetPostByID 实现帖子详情查询。
func (s *postService) GetPostByID(ctx context.Context, postID uint64) (*vo.PostVO, error) {
	post, err := s.postRepo.GetVisibleByID(ctx, postID, time.Now())
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			// 不存在/过期/隐藏对外不可区分。
			return nil, myErrors.ErrNotFoundOrExpired
		}
		return nil, fmt.Errorf("获取帖子详情失败: %w", err)
	}

	plaintext := s.cipher.DecryptOrFallback(&security.SealedContent{
		Ciphertext: post.Ciphertext,
		IV:         post.IV,
		AuthTag:    post.AuthTag,
	})

	return vo.MapPostToVO(post, plaintext), nil
}

// ListPosts 实现帖子列表分页查询。
func (s *postService) ListPosts(ctx context.Context, req *dto.ListPostsRequest) (*vo.ListPostsPageVO, error) {
	req.Normalize()

	posts, total, err := s.postRepo.ListVisible(ctx, req, time.Now())
	if err != nil {
		return nil, fmt.Errorf("查询帖子列表失败: %w", err)
	}

	return &vo.ListPostsPageVO{
		Posts:    vo.MapPostsToSummaryVOs(posts),
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// GetTrendingPosts 实现热度榜单查询。
func (s *postService) GetTrendingPosts(ctx context.Context, n int) (*vo.TrendingPostsVO, error) {
	ids, err := s.trendingRepo.TopN(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("获取热度榜单失败: %w", err)
	}
	if len(ids) == 0 {
		return &vo.TrendingPostsVO{Posts: []*vo.PostSummaryVO{}}, nil
	}

	// 批量检索保持榜单顺序；榜单里残留的不可见帖子被跳过。
	posts, err := s.postRepo.GetVisibleByIDs(ctx, ids, time.Now())
	if err != nil {
		return nil, fmt.Errorf("获取榜单帖子失败: %w", err)
	}

	return &vo.TrendingPostsVO{Posts: vo.MapPostsToSummaryVOs(posts)}, nil
}

// DeletePost 实现帖子软删除。
func (s *postService) DeletePost(ctx context.Context, postID uint64) error {
	if err := s.postRepo.SoftDelete(ctx, postID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return myErrors.ErrNotFoundOrExpired
		}
		return fmt.Errorf("删除帖子失败: %w", err)
	}

	// 榜单移除失败不影响删除结果：可见性由查询层兜底，榜单只是残留脏成员。
	if err := s.trendingRepo.Remove(ctx, postID); err != nil {
		s.logger.Warn("从热度榜单移除帖子失败", zap.Uint64("postID", postID), zap.Error(err))
	}

	// 异步发送删除事件，不阻塞请求路径。
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.kafkaSvc.SendPostDeletedEvent(sendCtx, postID); err != nil {
			s.logger.Error("发送帖子删除事件失败", zap.Uint64("postID", postID), zap.Error(err))
		}
	}()

	s.logger.Info("帖子已软删除", zap.Uint64("postID", postID))
	return nil
}
