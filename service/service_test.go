package service

import (
	"context"
	"sync"
	"testing"
	"time"

	sharedConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	appConfig "github.com/Xushengqwer/anon_forum_service/config"
	"github.com/Xushengqwer/anon_forum_service/constant"
	"github.com/Xushengqwer/anon_forum_service/models/dto"
	"github.com/Xushengqwer/anon_forum_service/models/entities"
	"github.com/Xushengqwer/anon_forum_service/repo/mysql"
	"github.com/Xushengqwer/anon_forum_service/security"
)

// 服务层测试使用内存 SQLite 加真实的仓库/加密/净化组件，只伪造 Redis 榜单；
// Kafka 生产者传 nil（未配置 broker 时的运行形态，发送是无操作）。

// fakeTrending 记录榜单调用，TopN 返回预设的 ID 列表。
type fakeTrending struct {
	mu       sync.Mutex
	scores   map[uint64]int
	removed  []uint64
	topN     []uint64
	topNErr  error
	scoreErr error
}

func newFakeTrending() *fakeTrending {
	return &fakeTrending{scores: make(map[uint64]int)}
}

func (f *fakeTrending) IncrScore(_ context.Context, postID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scoreErr != nil {
		return f.scoreErr
	}
	f.scores[postID]++
	return nil
}

func (f *fakeTrending) Remove(_ context.Context, postIDs ...uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, postIDs...)
	return nil
}

func (f *fakeTrending) TopN(_ context.Context, _ int) ([]uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.topN, f.topNErr
}

func (f *fakeTrending) removedIDs() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]uint64, len(f.removed))
	copy(out, f.removed)
	return out
}

// serviceEnv 聚合一套可复用的测试依赖。
type serviceEnv struct {
	db          *gorm.DB
	postRepo    mysql.PostRepository
	commentRepo mysql.CommentRepository
	cipher      *security.ContentCipher
	hasher      *security.IPHasher
	filter      *security.ContentFilter
	trending    *fakeTrending
	logger      *core.ZapLogger

	postSvc       PostService
	commentSvc    CommentService
	moderationSvc ModerationService
}

func newServiceEnv(t *testing.T, bannedPhrases ...string) *serviceEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Post{}, &entities.Comment{}))

	logger, err := core.NewZapLogger(sharedConfig.ZapConfig{})
	require.NoError(t, err)

	key, err := security.GenerateRandomKeyHex()
	require.NoError(t, err)
	secCfg := &appConfig.SecurityConfig{
		EncryptionKey: key,
		IPSalt:        "test-salt",
		BannedPhrases: bannedPhrases,
	}

	cipher, err := security.NewContentCipher(secCfg, logger)
	require.NoError(t, err)

	env := &serviceEnv{
		db:          db,
		postRepo:    mysql.NewPostRepository(db, logger),
		commentRepo: mysql.NewCommentRepository(db, logger),
		cipher:      cipher,
		hasher:      security.NewIPHasher(secCfg),
		filter:      security.NewContentFilter(secCfg),
		trending:    newFakeTrending(),
		logger:      logger,
	}
	env.postSvc = NewPostService(db, env.postRepo, env.trending, cipher, env.hasher, env.filter,
		appConfig.LifecycleConfig{}, nil, logger)
	env.commentSvc = NewCommentService(db, env.commentRepo, env.postRepo, cipher, env.hasher, env.filter, logger)
	env.moderationSvc = NewModerationService(db, env.postRepo, env.commentRepo, env.trending, nil, logger)
	return env
}

func validCreatePostRequest() *dto.CreatePostRequest {
	return &dto.CreatePostRequest{
		Title:    "今晚有人想聊聊远程工作吗",
		Content:  "最近换成了完全远程的工作方式，想听听大家怎么安排日常节奏，还有怎么避免孤独感。",
		Category: string(constant.CategoryGeneral),
		Tags:     []string{"remote work", "life"},
	}
}

// createTestPost 走完整的创建流程造一条可见帖子。
func createTestPost(t *testing.T, env *serviceEnv) uint64 {
	t.Helper()
	created, err := env.postSvc.CreatePost(context.Background(), validCreatePostRequest(), "203.0.113.10")
	require.NoError(t, err)
	return created.ID
}

// expireContent 将指定帖子（及其评论）的到期时间改到过去。
func expireContent(t *testing.T, env *serviceEnv, postID uint64) {
	t.Helper()
	past := time.Now().Add(-time.Hour)
	require.NoError(t, env.db.Model(&entities.Post{}).Where("id = ?", postID).
		UpdateColumn("expires_at", past).Error)
	require.NoError(t, env.db.Model(&entities.Comment{}).Where("post_id = ?", postID).
		UpdateColumn("expires_at", past).Error)
}
