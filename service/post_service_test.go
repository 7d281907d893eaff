package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/anon_forum_service/constant"
	"github.com/Xushengqwer/anon_forum_service/models/dto"
	"github.com/Xushengqwer/anon_forum_service/models/entities"
	"github.com/Xushengqwer/anon_forum_service/myErrors"
	"github.com/Xushengqwer/anon_forum_service/security"
)

func TestPostService_CreateAndGet(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	req := validCreatePostRequest()
	created, err := env.postSvc.CreatePost(ctx, req, "203.0.113.10")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.NotEmpty(t, created.AnonID)
	assert.Equal(t, req.Title, created.Title)
	assert.Equal(t, req.Content, created.Content)
	assert.Equal(t, constant.CategoryGeneral, created.Category)

	// 到期时间 = 创建时间 + 默认存活期（7 天）。
	expectTTL := 7 * 24 * time.Hour
	assert.WithinDuration(t, time.Now().Add(expectTTL), created.ExpiresAt, time.Minute)

	// 落库的是密文，不是明文。
	var raw entities.Post
	require.NoError(t, env.db.First(&raw, created.ID).Error)
	assert.NotContains(t, raw.Ciphertext, req.Content)
	assert.NotEmpty(t, raw.IV)
	assert.NotEmpty(t, raw.AuthTag)
	// 原始地址不落库，只有加盐散列。
	assert.Len(t, raw.IPHash, 64)
	assert.NotContains(t, raw.IPHash, "203.0.113.10")

	// 详情页解密还原正文。
	got, err := env.postSvc.GetPostByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, req.Content, got.Content)
}

func TestPostService_CreatePost_ValidationAfterSanitize(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	// 标签剥离后标题只剩 2 个字符，低于下限；同请求内正文也过短。
	// 两个字段的失败要一次性全部返回。
	req := &dto.CreatePostRequest{
		Title:    "<b>Hi</b>",
		Content:  "<i>太短了</i>",
		Category: string(constant.CategoryGeneral),
	}
	_, err := env.postSvc.CreatePost(ctx, req, "203.0.113.10")
	var vErr *myErrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Fields, 2)
}

func TestPostService_CreatePost_SpamRejected(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	req := validCreatePostRequest()
	req.Content = "限时优惠" + strings.Repeat("！", 15) + "错过不再有"
	_, err := env.postSvc.CreatePost(ctx, req, "203.0.113.10")
	assert.ErrorIs(t, err, myErrors.ErrSpamContent)
}

func TestPostService_CreatePost_SpamRejected_MarkupHiddenURLs(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	// URL 全部藏在 a 标签的 href 属性里，净化后的文本一个 URL 都不剩。
	// 垃圾启发式扫的是原始输入，剥离标记不能成为绕过手段。
	req := validCreatePostRequest()
	req.Content = `点击 <a href="https://spam-a.example/x">这里</a> 或 <a href="https://spam-b.example/x">这里</a> 或 <a href="https://spam-c.example/x">这里</a> 马上抢购`
	_, err := env.postSvc.CreatePost(ctx, req, "203.0.113.10")
	assert.ErrorIs(t, err, myErrors.ErrSpamContent)

	var count int64
	require.NoError(t, env.db.Model(&entities.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPostService_CreatePost_PolicyRejected(t *testing.T) {
	env := newServiceEnv(t, "buy followers")
	ctx := context.Background()

	req := validCreatePostRequest()
	req.Content = "Great place to BUY FOLLOWERS cheap, everyone should try it"
	_, err := env.postSvc.CreatePost(ctx, req, "203.0.113.10")
	assert.ErrorIs(t, err, myErrors.ErrPolicyViolation)
}

func TestPostService_GetPostByID_NotFoundOrExpired(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	_, err := env.postSvc.GetPostByID(ctx, 999999)
	assert.ErrorIs(t, err, myErrors.ErrNotFoundOrExpired)

	// 过期后与不存在不可区分。
	postID := createTestPost(t, env)
	expireContent(t, env, postID)
	_, err = env.postSvc.GetPostByID(ctx, postID)
	assert.ErrorIs(t, err, myErrors.ErrNotFoundOrExpired)
}

func TestPostService_GetPostByID_DecryptFallback(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	postID := createTestPost(t, env)

	// 直接破坏密文，详情页以占位串兜底而不是报错。
	require.NoError(t, env.db.Model(&entities.Post{}).Where("id = ?", postID).
		UpdateColumn("ciphertext", "00ff00ff").Error)

	got, err := env.postSvc.GetPostByID(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, security.DecryptFallback, got.Content)
}

func TestPostService_ListPosts(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		createTestPost(t, env)
	}

	req := &dto.ListPostsRequest{PageSize: 2}
	page, err := env.postSvc.ListPosts(ctx, req)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Len(t, page.Posts, 2)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.PageSize)
}

func TestPostService_GetTrendingPosts(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	first := createTestPost(t, env)
	second := createTestPost(t, env)
	hidden := createTestPost(t, env)
	expireContent(t, env, hidden)

	// 榜单顺序即返回顺序；已不可见的成员被静默跳过。
	env.trending.topN = []uint64{second, hidden, first}

	got, err := env.postSvc.GetTrendingPosts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got.Posts, 2)
	assert.Equal(t, second, got.Posts[0].ID)
	assert.Equal(t, first, got.Posts[1].ID)
}

func TestPostService_DeletePost(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	postID := createTestPost(t, env)
	require.NoError(t, env.postSvc.DeletePost(ctx, postID))

	_, err := env.postSvc.GetPostByID(ctx, postID)
	assert.ErrorIs(t, err, myErrors.ErrNotFoundOrExpired)
	assert.Contains(t, env.trending.removedIDs(), postID)

	// 重复删除报不存在。
	assert.ErrorIs(t, env.postSvc.DeletePost(ctx, postID), myErrors.ErrNotFoundOrExpired)
}
