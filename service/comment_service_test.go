package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/anon_forum_service/models/dto"
	"github.com/Xushengqwer/anon_forum_service/models/entities"
	"github.com/Xushengqwer/anon_forum_service/myErrors"
	"github.com/Xushengqwer/anon_forum_service/security"
)

func TestCommentService_CreateComment(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	postID := createTestPost(t, env)
	parent, err := env.postSvc.GetPostByID(ctx, postID)
	require.NoError(t, err)

	req := &dto.CreateCommentRequest{Content: "同样远程两年了，定期线下聚会很有帮助。"}
	created, err := env.commentSvc.CreateComment(ctx, postID, req, "198.51.100.7")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, postID, created.PostID)
	assert.Equal(t, req.Content, created.Content)
	// 到期时间从父帖复制。
	assert.Equal(t, parent.ExpiresAt.Unix(), created.ExpiresAt.Unix())

	// 父帖评论计数同事务自增。
	updated, err := env.postSvc.GetPostByID(ctx, postID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated.CommentCount)
}

func TestCommentService_CreateComment_ParentNotVisible(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	req := &dto.CreateCommentRequest{Content: "不会被保存的评论内容"}

	_, err := env.commentSvc.CreateComment(ctx, 999999, req, "198.51.100.7")
	assert.ErrorIs(t, err, myErrors.ErrNotFoundOrExpired)

	postID := createTestPost(t, env)
	expireContent(t, env, postID)
	_, err = env.commentSvc.CreateComment(ctx, postID, req, "198.51.100.7")
	assert.ErrorIs(t, err, myErrors.ErrNotFoundOrExpired)
}

func TestCommentService_CreateComment_SanitizedToEmpty(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	postID := createTestPost(t, env)

	// 纯脚本内容净化后为空，长度校验不通过。
	req := &dto.CreateCommentRequest{Content: "<script>alert(1)</script>"}
	_, err := env.commentSvc.CreateComment(ctx, postID, req, "198.51.100.7")
	var vErr *myErrors.ValidationError
	assert.ErrorAs(t, err, &vErr)

	// 计数没有被污染。
	post, err := env.postSvc.GetPostByID(ctx, postID)
	require.NoError(t, err)
	assert.Zero(t, post.CommentCount)
}

func TestCommentService_CreateComment_SpamRejected(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	postID := createTestPost(t, env)

	// 评论的 URL 上限比帖子更严（2 个即拒绝）。
	req := &dto.CreateCommentRequest{
		Content: "看看这两个 https://example.com/a 和 https://example.com/b 的区别",
	}
	_, err := env.commentSvc.CreateComment(ctx, postID, req, "198.51.100.7")
	assert.ErrorIs(t, err, myErrors.ErrSpamContent)
}

func TestCommentService_CreateComment_SpamRejected_MarkupHiddenURLs(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	postID := createTestPost(t, env)

	// URL 藏在 href 属性里，净化后的文本不含任何 URL。
	// 启发式扫原始输入，标记剥离不能成为绕过手段。
	req := &dto.CreateCommentRequest{
		Content: `看我主页 <a href="https://spam-a.example/p">这里</a> 和 <a href="https://spam-b.example/p">这里</a>`,
	}
	_, err := env.commentSvc.CreateComment(ctx, postID, req, "198.51.100.7")
	assert.ErrorIs(t, err, myErrors.ErrSpamContent)

	// 计数没有被污染。
	post, err := env.postSvc.GetPostByID(ctx, postID)
	require.NoError(t, err)
	assert.Zero(t, post.CommentCount)
}

func TestCommentService_ListComments(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	postID := createTestPost(t, env)
	contents := []string{"一楼内容在这里", "二楼内容在这里", "三楼内容在这里"}
	for _, c := range contents {
		_, err := env.commentSvc.CreateComment(ctx, postID, &dto.CreateCommentRequest{Content: c}, "198.51.100.7")
		require.NoError(t, err)
	}

	req := &dto.ListCommentsRequest{}
	page, err := env.commentSvc.ListComments(ctx, postID, req)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	require.Len(t, page.Comments, 3)
	// 楼层正序。
	for i, c := range page.Comments {
		assert.Equal(t, contents[i], c.Content)
	}

	// 父帖不可见时报 404 语义，而不是空列表。
	expireContent(t, env, postID)
	_, err = env.commentSvc.ListComments(ctx, postID, req)
	assert.ErrorIs(t, err, myErrors.ErrNotFoundOrExpired)
}

func TestCommentService_ListComments_DecryptFallback(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	postID := createTestPost(t, env)
	created, err := env.commentSvc.CreateComment(ctx, postID,
		&dto.CreateCommentRequest{Content: "这条评论的密文会被破坏"}, "198.51.100.7")
	require.NoError(t, err)

	require.NoError(t, env.db.Model(&entities.Comment{}).Where("id = ?", created.ID).
		UpdateColumn("ciphertext", "00ff00ff").Error)

	page, err := env.commentSvc.ListComments(ctx, postID, &dto.ListCommentsRequest{})
	require.NoError(t, err)
	require.Len(t, page.Comments, 1)
	assert.Equal(t, security.DecryptFallback, page.Comments[0].Content)
}

func TestCommentService_DeleteComment(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	postID := createTestPost(t, env)
	created, err := env.commentSvc.CreateComment(ctx, postID,
		&dto.CreateCommentRequest{Content: "马上就会被删除的评论"}, "198.51.100.7")
	require.NoError(t, err)

	require.NoError(t, env.commentSvc.DeleteComment(ctx, created.ID))

	// 计数同事务自减。
	post, err := env.postSvc.GetPostByID(ctx, postID)
	require.NoError(t, err)
	assert.Zero(t, post.CommentCount)

	page, err := env.commentSvc.ListComments(ctx, postID, &dto.ListCommentsRequest{})
	require.NoError(t, err)
	assert.Empty(t, page.Comments)

	assert.ErrorIs(t, env.commentSvc.DeleteComment(ctx, created.ID), myErrors.ErrNotFoundOrExpired)
}
