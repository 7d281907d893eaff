package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/anon_forum_service/constant"
	"github.com/Xushengqwer/anon_forum_service/models/dto"
	"github.com/Xushengqwer/anon_forum_service/models/events"
	"github.com/Xushengqwer/anon_forum_service/myErrors"
)

func TestModerationService_LikePost(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	postID := createTestPost(t, env)

	result, err := env.moderationSvc.LikePost(ctx, postID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.Likes)

	result, err = env.moderationSvc.LikePost(ctx, postID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.Likes)

	// 榜单分数同步累加。
	assert.Equal(t, 2, env.trending.scores[postID])

	// 不可见帖子不可点赞。
	_, err = env.moderationSvc.LikePost(ctx, 999999)
	assert.ErrorIs(t, err, myErrors.ErrNotFoundOrExpired)
}

func TestModerationService_FlagPost_ThresholdFlip(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	postID := createTestPost(t, env)

	// 阈值之前：只累加，不隐藏，不动榜单。
	for i := 1; i < constant.PostFlagThreshold; i++ {
		result, err := env.moderationSvc.FlagPost(ctx, postID)
		require.NoError(t, err)
		assert.EqualValues(t, i, result.FlagCount)
		assert.False(t, result.Flagged)
	}
	assert.Empty(t, env.trending.removedIDs())

	// 第 5 次举报触发置位并移出榜单。
	result, err := env.moderationSvc.FlagPost(ctx, postID)
	require.NoError(t, err)
	assert.EqualValues(t, constant.PostFlagThreshold, result.FlagCount)
	assert.True(t, result.Flagged)
	assert.Equal(t, []uint64{postID}, env.trending.removedIDs())

	// 隐藏后详情页与不存在不可区分。
	_, err = env.postSvc.GetPostByID(ctx, postID)
	assert.ErrorIs(t, err, myErrors.ErrNotFoundOrExpired)

	// 对已隐藏的帖子继续举报：计数继续涨，榜单不再重复移除。
	result, err = env.moderationSvc.FlagPost(ctx, postID)
	require.NoError(t, err)
	assert.EqualValues(t, constant.PostFlagThreshold+1, result.FlagCount)
	assert.True(t, result.Flagged)
	assert.Len(t, env.trending.removedIDs(), 1)
}

func TestModerationService_FlagComment_ThresholdFlip(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	postID := createTestPost(t, env)
	created, err := env.commentSvc.CreateComment(ctx, postID,
		&dto.CreateCommentRequest{Content: "将被举报到隐藏的评论"}, "198.51.100.7")
	require.NoError(t, err)

	for i := 1; i < constant.CommentFlagThreshold; i++ {
		result, err := env.moderationSvc.FlagComment(ctx, created.ID)
		require.NoError(t, err)
		assert.EqualValues(t, i, result.FlagCount)
		assert.False(t, result.Flagged)
	}

	result, err := env.moderationSvc.FlagComment(ctx, created.ID)
	require.NoError(t, err)
	assert.EqualValues(t, constant.CommentFlagThreshold, result.FlagCount)
	assert.True(t, result.Flagged)

	// 隐藏的评论不再出现在列表中，总数同步减少。
	page, err := env.commentSvc.ListComments(ctx, postID, &dto.ListCommentsRequest{})
	require.NoError(t, err)
	assert.Empty(t, page.Comments)
	assert.Zero(t, page.Total)
}

func TestModerationService_Takedown_Post(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	postID := createTestPost(t, env)

	require.NoError(t, env.moderationSvc.Takedown(ctx, events.KindPost, postID, "复审确认违规"))
	_, err := env.postSvc.GetPostByID(ctx, postID)
	assert.ErrorIs(t, err, myErrors.ErrNotFoundOrExpired)
	assert.Contains(t, env.trending.removedIDs(), postID)

	// 幂等：重复下架与下架不存在的内容都静默成功。
	assert.NoError(t, env.moderationSvc.Takedown(ctx, events.KindPost, postID, "重复指令"))
	assert.NoError(t, env.moderationSvc.Takedown(ctx, events.KindPost, 999999, "目标不存在"))
}

func TestModerationService_Takedown_FlaggedComment(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	postID := createTestPost(t, env)
	created, err := env.commentSvc.CreateComment(ctx, postID,
		&dto.CreateCommentRequest{Content: "先被自动隐藏再被下架的评论"}, "198.51.100.7")
	require.NoError(t, err)

	// 先举报到自动隐藏，目标对可见性查询已不可见。
	for i := 0; i < constant.CommentFlagThreshold; i++ {
		_, err := env.moderationSvc.FlagComment(ctx, created.ID)
		require.NoError(t, err)
	}

	// 下架必须仍能定位到它，并在同一事务里递减父帖计数。
	require.NoError(t, env.moderationSvc.Takedown(ctx, events.KindComment, created.ID, "复审确认违规"))

	post, err := env.postSvc.GetPostByID(ctx, postID)
	require.NoError(t, err)
	assert.Zero(t, post.CommentCount)

	assert.NoError(t, env.moderationSvc.Takedown(ctx, events.KindComment, created.ID, "重复指令"))
}

func TestModerationService_Takedown_UnknownKind(t *testing.T) {
	env := newServiceEnv(t)
	assert.Error(t, env.moderationSvc.Takedown(context.Background(), "attachment", 1, "未知类型"))
}
