package controller

import (
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/anon_forum_service/constant"
	"github.com/Xushengqwer/anon_forum_service/middleware"
	"github.com/Xushengqwer/anon_forum_service/service"
)

// ModerationController 定义点赞与举报的控制器结构体
type ModerationController struct {
	moderationService service.ModerationService
	limiter           *middleware.RateLimiter
}

// NewModerationController 构造函数，用于创建 ModerationController 实例
func NewModerationController(moderationService service.ModerationService, limiter *middleware.RateLimiter) *ModerationController {
	return &ModerationController{
		moderationService: moderationService,
		limiter:           limiter,
	}
}

// LikePost 帖子点赞
// @Summary      帖子点赞
// @Description  对可见帖子点赞，返回点赞后的计数。计数只增不减；同源重复点赞由限流窗口约束。
// @Tags         moderation (点赞与举报)
// @Produce      json
// @Param        id path uint64 true "帖子 ID" minimum(1)
// @Success      200 {object} vo.LikeResultResponseWrapper "点赞成功，返回最新计数"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的帖子 ID"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在或已过期"
// @Failure      429 {object} vo.BaseResponseWrapper "请求过于频繁"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/forum/posts/{id}/like [post]
func (ctrl *ModerationController) LikePost(c *gin.Context) {
	postID, ok := parseIDParam(c)
	if !ok {
		return
	}

	likeVO, err := ctrl.moderationService.LikePost(c.Request.Context(), postID)
	if err != nil {
		respondServiceError(c, err, "帖子点赞失败")
		return
	}

	response.RespondSuccess(c, likeVO, "点赞成功")
}

// FlagPost 举报帖子
// @Summary      举报帖子
// @Description  对可见帖子记一次举报。累计达到阈值后帖子被自动隐藏，隐藏不可逆。
// @Tags         moderation (点赞与举报)
// @Produce      json
// @Param        id path uint64 true "帖子 ID" minimum(1)
// @Success      200 {object} vo.FlagResultResponseWrapper "举报成功，返回累计数与隐藏状态"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的帖子 ID"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在或已过期"
// @Failure      429 {object} vo.BaseResponseWrapper "请求过于频繁"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/forum/posts/{id}/flag [post]
func (ctrl *ModerationController) FlagPost(c *gin.Context) {
	postID, ok := parseIDParam(c)
	if !ok {
		return
	}

	flagVO, err := ctrl.moderationService.FlagPost(c.Request.Context(), postID)
	if err != nil {
		respondServiceError(c, err, "帖子举报失败")
		return
	}

	response.RespondSuccess(c, flagVO, "举报已记录")
}

// FlagComment 举报评论
// @Summary      举报评论
// @Description  对可见评论记一次举报。评论的隐藏阈值低于帖子。
// @Tags         moderation (点赞与举报)
// @Produce      json
// @Param        commentId path uint64 true "评论 ID" minimum(1)
// @Success      200 {object} vo.FlagResultResponseWrapper "举报成功，返回累计数与隐藏状态"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的评论 ID"
// @Failure      404 {object} vo.BaseResponseWrapper "评论不存在或已过期"
// @Failure      429 {object} vo.BaseResponseWrapper "请求过于频繁"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/forum/comments/{commentId}/flag [post]
func (ctrl *ModerationController) FlagComment(c *gin.Context) {
	commentID, ok := parseNamedIDParam(c, "commentId")
	if !ok {
		return
	}

	flagVO, err := ctrl.moderationService.FlagComment(c.Request.Context(), commentID)
	if err != nil {
		respondServiceError(c, err, "评论举报失败")
		return
	}

	response.RespondSuccess(c, flagVO, "举报已记录")
}

// RegisterRoutes 注册点赞与举报路由，各自挂上独立的限流窗口。
func (ctrl *ModerationController) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/posts/:id/like",
		ctrl.limiter.ScopeByName(constant.RateScopeLike),
		ctrl.LikePost,
	)
	group.POST("/posts/:id/flag",
		ctrl.limiter.ScopeByName(constant.RateScopeFlag),
		ctrl.FlagPost,
	)
	group.POST("/comments/:commentId/flag",
		ctrl.limiter.ScopeByName(constant.RateScopeFlag),
		ctrl.FlagComment,
	)
}
