package controller

import (
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/anon_forum_service/constant"
	"github.com/Xushengqwer/anon_forum_service/middleware"
	"github.com/Xushengqwer/anon_forum_service/models/dto"
	"github.com/Xushengqwer/anon_forum_service/service"
)

// CommentController 定义评论控制器的结构体
type CommentController struct {
	commentService service.CommentService
	limiter        *middleware.RateLimiter
}

// NewCommentController 构造函数，用于创建 CommentController 实例
func NewCommentController(commentService service.CommentService, limiter *middleware.RateLimiter) *CommentController {
	return &CommentController{
		commentService: commentService,
		limiter:        limiter,
	}
}

// CreateComment 创建评论
// @Summary      发布匿名评论
// @Description  在指定帖子下发布匿名评论。评论的到期时间继承父帖，父帖不可见时返回 404。
// @Tags         comments (评论)
// @Accept       json
// @Produce      json
// @Param        id path uint64 true "帖子 ID" minimum(1)
// @Param        request body dto.CreateCommentRequest true "评论内容"
// @Success      200 {object} vo.CommentResponseWrapper "创建成功，返回评论详情"
// @Failure      400 {object} vo.ValidationErrorsResponseWrapper "参数校验失败，data 为字段错误列表"
// @Failure      403 {object} vo.BaseResponseWrapper "内容未通过检查"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在或已过期"
// @Failure      429 {object} vo.BaseResponseWrapper "请求过于频繁"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/forum/posts/{id}/comments [post]
func (ctrl *CommentController) CreateComment(c *gin.Context) {
	postID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var reqDTO dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&reqDTO); err != nil {
		respondBindingError(c, err)
		return
	}

	commentVO, err := ctrl.commentService.CreateComment(c.Request.Context(), postID, &reqDTO, c.ClientIP())
	if err != nil {
		respondServiceError(c, err, "发布评论失败")
		return
	}

	response.RespondSuccess(c, commentVO, "评论发布成功")
}

// ListComments 获取帖子评论列表
// @Summary      获取评论列表 (分页)
// @Description  分页获取帖子下的可见评论，按创建时间升序（楼层顺序）。
// @Tags         comments (评论)
// @Produce      json
// @Param        id path uint64 true "帖子 ID" minimum(1)
// @Param        page query int false "页码 (从1开始)" format(int32) minimum(1) default(1)
// @Param        page_size query int false "每页数量" format(int32) minimum(1) maximum(100) default(50)
// @Success      200 {object} vo.ListCommentsPageResponseWrapper "评论列表与总数"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在或已过期"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/forum/posts/{id}/comments [get]
func (ctrl *CommentController) ListComments(c *gin.Context) {
	postID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var reqDTO dto.ListCommentsRequest
	if err := c.ShouldBindQuery(&reqDTO); err != nil {
		respondBindingError(c, err)
		return
	}

	pageVO, err := ctrl.commentService.ListComments(c.Request.Context(), postID, &reqDTO)
	if err != nil {
		respondServiceError(c, err, "获取评论列表失败")
		return
	}

	response.RespondSuccess(c, pageVO, "评论列表获取成功")
}

// DeleteComment 删除评论
// @Summary      删除评论
// @Description  对评论执行软删除，并同步递减父帖的评论计数。
// @Tags         comments (评论)
// @Produce      json
// @Param        commentId path uint64 true "评论 ID" minimum(1)
// @Success      200 {object} vo.BaseResponseWrapper "删除成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的评论 ID"
// @Failure      404 {object} vo.BaseResponseWrapper "评论不存在或已过期"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/forum/comments/{commentId} [delete]
func (ctrl *CommentController) DeleteComment(c *gin.Context) {
	commentID, ok := parseNamedIDParam(c, "commentId")
	if !ok {
		return
	}

	if err := ctrl.commentService.DeleteComment(c.Request.Context(), commentID); err != nil {
		respondServiceError(c, err, "删除评论失败")
		return
	}

	response.RespondSuccess[any](c, nil, "评论删除成功")
}

// RegisterRoutes 注册评论相关路由，发评论路由挂上独立限流窗口与请求体上限。
func (ctrl *CommentController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/posts/:id/comments", ctrl.ListComments)
	group.POST("/posts/:id/comments",
		middleware.BodyLimitMiddleware(commentBodyLimit),
		ctrl.limiter.ScopeByName(constant.RateScopeCreateComment),
		ctrl.CreateComment,
	)
	group.DELETE("/comments/:commentId", ctrl.DeleteComment)
}
