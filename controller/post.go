package controller

import (
	"net/http"
	"strconv"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/anon_forum_service/constant"
	"github.com/Xushengqwer/anon_forum_service/middleware"
	"github.com/Xushengqwer/anon_forum_service/models/dto"
	"github.com/Xushengqwer/anon_forum_service/service"
)

// 请求体大小上限：发帖 50KB，评论 10KB。
const (
	postBodyLimit    = 50 << 10
	commentBodyLimit = 10 << 10
)

// 热度榜单固定返回前 10 条。
const trendingTopN = 10

// PostController 定义帖子控制器的结构体
type PostController struct {
	postService service.PostService
	limiter     *middleware.RateLimiter
}

// NewPostController 构造函数，用于创建 PostController 实例
func NewPostController(postService service.PostService, limiter *middleware.RateLimiter) *PostController {
	return &PostController{
		postService: postService,
		limiter:     limiter,
	}
}

// CreatePost 创建匿名帖子
// @Summary      发布匿名帖子
// @Description  发布一篇匿名帖子。正文加密存储，创建时生成一次性匿名展示名，内容在固定存活期后自动消失。
// @Tags         posts (帖子)
// @Accept       json
// @Produce      json
// @Param        request body dto.CreatePostRequest true "帖子内容"
// @Success      200 {object} vo.PostResponseWrapper "创建成功，返回帖子详情"
// @Failure      400 {object} vo.ValidationErrorsResponseWrapper "参数校验失败，data 为字段错误列表"
// @Failure      403 {object} vo.BaseResponseWrapper "内容未通过检查"
// @Failure      429 {object} vo.BaseResponseWrapper "请求过于频繁"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/forum/posts [post]
func (ctrl *PostController) CreatePost(c *gin.Context) {
	var reqDTO dto.CreatePostRequest
	if err := c.ShouldBindJSON(&reqDTO); err != nil {
		respondBindingError(c, err)
		return
	}

	postVO, err := ctrl.postService.CreatePost(c.Request.Context(), &reqDTO, c.ClientIP())
	if err != nil {
		respondServiceError(c, err, "发布帖子失败")
		return
	}

	response.RespondSuccess(c, postVO, "帖子发布成功")
}

// GetPostByID 获取帖子详情
// @Summary      获取帖子详情
// @Description  按 ID 获取单个帖子，正文解密后返回。过期、被隐藏或不存在的帖子一律返回 404。
// @Tags         posts (帖子)
// @Produce      json
// @Param        id path uint64 true "帖子 ID" minimum(1)
// @Success      200 {object} vo.PostResponseWrapper "帖子详情"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的帖子 ID"
// @Failure      404 {object} vo.BaseResponseWrapper "内容不存在或已过期"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/forum/posts/{id} [get]
func (ctrl *PostController) GetPostByID(c *gin.Context) {
	postID, ok := parseIDParam(c)
	if !ok {
		return
	}

	postVO, err := ctrl.postService.GetPostByID(c.Request.Context(), postID)
	if err != nil {
		respondServiceError(c, err, "获取帖子详情失败")
		return
	}

	response.RespondSuccess(c, postVO, "帖子详情获取成功")
}

// ListPosts 获取帖子列表
// @Summary      获取帖子列表 (分页)
// @Description  分页获取可见帖子摘要（不含正文），支持按版块过滤与排序。
// @Tags         posts (帖子)
// @Produce      json
// @Param        page query int false "页码 (从1开始)" format(int32) minimum(1) default(1)
// @Param        page_size query int false "每页数量" format(int32) minimum(1) maximum(50) default(20)
// @Param        category query string false "版块过滤" Enums(general,tech,crypto,society,random,confession,question)
// @Param        sort_by query string false "排序字段" Enums(created_at,likes,comment_count) default(created_at)
// @Success      200 {object} vo.ListPostsPageResponseWrapper "帖子列表与总数"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的查询参数"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/forum/posts [get]
func (ctrl *PostController) ListPosts(c *gin.Context) {
	var reqDTO dto.ListPostsRequest
	if err := c.ShouldBindQuery(&reqDTO); err != nil {
		respondBindingError(c, err)
		return
	}

	pageVO, err := ctrl.postService.ListPosts(c.Request.Context(), &reqDTO)
	if err != nil {
		respondServiceError(c, err, "获取帖子列表失败")
		return
	}

	response.RespondSuccess(c, pageVO, "帖子列表获取成功")
}

// GetTrendingPosts 获取热度榜单
// @Summary      获取热度榜单
// @Description  返回按累计点赞降序的前 10 篇可见帖子摘要。
// @Tags         posts (帖子)
// @Produce      json
// @Success      200 {object} vo.TrendingPostsResponseWrapper "热度榜单"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/forum/posts/trending [get]
func (ctrl *PostController) GetTrendingPosts(c *gin.Context) {
	trendingVO, err := ctrl.postService.GetTrendingPosts(c.Request.Context(), trendingTopN)
	if err != nil {
		respondServiceError(c, err, "获取热度榜单失败")
		return
	}

	response.RespondSuccess(c, trendingVO, "热度榜单获取成功")
}

// DeletePost 删除帖子
// @Summary      删除帖子
// @Description  对帖子执行软删除。匿名模型下没有所有权校验，删除接口受限流保护。
// @Tags         posts (帖子)
// @Produce      json
// @Param        id path uint64 true "帖子 ID" minimum(1)
// @Success      200 {object} vo.BaseResponseWrapper "删除成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的帖子 ID"
// @Failure      404 {object} vo.BaseResponseWrapper "内容不存在或已过期"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/forum/posts/{id} [delete]
func (ctrl *PostController) DeletePost(c *gin.Context) {
	postID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.postService.DeletePost(c.Request.Context(), postID); err != nil {
		respondServiceError(c, err, "删除帖子失败")
		return
	}

	response.RespondSuccess[any](c, nil, "帖子删除成功")
}

// parseIDParam 解析路径中的 :id 参数，失败时直接写出 400 响应。
func parseIDParam(c *gin.Context) (uint64, bool) {
	return parseNamedIDParam(c, "id")
}

// parseNamedIDParam 解析指定名称的路径 ID 参数。
func parseNamedIDParam(c *gin.Context, name string) (uint64, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的 ID 格式")
		return 0, false
	}
	return id, true
}

// RegisterRoutes 注册帖子相关路由，发帖路由挂上独立限流窗口与请求体上限。
func (ctrl *PostController) RegisterRoutes(group *gin.RouterGroup) {
	posts := group.Group("/posts")
	{
		posts.GET("", ctrl.ListPosts)
		posts.GET("/trending", ctrl.GetTrendingPosts)
		posts.GET("/:id", ctrl.GetPostByID)
		posts.POST("",
			middleware.BodyLimitMiddleware(postBodyLimit),
			ctrl.limiter.ScopeByName(constant.RateScopeCreatePost),
			ctrl.CreatePost,
		)
		posts.DELETE("/:id", ctrl.DeletePost)
	}
}
