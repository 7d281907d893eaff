package dto

// CreatePostRequest 定义了创建匿名帖子的请求数据结构
// - binding 标签只做形状校验；版块枚举、标签字符集等领域规则
//   由注册到 Gin 校验引擎的自定义校验器完成
// - 字段校验失败不短路：控制器收集全部字段错误后一次性返回
type CreatePostRequest struct {
	Title    string   `json:"title" form:"title" binding:"required,min=3,max=200"`                    // 标题，必填，3-200 字符
	Content  string   `json:"content" form:"content" binding:"required,min=10,max=5000"`              // 正文明文，必填，10-5000 字符，落库前加密
	Category string   `json:"category" form:"category" binding:"required,forum_category"`             // 版块，必填，固定枚举
	Tags     []string `json:"tags" form:"tags" binding:"omitempty,max=5,dive,max=50,forum_tagchars"`  // 标签，可选，最多 5 个，单个不超 50 字符
}

// ListPostsRequest 定义分页查询帖子列表的请求数据结构（页码分页）
type ListPostsRequest struct {
	Page     int    `json:"page" form:"page" binding:"omitempty,gte=1"`                                        // 页码，从 1 开始，缺省为 1
	PageSize int    `json:"page_size" form:"page_size" binding:"omitempty,gte=1,lte=50"`                       // 每页数量，缺省为 20，上限 50
	Category string `json:"category" form:"category" binding:"omitempty,forum_category"`                       // 可选，按版块过滤
	SortBy   string `json:"sort_by" form:"sort_by" binding:"omitempty,oneof=created_at likes comment_count"`   // 排序字段，缺省按创建时间
}

// Normalize 为缺省分页参数补齐默认值。
func (r *ListPostsRequest) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = 20
	}
	if r.SortBy == "" {
		r.SortBy = "created_at"
	}
}
