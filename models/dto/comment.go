package dto

// CreateCommentRequest 定义了创建评论的请求数据结构
// - PostID 来源于路径参数，不在请求体内
type CreateCommentRequest struct {
	Content string `json:"content" form:"content" binding:"required,min=1,max=2000"` // 评论明文，必填，1-2000 字符
}

// ListCommentsRequest 定义分页查询帖子评论的请求数据结构
type ListCommentsRequest struct {
	Page     int `json:"page" form:"page" binding:"omitempty,gte=1"`
	PageSize int `json:"page_size" form:"page_size" binding:"omitempty,gte=1,lte=100"`
}

// Normalize 为缺省分页参数补齐默认值。
func (r *ListCommentsRequest) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = 50
	}
}
