package vo

import "github.com/Xushengqwer/anon_forum_service/myErrors"

// --- 用于成功响应且包含具体 Data 的包装器 ---

// PostResponseWrapper 对应 response.APIResponse[vo.PostVO]
type PostResponseWrapper struct {
	Code    int    `json:"code" example:"0"`
	Message string `json:"message,omitempty" example:"success"`
	Data    PostVO `json:"data"`
}

// ListPostsPageResponseWrapper 对应 response.APIResponse[vo.ListPostsPageVO]
type ListPostsPageResponseWrapper struct {
	Code    int             `json:"code" example:"0"`
	Message string          `json:"message,omitempty" example:"success"`
	Data    ListPostsPageVO `json:"data"`
}

// TrendingPostsResponseWrapper 对应 response.APIResponse[vo.TrendingPostsVO]
type TrendingPostsResponseWrapper struct {
	Code    int             `json:"code" example:"0"`
	Message string          `json:"message,omitempty" example:"success"`
	Data    TrendingPostsVO `json:"data"`
}

// CommentResponseWrapper 对应 response.APIResponse[vo.CommentVO]
type CommentResponseWrapper struct {
	Code    int       `json:"code" example:"0"`
	Message string    `json:"message,omitempty" example:"success"`
	Data    CommentVO `json:"data"`
}

// ListCommentsPageResponseWrapper 对应 response.APIResponse[vo.ListCommentsPageVO]
type ListCommentsPageResponseWrapper struct {
	Code    int                `json:"code" example:"0"`
	Message string             `json:"message,omitempty" example:"success"`
	Data    ListCommentsPageVO `json:"data"`
}

// FlagResultResponseWrapper 对应 response.APIResponse[vo.FlagResultVO]
type FlagResultResponseWrapper struct {
	Code    int          `json:"code" example:"0"`
	Message string       `json:"message,omitempty" example:"success"`
	Data    FlagResultVO `json:"data"`
}

// LikeResultResponseWrapper 对应 response.APIResponse[vo.LikeResultVO]
type LikeResultResponseWrapper struct {
	Code    int          `json:"code" example:"0"`
	Message string       `json:"message,omitempty" example:"success"`
	Data    LikeResultVO `json:"data"`
}

// --- 用于错误响应 或 简单成功响应（只有 Code 和 Message） ---

// BaseResponseWrapper 代表一个只包含 Code 和 Message 的响应。
// 适用于错误情况（RespondError 返回时 Data 为 nil 且 omitempty）
// 或某些成功操作（如 DELETE）可能也只返回 Code 和 Message。
type BaseResponseWrapper struct {
	Code    int    `json:"code" example:"0"`          // 成功时为 0, 错误时为具体错误码
	Message string `json:"message" example:"success"` // 成功或错误消息
}

// ValidationErrorsResponseWrapper 代表字段校验失败的 400 响应。
// Data 是机器可读的 {field, message} 数组，供客户端逐字段提示。
type ValidationErrorsResponseWrapper struct {
	Code    int                   `json:"code" example:"1001"`
	Message string                `json:"message" example:"参数校验失败: title: 长度不足，最少 3 字符"`
	Data    []myErrors.FieldError `json:"data"`
}
