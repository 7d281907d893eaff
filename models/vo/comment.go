package vo

import (
	"time"
)

// CommentVO 定义了评论对外展示的响应数据结构。
type CommentVO struct {
	ID        uint64    `json:"id"`
	PostID    uint64    `json:"post_id"`
	AnonID    string    `json:"anon_id"`
	Content   string    `json:"content"` // 解密后的正文，解密失败时为占位串
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ListCommentsPageVO 定义了评论列表分页查询的响应结构。
type ListCommentsPageVO struct {
	Comments []*CommentVO `json:"comments"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// FlagResultVO 定义了举报操作的响应结构。
// - Flagged 为 true 表示内容已达到阈值被自动隐藏；后续举报不会翻转该状态
type FlagResultVO struct {
	FlagCount uint64 `json:"flag_count"` // 当前累计举报数
	Flagged   bool   `json:"flagged"`    // 是否已自动隐藏
}

// LikeResultVO 定义了点赞操作的响应结构。
type LikeResultVO struct {
	Likes uint64 `json:"likes"` // 点赞后的计数
}
