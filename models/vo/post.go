package vo

import (
	"time"

	"github.com/Xushengqwer/anon_forum_service/constant"
	"github.com/Xushengqwer/anon_forum_service/models/entities"
)

// PostVO 定义了帖子对外展示的响应数据结构
// - Content 字段是解密后的明文；解密失败时为占位串，不会向读者暴露错误
// - 不携带 IPHash、密文三元组等内部字段
type PostVO struct {
	ID           uint64            `json:"id"`            // 帖子ID
	AnonID       string            `json:"anon_id"`       // 匿名展示名
	Title        string            `json:"title"`         // 标题
	Content      string            `json:"content"`       // 解密后的正文
	Category     constant.Category `json:"category"`      // 版块
	Tags         []string          `json:"tags"`          // 标签列表
	Likes        uint64            `json:"likes"`         // 点赞数
	CommentCount uint64            `json:"comment_count"` // 评论数
	CreatedAt    time.Time         `json:"created_at"`    // 创建时间
	ExpiresAt    time.Time         `json:"expires_at"`    // 到期时间
}

// PostSummaryVO 是列表页使用的帖子摘要，不含正文。
// - 列表页不逐条解密正文，既省去无谓的解密开销，也避免超长响应
type PostSummaryVO struct {
	ID           uint64            `json:"id"`
	AnonID       string            `json:"anon_id"`
	Title        string            `json:"title"`
	Category     constant.Category `json:"category"`
	Tags         []string          `json:"tags"`
	Likes        uint64            `json:"likes"`
	CommentCount uint64            `json:"comment_count"`
	CreatedAt    time.Time         `json:"created_at"`
	ExpiresAt    time.Time         `json:"expires_at"`
}

// ListPostsPageVO 定义了帖子列表分页查询的响应结构。
type ListPostsPageVO struct {
	Posts    []*PostSummaryVO `json:"posts"`     // 当前页的帖子摘要列表
	Total    int64            `json:"total"`     // 符合条件的总记录数
	Page     int              `json:"page"`      // 当前页码
	PageSize int              `json:"page_size"` // 每页数量
}

// TrendingPostsVO 定义了热度榜单的响应结构。
type TrendingPostsVO struct {
	Posts []*PostSummaryVO `json:"posts"` // 按热度降序排列
}

// MapPostToSummaryVO 将帖子实体转换为列表摘要 VO。
func MapPostToSummaryVO(post *entities.Post) *PostSummaryVO {
	tags := post.Tags
	if tags == nil {
		tags = []string{} // 返回空切片而不是 nil，便于前端处理
	}
	return &PostSummaryVO{
		ID:           post.ID,
		AnonID:       post.AnonID,
		Title:        post.Title,
		Category:     post.Category,
		Tags:         tags,
		Likes:        post.Likes,
		CommentCount: post.CommentCount,
		CreatedAt:    post.CreatedAt,
		ExpiresAt:    post.ExpiresAt,
	}
}

// MapPostsToSummaryVOs 批量转换帖子实体列表。
func MapPostsToSummaryVOs(posts []*entities.Post) []*PostSummaryVO {
	if len(posts) == 0 {
		return []*PostSummaryVO{}
	}
	out := make([]*PostSummaryVO, 0, len(posts))
	for _, p := range posts {
		if p == nil {
			continue
		}
		out = append(out, MapPostToSummaryVO(p))
	}
	return out
}

// MapPostToVO 将帖子实体与解密后的正文组装为详情 VO。
func MapPostToVO(post *entities.Post, plaintext string) *PostVO {
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}
	return &PostVO{
		ID:           post.ID,
		AnonID:       post.AnonID,
		Title:        post.Title,
		Content:      plaintext,
		Category:     post.Category,
		Tags:         tags,
		Likes:        post.Likes,
		CommentCount: post.CommentCount,
		CreatedAt:    post.CreatedAt,
		ExpiresAt:    post.ExpiresAt,
	}
}
