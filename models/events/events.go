package events

import "time"

// 本包定义服务发出/消费的 Kafka 事件结构。
// 事件只携带内容的元数据（ID、类别、计数），绝不携带明文正文或原始地址。

// ContentKind 标识事件涉及的内容类型。
type ContentKind string

const (
	KindPost    ContentKind = "post"
	KindComment ContentKind = "comment"
)

// ContentFlaggedEvent 在内容的举报计数达到阈值、被自动隐藏的那一次举报时发出。
// 下游（人工复审服务）据此决定是否下达下架指令。
type ContentFlaggedEvent struct {
	EventID   string      `json:"event_id"`
	Timestamp time.Time   `json:"timestamp"`
	Kind      ContentKind `json:"kind"`
	ContentID uint64      `json:"content_id"`
	FlagCount uint64      `json:"flag_count"`
}

// PostDeletedEvent 在帖子被软删除时发出。
type PostDeletedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	PostID    uint64    `json:"post_id"`
}

// ContentPurgedEvent 在清理任务完成一轮物理删除后发出，便于下游同步移除索引。
type ContentPurgedEvent struct {
	EventID         string    `json:"event_id"`
	Timestamp       time.Time `json:"timestamp"`
	PostsPurged     int64     `json:"posts_purged"`
	CommentsPurged  int64     `json:"comments_purged"`
	SweepDurationMS int64     `json:"sweep_duration_ms"`
}

// ModerationTakedownEvent 是外部复审服务下达的下架指令。
// 本服务消费该事件并对目标内容执行软删除。
type ModerationTakedownEvent struct {
	EventID   string      `json:"event_id"`
	Timestamp time.Time   `json:"timestamp"`
	Kind      ContentKind `json:"kind"`
	ContentID uint64      `json:"content_id"`
	Reason    string      `json:"reason"`
}
