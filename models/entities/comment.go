package entities

import (
	"time"

	"github.com/Xushengqwer/go-common/models/entities"
)

// Comment 匿名评论实体
// - 表名: comments
// - 关系: 多对一关联 Post，创建时父帖必须存在且未过期
type Comment struct {
	entities.BaseModel // 嵌入自定义的 BaseModel ,包含 ID, CreatedAt, UpdatedAt, DeletedAt，支持软删除

	// 所属帖子 ID
	// - GORM 标签: index 支持按帖子拉取评论列表。不建外键约束，
	//   孤儿由清理任务的删除顺序保证：先物理删除评论，再删除帖子
	PostID uint64 `gorm:"type:bigint;not null;index"`

	// 匿名展示名，与帖子的展示名相互独立（无身份连续性）
	AnonID string `gorm:"type:varchar(20);not null"`

	// 正文密文三元组，加密前明文长度 1-2000 字符
	Ciphertext string `gorm:"type:text;not null"`
	IV         string `gorm:"type:varchar(32);not null"`
	AuthTag    string `gorm:"type:varchar(32);not null"`

	// 提交来源的加盐单向散列
	IPHash string `gorm:"type:char(64);not null"`

	// 到期时间在创建时从父帖复制，评论存活期永不超过父帖
	ExpiresAt time.Time `gorm:"not null;index"`

	// 举报累计数与自动隐藏标记，评论阈值为 3，置位后不可逆
	FlagCount uint64 `gorm:"type:bigint;not null;default:0"`
	IsFlagged bool   `gorm:"not null;default:false;index"`
}
