package entities

import (
	"time"

	"github.com/Xushengqwer/go-common/models/entities"

	"github.com/Xushengqwer/anon_forum_service/constant"
)

// Post 匿名帖子实体
// - 使用场景: 论坛列表页与详情页的数据载体，正文以密文三元组落库
// - 表名: posts (GORM 默认使用结构体名复数形式)
// - 软删除: BaseModel 内嵌 DeletedAt，删除操作只打标记，物理清除由清理任务完成
type Post struct {
	entities.BaseModel // 嵌入自定义的 BaseModel ,包含 ID, CreatedAt, UpdatedAt, DeletedAt，支持软删除

	// 匿名展示名，创建时生成一次，之后不可变
	// - 格式: <词表前缀><四位数字>，例如 "Shadow4821"
	// - 不保证唯一，仅做展示用途，不构成身份命名空间
	AnonID string `gorm:"type:varchar(20);not null"`

	// 标题，净化后长度 3-200 字符，明文存储（标题不加密）
	Title string `gorm:"type:varchar(200);not null"`

	// 正文密文三元组: Ciphertext / IV / AuthTag，均为十六进制编码
	// - 加密前明文长度 10-5000 字符
	// - 每次加密生成新的随机 IV，绝不复用
	// - AuthTag 由 AEAD 产出，解密时校验不过即认为数据损坏
	Ciphertext string `gorm:"type:text;not null"`
	IV         string `gorm:"type:varchar(32);not null"`
	AuthTag    string `gorm:"type:varchar(32);not null"`

	// 版块，固定枚举 {general, tech, crypto, society, random, confession, question}
	Category constant.Category `gorm:"type:varchar(20);not null;index"`

	// 标签，最多 5 个，单个不超过 50 字符，仅允许字母数字/空格/连字符
	// - 使用 GORM 的 JSON 序列化器落库，避免额外关联表
	Tags []string `gorm:"type:json;serializer:json"`

	// 点赞数，只增不减。无同源去重保证，防刷依赖点赞限流窗口
	Likes uint64 `gorm:"type:bigint;not null;default:0"`

	// 非删除状态评论的数量，随评论创建/删除做原子增减维护，不做全表重算
	CommentCount uint64 `gorm:"type:bigint;not null;default:0"`

	// 提交来源的加盐单向散列（SHA-256 hex），仅用于滥用信号关联，不可逆推原地址
	IPHash string `gorm:"type:char(64);not null"`

	// 到期时间 = 创建时间 + 固定存活期（默认 7 天），创建时一次性固定，之后不可变
	// - 查询层始终过滤 expires_at，过期内容在被物理清除之前也不可读
	ExpiresAt time.Time `gorm:"not null;index"`

	// 举报累计数与自动隐藏标记
	// - FlagCount 达到阈值（帖子为 5）时 IsFlagged 置位，置位后不可逆
	FlagCount uint64 `gorm:"type:bigint;not null;default:0"`
	IsFlagged bool   `gorm:"not null;default:false;index"`
}
