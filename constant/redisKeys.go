package constant

// Redis Key 相关常量 (导出)
const (
	// --- Key 前缀 (用于动态生成 Key) ---

	// RateLimitKeyPrefix 是限流计数器的 Key 前缀。
	// 完整 Key 形如 "rl:create_post:<clientKey>"，其中 clientKey 是
	// 地址+UA 的加盐散列，scope 是限流作用域名称。
	// Redis 类型: String (INCR 计数)，由 EXPIRE 绑定固定窗口。
	RateLimitKeyPrefix = "rl:"

	// SlowDownKey 复用全局限流计数器（scope = RateScopeGlobal），
	// 减速策略直接读取其当前计数，不单独维护 Key。

	// --- 限流作用域名称（拼入 Key，也用于配置映射） ---

	RateScopeGlobal        = "global"
	RateScopeCreatePost    = "create_post"
	RateScopeCreateComment = "create_comment"
	RateScopeLike          = "like"
	RateScopeFlag          = "flag"

	// --- 固定 Key 名称 (全局使用的 Key) ---

	// TrendingPostsKey 是热度榜单的 Key 名称。
	// Sorted Set：成员为帖子 ID，分数为累计点赞数。点赞时 ZINCRBY，
	// 帖子被删除或清理时移除成员。
	// Redis 类型: Sorted Set
	TrendingPostsKey = "trending_posts"
)
