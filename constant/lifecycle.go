package constant

// 内容生命周期与审核相关的固定参数。
const (
	// PostFlagThreshold 帖子被举报达到该次数后自动隐藏（is_flagged 置位，不可逆）。
	PostFlagThreshold = 5
	// CommentFlagThreshold 评论的自动隐藏阈值，低于帖子。
	CommentFlagThreshold = 3

	// TitleMinLen / TitleMaxLen 标题净化后的长度边界（字符数）。
	TitleMinLen = 3
	TitleMaxLen = 200
	// PostContentMinLen / PostContentMaxLen 帖子正文加密前的明文长度边界。
	PostContentMinLen = 10
	PostContentMaxLen = 5000
	// CommentContentMinLen / CommentContentMaxLen 评论正文的明文长度边界。
	CommentContentMinLen = 1
	CommentContentMaxLen = 2000

	// MaxTags 每个帖子最多携带的标签数。
	MaxTags = 5
	// MaxTagLen 单个标签的最大长度。
	MaxTagLen = 50
)
