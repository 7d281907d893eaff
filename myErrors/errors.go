package myErrors

import (
	"errors"
	"fmt"
	"time"
)

// 本包定义服务内部的错误分类。仓库层统一返回 commonerrors.ErrRepoNotFound，
// 服务层将其换译为下面的业务错误，控制器再映射为 HTTP 状态码。

// ErrNotFoundOrExpired 表示记录不存在、已过期、已删除或已被隐藏。
// 四种情况对外不可区分，避免泄露审核状态。
var ErrNotFoundOrExpired = errors.New("content: not found or expired")

// ErrSuspiciousInput 表示请求命中了攻击特征（脚本标签、协议前缀、SQL 注入惯用语等）。
// 由攻击特征扫描中间件拒绝请求时挂到请求上下文。对外只返回最少信息，避免帮助探测。
var ErrSuspiciousInput = errors.New("security: suspicious input rejected")

// ErrPolicyViolation 表示内容命中策略拒绝清单（例如推广垃圾短语）。
var ErrPolicyViolation = errors.New("security: content policy violation")

// ErrSpamContent 表示内容命中垃圾内容启发式（重复字符、URL 过多、全大写长串等）。
var ErrSpamContent = errors.New("security: spam pattern detected")

// ErrDecryptionFailed 表示存量密文解密失败（认证标签不匹配或数据损坏）。
// 读路径就地恢复：以占位串替代正文，绝不向读者抛出硬错误。
var ErrDecryptionFailed = errors.New("cipher: decryption failed")

// FieldError 是单个字段的校验失败信息。
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError 聚合一次请求中所有字段的校验失败。
// 字段校验不短路：先收集全部字段错误，再一次性返回给客户端。
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// NewValidationError 构造一个包含给定字段错误的 ValidationError。
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// RateLimitError 表示某个限流窗口已满。
// 只携带重试提示，不透露具体哪个桶被打满。
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}
