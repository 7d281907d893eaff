package security

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Xushengqwer/anon_forum_service/config"
	"github.com/Xushengqwer/anon_forum_service/myErrors"
)

// 垃圾内容启发式的固定阈值。
const (
	// repeatedCharLimit 单字符连续重复达到该次数即判定为垃圾内容。
	repeatedCharLimit = 11
	// repeatedPhraseLimit 短词/短语连续重复达到该次数即判定为垃圾内容。
	repeatedPhraseLimit = 5

	// 帖子与评论的 URL 数量、全大写连续长度阈值不同。
	postMaxURLs       = 3
	commentMaxURLs    = 2
	postCapsRunLen    = 20
	commentCapsRunLen = 15
)

var urlPattern = regexp.MustCompile(`(?i)https?://[^\s]+`)

// SpamKind 区分帖子与评论使用的阈值组。
type SpamKind int

const (
	SpamKindPost SpamKind = iota
	SpamKindComment
)

// ContentFilter 实现垃圾内容启发式与内容策略拒绝清单。
// - 命中即拒绝整个请求，而不是对内容做清洗
// - 无状态，可被并发调用
type ContentFilter struct {
	bannedPhrases []string // 已统一转为小写
}

// NewContentFilter 从安全配置构造内容过滤器。
func NewContentFilter(cfg *config.SecurityConfig) *ContentFilter {
	phrases := make([]string, 0, len(cfg.BannedPhrases))
	for _, p := range cfg.BannedPhrases {
		p = strings.TrimSpace(strings.ToLower(p))
		if p != "" {
			phrases = append(phrases, p)
		}
	}
	return &ContentFilter{bannedPhrases: phrases}
}

// CheckSpam 对内容执行垃圾启发式检查，命中时返回 myErrors.ErrSpamContent。
// 检查项：
//  1. 单字符连续重复 >= 11 次
//  2. URL 数量：帖子 >= 3，评论 >= 2
//  3. 全大写连续片段：帖子 >= 20 字符，评论 >= 15 字符
//  4. 短词/短语连续重复 >= 5 次
func (f *ContentFilter) CheckSpam(content string, kind SpamKind) error {
	maxURLs := postMaxURLs
	capsRun := postCapsRunLen
	if kind == SpamKindComment {
		maxURLs = commentMaxURLs
		capsRun = commentCapsRunLen
	}

	if hasRepeatedChar(content, repeatedCharLimit) {
		return myErrors.ErrSpamContent
	}
	if len(urlPattern.FindAllStringIndex(content, -1)) >= maxURLs {
		return myErrors.ErrSpamContent
	}
	if hasCapsRun(content, capsRun) {
		return myErrors.ErrSpamContent
	}
	if hasRepeatedPhrase(content, repeatedPhraseLimit) {
		return myErrors.ErrSpamContent
	}
	return nil
}

// CheckPolicy 对标题与正文执行策略拒绝清单匹配（不区分大小写的子串匹配）。
// 命中时返回 myErrors.ErrPolicyViolation。
func (f *ContentFilter) CheckPolicy(texts ...string) error {
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, phrase := range f.bannedPhrases {
			if strings.Contains(lower, phrase) {
				return myErrors.ErrPolicyViolation
			}
		}
	}
	return nil
}

// hasRepeatedChar 判断是否存在单字符连续重复 limit 次及以上。
// RE2 不支持反向引用，这里手工扫描。
func hasRepeatedChar(s string, limit int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run >= limit {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

// hasCapsRun 判断是否存在长度达到 limit 的全大写连续片段。
// 片段内允许空格串联，但只统计大写字母的数量。
func hasCapsRun(s string, limit int) bool {
	count := 0
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			count++
			if count >= limit {
				return true
			}
		case r == ' ':
			// 空格不中断片段，也不计数
		default:
			count = 0
		}
	}
	return false
}

// hasRepeatedPhrase 判断是否存在单词或双词短语连续重复 limit 次及以上（不区分大小写）。
func hasRepeatedPhrase(s string, limit int) bool {
	words := strings.Fields(strings.ToLower(s))
	if len(words) < limit {
		return false
	}

	// 单词连续重复
	run := 1
	for i := 1; i < len(words); i++ {
		if words[i] == words[i-1] {
			run++
			if run >= limit {
				return true
			}
		} else {
			run = 1
		}
	}

	// 双词短语连续重复，例如 "buy now buy now buy now ..."
	run = 1
	for i := 3; i < len(words); i += 2 {
		if words[i-1] == words[i-3] && words[i] == words[i-2] {
			run++
			if run >= limit {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}
