package security

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// 净化与攻击特征检测。净化用于所有入站字符串；攻击特征命中则直接拒绝请求。

// strictPolicy 剥离全部标签与属性（零白名单）。bluemonday 的 Policy 并发安全。
var strictPolicy = bluemonday.StrictPolicy()

// suspiciousPatterns 是固定的攻击特征清单：脚本标签、危险协议前缀、
// 内联事件处理属性、常见 SQL 注入惯用语。命中任意一条即拒绝（403），
// 不做净化补救。
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<\s*script`),
	regexp.MustCompile(`(?i)<\s*iframe`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)vbscript\s*:`),
	regexp.MustCompile(`(?i)data\s*:\s*text/html`),
	regexp.MustCompile(`(?i)\bon(load|error|click|mouseover|focus|submit)\s*=`),
	regexp.MustCompile(`(?i)union\s+select`),
	regexp.MustCompile(`(?i)insert\s+into\s`),
	regexp.MustCompile(`(?i)drop\s+table`),
	regexp.MustCompile(`(?i)delete\s+from\s`),
	regexp.MustCompile(`(?i)'\s*or\s+'?1'?\s*=\s*'?1`),
}

// residualProtocols 是净化阶段二次移除的协议前缀（不区分大小写）。
var residualProtocols = regexp.MustCompile(`(?i)(javascript|vbscript|data)\s*:`)

// IsSuspicious 判断字符串是否命中任一攻击特征。
func IsSuspicious(s string) bool {
	for _, p := range suspiciousPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// Sanitize 对单个字符串执行净化：
//  1. 剥离全部 HTML 标签与属性
//  2. 移除残留的尖括号
//  3. 移除 javascript:/data:/vbscript: 协议前缀
//  4. 去除首尾空白
func Sanitize(s string) string {
	out := strictPolicy.Sanitize(s)
	out = strings.ReplaceAll(out, "<", "")
	out = strings.ReplaceAll(out, ">", "")
	out = residualProtocols.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// SanitizeSlice 逐个净化字符串切片（标签等字段使用）。
func SanitizeSlice(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if cleaned := Sanitize(s); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// Truncate 返回内容的截断摘录（滥用监控日志使用，绝不记录全文）。
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
