package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSuspicious(t *testing.T) {
	suspicious := []string{
		"<script>alert(1)</script>",
		"< SCRIPT src=x>",
		"<iframe src=//evil>",
		"javascript:alert(1)",
		"JavaScript : void(0)",
		"vbscript:msgbox",
		"data:text/html;base64,xxx",
		`<img onerror=alert(1)>`,
		"onload=doEvil()",
		"1 UNION SELECT password FROM users",
		"x'; DROP TABLE posts; --",
		"DELETE FROM comments WHERE 1",
		"' OR '1'='1",
	}
	for _, s := range suspicious {
		assert.True(t, IsSuspicious(s), "应命中攻击特征: %q", s)
	}

	clean := []string{
		"今天天气不错，聊聊最近看的书",
		"I selected the union of two sets",      // 不含 "union select" 连写
		"删除了一些旧文件",                              // 中文正常描述
		"价格 1=1 这种写法没有引号前缀",                     // 不满足 SQL 惯用语模式
		"this data: is fine without text/html", // data: 后非 text/html
	}
	for _, s := range clean {
		assert.False(t, IsSuspicious(s), "不应命中攻击特征: %q", s)
	}
}

func TestSanitize(t *testing.T) {
	// 标签被剥离，文本保留。
	assert.Equal(t, "hello world", Sanitize("<b>hello</b> world"))
	// script 元素连同其内容一并被丢弃。
	assert.Equal(t, "before  after", Sanitize("before <script>alert(1)</script> after"))
	// 协议前缀被移除。
	assert.Equal(t, "alert(1)", Sanitize("javascript:alert(1)"))
	// 首尾空白被去除。
	assert.Equal(t, "trimmed", Sanitize("   trimmed \n"))
	// 普通文本原样保留。
	assert.Equal(t, "正常的中文内容 with English", Sanitize("正常的中文内容 with English"))
}

func TestSanitizeSlice(t *testing.T) {
	in := []string{" go ", "<i>tag</i>", "<script>x</script>", ""}
	out := SanitizeSlice(in)
	// 净化后为空的条目（纯 script、空串）被丢弃。
	assert.Equal(t, []string{"go", "tag"}, out)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	// 按字符截断而不是字节，多字节字符不被截碎。
	assert.Equal(t, "你好...", Truncate("你好世界", 2))
}
