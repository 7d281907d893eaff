package router

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/anon_forum_service/models/dto"
)

func validateEngine(t *testing.T) *validator.Validate {
	t.Helper()
	require.NoError(t, RegisterCustomValidators())
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	return engine
}

func TestCustomValidators_CreatePostRequest(t *testing.T) {
	engine := validateEngine(t)

	valid := &dto.CreatePostRequest{
		Title:    "聊聊最近的远程工作体验",
		Content:  "内容长度肯定超过十个字符的一段正文。",
		Category: "tech",
		Tags:     []string{"remote work", "dev-life"},
	}
	assert.NoError(t, engine.Struct(valid))

	// 版块必须在固定枚举内。
	badCategory := *valid
	badCategory.Category = "politics"
	err := engine.Struct(&badCategory)
	require.Error(t, err)
	var vErrs validator.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
	assert.Equal(t, "forum_category", vErrs[0].Tag())

	// 标签只允许字母数字、空格与连字符。
	badTag := *valid
	badTag.Tags = []string{"ok", "<script>"}
	err = engine.Struct(&badTag)
	require.Error(t, err)
	require.ErrorAs(t, err, &vErrs)
	assert.Equal(t, "forum_tagchars", vErrs[0].Tag())

	// 标题短于 3 字符。
	shortTitle := *valid
	shortTitle.Title = "Hi"
	err = engine.Struct(&shortTitle)
	require.Error(t, err)
	require.ErrorAs(t, err, &vErrs)
	// 字段名来自 json 标签而不是 Go 字段名。
	assert.Equal(t, "title", vErrs[0].Field())
	assert.Equal(t, "min", vErrs[0].Tag())

	// 标签超过 5 个。
	tooManyTags := *valid
	tooManyTags.Tags = []string{"a", "b", "c", "d", "e", "f"}
	assert.Error(t, engine.Struct(&tooManyTags))
}
