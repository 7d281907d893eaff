package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/anon_forum_service/myErrors"
)

// validationEnvelope 按 APIResponse 的信封形状解码 400 响应。
type validationEnvelope struct {
	Message string                `json:"message"`
	Data    []myErrors.FieldError `json:"data"`
}

func TestRespondServiceError_ValidationFieldList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	vErr := myErrors.NewValidationError(
		myErrors.FieldError{Field: "title", Message: "长度不足，最少 3 字符"},
		myErrors.FieldError{Field: "content", Message: "超出长度上限 5000"},
	)
	respondServiceError(c, vErr, "不应走到兜底分支")

	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope validationEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))

	// data 携带机器可读的字段错误数组，message 是拼接后的人读文案。
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, "title", envelope.Data[0].Field)
	assert.Equal(t, "长度不足，最少 3 字符", envelope.Data[0].Message)
	assert.Equal(t, "content", envelope.Data[1].Field)
	assert.Contains(t, envelope.Message, "title: 长度不足，最少 3 字符")
	assert.Contains(t, envelope.Message, "content: 超出长度上限 5000")
}

func TestRespondServiceError_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondServiceError(c, myErrors.ErrNotFoundOrExpired, "兜底")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRespondServiceError_FallbackIs500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondServiceError(c, errors.New("db connection reset"), "创建帖子失败")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// 内部错误细节不透出，响应体只包含兜底文案。
	assert.NotContains(t, w.Body.String(), "db connection reset")
	assert.Contains(t, w.Body.String(), "创建帖子失败")
}

func TestRespondBindingError_NonValidatorError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondBindingError(c, errors.New("invalid character '}'"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
