package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Xushengqwer/anon_forum_service/myErrors"
)

// respondBindingError 将绑定/校验失败转换为 400 响应。
// 校验不短路：validator 的全部字段错误被收集后一次性返回。
func respondBindingError(c *gin.Context, err error) {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		fields := make([]myErrors.FieldError, 0, len(vErrs))
		for _, fe := range vErrs {
			fields = append(fields, myErrors.FieldError{Field: fe.Field(), Message: validationMessage(fe)})
		}
		respondValidationFields(c, fields)
		return
	}
	response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
}

// respondValidationFields 返回 400 及结构化的字段错误列表。
// go-common 的 RespondError 不携带 data，因此这里按 APIResponse 的信封形状
// 就地写出：message 是拼接的人读文案，data 是机器可读的 {field, message} 数组。
func respondValidationFields(c *gin.Context, fields []myErrors.FieldError) {
	parts := make([]string, 0, len(fields))
	for _, fe := range fields {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    response.ErrCodeClientInvalidInput,
		"message": "参数校验失败: " + strings.Join(parts, "; "),
		"data":    fields,
	})
}

// validationMessage 把 validator 的 tag 翻译成面向客户端的中文提示。
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "必填"
	case "min":
		return "长度不足，最少 " + fe.Param() + " 字符"
	case "max":
		return "超出长度上限 " + fe.Param()
	case "oneof":
		return "取值须为 " + fe.Param() + " 之一"
	case "forum_category":
		return "不是有效的版块"
	case "forum_tagchars":
		return "标签只允许字母、数字、空格与连字符"
	case "gte":
		return "须不小于 " + fe.Param()
	case "lte":
		return "须不大于 " + fe.Param()
	default:
		return "格式不正确"
	}
}

// respondServiceError 将服务层错误映射为统一的 HTTP 响应。
// - 校验类 400、拦截类 403、缺失类 404，其余一律 500 且不透出内部细节。
func respondServiceError(c *gin.Context, err error, fallbackMsg string) {
	var vErr *myErrors.ValidationError
	if errors.As(err, &vErr) {
		respondValidationFields(c, vErr.Fields)
		return
	}

	switch {
	case errors.Is(err, myErrors.ErrNotFoundOrExpired):
		response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "内容不存在或已过期")
	case errors.Is(err, myErrors.ErrSpamContent), errors.Is(err, myErrors.ErrPolicyViolation):
		// 垃圾与策略拦截统一话术，不透露命中的具体规则。
		response.RespondError(c, http.StatusForbidden, response.ErrCodeClientInvalidInput, "内容未通过检查")
	default:
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, fallbackMsg)
	}
}
