package router

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Xushengqwer/anon_forum_service/constant"
)

// RegisterCustomValidators 把领域校验规则挂到 Gin 的校验引擎上。
// - forum_category: 版块必须是固定枚举之一
// - forum_tagchars: 标签只允许字母、数字、空格与连字符
// 同时让校验错误里的字段名使用 json tag，客户端拿到的提示与请求字段对得上。
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("无法获取 Gin 底层校验引擎")
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("forum_category", func(fl validator.FieldLevel) bool {
		return constant.IsValidCategory(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("注册 forum_category 校验器失败: %w", err)
	}

	if err := v.RegisterValidation("forum_tagchars", func(fl validator.FieldLevel) bool {
		return isTagCharset(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("注册 forum_tagchars 校验器失败: %w", err)
	}

	return nil
}

// isTagCharset 检查字符串是否只含字母、数字、空格与连字符。
// 空标签交给 min/required 之类的长度规则处理，这里只管字符集。
func isTagCharset(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == ' ' || r == '-':
		default:
			return false
		}
	}
	return true
}
