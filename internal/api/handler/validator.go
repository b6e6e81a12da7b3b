package handler

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"school-organizer/pkg/response"
)

// usernamePattern 用户名：字母、数字、点、下划线、@、+、-
var usernamePattern = regexp.MustCompile(`^[\w.@+-]{3,150}$`)

var registerOnce sync.Once

// RegisterValidators 向 Gin 使用的 validator 注册自定义规则，可重复调用
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	})
}

// bindError 参数绑定失败：校验错误列出字段与规则，其余统一为参数格式错误
func bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
		return
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make([]string, 0, len(ve))
		for _, fe := range ve {
			fields = append(fields, fmt.Sprintf("%s:%s", fe.Field(), fe.Tag()))
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", strings.Join(fields, ", "))
		return
	}
	response.BadRequest(c, 10001, "参数格式错误")
}
