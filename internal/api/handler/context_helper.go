package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"school-organizer/internal/api/middleware"
	"school-organizer/internal/dto"
	"school-organizer/internal/service"
	"school-organizer/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString(middleware.CtxUserID)
	if s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetActor 当前登录用户（ID 与角色）
func MustGetActor(c *gin.Context) (service.Actor, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return service.Actor{}, false
	}
	role := c.GetString(middleware.CtxRole)
	if role == "" {
		response.Unauthorized(c, 10002, "未认证")
		return service.Actor{}, false
	}
	return service.Actor{UserID: userID, Role: role}, true
}

// scopeResolver 由需要按 target_user_id 切换数据归属的 Handler 共用
type scopeResolver struct {
	userSvc service.UserService
}

// mustScope 解析 ?target_user_id 并计算本次请求的数据归属
// write 为 true 时要求可写；失败时已写入响应
func (r scopeResolver) mustScope(c *gin.Context, write bool) (service.Scope, bool) {
	actor, ok := MustGetActor(c)
	if !ok {
		return service.Scope{}, false
	}

	var q dto.TargetQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return service.Scope{}, false
	}

	scope, err := r.userSvc.ResolveScope(c.Request.Context(), actor, q.TargetUserID, write)
	if err != nil {
		handleScopeError(c, err)
		return service.Scope{}, false
	}
	return scope, true
}

func handleScopeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 20001, "用户不存在")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "无权限访问")
	default:
		internalError(c, err)
	}
}

// internalError 记录错误供日志与 Sentry 中间件使用，并返回 500
func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	response.InternalError(c)
}
