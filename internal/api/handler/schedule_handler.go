package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"school-organizer/internal/dto"
	"school-organizer/internal/service"
	"school-organizer/pkg/response"
)

// ScheduleHandler 周课表 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
	scopes      scopeResolver
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService, userSvc service.UserService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc, scopes: scopeResolver{userSvc: userSvc}}
}

// Get 当前生效的周课表
// GET /api/v1/schedule
func (h *ScheduleHandler) Get(c *gin.Context) {
	scope, ok := h.scopes.mustScope(c, false)
	if !ok {
		return
	}

	result, err := h.scheduleSvc.Get(c.Request.Context(), scope)
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// Replace 整体替换周课表
// PUT /api/v1/schedule
func (h *ScheduleHandler) Replace(c *gin.Context) {
	scope, ok := h.scopes.mustScope(c, true)
	if !ok {
		return
	}

	var req dto.ReplaceScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.scheduleSvc.Replace(c.Request.Context(), scope, &req)
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// CreateEmpty 新建空课表
// POST /api/v1/schedule/new
func (h *ScheduleHandler) CreateEmpty(c *gin.Context) {
	scope, ok := h.scopes.mustScope(c, true)
	if !ok {
		return
	}

	result, err := h.scheduleSvc.CreateEmpty(c.Request.Context(), scope)
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	response.Created(c, result)
}

// Disable 停用当前课表
// POST /api/v1/schedule/disable
func (h *ScheduleHandler) Disable(c *gin.Context) {
	scope, ok := h.scopes.mustScope(c, true)
	if !ok {
		return
	}

	n, err := h.scheduleSvc.Disable(c.Request.Context(), scope)
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	response.OK(c, dto.DisableScheduleResponse{Disabled: n})
}

func handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubjectNotFound):
		response.BadRequest(c, 31001, "课表中包含不存在的科目")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "无权限访问")
	default:
		internalError(c, err)
	}
}
