package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"school-organizer/internal/dto"
	"school-organizer/internal/service"
	"school-organizer/pkg/calendar"
	"school-organizer/pkg/response"
)

// DayHandler 单日记录 HTTP 处理器
type DayHandler struct {
	dailySvc service.DailyService
	scopes   scopeResolver
	loc      *time.Location
}

// NewDayHandler 创建 DayHandler
func NewDayHandler(dailySvc service.DailyService, userSvc service.UserService, loc *time.Location) *DayHandler {
	return &DayHandler{dailySvc: dailySvc, scopes: scopeResolver{userSvc: userSvc}, loc: loc}
}

// dateParam 解析路径中的 :date（dd-mm-yy），非法时取今天
func dateParam(c *gin.Context, loc *time.Location) time.Time {
	return calendar.ParseDay(c.Param("date"), calendar.Today(loc))
}

// GetDay 单日视图
// GET /api/v1/days/:date
func (h *DayHandler) GetDay(c *gin.Context) {
	scope, ok := h.scopes.mustScope(c, false)
	if !ok {
		return
	}

	day, err := h.dailySvc.GetDay(c.Request.Context(), scope, dateParam(c, h.loc))
	if err != nil {
		handleDayError(c, err)
		return
	}

	response.OK(c, day)
}

// SaveEntry 保存一个科目格子
// PUT /api/v1/days/:date/entries
func (h *DayHandler) SaveEntry(c *gin.Context) {
	scope, ok := h.scopes.mustScope(c, true)
	if !ok {
		return
	}

	var req dto.SaveEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.dailySvc.SaveEntry(c.Request.Context(), scope, dateParam(c, h.loc), &req)
	if err != nil {
		handleDayError(c, err)
		return
	}

	response.OK(c, result)
}

func handleDayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 32001, "科目不存在")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "无权限访问")
	default:
		internalError(c, err)
	}
}
