package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"school-organizer/internal/dto"
	"school-organizer/internal/service"
	"school-organizer/pkg/response"
)

// HistoryHandler 历史日历与考试日 HTTP 处理器
type HistoryHandler struct {
	historySvc service.HistoryService
	examSvc    service.ExamService
	scopes     scopeResolver
}

// NewHistoryHandler 创建 HistoryHandler
func NewHistoryHandler(historySvc service.HistoryService, examSvc service.ExamService, userSvc service.UserService) *HistoryHandler {
	return &HistoryHandler{historySvc: historySvc, examSvc: examSvc, scopes: scopeResolver{userSvc: userSvc}}
}

// Get 月历与所选日期的记录
// GET /api/v1/history?year=&month=&date=&target_user_id=
func (h *HistoryHandler) Get(c *gin.Context) {
	var req dto.HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	scope, ok := h.scopes.mustScope(c, false)
	if !ok {
		return
	}

	result, err := h.historySvc.Get(c.Request.Context(), scope, &req)
	if err != nil {
		handleHistoryError(c, err)
		return
	}

	response.OK(c, result)
}

// AddExam 标记考试日
// POST /api/v1/exams
func (h *HistoryHandler) AddExam(c *gin.Context) {
	scope, ok := h.scopes.mustScope(c, true)
	if !ok {
		return
	}

	var req dto.ExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	exam, err := h.examSvc.Add(c.Request.Context(), scope, &req)
	if err != nil {
		handleHistoryError(c, err)
		return
	}

	response.OK(c, exam)
}

// DeleteExam 取消考试日
// DELETE /api/v1/exams
func (h *HistoryHandler) DeleteExam(c *gin.Context) {
	scope, ok := h.scopes.mustScope(c, true)
	if !ok {
		return
	}

	var req dto.ExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.examSvc.Delete(c.Request.Context(), scope, &req); err != nil {
		handleHistoryError(c, err)
		return
	}

	response.OK(c, nil)
}

func handleHistoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 33001, "科目不存在")
	case errors.Is(err, service.ErrExamNotFound):
		response.NotFound(c, 33002, "考试记录不存在")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "无权限访问")
	default:
		internalError(c, err)
	}
}
