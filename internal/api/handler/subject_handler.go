package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"school-organizer/internal/dto"
	"school-organizer/internal/service"
	"school-organizer/pkg/response"
)

// SubjectHandler 科目与书目 HTTP 处理器
type SubjectHandler struct {
	subjectSvc service.SubjectService
	scopes     scopeResolver
}

// NewSubjectHandler 创建 SubjectHandler
func NewSubjectHandler(subjectSvc service.SubjectService, userSvc service.UserService) *SubjectHandler {
	return &SubjectHandler{subjectSvc: subjectSvc, scopes: scopeResolver{userSvc: userSvc}}
}

// List 科目及书目
// GET /api/v1/subjects
func (h *SubjectHandler) List(c *gin.Context) {
	scope, ok := h.scopes.mustScope(c, false)
	if !ok {
		return
	}

	list, err := h.subjectSvc.List(c.Request.Context(), scope)
	if err != nil {
		handleSubjectError(c, err)
		return
	}

	response.OK(c, list)
}

// Create 创建科目；同名已存在时返回 200 与已有科目
// POST /api/v1/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	scope, ok := h.scopes.mustScope(c, true)
	if !ok {
		return
	}

	var req dto.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	subject, created, err := h.subjectSvc.Create(c.Request.Context(), scope, &req)
	if err != nil {
		handleSubjectError(c, err)
		return
	}

	if created {
		response.Created(c, subject)
		return
	}
	response.OK(c, subject)
}

// Delete 删除科目
// DELETE /api/v1/subjects/:id
func (h *SubjectHandler) Delete(c *gin.Context) {
	scope, ok := h.scopes.mustScope(c, true)
	if !ok {
		return
	}

	if err := h.subjectSvc.Delete(c.Request.Context(), scope, c.Param("id")); err != nil {
		handleSubjectError(c, err)
		return
	}

	response.OK(c, nil)
}

// CreateBook 在科目下创建书目
// POST /api/v1/subjects/:id/books
func (h *SubjectHandler) CreateBook(c *gin.Context) {
	scope, ok := h.scopes.mustScope(c, true)
	if !ok {
		return
	}

	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	book, created, err := h.subjectSvc.CreateBook(c.Request.Context(), scope, c.Param("id"), &req)
	if err != nil {
		handleSubjectError(c, err)
		return
	}

	if created {
		response.Created(c, book)
		return
	}
	response.OK(c, book)
}

// DeleteBook 删除书目，引用它的记录保留但不再关联书目
// DELETE /api/v1/books/:id
func (h *SubjectHandler) DeleteBook(c *gin.Context) {
	scope, ok := h.scopes.mustScope(c, true)
	if !ok {
		return
	}

	if err := h.subjectSvc.DeleteBook(c.Request.Context(), scope, c.Param("id")); err != nil {
		handleSubjectError(c, err)
		return
	}

	response.OK(c, nil)
}

func handleSubjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 30001, "科目不存在")
	case errors.Is(err, service.ErrBookNotFound):
		response.NotFound(c, 30002, "书目不存在")
	case errors.Is(err, service.ErrEmptyName):
		response.BadRequest(c, 30003, "名称不能为空")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "无权限访问")
	default:
		internalError(c, err)
	}
}
