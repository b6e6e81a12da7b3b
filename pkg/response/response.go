package response

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 通用业务码，其余错误码由各 handler 按模块分段定义
const (
	CodeOK       = 0
	CodeInternal = 50000

	msgOK       = "success"
	msgInternal = "服务器内部错误"
)

// Response 统一响应结构，Code 为 0 表示成功
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details string      `json:"details,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type PageData struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

// NewPagination 按总数计算页数，pageSize 非正时视为单页
func NewPagination(total int64, page, pageSize int) Pagination {
	p := Pagination{Page: page, PageSize: pageSize, Total: total}
	switch {
	case total <= 0:
	case pageSize <= 0:
		p.TotalPages = 1
	default:
		p.TotalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return p
}

func write(c *gin.Context, status int, body Response) {
	c.JSON(status, body)
}

func success(c *gin.Context, status int, data interface{}) {
	write(c, status, Response{Code: CodeOK, Message: msgOK, Data: data})
}

func OK(c *gin.Context, data interface{})      { success(c, http.StatusOK, data) }
func Created(c *gin.Context, data interface{}) { success(c, http.StatusCreated, data) }

// OKPage 列表接口统一带分页元数据
func OKPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	success(c, http.StatusOK, PageData{List: list, Pagination: NewPagination(total, page, pageSize)})
}

// Attachment 以附件形式返回文件；filename 含非 ASCII 字符时由 mime 自动补充 RFC 2231 编码
func Attachment(c *gin.Context, filename, contentType string, data []byte) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, data)
}

// Error 业务错误。HTTP 状态与业务码分开传，便于前端按 code 精确区分
func Error(c *gin.Context, httpStatus int, code int, message string) {
	write(c, httpStatus, Response{Code: code, Message: message})
}

// ErrorWithDetails 附带字段级详情，用于参数校验失败
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message, details string) {
	write(c, httpStatus, Response{Code: code, Message: message, Details: details})
}

func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code int, message string) {
	Error(c, http.StatusConflict, code, message)
}

// InternalError 不向客户端暴露内部错误细节
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, msgInternal)
}
