package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"school-organizer/internal/dto"
	"school-organizer/internal/service"
	"school-organizer/pkg/calendar"
	pkgerrors "school-organizer/pkg/errors"
	"school-organizer/pkg/response"
)

// ExportHandler 导出 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
	scopes    scopeResolver
	loc       *time.Location
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, userSvc service.UserService, loc *time.Location) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, scopes: scopeResolver{userSvc: userSvc}, loc: loc}
}

// DayPDF 单日完整版 PDF
// GET /api/v1/export/pdf/:date
func (h *ExportHandler) DayPDF(c *gin.Context) {
	h.day(c, service.FormatPDF)
}

// DayJPEG 单日简版 JPEG
// GET /api/v1/export/jpeg/:date
func (h *ExportHandler) DayJPEG(c *gin.Context) {
	h.day(c, service.FormatJPEG)
}

func (h *ExportHandler) day(c *gin.Context, format string) {
	scope, ok := h.scopes.mustScope(c, false)
	if !ok {
		return
	}

	file, err := h.exportSvc.Day(c.Request.Context(), scope.OwnerID, dateParam(c, h.loc), format)
	if err != nil {
		handleExportError(c, err)
		return
	}

	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// Month 月度 Excel，年月缺省为当前月份
// GET /api/v1/export/month?year=&month=
func (h *ExportHandler) Month(c *gin.Context) {
	var req dto.MonthExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	scope, ok := h.scopes.mustScope(c, false)
	if !ok {
		return
	}

	today := calendar.Today(h.loc)
	year, month := today.Year(), today.Month()
	if req.Year != 0 {
		year = req.Year
	}
	if req.Month != 0 {
		month = time.Month(req.Month)
	}

	file, err := h.exportSvc.Month(c.Request.Context(), scope.OwnerID, year, month)
	if err != nil {
		handleExportError(c, err)
		return
	}

	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

func handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrUnsupportedFormat):
		response.BadRequest(c, 34001, "不支持的导出格式")
	case errors.Is(err, pkgerrors.ErrRenderTimeout):
		_ = c.Error(err)
		response.Error(c, http.StatusServiceUnavailable, 34002, "文件渲染超时，请稍后重试")
	case errors.Is(err, pkgerrors.ErrRenderFailed):
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, 34003, "文件渲染失败")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "无权限访问")
	default:
		internalError(c, err)
	}
}
