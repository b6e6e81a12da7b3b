package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"school-organizer/internal/document"
	"school-organizer/internal/render"
	"school-organizer/internal/repository"
	"school-organizer/pkg/calendar"
	pkgerrors "school-organizer/pkg/errors"
	"school-organizer/pkg/metrics"
)

// 导出格式
const (
	FormatPDF  = "pdf"
	FormatJPEG = "jpeg"
	FormatXLSX = "xlsx"
)

// ExportFile 导出结果，由 Handler 写入响应
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService 导出业务接口
//
//   - PDF 为完整版（阅读、笔记、重点、作业），JPEG 为简版（阅读、作业）
//   - 渲染受 render_timeout 限制，失败或超时不返回任何部分内容
//   - 月度 Excel 每条有内容的记录一行
type ExportService interface {
	Day(ctx context.Context, ownerID string, date time.Time, format string) (*ExportFile, error)
	Month(ctx context.Context, ownerID string, year int, month time.Month) (*ExportFile, error)
}

type exportService struct {
	daily     DailyService
	repo      *repository.Repository
	renderers map[string]render.Renderer
	timeout   time.Duration
	logger    *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(
	daily DailyService,
	repo *repository.Repository,
	renderers []render.Renderer,
	timeout time.Duration,
	logger *zap.Logger,
) ExportService {
	byFormat := make(map[string]render.Renderer, len(renderers))
	for _, r := range renderers {
		byFormat[r.Format()] = r
	}
	return &exportService{
		daily:     daily,
		repo:      repo,
		renderers: byFormat,
		timeout:   timeout,
		logger:    logger,
	}
}

// profileFor 各格式对应的导出档位
func profileFor(format string) document.Profile {
	if format == FormatJPEG {
		return document.ProfileBrief
	}
	return document.ProfileFull
}

// ═══════════════════════════════════════════════════════════
// Day：单日 PDF / JPEG
// ═══════════════════════════════════════════════════════════

func (s *exportService) Day(ctx context.Context, ownerID string, date time.Time, format string) (*ExportFile, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, pkgerrors.ErrUnsupportedFormat
	}

	records, err := s.daily.Records(ctx, ownerID, date)
	if err != nil {
		return nil, err
	}
	doc := document.Build(date, records, profileFor(format))

	renderCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		renderCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	data, err := renderer.Render(renderCtx, doc)
	metrics.ObserveExport(format, time.Since(start), err)
	if err != nil {
		s.logger.Error("渲染导出文件失败",
			zap.String("owner_id", ownerID),
			zap.String("format", format),
			zap.String("date", calendar.FormatParam(date)),
			zap.Error(err),
		)
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return nil, pkgerrors.ErrRenderTimeout
		case errors.Is(err, context.Canceled):
			return nil, err
		case errors.Is(err, pkgerrors.ErrRenderFailed):
			return nil, err
		default:
			return nil, fmt.Errorf("%w: %v", pkgerrors.ErrRenderFailed, err)
		}
	}

	return &ExportFile{
		Filename:    "school_organizer_" + calendar.FormatFileStamp(date) + renderer.Extension(),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

// ═══════════════════════════════════════════════════════════
// Month：月度 Excel
// ═══════════════════════════════════════════════════════════
//
// 列：日期 | 科目 | 书目 | 页码 | 笔记 | 重点 | 附加阅读 | 作业

func (s *exportService) Month(ctx context.Context, ownerID string, year int, month time.Month) (*ExportFile, error) {
	from, to := calendar.MonthBounds(year, month)

	entries, err := s.repo.DailyEntry.ListByRange(ctx, ownerID, from, to)
	if err != nil {
		s.logger.Error("查询月度记录失败", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("%04d-%02d", year, int(month))
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrRenderFailed, err)
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Date", "Subject", "Book", "Pages", "Notes", "Important notes", "Extras", "Homework"}
	widths := []float64{12, 18, 24, 10, 40, 30, 36, 30}
	for i, h := range headers {
		col := colName(i)
		_ = f.SetColWidth(sheet, col, col, widths[i])
		_ = f.SetCellValue(sheet, cell(col, 1), h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	_ = f.SetCellStyle(sheet, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	wrapStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})

	row := 2
	for i := range entries {
		rec := BuildRecord(entrySubject(&entries[i]), &entries[i])
		if !rec.HasContent() {
			continue
		}
		values := []interface{}{
			entries[i].Date.Format("02.01.2006"),
			rec.SubjectName,
			rec.BookTitle,
			rec.Pages,
			rec.Notes,
			rec.ImportantNotes,
			joinExtras(rec.Extras),
			joinHomework(rec.Homework),
		}
		for c, v := range values {
			_ = f.SetCellValue(sheet, cell(colName(c), row), v)
		}
		row++
	}
	if row > 2 {
		_ = f.SetCellStyle(sheet, "A2", cell(colName(len(headers)-1), row-1), wrapStyle)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		metrics.ObserveExport(FormatXLSX, 0, err)
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrRenderFailed, err)
	}
	metrics.ObserveExport(FormatXLSX, 0, nil)

	return &ExportFile{
		Filename:    fmt.Sprintf("school_organizer_%02d_%04d.xlsx", int(month), year),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}

// ── 辅助函数 ──

func joinExtras(extras []document.ExtraRecord) string {
	var buf bytes.Buffer
	for i, x := range extras {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(x.BookTitle)
		if x.Pages != "" {
			buf.WriteString(", pages " + x.Pages)
		}
		if x.Notes != "" {
			buf.WriteString(" (" + x.Notes + ")")
		}
	}
	return buf.String()
}

func joinHomework(homework []document.HomeworkRecord) string {
	var buf bytes.Buffer
	for i, h := range homework {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(h.BookTitle)
		if h.Pages != "" {
			buf.WriteString(", pages " + h.Pages)
		}
	}
	return buf.String()
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
