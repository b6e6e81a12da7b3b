package render

import (
	"bytes"
	"context"

	"github.com/go-pdf/fpdf"

	"school-organizer/internal/document"
)

// A4 页边距（毫米）
const (
	pdfMarginTop    = 10
	pdfMarginRight  = 5
	pdfMarginBottom = 15
	pdfMarginLeft   = 5
)

const pdfFontFamily = "body"

// PDFRenderer 基于 fpdf 的 A4 PDF 渲染器，统一使用 UTF-8 字体嵌入
type PDFRenderer struct {
	fontPath string
}

// NewPDFRenderer 创建 PDF 渲染器，fontPath 为空时使用内置字体
func NewPDFRenderer(fontPath string) *PDFRenderer {
	return &PDFRenderer{fontPath: fontPath}
}

func (r *PDFRenderer) Format() string      { return "pdf" }
func (r *PDFRenderer) ContentType() string { return "application/pdf" }
func (r *PDFRenderer) Extension() string   { return ".pdf" }

// Render 生成 PDF 字节
func (r *PDFRenderer) Render(ctx context.Context, doc *document.Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	pdf.SetAutoPageBreak(true, pdfMarginBottom)
	pdf.SetTitle(doc.Title, true)

	fonts, err := loadFonts(r.fontPath)
	if err != nil {
		return nil, renderFailed("加载字体", err)
	}
	family := pdfFontFamily
	pdf.AddUTF8FontFromBytes(family, "", fonts.regular)
	pdf.AddUTF8FontFromBytes(family, "B", fonts.bold)
	if err := pdf.Error(); err != nil {
		return nil, renderFailed("加载字体", err)
	}

	pdf.AddPage()
	pdf.SetFont(family, "B", 18)
	pdf.CellFormat(0, 10, doc.Title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if doc.Empty != "" {
		pdf.SetFont(family, "", 12)
		pdf.MultiCell(0, 6, doc.Empty, "", "L", false)
	}

	for _, sec := range doc.Sections {
		if err := checkCtx(ctx); err != nil {
			return nil, err
		}

		pdf.SetFont(family, "B", 14)
		pdf.CellFormat(0, 8, sec.Heading, "B", 1, "L", false, 0, "")
		pdf.Ln(1)

		for _, blk := range sec.Blocks {
			pdf.SetFont(family, "B", 11)
			pdf.CellFormat(0, 6, blk.Title, "", 1, "L", false, 0, "")
			pdf.SetFont(family, "", 11)
			for _, line := range blk.Lines {
				pdf.SetX(pdfMarginLeft + 4)
				pdf.MultiCell(0, 5.5, "- "+line, "", "L", false)
			}
			pdf.Ln(1)
		}
		pdf.Ln(3)
	}

	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, renderFailed("输出 PDF", err)
	}
	return buf.Bytes(), nil
}
