package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"school-organizer/internal/document"
)

const (
	jpegMargin = 40
	jpegIndent = 24
)

// JPEGRenderer 基于 x/image 文字绘制与 imaging 编码的 JPEG 渲染器
// 画布宽度固定，高度随内容增长
type JPEGRenderer struct {
	width   int
	quality int
	regular *opentype.Font
	bold    *opentype.Font
}

// NewJPEGRenderer 创建 JPEG 渲染器；fontPath 为空时使用内置字体
func NewJPEGRenderer(width, quality int, fontPath string) (*JPEGRenderer, error) {
	r := &JPEGRenderer{width: width, quality: quality}
	if r.width <= 0 {
		r.width = 1240
	}
	fonts, err := loadFonts(fontPath)
	if err != nil {
		return nil, err
	}
	if r.regular, err = opentype.Parse(fonts.regular); err != nil {
		return nil, fmt.Errorf("解析字体文件失败: %w", err)
	}
	if r.bold, err = opentype.Parse(fonts.bold); err != nil {
		return nil, fmt.Errorf("解析字体文件失败: %w", err)
	}
	return r, nil
}

func (r *JPEGRenderer) Format() string      { return "jpeg" }
func (r *JPEGRenderer) ContentType() string { return "image/jpeg" }
func (r *JPEGRenderer) Extension() string   { return ".jpg" }

// faces 标题、科目、正文三级字号
type faces struct {
	title, heading, body font.Face
}

func (r *JPEGRenderer) loadFaces() (faces, error) {
	mk := func(f *opentype.Font, size float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	}
	title, err := mk(r.bold, 36)
	if err != nil {
		return faces{}, err
	}
	heading, err := mk(r.bold, 28)
	if err != nil {
		return faces{}, err
	}
	body, err := mk(r.regular, 22)
	if err != nil {
		return faces{}, err
	}
	return faces{title: title, heading: heading, body: body}, nil
}

// textLine 已完成换行的一行文字
type textLine struct {
	text   string
	face   font.Face
	indent int
	gap    int // 该行之前的额外间距
	center bool
}

// Render 生成 JPEG 字节
func (r *JPEGRenderer) Render(ctx context.Context, doc *document.Document) ([]byte, error) {
	fs, err := r.loadFaces()
	if err != nil {
		return nil, renderFailed("加载字体", err)
	}

	width := r.width
	margin := jpegMargin
	indent := jpegIndent
	maxWidth := width - 2*margin

	var lines []textLine
	add := func(text string, face font.Face, ind, gap int, center bool) {
		for i, part := range wrap(text, face, maxWidth-ind) {
			g := 0
			if i == 0 {
				g = gap
			}
			lines = append(lines, textLine{text: part, face: face, indent: ind, gap: g, center: center})
		}
	}

	add(doc.Title, fs.title, 0, 0, true)
	if doc.Empty != "" {
		add(doc.Empty, fs.body, 0, lineHeight(fs.body), false)
	}
	for _, sec := range doc.Sections {
		if err := checkCtx(ctx); err != nil {
			return nil, err
		}
		add(sec.Heading, fs.heading, 0, lineHeight(fs.heading), false)
		for _, blk := range sec.Blocks {
			add(blk.Title+":", fs.body, 0, lineHeight(fs.body)/3, false)
			for _, l := range blk.Lines {
				add("- "+l, fs.body, indent, 0, false)
			}
		}
	}

	height := 2 * margin
	for _, l := range lines {
		height += l.gap + lineHeight(l.face)
	}

	canvas := imaging.New(width, height, color.White)
	y := margin
	for _, l := range lines {
		if err := checkCtx(ctx); err != nil {
			return nil, err
		}
		y += l.gap
		x := margin + l.indent
		if l.center {
			x = (width - font.MeasureString(l.face, l.text).Ceil()) / 2
		}
		d := &font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(color.Black),
			Face: l.face,
			Dot:  fixed.P(x, y+l.face.Metrics().Ascent.Ceil()),
		}
		d.DrawString(l.text)
		y += lineHeight(l.face)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(r.quality)); err != nil {
		return nil, renderFailed("编码 JPEG", err)
	}
	return buf.Bytes(), nil
}

func lineHeight(face font.Face) int {
	return face.Metrics().Height.Ceil() + 4
}

// wrap 按单词换行，单词本身超宽时按字符拆分
func wrap(text string, face font.Face, maxWidth int) []string {
	if maxWidth <= 0 || font.MeasureString(face, text).Ceil() <= maxWidth {
		return []string{text}
	}

	var out []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}

	for _, word := range strings.Fields(text) {
		candidate := word
		if cur.Len() > 0 {
			candidate = cur.String() + " " + word
		}
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			cur.Reset()
			cur.WriteString(candidate)
			continue
		}
		flush()
		for font.MeasureString(face, word).Ceil() > maxWidth {
			n := fitRunes(word, face, maxWidth)
			out = append(out, word[:n])
			word = word[n:]
		}
		cur.WriteString(word)
	}
	flush()
	return out
}

// fitRunes 返回能放入 maxWidth 的最长前缀字节数，至少一个字符
func fitRunes(s string, face font.Face, maxWidth int) int {
	end := 0
	for i, rn := range s {
		next := i + len(string(rn))
		if end > 0 && font.MeasureString(face, s[:next]).Ceil() > maxWidth {
			break
		}
		end = next
	}
	return end
}
