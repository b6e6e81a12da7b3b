// Package document 把某天的聚合记录整理成与输出格式无关的文档结构，
// 由 render 包负责排版为 PDF 或 JPEG。
package document

import (
	"fmt"
	"strings"
	"time"

	"school-organizer/pkg/calendar"
)

// Profile 导出档位
type Profile string

const (
	// ProfileFull 完整版（PDF）：阅读、笔记、重点、作业
	ProfileFull Profile = "full"
	// ProfileBrief 简版（JPEG）：阅读、作业
	ProfileBrief Profile = "brief"
)

// 文档中出现的固定文案
const (
	LabelResources      = "Resources"
	LabelNotes          = "Notes"
	LabelImportantNotes = "Important notes"
	LabelHomework       = "Homework"
	EmptyDayText        = "No entries for this day."
)

// Document 单日导出文档
type Document struct {
	Title    string
	Sections []Section
	// Empty 非空时表示当天没有任何内容，渲染器只输出标题与该段文字
	Empty string
}

// Section 一个科目
type Section struct {
	Heading string
	Blocks  []Block
}

// Block 科目下的小节，例如"Homework"
type Block struct {
	Title string
	Lines []string
}

// Build 按档位生成文档；无内容的记录被忽略，空小节不输出
func Build(date time.Time, records []Record, profile Profile) *Document {
	doc := &Document{Title: calendar.FormatHeading(date)}

	for i := range records {
		r := &records[i]
		if !r.HasContent() {
			continue
		}
		sec := Section{Heading: r.SubjectName}

		if lines := resourceLines(r, profile); len(lines) > 0 {
			sec.Blocks = append(sec.Blocks, Block{Title: LabelResources, Lines: lines})
		}
		if profile == ProfileFull {
			if lines := splitText(r.Notes); len(lines) > 0 {
				sec.Blocks = append(sec.Blocks, Block{Title: LabelNotes, Lines: lines})
			}
			if lines := splitText(r.ImportantNotes); len(lines) > 0 {
				sec.Blocks = append(sec.Blocks, Block{Title: LabelImportantNotes, Lines: lines})
			}
		}
		if lines := homeworkLines(r); len(lines) > 0 {
			sec.Blocks = append(sec.Blocks, Block{Title: LabelHomework, Lines: lines})
		}

		if len(sec.Blocks) > 0 {
			doc.Sections = append(doc.Sections, sec)
		}
	}

	if len(doc.Sections) == 0 {
		doc.Empty = EmptyDayText
	}
	return doc
}

func resourceLines(r *Record, profile Profile) []string {
	var lines []string
	if line := bookLine(r.BookTitle, r.Pages); line != "" {
		lines = append(lines, line)
	}
	for _, e := range r.Extras {
		line := bookLine(e.BookTitle, e.Pages)
		if profile == ProfileFull && e.Notes != "" {
			if line == "" {
				line = e.Notes
			} else {
				line = fmt.Sprintf("%s (%s)", line, e.Notes)
			}
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func homeworkLines(r *Record) []string {
	var lines []string
	for _, h := range r.Homework {
		if line := bookLine(h.BookTitle, h.Pages); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func bookLine(title, pages string) string {
	switch {
	case title != "" && pages != "":
		return fmt.Sprintf("%s, pages %s", title, pages)
	case title != "":
		return title
	case pages != "":
		return "Pages " + pages
	default:
		return ""
	}
}

func splitText(s string) []string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
