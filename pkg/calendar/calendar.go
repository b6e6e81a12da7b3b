// Package calendar 提供与业务相关的纯日期计算：月视图网格、日期参数解析、ISO 星期序号。
//
// 所有返回值都是 UTC 零点的"日期"，不携带时刻信息。
package calendar

import (
	"time"

	"github.com/jinzhu/now"
)

// GridWeeks 月视图固定 6 行
const GridWeeks = 6

// Grid 6 行 × 7 列的日期网格，第 0 列为周一
type Grid [GridWeeks][7]time.Time

// 日期参数支持的格式，按顺序尝试
var dayLayouts = []string{
	"02-01-06",
	"02-01-2006",
	"2006-01-02",
}

// MonthGrid 生成 year 年 month 月的月视图
// 第一格为该月 1 日当天或之前最近的周一，共 42 个连续日期
func MonthGrid(year int, month time.Month) Grid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := now.With(first).Monday()

	var g Grid
	for w := 0; w < GridWeeks; w++ {
		for d := 0; d < 7; d++ {
			g[w][d] = start.AddDate(0, 0, w*7+d)
		}
	}
	return g
}

// Days 按行展开网格
func (g Grid) Days() []time.Time {
	out := make([]time.Time, 0, GridWeeks*7)
	for _, week := range g {
		out = append(out, week[:]...)
	}
	return out
}

// MonthBounds 返回某月的第一天与最后一天
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	n := now.With(time.Date(year, month, 15, 0, 0, 0, 0, time.UTC))
	return n.BeginningOfMonth(), DateOnly(n.EndOfMonth())
}

// PrevMonth 上一个月
func PrevMonth(year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return t.Year(), t.Month()
}

// NextMonth 下一个月
func NextMonth(year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return t.Year(), t.Month()
}

// ISOWeekday 返回 1（周一）到 7（周日）
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// DateOnly 截取日期部分，统一为 UTC 零点
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today 返回 loc 时区下的今天
func Today(loc *time.Location) time.Time {
	return DateOnly(time.Now().In(loc))
}

// ParseDay 解析日期参数（dd-mm-yy 为主），无法解析时返回 fallback
func ParseDay(s string, fallback time.Time) time.Time {
	if s == "" {
		return DateOnly(fallback)
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return DateOnly(fallback)
}

// FormatParam 格式化为 URL 中使用的 dd-mm-yy
func FormatParam(t time.Time) string {
	return t.Format("02-01-06")
}

// FormatHeading 导出标题中的日期，例如 "04 March 2024"
func FormatHeading(t time.Time) string {
	return t.Format("02 January 2006")
}

// FormatFileStamp 导出文件名中的日期，例如 "04_03_2024"
func FormatFileStamp(t time.Time) string {
	return t.Format("02_01_2006")
}
