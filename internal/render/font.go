package render

import (
	"fmt"
	"os"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// fontSet 正文与粗体字体数据（TTF）
// 未配置字体文件时使用内置 Go 字体，覆盖 WGL4 字符集（拉丁、西里尔、希腊字母）
type fontSet struct {
	regular []byte
	bold    []byte
}

func builtinFonts() fontSet {
	return fontSet{regular: goregular.TTF, bold: gobold.TTF}
}

// loadFonts 读取配置的字体文件，正文与粗体共用同一文件
func loadFonts(fontPath string) (fontSet, error) {
	if fontPath == "" {
		return builtinFonts(), nil
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return fontSet{}, fmt.Errorf("读取字体文件失败: %w", err)
	}
	return fontSet{regular: data, bold: data}, nil
}
