// Package render 将 document.Document 排版为可下载的文件。
package render

import (
	"context"
	"fmt"

	"school-organizer/internal/document"
	pkgerrors "school-organizer/pkg/errors"
)

// Renderer 文档渲染器
// 渲染失败时返回包装了 ErrRenderFailed 的错误，不返回部分输出
type Renderer interface {
	Format() string
	ContentType() string
	Extension() string
	Render(ctx context.Context, doc *document.Document) ([]byte, error)
}

func renderFailed(stage string, err error) error {
	return fmt.Errorf("%w: %s: %v", pkgerrors.ErrRenderFailed, stage, err)
}

// checkCtx 在排版的各个阶段之间检查超时与取消
func checkCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}
