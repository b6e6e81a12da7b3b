package errors

import "errors"

// ── 导出渲染 ──

// ErrRenderFailed 渲染 PDF / JPEG 失败，不返回任何部分输出
var ErrRenderFailed = errors.New("文件渲染失败")

// ErrRenderTimeout 渲染超过配置的超时时间
var ErrRenderTimeout = errors.New("文件渲染超时")

// ErrUnsupportedFormat 不支持的导出格式
var ErrUnsupportedFormat = errors.New("不支持的导出格式")
