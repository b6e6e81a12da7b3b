package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry 初始化 Sentry，dsn 为空时不启用
// 返回的函数用于退出前刷新缓冲事件
func InitSentry(dsn, env, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
		Release:     release,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// CaptureRequestErr 上报带请求上下文的错误
func CaptureRequestErr(err error, method, route, requestID string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("method", method)
		scope.SetTag("route", route)
		if requestID != "" {
			scope.SetTag("request_id", requestID)
		}
		sentry.CaptureException(err)
	})
}
