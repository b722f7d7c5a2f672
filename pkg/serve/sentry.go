package serve

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// InitSentry dsn 为空时不启用
func InitSentry(dsn, environment string) error {
	if dsn == "" {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	})
	if err != nil {
		return errors.Wrap(err, "初始化 sentry")
	}
	xlog.Info("sentry 已启用")
	return nil
}

func captureError(c echo.Context, err error) {
	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}
	hub = hub.Clone()
	hub.Scope().SetRequest(c.Request())
	hub.Scope().SetTag("reqid", c.Response().Header().Get(echo.HeaderXRequestID))
	hub.Scope().SetTag("route", c.Path())
	hub.CaptureException(err)
}

func flushSentry() {
	if sentry.CurrentHub().Client() != nil {
		sentry.Flush(2 * time.Second)
	}
}
