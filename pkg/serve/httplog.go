package serve

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cometwk/erpadmin/pkg/env"
	"github.com/cometwk/erpadmin/pkg/orm"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

var xlog = logrus.WithField("module", "server")

// contextMiddleware 把 reqid 放入请求的 context, 并记录慢请求
func contextMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()
			reqid := c.Response().Header().Get(echo.HeaderXRequestID)
			req := c.Request()
			c.SetRequest(req.WithContext(orm.WithReqID(req.Context(), reqid)))

			c.Response().Before(func() {
				elapsed := time.Since(now).Seconds()
				if elapsed > 3 {
					xlog.WithField("reqid", reqid).Warnf("%s %s 耗时 %f 秒", req.Method, req.URL.Path, elapsed)
				} else if elapsed > 1 && env.IsDev() {
					xlog.WithField("reqid", reqid).Infof("%s %s 耗时 %f 秒", req.Method, req.URL.Path, elapsed)
				}
			})
			return next(c)
		}
	}
}

func readRequestBody(c echo.Context) string {
	req := c.Request()
	if req.Body == nil {
		return ""
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return ""
	}
	req.Body.Close()
	req.Body = io.NopCloser(bytes.NewBuffer(body))
	return string(body)
}

// httpLogMiddleware 每个请求一条 module=httplog 的日志, 终端按 HTTP 格式显示
func httpLogMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			res := c.Response()

			var requestBody string
			mimetype := req.Header.Get(echo.HeaderContentType)
			if env.IsDebug() && !strings.HasPrefix(mimetype, echo.MIMEMultipartForm) && req.URL.Path != "/login" {
				requestBody = readRequestBody(c)
			}

			err := next(c)

			latency := time.Since(start).Milliseconds()
			fields := logrus.Fields{
				"module":        "httplog",
				"latency":       latency,
				"latency_human": fmt.Sprintf("%dms", latency),
				"protocol":      req.Proto,
				"remote_ip":     c.RealIP(),
				"method":        req.Method,
				"uri":           req.RequestURI,
				"path":          req.URL.Path,
				"route":         c.Path(),
				"reqid":         res.Header().Get(echo.HeaderXRequestID),
				"user_agent":    req.UserAgent(),
				"status":        res.Status,
				"bytes_out":     res.Size,
				"request_body":  requestBody,
			}
			if err != nil {
				fields["error"] = err.Error()
				if he, ok := err.(*echo.HTTPError); ok {
					fields["status"] = he.Code
				}
			}
			xlog.WithFields(fields).Info("request")
			return err
		}
	}
}
