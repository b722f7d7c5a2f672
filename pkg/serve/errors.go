package serve

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// httpErrorHandler 记录日志, 5xx 上报 sentry, 统一输出 {"message": ...}
func httpErrorHandler(err error, c echo.Context) {
	req := c.Request()
	reqid := c.Response().Header().Get(echo.HeaderXRequestID)

	he, ok := err.(*echo.HTTPError)
	if ok {
		if herr, ok := he.Internal.(*echo.HTTPError); ok {
			he = herr
		}
	} else {
		he = &echo.HTTPError{
			Code:     http.StatusInternalServerError,
			Message:  http.StatusText(http.StatusInternalServerError),
			Internal: err,
		}
	}

	log := xlog.WithField("reqid", reqid).WithField("url", req.URL.String()).WithField("method", req.Method).WithError(err)
	if he.Code >= http.StatusInternalServerError {
		log.Errorf("HTTP服务错误: %v", err)
		captureError(c, err)
	} else {
		log.Infof("HTTP请求错误: %d", he.Code)
	}

	if c.Response().Committed {
		return
	}

	message := he.Message
	switch m := he.Message.(type) {
	case string:
		message = echo.Map{"message": m}
	case json.Marshaler:
	case error:
		message = echo.Map{"message": m.Error()}
	}

	if req.Method == http.MethodHead {
		err = c.NoContent(he.Code)
	} else {
		err = c.JSON(he.Code, message)
	}
	if err != nil {
		log.WithError(err).Warn("写入错误响应失败")
	}
}
