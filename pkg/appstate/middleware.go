package appstate

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Middleware 把容器放入请求的 context
func Middleware(c *Container) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ec echo.Context) error {
			req := ec.Request()
			ec.SetRequest(req.WithContext(WithContainer(req.Context(), c)))
			return next(ec)
		}
	}
}

// BearerToken 从 Authorization 或 x-auth-token 读取 TOKEN
func BearerToken(req *http.Request) string {
	token := req.Header.Get("Authorization")
	if token == "" {
		return req.Header.Get("x-auth-token")
	}
	scheme, rest, ok := strings.Cut(token, " ")
	if !ok || scheme != "Bearer" {
		return ""
	}
	return strings.TrimSpace(rest)
}

// RequireAuth 验证 TOKEN 并把会话放入 context. 必须在 Middleware 之后
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ec echo.Context) error {
			req := ec.Request()
			c, ok := FromContext(req.Context())
			if !ok {
				return echo.NewHTTPError(http.StatusInternalServerError, "应用状态未初始化")
			}
			token := BearerToken(req)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "认证失败, 请求缺少认证 TOKEN")
			}
			s, err := c.Authenticate(token)
			if err != nil {
				xlog.WithError(err).WithField("path", req.URL.Path).Warn("认证失败")
				return echo.NewHTTPError(http.StatusUnauthorized, "认证失败")
			}
			ec.SetRequest(req.WithContext(WithSession(req.Context(), s)))
			ec.Set("session", s)
			return next(ec)
		}
	}
}
