package serve

import (
	"github.com/cometwk/erpadmin/pkg/appstate"
	"github.com/labstack/echo/v4"
)

// Routes 登录接口公开, /admin 下的接口需要登录
func Routes(state *appstate.Container, login LoginFunc) func(e *echo.Echo) error {
	return func(e *echo.Echo) error {
		e.Use(appstate.Middleware(state))

		g := e.Group("/admin", appstate.RequireAuth())
		(&AuthHandler{Login: login}).RegisterRoutes(e, g)
		(&TableHandler{}).RegisterRoutes(g)
		(&DraftHandler{}).RegisterRoutes(g)
		return nil
	}
}
