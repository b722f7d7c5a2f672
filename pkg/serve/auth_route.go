package serve

import (
	"context"
	"net/http"

	"github.com/cometwk/erpadmin/pkg/appstate"
	"github.com/cometwk/erpadmin/pkg/logx"
	"github.com/labstack/echo/v4"
)

// LoginFunc 校验账号, 返回用户 ID 和角色
type LoginFunc func(ctx context.Context, email, password string) (userID, role string, err error)

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginOutput struct {
	Token   string            `json:"token"`
	Session *appstate.Session `json:"session"`
}

type AuthHandler struct {
	Login LoginFunc
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, admin *echo.Group) {
	e.POST("/login", h.SignIn)
	admin.POST("/logout", h.SignOut)
	admin.GET("/me", h.Me)
}

func (h *AuthHandler) SignIn(c echo.Context) error {
	var input LoginInput
	if err := c.Bind(&input); err != nil {
		return err
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	ctx := c.Request().Context()
	state, ok := appstate.FromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "应用状态未初始化")
	}

	userID, role, err := h.Login(ctx, input.Email, input.Password)
	if err != nil {
		logx.Logger(ctx).WithError(err).Warnf("登录失败: %s", input.Email)
		return echo.NewHTTPError(http.StatusUnauthorized, "用户名或密码错误")
	}
	s, token, err := state.Login(userID, role, c.Request().UserAgent())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, LoginOutput{Token: token, Session: s})
}

func (h *AuthHandler) SignOut(c echo.Context) error {
	state, _, err := currentSession(c)
	if err != nil {
		return err
	}
	if err := state.Logout(appstate.BearerToken(c.Request())); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return c.NoContent(http.StatusOK)
}

func (h *AuthHandler) Me(c echo.Context) error {
	state, s, err := currentSession(c)
	if err != nil {
		return err
	}
	role, _ := state.Role(s.Role)
	return c.JSON(http.StatusOK, echo.Map{"session": s, "role": role})
}
