package serve

import (
	"net/http"

	"github.com/cometwk/erpadmin/pkg/appstate"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type DraftInput struct {
	Entity string `param:"entity" validate:"required,colkey"`
	ID     int64  `param:"id"`
}

// DraftHandler 当前会话的表单草稿
type DraftHandler struct{}

func (h *DraftHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/drafts/:entity", h.Create)
	g.GET("/drafts/:entity", h.List)
	g.GET("/drafts/:entity/:id", h.Get)
	g.POST("/drafts/:entity/:id", h.Update)
	g.POST("/drafts/:entity/:id/delete", h.Delete)
}

func bindDraft(c echo.Context) (*DraftInput, error) {
	var input DraftInput
	if err := (&echo.DefaultBinder{}).BindPathParams(c, &input); err != nil {
		return nil, err
	}
	if err := c.Validate(&input); err != nil {
		return nil, err
	}
	return &input, nil
}

func bindData(c echo.Context) (map[string]any, error) {
	data := map[string]any{}
	if err := (&echo.DefaultBinder{}).BindBody(c, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func draftError(err error) error {
	switch {
	case errors.Is(err, appstate.ErrDraftNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "草稿不存在")
	case errors.Is(err, appstate.ErrNoSession):
		return echo.NewHTTPError(http.StatusUnauthorized, "会话已过期")
	}
	return err
}

func (h *DraftHandler) Create(c echo.Context) error {
	state, s, err := currentSession(c)
	if err != nil {
		return err
	}
	input, err := bindDraft(c)
	if err != nil {
		return err
	}
	data, err := bindData(c)
	if err != nil {
		return err
	}
	id, err := state.SaveDraft(s.ID, input.Entity, data)
	if err != nil {
		return draftError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id})
}

func (h *DraftHandler) List(c echo.Context) error {
	state, s, err := currentSession(c)
	if err != nil {
		return err
	}
	input, err := bindDraft(c)
	if err != nil {
		return err
	}
	drafts, err := state.Drafts(s.ID, input.Entity)
	if err != nil {
		return draftError(err)
	}
	return c.JSON(http.StatusOK, drafts)
}

func (h *DraftHandler) Get(c echo.Context) error {
	state, s, err := currentSession(c)
	if err != nil {
		return err
	}
	input, err := bindDraft(c)
	if err != nil {
		return err
	}
	d, err := state.Draft(s.ID, input.Entity, input.ID)
	if err != nil {
		return draftError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DraftHandler) Update(c echo.Context) error {
	state, s, err := currentSession(c)
	if err != nil {
		return err
	}
	input, err := bindDraft(c)
	if err != nil {
		return err
	}
	data, err := bindData(c)
	if err != nil {
		return err
	}
	if err := state.UpdateDraft(s.ID, input.Entity, input.ID, data); err != nil {
		return draftError(err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *DraftHandler) Delete(c echo.Context) error {
	state, s, err := currentSession(c)
	if err != nil {
		return err
	}
	input, err := bindDraft(c)
	if err != nil {
		return err
	}
	if err := state.DropDraft(s.ID, input.Entity, input.ID); err != nil {
		return draftError(err)
	}
	return c.NoContent(http.StatusOK)
}
