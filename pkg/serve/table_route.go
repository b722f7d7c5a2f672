package serve

import (
	"net/http"
	"slices"
	"strings"

	"github.com/cometwk/erpadmin/pkg/admin"
	"github.com/cometwk/erpadmin/pkg/appstate"
	"github.com/cometwk/erpadmin/pkg/logx"
	"github.com/cometwk/erpadmin/pkg/orm"
	"github.com/cometwk/erpadmin/pkg/table"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type SearchInput struct {
	Q        string `query:"q"`
	Status   string `query:"status"`
	Sort     string `query:"sort" validate:"omitempty,colkey"`
	Dir      string `query:"dir" validate:"omitempty,oneof=asc desc"`
	Page     int    `query:"page" validate:"gte=0"`     // 从 0 开始
	Pagesize int    `query:"pagesize" validate:"gte=0"` // 0 使用表格的默认值
}

type ActionInput struct {
	ID string `json:"id" validate:"required"`
}

// SearchResult 列表结果. page 从 0 开始
type SearchResult struct {
	orm.Result[[]admin.ListingRow]
	Filtered     int               `json:"filtered"`
	TotalPages   int               `json:"total_pages"`
	Window       []table.PageItem  `json:"window"`
	Sort         table.SortState   `json:"sort"`
	Search       string            `json:"q"`
	Status       table.StatusValue `json:"status"`
	Empty        bool              `json:"empty"`
	EmptyMessage string            `json:"empty_message"`
	Columns      []table.Header    `json:"columns"`
}

type TableInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// TableHandler 已注册表格的列表接口
type TableHandler struct{}

func (h *TableHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/tables", h.List)
	g.GET("/table/:name/meta", h.Meta)
	g.GET("/table/:name/search", h.Search)
	g.POST("/table/:name/action/:action", h.Action)
}

// allowed 表格自身的角色限制和会话角色的表格权限都要满足
func allowed(state *appstate.Container, s *appstate.Session, e admin.Entry) bool {
	if roles := e.Roles(); len(roles) > 0 && !slices.Contains(roles, s.Role) {
		if r, ok := state.Role(s.Role); !ok || !r.Super {
			return false
		}
	}
	return state.Can(s, e.Name())
}

func currentSession(c echo.Context) (*appstate.Container, *appstate.Session, error) {
	ctx := c.Request().Context()
	state, ok := appstate.FromContext(ctx)
	if !ok {
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, "应用状态未初始化")
	}
	s, ok := appstate.SessionFrom(ctx)
	if !ok {
		return nil, nil, echo.NewHTTPError(http.StatusUnauthorized, "未登录")
	}
	return state, s, nil
}

func (h *TableHandler) entry(c echo.Context) (admin.Entry, *appstate.Container, *appstate.Session, error) {
	state, s, err := currentSession(c)
	if err != nil {
		return nil, nil, nil, err
	}
	e, err := admin.Lookup(c.Param("name"))
	if err != nil {
		return nil, nil, nil, echo.NewHTTPError(http.StatusNotFound, "表格不存在")
	}
	if !allowed(state, s, e) {
		logx.Table(c.Request().Context(), e.Name(), s.UserID).Warnf("角色 %s 没有访问权限", s.Role)
		return nil, nil, nil, echo.NewHTTPError(http.StatusForbidden, "没有访问权限")
	}
	return e, state, s, nil
}

// List 当前用户可以访问的表格
func (h *TableHandler) List(c echo.Context) error {
	state, s, err := currentSession(c)
	if err != nil {
		return err
	}
	out := []TableInfo{}
	for _, e := range admin.Entries() {
		if allowed(state, s, e) {
			out = append(out, TableInfo{Name: e.Name(), Title: e.Title()})
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TableHandler) Meta(c echo.Context) error {
	e, _, _, err := h.entry(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e.Meta())
}

func whereParams(c echo.Context) map[string]string {
	where := map[string]string{}
	for k, v := range c.QueryParams() {
		if strings.HasPrefix(k, "where.") && len(v) > 0 {
			where[k] = strings.TrimSpace(v[0])
		}
	}
	return where
}

func (h *TableHandler) Search(c echo.Context) error {
	e, _, _, err := h.entry(c)
	if err != nil {
		return err
	}
	var input SearchInput
	if err := c.Bind(&input); err != nil {
		return err
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	q := admin.Query{
		Search:   input.Q,
		Status:   table.ParseStatusValue(input.Status),
		Page:     input.Page + 1,
		PageSize: min(input.Pagesize, orm.MaxPagesize),
		Where:    whereParams(c),
	}
	if input.Sort != "" {
		q.Sort = table.SortState{Key: input.Sort, Direction: table.ParseSortDirection(input.Dir)}
	}

	ctx := c.Request().Context()
	session := orm.MustSession(ctx)
	defer session.Close()

	cursor, err := e.Open(ctx, session, q, nil)
	if err != nil {
		if errors.Is(err, admin.ErrBadQuery) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, resultOf(cursor.Listing()))
}

func resultOf(l *admin.Listing) *SearchResult {
	r := &SearchResult{
		Filtered:     l.Filtered,
		TotalPages:   l.TotalPages,
		Window:       l.Window,
		Sort:         l.Sort,
		Search:       l.Search,
		Status:       l.Status,
		Empty:        l.Empty,
		EmptyMessage: l.EmptyMessage,
		Columns:      l.Headers,
	}
	r.Data = l.Rows
	r.Page = int64(l.CurrentPage - 1)
	r.Pagesize = int64(l.PageSize)
	r.Total = int64(l.Total)
	return r
}

// Action 按记录 id 执行行操作
func (h *TableHandler) Action(c echo.Context) error {
	e, state, s, err := h.entry(c)
	if err != nil {
		return err
	}
	var input ActionInput
	if err := c.Bind(&input); err != nil {
		return err
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	ctx := c.Request().Context()
	session := orm.MustSession(ctx)
	defer session.Close()

	ac := &admin.ActionContext{Drafts: state.DraftSaver(s.ID)}
	cursor, err := e.Open(ctx, session, admin.Query{}, ac)
	if err != nil {
		return err
	}

	name := c.Param("action")
	err = cursor.Invoke(name, input.ID)
	switch {
	case errors.Is(err, admin.ErrActionNotFound), errors.Is(err, admin.ErrRowNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case err != nil:
		return err
	}
	if ac.Err != nil {
		logx.Table(ctx, e.Name(), s.UserID).WithError(ac.Err).Warnf("操作 %s 失败", name)
		return echo.NewHTTPError(http.StatusBadRequest, ac.Err.Error())
	}
	logx.Table(ctx, e.Name(), s.UserID).Infof("执行操作 %s, id %s", name, input.ID)
	return c.JSON(http.StatusOK, echo.Map{"result": ac.Result})
}
