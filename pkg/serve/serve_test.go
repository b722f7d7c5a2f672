package serve

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/cometwk/erpadmin/pkg/appstate"
	"github.com/cometwk/erpadmin/pkg/model"
	"github.com/cometwk/erpadmin/pkg/orm"
	"github.com/cometwk/erpadmin/pkg/testutil"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "secret"

func testLogin(ctx context.Context, email, password string) (string, string, error) {
	session := orm.MustSession(ctx)
	defer session.Close()

	e, err := model.FindLogin(ctx, session, email)
	if err != nil {
		return "", "", err
	}
	if password != testPassword {
		return "", "", errors.New("密码错误")
	}
	return fmt.Sprint(e.ID), e.Role, nil
}

func newTestServer(t *testing.T) *echo.Echo {
	engine, err := orm.NewXormEngine("sqlite3", ":memory:")
	require.NoError(t, err)
	orm.InitEngine(engine)
	t.Cleanup(func() { orm.Close() })

	require.NoError(t, model.InitModels(engine))
	session := engine.NewSession()
	require.NoError(t, model.Seed(context.Background(), session))
	session.Close()
	model.Register()

	state, err := appstate.New(appstate.Config{Secret: []byte("test-secret"), TTL: time.Hour})
	require.NoError(t, err)
	t.Cleanup(state.Stop)

	e := NewEngine()
	require.NoError(t, Routes(state, testLogin)(e))
	return e
}

func login(t *testing.T, e *echo.Echo, email string) http.Header {
	rec := testutil.Post(e, "/login", fmt.Sprintf(`{"email": " %s ", "password": %q}`, email, testPassword))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Token   string            `json:"token"`
		Session *appstate.Session `json:"session"`
	}
	require.NoError(t, rec.Decode(&out))
	require.NotEmpty(t, out.Token)
	return testutil.Bearer(out.Token)
}

func TestLoginFlow(t *testing.T) {
	e := newTestServer(t)

	testCases := []struct {
		name string
		body string
		code int
	}{
		{"密码错误", `{"email": "alice@example.com", "password": "x"}`, http.StatusUnauthorized},
		{"离职员工", `{"email": "david@example.com", "password": "secret"}`, http.StatusUnauthorized},
		{"邮箱格式", `{"email": "alice", "password": "secret"}`, http.StatusBadRequest},
		{"缺少密码", `{"email": "alice@example.com"}`, http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := testutil.Post(e, "/login", tc.body)
			assert.Equal(t, tc.code, rec.Code)
			body, err := rec.BodyJson()
			require.NoError(t, err)
			assert.NotEmpty(t, body["message"])
		})
	}

	header := login(t, e, "alice@example.com")
	rec := testutil.GetWithHeader(e, "/admin/me", nil, header)
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := rec.BodyJson()
	require.NoError(t, err)
	assert.Equal(t, "admin", body["session"].(map[string]any)["role"])

	rec = testutil.PostWithHeader(e, "/admin/logout", "{}", header)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = testutil.GetWithHeader(e, "/admin/me", nil, header)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = testutil.Get(e, "/admin/tables", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTableList(t *testing.T) {
	e := newTestServer(t)

	testCases := []struct {
		email string
		want  []string
	}{
		{"alice@example.com", []string{"banners", "coupons", "customers", "deliveries", "employees", "feedbacks", "memberships", "offers"}},
		{"bob@example.com", []string{"banners", "coupons", "customers", "deliveries", "feedbacks", "memberships", "offers"}},
		{"carol@example.com", []string{"customers", "deliveries", "feedbacks", "memberships"}},
	}
	for _, tc := range testCases {
		t.Run(tc.email, func(t *testing.T) {
			rec := testutil.GetWithHeader(e, "/admin/tables", nil, login(t, e, tc.email))
			require.Equal(t, http.StatusOK, rec.Code)
			var tables []TableInfo
			require.NoError(t, rec.Decode(&tables))
			var names []string
			for _, tbl := range tables {
				names = append(names, tbl.Name)
			}
			assert.Equal(t, tc.want, names)
		})
	}
}

type searchResponse struct {
	Data []struct {
		Ordinal int `json:"ordinal"`
		Record  struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"record"`
	} `json:"data"`
	Page       int    `json:"page"`
	Pagesize   int    `json:"pagesize"`
	Total      int    `json:"total"`
	Filtered   int    `json:"filtered"`
	TotalPages int    `json:"total_pages"`
	Window     []any  `json:"window"`
	Search     string `json:"q"`
	Sort       struct {
		Key       string `json:"key"`
		Direction string `json:"direction"`
	} `json:"sort"`
}

func (r *searchResponse) names() []string {
	out := []string{}
	for _, row := range r.Data {
		out = append(out, row.Record.Name)
	}
	return out
}

func TestTableSearch(t *testing.T) {
	e := newTestServer(t)
	header := login(t, e, "alice@example.com")

	search := func(query url.Values) (*searchResponse, int) {
		rec := testutil.GetWithHeader(e, "/admin/table/employees/search", query, header)
		if rec.Code != http.StatusOK {
			return nil, rec.Code
		}
		var r searchResponse
		require.NoError(t, rec.Decode(&r))
		return &r, rec.Code
	}

	r, _ := search(nil)
	require.NotNil(t, r)
	assert.Equal(t, 0, r.Page)
	assert.Equal(t, 10, r.Pagesize)
	assert.Equal(t, 12, r.Total)
	assert.Equal(t, 2, r.TotalPages)
	assert.Len(t, r.Data, 10)
	assert.Equal(t, "Alice", r.Data[0].Record.Name)
	assert.Equal(t, 1, r.Data[0].Ordinal)
	assert.Equal(t, "name", r.Sort.Key)

	r, _ = search(url.Values{"page": {"1"}})
	require.NotNil(t, r)
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, []string{"Mallory", "Niaj"}, r.names())
	assert.Equal(t, 11, r.Data[0].Ordinal)

	r, _ = search(url.Values{"q": {" 上海 "}})
	require.NotNil(t, r)
	assert.Equal(t, "上海", r.Search)
	assert.Equal(t, 3, r.Filtered)

	r, _ = search(url.Values{"sort": {"name"}, "dir": {"desc"}, "pagesize": {"3"}})
	require.NotNil(t, r)
	assert.Equal(t, []string{"Niaj", "Mallory", "Judy"}, r.names())
	assert.Equal(t, "desc", r.Sort.Direction)
	assert.Equal(t, 4, r.TotalPages)

	r, _ = search(url.Values{"where.role.eq": {"viewer"}})
	require.NotNil(t, r)
	assert.Equal(t, 4, r.Total)
	assert.Equal(t, []string{"Carol", "Frank", "Ivan", "Niaj"}, r.names())

	r, _ = search(url.Values{"status": {"false"}})
	require.NotNil(t, r)
	assert.Equal(t, 3, r.Filtered)

	for _, bad := range []url.Values{
		{"sort": {"1x"}},
		{"dir": {"up"}},
		{"page": {"-1"}},
		{"where.email.eq": {"x"}},
	} {
		_, code := search(bad)
		assert.Equal(t, http.StatusBadRequest, code, bad.Encode())
	}
}

func TestTableAccess(t *testing.T) {
	e := newTestServer(t)
	viewer := login(t, e, "carol@example.com")

	rec := testutil.GetWithHeader(e, "/admin/table/employees/meta", nil, viewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = testutil.GetWithHeader(e, "/admin/table/nothing/meta", nil, viewer)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = testutil.GetWithHeader(e, "/admin/table/customers/meta", nil, viewer)
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := rec.BodyJson()
	require.NoError(t, err)
	assert.Equal(t, "customers", body["name"])
	assert.NotEmpty(t, body["columns"])
}

func TestTableAction(t *testing.T) {
	e := newTestServer(t)
	header := login(t, e, "alice@example.com")

	rec := testutil.GetWithHeader(e, "/admin/table/employees/search", url.Values{"q": {"Bob"}}, header)
	require.Equal(t, http.StatusOK, rec.Code)
	var r searchResponse
	require.NoError(t, rec.Decode(&r))
	require.Len(t, r.Data, 1)
	id := fmt.Sprint(r.Data[0].Record.ID)

	testCases := []struct {
		name   string
		action string
		body   string
		code   int
	}{
		{"未知操作", "nothing", fmt.Sprintf(`{"id": %q}`, id), http.StatusNotFound},
		{"未知记录", "toggle", `{"id": "1"}`, http.StatusNotFound},
		{"缺少 id", "toggle", `{}`, http.StatusBadRequest},
		{"切换状态", "toggle", fmt.Sprintf(`{"id": %q}`, id), http.StatusOK},
		{"编辑", "edit", fmt.Sprintf(`{"id": %q}`, id), http.StatusOK},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := testutil.PostWithHeader(e, "/admin/table/employees/action/"+tc.action, tc.body, header)
			assert.Equal(t, tc.code, rec.Code, rec.Body.String())
		})
	}

	// 编辑操作写入了当前会话的草稿
	rec = testutil.GetWithHeader(e, "/admin/drafts/employee", nil, header)
	require.Equal(t, http.StatusOK, rec.Code)
	drafts, err := rec.BodyArrayJson()
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	data := drafts[0]["data"].(map[string]any)
	assert.Equal(t, "Bob", data["name"])
	assert.Equal(t, false, data["active"])

	// 已发货的订单不能再发货
	rec = testutil.GetWithHeader(e, "/admin/table/deliveries/search", url.Values{"where.status.eq": {"delivered"}}, header)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, rec.Decode(&r))
	require.NotEmpty(t, r.Data)
	rec = testutil.PostWithHeader(e, "/admin/table/deliveries/action/ship", fmt.Sprintf(`{"id": "%d"}`, r.Data[0].Record.ID), header)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDraftRoutes(t *testing.T) {
	e := newTestServer(t)
	header := login(t, e, "bob@example.com")

	rec := testutil.PostWithHeader(e, "/admin/drafts/coupon", `{"code": "NEW", "amount": 10}`, header)
	require.Equal(t, http.StatusOK, rec.Code)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, rec.Decode(&created))
	path := fmt.Sprintf("/admin/drafts/coupon/%d", created.ID)

	rec = testutil.PostWithHeader(e, path, `{"code": "NEW2"}`, header)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = testutil.GetWithHeader(e, path, nil, header)
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := rec.BodyJson()
	require.NoError(t, err)
	assert.Equal(t, "coupon", body["entity"])
	assert.Equal(t, "NEW2", body["data"].(map[string]any)["code"])

	// 其它会话看不到
	other := login(t, e, "carol@example.com")
	rec = testutil.GetWithHeader(e, path, nil, other)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = testutil.PostWithHeader(e, path+"/delete", "{}", header)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = testutil.GetWithHeader(e, path, nil, header)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = testutil.PostWithHeader(e, "/admin/drafts/bad-name", `{}`, header)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPErrorHandler(t *testing.T) {
	e := NewEngine()
	e.GET("/plain", func(c echo.Context) error { return errors.New("boom") })
	e.GET("/bad", func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadRequest, "参数错误") })
	e.GET("/wrapped", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusConflict).SetInternal(echo.NewHTTPError(http.StatusTeapot, "inner"))
	})

	testCases := []struct {
		path    string
		code    int
		message string
	}{
		{"/plain", http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)},
		{"/bad", http.StatusBadRequest, "参数错误"},
		{"/wrapped", http.StatusTeapot, "inner"},
		{"/missing", http.StatusNotFound, "Not Found"},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			rec := testutil.Get(e, tc.path, nil)
			assert.Equal(t, tc.code, rec.Code)
			body, err := rec.BodyJson()
			require.NoError(t, err)
			assert.Equal(t, tc.message, body["message"])
		})
	}
}

func TestBinderTrim(t *testing.T) {
	e := NewEngine()
	type input struct {
		Name  string            `json:"name" validate:"required"`
		Tags  []string          `json:"tags"`
		Extra map[string]string `json:"extra"`
	}
	e.POST("/echo", func(c echo.Context) error {
		var in input
		if err := c.Bind(&in); err != nil {
			return err
		}
		if err := c.Validate(&in); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, in)
	})

	rec := testutil.Post(e, "/echo", `{"name": " amy ", "tags": [" a", "b "], "extra": {"k": " v "}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var out input
	require.NoError(t, rec.Decode(&out))
	assert.Equal(t, input{Name: "amy", Tags: []string{"a", "b"}, Extra: map[string]string{"k": "v"}}, out)

	rec = testutil.Post(e, "/echo", `{"name": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body, err := rec.BodyJson()
	require.NoError(t, err)
	assert.Equal(t, "Name 为必填项", body["message"])
}
