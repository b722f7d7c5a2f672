package appstate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }

func newTestContainer(t *testing.T) (*Container, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	c, err := New(Config{Secret: []byte("test-secret"), TTL: time.Hour, Now: clock.now})
	require.NoError(t, err)
	return c, clock
}

func TestNew(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoSecret)

	c, err := New(Config{Secret: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, DefaultIssuer, c.cfg.Issuer)
	assert.Equal(t, DefaultTTL, c.cfg.TTL)
	_, ok := c.Role("viewer")
	assert.True(t, ok)
}

func TestLogin(t *testing.T) {
	c, clock := newTestContainer(t)

	s, token, err := c.Login("u1", "editor", chromeUA)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "u1", s.UserID)
	assert.Contains(t, s.Browser, "Chrome")
	assert.Contains(t, s.OS, "Windows")
	assert.Equal(t, clock.t.Add(time.Hour), s.ExpiresAt)

	got, err := c.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	_, _, err = c.Login("u2", "nobody", "")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestAuthenticateErrors(t *testing.T) {
	c, clock := newTestContainer(t)
	_, token, err := c.Login("u1", "viewer", "")
	require.NoError(t, err)

	testCases := []struct {
		name  string
		token string
		want  error
	}{
		{"空 TOKEN", "", ErrInvalidToken},
		{"格式错误", "invalid.token.string", ErrInvalidToken},
		{"篡改", token + "x", ErrInvalidToken},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Authenticate(tc.token)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	// 其它密钥签发的 TOKEN
	other, err := New(Config{Secret: []byte("other"), Now: clock.now})
	require.NoError(t, err)
	_, foreign, err := other.Login("u1", "viewer", "")
	require.NoError(t, err)
	_, err = c.Authenticate(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// 过期
	clock.t = clock.t.Add(2 * time.Hour)
	_, err = c.Authenticate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout(t *testing.T) {
	c, _ := newTestContainer(t)
	s, token, err := c.Login("u1", "admin", "")
	require.NoError(t, err)
	_, err = c.SaveDraft(s.ID, "employee", map[string]any{"name": "Bob"})
	require.NoError(t, err)

	require.NoError(t, c.Logout(token))
	_, err = c.Authenticate(token)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = c.Drafts(s.ID, "employee")
	assert.ErrorIs(t, err, ErrNoSession)

	assert.ErrorIs(t, c.Logout(token), ErrNoSession)
}

func TestCan(t *testing.T) {
	c, _ := newTestContainer(t)
	admin, _, _ := c.Login("a", "admin", "")
	editor, _, _ := c.Login("e", "editor", "")
	viewer, _, _ := c.Login("v", "viewer", "")

	assert.True(t, c.Can(admin, "employees"))
	assert.True(t, c.Can(editor, "employees"))
	assert.True(t, c.Can(viewer, "customers"))
	assert.False(t, c.Can(viewer, "employees"))
	assert.False(t, c.Can(nil, "customers"))
	assert.False(t, c.Can(&Session{Role: "ghost"}, "customers"))
}

func TestDrafts(t *testing.T) {
	c, _ := newTestContainer(t)
	s, _, err := c.Login("u1", "editor", "")
	require.NoError(t, err)

	data := map[string]any{"name": "Bob"}
	id1, err := c.SaveDraft(s.ID, "employee", data)
	require.NoError(t, err)
	id2, err := c.SaveDraft(s.ID, "employee", map[string]any{"name": "Amy"})
	require.NoError(t, err)
	_, err = c.SaveDraft(s.ID, "customer", map[string]any{"name": "Acme"})
	require.NoError(t, err)

	// 保存的是副本
	data["name"] = "changed"
	d, err := c.Draft(s.ID, "employee", id1)
	require.NoError(t, err)
	assert.Equal(t, "Bob", d.Data["name"])
	d.Data["name"] = "changed"
	d, _ = c.Draft(s.ID, "employee", id1)
	assert.Equal(t, "Bob", d.Data["name"])

	list, err := c.Drafts(s.ID, "employee")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, id1, list[0].ID)
	assert.Equal(t, id2, list[1].ID)

	require.NoError(t, c.UpdateDraft(s.ID, "employee", id2, map[string]any{"name": "Amy2"}))
	d, _ = c.Draft(s.ID, "employee", id2)
	assert.Equal(t, "Amy2", d.Data["name"])

	require.NoError(t, c.DropDraft(s.ID, "employee", id1))
	_, err = c.Draft(s.ID, "employee", id1)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	assert.ErrorIs(t, c.DropDraft(s.ID, "employee", id1), ErrDraftNotFound)

	_, err = c.SaveDraft("nope", "employee", nil)
	assert.ErrorIs(t, err, ErrNoSession)

	// 绑定会话的草稿接口
	id, err := c.DraftSaver(s.ID).SaveDraft("banner", map[string]any{"title": "x"})
	require.NoError(t, err)
	_, err = c.Draft(s.ID, "banner", id)
	assert.NoError(t, err)
}

func TestSweep(t *testing.T) {
	c, clock := newTestContainer(t)
	s1, _, _ := c.Login("u1", "viewer", "")
	clock.t = clock.t.Add(30 * time.Minute)
	s2, token2, _ := c.Login("u2", "viewer", "")
	_, err := c.SaveDraft(s1.ID, "customer", nil)
	require.NoError(t, err)

	clock.t = clock.t.Add(40 * time.Minute)
	assert.Equal(t, 1, c.Sweep())
	_, err = c.Drafts(s1.ID, "customer")
	assert.ErrorIs(t, err, ErrNoSession)

	got, err := c.Authenticate(token2)
	require.NoError(t, err)
	assert.Equal(t, s2.ID, got.ID)
	assert.Equal(t, 0, c.Sweep())
}

func TestStartStop(t *testing.T) {
	c, _ := newTestContainer(t)
	require.NoError(t, c.Start())
	assert.True(t, c.Started())
	assert.ErrorIs(t, c.Start(), ErrStarted)

	_, token, _ := c.Login("u1", "viewer", "")
	c.Stop()
	assert.False(t, c.Started())
	_, err := c.Authenticate(token)
	assert.ErrorIs(t, err, ErrNoSession)

	bad, err := New(Config{Secret: []byte("x"), Sweep: "every now and then"})
	require.NoError(t, err)
	assert.Error(t, bad.Start())
	assert.False(t, bad.Started())
}

func TestContext(t *testing.T) {
	c, _ := newTestContainer(t)
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithContainer(context.Background(), c)
	got, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Same(t, c, got)

	s := &Session{ID: "s"}
	got2, ok := SessionFrom(WithSession(ctx, s))
	assert.True(t, ok)
	assert.Same(t, s, got2)
}

func TestRequireAuth(t *testing.T) {
	c, _ := newTestContainer(t)
	s, token, err := c.Login("u1", "viewer", "")
	require.NoError(t, err)

	e := echo.New()
	e.Use(Middleware(c))
	e.GET("/me", func(ec echo.Context) error {
		got, _ := SessionFrom(ec.Request().Context())
		return ec.String(http.StatusOK, got.ID)
	}, RequireAuth())

	testCases := []struct {
		name   string
		header map[string]string
		code   int
	}{
		{"Bearer", map[string]string{"Authorization": "Bearer " + token}, http.StatusOK},
		{"x-auth-token", map[string]string{"x-auth-token": token}, http.StatusOK},
		{"缺少 TOKEN", nil, http.StatusUnauthorized},
		{"格式错误", map[string]string{"Authorization": token}, http.StatusUnauthorized},
		{"无效 TOKEN", map[string]string{"Authorization": "Bearer x.y.z"}, http.StatusUnauthorized},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tc.code, rec.Code)
			if tc.code == http.StatusOK {
				assert.Equal(t, s.ID, rec.Body.String())
			}
		})
	}
}
