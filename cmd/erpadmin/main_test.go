package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cometwk/erpadmin/pkg/tablecfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckFile(t *testing.T) {
	assert.NoError(t, checkFile("../../tables/customer_points.yaml"))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`
name: bad
columns:
  - {key: name}
actions:
  - {variant: button, name: x, label: X, handler: nope}
`), 0o644))
	assert.ErrorIs(t, checkFile(bad), tablecfg.ErrInvalid)

	assert.Error(t, checkFile("../../tables/missing.yaml"))
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_URL", filepath.Join(dir, "erp.db"))
	t.Setenv("TABLE_DIR", "../../tables")
	t.Setenv("LOG_LEVEL", "error")

	app := newApp()
	require.NoError(t, app.Run([]string{"erpadmin", "seed"}))

	testCases := []struct {
		name string
		args []string
		ok   bool
	}{
		{"实体表格", []string{"render", "-t", "employees", "--q", "上海", "--no-color"}, true},
		{"排序和分页", []string{"render", "-t", "customers", "--sort", "points", "--desc", "-p", "2", "--pagesize", "3"}, true},
		{"数据库条件", []string{"render", "-t", "deliveries", "-w", "status.eq=pending"}, true},
		{"声明式表格", []string{"render", "-t", "customer_points", "--status", "gold"}, true},
		{"未知表格", []string{"render", "-t", "nothing"}, false},
		{"条件不在白名单", []string{"render", "-t", "employees", "-w", "email.eq=x"}, false},
		{"条件格式错误", []string{"render", "-t", "employees", "-w", "role"}, false},
		{"校验定义", []string{"config", "check", "../../tables/customer_points.yaml"}, true},
		{"输出定义", []string{"config", "show", "../../tables/customer_points.yaml"}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := newApp().Run(append([]string{"erpadmin"}, tc.args...))
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
