package tablecfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cometwk/erpadmin/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vendors() []Record {
	return []Record{
		{"name": "Acme", "code": "A01", "active": true, "address": map[string]any{"city": "上海"}},
		{"name": "Bolt", "code": "B07", "active": false, "address": map[string]any{"city": "北京"}},
		{"name": "Core", "code": "C03", "active": true},
	}
}

func names(rows []table.Row[Record]) []string {
	out := []string{}
	for _, r := range rows {
		out = append(out, r.Text("name"))
	}
	return out
}

func TestLoadYAML(t *testing.T) {
	def, err := Load("testdata/vendors.yaml")
	require.NoError(t, err)
	assert.Equal(t, "vendors", def.Name)
	assert.Equal(t, "vendor", def.Table())
	assert.Len(t, def.Columns, 3)
	assert.Equal(t, []string{"name", "code"}, def.Search.Keys)
	assert.Equal(t, 2, def.Pagination.ItemsPerPage)
	assert.Equal(t, true, def.Status.Options[1].Value)
	assert.Equal(t, "testdata/vendors.yaml", def.File)
}

func TestLoadDir(t *testing.T) {
	defs, err := LoadDir("testdata")
	require.NoError(t, err)
	require.Len(t, defs, 3)
	assert.Equal(t, "regions", defs[0].Name)
	assert.Equal(t, "tags", defs[1].Name)
	assert.Equal(t, "vendors", defs[2].Name)
	assert.Equal(t, "tags", defs[1].Table())

	// TOML 数字值转为字符串状态
	opts, err := Build(defs[0], nil)
	require.NoError(t, err)
	assert.Equal(t, table.StringStatus("1"), opts.Status.Options[0].Value)
}

func TestLoadDirDuplicate(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile("testdata/tags.json")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), data, 0o644))

	_, err = LoadDir(dir)
	assert.ErrorContains(t, err, "重复定义")
}

func TestParseInvalid(t *testing.T) {
	testCases := []struct {
		name   string
		data   string
		format string
	}{
		{"缺少 columns", `{"name": "x"}`, "json"},
		{"空 columns", `{"name": "x", "columns": []}`, "json"},
		{"未知字段", `{"name": "x", "columns": [{"key": "a"}], "colour": 1}`, "json"},
		{"非法表名", `{"name": "X-1", "columns": [{"key": "a"}]}`, "json"},
		{"非法方向", "name: x\ncolumns: [{key: a}]\nsort: {key: a, direction: up}", "yaml"},
		{"重复列", "name: x\ncolumns: [{key: a}, {key: a}]", "yaml"},
		{"排序列不存在", "name: x\ncolumns: [{key: a}]\nsort: {key: b}", "yaml"},
		{"状态缺少 accessor", "name: x\ncolumns: [{key: a}]\nstatus: {enabled: true}", "yaml"},
		{"空文件", "", "yaml"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data), tc.format)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	_, err := Parse([]byte(`{`), "json")
	assert.Error(t, err)
	_, err = Parse([]byte(`name: x`), "ini")
	assert.ErrorContains(t, err, "不支持的格式")
}

func TestBuildView(t *testing.T) {
	def, err := Load("testdata/vendors.yaml")
	require.NoError(t, err)

	var clicked []string
	handlers := map[string]Handler{
		"record": func(name string, row Record) { clicked = append(clicked, name+":"+row["name"].(string)) },
	}
	v, err := NewView(def, handlers)
	require.NoError(t, err)
	v.SetData(vendors())

	// 初始排序 name desc, 每页 2 条
	r := v.Render()
	assert.Equal(t, []string{"Core", "Bolt"}, names(r.Rows))
	assert.Equal(t, 2, r.TotalPages)
	assert.Equal(t, "Bolt (B07)", r.Rows[1].Text("label"))
	assert.Equal(t, "", r.Rows[0].Text("address.city"))
	assert.Equal(t, "没有供应商", r.EmptyMessage)

	// 表达式列按 sort_expr 排序
	v.ToggleSort("label")
	r = v.Render()
	assert.Equal(t, []string{"Acme", "Bolt"}, names(r.Rows))

	v.SetStatus(table.ParseStatusValue("false"))
	r = v.Render()
	assert.Equal(t, []string{"Bolt"}, names(r.Rows))

	v.SetStatus(table.AllStatus())
	v.SetSearch("c0")
	r = v.Render()
	assert.Equal(t, []string{"Core"}, names(r.Rows))

	require.True(t, r.Click(0, 0))
	assert.Equal(t, []string{"vendors:Core"}, clicked)
	assert.Equal(t, "[停用]", "["+r.Rows[0].Actions[1].Caption+"]")
}

func TestBuildErrors(t *testing.T) {
	def, err := Load("testdata/vendors.yaml")
	require.NoError(t, err)

	_, err = Build(def, nil)
	assert.ErrorIs(t, err, ErrInvalid)

	def.Actions = nil
	def.Columns[2].Expr = "row.("
	_, err = Build(def, nil)
	assert.ErrorContains(t, err, "label")
}
