package textview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cometwk/erpadmin/pkg/table"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type employee struct {
	Name string `json:"name"`
	City string `json:"city"`
}

func newView(t *testing.T, data []employee) *table.View[employee] {
	t.Helper()
	v, err := table.NewView(table.Options[employee]{
		Columns: []table.Column[employee]{
			{Key: "name", Header: "姓名", Sortable: true},
			{Key: "city", Header: "城市"},
		},
		Search:     &table.SearchConfig{Enabled: true, Keys: []string{"name"}},
		Pagination: &table.PaginationConfig{Enabled: true, ItemsPerPage: 2},
		Actions: []table.Action[employee]{
			{Variant: table.ActionButton, Name: "edit", Label: "编辑"},
		},
		Sort: table.SortInternal{Initial: table.SortState{Key: "name"}},
	})
	require.NoError(t, err)
	v.SetData(data)
	return v
}

func TestWrite(t *testing.T) {
	color.NoColor = true
	v := newView(t, []employee{
		{"Bob", "北京"},
		{"Amy", "上海"},
		{"Cid", "Shenzhen"},
	})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, v.Render(), Options{}))
	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// 上边框, 表头, 分隔, 2 行, 下边框, 页脚
	require.Len(t, lines, 7)
	assert.Contains(t, lines[1], "姓名 ▲")
	assert.Contains(t, lines[3], "Amy")
	assert.Contains(t, lines[3], "[编辑]")
	assert.Contains(t, lines[4], "Bob")
	assert.Equal(t, "第 1/2 页 · 共 3 条 · [1] 2", lines[6])

	// 每行显示宽度一致
	width := runewidth.StringWidth(lines[0])
	for _, l := range lines[:6] {
		assert.Equal(t, width, runewidth.StringWidth(l), l)
	}
}

func TestWriteEmpty(t *testing.T) {
	color.NoColor = true
	v := newView(t, []employee{{"Bob", "北京"}})
	v.SetSearch("zzz")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, v.Render(), Options{HideIndex: true}))
	out := buf.String()
	assert.Contains(t, out, table.DefaultEmptyMessage)
	assert.NotContains(t, out, "#")
	assert.Contains(t, out, "共 1 条 (筛选 0 条)")
}

func TestWindow(t *testing.T) {
	assert.Equal(t, "1 … 4 [5] 6 … 10", Window(table.PageWindow(5, 10), 5))
	assert.Equal(t, "[1] 2 3", Window(table.PageWindow(1, 3), 1))
}

func TestTruncate(t *testing.T) {
	color.NoColor = true
	v := newView(t, []employee{{"A very long employee name indeed", "x"}})
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, v.Render(), Options{MaxColumnWidth: 8}))
	assert.Contains(t, buf.String(), "A very …")
}
