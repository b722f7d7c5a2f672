package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cometwk/erpadmin/pkg/admin"
	"github.com/cometwk/erpadmin/pkg/table"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xorm.io/builder"
	"xorm.io/xorm"
)

type item struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Dept   string `json:"dept"`
	Active bool   `json:"active"`
}

type store struct {
	items []item
}

func (s *store) load(ctx context.Context, session *xorm.Session, cond builder.Cond) ([]item, error) {
	return append([]item(nil), s.items...), nil
}

func newStore() *store {
	return &store{items: []item{
		{ID: 1, Name: "Bob", Dept: "sales", Active: true},
		{ID: 2, Name: "Amy", Dept: "ops", Active: false},
		{ID: 3, Name: "Cid", Dept: "sales", Active: true},
		{ID: 4, Name: "Dan", Dept: "ops", Active: true},
	}}
}

func itemEntries(s *store) []admin.Entry {
	items := &admin.Typed[item]{
		TableName:  "items",
		TableTitle: "条目",
		Load:       s.load,
		Options: func(ac *admin.ActionContext) table.Options[item] {
			return table.Options[item]{
				Columns: []table.Column[item]{
					{Key: "name", Header: "名称", Sortable: true},
					{Key: "dept", Header: "部门"},
				},
				Search: &table.SearchConfig{Enabled: true, Keys: []string{"name"}},
				Status: &table.StatusConfig{Enabled: true, Accessor: "active", Options: []table.StatusOption{
					{Label: "全部", Value: table.AllStatus()},
					{Label: "启用", Value: table.BoolStatus(true)},
					{Label: "停用", Value: table.BoolStatus(false)},
				}},
				Pagination: &table.PaginationConfig{Enabled: true, ItemsPerPage: 2},
				Sort:       table.SortInternal{Initial: table.SortState{Key: "name"}},
				Actions: []table.Action[item]{
					{Variant: table.ActionButton, Name: "toggle", Label: "切换", OnClick: func(it item) {
						for i := range s.items {
							if s.items[i].ID == it.ID {
								s.items[i].Active = !s.items[i].Active
							}
						}
						ac.Result = it.Name
					}},
					{Variant: table.ActionButton, Name: "fail", Label: "失败", OnClick: func(it item) {
						ac.Err = errors.New("不允许")
					}},
				},
			}
		},
	}
	depts := &admin.Typed[item]{
		TableName:  "depts",
		TableTitle: "部门",
		Load:       s.load,
		Options: func(ac *admin.ActionContext) table.Options[item] {
			return table.Options[item]{Columns: []table.Column[item]{{Key: "dept", Header: "部门"}}}
		},
	}
	return []admin.Entry{items, depts}
}

func openEntry(ctx context.Context, e admin.Entry, ac *admin.ActionContext) (admin.Cursor, error) {
	return e.Open(ctx, nil, admin.Query{}, ac)
}

func newTestBrowser(t *testing.T, s *store) (*Browser, *sync.Mutex) {
	var mu sync.Mutex
	b := New(context.Background(), itemEntries(s), openEntry)
	b.update = func(f func()) {
		mu.Lock()
		defer mu.Unlock()
		f()
	}
	t.Cleanup(b.debounce.Stop)
	require.NoError(t, b.Select(0))
	return b, &mu
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func column(b *Browser, c int) []string {
	var out []string
	for r := 1; r < b.grid.GetRowCount(); r++ {
		out = append(out, b.grid.GetCell(r, c).Text)
	}
	return out
}

func TestSelect(t *testing.T) {
	b, _ := newTestBrowser(t, newStore())

	assert.Equal(t, "#", b.grid.GetCell(0, 0).Text)
	assert.Equal(t, "名称▲", b.grid.GetCell(0, 1).Text)
	assert.Equal(t, "操作", b.grid.GetCell(0, 3).Text)
	assert.Equal(t, []string{"Amy", "Bob"}, column(b, 1))
	assert.Equal(t, []string{"1", "2"}, column(b, 0))
	assert.Equal(t, "切换 失败", b.grid.GetCell(1, 3).Text)
	assert.Equal(t, "共 4 条 | 筛选 4 条", b.counter.GetText(false))
	assert.Equal(t, "第 1/2 页  [1] 2", b.pager.GetText(false))
	assert.Equal(t, 3, b.status.GetOptionCount())
}

func TestHandleKey(t *testing.T) {
	b, _ := newTestBrowser(t, newStore())

	assert.Nil(t, b.HandleKey(key('n')))
	assert.Equal(t, 2, b.listing.CurrentPage)
	assert.Equal(t, []string{"Cid", "Dan"}, column(b, 1))
	assert.Equal(t, []string{"3", "4"}, column(b, 0))

	// 最后一页不再前进
	b.HandleKey(key('n'))
	assert.Equal(t, 2, b.listing.CurrentPage)

	b.HandleKey(key('p'))
	assert.Equal(t, 1, b.listing.CurrentPage)

	// 选中名称列排序
	b.grid.Select(1, 1)
	b.HandleKey(key('s'))
	assert.Equal(t, "名称▼", b.grid.GetCell(0, 1).Text)
	assert.Equal(t, []string{"Dan", "Cid"}, column(b, 1))

	// 部门列不能排序
	b.grid.Select(1, 2)
	b.HandleKey(key('s'))
	assert.Contains(t, b.notifier.GetText(false), "不能排序")

	b.HandleKey(key(']'))
	assert.Equal(t, 1, b.current)
	assert.Equal(t, "部门", b.grid.GetCell(0, 1).Text)
	assert.Empty(t, b.pager.GetText(false))
	b.HandleKey(key(']'))
	assert.Equal(t, 0, b.current)
	b.HandleKey(key('['))
	assert.Equal(t, 1, b.current)

	// 未绑定的按键交给控件
	ev := key('x')
	assert.Equal(t, ev, b.HandleKey(ev))
}

func TestHandleKeySearchFocused(t *testing.T) {
	b, _ := newTestBrowser(t, newStore())

	b.HandleKey(key('/'))
	require.True(t, b.search.HasFocus())
	ev := key('n')
	assert.Equal(t, ev, b.HandleKey(ev))
	assert.Equal(t, 1, b.listing.CurrentPage)

	assert.Nil(t, b.HandleKey(tcell.NewEventKey(tcell.KeyEsc, 0, tcell.ModNone)))
	assert.True(t, b.grid.HasFocus())
}

func TestStatus(t *testing.T) {
	b, _ := newTestBrowser(t, newStore())

	b.status.SetCurrentOption(2)
	assert.Equal(t, []string{"Amy"}, column(b, 1))
	assert.Equal(t, "共 4 条 | 筛选 1 条", b.counter.GetText(false))

	b.status.SetCurrentOption(1)
	assert.Equal(t, []string{"Bob", "Cid"}, column(b, 1))
	assert.Equal(t, 3, b.listing.Filtered)
}

func TestSearchDebounce(t *testing.T) {
	b, mu := newTestBrowser(t, newStore())

	b.debounce.Trigger("d")
	b.debounce.Trigger("da")
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return b.listing.Search == "da"
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"Dan"}, column(b, 1))
	assert.Equal(t, 1, b.listing.Filtered)
}

func TestSelectResetsSearch(t *testing.T) {
	b, mu := newTestBrowser(t, newStore())

	b.search.SetText("Bob")
	require.NoError(t, b.Select(1))
	require.NoError(t, b.Select(0))

	assert.Equal(t, "", b.search.GetText())
	assert.Equal(t, "", b.listing.Search)
	assert.Equal(t, 4, b.listing.Filtered)

	// 切换前等待中的搜索不会作用到新打开的表格
	time.Sleep(searchDelay + 200*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "", b.listing.Search)
	assert.Equal(t, 4, b.listing.Filtered)
	assert.Equal(t, "共 4 条 | 筛选 4 条", b.counter.GetText(false))
}

func TestEmpty(t *testing.T) {
	b, _ := newTestBrowser(t, &store{})

	assert.Equal(t, table.DefaultEmptyMessage, b.grid.GetCell(1, 0).Text)
	assert.Equal(t, "共 0 条 | 筛选 0 条", b.counter.GetText(false))
}

func TestRunAction(t *testing.T) {
	s := newStore()
	b, _ := newTestBrowser(t, s)

	// 第一行是 Amy
	b.runAction(0, 0)
	assert.True(t, s.items[1].Active)
	assert.Equal(t, "完成: Amy", b.notifier.GetText(false))

	b.status.SetCurrentOption(2)
	assert.True(t, b.listing.Empty)

	b.status.SetCurrentOption(0)
	b.runAction(0, 1)
	assert.Equal(t, "不允许", b.notifier.GetText(false))

	// 越界
	b.notifier.Clear()
	b.runAction(5, 0)
	assert.Empty(t, b.notifier.GetText(false))
}

func TestShowActions(t *testing.T) {
	b, _ := newTestBrowser(t, newStore())

	b.showActions(0)
	assert.True(t, b.pages.HasPage("actions"))
	// 弹出操作框时不处理快捷键
	ev := key('n')
	assert.Equal(t, ev, b.HandleKey(ev))
}
