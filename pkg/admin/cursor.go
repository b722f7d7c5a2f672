package admin

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/cometwk/erpadmin/pkg/table"
	"github.com/cometwk/erpadmin/pkg/table/textview"
	"github.com/pkg/errors"
	"xorm.io/builder"
	"xorm.io/xorm"
)

type cursor[T any] struct {
	name    string
	view    *table.View[T]
	actions []table.Action[T]
	id      func(T) string

	ctx       context.Context
	session   *xorm.Session
	cond      builder.Cond
	load      func(ctx context.Context, session *xorm.Session, cond builder.Cond) ([]T, error)
	whitelist []string

	// 数据库排序
	external bool
	order    table.SortState
	err      error

	last *table.Rendered[T]
}

var _ Cursor = (*cursor[any])(nil)

func (c *cursor[T]) SetSearch(term string)             { c.view.SetSearch(term) }
func (c *cursor[T]) SetStatus(value table.StatusValue) { c.view.SetStatus(value) }
func (c *cursor[T]) ToggleSort(key string) bool        { return c.view.ToggleSort(key) }
func (c *cursor[T]) GoToPage(page int)                 { c.view.GoToPage(page) }
func (c *cursor[T]) NextPage()                         { c.view.NextPage() }
func (c *cursor[T]) PrevPage()                         { c.view.PrevPage() }

func (c *cursor[T]) apply(q Query) {
	c.view.SetSearch(q.Search)
	c.view.SetStatus(q.Status)
	if q.Sort.Key != "" && !c.external {
		c.view.SetSort(q.Sort)
	}
	if q.Page > 0 {
		c.view.GoToPage(q.Page)
	}
}

func (c *cursor[T]) render() *table.Rendered[T] {
	c.last = c.view.Render()
	return c.last
}

func (c *cursor[T]) Listing() *Listing {
	return listingOf(c.name, c.render())
}

func (c *cursor[T]) WriteText(w io.Writer, opts textview.Options) error {
	r := c.render()
	if err := textview.Write(w, r, opts); err != nil {
		return err
	}
	_, err := io.WriteString(w, textview.Footer(r)+"\n")
	return err
}

func (c *cursor[T]) Click(row, action int) bool {
	if c.last == nil {
		return false
	}
	return c.last.Click(row, action)
}

func (c *cursor[T]) Invoke(action string, id string) error {
	var a *table.Action[T]
	for i := range c.actions {
		if c.actions[i].Name == action {
			a = &c.actions[i]
			break
		}
	}
	if a == nil || a.OnClick == nil {
		return errors.Wrapf(ErrActionNotFound, "'%s'", action)
	}
	for _, row := range c.view.Data() {
		if c.id(row) == id {
			a.OnClick(row)
			return nil
		}
	}
	return errors.Wrapf(ErrRowNotFound, "id '%s'", id)
}

// Reload 重新加载数据, 保留搜索/排序/页码
func (c *cursor[T]) Reload(ctx context.Context) error {
	session := c.session
	if c.external && c.order.Active() && slices.Contains(c.whitelist, c.order.Key) {
		session = session.OrderBy("`" + c.order.Key + "` " + strings.ToUpper(c.order.Direction.String()))
	}
	data, err := c.load(ctx, session, c.cond)
	if err != nil {
		return err
	}
	c.view.SetData(data)
	return nil
}

// orderable 数据库排序只接受白名单中的可排序列
func (c *cursor[T]) orderable(key string, columns []table.Column[T]) bool {
	if !slices.Contains(c.whitelist, key) {
		return false
	}
	for _, col := range columns {
		if col.Key == key {
			return col.Sortable
		}
	}
	return false
}

// onSort 数据库排序模式下点击表头: 更新排序状态后重新查询
func (c *cursor[T]) onSort(key string) {
	if !slices.Contains(c.whitelist, key) {
		xlog.WithField("table", c.name).Warnf("'%s' 不在排序白名单中", key)
		return
	}
	c.order = table.NextSortState(c.order, key)
	c.view.SetSort(c.order)
	if c.err = c.Reload(c.ctx); c.err != nil {
		xlog.WithError(c.err).WithField("table", c.name).Error("排序后重新加载失败")
	}
}

// Err 最近一次数据库排序的错误
func (c *cursor[T]) Err() error {
	return c.err
}

func recordID[T any](row T) string {
	return table.FormatValue(table.Lookup(row, "id"))
}
