package admin

import (
	"context"

	"github.com/cometwk/erpadmin/pkg/orm"
	"github.com/cometwk/erpadmin/pkg/table"
	"github.com/pkg/errors"
	"xorm.io/builder"
	"xorm.io/xorm"
)

// Typed 实体表格: 数据由 xorm 按结构体加载
type Typed[T any] struct {
	TableName  string
	TableTitle string
	Allow      []string
	Whitelist  []string // 允许的 where.* 列名
	// Options 每次打开表格时调用, 行操作可以使用 ActionContext 访问数据库
	Options func(ac *ActionContext) table.Options[T]
	Load    func(ctx context.Context, session *xorm.Session, cond builder.Cond) ([]T, error) // 默认 orm.FindAll
	ID      func(row T) string                                                               // 默认取 id 字段
	// ExternalSort 排序在数据库中执行, 只对白名单中的列生效
	ExternalSort bool
}

var _ Entry = (*Typed[any])(nil)

func (e *Typed[T]) Name() string    { return e.TableName }
func (e *Typed[T]) Title() string   { return e.TableTitle }
func (e *Typed[T]) Roles() []string { return e.Allow }

func (e *Typed[T]) Meta() Meta {
	return metaOf(e.TableName, e.TableTitle, e.Options(&ActionContext{Ctx: context.Background()}), e.Whitelist)
}

func (e *Typed[T]) Open(ctx context.Context, session *xorm.Session, q Query, ac *ActionContext) (Cursor, error) {
	if ac == nil {
		ac = &ActionContext{}
	}
	ac.Ctx, ac.Session = ctx, session

	load := e.Load
	if load == nil {
		load = orm.FindAll[T]
	}
	id := e.ID
	if id == nil {
		id = recordID[T]
	}
	return open(ctx, session, q, source[T]{
		name:      e.TableName,
		whitelist: e.Whitelist,
		opts:      e.Options(ac),
		load:      load,
		id:        id,
		external:  e.ExternalSort,
	})
}

type source[T any] struct {
	name      string
	whitelist []string
	opts      table.Options[T]
	load      func(context.Context, *xorm.Session, builder.Cond) ([]T, error)
	id        func(T) string
	external  bool
}

func open[T any](ctx context.Context, session *xorm.Session, q Query, src source[T]) (Cursor, error) {
	opts := src.opts
	w := orm.Where{Whitelist: src.whitelist}
	if session != nil {
		w.DBType = session.Engine().Dialect().URI().DBType
	}
	cond, err := w.Parse(q.Where)
	if err != nil {
		return nil, errors.Wrap(ErrBadQuery, err.Error())
	}

	if q.PageSize > 0 && opts.Pagination != nil {
		p := *opts.Pagination
		p.ItemsPerPage = min(q.PageSize, orm.MaxPagesize)
		opts.Pagination = &p
	}

	c := &cursor[T]{
		name:      src.name,
		actions:   opts.Actions,
		id:        src.id,
		ctx:       ctx,
		session:   session,
		cond:      cond,
		load:      src.load,
		whitelist: src.whitelist,
	}
	if src.external {
		if s, ok := opts.Sort.(table.SortInternal); ok && c.orderable(s.Initial.Key, opts.Columns) {
			c.order = s.Initial
		}
		if c.orderable(q.Sort.Key, opts.Columns) {
			c.order = q.Sort
		}
		c.external = true
		opts.Sort = table.SortExternal{State: c.order, OnSort: c.onSort}
	}

	v, err := table.NewView(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "表格 '%s'", src.name)
	}
	c.view = v
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	c.apply(q)
	return c, nil
}
