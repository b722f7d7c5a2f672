package admin

import (
	"context"

	"github.com/cometwk/erpadmin/pkg/orm"
	"github.com/cometwk/erpadmin/pkg/table"
	"github.com/cometwk/erpadmin/pkg/tablecfg"
	"github.com/pkg/errors"
	"xorm.io/builder"
	"xorm.io/xorm"
)

// Handler 声明式表格的行操作
type Handler func(ac *ActionContext, name string, row tablecfg.Record)

// Declarative 由配置文件定义的表格, 记录按表名加载为 map
type Declarative struct {
	def      *tablecfg.Definition
	handlers map[string]Handler
	meta     Meta
}

var _ Entry = (*Declarative)(nil)

// NewDeclarative 预先编译一次, 配置错误在启动时暴露
func NewDeclarative(def *tablecfg.Definition, handlers map[string]Handler) (*Declarative, error) {
	d := &Declarative{def: def, handlers: handlers}
	opts, err := d.options(&ActionContext{Ctx: context.Background()})
	if err != nil {
		return nil, err
	}
	if _, err := table.NewView(opts); err != nil {
		return nil, errors.Wrapf(err, "表格 '%s'", def.Name)
	}
	d.meta = metaOf(def.Name, def.Title, opts, def.WhereWhitelist)
	return d, nil
}

// LoadDeclarative 加载目录下的全部定义
func LoadDeclarative(dir string, handlers map[string]Handler) ([]Entry, error) {
	defs, err := tablecfg.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(defs))
	for _, def := range defs {
		d, err := NewDeclarative(def, handlers)
		if err != nil {
			return nil, errors.Wrapf(err, "文件 %s", def.File)
		}
		out = append(out, d)
	}
	return out, nil
}

func (d *Declarative) Name() string    { return d.def.Name }
func (d *Declarative) Title() string   { return d.def.Title }
func (d *Declarative) Roles() []string { return d.def.Roles }
func (d *Declarative) Meta() Meta      { return d.meta }

func (d *Declarative) Definition() *tablecfg.Definition {
	return d.def
}

func (d *Declarative) options(ac *ActionContext) (table.Options[tablecfg.Record], error) {
	bound := make(map[string]tablecfg.Handler, len(d.handlers))
	for name, h := range d.handlers {
		bound[name] = func(tbl string, row tablecfg.Record) { h(ac, tbl, row) }
	}
	return tablecfg.Build(d.def, bound)
}

func (d *Declarative) Open(ctx context.Context, session *xorm.Session, q Query, ac *ActionContext) (Cursor, error) {
	if ac == nil {
		ac = &ActionContext{}
	}
	ac.Ctx, ac.Session = ctx, session

	opts, err := d.options(ac)
	if err != nil {
		return nil, err
	}
	tbl := d.def.Table()
	load := func(ctx context.Context, session *xorm.Session, cond builder.Cond) ([]tablecfg.Record, error) {
		return orm.QueryMaps(ctx, session, tbl, cond)
	}
	return open(ctx, session, q, source[tablecfg.Record]{
		name:      d.def.Name,
		whitelist: d.def.WhereWhitelist,
		opts:      opts,
		load:      load,
		id:        recordID[tablecfg.Record],
	})
}
