package tablecfg

import (
	"github.com/cometwk/erpadmin/pkg/script"
	"github.com/cometwk/erpadmin/pkg/table"
	"github.com/pkg/errors"
)

// Record 声明式表格的记录, 通常来自 QueryInterface
type Record = map[string]any

// Handler 行操作的处理函数, 按名称注册
type Handler func(table string, row Record)

// Build 编译表达式并生成表格选项. 引用未注册的 handler 时报错
func Build(def *Definition, handlers map[string]Handler) (table.Options[Record], error) {
	opts := table.Options[Record]{
		EmptyMessage: def.EmptyMessage,
	}

	for _, c := range def.Columns {
		col := table.Column[Record]{
			Key:       c.Key,
			Header:    c.Header,
			ClassName: c.ClassName,
			Sortable:  c.Sortable,
		}
		if col.Header == "" {
			col.Header = c.Key
		}
		if c.Expr != "" {
			e, err := script.Compile(c.Expr)
			if err != nil {
				return opts, errors.Wrapf(err, "列 '%s'", c.Key)
			}
			col.Accessor = script.Accessor[Record](e)
		}
		if c.SortExpr != "" {
			e, err := script.Compile(c.SortExpr)
			if err != nil {
				return opts, errors.Wrapf(err, "列 '%s' 排序表达式", c.Key)
			}
			col.SortValue = script.Accessor[Record](e)
		}
		opts.Columns = append(opts.Columns, col)
	}

	if s := def.Search; s != nil {
		opts.Search = &table.SearchConfig{Enabled: s.Enabled, Placeholder: s.Placeholder, Keys: s.Keys}
	}
	if s := def.Status; s != nil {
		status := &table.StatusConfig{Enabled: s.Enabled, Accessor: s.Accessor}
		for _, o := range s.Options {
			status.Options = append(status.Options, table.StatusOption{
				Label: o.Label,
				Value: table.StatusFromAny(o.Value),
			})
		}
		opts.Status = status
	}
	if p := def.Pagination; p != nil {
		opts.Pagination = &table.PaginationConfig{Enabled: p.Enabled, ItemsPerPage: p.ItemsPerPage}
	}
	if s := def.Sort; s != nil {
		opts.Sort = table.SortInternal{Initial: table.SortState{
			Key:       s.Key,
			Direction: table.ParseSortDirection(s.Direction),
		}}
	}

	for _, a := range def.Actions {
		action := table.Action[Record]{
			Variant:   table.ParseActionVariant(a.Variant),
			Name:      a.Name,
			Icon:      a.Icon,
			Label:     a.Label,
			ClassName: a.ClassName,
		}
		if a.Handler != "" {
			h, ok := handlers[a.Handler]
			if !ok {
				return opts, errors.Wrapf(ErrInvalid, "操作 '%s' 的 handler '%s' 未注册", a.Name, a.Handler)
			}
			name := def.Name
			action.OnClick = func(row Record) { h(name, row) }
		}
		opts.Actions = append(opts.Actions, action)
	}
	return opts, nil
}

// NewView 构建并校验表格
func NewView(def *Definition, handlers map[string]Handler) (*table.View[Record], error) {
	opts, err := Build(def, handlers)
	if err != nil {
		return nil, err
	}
	v, err := table.NewView(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "表格 '%s'", def.Name)
	}
	return v, nil
}
