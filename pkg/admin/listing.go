package admin

import (
	"github.com/cometwk/erpadmin/pkg/table"
)

type ColumnMeta struct {
	Key       string `json:"key"`
	Header    string `json:"header"`
	ClassName string `json:"class_name,omitempty"`
	Sortable  bool   `json:"sortable"`
}

type ActionMeta struct {
	Name      string `json:"name"`
	Variant   string `json:"variant"`
	Icon      string `json:"icon,omitempty"`
	Label     string `json:"label,omitempty"`
	ClassName string `json:"class_name,omitempty"`
}

// Meta 表格的静态描述, 前端据此生成表头, 搜索框和状态下拉框
type Meta struct {
	Name         string                  `json:"name"`
	Title        string                  `json:"title"`
	Columns      []ColumnMeta            `json:"columns"`
	Search       *table.SearchConfig     `json:"search,omitempty"`
	Status       *table.StatusConfig     `json:"status,omitempty"`
	Pagination   *table.PaginationConfig `json:"pagination,omitempty"`
	Actions      []ActionMeta            `json:"actions,omitempty"`
	Sort         table.SortState         `json:"sort"`
	EmptyMessage string                  `json:"empty_message"`
	Where        []string                `json:"where,omitempty"`
}

func metaOf[T any](name, title string, opts table.Options[T], where []string) Meta {
	m := Meta{
		Name:         name,
		Title:        title,
		Search:       opts.Search,
		Status:       opts.Status,
		Pagination:   opts.Pagination,
		EmptyMessage: opts.EmptyMessage,
		Where:        where,
	}
	if m.EmptyMessage == "" {
		m.EmptyMessage = table.DefaultEmptyMessage
	}
	for _, c := range opts.Columns {
		m.Columns = append(m.Columns, ColumnMeta{Key: c.Key, Header: c.Header, ClassName: c.ClassName, Sortable: c.Sortable})
	}
	for _, a := range opts.Actions {
		m.Actions = append(m.Actions, ActionMeta{
			Name:      a.Name,
			Variant:   a.Variant.String(),
			Icon:      a.Icon,
			Label:     a.Label,
			ClassName: a.ClassName,
		})
	}
	if s, ok := opts.Sort.(table.SortInternal); ok {
		m.Sort = s.Initial
	}
	return m
}

type ListingRow struct {
	Ordinal int                 `json:"ordinal"`
	Record  any                 `json:"record"`
	Cells   []table.Cell        `json:"cells"`
	Actions []table.BoundAction `json:"actions,omitempty"`
}

// Listing 一次渲染的结果, 不含类型参数. CurrentPage 从 1 开始
type Listing struct {
	Name         string
	Headers      []table.Header
	Rows         []ListingRow
	Total        int
	Filtered     int
	CurrentPage  int
	TotalPages   int
	PageSize     int
	Window       []table.PageItem
	Sort         table.SortState
	Search       string
	Status       table.StatusValue
	Empty        bool
	EmptyMessage string
}

func listingOf[T any](name string, r *table.Rendered[T]) *Listing {
	l := &Listing{
		Name:         name,
		Headers:      r.Headers,
		Rows:         make([]ListingRow, 0, len(r.Rows)),
		Total:        r.Total,
		Filtered:     r.Filtered,
		CurrentPage:  r.CurrentPage,
		TotalPages:   r.TotalPages,
		PageSize:     r.PageSize,
		Window:       r.Window,
		Sort:         r.Sort,
		Search:       r.Search,
		Status:       r.Status,
		Empty:        r.Empty,
		EmptyMessage: r.EmptyMessage,
	}
	for _, row := range r.Rows {
		l.Rows = append(l.Rows, ListingRow{
			Ordinal: row.Ordinal,
			Record:  row.Record,
			Cells:   row.Cells,
			Actions: row.Actions,
		})
	}
	return l
}
