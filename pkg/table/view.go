package table

import (
	"github.com/pkg/errors"
)

const DefaultEmptyMessage = "No data available"

type Options[T any] struct {
	Columns      []Column[T]
	Search       *SearchConfig
	Status       *StatusConfig
	Pagination   *PaginationConfig
	Actions      []Action[T]
	EmptyMessage string
	Sort         SortMode // 为空时等同 SortInternal{}
}

type Phase int

const (
	Idle Phase = iota
	Filtering
	Sorting
	Paginating
)

func (p Phase) String() string {
	switch p {
	case Filtering:
		return "filtering"
	case Sorting:
		return "sorting"
	case Paginating:
		return "paginating"
	}
	return "idle"
}

// View 表格的组合根: 过滤 -> 排序 -> 分页 -> 渲染.
// 过滤/排序/页码是临时的界面状态, 每次 Render 都从 data 重新计算. 非并发安全
type View[T any] struct {
	opts    Options[T]
	columns map[string]*Column[T]

	data   []T
	term   string
	status StatusValue
	sort   SortState
	page   int
	phase  Phase
}

func NewView[T any](opts Options[T]) (*View[T], error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	if opts.Sort == nil {
		opts.Sort = SortInternal{}
	}
	if opts.EmptyMessage == "" {
		opts.EmptyMessage = DefaultEmptyMessage
	}

	v := &View[T]{
		opts:    opts,
		columns: make(map[string]*Column[T], len(opts.Columns)),
		status:  AllStatus(),
		page:    1,
	}
	for i := range v.opts.Columns {
		c := &v.opts.Columns[i]
		v.columns[c.Key] = c
	}
	if m, ok := opts.Sort.(SortInternal); ok {
		v.sort = m.Initial
	}
	return v, nil
}

func MustView[T any](opts Options[T]) *View[T] {
	v, err := NewView(opts)
	if err != nil {
		panic(err)
	}
	return v
}

func validate[T any](opts Options[T]) error {
	if len(opts.Columns) == 0 {
		return ErrNoColumns
	}
	seen := make(map[string]bool, len(opts.Columns))
	for _, c := range opts.Columns {
		if c.Key == "" {
			return ErrEmptyColumnKey
		}
		if seen[c.Key] {
			return errors.Wrapf(ErrDuplicateColumn, "key '%s'", c.Key)
		}
		seen[c.Key] = true
	}
	if m, ok := opts.Sort.(SortExternal); ok && m.OnSort == nil {
		return ErrMissingOnSort
	}
	if opts.Status != nil && opts.Status.Enabled && opts.Status.Accessor == "" {
		return ErrMissingStatusAccessor
	}
	return nil
}

func (v *View[T]) Options() Options[T] {
	return v.opts
}

func (v *View[T]) Phase() Phase {
	return v.phase
}

// SetData 替换数据源. 不重置页码, 越界的页码在下次计算时收敛
func (v *View[T]) SetData(data []T) {
	v.data = data
}

func (v *View[T]) Data() []T {
	return v.data
}

func (v *View[T]) SearchTerm() string {
	return v.term
}

func (v *View[T]) StatusValue() StatusValue {
	return v.status
}

func (v *View[T]) CurrentPage() int {
	return v.page
}

// SortState 当前生效的排序状态; 外部模式下返回调用方提供的状态
func (v *View[T]) SortState() SortState {
	if m, ok := v.opts.Sort.(SortExternal); ok {
		return m.State
	}
	return v.sort
}

func (v *View[T]) External() bool {
	_, ok := v.opts.Sort.(SortExternal)
	return ok
}

// SetSearch 搜索词变化时回到第一页
func (v *View[T]) SetSearch(term string) {
	v.enter(Filtering)
	defer v.leave()

	if term != v.term {
		v.term = term
		v.page = 1
	}
}

// SetStatus 状态变化时回到第一页
func (v *View[T]) SetStatus(value StatusValue) {
	v.enter(Filtering)
	defer v.leave()

	if value != v.status {
		v.status = value
		v.page = 1
	}
}

// ToggleSort 点击表头. 不可排序的列返回 false. 排序不改变页码
func (v *View[T]) ToggleSort(key string) bool {
	c, ok := v.columns[key]
	if !ok || !c.Sortable {
		return false
	}

	v.enter(Sorting)
	defer v.leave()

	switch m := v.opts.Sort.(type) {
	case SortExternal:
		m.OnSort(key)
	default:
		v.sort = NextSortState(v.sort, key)
	}
	return true
}

// SetSort 直接设置排序 (例如从 URL 参数恢复), 不可排序的列被忽略.
// 外部模式下更新调用方状态的快照
func (v *View[T]) SetSort(state SortState) bool {
	if state.Key != "" {
		if c, ok := v.columns[state.Key]; !ok || !c.Sortable {
			return false
		}
	}
	if m, ok := v.opts.Sort.(SortExternal); ok {
		m.State = state
		v.opts.Sort = m
		return true
	}
	v.sort = state
	return true
}

func (v *View[T]) GoToPage(page int) {
	v.enter(Paginating)
	defer v.leave()

	v.page = ClampPage(page, v.totalPages())
}

func (v *View[T]) NextPage() {
	v.enter(Paginating)
	defer v.leave()

	v.page = NextPage(v.page, v.totalPages())
}

func (v *View[T]) PrevPage() {
	v.enter(Paginating)
	defer v.leave()

	v.page = PrevPage(v.page, v.totalPages())
}

func (v *View[T]) enter(p Phase) {
	v.phase = p
}

func (v *View[T]) leave() {
	v.phase = Idle
}

func (v *View[T]) paginated() bool {
	return v.opts.Pagination != nil && v.opts.Pagination.Enabled
}

func (v *View[T]) pageSize() int {
	return v.opts.Pagination.PageSize()
}

func (v *View[T]) totalPages() int {
	if !v.paginated() {
		return 1
	}
	n := len(ApplyFilters(v.data, v.opts.Search, v.term, v.opts.Status, v.status))
	return TotalPages(n, v.pageSize())
}

// Rows 过滤并排序后的完整结果 (不分页)
func (v *View[T]) Rows() []T {
	rows := ApplyFilters(v.data, v.opts.Search, v.term, v.opts.Status, v.status)
	if v.External() || !v.sort.Active() {
		return rows
	}
	c, ok := v.columns[v.sort.Key]
	if !ok {
		return rows
	}
	return SortBy(rows, v.sort, c.SortKey)
}
