package table

type HeaderKind int

const (
	HeaderIndex HeaderKind = iota
	HeaderColumn
	HeaderActions
)

type Header struct {
	Kind      HeaderKind    `json:"-"`
	Key       string        `json:"key"`
	Label     string        `json:"label"`
	ClassName string        `json:"class_name,omitempty"`
	Sortable  bool          `json:"sortable"`
	Sorted    bool          `json:"sorted"`
	Direction SortDirection `json:"direction"`
}

// Indicator 排序标记, 未排序的列为空
func (h Header) Indicator() string {
	if !h.Sorted {
		return ""
	}
	return h.Direction.Arrow()
}

type Cell struct {
	Key       string `json:"key"`
	Value     any    `json:"value"`
	Text      string `json:"text"`
	ClassName string `json:"class_name,omitempty"`
}

type BoundAction struct {
	Variant   ActionVariant `json:"-"`
	Name      string        `json:"name"`
	Icon      string        `json:"icon,omitempty"`
	Label     string        `json:"label,omitempty"`
	Caption   string        `json:"caption"`
	ClassName string        `json:"class_name,omitempty"`

	click func()
}

// Click 调用行操作绑定的回调
func (a BoundAction) Click() {
	if a.click != nil {
		a.click()
	}
}

type Row[T any] struct {
	Ordinal int           `json:"ordinal"` // 显示序号, 不是记录 ID
	Record  T             `json:"record"`
	Cells   []Cell        `json:"cells"`
	Actions []BoundAction `json:"actions,omitempty"`
}

// Text 按列 key 取单元格文本
func (r *Row[T]) Text(key string) string {
	for _, c := range r.Cells {
		if c.Key == key {
			return c.Text
		}
	}
	return ""
}

type Rendered[T any] struct {
	Headers      []Header
	Rows         []Row[T]
	Empty        bool
	EmptyMessage string

	Total       int // 数据源记录数
	Filtered    int // 过滤后的记录数
	CurrentPage int
	TotalPages  int
	PageSize    int // 未分页时为 0
	StartIndex  int
	Window      []PageItem

	Search        string
	Status        StatusValue
	StatusOptions []StatusOption
	Sort          SortState
}

const (
	IndexHeaderKey   = "#"
	ActionsHeaderKey = "actions"
)

// Render 计算当前页并生成行. 超出范围的页码在这里收敛
func (v *View[T]) Render() *Rendered[T] {
	rows := v.Rows()

	r := &Rendered[T]{
		Headers:      v.headers(),
		EmptyMessage: v.opts.EmptyMessage,
		Total:        len(v.data),
		Filtered:     len(rows),
		CurrentPage:  1,
		TotalPages:   1,
		Search:       v.term,
		Status:       v.status,
		Sort:         v.SortState(),
	}
	if v.opts.Status != nil && v.opts.Status.Enabled {
		r.StatusOptions = v.opts.Status.Options
	}

	visible := rows
	if v.paginated() {
		p := Paginate(rows, v.page, v.pageSize())
		v.page = p.CurrentPage
		visible = p.Items
		r.CurrentPage = p.CurrentPage
		r.TotalPages = p.TotalPages
		r.PageSize = v.pageSize()
		r.StartIndex = p.StartIndex
	}
	r.Window = PageWindow(r.CurrentPage, r.TotalPages)

	r.Rows = make([]Row[T], 0, len(visible))
	for i, record := range visible {
		r.Rows = append(r.Rows, v.renderRow(record, r.StartIndex+i+1))
	}
	r.Empty = len(r.Rows) == 0
	return r
}

func (v *View[T]) headers() []Header {
	sort := v.SortState()
	headers := make([]Header, 0, len(v.opts.Columns)+2)
	headers = append(headers, Header{Kind: HeaderIndex, Key: IndexHeaderKey, Label: "#"})
	for _, c := range v.opts.Columns {
		h := Header{
			Kind:      HeaderColumn,
			Key:       c.Key,
			Label:     c.Header,
			ClassName: c.ClassName,
			Sortable:  c.Sortable,
		}
		if sort.Key == c.Key {
			h.Sorted = true
			h.Direction = sort.Direction
		}
		headers = append(headers, h)
	}
	if len(v.opts.Actions) > 0 {
		headers = append(headers, Header{Kind: HeaderActions, Key: ActionsHeaderKey, Label: "操作"})
	}
	return headers
}

func (v *View[T]) renderRow(record T, ordinal int) Row[T] {
	row := Row[T]{
		Ordinal: ordinal,
		Record:  record,
		Cells:   make([]Cell, 0, len(v.opts.Columns)),
	}
	for i := range v.opts.Columns {
		c := &v.opts.Columns[i]
		value := c.Value(record)
		row.Cells = append(row.Cells, Cell{
			Key:       c.Key,
			Value:     value,
			Text:      FormatValue(value),
			ClassName: c.ClassName,
		})
	}
	for i := range v.opts.Actions {
		a := &v.opts.Actions[i]
		bound := BoundAction{
			Variant:   a.Variant,
			Name:      a.Name,
			Icon:      a.Icon,
			Label:     a.Label,
			Caption:   a.Caption(),
			ClassName: a.ClassName,
		}
		if a.OnClick != nil {
			onClick := a.OnClick
			bound.click = func() { onClick(record) }
		}
		row.Actions = append(row.Actions, bound)
	}
	return row
}

// Click 触发第 row 行 (当前页内, 从 0 开始) 的第 action 个操作, 越界时返回 false
func (r *Rendered[T]) Click(row, action int) bool {
	if row < 0 || row >= len(r.Rows) {
		return false
	}
	actions := r.Rows[row].Actions
	if action < 0 || action >= len(actions) {
		return false
	}
	actions[action].Click()
	return true
}
