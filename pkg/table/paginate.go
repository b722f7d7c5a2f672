package table

import (
	"strconv"
)

const DefaultPageSize = 10

type PaginationConfig struct {
	Enabled      bool `json:"enabled"`
	ItemsPerPage int  `json:"items_per_page"`
}

// PageSize 未配置或非法时使用默认值
func (p *PaginationConfig) PageSize() int {
	if p == nil || p.ItemsPerPage <= 0 {
		return DefaultPageSize
	}
	return p.ItemsPerPage
}

type Page[T any] struct {
	Items       []T
	CurrentPage int // 1-based
	TotalPages  int
	StartIndex  int
	Total       int
}

// TotalPages 至少为 1, 空集合也有一页 (显示为无数据)
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

func ClampPage(page, total int) int {
	if total < 1 {
		total = 1
	}
	switch {
	case page < 1:
		return 1
	case page > total:
		return total
	}
	return page
}

func PrevPage(page, total int) int {
	return ClampPage(page-1, total)
}

func NextPage(page, total int) int {
	return ClampPage(page+1, total)
}

// Paginate 按页切片, 页码越界时收敛到合法范围
func Paginate[T any](data []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := TotalPages(len(data), size)
	page = ClampPage(page, total)

	start := (page - 1) * size
	if start < 0 {
		start = 0
	}
	end := min(start+size, len(data))
	if start > end {
		start = end
	}

	items := make([]T, end-start)
	copy(items, data[start:end])
	return Page[T]{
		Items:       items,
		CurrentPage: page,
		TotalPages:  total,
		StartIndex:  start,
		Total:       len(data),
	}
}

// PageItem 分页控件中的一项: 页码或省略号
type PageItem struct {
	Page     int
	Ellipsis bool
}

func (p PageItem) String() string {
	if p.Ellipsis {
		return "..."
	}
	return strconv.Itoa(p.Page)
}

func (p PageItem) MarshalJSON() ([]byte, error) {
	if p.Ellipsis {
		return []byte(`"ellipsis"`), nil
	}
	return []byte(strconv.Itoa(p.Page)), nil
}

const windowSize = 3

// PageWindow 生成分页控件的页码列表.
// 总页数 <= 4 时列出全部; 否则固定首页和末页, 当前页附近连续 3 页, 有间隔处插入省略号
func PageWindow(current, total int) []PageItem {
	if total < 1 {
		total = 1
	}
	current = ClampPage(current, total)

	if total <= 4 {
		items := make([]PageItem, 0, total)
		for p := 1; p <= total; p++ {
			items = append(items, PageItem{Page: p})
		}
		return items
	}

	start := current - windowSize/2
	end := start + windowSize - 1
	if start < 1 {
		start, end = 1, windowSize
	}
	if end > total {
		start, end = total-windowSize+1, total
	}

	pages := make([]int, 0, windowSize+2)
	pages = append(pages, 1)
	for p := start; p <= end; p++ {
		if p != 1 && p != total {
			pages = append(pages, p)
		}
	}
	pages = append(pages, total)

	items := make([]PageItem, 0, len(pages)+2)
	for i, p := range pages {
		if i > 0 && p-pages[i-1] > 1 {
			items = append(items, PageItem{Ellipsis: true})
		}
		items = append(items, PageItem{Page: p})
	}
	return items
}
