package table

import (
	"strings"

	"golang.org/x/text/cases"
)

type SearchConfig struct {
	Enabled     bool     `json:"enabled"`
	Placeholder string   `json:"placeholder,omitempty"`
	Keys        []string `json:"keys"` // 参与搜索的字段路径, 任一命中即可
}

type StatusOption struct {
	Label string      `json:"label"`
	Value StatusValue `json:"value"`
}

type StatusConfig struct {
	Enabled  bool           `json:"enabled"`
	Accessor string         `json:"accessor"`
	Options  []StatusOption `json:"options"`
}

// ApplyFilters 文本搜索 AND 状态过滤, 返回新的切片, 保持输入顺序
func ApplyFilters[T any](data []T, search *SearchConfig, term string, status *StatusConfig, value StatusValue) []T {
	matchSearch := searchMatcher[T](search, term)
	matchStatus := statusMatcher[T](status, value)

	out := make([]T, 0, len(data))
	for _, row := range data {
		if matchSearch(row) && matchStatus(row) {
			out = append(out, row)
		}
	}
	return out
}

func searchMatcher[T any](search *SearchConfig, term string) func(T) bool {
	if search == nil || !search.Enabled || term == "" {
		return func(T) bool { return true }
	}
	// Caser 有内部状态, 每次过滤单独创建
	fold := cases.Fold()
	needle := fold.String(term)
	keys := search.Keys

	return func(row T) bool {
		for _, key := range keys {
			v := Lookup(row, key)
			if deref(v) == nil {
				continue
			}
			if strings.Contains(fold.String(FormatValue(v)), needle) {
				return true
			}
		}
		return false
	}
}

func statusMatcher[T any](status *StatusConfig, value StatusValue) func(T) bool {
	if status == nil || !status.Enabled || value.IsAll() {
		return func(T) bool { return true }
	}
	accessor := status.Accessor
	return func(row T) bool {
		return value.Matches(Lookup(row, accessor))
	}
}
