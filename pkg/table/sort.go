package table

import (
	"encoding/json"
	"slices"
	"strings"
)

type SortDirection int

const (
	Asc SortDirection = iota
	Desc
)

func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(s, "desc") {
		return Desc
	}
	return Asc
}

func (d SortDirection) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

func (d SortDirection) Toggle() SortDirection {
	if d == Desc {
		return Asc
	}
	return Desc
}

// Arrow 表头上的排序标记
func (d SortDirection) Arrow() string {
	if d == Desc {
		return "▼"
	}
	return "▲"
}

func (d SortDirection) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *SortDirection) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*d = ParseSortDirection(s)
	return nil
}

// SortState Key 为空表示不排序, 保持输入顺序
type SortState struct {
	Key       string        `json:"key"`
	Direction SortDirection `json:"direction"`
}

func (s SortState) Active() bool {
	return s.Key != ""
}

// NextSortState 点击同一列切换方向, 点击新列从升序开始
func NextSortState(current SortState, key string) SortState {
	if key == current.Key {
		return SortState{Key: key, Direction: current.Direction.Toggle()}
	}
	return SortState{Key: key, Direction: Asc}
}

// SortBy 稳定排序, 返回新切片. value 取每行的排序值, 每行只计算一次
func SortBy[T any](data []T, state SortState, value func(T) any) []T {
	out := make([]T, len(data))
	copy(out, data)
	if !state.Active() || value == nil || len(out) < 2 {
		return out
	}

	keys := make([]any, len(out))
	idx := make([]int, len(out))
	for i, row := range out {
		keys[i] = value(row)
		idx[i] = i
	}

	desc := state.Direction == Desc
	slices.SortStableFunc(idx, func(a, b int) int {
		c := CompareValues(keys[a], keys[b])
		if desc {
			return -c
		}
		return c
	})

	for i, j := range idx {
		out[i] = data[j]
	}
	return out
}

// SortMode 排序模式在构造时确定:
// SortInternal 由表格维护排序状态并排序;
// SortExternal 由调用方维护状态, 数据由调用方预先排好, 表格只回调 OnSort
type SortMode interface {
	sortMode()
}

type SortInternal struct {
	Initial SortState
}

type SortExternal struct {
	State  SortState
	OnSort func(key string)
}

func (SortInternal) sortMode() {}
func (SortExternal) sortMode() {}
