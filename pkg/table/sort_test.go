package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextSortState(t *testing.T) {
	s := SortState{}
	s = NextSortState(s, "name")
	assert.Equal(t, SortState{Key: "name", Direction: Asc}, s)
	s = NextSortState(s, "name")
	assert.Equal(t, SortState{Key: "name", Direction: Desc}, s)
	s = NextSortState(s, "name")
	assert.Equal(t, SortState{Key: "name", Direction: Asc}, s)

	// 换列从升序开始
	s = NextSortState(SortState{Key: "name", Direction: Desc}, "level")
	assert.Equal(t, SortState{Key: "level", Direction: Asc}, s)
}

func TestSortBy(t *testing.T) {
	type item struct {
		Name  string
		Group *int
	}
	one, two := 1, 2
	data := []item{
		{"a", &two},
		{"b", nil},
		{"c", &one},
		{"d", &two},
		{"e", &one},
	}
	group := func(r item) any { return r.Group }
	keys := func(rows []item) string {
		s := ""
		for _, r := range rows {
			s += r.Name
		}
		return s
	}

	// 稳定排序, nil 在最后
	assert.Equal(t, "ceadb", keys(SortBy(data, SortState{Key: "group", Direction: Asc}, group)))
	// 降序整体反转比较结果, nil 在最前
	assert.Equal(t, "badce", keys(SortBy(data, SortState{Key: "group", Direction: Desc}, group)))
	// 未排序保持原序
	assert.Equal(t, "abcde", keys(SortBy(data, SortState{}, group)))
	// 输入不变
	assert.Equal(t, "abcde", keys(data))
}

func TestSortByCallsValueOncePerRow(t *testing.T) {
	data := []int{5, 3, 9, 1, 7}
	calls := 0
	got := SortBy(data, SortState{Key: "n"}, func(n int) any {
		calls++
		return n
	})
	assert.Equal(t, []int{1, 3, 5, 7, 9}, got)
	assert.Equal(t, len(data), calls)
}

func TestSortDirection(t *testing.T) {
	assert.Equal(t, Desc, ParseSortDirection("DESC"))
	assert.Equal(t, Asc, ParseSortDirection("whatever"))
	assert.Equal(t, "▲", Asc.Arrow())
	assert.Equal(t, "▼", Desc.Arrow())

	b, err := Desc.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `"desc"`, string(b))
}
