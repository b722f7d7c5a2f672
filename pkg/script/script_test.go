package script

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type product struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Discount float64 `json:"discount"`
	Stock    int     `json:"stock"`
}

func TestEval(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		row  any
		want any
	}{
		{"map 字符串拼接", `row.first + " " + row.last`, map[string]any{"first": "Amy", "last": "Lee"}, "Amy Lee"},
		{"struct json 字段名", `row.price * (1 - row.discount)`, product{Price: 100, Discount: 0.25}, 75},
		{"整数结果", `row.stock + 1`, product{Stock: 2}, int64(3)},
		{"条件表达式", `row.stock > 0 ? "有货" : "缺货"`, product{}, "缺货"},
		{"嵌套字段", `row.profile.city`, map[string]any{"profile": map[string]any{"city": "上海"}}, "上海"},
		{"undefined 为 nil", `row.missing`, map[string]any{}, nil},
		{"null 为 nil", `null`, nil, nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := Compile(tc.src)
			require.NoError(t, err)
			got, err := e.Eval(tc.row)
			require.NoError(t, err)
			assert.EqualValues(t, tc.want, got)
		})
	}
}

func TestCompileError(t *testing.T) {
	_, err := Compile("row.")
	assert.Error(t, err)
	_, err = Compile("  ")
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompile("(") })
}

func TestAccessor(t *testing.T) {
	e := MustCompile(`row.profile.city.toUpperCase()`)
	get := Accessor[map[string]any](e)

	assert.Equal(t, "SH", get(map[string]any{"profile": map[string]any{"city": "sh"}}))
	// 运行时错误返回 nil
	assert.Nil(t, get(map[string]any{}))
}

func TestConcurrentEval(t *testing.T) {
	e := MustCompile(`row.stock * 2`)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			v, err := e.Eval(product{Stock: n})
			assert.NoError(t, err)
			assert.Equal(t, int64(n*2), v)
		}(i)
	}
	wg.Wait()
}
