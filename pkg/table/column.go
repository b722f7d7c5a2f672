package table

import (
	"reflect"
	"time"

	"github.com/fatih/structs"
)

// Column 列描述. Key 在同一个表格内唯一
type Column[T any] struct {
	Key       string
	Header    string
	Accessor  func(row T) any // 计算显示值, 为空时按 Key 做路径取值
	SortValue func(row T) any // 排序值, 为空时与显示值一致
	ClassName string
	Sortable  bool
}

// Value 单元格的值
func (c *Column[T]) Value(row T) any {
	if c.Accessor != nil {
		return c.Accessor(row)
	}
	return Lookup(row, c.Key)
}

// SortKey 排序使用的值: SortValue > Accessor > 路径取值
func (c *Column[T]) SortKey(row T) any {
	if c.SortValue != nil {
		return c.SortValue(row)
	}
	return c.Value(row)
}

type ActionVariant int

const (
	ActionIcon ActionVariant = iota
	ActionButton
)

func (v ActionVariant) String() string {
	if v == ActionButton {
		return "button"
	}
	return "icon"
}

func ParseActionVariant(s string) ActionVariant {
	if s == "button" {
		return ActionButton
	}
	return ActionIcon
}

// Action 行操作按钮, 图标按钮或文字按钮
type Action[T any] struct {
	Variant   ActionVariant
	Name      string
	Icon      string
	Label     string
	ClassName string
	OnClick   func(row T)
}

// Caption 按钮上显示的内容
func (a *Action[T]) Caption() string {
	if a.Variant == ActionButton || a.Icon == "" {
		if a.Label != "" {
			return a.Label
		}
		return a.Name
	}
	return a.Icon
}

// ColumnsOf 按结构体导出字段生成默认列: key 取 json tag (没有则用字段名), 表头用字段名.
// 嵌入的结构体展开. T 不是结构体时返回 nil
func ColumnsOf[T any]() []Column[T] {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return columnsOf[T](structs.Fields(reflect.New(t).Interface()))
}

func columnsOf[T any](fields []*structs.Field) []Column[T] {
	var out []Column[T]
	for _, f := range fields {
		if f.IsEmbedded() {
			if f.Kind() == reflect.Struct {
				out = append(out, columnsOf[T](f.Fields())...)
			}
			continue
		}
		if !f.IsExported() {
			continue
		}
		tag := f.Tag("json")
		if tag == "-" {
			continue
		}
		key := jsonName(tag)
		if key == "" {
			key = f.Name()
		}
		out = append(out, Column[T]{
			Key:      key,
			Header:   f.Name(),
			Sortable: sortableKind(f.Kind()) || f.Kind() == reflect.Struct && isTimeField(f),
		})
	}
	return out
}

func sortableKind(k reflect.Kind) bool {
	switch k {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct, reflect.Pointer, reflect.Func, reflect.Chan, reflect.Interface:
		return false
	}
	return true
}

func isTimeField(f *structs.Field) bool {
	_, ok := f.Value().(time.Time)
	return ok
}
