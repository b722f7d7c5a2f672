package table

import (
	"reflect"
	"strconv"
	"strings"
)

// Lookup 按点分路径读取嵌套值, 例如 "profile.city", "items.0.name"
// 支持 map, struct (json tag 或字段名), 指针, slice 下标. 任一中间值缺失返回 nil, 不会 panic
func Lookup(record any, path string) any {
	if path == "" {
		return nil
	}
	cur := record
	for _, step := range strings.Split(path, ".") {
		next, ok := lookupStep(cur, step)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

func lookupStep(v any, step string) (any, bool) {
	if v == nil || step == "" {
		return nil, false
	}

	// 常见的 map 类型直接取值, 避免反射
	switch m := v.(type) {
	case map[string]any:
		x, ok := m[step]
		return x, ok
	case map[string]string:
		x, ok := m[step]
		return x, ok
	}

	rv, ok := indirect(reflect.ValueOf(v))
	if !ok {
		return nil, false
	}

	switch rv.Kind() {
	case reflect.Map:
		kt := rv.Type().Key()
		if kt.Kind() != reflect.String {
			return nil, false
		}
		x := rv.MapIndex(reflect.ValueOf(step).Convert(kt))
		if !x.IsValid() {
			return nil, false
		}
		return x.Interface(), true
	case reflect.Struct:
		return structField(rv, step)
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(step)
		if err != nil || i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	}
	return nil, false
}

// indirect 解开指针和接口, 遇到 nil 返回 false
func indirect(rv reflect.Value) (reflect.Value, bool) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return rv, false
		}
		rv = rv.Elem()
	}
	return rv, rv.IsValid()
}

// structField 先按 json tag 匹配, 再按 Go 字段名匹配; 匿名嵌入的结构体按 encoding/json 的规则展开
func structField(rv reflect.Value, step string) (any, bool) {
	t := rv.Type()

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous || !f.IsExported() {
			continue
		}
		if jsonName(f.Tag.Get("json")) == step {
			return rv.Field(i).Interface(), true
		}
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous || !f.IsExported() {
			continue
		}
		if f.Name == step {
			return rv.Field(i).Interface(), true
		}
	}
	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).Anonymous {
			continue
		}
		fv, ok := indirect(rv.Field(i))
		if !ok || fv.Kind() != reflect.Struct {
			continue
		}
		if x, ok := structField(fv, step); ok {
			return x, true
		}
	}
	return nil, false
}

func jsonName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}
