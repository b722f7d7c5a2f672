package table

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

type StatusKind int

const (
	StatusAll StatusKind = iota
	StatusBool
	StatusString
)

// StatusValue 状态过滤的取值: 全部 | bool | 字符串.
// 下拉框提交的 "true"/"false" 在入口处由 ParseStatusValue 转换, 过滤时不再做字符串推断
type StatusValue struct {
	kind StatusKind
	b    bool
	s    string
}

func AllStatus() StatusValue {
	return StatusValue{kind: StatusAll}
}

func BoolStatus(b bool) StatusValue {
	return StatusValue{kind: StatusBool, b: b}
}

func StringStatus(s string) StatusValue {
	return StatusValue{kind: StatusString, s: s}
}

// ParseStatusValue 解析前端提交的状态值. "" 和 "all" 表示不过滤
func ParseStatusValue(s string) StatusValue {
	switch s {
	case "", "all":
		return AllStatus()
	case "true":
		return BoolStatus(true)
	case "false":
		return BoolStatus(false)
	}
	return StringStatus(s)
}

// StatusFromAny 从配置文件解码出的值构造, 数字转为十进制文本
func StatusFromAny(v any) StatusValue {
	switch x := v.(type) {
	case nil:
		return AllStatus()
	case StatusValue:
		return x
	case bool:
		return BoolStatus(x)
	case string:
		if x == "" || x == "all" {
			return AllStatus()
		}
		return StringStatus(x)
	}
	rv := reflect.ValueOf(v)
	if isNumber(rv) {
		return StringStatus(numberText(rv))
	}
	return StringStatus(fmt.Sprint(v))
}

func (v StatusValue) Kind() StatusKind {
	return v.kind
}

func (v StatusValue) IsAll() bool {
	return v.kind == StatusAll
}

// Value 返回底层值: "all", bool 或 string
func (v StatusValue) Value() any {
	switch v.kind {
	case StatusBool:
		return v.b
	case StatusString:
		return v.s
	}
	return "all"
}

func (v StatusValue) String() string {
	switch v.kind {
	case StatusBool:
		return strconv.FormatBool(v.b)
	case StatusString:
		return v.s
	}
	return "all"
}

func (v StatusValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Value())
}

func (v *StatusValue) UnmarshalJSON(data []byte) error {
	var x any
	if err := json.Unmarshal(data, &x); err != nil {
		return err
	}
	*v = StatusFromAny(x)
	return nil
}

// Matches 判断记录上的值是否等于该状态值, nil 永不匹配
func (v StatusValue) Matches(x any) bool {
	if v.kind == StatusAll {
		return true
	}
	x = deref(x)
	if x == nil {
		return false
	}
	rv := reflect.ValueOf(x)

	switch v.kind {
	case StatusBool:
		return rv.Kind() == reflect.Bool && rv.Bool() == v.b
	case StatusString:
		if rv.Kind() == reflect.String {
			return rv.String() == v.s
		}
		if s, ok := x.(fmt.Stringer); ok {
			return s.String() == v.s
		}
		if isNumber(rv) {
			return numberText(rv) == v.s
		}
	}
	return false
}
