// Package script 用 JavaScript 表达式定义计算列, 例如
//
//	row.first_name + " " + row.last_name
//	row.price * (1 - row.discount)
package script

import (
	"strings"
	"sync"

	"github.com/dop251/goja"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var xlog = logrus.WithField("module", "script")

// Expr 编译后的表达式. goja.Runtime 不是并发安全的, 求值时加锁
type Expr struct {
	src  string
	prog *goja.Program

	mu sync.Mutex
	vm *goja.Runtime
}

func Compile(src string) (*Expr, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, errors.New("script: 表达式为空")
	}
	prog, err := goja.Compile("expr", src, true)
	if err != nil {
		return nil, errors.Wrapf(err, "script: 编译 '%s' 失败", src)
	}

	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	return &Expr{src: src, prog: prog, vm: vm}, nil
}

func MustCompile(src string) *Expr {
	e, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Expr) String() string {
	return e.src
}

// Eval 以 row 为变量求值. undefined 和 null 返回 nil
func (e *Expr) Eval(row any) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.vm.Set("row", row); err != nil {
		return nil, errors.Wrap(err, "script: 设置 row")
	}
	v, err := e.vm.RunProgram(e.prog)
	if err != nil {
		return nil, errors.Wrapf(err, "script: 执行 '%s' 失败", e.src)
	}
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	return v.Export(), nil
}

// Accessor 用作列的取值函数. 出错时返回 nil, 表格显示为空
func Accessor[T any](e *Expr) func(row T) any {
	return func(row T) any {
		v, err := e.Eval(row)
		if err != nil {
			xlog.WithError(err).Debug("计算列求值失败")
			return nil
		}
		return v
	}
}
