package util

import (
	"sync/atomic"
	"time"
)

var frozen atomic.Pointer[time.Time]

// Freeze 固定 Now 的返回值, 只在测试中使用
func Freeze(t time.Time) {
	frozen.Store(&t)
}

func Unfreeze() {
	frozen.Store(nil)
}

func Now() time.Time {
	if t := frozen.Load(); t != nil {
		return *t
	}
	return time.Now()
}
