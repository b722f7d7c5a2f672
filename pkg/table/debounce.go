package table

import (
	"sync"
	"time"
)

// Debouncer 搜索输入防抖: 每次输入取代尚未执行的上一次, Stop 后不再执行
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(term string)
	timer   *time.Timer
	gen     uint64
	stopped bool
}

func NewDebouncer(delay time.Duration, fn func(term string)) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

func (d *Debouncer) Trigger(term string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen, term) })
}

func (d *Debouncer) fire(gen uint64, term string) {
	d.mu.Lock()
	// 已被新的输入取代, 或已停止
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn(term)
}

// Stop 取消等待中的调用
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Cancel 丢弃等待中的调用, 之后的 Trigger 仍然有效
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
