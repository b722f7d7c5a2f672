package util

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cometwk/erpadmin/pkg/env"
)

var (
	mu     sync.Mutex
	lastMs int64
	seq    int
	hostId = "0"
	// 测试时可以替换
	timeFunc = func() int64 { return time.Now().UnixMilli() }
)

func init() {
	if h := env.String("HOST_ID", ""); h != "" {
		hostId = h
	}
}

func SetHostId(id string) {
	mu.Lock()
	defer mu.Unlock()
	hostId = id
}

// 同一毫秒内最多 1000 个序号, 用完后等待下一毫秒
func nextSeq() (int64, int) {
	mu.Lock()
	defer mu.Unlock()
	for {
		now := timeFunc()
		if now > lastMs {
			lastMs, seq = now, 0
			return now, 0
		}
		if seq < 999 {
			seq++
			return lastMs, seq
		}
		time.Sleep(time.Millisecond)
	}
}

// NextId 跟踪号: YYMMDDHHmmssSSS + prefix + hostId + 3位序号
// 例如 240101123000123W0001
func NextId(prefix string) string {
	ms, n := nextSeq()
	t := time.UnixMilli(ms)
	return t.Format("060102150405") + fmt.Sprintf("%03d", ms%1000) + prefix + hostId + padSeq(n)
}

func padSeq(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}
