package snowflake

import (
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cometwk/erpadmin/pkg/env"
	"github.com/pkg/errors"
)

var (
	mu   sync.Mutex
	node *snowflake.Node
)

// Init 设置集群节点ID, 范围 0..1023
func Init(hostID int64) error {
	n, err := snowflake.NewNode(hostID)
	if err != nil {
		return errors.Wrapf(err, "snowflake 节点 %d", hostID)
	}
	mu.Lock()
	node = n
	mu.Unlock()
	return nil
}

func current() *snowflake.Node {
	mu.Lock()
	defer mu.Unlock()
	if node == nil {
		n, err := snowflake.NewNode(int64(env.Int("HOST_ID", 1)))
		if err != nil {
			n, _ = snowflake.NewNode(1)
		}
		node = n
	}
	return node
}

// NextID 实体和草稿的主键
func NextID() int64 {
	return current().Generate().Int64()
}

// IdDatetime 雪花ID中包含的生成时间
func IdDatetime(id int64) time.Time {
	return time.UnixMilli(snowflake.ParseInt64(id).Time())
}
