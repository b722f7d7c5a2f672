package orm

import (
	"context"

	"github.com/pkg/errors"
	"xorm.io/builder"
	"xorm.io/xorm"
)

// Result 列表接口的分页结果. page 从 0 开始
type Result[T any] struct {
	Data     T     `json:"data"`
	Page     int64 `json:"page"`
	Pagesize int64 `json:"pagesize"`
	Total    int64 `json:"total"`
}

const MaxPagesize = 500

// FindAll 按条件加载实体, 条件为空时加载全部. 排序交给表格引擎
func FindAll[T any](ctx context.Context, session *xorm.Session, cond builder.Cond) ([]T, error) {
	rows := make([]T, 0)
	if cond != nil && cond.IsValid() {
		session = session.Where(cond)
	}
	if err := session.Context(ctx).Find(&rows); err != nil {
		var o T
		return nil, errors.Wrapf(err, "查询 %T 失败", o)
	}
	return rows, nil
}

// QueryMaps 按表名加载通用记录, 用于声明式表格. []byte 值转为字符串
func QueryMaps(ctx context.Context, session *xorm.Session, table string, cond builder.Cond) ([]map[string]any, error) {
	q := session.Context(ctx).Table(table)
	if cond != nil && cond.IsValid() {
		q = q.Where(cond)
	}
	rows, err := q.QueryInterface()
	if err != nil {
		return nil, errors.Wrapf(err, "查询表 %s 失败", table)
	}
	for _, row := range rows {
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
	}
	return rows, nil
}
