package table

import "github.com/pkg/errors"

var (
	ErrNoColumns             = errors.New("table: 至少需要一列")
	ErrEmptyColumnKey        = errors.New("table: 列 key 不能为空")
	ErrDuplicateColumn       = errors.New("table: 列 key 重复")
	ErrMissingOnSort         = errors.New("table: 外部排序模式需要 OnSort 回调")
	ErrMissingStatusAccessor = errors.New("table: 状态过滤需要 accessor")
)
