package orm

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"xorm.io/builder"
	"xorm.io/xorm/schemas"
)

// ILike postgresql 不区分大小写的 like
type ILike [2]string

var _ builder.Cond = ILike{"", ""}

func (like ILike) WriteTo(w builder.Writer) error {
	if _, err := fmt.Fprintf(w, "%s ILIKE ?", like[0]); err != nil {
		return err
	}
	w.Append("%" + like[1] + "%")
	return nil
}

func (like ILike) And(conds ...builder.Cond) builder.Cond {
	return builder.And(like, builder.And(conds...))
}

func (like ILike) Or(conds ...builder.Cond) builder.Cond {
	return builder.Or(like, builder.Or(conds...))
}

func (like ILike) IsValid() bool {
	return len(like[0]) > 0 && len(like[1]) > 0
}

// Where 把 where.列名.操作符=值 形式的查询参数转成条件, 在加载数据时缩小范围.
// 列名必须在白名单中 (白名单为空时不接受任何列)
type Where struct {
	Whitelist []string
	DBType    schemas.DBType
	errs      []string
}

// Parse 解析参数中以 where. 开头的键, 其余键忽略. 键按字母序处理, 生成的 SQL 稳定
func (w *Where) Parse(params map[string]string) (builder.Cond, error) {
	w.errs = nil
	keys := make([]string, 0, len(params))
	for k := range params {
		if strings.HasPrefix(k, "where.") && params[k] != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	cond := builder.NewCond()
	for _, key := range keys {
		if c := w.parse(key, params[key]); c != nil {
			cond = cond.And(c)
		}
	}
	if len(w.errs) > 0 {
		return nil, errors.New("查询参数解析错误: " + strings.Join(w.errs, "; "))
	}
	return cond, nil
}

func (w *Where) keyError(key, reason string) {
	w.errs = append(w.errs, fmt.Sprintf("参数 '%s' 无效: %s", key, reason))
}

func (w *Where) parse(key, value string) builder.Cond {
	parts := strings.Split(key, ".")
	if len(parts) != 3 || parts[1] == "" {
		w.keyError(key, "格式错误, 应为 'where.列名.操作符'")
		return nil
	}
	column, op := parts[1], parts[2]
	if !slices.Contains(w.Whitelist, column) {
		w.keyError(key, fmt.Sprintf("列名 '%s' 不在白名单中", column))
		return nil
	}
	column = "`" + column + "`"

	switch op {
	case "eq":
		return builder.Eq{column: value}
	case "neq":
		return builder.Neq{column: value}
	case "gt":
		return builder.Gt{column: value}
	case "lt":
		return builder.Lt{column: value}
	case "gte":
		return builder.Gte{column: value}
	case "lte":
		return builder.Lte{column: value}
	case "in":
		return builder.In(column, toAny(strings.Split(value, ","))...)
	case "like":
		return w.like(column, value)
	case "btw":
		values := strings.Split(value, ",")
		if len(values) != 2 {
			w.keyError(key, "需要两个值, 用逗号分隔")
			return nil
		}
		return builder.Between{Col: column, LessVal: values[0], MoreVal: values[1]}
	case "time":
		values := strings.Split(value, ",")
		if len(values) != 2 {
			w.keyError(key, "需要两个时间值, 用逗号分隔")
			return nil
		}
		start, err := time.ParseInLocation(time.DateTime, values[0], time.Local)
		if err != nil {
			w.keyError(key, fmt.Sprintf("起始时间格式错误: %v", err))
			return nil
		}
		end, err := time.ParseInLocation(time.DateTime, values[1], time.Local)
		if err != nil {
			w.keyError(key, fmt.Sprintf("结束时间格式错误: %v", err))
			return nil
		}
		// 左闭右开
		return builder.And(builder.Gte{column: start.UTC()}, builder.Lt{column: end.UTC()})
	case "null":
		if value == "true" {
			return builder.IsNull{column}
		}
		return builder.NotNull{column}
	}
	w.keyError(key, fmt.Sprintf("不支持的操作符 '%s'", op))
	return nil
}

func (w *Where) like(column, value string) builder.Cond {
	if w.DBType == schemas.POSTGRES {
		return ILike{column, value}
	}
	return builder.Like{column, value}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
