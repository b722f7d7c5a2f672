package logx

import (
	"context"

	"github.com/cometwk/erpadmin/pkg/orm"
	"github.com/sirupsen/logrus"
)

// Logger 带 reqid 的 logger, echo handler 外部也可以用
func Logger(ctx context.Context) *logrus.Entry {
	return logrus.WithField("reqid", orm.GetReqID(ctx))
}

// Table 表格相关的日志, 附带表名和当前用户
func Table(ctx context.Context, table, user string) *logrus.Entry {
	return Logger(ctx).WithFields(logrus.Fields{"table": table, "user": user})
}
