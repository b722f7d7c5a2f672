package model

import (
	"github.com/cometwk/erpadmin/pkg/admin"
	"github.com/cometwk/erpadmin/pkg/tablecfg"
)

// Handlers 声明式表格可以引用的行操作
func Handlers() map[string]admin.Handler {
	return map[string]admin.Handler{
		// draft 复制为当前会话的草稿, 实体名为表格名
		"draft": func(ac *admin.ActionContext, name string, row tablecfg.Record) {
			saveDraft(ac, name, row)
		},
		"record": func(ac *admin.ActionContext, name string, row tablecfg.Record) {
			ac.Result = row
		},
	}
}
