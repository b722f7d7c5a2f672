package main

import (
	"context"

	"github.com/cometwk/erpadmin/pkg/admin"
	"github.com/cometwk/erpadmin/pkg/appstate"
	"github.com/cometwk/erpadmin/pkg/orm"
	"github.com/cometwk/erpadmin/pkg/tui"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

var browseCommand = &cli.Command{
	Name:    "browse",
	Aliases: []string{"b"},
	Usage:   "在终端界面中浏览全部表格",
	Action: func(c *cli.Context) error {
		if err := setupFileLog("browse.log"); err != nil {
			return err
		}
		if _, err := initDB(); err != nil {
			return err
		}
		defer orm.Close()
		if err := registerTables(); err != nil {
			return err
		}

		// 本地会话, 编辑操作生成的草稿保存在这里
		state, err := appstate.New(appstate.Config{Secret: []byte(uuid.NewString())})
		if err != nil {
			return err
		}
		defer state.Stop()
		s, _, err := state.Login("cli", "admin", "")
		if err != nil {
			return err
		}

		session := orm.MustSession(c.Context)
		defer session.Close()

		open := func(ctx context.Context, e admin.Entry, ac *admin.ActionContext) (admin.Cursor, error) {
			ac.Drafts = state.DraftSaver(s.ID)
			return e.Open(ctx, session, admin.Query{}, ac)
		}
		return tui.New(c.Context, admin.Entries(), open).Run()
	},
}
