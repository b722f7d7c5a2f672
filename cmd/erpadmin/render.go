package main

import (
	"os"
	"strings"

	"github.com/cometwk/erpadmin/pkg/admin"
	"github.com/cometwk/erpadmin/pkg/orm"
	"github.com/cometwk/erpadmin/pkg/table"
	"github.com/cometwk/erpadmin/pkg/table/textview"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var renderCommand = &cli.Command{
	Name:    "render",
	Aliases: []string{"r"},
	Usage:   "--table <name> 在终端输出一页表格",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "table", Aliases: []string{"t"}, Usage: "表格名称", Required: true},
		&cli.StringFlag{Name: "q", Usage: "搜索词"},
		&cli.StringFlag{Name: "status", Usage: "状态过滤, 例如 true, pending, all"},
		&cli.StringFlag{Name: "sort", Usage: "排序列"},
		&cli.BoolFlag{Name: "desc", Usage: "降序"},
		&cli.IntFlag{Name: "page", Aliases: []string{"p"}, Usage: "页码, 从 1 开始", Value: 1},
		&cli.IntFlag{Name: "pagesize", Usage: "每页条数, 0 使用表格的设置"},
		&cli.StringSliceFlag{Name: "where", Aliases: []string{"w"}, Usage: "数据库条件, 例如 status.eq=pending"},
		&cli.IntFlag{Name: "width", Usage: "单元格最大宽度", Value: 32},
		&cli.BoolFlag{Name: "no-index", Usage: "不显示序号列"},
		&cli.BoolFlag{Name: "no-color", Usage: "不输出颜色"},
	},
	Action: func(c *cli.Context) error {
		setupCliLog()
		if c.Bool("no-color") {
			color.NoColor = true
		}
		q, err := queryOf(c)
		if err != nil {
			return err
		}

		if _, err := initDB(); err != nil {
			return err
		}
		defer orm.Close()
		if err := registerTables(); err != nil {
			return err
		}

		e, err := admin.Lookup(c.String("table"))
		if err != nil {
			return err
		}
		session := orm.MustSession(c.Context)
		defer session.Close()

		cursor, err := e.Open(c.Context, session, q, nil)
		if err != nil {
			return err
		}
		return cursor.WriteText(os.Stdout, textview.Options{
			MaxColumnWidth: c.Int("width"),
			HideIndex:      c.Bool("no-index"),
		})
	},
}

func queryOf(c *cli.Context) (admin.Query, error) {
	q := admin.Query{
		Search:   strings.TrimSpace(c.String("q")),
		Status:   table.ParseStatusValue(c.String("status")),
		Page:     c.Int("page"),
		PageSize: c.Int("pagesize"),
		Where:    map[string]string{},
	}
	if key := c.String("sort"); key != "" {
		q.Sort = table.SortState{Key: key}
		if c.Bool("desc") {
			q.Sort.Direction = table.Desc
		}
	}
	for _, w := range c.StringSlice("where") {
		k, v, ok := strings.Cut(w, "=")
		if !ok {
			return q, errors.Errorf("--where '%s' 格式错误, 应为 列名.操作符=值", w)
		}
		q.Where["where."+strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return q, nil
}
