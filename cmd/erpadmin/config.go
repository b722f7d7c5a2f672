package main

import (
	"fmt"

	"github.com/cometwk/erpadmin/pkg/admin"
	"github.com/cometwk/erpadmin/pkg/model"
	"github.com/cometwk/erpadmin/pkg/tablecfg"
	"github.com/cometwk/erpadmin/pkg/util"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var configCommand = &cli.Command{
	Name:  "config",
	Usage: "声明式表格定义",
	Subcommands: []*cli.Command{
		{
			Name:      "check",
			Usage:     "<file>... 校验表格定义文件",
			ArgsUsage: "<file>...",
			Action: func(c *cli.Context) error {
				setupCliLog()
				if c.NArg() == 0 {
					return errors.New("需要至少一个文件")
				}
				failed := 0
				for _, file := range c.Args().Slice() {
					if err := checkFile(file); err != nil {
						failed++
						fmt.Printf("%s %s: %v\n", color.RedString("✗"), file, err)
						continue
					}
					fmt.Printf("%s %s\n", color.GreenString("✓"), file)
				}
				if failed > 0 {
					return cli.Exit(fmt.Sprintf("%d 个文件校验失败", failed), 1)
				}
				return nil
			},
		},
		{
			Name:      "show",
			Usage:     "<file> 输出解析后的定义 (JSON)",
			ArgsUsage: "<file>",
			Action: func(c *cli.Context) error {
				setupCliLog()
				def, err := tablecfg.Load(c.Args().First())
				if err != nil {
					return err
				}
				fmt.Println(util.MustPrettyJsonString(def))
				return nil
			},
		},
	},
}

// checkFile 解析, schema 校验, 编译表达式并检查 handler 是否注册
func checkFile(file string) error {
	def, err := tablecfg.Load(file)
	if err != nil {
		return err
	}
	_, err = admin.NewDeclarative(def, model.Handlers())
	return err
}
