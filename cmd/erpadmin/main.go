package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "erpadmin",
		Usage: "ERP 管理后台表格服务",
		Commands: []*cli.Command{
			serveCommand,
			seedCommand,
			renderCommand,
			browseCommand,
			configCommand,
		},
		Action: func(c *cli.Context) error {
			fmt.Printf("\nerror args = %v\n\n", c.Args().Slice())
			return cli.ShowAppHelp(c)
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}
