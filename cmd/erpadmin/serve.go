package main

import (
	"context"

	"github.com/cometwk/erpadmin/pkg/appstate"
	"github.com/cometwk/erpadmin/pkg/env"
	"github.com/cometwk/erpadmin/pkg/model"
	"github.com/cometwk/erpadmin/pkg/orm"
	"github.com/cometwk/erpadmin/pkg/serve"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:    "serve",
	Aliases: []string{"s"},
	Usage:   "start backend web server",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "seed",
			Usage: "写入演示数据 (已有数据的表跳过)",
		},
	},
	Action: func(c *cli.Context) error {
		state, err := appstate.New(appstate.Config{
			Secret: []byte(env.MustString("JWT_SECRET")),
			Issuer: env.String("JWT_ISSUER", appstate.DefaultIssuer),
			TTL:    env.Duration("SESSION_TTL", appstate.DefaultTTL),
			Sweep:  env.String("SESSION_SWEEP", appstate.DefaultSweep),
		})
		if err != nil {
			return err
		}
		if err := serve.InitSentry(env.String("SENTRY_DSN", ""), env.String("SENTRY_ENV", "development")); err != nil {
			return err
		}

		seed := c.Bool("seed")
		srv := serve.NewEchoServer(serve.Routes(state, loginFunc(env.String("ADMIN_PASSWORD", "")))).
			OnBoot(func() error {
				if _, err := initDB(); err != nil {
					return err
				}
				if seed {
					session := orm.MustSession(context.Background())
					err := model.Seed(context.Background(), session)
					session.Close()
					if err != nil {
						return err
					}
				}
				if err := registerTables(); err != nil {
					return err
				}
				return state.Start()
			}).
			OnStop(func() {
				state.Stop()
				orm.Close()
			})
		return srv.Start()
	},
}

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "写入演示数据",
	Action: func(c *cli.Context) error {
		setupCliLog()
		if _, err := initDB(); err != nil {
			return err
		}
		defer orm.Close()

		session := orm.MustSession(c.Context)
		defer session.Close()
		return model.Seed(c.Context, session)
	},
}
