package main

import (
	"context"
	"crypto/subtle"
	"io"
	"os"
	"path"
	"strconv"

	"github.com/cometwk/erpadmin/pkg/admin"
	"github.com/cometwk/erpadmin/pkg/env"
	"github.com/cometwk/erpadmin/pkg/log"
	"github.com/cometwk/erpadmin/pkg/model"
	"github.com/cometwk/erpadmin/pkg/orm"
	"github.com/cometwk/erpadmin/pkg/serve"
	"github.com/cometwk/erpadmin/pkg/snowflake"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"xorm.io/xorm"
)

// 命令行工具的日志写到 stderr, 不影响 stdout 的输出
func setupCliLog() {
	log.Init(log.Config{Level: env.String("LOG_LEVEL", "warn"), Console: os.Stderr})
}

// 终端界面运行时只写日志文件
func setupFileLog(file string) error {
	logdir := env.DirPath("LOG_DIR", "./log")
	if err := os.MkdirAll(logdir, 0o755); err != nil {
		return errors.Wrapf(err, "创建目录 '%s'", logdir)
	}
	log.Init(log.Config{
		Level:   env.String("LOG_LEVEL", "info"),
		File:    path.Join(logdir, file),
		Console: io.Discard,
	})
	return nil
}

func initDB() (*xorm.Engine, error) {
	if err := snowflake.Init(int64(env.Int("HOST_ID", 1))); err != nil {
		return nil, err
	}
	engine, err := orm.InitDB(env.String("DB_DRIVER", "sqlite3"), env.String("DB_URL", "file:erp.db?_busy_timeout=5000&_journal_mode=WAL"))
	if err != nil {
		return nil, err
	}
	if err := model.InitModels(engine); err != nil {
		return nil, err
	}
	return engine, nil
}

// registerTables 注册实体表格和 TABLE_DIR 下的声明式表格
func registerTables() error {
	model.Register()

	dir := env.DirPath("TABLE_DIR", "./tables")
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logrus.Infof("表格定义目录 %s 不存在, 跳过", dir)
		return nil
	}
	entries, err := admin.LoadDeclarative(dir, model.Handlers())
	if err != nil {
		return err
	}
	admin.Register(entries...)
	logrus.Infof("加载了 %d 个声明式表格", len(entries))
	return nil
}

// loginFunc 在职员工使用统一的管理密码登录
func loginFunc(password string) serve.LoginFunc {
	return func(ctx context.Context, email, pw string) (string, string, error) {
		if password == "" {
			return "", "", errors.New("未设置 ADMIN_PASSWORD, 禁止登录")
		}
		session := orm.MustSession(ctx)
		defer session.Close()

		e, err := model.FindLogin(ctx, session, email)
		if err != nil {
			return "", "", err
		}
		if subtle.ConstantTimeCompare([]byte(pw), []byte(password)) != 1 {
			return "", "", errors.New("密码错误")
		}
		return strconv.FormatInt(e.ID, 10), e.Role, nil
	}
}
