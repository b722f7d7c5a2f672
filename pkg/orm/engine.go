package orm

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"xorm.io/xorm"
	"xorm.io/xorm/names"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // 必须使用 stdlib 包适配 database/sql
	_ "github.com/mattn/go-sqlite3"    // file:erp.db?_busy_timeout=5000&_journal_mode=WAL
)

var xlog = logrus.WithField("module", "orm")

var mapper = new(names.GonicMapper)

// 默认引擎, 由 InitDB 设置
var engine1 *xorm.Engine

// NewXormEngine 创建引擎并检查连接. 全部采用 UTC 时区
func NewXormEngine(dbDriver, dbUrl string) (*xorm.Engine, error) {
	if dbDriver == "pgx" || dbDriver == "postgres" {
		dbDriver = "pgx"
	}
	engine, err := xorm.NewEngine(dbDriver, dbUrl)
	if err != nil {
		return nil, errors.Wrap(err, "数据库 xorm engine 初始化失败")
	}

	engine.TZLocation = time.UTC // 应用时使用 UTC
	engine.DatabaseTZ = time.UTC // 数据库存储时使用 UTC

	engine.SetMapper(mapper)
	engine.SetMaxOpenConns(10)
	if dbDriver == "sqlite3" {
		// :memory: 每个连接是独立的数据库
		engine.SetMaxOpenConns(1)
	}

	if _, err := engine.Query("select 1"); err != nil {
		return nil, errors.Wrap(err, "数据库连接失败")
	}

	engine.SetLogger(NewXormLogrus(xlog))
	engine.ShowSQL(true)
	xlog.Infof("数据库初始化成功: DB_DRIVER = %s", dbDriver)
	return engine, nil
}

func InitDB(dbDriver, dbUrl string) (*xorm.Engine, error) {
	if engine1 != nil {
		xlog.Info("数据库已经初始化, 跳过初始化")
		return engine1, nil
	}
	engine, err := NewXormEngine(dbDriver, dbUrl)
	if err != nil {
		return nil, err
	}
	engine1 = engine
	return engine, nil
}

// InitEngine 使用已有的引擎 (测试时使用 sqlite :memory:)
func InitEngine(engine *xorm.Engine) {
	engine1 = engine
}

func MustDB() *xorm.Engine {
	if engine1 == nil {
		panic("orm: 数据库未初始化")
	}
	return engine1
}

// MustSession 返回的 session 需要调用方关闭
func MustSession(ctx context.Context) *xorm.Session {
	session := MustDB().NewSession()
	session.Context(ctx)
	return session
}

// Close 关闭默认引擎
func Close() error {
	if engine1 == nil {
		return nil
	}
	err := engine1.Close()
	engine1 = nil
	return err
}
