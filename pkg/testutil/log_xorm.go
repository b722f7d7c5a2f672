package testutil

import (
	"sync"

	"github.com/sirupsen/logrus"
	"xorm.io/xorm/log"
)

type LogEntry struct {
	SQL  string
	Args []any
	Err  error
}

// SQLRecorder 记录 xorm 执行的 SQL, 用于断言查询条件
type SQLRecorder struct {
	mu      sync.Mutex
	logger  *logrus.Entry
	entries []LogEntry
}

var _ log.ContextLogger = &SQLRecorder{}

func NewSQLRecorder() *SQLRecorder {
	return &SQLRecorder{logger: logrus.WithField("module", "xorm")}
}

func (x *SQLRecorder) Entries() []LogEntry {
	x.mu.Lock()
	defer x.mu.Unlock()
	return append([]LogEntry(nil), x.entries...)
}

func (x *SQLRecorder) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries = nil
}

func (x *SQLRecorder) BeforeSQL(ctx log.LogContext) {}

func (x *SQLRecorder) AfterSQL(ctx log.LogContext) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries = append(x.entries, LogEntry{SQL: ctx.SQL, Args: ctx.Args, Err: ctx.Err})
}

func (x *SQLRecorder) Debug(v ...any)                 { x.logger.Debug(v...) }
func (x *SQLRecorder) Debugf(format string, v ...any) { x.logger.Debugf(format, v...) }
func (x *SQLRecorder) Error(v ...any)                 { x.logger.Error(v...) }
func (x *SQLRecorder) Errorf(format string, v ...any) { x.logger.Errorf(format, v...) }
func (x *SQLRecorder) Info(v ...any)                  { x.logger.Info(v...) }
func (x *SQLRecorder) Infof(format string, v ...any)  { x.logger.Infof(format, v...) }
func (x *SQLRecorder) Warn(v ...any)                  { x.logger.Warn(v...) }
func (x *SQLRecorder) Warnf(format string, v ...any)  { x.logger.Warnf(format, v...) }

func (x *SQLRecorder) Level() log.LogLevel     { return log.LOG_DEBUG }
func (x *SQLRecorder) SetLevel(l log.LogLevel) {}
func (x *SQLRecorder) ShowSQL(show ...bool)    {}
func (x *SQLRecorder) IsShowSQL() bool         { return true }
