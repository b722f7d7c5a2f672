package serve

import (
	"io"

	"github.com/labstack/echo/v4"
	echoLog "github.com/labstack/gommon/log"
	"github.com/sirupsen/logrus"
)

// customLogger 把 echo 的日志转到 logrus
type customLogger struct {
	entry  *logrus.Entry
	prefix string
}

var _ echo.Logger = (*customLogger)(nil)

var levels = map[logrus.Level]echoLog.Lvl{
	logrus.TraceLevel: echoLog.DEBUG,
	logrus.DebugLevel: echoLog.DEBUG,
	logrus.InfoLevel:  echoLog.INFO,
	logrus.WarnLevel:  echoLog.WARN,
	logrus.ErrorLevel: echoLog.ERROR,
}

func (l *customLogger) Output() io.Writer      { return l.entry.Writer() }
func (l *customLogger) SetOutput(w io.Writer)  {}
func (l *customLogger) Prefix() string         { return l.prefix }
func (l *customLogger) SetPrefix(p string)     { l.prefix = p }
func (l *customLogger) SetLevel(v echoLog.Lvl) {}
func (l *customLogger) SetHeader(h string)     {}
func (l *customLogger) Level() echoLog.Lvl {
	if lv, ok := levels[l.entry.Logger.GetLevel()]; ok {
		return lv
	}
	return echoLog.OFF
}

func (l *customLogger) Print(i ...any)                 { l.entry.Info(i...) }
func (l *customLogger) Printf(format string, i ...any) { l.entry.Infof(format, i...) }
func (l *customLogger) Printj(j echoLog.JSON)          { l.entry.WithFields(logrus.Fields(j)).Info() }
func (l *customLogger) Debug(i ...any)                 { l.entry.Debug(i...) }
func (l *customLogger) Debugf(format string, i ...any) { l.entry.Debugf(format, i...) }
func (l *customLogger) Debugj(j echoLog.JSON)          { l.entry.WithFields(logrus.Fields(j)).Debug() }
func (l *customLogger) Info(i ...any)                  { l.entry.Info(i...) }
func (l *customLogger) Infof(format string, i ...any)  { l.entry.Infof(format, i...) }
func (l *customLogger) Infoj(j echoLog.JSON)           { l.entry.WithFields(logrus.Fields(j)).Info() }
func (l *customLogger) Warn(i ...any)                  { l.entry.Warn(i...) }
func (l *customLogger) Warnf(format string, i ...any)  { l.entry.Warnf(format, i...) }
func (l *customLogger) Warnj(j echoLog.JSON)           { l.entry.WithFields(logrus.Fields(j)).Warn() }
func (l *customLogger) Error(i ...any)                 { l.entry.Error(i...) }
func (l *customLogger) Errorf(format string, i ...any) { l.entry.Errorf(format, i...) }
func (l *customLogger) Errorj(j echoLog.JSON)          { l.entry.WithFields(logrus.Fields(j)).Error() }
func (l *customLogger) Fatal(i ...any)                 { l.entry.Fatal(i...) }
func (l *customLogger) Fatalf(format string, i ...any) { l.entry.Fatalf(format, i...) }
func (l *customLogger) Fatalj(j echoLog.JSON)          { l.entry.WithFields(logrus.Fields(j)).Fatal() }
func (l *customLogger) Panic(i ...any)                 { l.entry.Panic(i...) }
func (l *customLogger) Panicf(format string, i ...any) { l.entry.Panicf(format, i...) }
func (l *customLogger) Panicj(j echoLog.JSON)          { l.entry.WithFields(logrus.Fields(j)).Panic() }
