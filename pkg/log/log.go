package log

import (
	"io"
	"os"
	"path"
	"runtime"
	"strconv"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// 日志字段:
//  - reqid: 请求ID
//  - module: 模块名称
//  - table: 表格名称
//  - session: 会话ID

type Config struct {
	Level   string    // debug/info/warn/error, 其它值按 info
	File    string    // 为空时不写文件
	NoColor bool      // 终端输出不带颜色
	Console io.Writer // 终端输出, 为空时使用 stdout; 设为 io.Discard 关闭
}

// InitDebug 开发调试: debug 级别, 只输出到终端
func InitDebug() {
	Init(Config{Level: "debug"})
}

func InitDebugNoColor() {
	Init(Config{Level: "debug", NoColor: true})
}

// Init JSON 格式写入日志文件 (lumberjack 轮转), 终端钩子输出彩色单行格式
func Init(cfg Config) {
	color.NoColor = cfg.NoColor
	logrus.SetLevel(ParseLevel(cfg.Level))
	logrus.SetReportCaller(true)
	logrus.SetFormatter(&logrus.JSONFormatter{
		CallerPrettyfier: func(f *runtime.Frame) (function string, file string) {
			function = path.Base(f.Function)
			file = path.Base(f.File) + ":" + strconv.Itoa(f.Line)
			return
		},
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyMsg: "message",
		},
	})

	if cfg.File != "" {
		logrus.SetOutput(NewLogWriter(cfg.File))
	} else {
		logrus.SetOutput(io.Discard)
	}

	console := cfg.Console
	if console == nil {
		console = os.Stdout
	}
	logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
	if console != io.Discard {
		logrus.AddHook(NewTerminalHook(console))
	}
}

func ParseLevel(level string) logrus.Level {
	switch level {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	}
	return logrus.InfoLevel
}
