package log

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogWriter 按大小轮转的日志文件
func NewLogWriter(filepath string) io.Writer {
	return &lumberjack.Logger{
		Filename:  filepath,
		MaxSize:   20, // MB
		Compress:  true,
		LocalTime: true,
	}
}
