package log

import (
	"io"

	"github.com/cometwk/erpadmin/pkg/log/xfmt"
	"github.com/sirupsen/logrus"
)

type terminalHook struct {
	printer io.Writer
}

// NewTerminalHook 把 JSON 日志转成彩色单行输出
// logrus.AddHook(log.NewTerminalHook(os.Stdout))
func NewTerminalHook(w io.Writer) *terminalHook {
	return &terminalHook{
		printer: xfmt.NewPrinter(w),
	}
}

func (h *terminalHook) Fire(entry *logrus.Entry) error {
	data, err := entry.Bytes()
	if err != nil {
		return err
	}
	_, err = h.printer.Write(data)
	return err
}

func (h *terminalHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
