package xfmt

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Printer struct {
	Out io.Writer
}

func NewPrinter(w io.Writer) io.Writer {
	return &Printer{Out: w}
}

// Write 输入是一条 JSON 日志, 无法解析时原样输出
func (p *Printer) Write(raw []byte) (int, error) {
	var e map[string]any
	if err := json.Unmarshal(raw, &e); err != nil {
		return p.Out.Write(raw)
	}
	if e["module"] == "httplog" {
		return io.WriteString(p.Out, FormatHttp(e))
	}
	return io.WriteString(p.Out, FormatMain(e))
}

func field(e map[string]any, key string) string {
	v, ok := e[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func logTime(e map[string]any) string {
	t, err := time.Parse(time.RFC3339, field(e, "time"))
	if err != nil {
		return ""
	}
	return t.Local().Format("01-02 15:04:05.000")
}

// FormatMain 级别 时间 模块(或文件) : reqid 表格 消息
func FormatMain(e map[string]any) string {
	errMsg := field(e, "error")
	plain := func(s string) string {
		if errMsg != "" {
			return color.RedString(s)
		}
		return s
	}

	level := field(e, "level")
	if lv, err := logrus.ParseLevel(level); err == nil && lv <= logrus.WarnLevel {
		level = color.RedString("%-7s", level)
	} else {
		level = fmt.Sprintf("%-7s", level)
	}

	source := field(e, "module")
	if source != "" {
		source = color.MagentaString("%-12s", source)
	} else {
		source = plain(fmt.Sprintf("%-20s", field(e, "file")))
	}

	list := []string{level, plain(logTime(e)), source, ":"}
	if reqid := field(e, "reqid"); reqid != "" {
		list = append(list, color.MagentaString(reqid))
	}
	if table := field(e, "table"); table != "" {
		list = append(list, color.CyanString("[%s]", table))
	}
	list = append(list, plain(field(e, "message")))

	var b strings.Builder
	b.WriteString(strings.Join(list, " "))
	b.WriteString("\n")
	if errMsg != "" {
		b.WriteString("\t")
		b.WriteString(color.RedString(errMsg))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatHttp http 访问日志: 时间 状态 方法 URI 耗时 reqid
func FormatHttp(e map[string]any) string {
	status := field(e, "status")
	if status != "200" {
		status = color.RedString(status)
	}
	latency := field(e, "latency_human")
	if ms, ok := e["latency"].(float64); ok && ms > 1000 {
		latency = color.RedString(latency)
	}
	uri := fmt.Sprintf("%-4s %-32s", field(e, "method"), field(e, "uri"))

	line := strings.Join([]string{logTime(e), status, uri, latency, color.MagentaString(field(e, "reqid"))}, " ")
	if errMsg := field(e, "error"); errMsg != "" {
		line += "\n\t" + color.RedString(errMsg)
	}
	return line + "\n"
}
