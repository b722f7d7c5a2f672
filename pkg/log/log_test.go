package log

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "main.log")
	Init(Config{Level: "warn", File: file, NoColor: true, Console: &buf})
	defer InitDebugNoColor()

	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())

	logrus.WithField("module", "test").Info("不输出")
	logrus.WithField("module", "test").Warn("输出")
	assert.NotContains(t, buf.String(), "不输出")
	assert.Contains(t, buf.String(), "输出")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("verbose"))
}
