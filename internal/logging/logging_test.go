package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251124-pppd/internal/config"
)

// TestInitHook 测试初始化阶段复制到 stderr
func TestInitHook(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	hook := NewInitHook("pppd", &buf)
	logger.AddHook(hook)

	logger.Info("not copied")
	logger.Warn("copied warning")
	logger.Error("copied error")
	assert.Equal(t, "pppd: copied warning\npppd: copied error\n", buf.String())

	hook.Stop()
	assert.False(t, hook.Active())
	logger.Error("after init")
	assert.NotContains(t, buf.String(), "after init")

	var none *InitHook
	assert.NotPanics(t, none.Stop)
	assert.False(t, none.Active())
}

// TestWriterHook 测试可替换的输出目标
func TestWriterHook(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	hook := NewWriterHook()
	logger.AddHook(hook)

	logger.Info("dropped")

	var first, second bytes.Buffer
	hook.SetWriter(&first)
	logger.Info("to first")
	hook.SetWriter(&second)
	logger.Info("to second")
	hook.SetWriter(nil)
	logger.Info("dropped again")

	assert.Contains(t, first.String(), "to first")
	assert.NotContains(t, first.String(), "to second")
	assert.Contains(t, second.String(), "to second")
	assert.NotContains(t, second.String(), "dropped")
}

// TestNew 测试按配置选择后端
func TestNew(t *testing.T) {
	t.Run("默认写 stderr", func(t *testing.T) {
		logger, hook, err := New(config.DefaultConfig(), "pppd")
		require.NoError(t, err)
		assert.Nil(t, hook)
		assert.Equal(t, os.Stderr, logger.Out)
		assert.IsType(t, &PrefixFormatter{}, logger.Formatter)
		assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	})

	t.Run("日志文件", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.LogFile = filepath.Join(t.TempDir(), "pppd.log")
		cfg.LogLevel = "debug"

		logger, hook, err := New(cfg, "pppd")
		require.NoError(t, err)
		require.NotNil(t, hook)
		assert.True(t, hook.Active())
		hook.Stop()

		logger.Debug("hello file")
		data, err := os.ReadFile(cfg.LogFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "hello file")
	})

	t.Run("非法级别", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.LogLevel = "loud"
		_, _, err := New(cfg, "pppd")
		assert.Error(t, err)
	})
}

// TestPrefixFormatter 测试前缀格式
func TestPrefixFormatter(t *testing.T) {
	b, err := (&PrefixFormatter{Progname: "pppd"}).Format(&logrus.Entry{Message: "x"})
	require.NoError(t, err)
	assert.Equal(t, "pppd: x\n", string(b))
}
