package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251124-pppd/internal/metrics"
	"github.com/lwmacct/251124-pppd/internal/option"
)

type fakeCreds struct {
	uid, euid   int
	calls       []int
	failDrop    bool
	failRestore bool
}

func (c *fakeCreds) Getuid() int  { return c.uid }
func (c *fakeCreds) Geteuid() int { return c.euid }

func (c *fakeCreds) Seteuid(euid int) error {
	c.calls = append(c.calls, euid)
	if euid == c.uid && c.failDrop {
		return errors.New("operation not permitted")
	}
	if euid != c.uid && c.failRestore {
		return errors.New("operation not permitted")
	}
	c.euid = euid
	return nil
}

type env struct {
	reader  *Reader
	engine  *option.Engine
	creds   *fakeCreds
	hook    *test.Hook
	m       *metrics.Metrics
	dir     string
	usage   int
	exports map[string]string

	holdoff  int
	name     string
	password string
	contexts []option.Context
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		creds:   &fakeCreds{uid: 1000, euid: 0},
		dir:     t.TempDir(),
		exports: map[string]string{},
		m:       metrics.New(),
	}
	logger, hook := test.NewNullLogger()
	e.hook = hook

	general := option.NewTable("",
		&option.Option{Name: "holdoff", Kind: option.KindInt, Int: &e.holdoff, Flags: option.Flags{Prio: true}},
		&option.Option{Name: "name", Kind: option.KindString, String: &e.name},
		&option.Option{Name: "password", Kind: option.KindString, String: &e.password, Flags: option.Flags{Hide: true}},
		&option.Option{Name: "file", Kind: option.KindSpecial, Parse: func(c *option.Call) error {
			return e.reader.File(c.Ctx, c.Arg(), true, true, c.Ctx.Privileged)
		}},
		&option.Option{Name: "call", Kind: option.KindSpecial, Parse: func(c *option.Call) error {
			return e.reader.Peer(c.Ctx, c.Arg())
		}},
		&option.Option{Name: "probe", Kind: option.KindSpecialNoArg, Parse: func(c *option.Call) error {
			e.contexts = append(e.contexts, c.Ctx)
			return nil
		}},
	)
	e.engine = option.NewEngine(option.NewRegistry(general, nil, nil), option.WithLogger(logger))
	e.reader = NewReader(e.engine, Paths{
		SysOptions:       filepath.Join(e.dir, "options"),
		PeersDir:         filepath.Join(e.dir, "peers"),
		TTYOptionsPrefix: filepath.Join(e.dir, "options."),
		UserOptionsFile:  ".ppprc",
		HomeDir:          filepath.Join(e.dir, "home"),
	},
		WithCredentials(e.creds),
		WithLogger(logger),
		WithMetrics(e.m),
		WithUsage(func() { e.usage++ }),
		WithScriptEnv(func(name, value string) { e.exports[name] = value }),
	)
	return e
}

func (e *env) write(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (e *env) opt(name string) *option.Option { return e.engine.Find(name) }

// TestReader_Args 测试命令行来源
func TestReader_Args(t *testing.T) {
	t.Run("正常解析", func(t *testing.T) {
		e := newEnv(t)
		require.NoError(t, e.reader.Args(option.Context{}, []string{"holdoff", "5", "name", "peer1", "probe"}, false))
		assert.Equal(t, 5, e.holdoff)
		assert.Equal(t, "peer1", e.name)
		assert.Equal(t, CommandLine, e.opt("holdoff").Source())
		assert.Equal(t, option.PriorityCmdLine, e.opt("holdoff").Priority())
		require.Len(t, e.contexts, 1)
		assert.Equal(t, "probe", e.contexts[0].Option)
	})

	t.Run("未知选项打印用法", func(t *testing.T) {
		e := newEnv(t)
		err := e.reader.Args(option.Context{}, []string{"bogus"}, false)
		assert.EqualError(t, err, "unrecognized option 'bogus'")
		assert.ErrorIs(t, err, option.ErrUnrecognized)
		assert.Equal(t, 1, e.usage)
	})

	t.Run("参数不足", func(t *testing.T) {
		e := newEnv(t)
		err := e.reader.Args(option.Context{}, []string{"holdoff"}, false)
		assert.EqualError(t, err, "too few parameters for option holdoff")
		assert.ErrorIs(t, err, option.ErrTooFewParams)
	})

	t.Run("擦除隐藏参数", func(t *testing.T) {
		e := newEnv(t)
		argv := []string{"password", "hunter2"}
		require.NoError(t, e.reader.Args(option.Context{}, argv, false))
		assert.Equal(t, []string{"password", option.HiddenArg}, argv)
		assert.Equal(t, "hunter2", e.password)
	})
}

// TestReader_File 测试选项文件来源
func TestReader_File(t *testing.T) {
	t.Run("继承调用者优先级", func(t *testing.T) {
		e := newEnv(t)
		path := e.write(t, "opts", "# comment\nholdoff 7 name \"a b\"\n")
		ctx := option.Context{Priority: option.PriorityCfgFile}
		require.NoError(t, e.reader.File(ctx, path, true, false, true))

		assert.Equal(t, 7, e.holdoff)
		assert.Equal(t, "a b", e.name)
		assert.Equal(t, path, e.opt("holdoff").Source())
		assert.Equal(t, option.PriorityCfgFile, e.opt("holdoff").Priority())
		assert.Equal(t, 1.0, testutil.ToFloat64(e.m.OptionFiles.WithLabelValues(metrics.FileRead)))
	})

	t.Run("可选文件不存在时静默", func(t *testing.T) {
		e := newEnv(t)
		require.NoError(t, e.reader.File(option.Context{}, filepath.Join(e.dir, "missing"), false, false, false))
		require.NoError(t, e.reader.File(option.Context{}, filepath.Join(e.write(t, "plain", ""), "x"), false, false, false))
		assert.Empty(t, e.hook.AllEntries())
		assert.Equal(t, 2.0, testutil.ToFloat64(e.m.OptionFiles.WithLabelValues(metrics.FileMissing)))
	})

	t.Run("其他打开错误告警", func(t *testing.T) {
		e := newEnv(t)
		loop := filepath.Join(e.dir, "loop")
		require.NoError(t, os.Symlink(loop, loop))
		require.NoError(t, e.reader.File(option.Context{}, loop, false, false, false))
		require.NotNil(t, e.hook.LastEntry())
		assert.Contains(t, e.hook.LastEntry().Message, "Warning: can't open options file "+loop)
	})

	t.Run("必需文件不存在", func(t *testing.T) {
		e := newEnv(t)
		path := filepath.Join(e.dir, "missing")
		err := e.reader.File(option.Context{}, path, true, false, false)
		assert.ErrorIs(t, err, option.ErrFileOpen)
		assert.EqualError(t, err, "Can't open options file "+path+": no such file or directory")
	})

	t.Run("文件中的未知选项", func(t *testing.T) {
		e := newEnv(t)
		path := e.write(t, "bad", "holdoff 1\nbogus\n")
		err := e.reader.File(option.Context{}, path, true, false, false)
		assert.EqualError(t, err, "In file "+path+": unrecognized option 'bogus'")
		assert.Equal(t, 1, e.holdoff, "options before the error stay applied")
		assert.Zero(t, e.usage)
	})

	t.Run("文件中参数不足", func(t *testing.T) {
		e := newEnv(t)
		path := e.write(t, "short", "holdoff")
		err := e.reader.File(option.Context{}, path, true, false, false)
		assert.EqualError(t, err, "In file "+path+": too few parameters for option 'holdoff'")
	})

	t.Run("读取错误", func(t *testing.T) {
		e := newEnv(t)
		err := e.reader.File(option.Context{}, e.dir, true, false, false)
		assert.ErrorIs(t, err, option.ErrFatal)
	})

	t.Run("嵌套文件恢复上下文", func(t *testing.T) {
		e := newEnv(t)
		inner := e.write(t, "inner", "probe\n")
		outer := e.write(t, "outer", "file "+inner+"\nprobe\n")
		ctx := option.Context{Privileged: true, Priority: option.PriorityCfgFile}
		require.NoError(t, e.reader.File(ctx, outer, true, false, true))

		require.Len(t, e.contexts, 2)
		assert.Equal(t, inner, e.contexts[0].Source)
		assert.Equal(t, outer, e.contexts[1].Source)
		assert.Equal(t, "probe", e.contexts[1].Option)
		assert.True(t, e.contexts[1].Privileged)
	})
}

// TestReader_AsRealUser 测试有效用户切换
func TestReader_AsRealUser(t *testing.T) {
	t.Run("打开前降权打开后恢复", func(t *testing.T) {
		e := newEnv(t)
		path := e.write(t, "prot", "holdoff 3\n")
		require.NoError(t, e.reader.File(option.Context{}, path, true, true, false))
		assert.Equal(t, []int{1000, 0}, e.creds.calls)
		assert.Equal(t, 0, e.creds.euid)
	})

	t.Run("不检查时不切换", func(t *testing.T) {
		e := newEnv(t)
		path := e.write(t, "plain", "")
		require.NoError(t, e.reader.File(option.Context{}, path, true, false, false))
		assert.Empty(t, e.creds.calls)
	})

	t.Run("降权失败", func(t *testing.T) {
		e := newEnv(t)
		e.creds.failDrop = true
		path := e.write(t, "prot", "")
		err := e.reader.File(option.Context{}, path, true, true, false)
		assert.ErrorIs(t, err, option.ErrFileOpen)
		assert.Contains(t, err.Error(), "unable to drop privileges to open "+path)
	})

	t.Run("恢复失败是致命错误", func(t *testing.T) {
		e := newEnv(t)
		e.creds.failRestore = true
		path := e.write(t, "prot", "holdoff 3\n")
		err := e.reader.File(option.Context{}, path, false, true, false)
		assert.ErrorIs(t, err, option.ErrFatal)
		assert.Zero(t, e.holdoff, "nothing is read after a failed restore")
	})
}

// TestSystemCredentials 测试进程凭据，切换到当前有效用户对任何用户都合法
func TestSystemCredentials(t *testing.T) {
	c := SystemCredentials()
	assert.Equal(t, os.Getuid(), c.Getuid())
	euid := c.Geteuid()
	assert.Equal(t, os.Geteuid(), euid)

	require.NoError(t, c.Seteuid(euid))
	assert.Equal(t, euid, c.Geteuid())
	assert.Equal(t, os.Getuid(), c.Getuid(), "real uid is left alone")

	e := newEnv(t)
	e.reader = NewReader(e.engine, Paths{}, WithCredentials(c))
	path := e.write(t, "prot", "holdoff 3\n")
	require.NoError(t, e.reader.File(option.Context{}, path, true, true, false))
	assert.Equal(t, 3, e.holdoff)
	assert.Equal(t, euid, c.Geteuid())
}

// TestReader_Sources 测试系统、用户与 tty 文件
func TestReader_Sources(t *testing.T) {
	t.Run("系统文件在非特权时必须存在", func(t *testing.T) {
		e := newEnv(t)
		assert.ErrorIs(t, e.reader.System(option.Context{}, false), option.ErrFileOpen)
		assert.NoError(t, e.reader.System(option.Context{}, true))
	})

	t.Run("系统文件不降权", func(t *testing.T) {
		e := newEnv(t)
		e.write(t, "options", "holdoff 4\n")
		require.NoError(t, e.reader.System(option.Context{Priority: option.PriorityCmdLine}, false))
		assert.Empty(t, e.creds.calls)
		assert.Equal(t, option.PriorityCfgFile, e.opt("holdoff").Priority())
	})

	t.Run("用户文件以真实用户打开", func(t *testing.T) {
		e := newEnv(t)
		path := e.write(t, "home/.ppprc", "holdoff 9\n")
		require.NoError(t, e.reader.User(option.Context{}, false))
		assert.Equal(t, 9, e.holdoff)
		assert.Equal(t, path, e.opt("holdoff").Source())
		assert.Equal(t, []int{1000, 0}, e.creds.calls)
	})

	t.Run("用户文件不存在", func(t *testing.T) {
		e := newEnv(t)
		assert.NoError(t, e.reader.User(option.Context{}, false))
	})

	t.Run("tty 文件名", func(t *testing.T) {
		e := newEnv(t)
		tests := map[string]string{
			"/dev/ttyS0":      filepath.Join(e.dir, "options.ttyS0"),
			"/dev/pts/3":      filepath.Join(e.dir, "options.pts.3"),
			"ttyUSB0":         filepath.Join(e.dir, "options.ttyUSB0"),
			"/chroot/dev/tty": "",
			"/dev/":           "",
		}
		for dev, want := range tests {
			assert.Equal(t, want, e.reader.TTYFileName(dev), dev)
		}
	})

	t.Run("读取 tty 文件", func(t *testing.T) {
		e := newEnv(t)
		e.write(t, "options.ttyS0", "holdoff 2\n")
		require.NoError(t, e.reader.TTY(option.Context{DeviceLocked: true}, "/dev/ttyS0"))
		assert.Equal(t, 2, e.holdoff)
		assert.NoError(t, e.reader.TTY(option.Context{}, "/dev/ttyS9"))
	})
}

// TestReader_Peer 测试 peer 文件路径安全
func TestReader_Peer(t *testing.T) {
	t.Run("拒绝路径逃逸", func(t *testing.T) {
		for _, name := range []string{"", "/etc/shadow", "../etc/shadow", "ok/../../x", ".."} {
			e := newEnv(t)
			err := e.reader.Args(option.Context{}, []string{"call", name}, false)
			assert.ErrorIs(t, err, option.ErrPathEscape, name)
			assert.EqualError(t, err, "call option value may not contain .. or start with /")
			assert.Zero(t, testutil.CollectAndCount(e.m.OptionFiles), "no file was touched for %q", name)
			assert.Empty(t, e.exports)
		}
	})

	t.Run("允许子目录", func(t *testing.T) {
		e := newEnv(t)
		path := e.write(t, "peers/ok/peer", "holdoff 6\n")
		require.NoError(t, e.reader.Args(option.Context{}, []string{"call", "ok/peer"}, false))
		assert.Equal(t, 6, e.holdoff)
		assert.Equal(t, path, e.opt("holdoff").Source())
		assert.Equal(t, map[string]string{"CALL_FILE": "ok/peer"}, e.exports)
		assert.Empty(t, e.creds.calls)
	})

	t.Run("以点开头的名字合法", func(t *testing.T) {
		assert.True(t, ValidPeerName("..hidden"))
		assert.True(t, ValidPeerName("a/..b"))
	})

	t.Run("peer 文件必须存在", func(t *testing.T) {
		e := newEnv(t)
		err := e.reader.Args(option.Context{}, []string{"call", "nope"}, false)
		assert.ErrorIs(t, err, option.ErrFileOpen)
	})
}

// TestReader_List 测试 secrets 文件中的选项
func TestReader_List(t *testing.T) {
	t.Run("正常解析", func(t *testing.T) {
		e := newEnv(t)
		require.NoError(t, e.reader.List(option.Context{}, []string{"holdoff", "8"}, false))
		assert.Equal(t, 8, e.holdoff)
		assert.Equal(t, SecretsFile, e.opt("holdoff").Source())
		assert.Equal(t, option.PrioritySecFile, e.opt("holdoff").Priority())
	})

	t.Run("命令行优先", func(t *testing.T) {
		e := newEnv(t)
		require.NoError(t, e.reader.Args(option.Context{}, []string{"holdoff", "1"}, false))
		require.NoError(t, e.reader.List(option.Context{}, []string{"holdoff", "8"}, true))
		assert.Equal(t, 1, e.holdoff)
	})

	t.Run("错误信息", func(t *testing.T) {
		e := newEnv(t)
		assert.EqualError(t, e.reader.List(option.Context{}, []string{"bogus"}, false),
			"In secrets file: unrecognized option 'bogus'")
		assert.EqualError(t, e.reader.List(option.Context{}, []string{"holdoff"}, false),
			"In secrets file: too few parameters for option 'holdoff'")
	})
}
