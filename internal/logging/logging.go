// Package logging builds the daemon's logrus logger.
//
// Entries go to one backend: a rotated log file, syslog, or stderr. While
// options are being read, warnings and errors are also copied to stderr
// as "<progname>: <message>" so the user running the command sees them.
package logging

import (
	"fmt"
	"io"
	"log/syslog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	lsyslog "github.com/sirupsen/logrus/hooks/syslog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lwmacct/251124-pppd/internal/config"
)

// PrefixFormatter formats entries as "<progname>: <message>".
type PrefixFormatter struct {
	Progname string
}

func (f *PrefixFormatter) Format(e *logrus.Entry) ([]byte, error) {
	return []byte(fmt.Sprintf("%s: %s\n", f.Progname, e.Message)), nil
}

// InitHook copies warnings and errors to a writer while active.
type InitHook struct {
	out       io.Writer
	formatter logrus.Formatter
	active    atomic.Bool
}

// NewInitHook returns an active hook writing to out.
func NewInitHook(progname string, out io.Writer) *InitHook {
	h := &InitHook{out: out, formatter: &PrefixFormatter{Progname: progname}}
	h.active.Store(true)
	return h
}

func (h *InitHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel}
}

func (h *InitHook) Fire(e *logrus.Entry) error {
	if !h.active.Load() {
		return nil
	}
	b, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	_, err = h.out.Write(b)
	return err
}

// Stop ends the copying. It is safe on a nil hook.
func (h *InitHook) Stop() {
	if h != nil {
		h.active.Store(false)
	}
}

// Active reports whether entries are still copied.
func (h *InitHook) Active() bool {
	return h != nil && h.active.Load()
}

// WriterHook writes every entry to a writer that can be replaced, as the
// logfile and logfd options do.
type WriterHook struct {
	mu        sync.Mutex
	w         io.Writer
	formatter logrus.Formatter
}

func NewWriterHook() *WriterHook {
	return &WriterHook{formatter: &logrus.TextFormatter{DisableColors: true, FullTimestamp: true}}
}

// SetWriter replaces the destination; nil disables the hook.
func (h *WriterHook) SetWriter(w io.Writer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.w = w
}

func (h *WriterHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *WriterHook) Fire(e *logrus.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.w == nil {
		return nil
	}
	b, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	_, err = h.w.Write(b)
	return err
}

// New returns the logger configured by cfg and, unless the backend is
// already stderr, an active InitHook installed on it.
func New(cfg config.Config, progname string) (*logrus.Logger, *InitHook, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}
	logger.SetLevel(level)

	switch {
	case cfg.LogFile != "":
		logger.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
		})
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	case cfg.Syslog:
		hook, err := lsyslog.NewSyslogHook("", "", syslog.LOG_NOTICE|syslog.LOG_DAEMON, progname)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to connect to syslog")
		}
		logger.AddHook(hook)
		logger.SetOutput(io.Discard)
	default:
		logger.SetOutput(os.Stderr)
		logger.SetFormatter(&PrefixFormatter{Progname: progname})
		return logger, nil, nil
	}

	dup := NewInitHook(progname, os.Stderr)
	logger.AddHook(dup)
	return logger, dup, nil
}
