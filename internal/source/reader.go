// Package source feeds options into the engine from the command line,
// options files, the user's ~/.ppprc, per-tty files, peer files and
// secrets-file word lists.
package source

import (
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/lwmacct/251124-pppd/internal/lexer"
	"github.com/lwmacct/251124-pppd/internal/metrics"
	"github.com/lwmacct/251124-pppd/internal/option"
)

// Source names used for settings that do not come from a file.
const (
	CommandLine = "command line"
	SecretsFile = "secrets file"
)

// Paths locates the options files.
type Paths struct {
	// SysOptions is the system-wide options file.
	SysOptions string
	// PeersDir holds the files named by the call option.
	PeersDir string
	// TTYOptionsPrefix is prepended to the device name to form the
	// per-tty options file.
	TTYOptionsPrefix string
	// UserOptionsFile is the per-user file name under the home directory.
	UserOptionsFile string
	// HomeDir overrides the real user's home directory lookup.
	HomeDir string
}

// Reader reads options from every source into an engine.
type Reader struct {
	engine  *option.Engine
	paths   Paths
	creds   Credentials
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	usage   func()
	setenv  func(name, value string)
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

func WithCredentials(c Credentials) ReaderOption {
	return func(r *Reader) { r.creds = c }
}

func WithLogger(l logrus.FieldLogger) ReaderOption {
	return func(r *Reader) {
		if l != nil {
			r.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) ReaderOption {
	return func(r *Reader) { r.metrics = m }
}

// WithUsage sets the function called when the command line names an
// unknown option.
func WithUsage(fn func()) ReaderOption {
	return func(r *Reader) { r.usage = fn }
}

// WithScriptEnv sets the function that exports variables to the helper
// scripts' environment.
func WithScriptEnv(fn func(name, value string)) ReaderOption {
	return func(r *Reader) { r.setenv = fn }
}

// NewReader returns a Reader feeding e.
func NewReader(e *option.Engine, paths Paths, opts ...ReaderOption) *Reader {
	r := &Reader{
		engine: e,
		paths:  paths,
		creds:  SystemCredentials(),
		log:    e.Logger(),
		usage:  func() {},
		setenv: func(string, string) {},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Args processes argv, the command line without the program name.
func (r *Reader) Args(ctx option.Context, argv []string, privileged bool) error {
	ctx = ctx.With(privileged, CommandLine, option.PriorityCmdLine)
	for i := 0; i < len(argv); {
		arg := argv[i]
		opt := r.engine.Find(arg)
		if opt == nil {
			r.usage()
			return option.Errorf(option.KindUnrecognized, "unrecognized option '%s'", arg)
		}
		n := option.NArguments(opt)
		if n > len(argv)-i-1 {
			return option.Errorf(option.KindTooFewParams, "too few parameters for option %s", arg)
		}
		if err := r.engine.Process(ctx, opt, arg, argv[i+1:i+1+n]); err != nil {
			return err
		}
		i += 1 + n
	}
	return nil
}

// File processes the options file at path. Settings inherit the caller's
// priority. With checkProt the file is opened as the real user. A missing
// file is an error only when mustExist is set.
func (r *Reader) File(ctx option.Context, path string, mustExist, checkProt, priv bool) error {
	var f *os.File
	err := r.AsRealUser(checkProt, path, func() (err error) {
		f, err = os.Open(path)
		return err
	})
	if err != nil {
		if f != nil {
			f.Close()
		}
		if option.KindOf(err) != 0 {
			r.metrics.OptionFile(metrics.FileFailed)
			return err
		}
		if !mustExist {
			if !errors.Is(err, unix.ENOENT) && !errors.Is(err, unix.ENOTDIR) {
				r.log.Warnf("Warning: can't open options file %s: %v", path, unwrapPathError(err))
			}
			r.metrics.OptionFile(metrics.FileMissing)
			return nil
		}
		r.metrics.OptionFile(metrics.FileFailed)
		return option.Errorf(option.KindFileOpen, "Can't open options file %s: %v", path, unwrapPathError(err))
	}
	defer f.Close()
	r.metrics.OptionFile(metrics.FileRead)

	ctx = ctx.With(priv, path, ctx.Priority)
	return r.words(ctx, lexer.NewReader(f, path, lexer.WithLogger(r.log)), path)
}

func (r *Reader) words(ctx option.Context, lx *lexer.Reader, path string) error {
	for {
		cmd, _, err := lx.ReadWord()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return option.Wrapf(option.KindFatal, errors.Cause(err), "Error reading %s", path)
		}
		opt := r.engine.Find(cmd)
		if opt == nil {
			return option.Errorf(option.KindUnrecognized, "In file %s: unrecognized option '%s'", path, cmd)
		}
		args := make([]string, option.NArguments(opt))
		for i := range args {
			args[i], _, err = lx.ReadWord()
			if err == io.EOF {
				return option.Errorf(option.KindTooFewParams, "In file %s: too few parameters for option '%s'", path, cmd)
			}
			if err != nil {
				return option.Wrapf(option.KindFatal, errors.Cause(err), "Error reading %s", path)
			}
		}
		if err := r.engine.Process(ctx, opt, cmd, args); err != nil {
			return err
		}
	}
}

// System processes the system-wide options file. It must exist unless
// the process is privileged.
func (r *Reader) System(ctx option.Context, privileged bool) error {
	ctx.Priority = option.PriorityCfgFile
	return r.File(ctx, r.paths.SysOptions, !privileged, false, true)
}

// User processes the real user's options file. A missing home directory
// or file is not an error.
func (r *Reader) User(ctx option.Context, privileged bool) error {
	home := r.paths.HomeDir
	if home == "" {
		u, err := user.LookupId(strconv.Itoa(r.creds.Getuid()))
		if err != nil || u.HomeDir == "" {
			return nil
		}
		home = u.HomeDir
	}
	ctx.Priority = option.PriorityCfgFile
	return r.File(ctx, filepath.Join(home, r.paths.UserOptionsFile), false, true, privileged)
}

// TTYFileName maps a device path to its per-tty options file, or "" when
// the device has none.
func (r *Reader) TTYFileName(device string) string {
	dev := device
	if i := strings.Index(dev, "/dev/"); i >= 0 {
		dev = dev[i+len("/dev/"):]
	}
	if dev == "" || dev == "tty" {
		return ""
	}
	return r.paths.TTYOptionsPrefix + strings.ReplaceAll(dev, "/", ".")
}

// TTY processes the per-tty options file for device.
func (r *Reader) TTY(ctx option.Context, device string) error {
	path := r.TTYFileName(device)
	if path == "" {
		return nil
	}
	ctx.Priority = option.PriorityCfgFile
	return r.File(ctx, path, false, false, true)
}

// ValidPeerName reports whether name may be used as a peer file name:
// not empty, not absolute and without ".." components.
func ValidPeerName(name string) bool {
	if name == "" || name[0] == '/' {
		return false
	}
	for _, comp := range strings.Split(name, "/") {
		if comp == ".." {
			return false
		}
	}
	return true
}

// Peer processes the peer file name under the peers directory and exports
// CALL_FILE to the scripts. The name is validated before any file system
// access.
func (r *Reader) Peer(ctx option.Context, name string) error {
	if !ValidPeerName(name) {
		return option.Errorf(option.KindPathEscape, "call option value may not contain .. or start with /")
	}
	path := filepath.Join(r.paths.PeersDir, name)
	if err := r.File(ctx, path, true, false, true); err != nil {
		return err
	}
	r.setenv("CALL_FILE", name)
	return nil
}

// List processes options found in a secrets file entry.
func (r *Reader) List(ctx option.Context, words []string, priv bool) error {
	ctx = ctx.With(priv, SecretsFile, option.PrioritySecFile)
	for i := 0; i < len(words); {
		opt := r.engine.Find(words[i])
		if opt == nil {
			return option.Errorf(option.KindUnrecognized, "In secrets file: unrecognized option '%s'", words[i])
		}
		n := option.NArguments(opt)
		if n > len(words)-i-1 {
			return option.Errorf(option.KindTooFewParams, "In secrets file: too few parameters for option '%s'", words[i])
		}
		if err := r.engine.Process(ctx, opt, words[i], words[i+1:i+1+n]); err != nil {
			return err
		}
		i += 1 + n
	}
	return nil
}

func unwrapPathError(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
