// Package pppd holds pppd's option tables and resolves them from the
// system options file, the user's ~/.ppprc, the command line and the
// per-tty options file, in that order.
package pppd

import (
	"io"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lwmacct/251124-pppd/internal/config"
	"github.com/lwmacct/251124-pppd/internal/logging"
	"github.com/lwmacct/251124-pppd/internal/metrics"
	"github.com/lwmacct/251124-pppd/internal/option"
	"github.com/lwmacct/251124-pppd/internal/plugin"
	"github.com/lwmacct/251124-pppd/internal/source"
	"github.com/lwmacct/251124-pppd/internal/userenv"
	"github.com/lwmacct/251124-pppd/internal/version"
)

// Daemon owns the option registry and the settings it writes.
type Daemon struct {
	Settings *Settings
	Env      *userenv.List

	cfg      config.Config
	progname string
	log      logrus.FieldLogger
	initHook *logging.InitHook
	logHook  *logging.WriterHook
	metrics  *metrics.Metrics
	creds    source.Credentials
	stdout   io.Writer
	stderr   io.Writer
	opener   plugin.OpenFunc

	hostname   func() (string, error)
	statDevice func(path string) (fs.FileMode, error)

	registry *option.Registry
	engine   *option.Engine
	reader   *source.Reader
	plugins  *plugin.Loader

	setOpt   *option.Option
	unsetOpt *option.Option

	phase      option.Phase
	privileged bool
	devLocked  bool
	logFile    *os.File
	scriptEnv  map[string]string
}

// Option configures a Daemon.
type Option func(*Daemon)

func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Daemon) {
		if l != nil {
			d.log = l
		}
	}
}

// WithInitHook sets the hook that copies warnings to stderr while options
// are read. Resolve stops it once the daemon leaves initialization.
func WithInitHook(h *logging.InitHook) Option {
	return func(d *Daemon) { d.initHook = h }
}

// WithLogHook sets the hook the logfile option points at the opened file.
func WithLogHook(h *logging.WriterHook) Option {
	return func(d *Daemon) { d.logHook = h }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Daemon) { d.metrics = m }
}

func WithCredentials(c source.Credentials) Option {
	return func(d *Daemon) { d.creds = c }
}

// WithOutput sets where --version, dumps and the usage text are written.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(d *Daemon) {
		d.stdout = stdout
		d.stderr = stderr
	}
}

func WithProgname(name string) Option {
	return func(d *Daemon) { d.progname = name }
}

func WithHostname(fn func() (string, error)) Option {
	return func(d *Daemon) { d.hostname = fn }
}

// WithDeviceStat replaces the lookup used to recognize device names.
func WithDeviceStat(fn func(path string) (fs.FileMode, error)) Option {
	return func(d *Daemon) { d.statDevice = fn }
}

// WithPluginOpener replaces the Go plugin opener.
func WithPluginOpener(fn plugin.OpenFunc) Option {
	return func(d *Daemon) { d.opener = fn }
}

// New returns a daemon with every option table registered and all
// settings at their defaults.
func New(cfg config.Config, opts ...Option) *Daemon {
	d := &Daemon{
		Settings:   DefaultSettings(),
		Env:        &userenv.List{},
		cfg:        cfg,
		progname:   "pppd",
		log:        logrus.StandardLogger(),
		creds:      source.SystemCredentials(),
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		hostname:   os.Hostname,
		statDevice: statMode,
		scriptEnv:  make(map[string]string),
	}
	for _, o := range opts {
		o(d)
	}
	d.privileged = d.creds.Getuid() == 0
	if host, err := d.hostname(); err == nil {
		d.Settings.Hostname = host
	}

	d.registry = option.NewRegistry(d.generalOptions(), d.authOptions(), d.ttyOptions(),
		d.lcpOptions(), d.ipcpOptions())
	d.engine = option.NewEngine(d.registry,
		option.WithLogger(d.log),
		option.WithMetrics(d.metrics))
	paths := source.Paths{
		SysOptions:       cfg.SysOptions,
		PeersDir:         cfg.PeersDir,
		TTYOptionsPrefix: cfg.TTYOptionsPrefix,
		UserOptionsFile:  cfg.UserOptionsFile,
		HomeDir:          cfg.HomeDir,
	}
	d.reader = source.NewReader(d.engine, paths,
		source.WithCredentials(d.creds),
		source.WithLogger(d.log),
		source.WithMetrics(d.metrics),
		source.WithUsage(d.usage),
		source.WithScriptEnv(d.scriptSetenv))

	loaderOpts := []plugin.LoaderOption{plugin.WithMetrics(d.metrics)}
	if d.opener != nil {
		loaderOpts = append(loaderOpts, plugin.WithOpener(d.opener))
	}
	d.plugins = plugin.NewLoader(cfg.PluginDir, version.Version, d, loaderOpts...)
	return d
}

func statMode(path string) (fs.FileMode, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return fi.Mode(), nil
}

// AddOptions registers a plugin's option table.
func (d *Daemon) AddOptions(t *option.Table) {
	d.registry.AddOptions(t)
}

// Logger returns the daemon's logger.
func (d *Daemon) Logger() logrus.FieldLogger { return d.log }

// Engine returns the option engine, for callers that look options up or
// claim values directly.
func (d *Daemon) Engine() *option.Engine { return d.engine }

// Privileged reports whether the daemon was started by root.
func (d *Daemon) Privileged() bool { return d.privileged }

// Plugins returns the names of the loaded plugins.
func (d *Daemon) Plugins() []string { return d.plugins.Loaded() }

func (d *Daemon) context() option.Context {
	return option.Context{Phase: d.phase, DeviceLocked: d.devLocked}
}

// Result reports how resolution ended.
type Result struct {
	// Stop is set when an option such as --version or dryrun asked the
	// daemon to exit successfully.
	Stop bool
}

// Resolve reads every option source in order and checks the result.
// argv excludes the program name.
func (d *Daemon) Resolve(argv []string) (Result, error) {
	err := d.resolve(argv)
	if err == option.ErrStop {
		return Result{Stop: true}, nil
	}
	if err != nil {
		return Result{}, err
	}
	d.phase = option.PhaseRunning
	d.initHook.Stop()
	return Result{}, nil
}

func (d *Daemon) resolve(argv []string) error {
	ctx := d.context()
	if err := d.reader.System(ctx, d.privileged); err != nil {
		return err
	}
	if !d.cfg.NoUserOptions {
		if err := d.reader.User(ctx, d.privileged); err != nil {
			return err
		}
	}
	if err := d.reader.Args(ctx, argv, d.privileged); err != nil {
		return err
	}

	d.devLocked = true
	if err := d.reader.TTY(d.context(), d.Settings.TTY.Device); err != nil {
		return err
	}

	d.checkOptions()

	if d.Settings.ShowOptions {
		d.engine.Catalog(d.stdout)
		return option.ErrStop
	}
	if d.Settings.DumpOptions || d.Settings.DryRun {
		if err := d.engine.Dump(d.stdout); err != nil {
			return err
		}
	}
	if d.Settings.DryRun {
		return option.ErrStop
	}
	return nil
}

// checkOptions closes the log file when a later logfd or nolog setting
// replaced it.
func (d *Daemon) checkOptions() {
	if d.logFile == nil || d.Settings.LogFD == int(d.logFile.Fd()) {
		return
	}
	d.logFile.Close()
	d.logFile = nil
	if d.logHook != nil {
		d.logHook.SetWriter(nil)
	}
}

// OptionsFromSecrets applies the options listed with a secrets file
// entry. priv is set when the secrets file is only writable by root.
func (d *Daemon) OptionsFromSecrets(words []string, priv bool) error {
	return d.reader.List(d.context(), words, priv)
}

// OverrideValue claims an option group's value for a subsystem outside
// option processing.
func (d *Daemon) OverrideValue(name string, prio option.Priority, source string) bool {
	return d.engine.OverrideValue(name, prio, source)
}

// Dump writes the options in effect to w.
func (d *Daemon) Dump(w io.Writer) error {
	return d.engine.Dump(w)
}

func (d *Daemon) scriptSetenv(name, value string) {
	d.scriptEnv[name] = value
}

// ScriptEnviron returns base extended with the variables exported by
// option processing and the user's set and unset options.
func (d *Daemon) ScriptEnviron(base []string) []string {
	env := make([]string, 0, len(base)+len(d.scriptEnv))
	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		if _, ok := d.scriptEnv[name]; !ok {
			env = append(env, kv)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(d.scriptEnv)) {
		env = append(env, name+"="+d.scriptEnv[name])
	}
	return d.Env.Apply(env)
}

// Close releases the log file opened by the logfile option.
func (d *Daemon) Close() error {
	if d.logFile == nil {
		return nil
	}
	if d.logHook != nil {
		d.logHook.SetWriter(nil)
	}
	err := d.logFile.Close()
	d.logFile = nil
	return err
}

