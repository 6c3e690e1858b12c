// Package plugin loads shared-object plugins that extend the option
// registry.
//
// A plugin is a Go plugin (built with -buildmode=plugin) exporting
//
//	func PluginInit(plugin.Host)
//	var PppdVersion = "2.5.2" // optional
//
// PluginInit is called once, after the version check, and usually calls
// Host.AddOptions. Go plugins cannot be unloaded, so a plugin rejected
// after opening stays mapped in the process.
package plugin

import (
	"path/filepath"
	goplugin "plugin"
	"slices"
	"strings"

	"github.com/blang/semver/v4"
	"github.com/sirupsen/logrus"

	"github.com/lwmacct/251124-pppd/internal/metrics"
	"github.com/lwmacct/251124-pppd/internal/option"
)

// Symbol names looked up in a plugin.
const (
	InitSymbol    = "PluginInit"
	VersionSymbol = "PppdVersion"
)

// Host is the daemon as seen by a plugin.
type Host interface {
	AddOptions(t *option.Table)
	Logger() logrus.FieldLogger
}

// Symbols is an opened plugin.
type Symbols interface {
	Lookup(name string) (goplugin.Symbol, error)
}

// OpenFunc opens the plugin at path.
type OpenFunc func(path string) (Symbols, error)

// Loader opens plugins and runs their initialization.
type Loader struct {
	dir     string
	version string
	host    Host
	open    OpenFunc
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	loaded  []string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithOpener replaces the Go plugin opener.
func WithOpener(fn OpenFunc) LoaderOption {
	return func(l *Loader) { l.open = fn }
}

func WithMetrics(m *metrics.Metrics) LoaderOption {
	return func(l *Loader) { l.metrics = m }
}

// NewLoader returns a loader resolving bare names under dir and accepting
// plugins built for version.
func NewLoader(dir, version string, host Host, opts ...LoaderOption) *Loader {
	l := &Loader{
		dir:     dir,
		version: version,
		host:    host,
		open:    openGoPlugin,
		log:     host.Logger(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func openGoPlugin(path string) (Symbols, error) {
	p, err := goplugin.Open(path)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Path returns the file a plugin name refers to.
func (l *Loader) Path(name string) string {
	if strings.Contains(name, "/") {
		return name
	}
	return filepath.Join(l.dir, name)
}

// Load opens the named plugin, checks its version and initializes it.
func (l *Loader) Load(name string) error {
	syms, err := l.open(l.Path(name))
	if err != nil {
		return option.Wrapf(option.KindPlugin, err, "Couldn't load plugin %s", name)
	}

	sym, err := syms.Lookup(InitSymbol)
	if err != nil {
		return option.Errorf(option.KindPlugin, "%s has no initialization entry point", name)
	}
	initFn, ok := sym.(func(Host))
	if !ok {
		return option.Errorf(option.KindPlugin, "%s has no initialization entry point", name)
	}

	if vsym, err := syms.Lookup(VersionSymbol); err != nil {
		l.log.Warnf("Warning: plugin %s has no version information", name)
	} else if v, ok := symbolString(vsym); !ok || !sameVersion(v, l.version) {
		return option.Errorf(option.KindPlugin, "Plugin %s is for pppd version %s, this is %s", name, v, l.version)
	}

	l.log.Infof("Plugin %s loaded.", name)
	initFn(l.host)
	l.loaded = append(l.loaded, name)
	l.metrics.PluginLoaded()
	return nil
}

// Loaded returns the names of the plugins initialized so far.
func (l *Loader) Loaded() []string {
	return append([]string(nil), l.loaded...)
}

func symbolString(sym goplugin.Symbol) (string, bool) {
	switch v := sym.(type) {
	case *string:
		return *v, true
	case string:
		return v, true
	}
	return "", false
}

// sameVersion requires the versions to be identical. Strict semantic
// versions must also agree on build metadata, which precedence ignores.
func sameVersion(a, b string) bool {
	va, errA := semver.Parse(a)
	vb, errB := semver.Parse(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return va.Equals(vb) && slices.Equal(va.Build, vb.Build)
}
