package pppd

import (
	"io"
	"io/fs"
	"os"

	"github.com/pkg/errors"

	"github.com/lwmacct/251124-pppd/internal/option"
	"github.com/lwmacct/251124-pppd/internal/version"
)

func (d *Daemon) readFile(c *option.Call) error {
	return d.reader.File(c.Ctx, c.Arg(), true, true, c.Ctx.Privileged)
}

func (d *Daemon) callFile(c *option.Call) error {
	return d.reader.Peer(c.Ctx, c.Arg())
}

// setDomain appends the domain to the host name, adding the separating
// dot unless the argument starts with one.
func (d *Daemon) setDomain(c *option.Call) error {
	host, err := d.hostname()
	if err != nil {
		d.log.Warnf("unable to get hostname: %v", err)
	}
	if arg := c.Arg(); arg != "" {
		if arg[0] != '.' {
			host += "."
		}
		d.Settings.Domain = arg
		host += arg
	}
	if len(host) >= MaxNameLen {
		host = host[:MaxNameLen-1]
	}
	d.Settings.Hostname = host
	return nil
}

func (d *Daemon) showVersion(c *option.Call) error {
	if c.Ctx.Phase != option.PhaseInitialize {
		return nil
	}
	io.WriteString(d.stdout, version.Banner()+"\n")
	return option.ErrStop
}

func (d *Daemon) showHelp(c *option.Call) error {
	if c.Ctx.Phase != option.PhaseInitialize {
		return nil
	}
	d.usage()
	return option.ErrStop
}

// setLogFile opens the log file for appending, as the real user unless
// the setting is privileged, and sends log entries to it.
func (d *Daemon) setLogFile(c *option.Call) error {
	path := c.Arg()
	var f *os.File
	err := d.reader.AsRealUser(!c.Ctx.Privileged, path, func() (err error) {
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			f, err = os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
		}
		return err
	})
	if err != nil {
		if f != nil {
			f.Close()
		}
		if option.KindOf(err) != 0 {
			return err
		}
		var pe *fs.PathError
		if errors.As(err, &pe) {
			err = pe.Err
		}
		return option.Wrapf(option.KindFileOpen, err, "Can't open log file %s", path)
	}

	if len(path) >= MaxPathLen {
		path = path[:MaxPathLen-1]
	}
	if d.logFile != nil {
		d.logFile.Close()
	}
	d.logFile = f
	d.Settings.LogFile = path
	d.Settings.LogFD = int(f.Fd())
	d.Settings.LogDefault = false
	if d.logHook != nil {
		d.logHook.SetWriter(f)
	}
	return nil
}

func (d *Daemon) setMoDirection(c *option.Call) error {
	switch arg := c.Arg(); arg {
	case OctetsIn, OctetsOut, OctetsMax:
		d.Settings.MoDirection = arg
	default:
		d.Settings.MoDirection = OctetsSum
	}
	return nil
}

func (d *Daemon) loadPlugin(c *option.Call) error {
	return d.plugins.Load(c.Arg())
}

func (d *Daemon) userSetenv(c *option.Call) error {
	err := d.Env.Set(c.Ctx, c.Arg())
	d.syncEnvPrint()
	return err
}

func (d *Daemon) userUnsetenv(c *option.Call) error {
	err := d.Env.Unset(c.Ctx, c.Arg())
	d.syncEnvPrint()
	return err
}

// syncEnvPrint keeps set and unset out of dumps while they have no
// entries to print.
func (d *Daemon) syncEnvPrint() {
	d.setOpt.Flags.NoPrint = !d.Env.HasSet()
	d.unsetOpt.Flags.NoPrint = !d.Env.HasUnset()
}

func (d *Daemon) printSetenv(w io.Writer, opt *option.Option) string {
	return d.Env.PrintSet(w, opt.Name)
}

func (d *Daemon) printUnsetenv(w io.Writer, opt *option.Option) string {
	return d.Env.PrintUnset(w, opt.Name)
}
