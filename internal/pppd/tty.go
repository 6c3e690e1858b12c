package pppd

import (
	"io/fs"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/lwmacct/251124-pppd/internal/option"
)

func (d *Daemon) ttyOptions() *option.Table {
	t := &d.Settings.TTY
	return option.NewTable("",
		&option.Option{Name: "device name", Kind: option.KindWild, Match: d.isDevice, Parse: d.setDevice,
			Description: "Serial port device name",
			Flags: option.Flags{Prio: true, PrivFix: true, NoArg: true, Static: true,
				InitOnly: true, DevEquiv: true},
			Upper:  MaxPathLen,
			Effect: option.EffectStrVal, StrVal: &t.Device},
		&option.Option{Name: "tty speed", Kind: option.KindWild, Match: isSpeed, Parse: d.setSpeed,
			Description: "Baud rate for serial port",
			Flags:       option.Flags{Prio: true, NoArg: true},
			Effect:      option.EffectStrVal, StrVal: &t.SpeedStr},

		&option.Option{Name: "crtscts", Kind: option.KindInt, Int: &t.CRTSCTS, Value: 1,
			Description: "Set hardware (RTS/CTS) flow control",
			Flags:       option.Flags{Prio: true, NoArg: true}},
		&option.Option{Name: "nocrtscts", Kind: option.KindInt, Int: &t.CRTSCTS, Value: -1,
			Description: "Disable hardware flow control",
			Flags:       option.Flags{PrioSub: true, NoArg: true}},
		&option.Option{Name: "-crtscts", Kind: option.KindInt, Int: &t.CRTSCTS, Value: -1,
			Description: "Disable hardware flow control",
			Flags:       option.Flags{PrioSub: true, Alias: true, NoArg: true}},

		&option.Option{Name: "modem", Kind: option.KindBool, Bool: &t.Modem, Value: 1,
			Description: "Use modem control lines",
			Flags:       option.Flags{Prio: true}},
		&option.Option{Name: "local", Kind: option.KindBool, Bool: &t.Modem,
			Description: "Don't use modem control lines",
			Flags:       option.Flags{PrioSub: true}},

		&option.Option{Name: "lock", Kind: option.KindBool, Bool: &t.Lock, Value: 1,
			Description: "Lock serial device with UUCP-style lock file",
			Flags:       option.Flags{Prio: true}},
		&option.Option{Name: "nolock", Kind: option.KindBool, Bool: &t.Lock,
			Description: "Don't lock serial device",
			Flags:       option.Flags{PrioSub: true, Priv: true}},

		&option.Option{Name: "connect", Kind: option.KindString, String: &t.Connect,
			Description: "A program to set up a connection",
			Flags:       option.Flags{Prio: true, PrivFix: true}},
	)
}

// devicePath returns name as a path under /dev when it is not absolute.
func devicePath(name string) string {
	if strings.HasPrefix(name, "/") {
		return name
	}
	return "/dev/" + name
}

// isDevice accepts names of existing character devices. A stat failure
// other than a missing file still matches so setDevice can report it.
func (d *Daemon) isDevice(name string) bool {
	mode, err := d.statDevice(devicePath(name))
	if err != nil {
		return !errors.Is(err, fs.ErrNotExist)
	}
	return mode&fs.ModeCharDevice != 0
}

func (d *Daemon) setDevice(c *option.Call) error {
	path := devicePath(c.Name)
	mode, err := d.statDevice(path)
	if err != nil {
		var pe *fs.PathError
		if errors.As(err, &pe) {
			err = pe.Err
		}
		return option.Wrapf(option.KindBadValue, err, "Couldn't stat %s", path)
	}
	if mode&fs.ModeCharDevice == 0 {
		return option.Errorf(option.KindBadValue, "%s is not a character device", path)
	}
	if len(path) >= MaxPathLen {
		path = path[:MaxPathLen-1]
	}
	d.Settings.TTY.Device = path
	d.Settings.TTY.DefaultDevice = false
	return nil
}

func isSpeed(name string) bool {
	n, err := strconv.ParseUint(name, 0, 32)
	return err == nil && n != 0
}

func (d *Daemon) setSpeed(c *option.Call) error {
	n, err := strconv.ParseUint(c.Name, 0, 32)
	if err != nil || n == 0 {
		return option.Errorf(option.KindBadValue, "invalid speed %s", c.Name)
	}
	d.Settings.TTY.Speed = int(n)
	d.Settings.TTY.SpeedStr = strconv.FormatUint(n, 10)
	return nil
}
