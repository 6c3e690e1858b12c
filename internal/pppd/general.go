package pppd

import (
	"github.com/lwmacct/251124-pppd/internal/option"
)

func (d *Daemon) generalOptions() *option.Table {
	s := d.Settings
	script := func(name, what string, target *string) *option.Option {
		return &option.Option{Name: name, Kind: option.KindString, String: target,
			Description: "Set pathname of " + what + " script",
			Flags:       option.Flags{Priv: true, Static: true}, Upper: MaxPathLen}
	}

	d.setOpt = &option.Option{Name: "set", Kind: option.KindSpecial, Parse: d.userSetenv,
		Description: "Set user environment variable",
		Flags:       option.Flags{NoPrint: true},
		Effect:      option.EffectPrinter, Print: d.printSetenv}
	d.unsetOpt = &option.Option{Name: "unset", Kind: option.KindSpecial, Parse: d.userUnsetenv,
		Description: "Unset user environment variable",
		Flags:       option.Flags{NoPrint: true},
		Effect:      option.EffectPrinter, Print: d.printUnsetenv}

	return option.NewTable("",
		&option.Option{Name: "debug", Kind: option.KindInt, Int: &s.Debug, Value: 1,
			Description: "Increase debugging level",
			Flags:       option.Flags{Inc: true, NoArg: true}},
		&option.Option{Name: "-d", Kind: option.KindInt, Int: &s.Debug, Value: 1,
			Description: "Increase debugging level",
			Flags:       option.Flags{PrioSub: true, Alias: true, Inc: true, NoArg: true}},

		&option.Option{Name: "kdebug", Kind: option.KindInt, Int: &s.KDebug,
			Description: "Set kernel driver debug level",
			Flags:       option.Flags{Prio: true}},

		&option.Option{Name: "nodetach", Kind: option.KindBool, Bool: &s.NoDetach, Value: 1,
			Description: "Don't detach from controlling tty",
			Flags:       option.Flags{Prio: true}},
		&option.Option{Name: "-detach", Kind: option.KindBool, Bool: &s.NoDetach, Value: 1,
			Description: "Don't detach from controlling tty",
			Flags:       option.Flags{Alias: true, PrioSub: true}},
		&option.Option{Name: "up_sdnotify", Kind: option.KindBool, Bool: &s.UpSDNotify, Value: 1,
			Description: "Notify systemd once link is up (implies nodetach)",
			Flags:       option.Flags{PrioSub: true},
			Effect:      option.EffectCopy, Flag2: &s.NoDetach},
		&option.Option{Name: "updetach", Kind: option.KindBool, Bool: &s.UpDetach, Value: 1,
			Description: "Detach from controlling tty once link is up",
			Flags:       option.Flags{PrioSub: true},
			Effect:      option.EffectClear, Flag2: &s.NoDetach},

		&option.Option{Name: "master_detach", Kind: option.KindBool, Bool: &s.MasterDetach, Value: 1,
			Description: "Detach when we're multilink master but have no link"},

		&option.Option{Name: "holdoff", Kind: option.KindInt, Int: &s.Holdoff,
			Description: "Set time in seconds before retrying connection",
			Flags:       option.Flags{Prio: true}, Flag2: &s.HoldoffSpecified},

		&option.Option{Name: "idle", Kind: option.KindInt, Int: &s.Idle,
			Description: "Set time in seconds before disconnecting idle link",
			Flags:       option.Flags{Prio: true}},

		&option.Option{Name: "maxconnect", Kind: option.KindInt, Int: &s.MaxConnect,
			Description: "Set connection time limit",
			Flags:       option.Flags{Prio: true, LLimit: true, NoIncr: true, ZeroInf: true}},

		&option.Option{Name: "domain", Kind: option.KindSpecial, Parse: d.setDomain,
			Description: "Add given domain name to hostname",
			Flags:       option.Flags{Prio: true, Priv: true},
			Effect:      option.EffectStrVal, StrVal: &s.Domain},

		&option.Option{Name: "file", Kind: option.KindSpecial, Parse: d.readFile,
			Description: "Take options from a file",
			Flags:       option.Flags{NoPrint: true}},
		&option.Option{Name: "call", Kind: option.KindSpecial, Parse: d.callFile,
			Description: "Take options from a privileged file",
			Flags:       option.Flags{NoPrint: true}},

		&option.Option{Name: "persist", Kind: option.KindBool, Bool: &s.Persist, Value: 1,
			Description: "Keep on reopening connection after close",
			Flags:       option.Flags{Prio: true}},
		&option.Option{Name: "nopersist", Kind: option.KindBool, Bool: &s.Persist,
			Description: "Turn off persist option",
			Flags:       option.Flags{PrioSub: true}},

		&option.Option{Name: "demand", Kind: option.KindBool, Bool: &s.Demand, Value: 1,
			Description: "Dial on demand",
			Flags:       option.Flags{InitOnly: true}, Flag2: &s.Persist},

		&option.Option{Name: "--version", Kind: option.KindSpecialNoArg, Parse: d.showVersion,
			Description: "Show version number"},
		&option.Option{Name: "-v", Kind: option.KindSpecialNoArg, Parse: d.showVersion,
			Description: "Show version number"},
		&option.Option{Name: "show-options", Kind: option.KindBool, Bool: &s.ShowOptions, Value: 1,
			Description: "Show all options and exit"},
		&option.Option{Name: "--help", Kind: option.KindSpecialNoArg, Parse: d.showHelp,
			Description: "Show brief listing of options"},
		&option.Option{Name: "-h", Kind: option.KindSpecialNoArg, Parse: d.showHelp,
			Description: "Show brief listing of options",
			Flags:       option.Flags{Alias: true}},

		&option.Option{Name: "logfile", Kind: option.KindSpecial, Parse: d.setLogFile,
			Description: "Append log messages to this file",
			Flags:       option.Flags{Prio: true, Static: true}, Upper: MaxPathLen,
			Effect:      option.EffectStrVal, StrVal: &s.LogFile},
		&option.Option{Name: "logfd", Kind: option.KindInt, Int: &s.LogFD,
			Description: "Send log messages to this file descriptor",
			Flags:       option.Flags{PrioSub: true},
			Effect:      option.EffectClear, Flag2: &s.LogDefault},
		&option.Option{Name: "nolog", Kind: option.KindInt, Int: &s.LogFD, Value: -1,
			Description: "Don't send log messages to any file",
			Flags:       option.Flags{PrioSub: true, NoArg: true}},
		&option.Option{Name: "nologfd", Kind: option.KindInt, Int: &s.LogFD, Value: -1,
			Description: "Don't send log messages to any file descriptor",
			Flags:       option.Flags{PrioSub: true, Alias: true, NoArg: true}},

		&option.Option{Name: "linkname", Kind: option.KindString, String: &s.LinkName,
			Description: "Set logical name for link",
			Flags:       option.Flags{Prio: true, Priv: true, Static: true}, Upper: MaxPathLen},

		&option.Option{Name: "maxfail", Kind: option.KindInt, Int: &s.MaxFail,
			Description: "Maximum number of unsuccessful connection attempts to allow",
			Flags:       option.Flags{Prio: true, PrivFix: true}},

		&option.Option{Name: "ktune", Kind: option.KindBool, Bool: &s.TuneKernel, Value: 1,
			Description: "Alter kernel settings as necessary",
			Flags:       option.Flags{Prio: true}},
		&option.Option{Name: "noktune", Kind: option.KindBool, Bool: &s.TuneKernel,
			Description: "Don't alter kernel settings",
			Flags:       option.Flags{PrioSub: true}},

		&option.Option{Name: "connect-delay", Kind: option.KindInt, Int: &s.ConnectDelay,
			Description: "Maximum time (in ms) to wait after connect script finishes",
			Flags:       option.Flags{Prio: true}},

		&option.Option{Name: "unit", Kind: option.KindInt, Int: &s.Unit,
			Description: "PPP interface unit number to use if possible",
			Flags:       option.Flags{Prio: true, LLimit: true}},

		&option.Option{Name: "ifname", Kind: option.KindString, String: &s.IfName,
			Description: "Set PPP interface name",
			Flags:       option.Flags{Prio: true, Priv: true, Static: true}, Upper: IfNameSize},

		&option.Option{Name: "dump", Kind: option.KindBool, Bool: &s.DumpOptions, Value: 1,
			Description: "Print out option values after parsing all options"},
		&option.Option{Name: "dryrun", Kind: option.KindBool, Bool: &s.DryRun, Value: 1,
			Description: "Stop after parsing, printing, and checking options"},

		&option.Option{Name: "child-timeout", Kind: option.KindInt, Int: &s.ChildWait,
			Description: "Number of seconds to wait for child processes at exit",
			Flags:       option.Flags{Prio: true}},

		d.setOpt,
		d.unsetOpt,

		script("net-init-script", "net-init", &s.NetInitScript),
		script("net-pre-up-script", "net-preup", &s.NetPreUpScript),
		script("net-down-script", "net-down", &s.NetDownScript),
		script("ip-up-script", "ip-up", &s.IPUpScript),
		script("ip-down-script", "ip-down", &s.IPDownScript),
		script("ip-pre-up-script", "ip-pre-up", &s.IPPreUpScript),
		script("ipv6-up-script", "ipv6-up", &s.IPv6UpScript),
		script("ipv6-down-script", "ipv6-down", &s.IPv6DownScript),

		&option.Option{Name: "multilink", Kind: option.KindBool, Bool: &s.Multilink, Value: 1,
			Description: "Enable multilink operation",
			Flags:       option.Flags{Prio: true}},
		&option.Option{Name: "mp", Kind: option.KindBool, Bool: &s.Multilink, Value: 1,
			Description: "Enable multilink operation",
			Flags:       option.Flags{PrioSub: true, Alias: true}},
		&option.Option{Name: "nomultilink", Kind: option.KindBool, Bool: &s.Multilink,
			Description: "Disable multilink operation",
			Flags:       option.Flags{PrioSub: true}},
		&option.Option{Name: "nomp", Kind: option.KindBool, Bool: &s.Multilink,
			Description: "Disable multilink operation",
			Flags:       option.Flags{PrioSub: true, Alias: true}},

		&option.Option{Name: "bundle", Kind: option.KindString, String: &s.Bundle,
			Description: "Bundle name for multilink",
			Flags:       option.Flags{Prio: true}},

		&option.Option{Name: "plugin", Kind: option.KindSpecial, Parse: d.loadPlugin,
			Description: "Load a plug-in module into pppd",
			Flags:       option.Flags{Priv: true},
			Effect:      option.EffectList, List: &s.Plugins},

		&option.Option{Name: "maxoctets", Kind: option.KindInt, Int: &s.MaxOctets,
			Description: "Set connection traffic limit",
			Flags:       option.Flags{Prio: true, LLimit: true, NoIncr: true, ZeroInf: true}},
		&option.Option{Name: "mo", Kind: option.KindInt, Int: &s.MaxOctets,
			Description: "Set connection traffic limit",
			Flags:       option.Flags{Alias: true, Prio: true, LLimit: true, NoIncr: true, ZeroInf: true}},
		&option.Option{Name: "mo-direction", Kind: option.KindSpecial, Parse: d.setMoDirection,
			Description: "Set direction for limit traffic (sum,in,out,max)",
			Effect:      option.EffectStrVal, StrVal: &s.MoDirection},
		&option.Option{Name: "mo-timeout", Kind: option.KindInt, Int: &s.MoTimeout,
			Description: "Check for traffic limit every N seconds",
			Flags:       option.Flags{Prio: true, LLimit: true}, Lower: 1},

		// accepted for compatibility, does nothing
		&option.Option{Name: "noipx", Kind: option.KindBool, Bool: &s.noIPX, Value: 1,
			Flags: option.Flags{NoPrint: true}},
	)
}
