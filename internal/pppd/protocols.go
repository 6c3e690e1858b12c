package pppd

import (
	"io"
	"net/netip"
	"strings"

	"github.com/lwmacct/251124-pppd/internal/option"
)

func (d *Daemon) lcpOptions() *option.Table {
	l := &d.Settings.LCP
	return option.NewTable("LCP",
		&option.Option{Name: "lcp-echo-interval", Kind: option.KindInt, Int: &l.EchoInterval,
			Description: "Set time in seconds between LCP echo requests",
			Flags:       option.Flags{Prio: true, NoIncr: true, ZeroInf: true}},
		&option.Option{Name: "lcp-echo-failure", Kind: option.KindInt, Int: &l.EchoFailure,
			Description: "Set number of consecutive echo failures to indicate link failure",
			Flags:       option.Flags{Prio: true}},
		&option.Option{Name: "mru", Kind: option.KindInt, Int: &l.MRU,
			Description: "Set MRU (maximum received packet size) for negotiation",
			Flags:       option.Flags{Prio: true, LLimit: true, ULimit: true},
			Lower:       MinMRU, Upper: MaxMRU, Flag2: &l.NegMRU},
		&option.Option{Name: "asyncmap", Kind: option.KindUint32, Uint32: &l.Asyncmap,
			Description: "Set asyncmap (for received packets)",
			Flags:       option.Flags{Or: true}, Flag2: &l.NegAsyncmap},
		&option.Option{Name: "default-asyncmap", Kind: option.KindUint32, Uint32: &l.Asyncmap, Value: -1,
			Description: "Disable asyncmap negotiation",
			Flags:       option.Flags{Or: true, NoArg: true},
			Effect:      option.EffectClear, Flag2: &l.AllowAsyncmap},
	)
}

func (d *Daemon) ipcpOptions() *option.Table {
	p := &d.Settings.IPCP
	return option.NewTable("IPCP",
		&option.Option{Name: "IP addresses", Kind: option.KindWild, Match: isAddrPair, Parse: d.setIPAddrs,
			Description: "set local and remote IP addresses",
			Flags:       option.Flags{NoArg: true},
			Effect:      option.EffectPrinter, Print: d.printIPAddrs},
		&option.Option{Name: "usepeerdns", Kind: option.KindBool, Bool: &p.UsePeerDNS, Value: 1,
			Description: "Ask peer for DNS address(es)"},
		&option.Option{Name: "ms-dns", Kind: option.KindSpecial, Parse: d.setDNSAddr,
			Description: "DNS address for the peer's use",
			Effect:      option.EffectList, List: &p.DNSServers},
		&option.Option{Name: "noipdefault", Kind: option.KindBool, Bool: &p.NoIPDefault, Value: 1,
			Description: "Don't use name for default IP adrs"},
	)
}

func isAddrPair(name string) bool {
	return strings.Contains(name, ":")
}

// setIPAddrs parses "<local>:<remote>"; either side may be empty.
func (d *Daemon) setIPAddrs(c *option.Call) error {
	local, remote, _ := strings.Cut(c.Name, ":")
	p := &d.Settings.IPCP
	if local != "" {
		a, err := netip.ParseAddr(local)
		if err != nil || !a.Is4() || a.IsUnspecified() {
			return option.Errorf(option.KindBadValue, "bad local IP address %s", local)
		}
		p.LocalAddr = a
	}
	if remote != "" {
		a, err := netip.ParseAddr(remote)
		if err != nil || !a.Is4() || a.IsUnspecified() {
			return option.Errorf(option.KindBadValue, "bad remote IP address %s", remote)
		}
		p.RemoteAddr = a
	}
	return nil
}

func (d *Daemon) printIPAddrs(w io.Writer, _ *option.Option) string {
	p := &d.Settings.IPCP
	if p.LocalAddr.IsValid() {
		io.WriteString(w, p.LocalAddr.String())
	}
	io.WriteString(w, ":")
	if p.RemoteAddr.IsValid() {
		io.WriteString(w, p.RemoteAddr.String())
	}
	return ""
}

// setDNSAddr records a DNS server for the peer. Two are kept; a third
// replaces the oldest.
func (d *Daemon) setDNSAddr(c *option.Call) error {
	a, err := netip.ParseAddr(c.Arg())
	if err != nil || !a.Is4() {
		return option.Errorf(option.KindBadValue, "invalid address parameter '%s' for %s option", c.Arg(), c.Ctx.Option)
	}
	p := &d.Settings.IPCP
	if len(p.DNS) == 2 {
		p.DNS = p.DNS[1:]
	}
	p.DNS = append(p.DNS, a)
	return nil
}
