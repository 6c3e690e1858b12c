package option

import (
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lwmacct/251124-pppd/internal/metrics"
)

// HiddenArg replaces the argument of Hide string options in the caller's
// argument slice.
const HiddenArg = "********"

// Engine applies option settings against a registry.
type Engine struct {
	Registry *Registry

	log     logrus.FieldLogger
	metrics *metrics.Metrics
	sources *Interner
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for override warnings.
func WithLogger(l logrus.FieldLogger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMetrics records processing results in m.
func WithMetrics(m *metrics.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine returns an engine over reg.
func NewEngine(reg *Registry, opts ...EngineOption) *Engine {
	e := &Engine{
		Registry: reg,
		log:      logrus.StandardLogger(),
		sources:  NewInterner(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Logger returns the engine's logger.
func (e *Engine) Logger() logrus.FieldLogger { return e.log }

// Find looks up name in the registry.
func (e *Engine) Find(name string) *Option { return e.Registry.Find(name) }

// Process applies one setting of opt. cmd is the word that selected opt
// and args holds NArguments(opt) words. A setting outranked by the value
// already in place is ignored without error.
func (e *Engine) Process(ctx Context, opt *Option, cmd string, args []string) error {
	ctx.Option = opt.Name
	applied, err := e.process(ctx, opt, cmd, args)
	switch {
	case err != nil && err != ErrStop:
		e.metrics.OptionProcessed(metrics.Rejected)
	case applied || err == ErrStop:
		e.metrics.OptionProcessed(metrics.Accepted)
	default:
		e.metrics.OptionProcessed(metrics.Ignored)
	}
	return err
}

func (e *Engine) process(ctx Context, opt *Option, cmd string, args []string) (bool, error) {
	optopt := " option"
	if opt.Kind == KindWild {
		optopt = ""
	}

	var arg string
	if len(args) > 0 {
		arg = args[0]
		if opt.Kind == KindString && opt.Flags.Hide {
			args[0] = HiddenArg
		}
	}

	prio := ctx.Priority
	if opt.Flags.PrivFix && ctx.Privileged {
		prio += PriorityRoot
	}

	master := opt.Master()
	if master.Flags.Prio {
		if prio < master.priority {
			if prio == PriorityCmdLine && master.priority > PriorityRoot {
				return false, Errorf(KindRootPinned, "%s%s set in %s cannot be overridden",
					opt.canonicalName(), optopt, master.source)
			}
			return false, nil
		}
		if prio > PriorityRoot && master.priority == PriorityCmdLine {
			e.log.Warnf("%s%s from %s overrides command line", opt.canonicalName(), optopt, ctx.Source)
		}
	}

	if opt.Flags.InitOnly && ctx.Phase != PhaseInitialize {
		return false, Errorf(KindInitOnly, "%s%s cannot be changed after initialization", opt.Name, optopt)
	}
	if opt.Flags.Priv && !ctx.Privileged {
		return false, Errorf(KindPrivilege, "using the %s%s requires root privilege", opt.Name, optopt)
	}
	if opt.Enable != nil && !*opt.Enable {
		return false, Errorf(KindDisabled, "%s%s is disabled", opt.Name, optopt)
	}
	if opt.Flags.DevEquiv && ctx.DeviceLocked {
		return false, Errorf(KindDeviceLocked, "the %s%s may not be changed in %s", opt.Name, optopt, ctx.Source)
	}

	var err error
	switch opt.Kind {
	case KindBool:
		e.applyBool(opt)
	case KindInt:
		err = e.applyInt(ctx, opt, arg)
	case KindUint32:
		err = e.applyUint32(ctx, opt, arg)
	case KindString:
		e.applyString(opt, arg)
	case KindSpecial, KindSpecialNoArg, KindWild:
		err = opt.Parse(&Call{Engine: e, Ctx: ctx, Option: opt, Name: cmd, Args: args})
		if err == nil && opt.Effect == EffectList {
			if opt.List == nil {
				opt.List = &ValueList{}
			}
			opt.List.Append(e.sources.Intern(ctx.Source), arg)
		}
	}
	if err != nil {
		return false, err
	}

	if opt.Flag2 != nil && (opt.Effect == EffectNone || opt.Effect == EffectClear) {
		*opt.Flag2 = opt.Effect != EffectClear
	}

	master.source = e.sources.Intern(ctx.Source)
	master.priority = prio
	master.winner = Winner{Alias: opt.index - master.index}
	return true, nil
}

func (e *Engine) applyBool(opt *Option) {
	v := opt.Value
	*opt.Bool = v != 0
	switch opt.Effect {
	case EffectCopy:
		if opt.Flag2 != nil {
			*opt.Flag2 = v != 0
		}
	case EffectClearBits:
		if opt.Bits2 != nil {
			*opt.Bits2 &^= uint8(v)
		}
	case EffectOr:
		if opt.Bits2 != nil {
			*opt.Bits2 |= uint8(v)
		}
	}
}

func (e *Engine) applyInt(ctx Context, opt *Option, arg string) error {
	iv := 0
	if !opt.Flags.NoArg {
		n, ok := parseInt(arg)
		if !ok {
			return Errorf(KindBadValue, "invalid numeric parameter '%s' for %s option", arg, ctx.Option)
		}
		if err := checkLimits(opt, n); err != nil {
			return err
		}
		iv = n
	}
	iv += opt.Value

	if opt.Flags.Inc {
		iv += *opt.Int
	}

	if opt.Flags.NoIncr && !ctx.Privileged {
		old := *opt.Int
		if opt.Flags.ZeroInf {
			if old != 0 && (iv == 0 || iv > old) {
				return Errorf(KindBadValue, "%s value cannot be increased", opt.Name)
			}
		} else if iv > old {
			return Errorf(KindBadValue, "%s value cannot be increased", opt.Name)
		}
	}

	*opt.Int = iv
	if opt.Effect == EffectCopy && opt.Int2 != nil {
		*opt.Int2 = iv
	}
	return nil
}

func checkLimits(opt *Option, iv int) error {
	low := opt.Flags.LLimit && iv < opt.Lower
	high := opt.Flags.ULimit && iv > opt.Upper
	if !low && !high {
		return nil
	}
	if opt.Flags.ZeroOK && iv == 0 {
		return nil
	}
	zok := ""
	if opt.Flags.ZeroOK {
		zok = " zero or"
	}
	switch {
	case opt.Flags.LLimit && opt.Flags.ULimit:
		return Errorf(KindBadValue, "%s value must be%s between %d and %d", opt.Name, zok, opt.Lower, opt.Upper)
	case opt.Flags.LLimit:
		return Errorf(KindBadValue, "%s value must be%s >= %d", opt.Name, zok, opt.Lower)
	default:
		return Errorf(KindBadValue, "%s value must be%s <= %d", opt.Name, zok, opt.Upper)
	}
}

func (e *Engine) applyUint32(ctx Context, opt *Option, arg string) error {
	var v uint32
	if opt.Flags.NoArg {
		v = uint32(int32(opt.Value))
	} else {
		n, ok := parseHex(arg)
		if !ok {
			return Errorf(KindBadValue, "invalid numeric parameter '%s' for %s option", arg, ctx.Option)
		}
		v = n
	}
	if opt.Flags.Or {
		v |= *opt.Uint32
	}
	*opt.Uint32 = v
	if opt.Effect == EffectCopy && opt.Uint2 != nil {
		*opt.Uint2 = v
	}
	return nil
}

func (e *Engine) applyString(opt *Option, arg string) {
	v := arg
	if opt.Flags.Static && opt.Upper > 0 && len(v) >= opt.Upper {
		v = v[:opt.Upper-1]
	}
	*opt.String = v
}

// parseInt accepts decimal, 0x hex and 0 octal like strtol with base 0.
// Values above MaxInt32 wrap as 32-bit unsigned words do.
func parseInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil || n < math.MinInt32 || n > math.MaxUint32 {
		return 0, false
	}
	return int(int32(uint32(n))), true
}

func parseHex(s string) (uint32, bool) {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// OverrideValue lets a subsystem claim an option group's value from
// outside the option machinery. It reports false when a higher priority
// setting is already in place.
func (e *Engine) OverrideValue(name string, prio Priority, source string) bool {
	opt := e.Registry.Find(name)
	if opt == nil {
		return false
	}
	m := opt.Master()
	if m.Flags.Prio && prio < m.priority {
		return false
	}
	m.priority = prio
	m.source = e.sources.Intern(source)
	m.winner = Winner{External: true}
	return true
}
