package option

import "io"

// Kind selects how an option's argument is interpreted.
type Kind int

const (
	// KindBool stores Value != 0 into Bool. Takes no argument.
	KindBool Kind = iota
	// KindInt parses a signed integer (any C base) into Int.
	KindInt
	// KindUint32 parses a hexadecimal word into Uint32.
	KindUint32
	// KindString stores its argument into String.
	KindString
	// KindSpecial calls Parse with one argument.
	KindSpecial
	// KindSpecialNoArg calls Parse without an argument.
	KindSpecialNoArg
	// KindWild matches names through Match and calls Parse.
	KindWild
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint32:
		return "uint32"
	case KindString:
		return "string"
	case KindSpecial:
		return "special"
	case KindSpecialNoArg:
		return "special_noarg"
	case KindWild:
		return "wild"
	}
	return "unknown"
}

// Flags modify how an option is processed and printed.
type Flags struct {
	// Prio makes the option the master of a priority group.
	Prio bool
	// PrioSub joins the group of the nearest preceding Prio option.
	PrioSub bool
	// Priv restricts the option to privileged sources.
	Priv bool
	// PrivFix adds the root bonus when set from a privileged source.
	PrivFix bool
	// NoArg makes an int or uint32 option store Value without an argument.
	NoArg bool
	// Inc adds Value to the current int instead of replacing it.
	Inc bool
	// NoIncr stops unprivileged sources from raising the value.
	NoIncr bool
	// ZeroInf treats zero as infinity for NoIncr.
	ZeroInf bool
	LLimit  bool
	ULimit  bool
	ZeroOK  bool
	// Hide suppresses the value in dumps and scrubs it from argv.
	Hide bool
	// Static truncates string values to Upper-1 bytes.
	Static bool
	// InitOnly rejects the option after the initialize phase.
	InitOnly bool
	// DevEquiv rejects the option once the device is locked.
	DevEquiv bool
	// Alias reports the group's canonical spelling in override messages.
	Alias bool
	// Or ORs uint32 values into the current value.
	Or bool
	// NoPrint excludes the option from dumps.
	NoPrint bool
}

// Effect is the secondary effect applied after the primary store.
type Effect int

const (
	EffectNone Effect = iota
	// EffectCopy copies the new value into the secondary target.
	EffectCopy
	// EffectClear clears Flag2.
	EffectClear
	// EffectClearBits clears Value's bits in Bits2.
	EffectClearBits
	// EffectOr sets Value's bits in Bits2.
	EffectOr
	// EffectList appends the argument, with its source, to List.
	EffectList
	// EffectPrinter prints the option through Print.
	EffectPrinter
	// EffectStrVal prints StrVal as the option's value.
	EffectStrVal
)

// Winner identifies which option of a priority group set the value.
type Winner struct {
	// External is set when the value came from OverrideValue.
	External bool
	// Alias is the offset of the winning option from its group master.
	Alias int
}

// Call carries the arguments of a special or wildcard parser.
type Call struct {
	Engine *Engine
	Ctx    Context
	Option *Option
	// Name is the command as written; it differs from Option.Name for
	// wildcard matches.
	Name string
	Args []string
}

// Arg returns the first argument, or "" for no-argument options.
func (c *Call) Arg() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// ParseFunc handles special and wildcard options.
type ParseFunc func(c *Call) error

// MatchFunc reports whether a wildcard option accepts name.
type MatchFunc func(name string) bool

// PrintFunc writes an option's value for a dump. A non-empty return
// replaces the source annotation of the printed line.
type PrintFunc func(w io.Writer, opt *Option) string

// Option describes one option and holds its runtime winner state.
type Option struct {
	Name        string
	Kind        Kind
	Description string
	Flags       Flags
	Effect      Effect

	// Value is the constant stored by bool and NoArg options, the increment
	// for Inc, and the bit mask for EffectOr/EffectClearBits.
	Value int
	Lower int
	// Upper is the upper bound for ints, or the buffer size for Static
	// strings.
	Upper int

	Bool   *bool
	Int    *int
	Uint32 *uint32
	String *string
	Parse  ParseFunc
	Match  MatchFunc

	Flag2  *bool
	Int2   *int
	Uint2  *uint32
	Bits2  *uint8
	StrVal *string
	List   *ValueList
	Print  PrintFunc
	// Enable gates the option when non-nil.
	Enable *bool

	table    *Table
	index    int
	priority Priority
	source   string
	winner   Winner
}

// Priority returns the priority recorded on the option.
func (o *Option) Priority() Priority { return o.priority }

// Source returns the source of the last accepted setting.
func (o *Option) Source() string { return o.source }

// Winner returns the group winner recorded on the option.
func (o *Option) Winner() Winner { return o.winner }

// Master returns the head of the option's priority group.
func (o *Option) Master() *Option {
	if o.table == nil {
		return o
	}
	i := o.index
	for i > 0 && o.table.Options[i].Flags.PrioSub {
		i--
	}
	return o.table.Options[i]
}

// WinnerOption returns the group member that last set the value.
func (o *Option) WinnerOption() *Option {
	m := o.Master()
	if m.table == nil || m.winner.External {
		return m
	}
	i := m.index + m.winner.Alias
	if i < 0 || i >= len(m.table.Options) {
		return m
	}
	return m.table.Options[i]
}

// canonicalName is the spelling used in override diagnostics: aliases
// report their group master.
func (o *Option) canonicalName() string {
	if !o.Flags.Alias {
		return o.Name
	}
	return o.Master().Name
}

// NArguments reports how many words the option consumes.
func NArguments(o *Option) int {
	switch o.Kind {
	case KindBool, KindSpecialNoArg:
		return 0
	}
	if o.Flags.NoArg {
		return 0
	}
	return 1
}

// Table is an ordered option table.
type Table struct {
	// Name labels protocol tables in the catalog.
	Name    string
	Options []*Option
}

// NewTable links opts into a table.
func NewTable(name string, opts ...*Option) *Table {
	t := &Table{Name: name, Options: opts}
	for i, o := range opts {
		o.table = t
		o.index = i
	}
	return t
}

// Lookup returns the option named name in t, without wildcard matching.
func (t *Table) Lookup(name string) *Option {
	for _, o := range t.Options {
		if o.Kind != KindWild && o.Name == name {
			return o
		}
	}
	return nil
}

// Value is one entry of a ValueList.
type Value struct {
	Source string
	Value  string
}

// ValueList accumulates every argument given to an EffectList option.
type ValueList struct {
	items []Value
}

// Append adds value set from source.
func (l *ValueList) Append(source, value string) {
	l.items = append(l.items, Value{Source: source, Value: value})
}

// Values returns the accumulated entries in order.
func (l *ValueList) Values() []Value {
	return append([]Value(nil), l.items...)
}

// Strings returns the accumulated values in order.
func (l *ValueList) Strings() []string {
	out := make([]string, 0, len(l.items))
	for _, v := range l.items {
		out = append(out, v.Value)
	}
	return out
}

func (l *ValueList) Len() int { return len(l.items) }
