// Package userenv keeps the environment variables that options add to or
// remove from the helper scripts' environment.
package userenv

import (
	"fmt"
	"io"
	"strings"

	"github.com/lwmacct/251124-pppd/internal/lexer"
	"github.com/lwmacct/251124-pppd/internal/option"
)

// Var is one set or unset entry.
type Var struct {
	Name  string
	Value string
	// IsSet is false for entries that remove the variable.
	IsSet bool
	// Priv records that a privileged source wrote the entry; unprivileged
	// sources cannot change it afterwards.
	Priv   bool
	Source string
}

// List is an ordered list of entries, one per variable name.
type List struct {
	vars []*Var
}

func (l *List) lookup(name string) *Var {
	for _, v := range l.vars {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Lookup returns the entry for name, if any.
func (l *List) Lookup(name string) (Var, bool) {
	if v := l.lookup(name); v != nil {
		return *v, true
	}
	return Var{}, false
}

// Set records NAME=VALUE from arg.
func (l *List) Set(ctx option.Context, arg string) error {
	eq := strings.IndexByte(arg, '=')
	if eq < 0 {
		return option.Errorf(option.KindBadValue, "missing = in name=value: %s", arg)
	}
	if eq == 0 {
		return option.Errorf(option.KindBadValue, "missing variable name: %s", arg)
	}
	v, ok := l.claim(ctx, arg[:eq])
	if !ok {
		return nil
	}
	v.IsSet = true
	v.Value = arg[eq+1:]
	return nil
}

// Unset records that NAME is removed from the environment.
func (l *List) Unset(ctx option.Context, name string) error {
	if name == "" {
		return option.Errorf(option.KindBadValue, "missing variable name for unset")
	}
	if strings.IndexByte(name, '=') >= 0 {
		return option.Errorf(option.KindBadValue, "unexpected = in name: %s", name)
	}
	v, ok := l.claim(ctx, name)
	if !ok {
		return nil
	}
	v.IsSet = false
	v.Value = ""
	return nil
}

// claim returns the entry for name, creating it if needed. It reports
// false when an unprivileged source tries to change a privileged entry.
func (l *List) claim(ctx option.Context, name string) (*Var, bool) {
	v := l.lookup(name)
	if v != nil && !ctx.Privileged && v.Priv {
		return nil, false
	}
	if v == nil {
		v = &Var{Name: name}
		l.vars = append(l.vars, v)
	}
	v.Priv = ctx.Privileged
	v.Source = ctx.Source
	return v, true
}

// HasSet reports whether any entry sets a variable.
func (l *List) HasSet() bool { return l.count(true) > 0 }

// HasUnset reports whether any entry removes a variable.
func (l *List) HasUnset() bool { return l.count(false) > 0 }

func (l *List) count(set bool) int {
	n := 0
	for _, v := range l.vars {
		if v.IsSet == set {
			n++
		}
	}
	return n
}

// PrintSet writes the set entries as repeated optName words and returns
// the source of the last entry written.
func (l *List) PrintSet(w io.Writer, optName string) string {
	return l.print(w, optName, true)
}

// PrintUnset is PrintSet for the removed entries.
func (l *List) PrintUnset(w io.Writer, optName string) string {
	return l.print(w, optName, false)
}

func (l *List) print(w io.Writer, optName string, set bool) string {
	var (
		last string
		n    int
	)
	for _, v := range l.vars {
		if v.IsSet != set {
			continue
		}
		if n > 0 {
			fmt.Fprintf(w, "\t\t# (from %s)\n%s ", last, optName)
		}
		if set {
			io.WriteString(w, lexer.QuoteIfNeeded(v.Name+"="+v.Value))
		} else {
			io.WriteString(w, lexer.QuoteIfNeeded(v.Name))
		}
		last = v.Source
		n++
	}
	return last
}

// Environ returns NAME=VALUE for every set entry, in order.
func (l *List) Environ() []string {
	var env []string
	for _, v := range l.vars {
		if v.IsSet {
			env = append(env, v.Name+"="+v.Value)
		}
	}
	return env
}

// Unsets returns the names of the removed variables, in order.
func (l *List) Unsets() []string {
	var names []string
	for _, v := range l.vars {
		if !v.IsSet {
			names = append(names, v.Name)
		}
	}
	return names
}

// Apply merges the list into base, a NAME=VALUE environment.
func (l *List) Apply(base []string) []string {
	out := make([]string, 0, len(base))
	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		if l.lookup(name) == nil {
			out = append(out, kv)
		}
	}
	return append(out, l.Environ()...)
}
