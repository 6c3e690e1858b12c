package option

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/lwmacct/251124-pppd/internal/lexer"
)

// DumpHeader opens every dump. It is a comment so a dump reads back as an
// options file.
const DumpHeader = "# pppd options in effect:"

// HiddenValue is printed in place of Hide string values.
const HiddenValue = "??????"

// Dump writes every option group that was set away from its default, one
// line per group, in the order the registry searches them.
func (e *Engine) Dump(w io.Writer) error {
	var b strings.Builder
	b.WriteString(DumpHeader + "\n")
	for _, t := range e.Registry.Pools() {
		dumpTable(&b, t)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func dumpTable(b *strings.Builder, t *Table) {
	for i := 0; i < len(t.Options); {
		master := t.Options[i]
		if master.priority != PriorityDefault && !master.winner.External {
			printOption(b, master.WinnerOption(), master)
		}
		for i++; i < len(t.Options) && t.Options[i].Flags.PrioSub; i++ {
		}
	}
}

func printOption(b *strings.Builder, opt, master *Option) {
	if opt.Flags.NoPrint {
		return
	}

	var line strings.Builder
	source := master.source

	switch opt.Kind {
	case KindBool:
		if *opt.Bool != (opt.Value != 0) {
			return
		}
		line.WriteString(opt.Name)
	case KindInt:
		i := *opt.Int
		if opt.Flags.NoArg {
			line.WriteString(opt.Name)
			v := opt.Value
			if i != v {
				if opt.Flags.Inc && v > 0 {
					for ; i > v; i -= v {
						line.WriteString(" " + opt.Name)
					}
				} else {
					fmt.Fprintf(&line, " # oops: %d not %d\n", i, v)
				}
			}
		} else {
			fmt.Fprintf(&line, "%s %d", opt.Name, i)
		}
	case KindUint32:
		line.WriteString(opt.Name)
		if !opt.Flags.NoArg {
			fmt.Fprintf(&line, " %x", *opt.Uint32)
		}
	case KindString:
		v := *opt.String
		if opt.Flags.Hide {
			v = HiddenValue
		}
		fmt.Fprintf(&line, "%s %s", opt.Name, lexer.Quote(v))
	case KindSpecial, KindSpecialNoArg, KindWild:
		if opt.Kind != KindWild {
			line.WriteString(opt.Name)
			if NArguments(opt) == 0 {
				break
			}
			line.WriteByte(' ')
		}
		switch {
		case opt.Effect == EffectPrinter && opt.Print != nil:
			if src := opt.Print(&line, opt); src != "" {
				source = src
			}
		case opt.Effect == EffectStrVal && opt.StrVal != nil:
			line.WriteString(lexer.Quote(*opt.StrVal))
		case opt.Effect == EffectList && opt.List != nil && opt.List.Len() > 0:
			values := opt.List.Values()
			for k, v := range values {
				line.WriteString(lexer.Quote(v.Value))
				if k+1 < len(values) {
					fmt.Fprintf(&line, "\t\t# (from %s)\n%s ", v.Source, opt.Name)
				}
			}
			source = values[len(values)-1].Source
		default:
			line.WriteString("xxx # [don't know how to print value]")
		}
	}

	fmt.Fprintf(b, "%s\t\t# (from %s)\n", line.String(), source)
}

// Catalog writes every registered option with its description, grouped
// by pool.
func (e *Engine) Catalog(w io.Writer) {
	e.Registry.each(func(title string, t *Table) {
		if len(t.Options) == 0 {
			return
		}
		fmt.Fprintf(w, "%s:\n", title)

		table := tablewriter.NewWriter(w)
		table.SetBorder(false)
		table.SetColumnSeparator("")
		table.SetAutoWrapText(false)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, o := range t.Options {
			table.Append([]string{"  " + o.Name, o.Description})
		}
		table.Render()
		fmt.Fprintln(w)
	})
}
