package lexer

import "strings"

const hexDigits = "0123456789abcdef"

// Quote encodes s as a double-quoted word that ReadWord decodes back to s.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		if c < 0x20 || (c >= 0x7f && c < 0xa0) {
			b.WriteByte('\\')
			switch c {
			case '\t':
				b.WriteByte('t')
			case '\n':
				b.WriteByte('n')
			case '\b':
				b.WriteByte('b')
			case '\f':
				b.WriteByte('f')
			default:
				b.WriteByte('x')
				b.WriteByte(hexDigits[c>>4])
				b.WriteByte(hexDigits[c&0xf])
			}
			continue
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}

// QuoteIfNeeded returns s unchanged when it already reads back as a single
// word, and Quote(s) otherwise.
func QuoteIfNeeded(s string) string {
	if s == "" {
		return Quote(s)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= ' ' || c >= 0x7f || c == '"' || c == '\'' || c == '\\' || c == '#' {
			return Quote(s)
		}
	}
	return s
}
