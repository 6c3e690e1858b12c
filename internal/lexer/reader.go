package lexer

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MaxWordLen is the size of the word buffer; stored words hold at most
// MaxWordLen-1 bytes.
const MaxWordLen = 1024

const eof = -1

// Reader splits an options file into words.
type Reader struct {
	r    *bufio.Reader
	name string
	log  logrus.FieldLogger
	err  error

	// pending holds the byte read past a numeric escape.
	pending int
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithLogger routes lexer warnings to l.
func WithLogger(l logrus.FieldLogger) ReaderOption {
	return func(r *Reader) {
		if l != nil {
			r.log = l
		}
	}
}

// NewReader returns a Reader over src. name is used in diagnostics.
func NewReader(src io.Reader, name string, opts ...ReaderOption) *Reader {
	r := &Reader{
		r:    bufio.NewReader(src),
		name: name,
		log:  logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ReadWord returns the next word. newline reports whether a newline was
// crossed while skipping to the start of the word. At the end of input it
// returns io.EOF; any other error is a read failure and ends the source.
func (r *Reader) ReadWord() (word string, newline bool, err error) {
	var (
		buf     []byte
		escape  bool
		comment bool
		quoted  int
	)

	put := func(b byte) {
		if len(buf) < MaxWordLen {
			buf = append(buf, b)
		}
	}

	// Skip whitespace, comments and escaped newlines.
	c := r.getc()
	for ; c != eof; c = r.getc() {
		if c == '\n' {
			if !escape {
				newline = true
				comment = false
			} else {
				escape = false
			}
			continue
		}
		if comment {
			continue
		}
		if escape {
			break
		}
		if c == '\\' {
			escape = true
			continue
		}
		if c == '#' {
			comment = true
			continue
		}
		if !isSpace(c) {
			break
		}
	}

	for c != eof {
		if escape {
			escape = false
			if c == '\n' {
				c = r.getc()
				continue
			}
			value, next := r.escaped(c)
			put(byte(value))
			if next {
				c = r.getc()
			} else {
				// the escape sequence already read one byte past itself
				c = r.pending
			}
			continue
		}

		if c == '\\' {
			escape = true
			c = r.getc()
			continue
		}

		if quoted != 0 {
			if c == quoted {
				quoted = 0
				c = r.getc()
				continue
			}
		} else if c == '"' || c == '\'' {
			quoted = c
			c = r.getc()
			continue
		} else if isSpace(c) || c == '#' {
			r.ungetc()
			break
		}

		put(byte(c))
		c = r.getc()
	}

	if r.err != nil {
		return "", newline, errors.Wrapf(r.err, "Error reading %s", r.name)
	}

	if c == eof {
		if quoted != 0 {
			r.log.Warnf("warning: quoted word runs to end of file (%.20s...)", string(buf))
		}
		if len(buf) == 0 {
			return "", newline, io.EOF
		}
	}

	if len(buf) >= MaxWordLen {
		buf = buf[:MaxWordLen-1]
		r.log.Warnf("warning: word in file %s too long (%.20s...)", r.name, string(buf))
	}

	return string(buf), newline, nil
}

// escaped decodes the escape sequence introduced by c. When next is false
// the byte following the sequence has been consumed into r.pending.
func (r *Reader) escaped(c int) (value int, next bool) {
	switch c {
	case 'a':
		return '\a', true
	case 'b':
		return '\b', true
	case 'f':
		return '\f', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 's':
		return ' ', true
	case 't':
		return '\t', true
	}

	if isOctal(c) {
		for n := 0; n < 3 && isOctal(c); n++ {
			value = value<<3 + (c & 7)
			c = r.getc()
		}
		r.pending = c
		return value, false
	}

	if c == 'x' {
		c = r.getc()
		for n := 0; n < 2 && isHex(c); n++ {
			value = value<<4 + hexValue(c)
			c = r.getc()
		}
		r.pending = c
		return value, false
	}

	return c, true
}

func (r *Reader) getc() int {
	if r.err != nil {
		return eof
	}
	b, err := r.r.ReadByte()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return eof
	}
	return int(b)
}

func (r *Reader) ungetc() {
	_ = r.r.UnreadByte()
}

func isSpace(c int) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isOctal(c int) bool {
	return c >= '0' && c <= '7'
}

func isHex(c int) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c int) int {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	}
	return c - '0'
}
