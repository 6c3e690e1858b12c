package option

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies option failures.
type ErrorKind int

const (
	KindUnrecognized ErrorKind = iota + 1
	KindTooFewParams
	KindBadValue
	KindRootPinned
	KindPrivilege
	KindInitOnly
	KindDeviceLocked
	KindDisabled
	KindFileOpen
	KindPathEscape
	KindPlugin
	KindFatal
)

var kindNames = map[ErrorKind]string{
	KindUnrecognized: "unrecognized",
	KindTooFewParams: "too few parameters",
	KindBadValue:     "bad value",
	KindRootPinned:   "root pinned",
	KindPrivilege:    "privilege",
	KindInitOnly:     "init only",
	KindDeviceLocked: "device locked",
	KindDisabled:     "disabled",
	KindFileOpen:     "file open",
	KindPathEscape:   "path escape",
	KindPlugin:       "plugin",
	KindFatal:        "fatal",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Error is an option failure carrying the message shown to the user.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches kind sentinels such as ErrPrivilege.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Msg == "" && t.Kind == e.Kind
}

// Kind sentinels for errors.Is.
var (
	ErrUnrecognized = &Error{Kind: KindUnrecognized}
	ErrTooFewParams = &Error{Kind: KindTooFewParams}
	ErrBadValue     = &Error{Kind: KindBadValue}
	ErrRootPinned   = &Error{Kind: KindRootPinned}
	ErrPrivilege    = &Error{Kind: KindPrivilege}
	ErrInitOnly     = &Error{Kind: KindInitOnly}
	ErrDeviceLocked = &Error{Kind: KindDeviceLocked}
	ErrDisabled     = &Error{Kind: KindDisabled}
	ErrFileOpen     = &Error{Kind: KindFileOpen}
	ErrPathEscape   = &Error{Kind: KindPathEscape}
	ErrPlugin       = &Error{Kind: KindPlugin}
	ErrFatal        = &Error{Kind: KindFatal}
)

// ErrStop ends option processing successfully, as --help and --version do.
var ErrStop = errors.New("option processing stopped")

// Errorf returns an Error of kind k.
func Errorf(k ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// Wrapf returns an Error of kind k caused by err.
func Wrapf(k ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return 0
}
