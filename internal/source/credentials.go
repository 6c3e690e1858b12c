package source

import (
	"golang.org/x/sys/unix"

	"github.com/lwmacct/251124-pppd/internal/option"
)

// Credentials exposes the process user ids that option sources switch
// between while opening files.
type Credentials interface {
	Getuid() int
	Geteuid() int
	Seteuid(euid int) error
}

type unixCredentials struct{}

func (unixCredentials) Getuid() int  { return unix.Getuid() }
func (unixCredentials) Geteuid() int { return unix.Geteuid() }

// SystemCredentials returns the credentials of the running process.
func SystemCredentials() Credentials { return unixCredentials{} }

// AsRealUser runs fn with the effective uid set to the real uid when drop
// is true, restoring it afterwards. Failing to restore is fatal.
func (r *Reader) AsRealUser(drop bool, what string, fn func() error) error {
	if !drop {
		return fn()
	}
	euid := r.creds.Geteuid()
	if err := r.creds.Seteuid(r.creds.Getuid()); err != nil {
		return option.Wrapf(option.KindFileOpen, err, "unable to drop privileges to open %s", what)
	}
	ferr := fn()
	if err := r.creds.Seteuid(euid); err != nil {
		return option.Wrapf(option.KindFatal, err, "unable to regain privileges")
	}
	return ferr
}
