package source

import "golang.org/x/sys/unix"

// Seteuid changes only the effective uid, leaving the real and saved ids,
// which is what glibc's seteuid does. x/sys applies it to every thread.
func (unixCredentials) Seteuid(euid int) error { return unix.Setresuid(-1, euid, -1) }
