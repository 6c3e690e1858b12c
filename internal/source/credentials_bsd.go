//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package source

import "golang.org/x/sys/unix"

func (unixCredentials) Seteuid(euid int) error { return unix.Seteuid(euid) }
