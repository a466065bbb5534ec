//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package rawterm

import "golang.org/x/sys/unix"

const (
	ioctlGets = unix.TIOCGETA
	ioctlSets = unix.TIOCSETA
)
