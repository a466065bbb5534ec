//go:build unix

package rawterm

import (
	"io"

	"golang.org/x/sys/unix"
)

func open(fd uintptr) Terminal { return &unixTerminal{fd: int(fd)} }

type unixTerminal struct {
	fd   int
	orig *unix.Termios
	raw  bool
}

func (t *unixTerminal) On() error {
	if t.raw {
		return nil
	}
	orig, err := unix.IoctlGetTermios(t.fd, ioctlGets)
	if err != nil {
		return err
	}
	raw := *orig
	raw.Iflag &^= unix.IXON | unix.ICRNL | unix.BRKINT | unix.INPCK | unix.ISTRIP
	raw.Oflag &^= unix.OPOST
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(t.fd, ioctlSets, &raw); err != nil {
		return err
	}
	t.orig = orig
	t.raw = true
	return nil
}

func (t *unixTerminal) Off() error {
	if !t.raw || t.orig == nil {
		return nil
	}
	err := unix.IoctlSetTermios(t.fd, ioctlSets, t.orig)
	t.raw = false
	return err
}

func (t *unixTerminal) Raw() bool { return t.raw }

func (t *unixTerminal) KeyReady() (bool, error) {
	fds := []unix.PollFd{{Fd: int32(t.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	if err != nil {
		return false, err
	}
	return n > 0 && fds[0].Revents&unix.POLLIN != 0, nil
}

func (t *unixTerminal) ReadByte() (byte, error) {
	var buf [1]byte
	n, err := unix.Read(t.fd, buf[:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return buf[0], nil
}
