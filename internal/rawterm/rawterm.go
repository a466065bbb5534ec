// Package rawterm is the terminal raw-mode driver. It backs the
// `raw-mode-on`, `raw-mode-off`, and `key?` builtins. The VM core never
// touches termios/console-mode APIs directly; it only calls through this
// small interface.
package rawterm

import "errors"

// ErrUnsupported is returned by platforms with no raw-mode implementation;
// `raw-mode-on`/`key?` degrade to no-ops/false rather than aborting the VM.
var ErrUnsupported = errors.New("rawterm: unsupported platform")

// Terminal toggles raw mode on a file descriptor and polls for pending
// input without blocking.
type Terminal interface {
	// On enables raw mode, if not already enabled.
	On() error
	// Off restores the mode Open found the descriptor in.
	Off() error
	// Raw reports whether raw mode is currently enabled.
	Raw() bool
	// KeyReady reports whether a byte is immediately available to read,
	// without blocking; used by the line editor to probe for escape
	// sequence continuations.
	KeyReady() (bool, error)
	// ReadByte blocks for exactly one byte from the descriptor. Used by
	// the single-step debugger to wait on a command key while raw mode
	// is enabled.
	ReadByte() (byte, error)
}

// Open returns a Terminal for the given file descriptor (typically
// os.Stdin.Fd()). The returned Terminal starts in non-raw mode.
func Open(fd uintptr) Terminal { return open(fd) }
