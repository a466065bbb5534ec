//go:build !unix

package rawterm

func open(fd uintptr) Terminal { return stubTerminal{} }

// stubTerminal backs platforms (e.g. plain windows without a console-mode
// implementation wired up) where raw mode is simply unavailable: the
// builtins degrade to no-ops rather than aborting the VM.
type stubTerminal struct{}

func (stubTerminal) On() error               { return ErrUnsupported }
func (stubTerminal) Off() error              { return nil }
func (stubTerminal) Raw() bool               { return false }
func (stubTerminal) KeyReady() (bool, error) { return false, ErrUnsupported }
func (stubTerminal) ReadByte() (byte, error) { return 0, ErrUnsupported }
