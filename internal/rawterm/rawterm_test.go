package rawterm_test

import (
	"os"
	"testing"

	"github.com/thirdlang/thirdvm/internal/rawterm"
)

// TestOpenDoesNotPanic exercises the interface against a non-tty file; real
// raw-mode behavior is covered by manual/integration testing since it
// requires an actual pty.
func TestOpenDoesNotPanic(t *testing.T) {
	term := rawterm.Open(os.Stdin.Fd())
	_ = term.Raw()
	_, _ = term.KeyReady()
	_ = term.Off()
}
