package main

import (
	"context"
	"io"

	"github.com/thirdlang/thirdvm/internal/panicerr"
)

// Run drives the outer interpreter to completion (clean EOF, an abort
// that bubbles all the way out, or ctx's deadline), isolating the run in
// its own goroutine so a host panic inside a builtin surfaces as an
// error rather than taking down the process.
func (vm *VM) Run(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- panicerr.Recover("thirdvm", vm.quit) }()

	select {
	case err := <-done:
		if err == io.EOF {
			return nil
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
