package main

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/thirdlang/thirdvm/internal/rawterm"
)

func registerIOBuiltins(vm *VM) error {
	if err := vm.addBuiltin("key", false, func(vm *VM) error {
		b, err := vm.in.ReadByte()
		if err != nil {
			return ioErrorf("key: %v", err)
		}
		vm.dpush(int64(b))
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("key?", false, func(vm *VM) error {
		ready, err := vm.term().KeyReady()
		if err != nil {
			vm.dpush(flagFalse)
			return nil
		}
		vm.dpush(boolCell(ready))
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("(emit)", false, func(vm *VM) error {
		c, err := vm.dpop()
		if err != nil {
			return err
		}
		_, werr := vm.out.Write([]byte{byte(c)})
		return werr
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("emit", false, func(vm *VM) error {
		c, err := vm.dpop()
		if err != nil {
			return err
		}
		_, werr := vm.out.Write([]byte{byte(c)})
		return werr
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("cr", false, func(vm *VM) error {
		_, err := vm.out.Write([]byte{'\n'})
		return err
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("flush", false, func(vm *VM) error {
		return vm.out.Flush()
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin(".", false, func(vm *VM) error {
		v, err := vm.dpop()
		if err != nil {
			return err
		}
		fmt.Fprintf(vm.out, "%v ", strconv.FormatInt(v, int(vm.base())))
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("u.", false, func(vm *VM) error {
		v, err := vm.dpop()
		if err != nil {
			return err
		}
		fmt.Fprintf(vm.out, "%v ", strconv.FormatUint(uint64(v), int(vm.base())))
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("type", false, func(vm *VM) error {
		n, err := vm.dpop()
		if err != nil {
			return err
		}
		a, err := vm.dpop()
		if err != nil {
			return err
		}
		buf := make([]byte, n)
		for i := range buf {
			c, err := vm.cells.Load(uint(a) + uint(i))
			if err != nil {
				return rangeErrorf("type: %v", err)
			}
			buf[i] = byte(c)
		}
		_, werr := vm.out.Write(buf)
		return werr
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("raw-mode-on", false, func(vm *VM) error {
		if err := vm.term().On(); err != nil && err != rawterm.ErrUnsupported {
			return err
		}
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("raw-mode-off", false, func(vm *VM) error {
		return vm.term().Off()
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("raw-mode?", false, func(vm *VM) error {
		vm.dpush(boolCell(vm.term().Raw()))
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("ms", false, func(vm *VM) error {
		n, err := vm.dpop()
		if err != nil {
			return err
		}
		if n > 0 {
			time.Sleep(time.Duration(n) * time.Millisecond)
		}
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("now", false, func(vm *VM) error {
		vm.dpush(time.Now().Unix())
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("millis", false, func(vm *VM) error {
		vm.dpush(time.Now().UnixMilli())
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("micros", false, func(vm *VM) error {
		vm.dpush(time.Now().UnixMicro())
		return nil
	}); err != nil {
		return err
	}

	return vm.addBuiltin("(system)", false, func(vm *VM) error {
		a, err := vm.dpop()
		if err != nil {
			return err
		}
		cmd := vm.strs.String(uint(a))
		c := exec.Command("/bin/sh", "-c", cmd)
		c.Stdout = vm.out
		c.Stderr = vm.out
		if err := c.Run(); err != nil {
			vm.dpush(-1)
			return nil
		}
		vm.dpush(0)
		return nil
	})
}

// term lazily opens the raw terminal driver over the VM's input fd;
// fileinput.Input wraps a generic io.ByteReader, so raw mode is only
// meaningful when that reader is backed by a real file descriptor (the
// isatty check in main.go gates only the -raw flag, not these builtins).
func (vm *VM) term() rawterm.Terminal {
	if vm.rawTerm == nil {
		vm.rawTerm = rawterm.Open(vm.rawTermFd)
	}
	return vm.rawTerm
}
