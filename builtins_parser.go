package main

import (
	"io"
	"os"
)

func registerParserBuiltins(vm *VM) error {
	if err := vm.addBuiltin("parse-to", false, func(vm *VM) error {
		d, err := vm.dpop()
		if err != nil {
			return err
		}
		tok := vm.scanUntil(byte(d))
		addr := addrPadBase
		if len(tok) > padSize {
			tok = tok[:padSize]
		}
		for i := 0; i < len(tok); i++ {
			if err := vm.cells.Stor(addr+uint(i), int64(tok[i])); err != nil {
				return err
			}
		}
		vm.dpush(int64(addr))
		vm.dpush(int64(len(tok)))
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("include-file", false, func(vm *VM) error {
		a, err := vm.dpop()
		if err != nil {
			return err
		}
		name := vm.strs.String(uint(a))
		f, err := os.Open(name)
		if err != nil {
			vm.dpush(flagFalse)
			return nil
		}
		vm.in.Push(f)
		vm.closers = append(vm.closers, f)
		vm.dpush(flagTrue)
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("included", false, func(vm *VM) error {
		name := vm.strs.String(addrTmpBaseString(vm))
		f, err := os.Open(name)
		if err != nil {
			return ioErrorf("included %q: %v", name, err)
		}
		vm.in.Push(f)
		vm.closers = append(vm.closers, f)
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("eval", false, func(vm *VM) error {
		return vm.eval()
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("query", false, func(vm *VM) error {
		return vm.readLine()
	}); err != nil {
		return err
	}

	return vm.addBuiltin("accept", false, func(vm *VM) error {
		max, err := vm.dpop()
		if err != nil {
			return err
		}
		addr, err := vm.dpop()
		if err != nil {
			return err
		}
		var n int64
		for n < max {
			b, err := vm.in.ReadByte()
			if err != nil {
				if err == io.EOF {
					break
				}
				return ioErrorf("accept: %v", err)
			}
			if b == '\n' {
				break
			}
			if err := vm.cells.Stor(uint(addr)+uint(n), int64(b)); err != nil {
				return err
			}
			n++
		}
		vm.dpush(n)
		return nil
	})
}

// addrTmpBaseString reads TMP as a counted string: its first cell holds
// the byte length, followed by one byte value per cell, which is where
// `included` takes its filename from. The name is copied into the String
// Store and that address is returned.
func addrTmpBaseString(vm *VM) uint {
	n, _ := vm.cells.Load(addrTmpBase)
	buf := make([]byte, n)
	for i := range buf {
		c, _ := vm.cells.Load(addrTmpBase + 1 + uint(i))
		buf[i] = byte(c)
	}
	addr, _ := vm.strs.Append(buf)
	return addr
}
