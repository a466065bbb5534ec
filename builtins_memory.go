package main

// registerMemoryBuiltins wires the Cell Store access words plus the
// small set of CS-resident control variables (here, state, base, ...)
// addressable the same way a `variable`
// is: the builtin pushes the fixed address, `@`/`!` do the rest.
func registerMemoryBuiltins(vm *VM) error {
	variable := func(name string, addr uint) error {
		return vm.addBuiltin(name, false, func(vm *VM) error {
			vm.dpush(int64(addr))
			return nil
		})
	}
	vars := []struct {
		name string
		addr uint
	}{
		{"here", addrHere},
		{"s-here", addrSHere},
		{"state", addrState},
		{"base", addrBase},
		{">in", addrIn},
		{"#tib", addrNumTib},
		{"context", addrContext},
		{"last", addrLast},
		{"pad", addrPadBase},
		{"tmp", addrTmpBase},
	}
	for _, v := range vars {
		if err := variable(v.name, v.addr); err != nil {
			return err
		}
	}

	if err := vm.addBuiltin("@", false, func(vm *VM) error {
		a, err := vm.dpop()
		if err != nil {
			return err
		}
		addr := uint(a)
		if err := vm.checkBounds(addr, "@"); err != nil {
			return err
		}
		v, err := vm.cells.Load(addr)
		if err != nil {
			return rangeErrorf("@ %v: %v", addr, err)
		}
		vm.dpush(v)
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("!", false, func(vm *VM) error {
		a, err := vm.dpop()
		if err != nil {
			return err
		}
		v, err := vm.dpop()
		if err != nil {
			return err
		}
		addr := uint(a)
		if err := vm.checkBounds(addr, "!"); err != nil {
			return err
		}
		if err := vm.cells.Stor(addr, v); err != nil {
			return rangeErrorf("! %v: %v", addr, err)
		}
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("c@", false, func(vm *VM) error {
		a, err := vm.dpop()
		if err != nil {
			return err
		}
		b, err := vm.strs.ByteAt(uint(a))
		if err != nil {
			return rangeErrorf("c@ %v: %v", a, err)
		}
		vm.dpush(int64(b))
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("c!", false, func(vm *VM) error {
		a, err := vm.dpop()
		if err != nil {
			return err
		}
		v, err := vm.dpop()
		if err != nil {
			return err
		}
		if err := vm.strs.SetByte(uint(a), byte(v)); err != nil {
			return rangeErrorf("c! %v: %v", a, err)
		}
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("+!", false, func(vm *VM) error {
		a, err := vm.dpop()
		if err != nil {
			return err
		}
		v, err := vm.dpop()
		if err != nil {
			return err
		}
		addr := uint(a)
		cur, err := vm.cells.Load(addr)
		if err != nil {
			return rangeErrorf("+! %v: %v", addr, err)
		}
		return vm.cells.Stor(addr, cur+v)
	}); err != nil {
		return err
	}

	return vm.addBuiltin(",", false, func(vm *VM) error {
		v, err := vm.dpop()
		if err != nil {
			return err
		}
		return vm.comma(v)
	})
}
