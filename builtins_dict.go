package main

import "fmt"

func registerDictionaryBuiltins(vm *VM) error {
	if err := vm.addBuiltin(":", false, func(vm *VM) error {
		tok, ok := vm.nextToken()
		if !ok {
			return parseErrorf(": expected a name")
		}
		e, err := vm.createHeader(tok)
		if err != nil {
			return err
		}
		if _, err := vm.alloc(1); err != nil {
			return err
		}
		if err := vm.cells.Stor(e+entryCFA, opDefinition); err != nil {
			return err
		}
		return vm.setVar(addrState, stateCompile)
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin(";", true, func(vm *VM) error {
		if err := vm.comma(opBreak); err != nil {
			return err
		}
		if err := vm.closeDefinition(); err != nil {
			return err
		}
		return vm.setVar(addrState, stateInterpret)
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("create", false, func(vm *VM) error {
		tok, ok := vm.nextToken()
		if !ok {
			return parseErrorf("create expected a name")
		}
		if _, err := vm.createHeader(tok); err != nil {
			return err
		}
		return vm.closeDefinition()
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("variable", false, func(vm *VM) error {
		tok, ok := vm.nextToken()
		if !ok {
			return parseErrorf("variable expected a name")
		}
		e, err := vm.createHeader(tok)
		if err != nil {
			return err
		}
		if _, err := vm.alloc(1); err != nil {
			return err
		}
		if err := vm.cells.Stor(e+entryCFA, opVariable); err != nil {
			return err
		}
		if _, err := vm.alloc(1); err != nil {
			return err
		}
		return vm.closeDefinition()
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("constant", false, func(vm *VM) error {
		tok, ok := vm.nextToken()
		if !ok {
			return parseErrorf("constant expected a name")
		}
		v, err := vm.dpop()
		if err != nil {
			return err
		}
		e, err := vm.createHeader(tok)
		if err != nil {
			return err
		}
		if _, err := vm.alloc(1); err != nil {
			return err
		}
		if err := vm.cells.Stor(e+entryCFA, opConstant); err != nil {
			return err
		}
		if err := vm.comma(v); err != nil {
			return err
		}
		return vm.closeDefinition()
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("array", false, func(vm *VM) error {
		tok, ok := vm.nextToken()
		if !ok {
			return parseErrorf("array expected a name")
		}
		n, err := vm.dpop()
		if err != nil {
			return err
		}
		if n < 0 {
			return rangeErrorf("array: negative size %v", n)
		}
		e, err := vm.createHeader(tok)
		if err != nil {
			return err
		}
		if _, err := vm.alloc(1); err != nil {
			return err
		}
		if err := vm.cells.Stor(e+entryCFA, opArray); err != nil {
			return err
		}
		if _, err := vm.alloc(uint(n)); err != nil {
			return err
		}
		return vm.closeDefinition()
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("'", false, func(vm *VM) error {
		tok, ok := vm.nextToken()
		if !ok {
			return parseErrorf("' expected a name")
		}
		e, found := vm.find(tok)
		if !found {
			return lookupErrorf("%v not found", tok)
		}
		vm.dpush(int64(xtOf(e)))
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("(')", false, func(vm *VM) error {
		tok, ok := vm.nextToken()
		if !ok {
			vm.dpush(0)
			return nil
		}
		e, found := vm.find(tok)
		if !found {
			vm.dpush(0)
			return nil
		}
		vm.dpush(int64(xtOf(e)))
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("find", false, func(vm *VM) error {
		a, err := vm.dpop()
		if err != nil {
			return err
		}
		name := vm.strs.String(uint(a))
		if e, found := vm.find(name); found {
			vm.dpush(int64(xtOf(e)))
			vm.dpush(flagTrue)
			return nil
		}
		vm.dpush(a)
		vm.dpush(flagFalse)
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("?unique", false, func(vm *VM) error {
		a, err := vm.dpop()
		if err != nil {
			return err
		}
		name := vm.strs.String(uint(a))
		if _, found := vm.find(name); found {
			fmt.Fprintf(vm.out, "%v redefined\n", name)
		}
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("immediate", false, func(vm *VM) error {
		return vm.setImmediate(vm.last())
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("(close)", false, func(vm *VM) error {
		if err := vm.comma(opBreak); err != nil {
			return err
		}
		if err := vm.closeDefinition(); err != nil {
			return err
		}
		return vm.setVar(addrState, stateInterpret)
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("forget-last", false, func(vm *VM) error {
		return vm.forgetEntry(vm.last())
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("forget", false, func(vm *VM) error {
		tok, ok := vm.nextToken()
		if !ok {
			return parseErrorf("forget expected a name")
		}
		e, found := vm.find(tok)
		if !found {
			return lookupErrorf("%v not found", tok)
		}
		return vm.forgetEntry(e)
	}); err != nil {
		return err
	}

	return vm.addBuiltin("builtin-name", false, func(vm *VM) error {
		idx, err := vm.dpop()
		if err != nil {
			return err
		}
		if idx < 0 || int(idx) >= len(vm.builtinNames) {
			return rangeErrorf("builtin-name: no builtin #%v", idx)
		}
		name := vm.builtinNames[idx]
		addr, err := vm.strs.AppendString(name)
		if err != nil {
			return ioErrorf("builtin-name: %v", err)
		}
		vm.dpush(int64(addr))
		return nil
	})
}
