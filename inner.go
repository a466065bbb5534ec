package main

// inner.go implements the Inner Interpreter (II): a
// threaded-code stepper that walks compiled cell sequences, calling
// through the Builtin Table and the return stack.
//
// The CFA of a dictionary entry holds exactly one of: a builtin cell, or
// one of opVariable/opConstant/opArray/opDefinition. A bare (unflagged,
// non-opcode) cell appearing within a compiled body is a call: the
// address of some other entry's CFA.

// execute runs the word whose CFA lives at xt, to completion, pushing a
// sentinel return address so step's final pop signals done.
func (vm *VM) execute(xt uint) error {
	vm.rpush(0)
	ip := xt
	for ip != 0 {
		next, err := vm.step(ip)
		if err != nil {
			return err
		}
		ip = next
	}
	return nil
}

// step interprets the cell at ip, returning the next ip to run (0 when
// the calling frame has returned past its sentinel).
func (vm *VM) step(ip uint) (uint, error) {
	c, err := vm.cells.Load(ip)
	if err != nil {
		return 0, err
	}

	vm.tracef(2, "step %v: %v", ip, c)
	if err := vm.stepTrace(ip, c); err != nil {
		return 0, err
	}

	switch {
	case isBuiltinCell(c):
		// Pop the caller's return address first, so return-stack words
		// (>r, r>, i, (next), ...) work on the caller's frame.
		ret, err := vm.retAddr()
		if err != nil {
			return 0, err
		}
		idx := uint(cellAddress(c))
		if err := vm.callBuiltin(idx); err != nil {
			return 0, err
		}
		return ret, nil

	case c == opVariable:
		vm.dpush(int64(ip + 1))
		return vm.retAddr()

	case c == opConstant:
		v, err := vm.cells.Load(ip + 1)
		if err != nil {
			return 0, err
		}
		vm.dpush(v)
		return vm.retAddr()

	case c == opArray:
		vm.dpush(int64(ip + 1))
		return vm.retAddr()

	case c == opDefinition:
		// Body follows immediately; the return address for this call
		// was already pushed by whoever jumped here.
		return ip + 1, nil

	case c == opLiteral:
		v, err := vm.cells.Load(ip + 1)
		if err != nil {
			return 0, err
		}
		vm.dpush(v)
		return ip + 2, nil

	case c == opStrlit:
		v, err := vm.cells.Load(ip + 1)
		if err != nil {
			return 0, err
		}
		vm.dpush(v)
		return ip + 2, nil

	case c == opBranch:
		off, err := vm.cells.Load(ip + 1)
		if err != nil {
			return 0, err
		}
		return uint(int64(ip+1) + off), nil

	case c == opBranch0:
		off, err := vm.cells.Load(ip + 1)
		if err != nil {
			return 0, err
		}
		flag, err := vm.dpop()
		if err != nil {
			return 0, err
		}
		if flag == 0 {
			return uint(int64(ip+1) + off), nil
		}
		return ip + 2, nil

	case c == opExit:
		return vm.retAddr()

	case c == opBreak:
		return vm.retAddr()

	case c == opAbort:
		return 0, userAbortf("abort")

	case c == opExec:
		xt, err := vm.dpop()
		if err != nil {
			return 0, err
		}
		vm.rpush(int64(ip + 1))
		return uint(xt), nil

	default:
		// A bare address: call through to that entry's CFA.
		vm.rpush(int64(ip + 1))
		return uint(c), nil
	}
}

// retAddr pops the return stack, as an unsigned ip (0 is the sentinel
// execute pushed, meaning "done").
func (vm *VM) retAddr() (uint, error) {
	v, err := vm.rpop()
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

// callBuiltin invokes the registered builtin at idx.
func (vm *VM) callBuiltin(idx uint) error {
	if idx >= uint(len(vm.builtins)) {
		return lookupErrorf("no such builtin #%v", idx)
	}
	return vm.builtins[idx](vm)
}
