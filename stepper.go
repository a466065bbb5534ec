package main

import "fmt"

// stepper.go implements the optional per-step trace/single-step debugger
// gated by the `stepper`/`stepper-depth` CS variables: `dbg`'s cousin,
// but driven automatically from the II rather than invoked by hand.

// stepTrace runs once per II step, before the cell at ip is dispatched.
// It is a no-op unless `stepper` is nonzero and the return-stack depth is
// within `stepper-depth`. Trace mode (stepper > 0) only prints; single-step
// mode (stepper < 0) also waits on a command key.
func (vm *VM) stepTrace(ip uint, c int64) error {
	stepper := vm.getVar(addrStepper)
	if stepper == 0 {
		return nil
	}
	if len(vm.rstack) > int(vm.getVar(addrStepperDepth)) {
		return nil
	}

	fmt.Fprintf(vm.out, "%v d:%v r:%v %v\n", ip, vm.dstack, len(vm.rstack), vm.wordNameAt(ip, c))
	vm.out.Flush()

	if stepper > 0 {
		return nil
	}
	return vm.singleStepWait()
}

// wordNameAt names the entry whose CFA sits at ip, or the builtin running
// there, for the stepper's printout; returns "" when ip falls mid-body.
func (vm *VM) wordNameAt(ip uint, c int64) string {
	if isBuiltinCell(c) {
		idx := uint(cellAddress(c))
		if idx < uint(len(vm.builtinNames)) {
			return vm.builtinNames[idx]
		}
		return ""
	}
	for e := vm.context(); e != 0; {
		if xtOf(e) == ip {
			return vm.entryName(e)
		}
		bp, err := vm.cells.Load(e + entryBP)
		if err != nil || bp == 0 {
			break
		}
		e = uint(bp)
	}
	return ""
}

// singleStepWait blocks for one command key on the controlling terminal.
// Degrades to a no-op (rather than aborting the VM) on platforms with no
// termios binding, matching raw-mode-on's own ErrUnsupported fallback.
func (vm *VM) singleStepWait() error {
	term := vm.term()
	for {
		b, err := term.ReadByte()
		if err != nil {
			return nil
		}
		switch b {
		case 's':
			return nil
		case 't':
			return vm.setVar(addrStepper, 1)
		case 'c':
			return vm.setVar(addrStepper, 0)
		case 'i':
			return vm.setVar(addrStepperDepth, vm.getVar(addrStepperDepth)+1)
		case 'o':
			d := vm.getVar(addrStepperDepth)
			if d > 0 {
				d--
			}
			return vm.setVar(addrStepperDepth, d)
		case 'h', '?':
			fmt.Fprint(vm.out, "s step  t trace  c continue  i/o depth+/-  h/? help\n")
			vm.out.Flush()
		}
	}
}
