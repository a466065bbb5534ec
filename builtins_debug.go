package main

import "fmt"

func registerDebugBuiltins(vm *VM) error {
	if err := vm.addBuiltin("dbg", false, func(vm *VM) error {
		fmt.Fprintf(vm.out, "d:%v r:%v c:%v here:%v\n", vm.dstack, vm.rstack, vm.cstack, vm.here())
		return nil
	}); err != nil {
		return err
	}

	// stepper/stepper-depth push their CS address, same as a variable;
	// `@`/`!` read and write them. stepTrace (stepper.go) reads both on
	// every II step to decide whether to trace/single-step.
	if err := vm.addBuiltin("stepper", false, func(vm *VM) error {
		vm.dpush(int64(addrStepper))
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("stepper-depth", false, func(vm *VM) error {
		vm.dpush(int64(addrStepperDepth))
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("show-stack", false, func(vm *VM) error {
		fmt.Fprintf(vm.out, "%v ", vm.dstack)
		return nil
	}); err != nil {
		return err
	}

	return registerMetaBuiltins(vm)
}

func registerMetaBuiltins(vm *VM) error {
	if err := vm.addBuiltin("execute", false, func(vm *VM) error {
		xt, err := vm.dpop()
		if err != nil {
			return err
		}
		return vm.execute(uint(xt))
	}); err != nil {
		return err
	}

	return vm.addBuiltin("abort", false, func(vm *VM) error {
		return userAbortf("abort")
	})
}
