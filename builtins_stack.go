package main

import "fmt"

func registerStackBuiltins(vm *VM) error {
	type reg struct {
		name      string
		immediate bool
		fn        builtinFunc
	}
	regs := []reg{
		{"dup", false, func(vm *VM) error {
			v, err := vm.dpeek(0)
			if err != nil {
				return err
			}
			vm.dpush(v)
			return nil
		}},
		{"drop", false, func(vm *VM) error {
			_, err := vm.dpop()
			return err
		}},
		{"swap", false, func(vm *VM) error {
			b, err := vm.dpop()
			if err != nil {
				return err
			}
			a, err := vm.dpop()
			if err != nil {
				return err
			}
			vm.dpush(b)
			vm.dpush(a)
			return nil
		}},
		{"over", false, func(vm *VM) error {
			v, err := vm.dpeek(1)
			if err != nil {
				return err
			}
			vm.dpush(v)
			return nil
		}},
		{"rot", false, func(vm *VM) error {
			c, err := vm.dpop()
			if err != nil {
				return err
			}
			b, err := vm.dpop()
			if err != nil {
				return err
			}
			a, err := vm.dpop()
			if err != nil {
				return err
			}
			vm.dpush(b)
			vm.dpush(c)
			vm.dpush(a)
			return nil
		}},
		{"-rot", false, func(vm *VM) error {
			c, err := vm.dpop()
			if err != nil {
				return err
			}
			b, err := vm.dpop()
			if err != nil {
				return err
			}
			a, err := vm.dpop()
			if err != nil {
				return err
			}
			vm.dpush(c)
			vm.dpush(a)
			vm.dpush(b)
			return nil
		}},
		{"nip", false, func(vm *VM) error {
			b, err := vm.dpop()
			if err != nil {
				return err
			}
			if _, err := vm.dpop(); err != nil {
				return err
			}
			vm.dpush(b)
			return nil
		}},
		{"tuck", false, func(vm *VM) error {
			b, err := vm.dpop()
			if err != nil {
				return err
			}
			a, err := vm.dpop()
			if err != nil {
				return err
			}
			vm.dpush(b)
			vm.dpush(a)
			vm.dpush(b)
			return nil
		}},
		{"?dup", false, func(vm *VM) error {
			v, err := vm.dpeek(0)
			if err != nil {
				return err
			}
			if v != 0 {
				vm.dpush(v)
			}
			return nil
		}},
		{"pick", false, func(vm *VM) error {
			n, err := vm.dpop()
			if err != nil {
				return err
			}
			v, err := vm.dpeek(int(n))
			if err != nil {
				return err
			}
			vm.dpush(v)
			return nil
		}},
		{"roll", false, func(vm *VM) error {
			n, err := vm.dpop()
			if err != nil {
				return err
			}
			if n < 0 {
				return rangeErrorf("roll: negative index %v", n)
			}
			idx := len(vm.dstack) - 1 - int(n)
			if idx < 0 {
				return &vmError{kind: errStack, msg: "data stack underflow"}
			}
			v := vm.dstack[idx]
			vm.dstack = append(vm.dstack[:idx], vm.dstack[idx+1:]...)
			vm.dstack = append(vm.dstack, v)
			return nil
		}},
		{"depth", false, func(vm *VM) error {
			vm.dpush(int64(len(vm.dstack)))
			return nil
		}},
		{"clear", false, func(vm *VM) error {
			vm.dstack = vm.dstack[:0]
			return nil
		}},
		{".s", false, func(vm *VM) error {
			fmt.Fprintf(vm.out, "%v ", vm.dstack)
			return nil
		}},
		{">r", false, func(vm *VM) error {
			v, err := vm.dpop()
			if err != nil {
				return err
			}
			vm.rpush(v)
			return nil
		}},
		{"r>", false, func(vm *VM) error {
			v, err := vm.rpop()
			if err != nil {
				return err
			}
			vm.dpush(v)
			return nil
		}},
		{"r@", false, func(vm *VM) error {
			if len(vm.rstack) == 0 {
				return &vmError{kind: errStack, msg: "return stack underflow"}
			}
			vm.dpush(vm.rstack[len(vm.rstack)-1])
			return nil
		}},
		{"rdrop", false, func(vm *VM) error {
			_, err := vm.rpop()
			return err
		}},
		{">c", false, func(vm *VM) error {
			v, err := vm.dpop()
			if err != nil {
				return err
			}
			vm.cpush(v)
			return nil
		}},
		{"c>", false, func(vm *VM) error {
			v, err := vm.cpop()
			if err != nil {
				return err
			}
			vm.dpush(v)
			return nil
		}},
	}
	for _, r := range regs {
		if err := vm.addBuiltin(r.name, r.immediate, r.fn); err != nil {
			return err
		}
	}
	return nil
}
