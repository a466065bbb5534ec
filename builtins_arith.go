package main

// Canonical boolean cell values: true is -1, false is 0.
const (
	flagTrue  int64 = -1
	flagFalse int64 = 0
)

func boolCell(b bool) int64 {
	if b {
		return flagTrue
	}
	return flagFalse
}

func registerArithBuiltins(vm *VM) error {
	binop := func(name string, fn func(a, b int64) (int64, error)) error {
		return vm.addBuiltin(name, false, func(vm *VM) error {
			b, err := vm.dpop()
			if err != nil {
				return err
			}
			a, err := vm.dpop()
			if err != nil {
				return err
			}
			r, err := fn(a, b)
			if err != nil {
				return err
			}
			vm.dpush(r)
			return nil
		})
	}
	unop := func(name string, fn func(a int64) int64) error {
		return vm.addBuiltin(name, false, func(vm *VM) error {
			a, err := vm.dpop()
			if err != nil {
				return err
			}
			vm.dpush(fn(a))
			return nil
		})
	}

	ops := []struct {
		name string
		fn   func(a, b int64) (int64, error)
	}{
		{"+", func(a, b int64) (int64, error) { return a + b, nil }},
		{"-", func(a, b int64) (int64, error) { return a - b, nil }},
		{"*", func(a, b int64) (int64, error) { return a * b, nil }},
		{"/", func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, arithmeticErrorf("division by zero")
			}
			return a / b, nil
		}},
		{"mod", func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, arithmeticErrorf("division by zero")
			}
			return a % b, nil
		}},
		{"min", func(a, b int64) (int64, error) {
			if a < b {
				return a, nil
			}
			return b, nil
		}},
		{"max", func(a, b int64) (int64, error) {
			if a > b {
				return a, nil
			}
			return b, nil
		}},
		{"=", func(a, b int64) (int64, error) { return boolCell(a == b), nil }},
		{"<>", func(a, b int64) (int64, error) { return boolCell(a != b), nil }},
		{"<", func(a, b int64) (int64, error) { return boolCell(a < b), nil }},
		{">", func(a, b int64) (int64, error) { return boolCell(a > b), nil }},
		{"and", func(a, b int64) (int64, error) { return a & b, nil }},
		{"or", func(a, b int64) (int64, error) { return a | b, nil }},
		{"xor", func(a, b int64) (int64, error) { return a ^ b, nil }},
		{"lshift", func(a, b int64) (int64, error) { return a << uint(b), nil }},
		{"rshift", func(a, b int64) (int64, error) { return int64(uint64(a) >> uint(b)), nil }},
	}
	for _, op := range ops {
		if err := binop(op.name, op.fn); err != nil {
			return err
		}
	}

	if err := vm.addBuiltin("/mod", false, func(vm *VM) error {
		b, err := vm.dpop()
		if err != nil {
			return err
		}
		a, err := vm.dpop()
		if err != nil {
			return err
		}
		if b == 0 {
			return arithmeticErrorf("division by zero")
		}
		vm.dpush(a % b)
		vm.dpush(a / b)
		return nil
	}); err != nil {
		return err
	}

	uops := []struct {
		name string
		fn   func(a int64) int64
	}{
		{"negate", func(a int64) int64 { return -a }},
		{"abs", func(a int64) int64 {
			if a < 0 {
				return -a
			}
			return a
		}},
		{"not", func(a int64) int64 { return boolCell(a == 0) }},
		{"invert", func(a int64) int64 { return ^a }},
		{"0=", func(a int64) int64 { return boolCell(a == 0) }},
		{"0<", func(a int64) int64 { return boolCell(a < 0) }},
		{"0>", func(a int64) int64 { return boolCell(a > 0) }},
		{"0<>", func(a int64) int64 { return boolCell(a != 0) }},
		{"1+", func(a int64) int64 { return a + 1 }},
		{"1-", func(a int64) int64 { return a - 1 }},
	}
	for _, op := range uops {
		if err := unop(op.name, op.fn); err != nil {
			return err
		}
	}
	return nil
}
