package main

// builtinFunc is the signature every entry in the Builtin Table (BT)
// implements; it runs with the data/return/control stacks and memory
// stores already in scope on vm.
type builtinFunc func(vm *VM) error

// addBuiltin appends fn to the Builtin Table and links a dictionary
// entry naming it.
func (vm *VM) addBuiltin(name string, immediate bool, fn builtinFunc) error {
	idx := uint(len(vm.builtins))
	vm.builtins = append(vm.builtins, fn)
	vm.builtinNames = append(vm.builtinNames, name)
	_, err := vm.define(name, builtinCell(int64(idx), immediate))
	return err
}

// installBuiltins (re)builds the Builtin Table and its dictionary
// entries from scratch; called by reset.
func (vm *VM) installBuiltins() error {
	vm.builtins = vm.builtins[:0]
	vm.builtinNames = vm.builtinNames[:0]

	groups := []func(*VM) error{
		registerArithBuiltins,
		registerStackBuiltins,
		registerMemoryBuiltins,
		registerDictionaryBuiltins,
		registerParserBuiltins,
		registerIOBuiltins,
		registerDebugBuiltins,
		registerControlBuiltins,
	}
	for _, reg := range groups {
		if err := reg(vm); err != nil {
			return err
		}
	}
	return nil
}
