package main

// control.go implements the compile-time control-flow words as native
// immediate builtins; each patches
// BRANCH/BRANCH0 placeholders on the compiler control stack.
//
// Patches store a signed offset relative to the placeholder cell itself
// (the cell right after the BRANCH/BRANCH0 opcode): at runtime, the II
// resolves a branch as (placeholder address) + offset, so patching just
// means storing (target - placeholder).

func (vm *VM) pushMarker(tag int64, addr uint) {
	vm.cpush(int64(addr))
	vm.cpush(tag)
}

func (vm *VM) popMarker(want int64) (uint, error) {
	tag, err := vm.cpop()
	if err != nil {
		return 0, err
	}
	addr, err := vm.cpop()
	if err != nil {
		return 0, err
	}
	if tag != want {
		return 0, stateErrorf("unbalanced control-flow word (expected marker %v, found %v)", want, tag)
	}
	return uint(addr), nil
}

// emitBranch compiles op followed by a zero placeholder cell, returning
// the placeholder's address.
func (vm *VM) emitBranch(op int64) (uint, error) {
	if err := vm.comma(op); err != nil {
		return 0, err
	}
	return vm.alloc(1)
}

// patchBranch resolves a previously-emitted placeholder to target.
func (vm *VM) patchBranch(placeholder, target uint) error {
	return vm.cells.Stor(placeholder, int64(target)-int64(placeholder))
}

// compileCall compiles a plain call to the builtin or word named name.
func (vm *VM) compileCall(name string) error {
	e, found := vm.find(name)
	if !found {
		return lookupErrorf("%v not found (internal control word)", name)
	}
	return vm.comma(int64(xtOf(e)))
}

func requireCompiling(vm *VM, word string) error {
	if !vm.compiling() {
		return stateErrorf("%v only valid while compiling", word)
	}
	return nil
}

func registerControlBuiltins(vm *VM) error {
	type reg struct {
		name string
		fn   builtinFunc
	}
	regs := []reg{
		{"if", func(vm *VM) error {
			if err := requireCompiling(vm, "if"); err != nil {
				return err
			}
			ph, err := vm.emitBranch(opBranch0)
			if err != nil {
				return err
			}
			vm.pushMarker(markIf, ph)
			return nil
		}},
		{"else", func(vm *VM) error {
			ph, err := vm.popMarker(markIf)
			if err != nil {
				return err
			}
			ph2, err := vm.emitBranch(opBranch)
			if err != nil {
				return err
			}
			if err := vm.patchBranch(ph, vm.here()); err != nil {
				return err
			}
			vm.pushMarker(markElse, ph2)
			return nil
		}},
		{"then", func(vm *VM) error {
			tag, err := vm.cpop()
			if err != nil {
				return err
			}
			ph, err := vm.cpop()
			if err != nil {
				return err
			}
			if tag != markIf && tag != markElse {
				return stateErrorf("then without matching if/else")
			}
			return vm.patchBranch(uint(ph), vm.here())
		}},

		{"begin", func(vm *VM) error {
			if err := requireCompiling(vm, "begin"); err != nil {
				return err
			}
			vm.pushMarker(markBegin, vm.here())
			return nil
		}},
		{"until", func(vm *VM) error {
			addr, err := vm.popMarker(markBegin)
			if err != nil {
				return err
			}
			ph, err := vm.emitBranch(opBranch0)
			if err != nil {
				return err
			}
			return vm.patchBranch(ph, addr)
		}},
		{"again", func(vm *VM) error {
			addr, err := vm.popMarker(markBegin)
			if err != nil {
				return err
			}
			ph, err := vm.emitBranch(opBranch)
			if err != nil {
				return err
			}
			return vm.patchBranch(ph, addr)
		}},
		{"while", func(vm *VM) error {
			ph, err := vm.emitBranch(opBranch0)
			if err != nil {
				return err
			}
			vm.pushMarker(markWhile, ph)
			return nil
		}},
		{"repeat", func(vm *VM) error {
			phWhile, err := vm.popMarker(markWhile)
			if err != nil {
				return err
			}
			addrBegin, err := vm.popMarker(markBegin)
			if err != nil {
				return err
			}
			ph, err := vm.emitBranch(opBranch)
			if err != nil {
				return err
			}
			if err := vm.patchBranch(ph, addrBegin); err != nil {
				return err
			}
			return vm.patchBranch(phWhile, vm.here())
		}},

		{"for", func(vm *VM) error {
			if err := requireCompiling(vm, "for"); err != nil {
				return err
			}
			if err := vm.compileCall(">r"); err != nil {
				return err
			}
			vm.pushMarker(markFor, vm.here())
			return nil
		}},
		{"next", func(vm *VM) error {
			addr, err := vm.popMarker(markFor)
			if err != nil {
				return err
			}
			if err := vm.compileCall("(next)"); err != nil {
				return err
			}
			ph, err := vm.emitBranch(opBranch0)
			if err != nil {
				return err
			}
			return vm.patchBranch(ph, addr)
		}},

		{"do", func(vm *VM) error {
			if err := requireCompiling(vm, "do"); err != nil {
				return err
			}
			if err := vm.compileCall("(do)"); err != nil {
				return err
			}
			vm.pushMarker(markDo, vm.here())
			return nil
		}},
		{"loop", func(vm *VM) error {
			addr, err := vm.popMarker(markDo)
			if err != nil {
				return err
			}
			if err := vm.compileCall("(loop)"); err != nil {
				return err
			}
			ph, err := vm.emitBranch(opBranch0)
			if err != nil {
				return err
			}
			return vm.patchBranch(ph, addr)
		}},

		{"case", func(vm *VM) error {
			if err := requireCompiling(vm, "case"); err != nil {
				return err
			}
			vm.pushMarker(markCase, 0)
			return nil
		}},
		{"of", func(vm *VM) error {
			if err := vm.compileCall("over"); err != nil {
				return err
			}
			if err := vm.compileCall("="); err != nil {
				return err
			}
			ph, err := vm.emitBranch(opBranch0)
			if err != nil {
				return err
			}
			if err := vm.compileCall("drop"); err != nil {
				return err
			}
			vm.pushMarker(markOf, ph)
			return nil
		}},
		{"endof", func(vm *VM) error {
			ph, err := vm.popMarker(markOf)
			if err != nil {
				return err
			}
			phEnd, err := vm.emitBranch(opBranch)
			if err != nil {
				return err
			}
			if err := vm.patchBranch(ph, vm.here()); err != nil {
				return err
			}
			vm.pushMarker(markOf, phEnd)
			return nil
		}},
		{"endcase", func(vm *VM) error {
			var ends []uint
			for {
				tag, err := vm.cpop()
				if err != nil {
					return err
				}
				if tag == markCase {
					if _, err := vm.cpop(); err != nil {
						return err
					}
					break
				}
				if tag != markOf {
					return stateErrorf("endcase: unbalanced of/endof")
				}
				ph, err := vm.cpop()
				if err != nil {
					return err
				}
				ends = append(ends, uint(ph))
			}
			here := vm.here()
			for _, ph := range ends {
				if err := vm.patchBranch(ph, here); err != nil {
					return err
				}
			}
			return nil
		}},

		{`."`, func(vm *VM) error {
			s := vm.scanUntil('"')
			addr, err := vm.strs.AppendString(s)
			if err != nil {
				return ioErrorf(`."`+": %v", err)
			}
			if err := vm.comma(opStrlit); err != nil {
				return err
			}
			if err := vm.comma(int64(addr)); err != nil {
				return err
			}
			return vm.compileCall("type-counted")
		}},
		{`abort"`, func(vm *VM) error {
			s := vm.scanUntil('"')
			addr, err := vm.strs.AppendString(s)
			if err != nil {
				return ioErrorf(`abort"`+": %v", err)
			}
			if err := vm.comma(opStrlit); err != nil {
				return err
			}
			if err := vm.comma(int64(addr)); err != nil {
				return err
			}
			return vm.compileCall("(abort-msg)")
		}},
	}

	immediate := map[string]bool{
		"if": true, "else": true, "then": true,
		"begin": true, "until": true, "again": true, "while": true, "repeat": true,
		"for": true, "next": true,
		"do": true, "loop": true,
		"case": true, "of": true, "endof": true, "endcase": true,
		`."`: true, `abort"`: true,
	}
	for _, r := range regs {
		if err := vm.addBuiltin(r.name, immediate[r.name], r.fn); err != nil {
			return err
		}
	}

	return registerLoopHelpers(vm)
}

// registerLoopHelpers installs the small runtime helpers that for/next
// and do/loop compile calls to, keeping the compiled bytecode itself to
// a single BRANCH0 per loop.
func registerLoopHelpers(vm *VM) error {
	if err := vm.addBuiltin("(next)", false, func(vm *VM) error {
		n, err := vm.rpop()
		if err != nil {
			return err
		}
		n--
		if n >= 0 {
			vm.rpush(n)
			vm.dpush(flagFalse)
			return nil
		}
		vm.dpush(flagTrue)
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("(do)", false, func(vm *VM) error {
		start, err := vm.dpop()
		if err != nil {
			return err
		}
		limit, err := vm.dpop()
		if err != nil {
			return err
		}
		vm.rpush(limit)
		vm.rpush(start)
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("(loop)", false, func(vm *VM) error {
		idx, err := vm.rpop()
		if err != nil {
			return err
		}
		limit, err := vm.rpop()
		if err != nil {
			return err
		}
		idx++
		if idx < limit {
			vm.rpush(limit)
			vm.rpush(idx)
			vm.dpush(flagFalse)
			return nil
		}
		vm.dpush(flagTrue)
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("i", false, func(vm *VM) error {
		if len(vm.rstack) == 0 {
			return &vmError{kind: errStack, msg: "return stack underflow"}
		}
		vm.dpush(vm.rstack[len(vm.rstack)-1])
		return nil
	}); err != nil {
		return err
	}

	if err := vm.addBuiltin("type-counted", false, func(vm *VM) error {
		v, err := vm.dpop()
		if err != nil {
			return err
		}
		_, werr := vm.out.Write([]byte(vm.strs.String(uint(v))))
		return werr
	}); err != nil {
		return err
	}

	return vm.addBuiltin("(abort-msg)", false, func(vm *VM) error {
		v, err := vm.dpop()
		if err != nil {
			return err
		}
		return userAbortf("%v", vm.strs.String(uint(v)))
	})
}
