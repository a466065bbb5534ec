package main

// Dictionary entry layout:
//
//	cell[e+0]  BP   back-pointer: address of the previous entry, or 0
//	cell[e+1]  NFA  flags | String Store address of the (counted) name
//	cell[e+2]  CFA  flags | opcode or address, interpreted by the II
//	cell[e+3:] body, meaning depends on CFA
const (
	entryBP = 0
	entryNFA = 1
	entryCFA = 2
	entryBody = 3
)

// createHeader allocates just the BP and NFA cells of a new entry,
// linking it into the dictionary, but leaves the CFA cell (and `here`)
// for the caller to fill in — this is exactly what the `create` builtin
// exposes to user code.
//
// Only `last` is advanced here. `context`, the root of `find`'s search,
// stays behind until closeDefinition runs: while a `:` body is being
// compiled, a bare lookup of the word being defined must still resolve
// to the previous (completed) entry of that name, not the new, open
// one, so a definition can legally call an earlier version of itself.
func (vm *VM) createHeader(name string) (uint, error) {
	ssAddr, err := vm.strs.AppendString(name)
	if err != nil {
		return 0, ioErrorf("defining %q: %v", name, err)
	}
	e, err := vm.alloc(2)
	if err != nil {
		return 0, err
	}
	if err := vm.cells.Stor(e+entryBP, int64(vm.last())); err != nil {
		return 0, err
	}
	if err := vm.cells.Stor(e+entryNFA, int64(ssAddr)); err != nil {
		return 0, err
	}
	vm.setVar(addrLast, int64(e))
	return e, nil
}

// closeDefinition advances `context` to `last`, making the most
// recently created entry visible to `find`. Colon definitions call
// this from `;`/`(close)`, once the body is fully compiled; every
// other header-creating word (create, variable, constant, array) has
// no open body to protect and closes immediately after createHeader.
func (vm *VM) closeDefinition() error {
	return vm.setVar(addrContext, int64(vm.last()))
}

// define links a new dictionary entry named name with the given CFA
// cell, returning the entry's base address (its BP cell). The caller
// still owns writing any body cells and advancing `here` past them.
// Used only for builtin registration at startup, never for an open `:`
// body, so it closes the definition immediately.
func (vm *VM) define(name string, cfa int64) (uint, error) {
	e, err := vm.createHeader(name)
	if err != nil {
		return 0, err
	}
	if _, err := vm.alloc(1); err != nil {
		return 0, err
	}
	if err := vm.cells.Stor(e+entryCFA, cfa); err != nil {
		return 0, err
	}
	if err := vm.closeDefinition(); err != nil {
		return 0, err
	}
	return e, nil
}

// setImmediate ORs the immediate flag onto an entry's NFA cell.
func (vm *VM) setImmediate(entry uint) error {
	nfa, err := vm.cells.Load(entry + entryNFA)
	if err != nil {
		return err
	}
	return vm.cells.Stor(entry+entryNFA, nfa|flagImmediate)
}

// entryImmediate reports whether the entry at addr was marked immediate.
func (vm *VM) entryImmediate(entry uint) bool {
	nfa, _ := vm.cells.Load(entry + entryNFA)
	return isImmediateCell(nfa)
}

// entryName returns the (uncounted) name string of the entry at addr.
func (vm *VM) entryName(entry uint) string {
	nfa, err := vm.cells.Load(entry + entryNFA)
	if err != nil {
		return ""
	}
	return vm.strs.String(uint(cellAddress(nfa)))
}

// entryCFA returns the raw CFA cell of the entry at addr.
func (vm *VM) entryCFA(entry uint) int64 {
	cfa, _ := vm.cells.Load(entry + entryCFA)
	return cfa
}

// find searches the dictionary, starting from `context`, for an entry
// named tok, returning its address and true on success. Newer
// definitions shadow older ones of the same name.
func (vm *VM) find(tok string) (uint, bool) {
	for e := vm.context(); e != 0; {
		if vm.entryName(e) == tok {
			return e, true
		}
		bp, err := vm.cells.Load(e + entryBP)
		if err != nil || bp == 0 {
			break
		}
		e = uint(bp)
	}
	return 0, false
}

// forgetEntry unlinks the dictionary back to (and including) entry,
// resetting `here` to reclaim its cells and truncating the String Store
// back to its name. `here` is otherwise monotone non-decreasing.
func (vm *VM) forgetEntry(entry uint) error {
	nfa, err := vm.cells.Load(entry + entryNFA)
	if err != nil {
		return err
	}
	bp, err := vm.cells.Load(entry + entryBP)
	if err != nil {
		return err
	}
	vm.strs.Truncate(uint(cellAddress(nfa)))
	vm.setVar(addrLast, bp)
	vm.setVar(addrContext, bp)
	vm.setHere(entry)
	return nil
}

// xtOf returns the execution token (the CFA address) for the entry at
// addr, i.e. the address the II dispatches through.
func xtOf(entry uint) uint { return entry + entryCFA }
