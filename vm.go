package main

import (
	"io"

	"github.com/thirdlang/thirdvm/internal/cellmem"
	"github.com/thirdlang/thirdvm/internal/fileinput"
	"github.com/thirdlang/thirdvm/internal/flushio"
	"github.com/thirdlang/thirdvm/internal/logio"
	"github.com/thirdlang/thirdvm/internal/rawterm"
	"github.com/thirdlang/thirdvm/internal/strstore"
)

// Reserved low-address Cell Store variables. Each is a
// single cell, addressable by user code the same way `variable` entries
// are: a builtin with the matching name pushes the address, and `@`/`!`
// do the rest.
const (
	addrHere uint = iota
	addrSHere
	addrState
	addrBase
	addrIn
	addrNumTib
	addrContext
	addrLast
	addrStepper
	addrStepperDepth
	addrDebugLevel
	addrPadBase // first of padSize cells
)

// padSize is the cell count of each of the PAD and TMP scratch buffers.
const padSize = 132

const (
	addrTmpBase = addrPadBase + padSize
	addrReserved = addrTmpBase + padSize // first address free for the dictionary
)

// Interpreter states, held in the addrState cell.
const (
	stateInterpret int64 = 0
	stateCompile   int64 = -1
)

// VM ties the Cell Store, String Store, dictionary, and both
// interpreters together into one runnable machine.
type VM struct {
	cells cellmem.Cells
	strs  strstore.Store

	in  fileinput.Input
	out flushio.WriteFlusher

	tibBuf []byte // TIB: current line's raw bytes, indexed by >in/#tib

	dstack []int64 // data stack
	rstack []int64 // return stack: II call frames, and >r/r>/r@
	cstack []int64 // compiler control stack: if/then, begin/while, case/of...

	builtins     []builtinFunc
	builtinNames []string

	rawTerm   rawterm.Terminal
	rawTermFd uintptr

	closers []io.Closer
	log     logio.Logger

	traceLevel int
	bounds     bool
}

// haltError signals that the VM should stop running, carrying the
// underlying cause (io.EOF for a clean end of input, or a *vmError
// carrying a user-abort/runtime-error condition).
type haltError struct{ cause error }

func (h haltError) Error() string { return h.cause.Error() }
func (h haltError) Unwrap() error { return h.cause }

func (vm *VM) halt(cause error) error {
	if cause == nil {
		cause = io.EOF
	}
	return haltError{cause: cause}
}

// Close releases any resources (open include files, log writers) the VM
// has accumulated.
func (vm *VM) Close() error {
	var first error
	for i := len(vm.closers) - 1; i >= 0; i-- {
		if err := vm.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	vm.closers = nil
	return first
}

func newVM(opts ...VMOption) (*VM, error) {
	vm := &VM{
		cells: cellmem.Cells{},
		out:   flushio.NewWriteFlusher(io.Discard),
	}
	vm.log.SetOutput(io.NopCloser(io.Discard))
	vm.cells.SetPageSize(cellmem.DefaultPageSize)
	VMOptions(opts...).apply(vm)
	if err := vm.reset(); err != nil {
		return nil, err
	}
	return vm, nil
}

// reset (re)initializes the reserved variables and installs the builtin
// dictionary; called once at startup, by newVM.
func (vm *VM) reset() error {
	vm.dstack = vm.dstack[:0]
	vm.rstack = vm.rstack[:0]
	vm.cstack = vm.cstack[:0]

	if err := vm.cells.Stor(addrHere, int64(addrReserved)); err != nil {
		return err
	}
	if err := vm.cells.Stor(addrSHere, 0); err != nil {
		return err
	}
	if err := vm.cells.Stor(addrState, stateInterpret); err != nil {
		return err
	}
	if err := vm.cells.Stor(addrBase, 10); err != nil {
		return err
	}
	if err := vm.cells.Stor(addrIn, 0); err != nil {
		return err
	}
	if err := vm.cells.Stor(addrNumTib, 0); err != nil {
		return err
	}
	if err := vm.cells.Stor(addrContext, 0); err != nil {
		return err
	}
	if err := vm.cells.Stor(addrLast, 0); err != nil {
		return err
	}
	if err := vm.cells.Stor(addrStepper, 0); err != nil {
		return err
	}
	if err := vm.cells.Stor(addrStepperDepth, 0); err != nil {
		return err
	}
	if err := vm.cells.Stor(addrDebugLevel, 0); err != nil {
		return err
	}
	return vm.installBuiltins()
}

func (vm *VM) getVar(addr uint) int64 {
	v, err := vm.cells.Load(addr)
	if err != nil {
		return 0
	}
	return v
}

func (vm *VM) setVar(addr uint, v int64) error { return vm.cells.Stor(addr, v) }

func (vm *VM) here() uint      { return uint(vm.getVar(addrHere)) }
func (vm *VM) setHere(v uint)  { vm.setVar(addrHere, int64(v)) }
func (vm *VM) state() int64    { return vm.getVar(addrState) }
func (vm *VM) compiling() bool { return vm.state() == stateCompile }
func (vm *VM) context() uint   { return uint(vm.getVar(addrContext)) }
func (vm *VM) last() uint      { return uint(vm.getVar(addrLast)) }

func (vm *VM) base() int64 {
	b := vm.getVar(addrBase)
	if b < 2 || b > 36 {
		return 10
	}
	return b
}

// alloc reserves n cells at the top of the dictionary/heap, zero-filled,
// returning the address of the first.
func (vm *VM) alloc(n uint) (uint, error) {
	addr := vm.here()
	if n > 0 {
		if err := vm.cells.Stor(addr, make([]int64, n)...); err != nil {
			return 0, err
		}
	}
	vm.setHere(addr + n)
	return addr, nil
}

// comma compiles one cell at `here`, advancing it.
func (vm *VM) comma(v int64) error {
	addr, err := vm.alloc(1)
	if err != nil {
		return err
	}
	return vm.cells.Stor(addr, v)
}

func (vm *VM) dpush(v int64) { vm.dstack = append(vm.dstack, v) }

func (vm *VM) dpop() (int64, error) {
	if len(vm.dstack) == 0 {
		return 0, &vmError{kind: errStack, msg: "data stack underflow"}
	}
	n := len(vm.dstack) - 1
	v := vm.dstack[n]
	vm.dstack = vm.dstack[:n]
	return v, nil
}

func (vm *VM) dpeek(depth int) (int64, error) {
	n := len(vm.dstack) - 1 - depth
	if n < 0 {
		return 0, &vmError{kind: errStack, msg: "data stack underflow"}
	}
	return vm.dstack[n], nil
}

func (vm *VM) rpush(v int64) { vm.rstack = append(vm.rstack, v) }

func (vm *VM) rpop() (int64, error) {
	if len(vm.rstack) == 0 {
		return 0, &vmError{kind: errStack, msg: "return stack underflow"}
	}
	n := len(vm.rstack) - 1
	v := vm.rstack[n]
	vm.rstack = vm.rstack[:n]
	return v, nil
}

func (vm *VM) cpush(v int64) { vm.cstack = append(vm.cstack, v) }

func (vm *VM) cpop() (int64, error) {
	if len(vm.cstack) == 0 {
		return 0, &vmError{kind: errState, msg: "control stack underflow: unbalanced control-flow word"}
	}
	n := len(vm.cstack) - 1
	v := vm.cstack[n]
	vm.cstack = vm.cstack[:n]
	return v, nil
}

func (vm *VM) tracef(level int, format string, args ...interface{}) {
	if vm.traceLevel >= level {
		vm.log.Printf("trace", format, args...)
	}
}

// checkBounds applies guarded-mode (`-bounds`) range checking: `@`/`!`
// reject an address at or past `here` instead of silently reading zero
// or quietly growing the page table underneath the running program.
func (vm *VM) checkBounds(addr uint, op string) error {
	if !vm.bounds {
		return nil
	}
	if err := vm.cells.CheckWatermark(addr, vm.here(), op); err != nil {
		return &vmError{kind: errRange, msg: err.Error()}
	}
	return nil
}
