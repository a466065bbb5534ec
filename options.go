package main

import (
	"fmt"
	"io"

	"github.com/thirdlang/thirdvm/internal/flushio"
)

// VMOption configures a VM at construction time; see newVM.
type VMOption interface{ apply(vm *VM) }

// VMOptions flattens a list of options (including nested VMOptions
// results) into a single applicable option.
func VMOptions(opts ...VMOption) VMOption {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil, noption:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	switch len(res) {
	case 0:
		return noption{}
	case 1:
		return res[0]
	default:
		return res
	}
}

type noption struct{}

func (noption) apply(vm *VM) {}

type options []VMOption

func (opts options) apply(vm *VM) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(vm)
		}
	}
}

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type memLimitOption uint
type strLimitOption uint
type pageSizeOption uint
type traceOption int
type boundsOption bool

// withInput queues r as a source for the outer interpreter, read after
// any sources already queued.
func withInput(r io.Reader) inputOption { return inputOption{r} }

// withOutput replaces the VM's console output stream.
func withOutput(w io.Writer) outputOption { return outputOption{w} }

// withTee additionally mirrors all console output to w (used by the tests
// to capture a transcript alongside normal output).
func withTee(w io.Writer) teeOption { return teeOption{w} }

// withMemLimit caps the Cell Store's address space; 0 means unlimited.
func withMemLimit(limit uint) memLimitOption { return memLimitOption(limit) }

// withStrLimit caps the String Store's address space; 0 means unlimited.
func withStrLimit(limit uint) strLimitOption { return strLimitOption(limit) }

func withPageSize(n uint) pageSizeOption { return pageSizeOption(n) }

// withTrace sets the initial trace verbosity (see -trace).
func withTrace(level int) traceOption { return traceOption(level) }

// withBounds enables address-bounds checking on raw @/! access.
func withBounds(on bool) boundsOption { return boundsOption(on) }

func withInputWriter(wto io.WriterTo) pipeInput {
	r, w := io.Pipe()
	go func() {
		defer w.Close()
		wto.WriteTo(w)
	}()
	return pipeInput{r, nameOf(wto)}
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}

func (i inputOption) apply(vm *VM) { vm.in.Push(i.Reader) }

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		vm.out.Flush()
	}
	vm.out = flushio.NewWriteFlusher(o.Writer)
	if cl, ok := o.Writer.(io.Closer); ok {
		vm.closers = append(vm.closers, cl)
	}
}

func (o teeOption) apply(vm *VM) {
	vm.out = flushio.WriteFlushers(vm.out, flushio.NewWriteFlusher(o.Writer))
	if cl, ok := o.Writer.(io.Closer); ok {
		vm.closers = append(vm.closers, cl)
	}
}

func (lim memLimitOption) apply(vm *VM) { vm.cells.SetLimit(uint(lim)) }
func (lim strLimitOption) apply(vm *VM) { vm.strs.Limit = uint(lim) }
func (n pageSizeOption) apply(vm *VM)   { vm.cells.SetPageSize(uint(n)) }
func (lv traceOption) apply(vm *VM)     { vm.traceLevel = int(lv) }
func (b boundsOption) apply(vm *VM)     { vm.bounds = bool(b) }

type pipeInput struct {
	*io.PipeReader
	name string
}

func (pi pipeInput) Name() string { return pi.name }

func (pi pipeInput) apply(vm *VM) {
	vm.in.Push(pi)
	vm.closers = append(vm.closers, pi)
}
