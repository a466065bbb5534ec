package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vm_test.go exercises the VM through its Outer Interpreter the way a
// REPL would, using a fluent vmTestCase builder in the same spirit as
// the interpreter's original test harness: each case assembles options
// and expectations, then runs and checks them in one place.

type vmTestCases []vmTestCase

func (vmts vmTestCases) run(t *testing.T) {
	var exclusive []vmTestCase
	for _, vmt := range vmts {
		if vmt.exclusive {
			exclusive = append(exclusive, vmt)
		}
	}
	if len(exclusive) > 0 {
		vmts = exclusive
	}
	for _, vmt := range vmts {
		t.Run(vmt.name, vmt.run)
	}
}

func vmTest(name string) (vmt vmTestCase) {
	vmt.name = name
	return vmt
}

type vmTestCase struct {
	name    string
	opts    []VMOption
	lines   []string
	timeout time.Duration

	exclusive bool

	wantErrContains string
	wantStack       []int64
	haveWantStack   bool
	wantRStack      []int64
	haveWantRStack  bool
	wantOutput      string
	haveWantOutput  bool

	expect []func(t *testing.T, vm *VM)
}

func (vmt vmTestCase) exclusiveTest() vmTestCase {
	vmt.exclusive = true
	return vmt
}

func (vmt vmTestCase) withOptions(opts ...VMOption) vmTestCase {
	vmt.opts = append(vmt.opts, opts...)
	return vmt
}

// withInput queues one more line to feed through the Outer Interpreter,
// in order; each line is evaluated to completion (or to the first
// error) before the next is fed.
func (vmt vmTestCase) withInput(line string) vmTestCase {
	vmt.lines = append(vmt.lines, line)
	return vmt
}

func (vmt vmTestCase) withTimeout(d time.Duration) vmTestCase {
	vmt.timeout = d
	return vmt
}

func (vmt vmTestCase) expectError(substr string) vmTestCase {
	vmt.wantErrContains = substr
	return vmt
}

func (vmt vmTestCase) expectStack(values ...int64) vmTestCase {
	vmt.wantStack = values
	vmt.haveWantStack = true
	return vmt
}

func (vmt vmTestCase) expectRStack(values ...int64) vmTestCase {
	vmt.wantRStack = values
	vmt.haveWantRStack = true
	return vmt
}

func (vmt vmTestCase) expectOutput(output string) vmTestCase {
	vmt.wantOutput = output
	vmt.haveWantOutput = true
	return vmt
}

func (vmt vmTestCase) expectHere(value uint) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, value, vm.here(), "expected here")
	})
	return vmt
}

func (vmt vmTestCase) expectWord(addr uint, name string, cfa int64) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, name, vm.entryName(addr), "expected word @%v name", addr)
		assert.Equal(t, cfa, vm.entryCFA(addr), "expected word %q cfa", name)
	})
	return vmt
}

func (vmt vmTestCase) expectMemAt(addr uint, values ...int64) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		got := make([]int64, len(values))
		for i := range got {
			got[i], _ = vm.cells.Load(addr + uint(i))
		}
		assert.Equal(t, values, got, "expected cells @%v", addr)
	})
	return vmt
}

func (vmt vmTestCase) expectBranchOffset(placeholder uint, target uint) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM) {
		off, _ := vm.cells.Load(placeholder)
		want := int64(target) - int64(placeholder)
		assert.Equal(t, want, off, "expected relative branch offset @%v", placeholder)
	})
	return vmt
}

func (vmt vmTestCase) run(t *testing.T) {
	vm, err := newVM(vmt.opts...)
	require.NoError(t, err)
	defer vm.Close()

	var out strings.Builder
	withTee(&out).apply(vm)

	timeout := vmt.timeout
	if timeout == 0 {
		timeout = time.Second
	}

	done := make(chan error, 1)
	go func() {
		for _, line := range vmt.lines {
			vm.tibBuf = []byte(line)
			vm.setVar(addrIn, 0)
			vm.setVar(addrNumTib, int64(len(line)))
			if err := vm.eval(); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	var runErr error
	select {
	case runErr = <-done:
	case <-time.After(timeout):
		t.Fatalf("%v: timed out after %v", vmt.name, timeout)
	}
	vm.out.Flush()

	if vmt.wantErrContains != "" {
		if assert.Error(t, runErr) {
			assert.Contains(t, runErr.Error(), vmt.wantErrContains)
		}
	} else {
		assert.NoError(t, runErr)
	}

	if vmt.haveWantOutput {
		assert.Equal(t, vmt.wantOutput, out.String(), "expected output")
	}
	if vmt.haveWantStack {
		want := vmt.wantStack
		if want == nil {
			want = []int64{}
		}
		got := vm.dstack
		if got == nil {
			got = []int64{}
		}
		assert.Equal(t, want, got, "expected data stack")
	}
	if vmt.haveWantRStack {
		want := vmt.wantRStack
		if want == nil {
			want = []int64{}
		}
		got := vm.rstack
		if got == nil {
			got = []int64{}
		}
		assert.Equal(t, want, got, "expected return stack")
	}
	for _, expect := range vmt.expect {
		expect(t, vm)
	}
}

func TestArithmetic(t *testing.T) {
	vmTestCases{
		vmTest("add-mul").
			withInput("1 2 3 + *").
			expectStack(5),

		vmTest("div-mod").
			withInput("7 2 /mod").
			expectStack(1, 3),

		vmTest("division-by-zero").
			withInput("1 0 /").
			expectError("division by zero"),

		vmTest("comparisons").
			withInput("1 2 < 3 3 = 4 5 <> and and").
			expectStack(-1),
	}.run(t)
}

func TestDefineAndCall(t *testing.T) {
	vmTestCases{
		vmTest("square").
			withInput(": sq dup * ;").
			withInput("7 sq .").
			expectOutput("49 "),

		vmTest("redefine-shadows").
			withInput(": double dup + ;").
			withInput(": double dup dup + + ;").
			withInput("5 double .").
			expectOutput("15 "),
	}.run(t)
}

func TestBeginUntil(t *testing.T) {
	vmTestCases{
		vmTest("count-to-three").
			withInput(": cnt 0 begin 1+ dup 3 = until ;").
			withInput("cnt .").
			expectOutput("3 "),
	}.run(t)
}

func TestBeginWhileRepeat(t *testing.T) {
	vmTestCases{
		vmTest("sum-while-positive").
			withInput(": sum 0 begin over 0 > while over + swap 1- swap repeat swap drop ;").
			withInput("3 sum .").
			expectOutput("6 "),
	}.run(t)
}

func TestIfElseThen(t *testing.T) {
	vmTestCases{
		vmTest("sign").
			withInput(": sign dup 0 < if drop -1 else drop 1 then ;").
			withInput("-5 sign . 5 sign .").
			expectOutput("-1 1 "),

		vmTest("if-without-else").
			withInput(": maybe dup 0 > if 1+ then ;").
			withInput("4 maybe . -4 maybe .").
			expectOutput("5 -4 "),
	}.run(t)
}

func TestDoLoop(t *testing.T) {
	vmTestCases{
		vmTest("count-up").
			withInput("5 0 do i . loop").
			expectOutput("0 1 2 3 4 "),
	}.run(t)
}

func TestForNext(t *testing.T) {
	vmTestCases{
		vmTest("count-down").
			withInput("4 for i . next").
			expectOutput("4 3 2 1 0 "),
	}.run(t)
}

func TestCase(t *testing.T) {
	vmTestCases{
		vmTest("match-and-default").
			withInput(`: f case 1 of 10 endof 2 of 20 endof 99 endcase ;`).
			withInput("1 f . 2 f . 3 f .").
			expectOutput("10 20 99 "),
	}.run(t)
}

func TestVariable(t *testing.T) {
	vmTestCases{
		vmTest("store-fetch-plus-store").
			withInput("variable v").
			withInput("0 v !").
			withInput("5 v +!").
			withInput("v @ .").
			expectOutput("5 "),
	}.run(t)
}

func TestConstantAndArray(t *testing.T) {
	vmTestCases{
		vmTest("constant").
			withInput("42 constant answer").
			withInput("answer .").
			expectOutput("42 "),

		vmTest("array-indexing").
			withInput("3 array nums").
			withInput("10 nums 0 + ! 20 nums 1 + ! 30 nums 2 + !").
			withInput("nums 1 + @ .").
			expectOutput("20 "),
	}.run(t)
}

func TestAbortRecovery(t *testing.T) {
	vmt := vmTest("abort-then-resume").
		withInput(`: boom 1 2 abort" boom" drop ;`).
		withInput("boom")
	vm, err := newVM(vmt.opts...)
	require.NoError(t, err)
	defer vm.Close()

	var out strings.Builder
	withTee(&out).apply(vm)

	for _, line := range vmt.lines {
		vm.tibBuf = []byte(line)
		vm.setVar(addrIn, 0)
		vm.setVar(addrNumTib, int64(len(line)))
		vm.eval()
	}
	require.NotEmpty(t, vm.dstack, "boom should have pushed before aborting")

	// Simulate what quit's recovery does on an aborted line: clear the
	// stacks and keep using the same dictionary.
	vm.dstack = vm.dstack[:0]
	vm.cstack = vm.cstack[:0]

	vm.tibBuf = []byte("9 9 + .")
	vm.setVar(addrIn, 0)
	vm.setVar(addrNumTib, int64(len(vm.tibBuf)))
	err = vm.eval()
	require.NoError(t, err)
	assert.Equal(t, "18 ", out.String())
}

func TestCompilerBranchOffsets(t *testing.T) {
	// "if ... then" with no else compiles: BRANCH0 <offset> ...body...
	// where the offset is the relative distance from the placeholder
	// cell to the first cell after the conditional.
	vm, err := newVM()
	require.NoError(t, err)
	defer vm.Close()

	src := ": w 0 > if 1 then ;"
	vm.tibBuf = []byte(src)
	vm.setVar(addrIn, 0)
	vm.setVar(addrNumTib, int64(len(src)))
	require.NoError(t, vm.eval())

	e, found := vm.find("w")
	require.True(t, found)
	body := xtOf(e) + 1 // past opDefinition
	// body+0: LITERAL 0  (2 cells)
	// body+2: xt(>)
	// body+3: BRANCH0 <ph>
	// body+5: LITERAL 1  (2 cells)
	// body+7: BREAK, and "then"'s patch target
	ph := body + 4
	off, _ := vm.cells.Load(ph)
	target := body + 7
	assert.Equal(t, int64(target)-int64(ph), off)
}
