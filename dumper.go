package main

import (
	"fmt"
	"io"
)

// vmDumper prints a human-readable snapshot of a VM's dictionary and
// stacks, for the -dump flag, adapted from the stack/memory dump the
// teacher interpreter prints for its own flat memory model.
type vmDumper struct {
	vm  *VM
	out io.Writer
}

func (d vmDumper) dump() {
	fmt.Fprintf(d.out, "# VM Dump\n")
	fmt.Fprintf(d.out, "  here: %v  s-here: %v  state: %v  base: %v\n",
		d.vm.here(), d.vm.getVar(addrSHere), d.vm.state(), d.vm.base())
	fmt.Fprintf(d.out, "  data: %v\n", d.vm.dstack)
	fmt.Fprintf(d.out, "  ret:  %v\n", d.vm.rstack)
	fmt.Fprintf(d.out, "  ctrl: %v\n", d.vm.cstack)
	d.dumpDictionary()
}

func (d vmDumper) dumpDictionary() {
	fmt.Fprintf(d.out, "  dictionary:\n")
	for e := d.vm.context(); e != 0; {
		name := d.vm.entryName(e)
		cfa := d.vm.entryCFA(e)
		imm := ""
		if d.vm.entryImmediate(e) {
			imm = " immediate"
		}
		kind := cfaKind(cfa)
		fmt.Fprintf(d.out, "    @%-6v %-16q %v%v\n", e, name, kind, imm)

		bp, err := d.vm.cells.Load(e + entryBP)
		if err != nil || bp == 0 {
			break
		}
		e = uint(bp)
	}
}

func cfaKind(cfa int64) string {
	if isBuiltinCell(cfa) {
		return fmt.Sprintf("builtin#%v", cellAddress(cfa))
	}
	if name := opcodeName(cfa); name != "" {
		return name
	}
	return fmt.Sprintf("call @%v", cfa)
}
