package main

import (
	"fmt"
	"io"
)

// outer.go implements the Outer Interpreter / Compiler (OIC): quit reads
// a line into TIB and calls eval; eval tokenizes blank-delimited words,
// searching the dictionary and falling back to numeric conversion,
// either executing or compiling each as dictated by `state`.

// tib holds the raw bytes of the line currently being scanned; #tib and
// >in (both CS-resident) index into it.
func (vm *VM) tib() []byte { return vm.tibBuf }

// readLine pulls one line of input (up to and not including '\n') from
// the current input source into TIB, resetting >in to 0. Returns io.EOF
// once every queued source is exhausted.
func (vm *VM) readLine() error {
	vm.tibBuf = vm.tibBuf[:0]
	any := false
	for {
		b, err := vm.in.ReadByte()
		if err != nil {
			if err == io.EOF {
				if any {
					break
				}
				return io.EOF
			}
			return ioErrorf("reading input: %v", err)
		}
		any = true
		if b == '\n' {
			break
		}
		vm.tibBuf = append(vm.tibBuf, b)
	}
	vm.setVar(addrIn, 0)
	vm.setVar(addrNumTib, int64(len(vm.tibBuf)))
	return nil
}

// nextToken extracts the next blank-delimited token starting at >in,
// advancing >in to the end of it (>in is left on the trailing blank, if
// any). Returns ("", false) once >in reaches #tib.
func (vm *VM) nextToken() (string, bool) {
	tib := vm.tibBuf
	pos := int(vm.getVar(addrIn))
	n := int(vm.getVar(addrNumTib))
	if n > len(tib) {
		n = len(tib)
	}

	for pos < n && isBlank(tib[pos]) {
		pos++
	}
	if pos >= n {
		vm.setVar(addrIn, int64(pos))
		return "", false
	}
	start := pos
	for pos < n && !isBlank(tib[pos]) {
		pos++
	}
	tok := string(tib[start:pos])
	vm.setVar(addrIn, int64(pos))
	return tok, true
}

func isBlank(b byte) bool { return b == ' ' || b == '\t' || b == '\r' }

// parseNumber converts tok using the current base: an
// optional leading '-', then digits valid in base (0-9, then A-Z
// case-insensitively for base > 10).
func (vm *VM) parseNumber(tok string) (int64, bool) {
	if tok == "" {
		return 0, false
	}
	neg := false
	s := tok
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}

	base := vm.base()
	var v int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		var d int64
		switch {
		case c >= '0' && c <= '9':
			d = int64(c - '0')
		case c >= 'a' && c <= 'z':
			d = int64(c-'a') + 10
		case c >= 'A' && c <= 'Z':
			d = int64(c-'A') + 10
		default:
			return 0, false
		}
		if d >= base {
			return 0, false
		}
		v = v*base + d
	}
	if neg {
		v = -v
	}
	return v, true
}

// eval drains the current TIB, interpreting or compiling each token in
// turn, until >in reaches #tib.
func (vm *VM) eval() error {
	for {
		tok, ok := vm.nextToken()
		if !ok {
			return nil
		}
		if err := vm.evalToken(tok); err != nil {
			return err
		}
	}
}

func (vm *VM) evalToken(tok string) error {
	entry, found := vm.find(tok)

	if !vm.compiling() {
		if found {
			return vm.execute(xtOf(entry))
		}
		if n, ok := vm.parseNumber(tok); ok {
			vm.dpush(n)
			return nil
		}
		return userAbortf("%v not found", tok)
	}

	// Compiling.
	if found {
		if vm.entryImmediate(entry) {
			return vm.execute(xtOf(entry))
		}
		return vm.comma(int64(xtOf(entry)))
	}
	if n, ok := vm.parseNumber(tok); ok {
		if err := vm.comma(opLiteral); err != nil {
			return err
		}
		return vm.comma(n)
	}
	return userAbortf("%v not found", tok)
}

// quit is the top level REPL: print " ok ", read a line, eval it;
// on a non-fatal error it reports and clears the stacks before looping,
// just as io.EOF propagates out to end the session.
func (vm *VM) quit() error {
	for {
		if err := vm.readLine(); err != nil {
			return err
		}
		err := vm.eval()
		if err != nil {
			if isFatal(err) {
				return err
			}
			vm.reportError(err)
			vm.dstack = vm.dstack[:0]
			vm.cstack = vm.cstack[:0]
			continue
		}
		fmt.Fprint(vm.out, " ok ")
		vm.out.Flush()
	}
}

func (vm *VM) reportError(err error) {
	fmt.Fprintf(vm.out, "%v\n", err)
	vm.out.Flush()
}

// isFatal reports whether err should unwind quit entirely, rather than
// being reported and recovered from at the top level.
func isFatal(err error) bool {
	if err == io.EOF {
		return true
	}
	type unwrapper interface{ Unwrap() error }
	for e := err; e != nil; {
		if e == io.EOF {
			return true
		}
		u, ok := e.(unwrapper)
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return false
}

// scanUntil is a small helper used by several builtins (abort", .")
// to read a run of tokens up to a delimiter rune from the current line.
func (vm *VM) scanUntil(delim byte) string {
	tib := vm.tibBuf
	pos := int(vm.getVar(addrIn))
	n := int(vm.getVar(addrNumTib))
	if n > len(tib) {
		n = len(tib)
	}
	if pos < n && tib[pos] == delim {
		pos++
	}
	start := pos
	for pos < n && tib[pos] != delim {
		pos++
	}
	s := string(tib[start:pos])
	if pos < n {
		pos++
	}
	vm.setVar(addrIn, int64(pos))
	return s
}
