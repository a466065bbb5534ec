/* Command thirdvm implements a minimal Forth-like system core.

The engine is built from five pieces:

Cell Store (CS): a paged array of signed 64-bit cells, the address
space of the dictionary and the user's own variables and arrays. The
lowest addresses are reserved for a handful of control variables
(here, s-here, state, base, >in, #tib, context, last, the stepper
settings) and the PAD and TMP scratch buffers; the dictionary starts
right after them, and everything at or above `here` is free space,
claimed as the dictionary grows. The data, return and compiler control
stacks are Go slices held by the VM, not Cell Store regions, and the
TIB is a Go byte slice.

String Store (SS): a flat byte arena of counted strings -- dictionary
names, string literals compiled by `."`/`abort"`, and whatever else
needs a name rather than a number.

Builtin Table (BT): every host primitive is registered once, in order,
and given a dictionary entry whose code field carries BUILTIN_FLAG and
its table index. Looking one up is exactly like looking up a
user-defined word: a dictionary walk.

Inner Interpreter (II): a threaded-code stepper. It never recurses in
Go; instead it walks a chain of cells, calling through the return stack
the same way the source language's own call frames would. A bare
address cell means "call whatever's at that address"; the handful of
reserved opcode values (VARIABLE, CONSTANT, LITERAL, BRANCH, ...) cover
everything else.

Outer Interpreter / Compiler (OIC): reads a line into TIB, then repeatedly
pulls a blank-delimited token and either executes it (interpreting) or
compiles a call to it (compiling), falling back to number conversion
when the token isn't a dictionary word. Control-flow words like
`if`/`else`/`then` are themselves dictionary entries, marked immediate
so they run at compile time regardless of `state`, patching BRANCH and
BRANCH0 placeholders on a separate compile-time marker stack.

There is no bytecode-from-source bootstrap file: the control-flow
vocabulary, the defining words (`:`, `;`, `variable`, `constant`,
`create`), and everything else a traditional Forth would load from a
kernel source file are native Go builtins here, registered the same way
as `+` or `dup`.
*/
package main
