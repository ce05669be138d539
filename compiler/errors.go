package compiler

import (
	"fmt"
	"strings"

	"lull/bytecode"
)

// CompileError is a user-facing compile error: an unbound variable or a
// break/continue used outside a loop (spec §7, "Compile errors").
type CompileError struct {
	Msg string
}

func (e *CompileError) Error() string { return e.Msg }

// bugPanic is raised for conditions that indicate a bug in the compiler
// itself, never in the source program — most commonly a shadow-stack
// offset that doesn't fit the instruction set's 8-bit immediates. Compile
// recovers it at the top level and turns it into a returned error carrying
// a disassembly dump of the function under construction (spec §7).
type bugPanic struct {
	msg  string
	dump string
}

// compileBug panics with a diagnostic dump of fb's partial instruction
// stream. It is a programming-error escape hatch, not a reportable source
// error.
func compileBug(fb *funcBuilder, format string, args ...any) {
	var out strings.Builder
	bytecode.DisassembleFunction(&out, "<partial>", fb.image())
	panic(bugPanic{
		msg:  fmt.Sprintf(format, args...),
		dump: out.String(),
	})
}
