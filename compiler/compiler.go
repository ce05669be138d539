// Package compiler lowers a lull AST into a bytecode.Program.
//
// The compiler is a single pass over statements and expressions. For each
// function (including a synthesized "main" for top-level code) it tracks a
// *shadow stack* — a compile-time model of the runtime stack — so that
// every Copy/Store/Ret/Yield it emits addresses the correct slot by the
// time the virtual machine actually executes it (spec §4.2).
package compiler

import (
	"fmt"

	"lull/ast"
	"lull/bytecode"
	"lull/value"
)

// compilation holds the state threaded through one Compile call: the
// program being assembled and the function currently being lowered.
type compilation struct {
	prog bytecode.Program
	fb   *funcBuilder
}

// Compiler lowers ASTs to bytecode.Program values. It holds no state
// between calls to Compile.
type Compiler struct{}

// New returns a ready-to-use Compiler.
func New() *Compiler { return &Compiler{} }

// Compile lowers prog's top-level statements into a function named "main"
// plus one FunctionImage per `fn` statement encountered along the way
// (spec §4.2, "Entry point"). A shadow-stack-underflow bug recovers into a
// returned error carrying a disassembly dump of the partial function (spec
// §7); unbound variables and misplaced break/continue are returned as
// ordinary *CompileError values without needing to unwind a panic.
//
// "main" always ends with an explicit Ret 0, preceded by a LoadLiteral of
// 0.0 when the top-level statements leave the stack empty, so a jump to
// the end of main lands on a real instruction and main always has a value
// to return.
func (c *Compiler) Compile(program *ast.Program) (out bytecode.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			bug, ok := r.(bugPanic)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("internal compiler error: %s\n%s", bug.msg, bug.dump)
			out = nil
		}
	}()

	cc := &compilation{prog: bytecode.Program{}, fb: newFuncBuilder(nil)}
	for _, stmt := range program.Statements {
		if err := cc.lowerStatement(stmt); err != nil {
			return nil, err
		}
	}
	fb := cc.fb
	if fb.depth() == 0 {
		lit := fb.internLiteral(value.Float64(0))
		fb.emit(bytecode.LoadLiteral, lit)
		fb.push(target{kind: Literal, litIdx: lit})
	}
	fb.emit(bytecode.Ret, 0)
	cc.prog["main"] = fb.image()
	return cc.prog, nil
}
