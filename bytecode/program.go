package bytecode

import (
	"fmt"

	"lull/value"
)

// FunctionImage is the compiled form of one function: its parameter names,
// its constant pool, and its instruction stream (spec §3).
type FunctionImage struct {
	// Args holds parameter names in declaration order. Only the count
	// matters at runtime; names are retained for disassembly.
	Args []string

	// Literals is the function's constant pool, referenced by LoadLiteral.
	Literals []value.Value

	// Instructions is the function's code.
	Instructions []Instruction
}

// NumArgs returns the number of parameters the function declares.
func (f *FunctionImage) NumArgs() int { return len(f.Args) }

// Program maps function name to its compiled image. A well-formed program
// contains an entry named "main" with zero parameters (spec §3).
type Program map[string]*FunctionImage

// Validate checks that the program has a zero-parameter "main" and the
// structural invariants spec §8 lists as testable properties 1 and 2:
// every jump target and literal index is in range. It also rejects
// undefined opcodes. Ret/Yield offsets (property 5) and stack depths are
// not checked.
func (p Program) Validate() error {
	main, ok := p["main"]
	if !ok {
		return fmt.Errorf("program has no entry point named %q", "main")
	}
	if main.NumArgs() != 0 {
		return fmt.Errorf("entry point %q must take zero parameters, got %d", "main", main.NumArgs())
	}
	for name, fn := range p {
		for i, ins := range fn.Instructions {
			switch ins.Op {
			case Jmp, Jf:
				if int(ins.Arg) >= len(fn.Instructions) {
					return fmt.Errorf("function %q: instruction %d: jump target %d out of range", name, i, ins.Arg)
				}
			case LoadLiteral:
				if int(ins.Arg) >= len(fn.Literals) {
					return fmt.Errorf("function %q: instruction %d: literal index %d out of range", name, i, ins.Arg)
				}
			}
			if !ins.Op.Valid() {
				return fmt.Errorf("function %q: instruction %d: unknown opcode %d", name, i, ins.Op)
			}
		}
	}
	return nil
}
