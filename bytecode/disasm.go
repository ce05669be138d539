package bytecode

import (
	"fmt"
	"sort"
	"strings"
)

// Disassemble renders p in the textual form described by spec §6: for each
// function, its name, its literal pool, and its instructions with
// stack/literal-referencing opcodes pretty-printed with their resolved
// target.
func Disassemble(p Program) string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)

	var out strings.Builder
	for _, name := range names {
		DisassembleFunction(&out, name, p[name])
	}
	return out.String()
}

// DisassembleFunction writes the disassembly of a single function to out.
func DisassembleFunction(out *strings.Builder, name string, fn *FunctionImage) {
	fmt.Fprintf(out, "Function %q:\n", name)

	fmt.Fprintf(out, "Literals [%d]\n", len(fn.Literals))
	for i, lit := range fn.Literals {
		fmt.Fprintf(out, "  [%d] %s\n", i, lit.Inspect())
	}

	fmt.Fprintf(out, "Instructions [%d]\n", len(fn.Instructions))
	for i, ins := range fn.Instructions {
		fmt.Fprintf(out, "  [%d] %s\n", i, resolveInstruction(fn, ins))
	}
}

func resolveInstruction(fn *FunctionImage, ins Instruction) string {
	switch ins.Op {
	case LoadLiteral:
		if int(ins.Arg) < len(fn.Literals) {
			return fmt.Sprintf("%s %d (%s)", ins.Op, ins.Arg, fn.Literals[ins.Arg].Inspect())
		}
	case Jmp, Jf:
		return fmt.Sprintf("%s %d (-> %d)", ins.Op, ins.Arg, ins.Arg)
	case Store, Copy, Ret, Yield:
		return fmt.Sprintf("%s %d (from-top offset %d)", ins.Op, ins.Arg, ins.Arg)
	case Call:
		return fmt.Sprintf("%s %d (argc %d)", ins.Op, ins.Arg, ins.Arg)
	}
	return ins.String()
}
