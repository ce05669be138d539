package compiler

import (
	"lull/bytecode"
	"lull/value"
)

// funcBuilder accumulates one function's literal pool, instruction stream,
// shadow stack, and loop nesting while the compiler lowers its body.
type funcBuilder struct {
	args         []string
	literals     []value.Value
	instructions []bytecode.Instruction
	shadow       []target
	loops        []*LoopFrame
}

// newFuncBuilder starts a fresh function whose shadow stack is seeded with
// its parameters as Local bindings, in declaration order (spec §4.2).
func newFuncBuilder(args []string) *funcBuilder {
	fb := &funcBuilder{args: append([]string(nil), args...)}
	for _, a := range args {
		fb.shadow = append(fb.shadow, target{kind: Local, name: a})
	}
	return fb
}

func (fb *funcBuilder) depth() int { return len(fb.shadow) }

func (fb *funcBuilder) push(t target) int {
	fb.shadow = append(fb.shadow, t)
	return len(fb.shadow) - 1
}

func (fb *funcBuilder) emit(op bytecode.Opcode, arg uint8) int {
	fb.instructions = append(fb.instructions, bytecode.Instruction{Op: op, Arg: arg})
	return len(fb.instructions) - 1
}

func (fb *funcBuilder) patch(ip int, arg uint8) {
	fb.instructions[ip].Arg = fb.u8(int(arg), "patch target")
}

// u8 narrows v to the instruction set's 8-bit immediates, raising a
// compiler bug if it doesn't fit (spec's "deliberate simplicity
// constraint": 256 instructions/literals/stack slots per function).
func (fb *funcBuilder) u8(v int, what string) uint8 {
	if v < 0 || v > 255 {
		compileBug(fb, "%s out of 8-bit range: %d", what, v)
	}
	return uint8(v)
}

// offsetOf converts an absolute shadow-stack index into the from-top
// offset Copy/Ret/Yield address it by, measured against the CURRENT (not
// yet mutated) shadow stack.
func (fb *funcBuilder) offsetOf(idx int) uint8 {
	return fb.u8(fb.depth()-1-idx, "stack offset")
}

func (fb *funcBuilder) findLocal(name string) (int, bool) {
	for i := len(fb.shadow) - 1; i >= 0; i-- {
		if fb.shadow[i].kind == Local && fb.shadow[i].name == name {
			return i, true
		}
	}
	return 0, false
}

// internLiteral finds or adds v to the function's constant pool, linearly
// scanning for structural equality (spec §4.2: "linear dedup by structural
// equality") so that e.g. compiling `1 + 1 + 1` emits one literal, not
// three (spec §8).
func (fb *funcBuilder) internLiteral(v value.Value) uint8 {
	for i, lit := range fb.literals {
		if value.Equal(lit, v) {
			return uint8(i)
		}
	}
	if len(fb.literals) >= 256 {
		compileBug(fb, "literal pool overflow: more than 256 distinct literals")
	}
	fb.literals = append(fb.literals, v)
	return uint8(len(fb.literals) - 1)
}

// coerceToHeight reconciles the shadow stack to height h after a
// sub-lowering (an if-branch, a call) may have left it too tall or too
// short (spec §4.2, "the coerce to height h operation").
func (fb *funcBuilder) coerceToHeight(h int) {
	if cur := fb.depth(); cur > h {
		offset := fb.u8((cur-1)-1-(h-1), "coerce store offset")
		fb.emit(bytecode.Store, offset)
		fb.shadow = fb.shadow[:cur-1]
		fb.shadow[h-1] = target{kind: Temp}
		if pop := fb.depth() - h; pop > 0 {
			fb.emit(bytecode.Pop, fb.u8(pop, "coerce pop count"))
			fb.shadow = fb.shadow[:h]
		}
	}
	for fb.depth() < h {
		fb.emit(bytecode.Copy, 0)
		fb.push(target{kind: Temp})
	}
}

func (fb *funcBuilder) image() *bytecode.FunctionImage {
	return &bytecode.FunctionImage{
		Args:         fb.args,
		Literals:     fb.literals,
		Instructions: fb.instructions,
	}
}
