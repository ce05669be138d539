// Package bytecode defines the instruction set, the in-memory bytecode
// image, and its length-prefixed binary container format.
//
// A Program is a map from function name to FunctionImage, each a triple of
// {args, literals, instructions}. The format is the contract between the
// compiler and the virtual machine: the two never share live objects,
// only a Program value (or its serialized bytes).
package bytecode

import "fmt"

// Opcode is one of the 15 bytecode instructions the compiler emits and the
// virtual machine dispatches. Every instruction is a fixed-size pair of an
// Opcode and a single 8-bit immediate whose meaning depends on the opcode
// (spec §4.1).
type Opcode byte

const (
	// LoadLiteral pushes literals[a].
	LoadLiteral Opcode = iota

	// Store pops tos and overwrites the slot at from-top offset a with it.
	Store

	// Copy pushes a clone of the slot at from-top offset a.
	Copy

	// Dup clones the current tos a additional times (net effect: +a).
	Dup

	// Add pops rhs, pops lhs, pushes lhs+rhs.
	Add

	// Sub pops rhs, pops lhs, pushes lhs-rhs.
	Sub

	// Mul pops rhs, pops lhs, pushes lhs*rhs.
	Mul

	// Div pops rhs, pops lhs, pushes lhs/rhs.
	Div

	// Lt pops rhs, pops lhs, pushes 1 if lhs<rhs else 0.
	Lt

	// Call treats the slot at from-top offset a as the callee name (a
	// string); the a slots above it are the arguments.
	Call

	// Jmp sets ip to the absolute instruction index a.
	Jmp

	// Jf pops tos; if it coerces to 0.0, sets ip to the absolute index a.
	Jf

	// Pop discards a values from tos.
	Pop

	// Ret returns the slot at from-top offset a from the current frame.
	Ret

	// Yield surfaces the slot at from-top offset a to the host and
	// suspends execution.
	Yield
)

var opcodeNames = [...]string{
	LoadLiteral: "LoadLiteral",
	Store:       "Store",
	Copy:        "Copy",
	Dup:         "Dup",
	Add:         "Add",
	Sub:         "Sub",
	Mul:         "Mul",
	Div:         "Div",
	Lt:          "Lt",
	Call:        "Call",
	Jmp:         "Jmp",
	Jf:          "Jf",
	Pop:         "Pop",
	Ret:         "Ret",
	Yield:       "Yield",
}

// String returns the opcode's mnemonic, or "?unknown?" for an out-of-range
// value.
func (op Opcode) String() string {
	if int(op) < 0 || int(op) >= len(opcodeNames) {
		return "?unknown?"
	}
	return opcodeNames[op]
}

// Valid reports whether op is one of the 15 defined opcodes.
func (op Opcode) Valid() bool {
	return int(op) < len(opcodeNames)
}

// Instruction is a single fixed-size {opcode, immediate} pair.
type Instruction struct {
	Op  Opcode
	Arg uint8
}

// String formats an instruction as "OPCODE arg".
func (ins Instruction) String() string {
	return fmt.Sprintf("%s %d", ins.Op, ins.Arg)
}
