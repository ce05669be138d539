package vm

import (
	"lull/bytecode"
	"lull/value"
)

// Frame is a single executing invocation: a reference to its compiled
// function, a value stack seeded with its argument values in call order,
// and an instruction pointer (spec §3, "Runtime call frame").
type Frame struct {
	fn    *bytecode.FunctionImage
	stack []value.Value
	ip    int
}

func newFrame(fn *bytecode.FunctionImage, args []value.Value) *Frame {
	stack := make([]value.Value, len(args))
	copy(stack, args)
	return &Frame{fn: fn, stack: stack, ip: 0}
}
