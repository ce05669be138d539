package compiler

// targetKind identifies what a shadow-stack slot represents at compile
// time (spec §3, "Compiler-side shadow stack").
type targetKind int

const (
	// Temp is an anonymous intermediate value with no name.
	Temp targetKind = iota

	// Literal is a constant still sitting on the stack after LoadLiteral.
	Literal

	// Local is a named binding; never duplicated on the shadow stack.
	Local
)

// target is the compiler's model of one runtime stack slot.
type target struct {
	kind   targetKind
	litIdx uint8  // meaningful when kind == Literal
	name   string // meaningful when kind == Local
}
