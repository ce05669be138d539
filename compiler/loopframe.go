package compiler

// continueFixup is one recorded `continue`: the instruction index of its
// placeholder Dup, and the shadow-stack depth at the point it was emitted
// (needed to compute how many slots the Dup must re-inflate once the loop
// body's final height is known).
type continueFixup struct {
	dupIP int
	jmpIP int
	depth int
}

// LoopFrame is the compiler's bookkeeping for one enclosing for-loop: where
// its loop variable lives on the shadow stack, and which emitted jumps
// still need their target patched in once it becomes known (spec §3).
type LoopFrame struct {
	start       int // shadow-stack index of the loop variable V
	breakIPs    []int
	continueIPs []continueFixup
}
