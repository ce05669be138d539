package compiler

import (
	"fmt"

	"lull/ast"
	"lull/bytecode"
	"lull/value"
)

func (cc *compilation) lowerStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.VarStatement:
		return cc.lowerVar(s)
	case *ast.AssignStatement:
		return cc.lowerAssign(s)
	case *ast.ForStatement:
		return cc.lowerFor(s)
	case *ast.BreakStatement:
		return cc.lowerBreak(s)
	case *ast.ContinueStatement:
		return cc.lowerContinue(s)
	case *ast.ReturnStatement:
		return cc.lowerReturn(s)
	case *ast.YieldStatement:
		return cc.lowerYield(s)
	case *ast.FunctionStatement:
		return cc.lowerFunction(s)
	case *ast.ExpressionStatement:
		return cc.lowerExpressionStatement(s)
	default:
		return fmt.Errorf("compiler: unsupported statement %T", stmt)
	}
}

// lowerExpressionStatement lowers an expression purely for effect (e.g. a
// bare `print(x);` call) and discards whatever it left behind — a value
// lowering can leave several slots (its result plus any operand
// temporaries), all removed with one Pop; a bare identifier reference
// leaves none (spec's ExpressionStatement, grounded in the teacher's own
// "lower then Pop" compile rule).
func (cc *compilation) lowerExpressionStatement(es *ast.ExpressionStatement) error {
	fb := cc.fb
	pre := fb.depth()
	if _, err := cc.lowerExpression(es.Expression); err != nil {
		return err
	}
	if extra := fb.depth() - pre; extra > 0 {
		fb.emit(bytecode.Pop, fb.u8(extra, "expression-statement pop count"))
		fb.shadow = fb.shadow[:pre]
	}
	return nil
}

// lowerVar lowers `var NAME = expr;`. If the expression's value is a
// borrowed Local, it is Copy'd to a fresh Temp first so the new binding
// owns its own slot rather than aliasing an existing name (spec §4.2).
// Temp/Literal results are already fresh and can be rebound in place.
func (cc *compilation) lowerVar(vs *ast.VarStatement) error {
	fb := cc.fb
	k, err := cc.lowerExpression(vs.Value)
	if err != nil {
		return err
	}
	idx := k
	if fb.shadow[k].kind == Local {
		fb.emit(bytecode.Copy, fb.offsetOf(k))
		idx = fb.push(target{kind: Temp})
	}
	fb.shadow[idx] = target{kind: Local, name: vs.Name}
	return nil
}

// lowerAssign lowers `NAME = expr;`: the result is always Copy'd (even if
// already fresh) and then Store'd into the existing binding's slot
// (spec §4.2).
func (cc *compilation) lowerAssign(as *ast.AssignStatement) error {
	fb := cc.fb
	localIdx, ok := fb.findLocal(as.Name)
	if !ok {
		return &CompileError{Msg: fmt.Sprintf("assignment to unbound variable %q", as.Name)}
	}
	k, err := cc.lowerExpression(as.Value)
	if err != nil {
		return err
	}
	fb.emit(bytecode.Copy, fb.offsetOf(k))
	fb.push(target{kind: Temp})

	postPopDepth := fb.depth() - 1
	offset := fb.u8(postPopDepth-1-localIdx, "assignment store offset")
	fb.emit(bytecode.Store, offset)
	fb.shadow = fb.shadow[:fb.depth()-1]
	return nil
}

// lowerReturn lowers `return expr;`: Copy the result to tos, then Ret
// offset 0 (spec §4.2).
func (cc *compilation) lowerReturn(rs *ast.ReturnStatement) error {
	fb := cc.fb
	k, err := cc.lowerExpression(rs.Value)
	if err != nil {
		return err
	}
	fb.emit(bytecode.Copy, fb.offsetOf(k))
	fb.push(target{kind: Temp})
	fb.emit(bytecode.Ret, 0)
	fb.shadow = fb.shadow[:fb.depth()-1]
	return nil
}

// lowerYield lowers `yield expr;`: Copy the result to tos, then Yield
// offset 0; the VM pops the yielded value (spec §4.2, §4.5).
func (cc *compilation) lowerYield(ys *ast.YieldStatement) error {
	fb := cc.fb
	k, err := cc.lowerExpression(ys.Value)
	if err != nil {
		return err
	}
	fb.emit(bytecode.Copy, fb.offsetOf(k))
	fb.push(target{kind: Temp})
	fb.emit(bytecode.Yield, 0)
	fb.shadow = fb.shadow[:fb.depth()-1]
	return nil
}

// lowerBreak pops the shadow stack down to the enclosing loop's start+1
// (keeping the loop variable, consistent with the normal loop-exit
// fallthrough path), then emits a placeholder Jmp recorded for fixup once
// the after-loop address is known (spec §4.2, §9).
func (cc *compilation) lowerBreak(_ *ast.BreakStatement) error {
	fb := cc.fb
	if len(fb.loops) == 0 {
		return &CompileError{Msg: "break outside loop"}
	}
	loop := fb.loops[len(fb.loops)-1]
	cc.popToLoopStart(loop)
	ip := fb.emit(bytecode.Jmp, 0)
	loop.breakIPs = append(loop.breakIPs, ip)
	return nil
}

// lowerContinue pops to the loop start like break, then emits a
// placeholder Dup (re-inflates the stack to the shape the per-iteration
// increment code expects) followed by a placeholder Jmp to the continue
// landing pad, both patched once the loop body's final height is known
// (spec §4.2, §9).
func (cc *compilation) lowerContinue(_ *ast.ContinueStatement) error {
	fb := cc.fb
	if len(fb.loops) == 0 {
		return &CompileError{Msg: "continue outside loop"}
	}
	loop := fb.loops[len(fb.loops)-1]
	cc.popToLoopStart(loop)
	depthAtContinue := fb.depth()
	dupIP := fb.emit(bytecode.Dup, 0)
	jmpIP := fb.emit(bytecode.Jmp, 0)
	loop.continueIPs = append(loop.continueIPs, continueFixup{dupIP: dupIP, jmpIP: jmpIP, depth: depthAtContinue})
	return nil
}

func (cc *compilation) popToLoopStart(loop *LoopFrame) {
	fb := cc.fb
	if pop := fb.depth() - (loop.start + 1); pop > 0 {
		fb.emit(bytecode.Pop, fb.u8(pop, "break/continue pop count"))
		fb.shadow = fb.shadow[:loop.start+1]
	}
}

// lowerFor lowers `for V in START to END { body }` exactly per spec §4.2:
// START and END are each lowered once, ahead of the loop, and kept alive on
// the shadow stack for the loop's lifetime; V is a Copy of START relabeled
// as a Local. The exit check, body, continue-fixup, and per-iteration
// increment follow the spec's instruction sequence verbatim.
func (cc *compilation) lowerFor(fs *ast.ForStatement) error {
	fb := cc.fb

	sIdx, err := cc.lowerExpression(fs.Start)
	if err != nil {
		return err
	}
	eIdx, err := cc.lowerExpression(fs.End)
	if err != nil {
		return err
	}

	fb.emit(bytecode.Copy, fb.offsetOf(sIdx))
	vIdx := fb.push(target{kind: Temp})
	fb.shadow[vIdx] = target{kind: Local, name: fs.Var}

	checkExitIP := len(fb.instructions)
	fb.emit(bytecode.Copy, fb.offsetOf(vIdx))
	fb.push(target{kind: Temp})
	fb.emit(bytecode.Copy, fb.offsetOf(eIdx))
	fb.push(target{kind: Temp})
	fb.emit(bytecode.Lt, 0)
	fb.shadow = fb.shadow[:fb.depth()-2]
	fb.push(target{kind: Temp})
	jfIP := fb.emit(bytecode.Jf, 0)
	fb.shadow = fb.shadow[:fb.depth()-1]

	loop := &LoopFrame{start: vIdx}
	fb.loops = append(fb.loops, loop)

	for _, s := range fs.Body.Statements {
		if err := cc.lowerStatement(s); err != nil {
			return err
		}
	}

	h0 := fb.depth()
	landingIP := len(fb.instructions)
	for _, cf := range loop.continueIPs {
		fb.patch(cf.dupIP, fb.u8(h0-cf.depth, "continue fixup"))
		fb.patch(cf.jmpIP, fb.u8(landingIP, "continue jump target"))
	}

	fb.emit(bytecode.Copy, fb.offsetOf(vIdx))
	fb.push(target{kind: Temp})
	lit1 := fb.internLiteral(value.Float64(1))
	fb.emit(bytecode.LoadLiteral, lit1)
	fb.push(target{kind: Literal, litIdx: lit1})
	fb.emit(bytecode.Add, 0)
	fb.shadow = fb.shadow[:fb.depth()-2]
	fb.push(target{kind: Temp})

	postPopDepth := fb.depth() - 1
	storeOffset := fb.u8(postPopDepth-1-vIdx, "loop increment store offset")
	fb.emit(bytecode.Store, storeOffset)
	fb.shadow = fb.shadow[:fb.depth()-1]

	if pop := fb.depth() - (vIdx + 1); pop > 0 {
		fb.emit(bytecode.Pop, fb.u8(pop, "loop-iteration pop count"))
		fb.shadow = fb.shadow[:vIdx+1]
	}
	fb.emit(bytecode.Jmp, fb.u8(checkExitIP, "loop back-edge target"))

	afterLoopIP := len(fb.instructions)
	fb.patch(jfIP, fb.u8(afterLoopIP, "loop exit target"))
	for _, bip := range loop.breakIPs {
		fb.patch(bip, fb.u8(afterLoopIP, "break target"))
	}

	fb.loops = fb.loops[:len(fb.loops)-1]
	return nil
}

// lowerFunction compiles `fn NAME(args) [-> TYPE] { body }` into a fresh
// FunctionImage registered under NAME: the statement itself emits nothing
// at its definition point (spec §4.2). The body's tail expression, if any,
// is explicitly Copy'd to tos and returned with Ret 0 — mirroring
// lowerReturn — rather than left to the VM's end-of-code implicit Ret 0,
// since a bare-identifier tail expression lowers to an existing Local's
// index, not necessarily tos (e.g. `fn first(a, b) { a }` leaves `a` one
// slot below `b`).
func (cc *compilation) lowerFunction(fs *ast.FunctionStatement) error {
	argNames := make([]string, len(fs.Parameters))
	for i, p := range fs.Parameters {
		argNames[i] = p.Name
	}

	saved := cc.fb
	cc.fb = newFuncBuilder(argNames)
	fb := cc.fb

	for _, s := range fs.Body.Statements {
		if err := cc.lowerStatement(s); err != nil {
			return err
		}
	}
	if fs.Body.TailExpr != nil {
		idx, err := cc.lowerExpression(fs.Body.TailExpr)
		if err != nil {
			return err
		}
		fb.emit(bytecode.Copy, fb.offsetOf(idx))
		fb.push(target{kind: Temp})
		fb.emit(bytecode.Ret, 0)
		fb.shadow = fb.shadow[:fb.depth()-1]
	}

	cc.prog[fs.Name] = fb.image()
	cc.fb = saved
	return nil
}
