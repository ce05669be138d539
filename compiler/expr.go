package compiler

import (
	"fmt"

	"lull/ast"
	"lull/bytecode"
	"lull/value"
)

// lowerExpression lowers expr and returns the shadow-stack index of the
// slot holding its value. Most rules push a fresh value and so always
// return depth()-1; an Identifier is the one exception — it returns the
// index of the existing binding without touching the stack, leaving the
// caller to decide whether a copy is needed (spec §4.2).
func (cc *compilation) lowerExpression(expr ast.Expression) (int, error) {
	fb := cc.fb
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		lit := fb.internLiteral(value.Int64(e.Value))
		fb.emit(bytecode.LoadLiteral, lit)
		return fb.push(target{kind: Literal, litIdx: lit}), nil

	case *ast.FloatLiteral:
		lit := fb.internLiteral(value.Float64(e.Value))
		fb.emit(bytecode.LoadLiteral, lit)
		return fb.push(target{kind: Literal, litIdx: lit}), nil

	case *ast.StringLiteral:
		lit := fb.internLiteral(value.String(e.Value))
		fb.emit(bytecode.LoadLiteral, lit)
		return fb.push(target{kind: Literal, litIdx: lit}), nil

	case *ast.Identifier:
		idx, ok := fb.findLocal(e.Value)
		if !ok {
			return 0, &CompileError{Msg: fmt.Sprintf("unbound variable %q", e.Value)}
		}
		return idx, nil

	case *ast.InfixExpression:
		return cc.lowerInfix(e)

	case *ast.CallExpression:
		return cc.lowerCall(e)

	case *ast.IfExpression:
		return cc.lowerIf(e)

	default:
		return 0, fmt.Errorf("compiler: unsupported expression %T", expr)
	}
}

// lowerInfix lowers a binary operator. Both operands are recursively
// lowered first, then each is explicitly Copy'd onto tos so the operator
// consumes duplicates and never the originals — operands may be named
// locals still needed afterward (spec §9, "Shadow-stack vs real stack").
// Only Lt is an opcode; `a > b` lowers as `Lt(b, a)` (spec §4.2, §9).
func (cc *compilation) lowerInfix(ie *ast.InfixExpression) (int, error) {
	fb := cc.fb
	lIdx, err := cc.lowerExpression(ie.Left)
	if err != nil {
		return 0, err
	}
	rIdx, err := cc.lowerExpression(ie.Right)
	if err != nil {
		return 0, err
	}

	var op bytecode.Opcode
	first, second := lIdx, rIdx
	switch ie.Operator {
	case "+":
		op = bytecode.Add
	case "-":
		op = bytecode.Sub
	case "*":
		op = bytecode.Mul
	case "/":
		op = bytecode.Div
	case "<":
		op = bytecode.Lt
	case ">":
		op = bytecode.Lt
		first, second = rIdx, lIdx
	default:
		return 0, fmt.Errorf("compiler: unsupported operator %q", ie.Operator)
	}

	fb.emit(bytecode.Copy, fb.offsetOf(first))
	fb.push(target{kind: Temp})
	fb.emit(bytecode.Copy, fb.offsetOf(second))
	fb.push(target{kind: Temp})
	fb.emit(op, 0)
	fb.shadow = fb.shadow[:fb.depth()-2]
	return fb.push(target{kind: Temp}), nil
}

// lowerCall lowers every argument first, then pushes the callee name as a
// literal and Copy's each argument value onto tos above it, so the name
// and the argc arguments are contiguous whatever temporaries the argument
// lowerings left behind. It then emits Call and coerces the shadow stack
// back to pre-call height + 1: Call replaces the name slot and the argc
// argument slots with a single result (spec §4.2, §4.5).
func (cc *compilation) lowerCall(ce *ast.CallExpression) (int, error) {
	fb := cc.fb
	preHeight := fb.depth()

	argIdx := make([]int, len(ce.Arguments))
	for i, arg := range ce.Arguments {
		aIdx, err := cc.lowerExpression(arg)
		if err != nil {
			return 0, err
		}
		argIdx[i] = aIdx
	}
	preCall := fb.depth()

	lit := fb.internLiteral(value.String(ce.Function))
	fb.emit(bytecode.LoadLiteral, lit)
	fb.push(target{kind: Literal, litIdx: lit})
	for _, aIdx := range argIdx {
		fb.emit(bytecode.Copy, fb.offsetOf(aIdx))
		fb.push(target{kind: Temp})
	}

	fb.emit(bytecode.Call, fb.u8(len(ce.Arguments), "call argc"))
	fb.shadow = fb.shadow[:preCall]
	fb.push(target{kind: Temp})
	fb.coerceToHeight(preHeight + 1)
	return fb.depth() - 1, nil
}

// lowerIf lowers the condition, branches on it with Jf, lowers each branch
// as a block whose tail expression (if any) becomes its result, and
// coerces both branches to the same post-height (the height just after the
// Jf, plus one) so either path deposits its one result value in the same
// slot (spec §4.2).
func (cc *compilation) lowerIf(ie *ast.IfExpression) (int, error) {
	fb := cc.fb

	cIdx, err := cc.lowerExpression(ie.Condition)
	if err != nil {
		return 0, err
	}
	fb.emit(bytecode.Copy, fb.offsetOf(cIdx))
	fb.push(target{kind: Temp})
	jfIP := fb.emit(bytecode.Jf, 0)
	fb.shadow = fb.shadow[:fb.depth()-1]
	preHeight := fb.depth()

	if err := cc.lowerBlockBody(ie.Consequence); err != nil {
		return 0, err
	}
	fb.coerceToHeight(preHeight + 1)
	jmpIP := fb.emit(bytecode.Jmp, 0)
	fb.patch(jfIP, fb.u8(len(fb.instructions), "if-branch target"))

	fb.shadow = fb.shadow[:preHeight]
	if ie.Alternative != nil {
		if err := cc.lowerBlockBody(ie.Alternative); err != nil {
			return 0, err
		}
	} else {
		lit := fb.internLiteral(value.Float64(0))
		fb.emit(bytecode.LoadLiteral, lit)
		fb.push(target{kind: Literal, litIdx: lit})
	}
	fb.coerceToHeight(preHeight + 1)
	fb.patch(jmpIP, fb.u8(len(fb.instructions), "if-end target"))

	return fb.depth() - 1, nil
}

// lowerBlockBody lowers a block's statements in order, then — if present —
// its tail expression, whose value is left on tos (spec's Rust-style
// tail-expression blocks).
func (cc *compilation) lowerBlockBody(b *ast.Block) error {
	for _, s := range b.Statements {
		if err := cc.lowerStatement(s); err != nil {
			return err
		}
	}
	if b.TailExpr != nil {
		if _, err := cc.lowerExpression(b.TailExpr); err != nil {
			return err
		}
	}
	return nil
}
