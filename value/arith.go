package value

import "fmt"

// UnsupportedOpError reports an arithmetic or comparison opcode applied to
// an operand combination the language does not define, per spec §4.4.
type UnsupportedOpError struct {
	Op   string
	Lhs  Kind
	Rhs  Kind
}

func (e *UnsupportedOpError) Error() string {
	return fmt.Sprintf("unsupported operation: %s on %s and %s", e.Op, e.Lhs, e.Rhs)
}

// Add implements the Add opcode: numeric addition with int/float promotion,
// or string concatenation when both operands are strings.
func Add(lhs, rhs Value) (Value, error) {
	if lhs.kind == Str && rhs.kind == Str {
		return String(lhs.s + rhs.s), nil
	}
	return numericOp(lhs, rhs, "Add",
		func(a, b int64) int64 { return a + b },
		func(a, b float64) float64 { return a + b },
	)
}

// Sub implements the Sub opcode.
func Sub(lhs, rhs Value) (Value, error) {
	return numericOp(lhs, rhs, "Sub",
		func(a, b int64) int64 { return a - b },
		func(a, b float64) float64 { return a - b },
	)
}

// Mul implements the Mul opcode.
func Mul(lhs, rhs Value) (Value, error) {
	return numericOp(lhs, rhs, "Mul",
		func(a, b int64) int64 { return a * b },
		func(a, b float64) float64 { return a * b },
	)
}

// Div implements the Div opcode. Division always follows the operand kinds'
// promotion rule; integer division by zero is reported rather than
// panicking the host process.
func Div(lhs, rhs Value) (Value, error) {
	if lhs.kind == Int && rhs.kind == Int {
		if rhs.i == 0 {
			return Value{}, fmt.Errorf("division by zero")
		}
		return Int64(lhs.i / rhs.i), nil
	}
	if isNumeric(lhs) && isNumeric(rhs) {
		return Float64(lhs.AsFloat() / rhs.AsFloat()), nil
	}
	return Value{}, &UnsupportedOpError{Op: "Div", Lhs: lhs.kind, Rhs: rhs.kind}
}

// Lt implements the Lt opcode. When both operands are ints it stays on the
// integer path and returns an Int64 0/1; otherwise it promotes to float and
// returns a Float64 0.0/1.0, matching spec §4.4. Strings compare
// lexicographically (spec §9 SHOULD).
func Lt(lhs, rhs Value) (Value, error) {
	switch {
	case lhs.kind == Int && rhs.kind == Int:
		if lhs.i < rhs.i {
			return Int64(1), nil
		}
		return Int64(0), nil
	case isNumeric(lhs) && isNumeric(rhs):
		if lhs.AsFloat() < rhs.AsFloat() {
			return Float64(1), nil
		}
		return Float64(0), nil
	case lhs.kind == Str && rhs.kind == Str:
		if lhs.s < rhs.s {
			return Float64(1), nil
		}
		return Float64(0), nil
	default:
		return Value{}, &UnsupportedOpError{Op: "Lt", Lhs: lhs.kind, Rhs: rhs.kind}
	}
}

// IsFalsy reports whether v coerces to 0.0, the condition Jf tests (spec
// §4.4: "Jf coerces its popped operand to float and jumps iff it equals
// 0.0").
func IsFalsy(v Value) bool {
	return v.AsFloat() == 0.0
}

func isNumeric(v Value) bool { return v.kind == Int || v.kind == Float }

func numericOp(lhs, rhs Value, name string, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) (Value, error) {
	switch {
	case lhs.kind == Int && rhs.kind == Int:
		return Int64(intOp(lhs.i, rhs.i)), nil
	case isNumeric(lhs) && isNumeric(rhs):
		return Float64(floatOp(lhs.AsFloat(), rhs.AsFloat())), nil
	default:
		return Value{}, &UnsupportedOpError{Op: name, Lhs: lhs.kind, Rhs: rhs.kind}
	}
}
