// Package value defines the tagged value model shared by the compiler and
// the virtual machine.
//
// A Value is one of three variants: a 64-bit float, a 64-bit signed integer,
// or an immutable string. There is no boolean type — truthiness and
// comparison results are numeric (see Kind and the Lt/Jf semantics
// implemented by the vm package).
package value

import (
	"fmt"
	"strconv"
)

// Kind identifies which variant a [Value] holds.
type Kind byte

const (
	// Float identifies a 64-bit floating point value.
	Float Kind = iota

	// Int identifies a 64-bit signed integer value.
	Int

	// Str identifies an immutable string value.
	Str
)

// String returns a short, human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case Int:
		return "int"
	case Str:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a tagged union of Float, Int, and Str. The zero Value is the
// float 0.0.
type Value struct {
	kind Kind
	f    float64
	i    int64
	s    string
}

// Float64 constructs a float Value.
func Float64(f float64) Value { return Value{kind: Float, f: f} }

// Int64 constructs an int Value.
func Int64(i int64) Value { return Value{kind: Int, i: i} }

// String constructs a string Value.
func String(s string) Value { return Value{kind: Str, s: s} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsFloat reports whether v holds a float.
func (v Value) IsFloat() bool { return v.kind == Float }

// IsInt reports whether v holds an int.
func (v Value) IsInt() bool { return v.kind == Int }

// IsString reports whether v holds a string.
func (v Value) IsString() bool { return v.kind == Str }

// Float returns the float payload of v. It is meaningful only when
// v.Kind() == Float.
func (v Value) Float() float64 { return v.f }

// Int returns the int payload of v. It is meaningful only when
// v.Kind() == Int.
func (v Value) Int() int64 { return v.i }

// Str returns the string payload of v. It is meaningful only when
// v.Kind() == Str.
func (v Value) Str() string { return v.s }

// AsFloat coerces v to a float64 regardless of its kind. Strings coerce to
// NaN-free zero — callers that need string-aware coercion should check
// IsString first.
func (v Value) AsFloat() float64 {
	switch v.kind {
	case Float:
		return v.f
	case Int:
		return float64(v.i)
	default:
		return 0
	}
}

// Inspect renders v the way the disassembler and natives print values.
func (v Value) Inspect() string {
	switch v.kind {
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Str:
		return v.s
	default:
		return "?"
	}
}

// Debug renders v with its kind tag, for the debug-print native.
func (v Value) Debug() string {
	return fmt.Sprintf("%s(%s)", v.kind, v.Inspect())
}

// Equal reports structural equality: same kind and same payload.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Float:
		return a.f == b.f
	case Int:
		return a.i == b.i
	case Str:
		return a.s == b.s
	default:
		return false
	}
}

// Clone returns a copy of v. Value is a plain struct with no shared mutable
// state, so Clone is a value copy — the string payload is immutable and
// safe to alias, satisfying the reference-counted copy-on-write semantics
// spec.md §5 describes for string sharing: no caller can observe a
// difference between a deep copy and a shared reference.
func (v Value) Clone() Value { return v }
