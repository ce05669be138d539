// Package natives implements the host-provided native function table: the
// standard numeric math, coercion, and printing functions spec §6 lists
// ("the standard natives include numeric math..., numeric and string
// coercions, a printer, and a debug printer").
//
// Every native is trusted per the native function contract: it takes a
// read-only view of argument values in call order and produces exactly
// one value. A native that receives arguments it cannot handle panics —
// the type checker, not the VM, is responsible for ruling that out ahead
// of time (spec §6, §7).
package natives

import (
	"fmt"
	"math"
	"strconv"

	"lull/value"
	"lull/vm"
)

// Table returns the standard native function table, keyed by the name a
// lull program calls them under.
func Table() map[string]vm.NativeFunc {
	return map[string]vm.NativeFunc{
		"sqrt":   unary(math.Sqrt),
		"sin":    unary(math.Sin),
		"cos":    unary(math.Cos),
		"tan":    unary(math.Tan),
		"exp":    unary(math.Exp),
		"log":    unary(math.Log),
		"abs":    unary(math.Abs),
		"floor":  unary(math.Floor),
		"ceil":   unary(math.Ceil),
		"pow":    binary(math.Pow),
		"i64":    toInt,
		"f64":    toFloat,
		"str":    toStr,
		"print":  print_,
		"dprint": dprint,
	}
}

func arg(args []value.Value, i int) value.Value {
	if i >= len(args) {
		panic(fmt.Sprintf("native: missing argument %d", i))
	}
	return args[i]
}

func unary(f func(float64) float64) vm.NativeFunc {
	return func(args []value.Value) value.Value {
		return value.Float64(f(arg(args, 0).AsFloat()))
	}
}

func binary(f func(float64, float64) float64) vm.NativeFunc {
	return func(args []value.Value) value.Value {
		return value.Float64(f(arg(args, 0).AsFloat(), arg(args, 1).AsFloat()))
	}
}

func toInt(args []value.Value) value.Value {
	v := arg(args, 0)
	if v.IsString() {
		i, err := strconv.ParseInt(v.Str(), 10, 64)
		if err != nil {
			panic(fmt.Sprintf("native i64: cannot parse %q as an integer", v.Str()))
		}
		return value.Int64(i)
	}
	return value.Int64(int64(v.AsFloat()))
}

func toFloat(args []value.Value) value.Value {
	v := arg(args, 0)
	if v.IsString() {
		f, err := strconv.ParseFloat(v.Str(), 64)
		if err != nil {
			panic(fmt.Sprintf("native f64: cannot parse %q as a float", v.Str()))
		}
		return value.Float64(f)
	}
	return value.Float64(v.AsFloat())
}

func toStr(args []value.Value) value.Value {
	return value.String(arg(args, 0).Inspect())
}

func print_(args []value.Value) value.Value {
	for i, a := range args {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(a.Inspect())
	}
	fmt.Println()
	return value.Float64(0)
}

func dprint(args []value.Value) value.Value {
	for i, a := range args {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(a.Debug())
	}
	fmt.Println()
	return value.Float64(0)
}
