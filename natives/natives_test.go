package natives

import (
	"testing"

	"lull/value"
)

func call(t *testing.T, name string, args ...value.Value) value.Value {
	t.Helper()
	table := Table()
	fn, ok := table[name]
	if !ok {
		t.Fatalf("no native named %q", name)
	}
	return fn(args)
}

func TestUnaryMathNatives(t *testing.T) {
	got := call(t, "sqrt", value.Float64(9))
	if !got.IsFloat() || got.Float() != 3 {
		t.Errorf("sqrt(9) = %v, want 3", got)
	}
	got = call(t, "abs", value.Int64(-5))
	if got.Float() != 5 {
		t.Errorf("abs(-5) = %v, want 5", got)
	}
}

func TestPow(t *testing.T) {
	got := call(t, "pow", value.Float64(2), value.Int64(10))
	if got.Float() != 1024 {
		t.Errorf("pow(2, 10) = %v, want 1024", got)
	}
}

func TestI64FromString(t *testing.T) {
	got := call(t, "i64", value.String("42"))
	if !got.IsInt() || got.Int() != 42 {
		t.Errorf("i64(\"42\") = %v, want 42", got)
	}
}

func TestI64FromFloatTruncates(t *testing.T) {
	got := call(t, "i64", value.Float64(3.9))
	if !got.IsInt() || got.Int() != 3 {
		t.Errorf("i64(3.9) = %v, want 3", got)
	}
}

func TestF64FromString(t *testing.T) {
	got := call(t, "f64", value.String("2.5"))
	if !got.IsFloat() || got.Float() != 2.5 {
		t.Errorf("f64(\"2.5\") = %v, want 2.5", got)
	}
}

func TestStrRendersInspectForm(t *testing.T) {
	got := call(t, "str", value.Int64(7))
	if !got.IsString() || got.Str() != "7" {
		t.Errorf("str(7) = %v, want \"7\"", got)
	}
}

func TestI64ParseFailurePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected i64 to panic on an unparseable string")
		}
	}()
	call(t, "i64", value.String("not a number"))
}

func TestMissingArgumentPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a native to panic when called with no arguments")
		}
	}()
	call(t, "sqrt")
}
