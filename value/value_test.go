package value

import "testing"

func TestConstructorsAndAccessors(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		kind Kind
	}{
		{"float", Float64(3.5), Float},
		{"int", Int64(7), Int},
		{"string", String("hi"), Str},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.Kind() != tt.kind {
				t.Fatalf("Kind() = %v, want %v", tt.v.Kind(), tt.kind)
			}
		})
	}
}

func TestAsFloat(t *testing.T) {
	if got := Int64(4).AsFloat(); got != 4.0 {
		t.Errorf("Int64(4).AsFloat() = %v, want 4.0", got)
	}
	if got := Float64(2.5).AsFloat(); got != 2.5 {
		t.Errorf("Float64(2.5).AsFloat() = %v, want 2.5", got)
	}
	if got := String("x").AsFloat(); got != 0 {
		t.Errorf("String(\"x\").AsFloat() = %v, want 0", got)
	}
}

func TestEqual(t *testing.T) {
	if !Equal(Int64(3), Int64(3)) {
		t.Error("Int64(3) should equal Int64(3)")
	}
	if Equal(Int64(3), Float64(3)) {
		t.Error("Int64(3) should not equal Float64(3): different kinds")
	}
	if !Equal(String("a"), String("a")) {
		t.Error("String(\"a\") should equal String(\"a\")")
	}
	if Equal(String("a"), String("b")) {
		t.Error("String(\"a\") should not equal String(\"b\")")
	}
}

func TestInspect(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Int64(42), "42"},
		{Float64(1.5), "1.5"},
		{String("hi"), "hi"},
	}
	for _, tt := range tests {
		if got := tt.v.Inspect(); got != tt.want {
			t.Errorf("Inspect() = %q, want %q", got, tt.want)
		}
	}
}

func TestClonePreservesValue(t *testing.T) {
	v := String("hello")
	c := v.Clone()
	if !Equal(v, c) {
		t.Error("Clone() should produce an equal value")
	}
}
