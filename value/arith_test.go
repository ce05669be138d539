package value

import "testing"

func TestAdd(t *testing.T) {
	tests := []struct {
		name      string
		lhs, rhs  Value
		want      Value
		wantError bool
	}{
		{"int+int", Int64(2), Int64(3), Int64(5), false},
		{"float+float", Float64(1.5), Float64(2.5), Float64(4), false},
		{"int+float promotes", Int64(2), Float64(0.5), Float64(2.5), false},
		{"string+string concatenates", String("hi "), String("there"), String("hi there"), false},
		{"string+int fails", String("hi"), Int64(1), Value{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Add(tt.lhs, tt.rhs)
			if tt.wantError {
				if err == nil {
					t.Fatal("expected an error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("Add(%v, %v) = %v, want %v", tt.lhs, tt.rhs, got, tt.want)
			}
		})
	}
}

func TestDivByZero(t *testing.T) {
	if _, err := Div(Int64(1), Int64(0)); err == nil {
		t.Fatal("expected division-by-zero error")
	}
}

func TestDivFloatByZeroIsInf(t *testing.T) {
	got, err := Div(Float64(1), Float64(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsFloat() {
		t.Fatalf("expected a float result, got %v", got.Kind())
	}
}

func TestLt(t *testing.T) {
	tests := []struct {
		name     string
		lhs, rhs Value
		want     Value
	}{
		{"int<int true", Int64(1), Int64(2), Int64(1)},
		{"int<int false", Int64(2), Int64(1), Int64(0)},
		{"mixed promotes to float", Int64(1), Float64(2), Float64(1)},
		{"string<string lexicographic", String("a"), String("b"), Float64(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lt(tt.lhs, tt.rhs)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("Lt(%v, %v) = %v, want %v", tt.lhs, tt.rhs, got, tt.want)
			}
		})
	}
}

func TestUnsupportedOp(t *testing.T) {
	if _, err := Sub(String("a"), String("b")); err == nil {
		t.Fatal("expected an unsupported-operation error for string subtraction")
	}
}

func TestIsFalsy(t *testing.T) {
	if !IsFalsy(Float64(0)) {
		t.Error("0.0 should be falsy")
	}
	if !IsFalsy(Int64(0)) {
		t.Error("0 should be falsy")
	}
	if IsFalsy(Int64(1)) {
		t.Error("1 should be truthy")
	}
}
