package bytecode

import (
	"bytes"
	"testing"

	"lull/value"
)

func samplePrefix() Program {
	return Program{
		"main": &FunctionImage{
			Args:     nil,
			Literals: []value.Value{value.Float64(1), value.String("hi"), value.Int64(7)},
			Instructions: []Instruction{
				{Op: LoadLiteral, Arg: 0},
				{Op: LoadLiteral, Arg: 2},
				{Op: Add, Arg: 0},
				{Op: Call, Arg: 1},
				{Op: Ret, Arg: 0},
			},
		},
		"double": &FunctionImage{
			Args:     []string{"x"},
			Literals: []value.Value{value.Int64(2)},
			Instructions: []Instruction{
				{Op: Copy, Arg: 0},
				{Op: LoadLiteral, Arg: 0},
				{Op: Mul, Arg: 0},
				{Op: Ret, Arg: 0},
			},
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	p := samplePrefix()

	var buf bytes.Buffer
	if err := Write(&buf, p); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if len(got) != len(p) {
		t.Fatalf("got %d functions, want %d", len(got), len(p))
	}
	for name, want := range p {
		fn, ok := got[name]
		if !ok {
			t.Fatalf("missing function %q after round trip", name)
		}
		assertFunctionEqual(t, name, fn, want)
	}
}

func TestRoundTripEmptyProgram(t *testing.T) {
	p := Program{"main": &FunctionImage{}}

	var buf bytes.Buffer
	if err := Write(&buf, p); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got["main"].Instructions) != 0 || len(got["main"].Literals) != 0 || len(got["main"].Args) != 0 {
		t.Fatalf("expected an all-empty main, got %+v", got["main"])
	}
}

func TestReadTruncatedInputFails(t *testing.T) {
	p := samplePrefix()
	var buf bytes.Buffer
	if err := Write(&buf, p); err != nil {
		t.Fatalf("Write: %v", err)
	}

	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()/2])
	if _, err := Read(truncated); err == nil {
		t.Fatal("expected an error reading a truncated container")
	}
}

func assertFunctionEqual(t *testing.T, name string, got, want *FunctionImage) {
	t.Helper()
	if len(got.Args) != len(want.Args) {
		t.Fatalf("function %q: got %d args, want %d", name, len(got.Args), len(want.Args))
	}
	for i := range want.Args {
		if got.Args[i] != want.Args[i] {
			t.Errorf("function %q: arg %d = %q, want %q", name, i, got.Args[i], want.Args[i])
		}
	}
	if len(got.Literals) != len(want.Literals) {
		t.Fatalf("function %q: got %d literals, want %d", name, len(got.Literals), len(want.Literals))
	}
	for i := range want.Literals {
		if !value.Equal(got.Literals[i], want.Literals[i]) {
			t.Errorf("function %q: literal %d = %v, want %v", name, i, got.Literals[i], want.Literals[i])
		}
	}
	if len(got.Instructions) != len(want.Instructions) {
		t.Fatalf("function %q: got %d instructions, want %d", name, len(got.Instructions), len(want.Instructions))
	}
	for i := range want.Instructions {
		if got.Instructions[i] != want.Instructions[i] {
			t.Errorf("function %q: instruction %d = %v, want %v", name, i, got.Instructions[i], want.Instructions[i])
		}
	}
}
