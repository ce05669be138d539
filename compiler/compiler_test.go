package compiler

import (
	"testing"

	"lull/lexer"
	"lull/parser"
)

func TestLiteralInterningDeduplicates(t *testing.T) {
	l := lexer.New("var x = 1 + 1 + 1;")
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	prog, err := New().Compile(program)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	main := prog["main"]
	if len(main.Literals) != 1 {
		t.Fatalf("expected 1 distinct literal, got %d: %v", len(main.Literals), main.Literals)
	}
}

func TestCompileValidatesCleanly(t *testing.T) {
	srcs := []string{
		`var x = 1; print(x);`,
		`fn add(a, b) { a + b } print(add(1, 2));`,
		`for i in 0 to 5 { print(i); }`,
		`for i in 0 to 5 { if i < 2 { continue; } if i > 3 { break; } print(i); }`,
		`if 1 < 2 { print("yes"); } else { print("no"); }`,
		`fn fac(n) { if n < 2 { return 1; } return n * fac(n - 1); } print(fac(5));`,
	}
	for _, src := range srcs {
		l := lexer.New(src)
		p := parser.New(l)
		program := p.ParseProgram()
		if errs := p.Errors(); len(errs) != 0 {
			t.Fatalf("parse errors for %q: %v", src, errs)
		}
		prog, err := New().Compile(program)
		if err != nil {
			t.Fatalf("compile error for %q: %v", src, err)
		}
		if err := prog.Validate(); err != nil {
			t.Fatalf("invalid bytecode for %q: %v", src, err)
		}
	}
}

func TestCompileUnboundVariableFails(t *testing.T) {
	l := lexer.New("print(x);")
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	if _, err := New().Compile(program); err == nil {
		t.Fatal("expected a compile error for an unbound variable")
	}
}

func TestCompileBreakOutsideLoopFails(t *testing.T) {
	l := lexer.New("break;")
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	if _, err := New().Compile(program); err == nil {
		t.Fatal("expected a compile error for break outside a loop")
	}
}

func TestCompileContinueOutsideLoopFails(t *testing.T) {
	l := lexer.New("continue;")
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	if _, err := New().Compile(program); err == nil {
		t.Fatal("expected a compile error for continue outside a loop")
	}
}

func TestFunctionStatementRegistersOwnImage(t *testing.T) {
	l := lexer.New(`fn double(x) { x * 2 } print(double(21));`)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	prog, err := New().Compile(program)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if _, ok := prog["double"]; !ok {
		t.Fatal("expected a registered function image named \"double\"")
	}
	if len(prog["double"].Args) != 1 {
		t.Fatalf("expected double to take 1 argument, got %d", len(prog["double"].Args))
	}
}
