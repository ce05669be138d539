package bytecode

import "testing"

func TestValidateRequiresMainEntryPoint(t *testing.T) {
	p := Program{"helper": &FunctionImage{}}
	if err := p.Validate(); err == nil {
		t.Fatal("expected an error for a program with no main")
	}
}

func TestValidateRejectsParameterizedMain(t *testing.T) {
	p := Program{"main": &FunctionImage{Args: []string{"x"}}}
	if err := p.Validate(); err == nil {
		t.Fatal("expected an error for a main taking parameters")
	}
}

func TestValidateRejectsOutOfRangeJumpTarget(t *testing.T) {
	p := Program{
		"main": &FunctionImage{
			Instructions: []Instruction{
				{Op: Jmp, Arg: 5},
			},
		},
	}
	if err := p.Validate(); err == nil {
		t.Fatal("expected an error for an out-of-range jump target")
	}
}

func TestValidateRejectsOutOfRangeLiteralIndex(t *testing.T) {
	p := Program{
		"main": &FunctionImage{
			Instructions: []Instruction{
				{Op: LoadLiteral, Arg: 0},
			},
		},
	}
	if err := p.Validate(); err == nil {
		t.Fatal("expected an error for an out-of-range literal index")
	}
}

func TestValidateRejectsUnknownOpcode(t *testing.T) {
	p := Program{
		"main": &FunctionImage{
			Instructions: []Instruction{
				{Op: Opcode(200), Arg: 0},
			},
		},
	}
	if err := p.Validate(); err == nil {
		t.Fatal("expected an error for an unknown opcode")
	}
}

func TestValidateAcceptsWellFormedProgram(t *testing.T) {
	p := Program{
		"main": &FunctionImage{
			Instructions: []Instruction{
				{Op: Ret, Arg: 0},
			},
		},
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
