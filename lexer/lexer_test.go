package lexer

import (
	"testing"

	"lull/token"
)

// TestNextToken exercises every symbol and keyword the lexer recognizes in
// one pass, in the teacher's table-driven style.
func TestNextToken(t *testing.T) {
	input := `var x = 1 + 2.5 * (3 - 4) / 5 < 6 > 7;
fn f(a, b) -> x { return a; }
if x { yield x; } else { break; continue; }
for i in 0 to 10 { }
"hi"
`
	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.Var, "var"},
		{token.Ident, "x"},
		{token.Assign, "="},
		{token.Int, "1"},
		{token.Plus, "+"},
		{token.Float, "2.5"},
		{token.Asterisk, "*"},
		{token.Lparen, "("},
		{token.Int, "3"},
		{token.Minus, "-"},
		{token.Int, "4"},
		{token.Rparen, ")"},
		{token.Slash, "/"},
		{token.Int, "5"},
		{token.Lt, "<"},
		{token.Int, "6"},
		{token.Gt, ">"},
		{token.Int, "7"},
		{token.Semicolon, ";"},
		{token.Fn, "fn"},
		{token.Ident, "f"},
		{token.Lparen, "("},
		{token.Ident, "a"},
		{token.Comma, ","},
		{token.Ident, "b"},
		{token.Rparen, ")"},
		{token.Arrow, "->"},
		{token.Ident, "x"},
		{token.Lbrace, "{"},
		{token.Return, "return"},
		{token.Ident, "a"},
		{token.Semicolon, ";"},
		{token.Rbrace, "}"},
		{token.If, "if"},
		{token.Ident, "x"},
		{token.Lbrace, "{"},
		{token.Yield, "yield"},
		{token.Ident, "x"},
		{token.Semicolon, ";"},
		{token.Rbrace, "}"},
		{token.Else, "else"},
		{token.Lbrace, "{"},
		{token.Break, "break"},
		{token.Semicolon, ";"},
		{token.Continue, "continue"},
		{token.Semicolon, ";"},
		{token.Rbrace, "}"},
		{token.For, "for"},
		{token.Ident, "i"},
		{token.In, "in"},
		{token.Int, "0"},
		{token.To, "to"},
		{token.Int, "10"},
		{token.Lbrace, "{"},
		{token.Rbrace, "}"},
		{token.String, "hi"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestFloatRequiresDigitAfterDot(t *testing.T) {
	l := New("3.")
	tok := l.NextToken()
	if tok.Type != token.Int || tok.Literal != "3" {
		t.Fatalf("got %s %q, want INT \"3\" (a bare trailing dot is not part of the number)", tok.Type, tok.Literal)
	}
	dot := l.NextToken()
	if dot.Type != token.Illegal {
		t.Fatalf("expected an illegal token for the bare dot, got %s", dot.Type)
	}
}

func TestStringEscapes(t *testing.T) {
	input := `"a\nb\tc\"d" "backslash:\\"`
	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.String, "a\nb\tc\"d"},
		{token.String, "backslash:\\"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"no end`)
	tok := l.NextToken()
	if tok.Type != token.Illegal {
		t.Fatalf("expected ILLEGAL token for unterminated string, got %q", tok.Type)
	}
	if tok.Literal != "unterminated string" {
		t.Fatalf("expected literal 'unterminated string', got %q", tok.Literal)
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	l := New("var\nx")
	first := l.NextToken()
	if first.Line != 1 {
		t.Errorf("first token line = %d, want 1", first.Line)
	}
	second := l.NextToken()
	if second.Line != 2 {
		t.Errorf("second token line = %d, want 2", second.Line)
	}
}

// TestComments ensures that // style line comments are ignored wherever
// they appear: end-of-line, on their own line, or directly after code.
func TestComments(t *testing.T) {
	input := `var a = 1; // comment
// full line comment
var b = 2; // another
var c = 3;//no space
var d = 4; /////// multiple slashes
var e = "string with // not a comment";
// comment at EOF`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.Var, "var"}, {token.Ident, "a"}, {token.Assign, "="}, {token.Int, "1"}, {token.Semicolon, ";"},
		{token.Var, "var"}, {token.Ident, "b"}, {token.Assign, "="}, {token.Int, "2"}, {token.Semicolon, ";"},
		{token.Var, "var"}, {token.Ident, "c"}, {token.Assign, "="}, {token.Int, "3"}, {token.Semicolon, ";"},
		{token.Var, "var"}, {token.Ident, "d"}, {token.Assign, "="}, {token.Int, "4"}, {token.Semicolon, ";"},
		{token.Var, "var"}, {token.Ident, "e"}, {token.Assign, "="},
		{token.String, "string with // not a comment"}, {token.Semicolon, ";"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestDivisionFollowedByComment(t *testing.T) {
	input := `5 / // divide then comment`
	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.Int, "5"},
		{token.Slash, "/"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}
