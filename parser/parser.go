// Package parser implements a Pratt (precedence-climbing) recursive-descent
// parser that turns a lull token stream into an *ast.Program.
//
// Parsing is an ambient front-end concern: spec §1 treats the AST as an
// already-validated precondition of the compiler. This parser exists so the
// CLI and REPL have real source text to drive the compiler with; its own
// errors are reported as parse errors (spec §7) and never reach the
// compiler as malformed trees.
package parser

import (
	"fmt"
	"strconv"

	"lull/ast"
	"lull/lexer"
	"lull/token"
)

// precedence levels, lowest to highest.
const (
	_ int = iota
	Lowest
	LessGreater // < or >
	Sum         // + or -
	Product     // * or /
	Call        // f(...)
)

var precedences = map[token.Type]int{
	token.Lt:       LessGreater,
	token.Gt:       LessGreater,
	token.Plus:     Sum,
	token.Minus:    Sum,
	token.Slash:    Product,
	token.Asterisk: Product,
	token.Lparen:   Call,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// ParseError carries a message with the source position it was found at,
// per spec §7 ("reported with location, message, and source file").
type ParseError struct {
	Line, Column int
	Message      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Parser turns tokens from a lexer.Lexer into an *ast.Program.
type Parser struct {
	l      *lexer.Lexer
	errors []*ParseError

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.Ident:  p.parseIdentifier,
		token.Int:    p.parseIntegerLiteral,
		token.Float:  p.parseFloatLiteral,
		token.String: p.parseStringLiteral,
		token.Lparen: p.parseGroupedExpression,
		token.If:     p.parseIfExpression,
	}
	p.infixParseFns = map[token.Type]infixParseFn{
		token.Plus:     p.parseInfixExpression,
		token.Minus:    p.parseInfixExpression,
		token.Asterisk: p.parseInfixExpression,
		token.Slash:    p.parseInfixExpression,
		token.Lt:       p.parseInfixExpression,
		token.Gt:       p.parseInfixExpression,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every parse error accumulated while parsing.
func (p *Parser) Errors() []*ParseError { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) addError(format string, args ...any) {
	p.errors = append(p.errors, &ParseError{
		Line: p.curToken.Line, Column: p.curToken.Column,
		Message: fmt.Sprintf(format, args...),
	})
}

// ParseProgram parses the entire token stream into a Program whose
// statements become the body of the synthesized "main" function.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for p.curToken.Type != token.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}
	return program
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.Var:
		return p.parseVarStatement()
	case token.Fn:
		return p.parseFunctionStatement()
	case token.For:
		return p.parseForStatement()
	case token.Break:
		stmt := &ast.BreakStatement{Token: p.curToken}
		if p.peekToken.Type == token.Semicolon {
			p.nextToken()
		}
		return stmt
	case token.Continue:
		stmt := &ast.ContinueStatement{Token: p.curToken}
		if p.peekToken.Type == token.Semicolon {
			p.nextToken()
		}
		return stmt
	case token.Return:
		return p.parseReturnStatement()
	case token.Yield:
		return p.parseYieldStatement()
	case token.Ident:
		if p.peekToken.Type == token.Assign {
			return p.parseAssignStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseVarStatement() ast.Statement {
	stmt := &ast.VarStatement{Token: p.curToken}
	if !p.expectPeek(token.Ident) {
		return nil
	}
	stmt.Name = p.curToken.Literal

	if p.peekToken.Type == token.Colon {
		p.nextToken()
		if !p.expectPeek(token.Ident) {
			return nil
		}
		stmt.Type = p.curToken.Literal
	}

	if !p.expectPeek(token.Assign) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(Lowest)

	if p.peekToken.Type == token.Semicolon {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseAssignStatement() ast.Statement {
	stmt := &ast.AssignStatement{Token: p.curToken, Name: p.curToken.Literal}
	if !p.expectPeek(token.Assign) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(Lowest)

	if p.peekToken.Type == token.Semicolon {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken}
	if !p.expectPeek(token.Ident) {
		return nil
	}
	stmt.Var = p.curToken.Literal

	if !p.expectPeek(token.In) {
		return nil
	}
	p.nextToken()
	stmt.Start = p.parseExpression(Lowest)

	if !p.expectPeek(token.To) {
		return nil
	}
	p.nextToken()
	stmt.End = p.parseExpression(Lowest)

	if !p.expectPeek(token.Lbrace) {
		return nil
	}
	stmt.Body = p.parseBlock()
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	p.nextToken()
	stmt.Value = p.parseExpression(Lowest)
	if p.peekToken.Type == token.Semicolon {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseYieldStatement() ast.Statement {
	stmt := &ast.YieldStatement{Token: p.curToken}
	p.nextToken()
	stmt.Value = p.parseExpression(Lowest)
	if p.peekToken.Type == token.Semicolon {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseFunctionStatement() ast.Statement {
	stmt := &ast.FunctionStatement{Token: p.curToken}
	if !p.expectPeek(token.Ident) {
		return nil
	}
	stmt.Name = p.curToken.Literal

	if !p.expectPeek(token.Lparen) {
		return nil
	}
	stmt.Parameters = p.parseParamList()

	if p.peekToken.Type == token.Arrow {
		p.nextToken()
		if !p.expectPeek(token.Ident) {
			return nil
		}
		stmt.ReturnType = p.curToken.Literal
	}

	if !p.expectPeek(token.Lbrace) {
		return nil
	}
	stmt.Body = p.parseBlock()
	return stmt
}

func (p *Parser) parseParamList() []ast.Param {
	var params []ast.Param
	if p.peekToken.Type == token.Rparen {
		p.nextToken()
		return params
	}
	p.nextToken()
	params = append(params, p.parseOneParam())
	for p.peekToken.Type == token.Comma {
		p.nextToken()
		p.nextToken()
		params = append(params, p.parseOneParam())
	}
	if !p.expectPeek(token.Rparen) {
		return nil
	}
	return params
}

func (p *Parser) parseOneParam() ast.Param {
	param := ast.Param{Name: p.curToken.Literal}
	if p.peekToken.Type == token.Colon {
		p.nextToken()
		p.nextToken()
		param.Type = p.curToken.Literal
	}
	return param
}

// parseBlock parses the statements between { and }, and — if the last item
// is an expression with no trailing semicolon — its tail expression.
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Token: p.curToken}
	p.nextToken()

	for p.curToken.Type != token.Rbrace && p.curToken.Type != token.EOF {
		if p.isExpressionStart() {
			expr := p.parseExpression(Lowest)
			if p.peekToken.Type == token.Semicolon {
				p.nextToken()
				block.Statements = append(block.Statements, &ast.ExpressionStatement{Expression: expr})
			} else if p.peekToken.Type == token.Rbrace {
				p.nextToken()
				block.TailExpr = expr
				break
			} else {
				block.Statements = append(block.Statements, &ast.ExpressionStatement{Expression: expr})
			}
		} else {
			stmt := p.parseStatement()
			if stmt != nil {
				block.Statements = append(block.Statements, stmt)
			}
		}
		p.nextToken()
	}

	if p.curToken.Type != token.Rbrace {
		p.addError("expected '}', got %s", p.curToken.Type)
	}
	return block
}

// isExpressionStart reports whether the current token begins a statement
// this parser treats as an expression rather than a keyword-led statement.
// An identifier only starts an assignment when followed by '='.
func (p *Parser) isExpressionStart() bool {
	switch p.curToken.Type {
	case token.Var, token.Fn, token.For, token.Break, token.Continue, token.Return, token.Yield:
		return false
	case token.Ident:
		return p.peekToken.Type != token.Assign
	default:
		return true
	}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(Lowest)
	if p.peekToken.Type == token.Semicolon {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.addError("no prefix parse function for %s found", p.curToken.Type)
		return nil
	}
	left := prefix()

	for p.peekToken.Type != token.Semicolon && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	if p.peekToken.Type == token.Lparen {
		return p.parseCallExpression()
	}
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseCallExpression() ast.Expression {
	expr := &ast.CallExpression{Function: p.curToken.Literal}
	p.nextToken() // consume identifier, cur == '('
	expr.Token = p.curToken
	expr.Arguments = p.parseCallArguments()
	return expr
}

func (p *Parser) parseCallArguments() []ast.Expression {
	var args []ast.Expression
	if p.peekToken.Type == token.Rparen {
		p.nextToken()
		return args
	}
	p.nextToken()
	args = append(args, p.parseExpression(Lowest))
	for p.peekToken.Type == token.Comma {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(Lowest))
	}
	if !p.expectPeek(token.Rparen) {
		return nil
	}
	return args
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.addError("could not parse %q as integer", p.curToken.Literal)
		return nil
	}
	lit.Value = v
	return lit
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	lit := &ast.FloatLiteral{Token: p.curToken}
	v, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError("could not parse %q as float", p.curToken.Literal)
		return nil
	}
	lit.Value = v
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(Lowest)
	if !p.expectPeek(token.Rparen) {
		return nil
	}
	return expr
}

func (p *Parser) parseIfExpression() ast.Expression {
	expr := &ast.IfExpression{Token: p.curToken}
	p.nextToken()
	expr.Condition = p.parseExpression(Lowest)

	if !p.expectPeek(token.Lbrace) {
		return nil
	}
	expr.Consequence = p.parseBlock()

	if p.peekToken.Type == token.Else {
		p.nextToken()
		if !p.expectPeek(token.Lbrace) {
			return nil
		}
		expr.Alternative = p.parseBlock()
	}
	return expr
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return Lowest
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return Lowest
}

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekToken.Type == t {
		p.nextToken()
		return true
	}
	p.addError("expected next token to be %s, got %s instead", t, p.peekToken.Type)
	return false
}
