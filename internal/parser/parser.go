// Package parser implements olang's single-pass recursive-descent parser:
// tokens in, a polymorphic AST out, with 1-token lookahead and graceful
// recovery from malformed input.
//
// The parser never panics on bad input. A failed consume records an Error
// and leaves the cursor in place; where no expression or statement can be
// parsed, placeholder nodes (UnknownExpression/UnknownStatement) stand in. The
// driver (internal/compiler) checks HasErrors before running any later
// pass over a tree that may contain those placeholders.
package parser

import (
	"github.com/go-olang/olangc/internal/ast"
	"github.com/go-olang/olangc/internal/lexer"
	"github.com/go-olang/olangc/internal/span"
)

// Error is a single syntactic diagnostic, tagged with the span of the
// token that triggered it.
type Error struct {
	Message string
	Span    span.Span
}

// Parser consumes a token stream produced by internal/lexer and builds an
// internal/ast.Program.
type Parser struct {
	tokens []lexer.Token
	pos    int
	errors []Error
}

// New creates a Parser over tokens, which must end with an EOF token (as
// produced by lexer.Lex).
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Errors returns every parse error recorded, in source order.
func (p *Parser) Errors() []Error {
	return p.errors
}

// HasErrors reports whether any parse error was recorded, gating whether
// later passes run over the resulting tree.
func (p *Parser) HasErrors() bool {
	return len(p.errors) > 0
}

func (p *Parser) addError(msg string, sp span.Span) {
	p.errors = append(p.errors, Error{Message: msg, Span: sp})
}

// --- cursor primitives ---

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind lexer.Kind) bool {
	return p.current().Kind == kind
}

func (p *Parser) match(kind lexer.Kind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

// consume advances past an expected token kind, or records msg against the
// current token's span and leaves the cursor in place so the caller (or a
// later synchronize) can decide how to recover.
func (p *Parser) consume(kind lexer.Kind, msg string) (lexer.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	p.addError(msg, p.current().Span)
	return lexer.Token{}, false
}

var syncKinds = map[lexer.Kind]bool{
	lexer.Class:  true,
	lexer.End:    true,
	lexer.Var:    true,
	lexer.Method: true,
	lexer.This:   true,
	lexer.Return: true,
	lexer.If:     true,
	lexer.While:  true,
	lexer.EOF:    true,
}

// synchronize advances until the next class/end/member keyword/statement
// keyword, so a single malformed declaration doesn't cascade into endless
// spurious errors.
func (p *Parser) synchronize() {
	p.advance()
	for !syncKinds[p.current().Kind] {
		p.advance()
	}
}

// ParseProgram parses the entire token stream into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	start := p.current().Span
	var classes []*ast.ClassDecl
	for !p.check(lexer.EOF) {
		before := p.pos
		if p.check(lexer.Class) {
			classes = append(classes, p.parseClassDecl())
		} else {
			p.addError("expected 'class' declaration", p.current().Span)
			p.synchronize()
		}
		if p.pos == before {
			p.advance() // guarantee forward progress
		}
	}
	end := start
	if len(classes) > 0 {
		end = classes[len(classes)-1].Span()
	}
	return &ast.Program{Classes: classes, Sp: span.Merge(start, end)}
}

func (p *Parser) parseClassDecl() *ast.ClassDecl {
	startTok, _ := p.consume(lexer.Class, "expected 'class'")
	start := startTok.Span

	nameTok, _ := p.consume(lexer.Identifier, "expected class name")
	name := nameTok.Lexeme

	baseName := ""
	if p.match(lexer.Extends) {
		baseTok, ok := p.consume(lexer.Identifier, "expected base class name after 'extends'")
		if ok {
			baseName = baseTok.Lexeme
		}
	}

	p.consume(lexer.Is, "expected 'is'")

	decl := ast.NewClassDecl(name, baseName, start)
	for !p.check(lexer.End) && !p.check(lexer.EOF) && !p.check(lexer.Class) {
		before := p.pos
		member := p.parseMember()
		if member != nil {
			decl.Members = append(decl.Members, member)
		}
		if p.pos == before {
			p.advance()
		}
	}

	endTok, _ := p.consume(lexer.End, "expected 'end' to close class declaration")
	decl.Sp = span.Merge(start, endTok.Span)
	return decl
}

func (p *Parser) parseMember() ast.Member {
	switch p.current().Kind {
	case lexer.Var:
		return p.parseVarDecl()
	case lexer.Method:
		return p.parseMethodDecl()
	case lexer.This:
		return p.parseConstructorDecl()
	default:
		p.addError("member declaration expected", p.current().Span)
		p.synchronize()
		return nil
	}
}

func (p *Parser) parseVarDecl() *ast.VariableDecl {
	startTok, _ := p.consume(lexer.Var, "expected 'var'")
	nameTok, _ := p.consume(lexer.Identifier, "expected variable name")
	p.consume(lexer.Colon, "expected ':' after variable name")
	init := p.parseExpr()
	return &ast.VariableDecl{
		Name:        nameTok.Lexeme,
		Initializer: init,
		Sp:          span.Merge(startTok.Span, init.Span()),
	}
}

// parseTypeName parses an identifier type name, optionally followed by
// `[Inner]` to form the synthetic "Outer[Inner]" container type name
// used for Array[T].
func (p *Parser) parseTypeName() string {
	tok, ok := p.consume(lexer.Identifier, "expected type name")
	if !ok {
		return ""
	}
	name := tok.Lexeme
	if p.match(lexer.LBracket) {
		inner := p.parseTypeName()
		p.consume(lexer.RBracket, "expected ']' to close type name")
		name = name + "[" + inner + "]"
	}
	return name
}

func (p *Parser) parseParams() []*ast.Parameter {
	if p.check(lexer.RParen) {
		return nil
	}
	var params []*ast.Parameter
	for {
		params = append(params, p.parseParam())
		if !p.match(lexer.Comma) {
			break
		}
	}
	return params
}

func (p *Parser) parseParam() *ast.Parameter {
	nameTok, _ := p.consume(lexer.Identifier, "expected parameter name")
	p.consume(lexer.Colon, "expected ':' after parameter name")
	typeStart := p.current().Span
	typeName := p.parseTypeName()
	return &ast.Parameter{
		Name:             nameTok.Lexeme,
		DeclaredTypeName: typeName,
		Sp:               span.Merge(nameTok.Span, typeStart),
	}
}

func (p *Parser) parseMethodDecl() *ast.MethodDecl {
	startTok, _ := p.consume(lexer.Method, "expected 'method'")
	nameTok, _ := p.consume(lexer.Identifier, "expected method name")

	var params []*ast.Parameter
	if p.match(lexer.LParen) {
		params = p.parseParams()
		p.consume(lexer.RParen, "expected ')' to close parameter list")
	}

	returnTypeName := ""
	if p.match(lexer.Colon) {
		returnTypeName = p.parseTypeName()
	}

	end := p.current().Span
	var body []ast.Statement
	switch {
	case p.match(lexer.Is):
		body = p.parseBlock(lexer.End)
		if body == nil {
			body = []ast.Statement{} // `is end`: an empty body, not a forward declaration
		}
		endTok, _ := p.consume(lexer.End, "expected 'end' to close method body")
		end = endTok.Span
	case p.match(lexer.Arrow):
		value := p.parseExpr()
		body = []ast.Statement{&ast.ReturnStatement{Value: value, Sp: value.Span()}}
		end = value.Span()
	default:
		body = nil // forward declaration
	}

	return &ast.MethodDecl{
		Name:           nameTok.Lexeme,
		Params:         params,
		ReturnTypeName: returnTypeName,
		Body:           body,
		Sp:             span.Merge(startTok.Span, end),
	}
}

func (p *Parser) parseConstructorDecl() *ast.ConstructorDecl {
	startTok, _ := p.consume(lexer.This, "expected 'this'")

	var params []*ast.Parameter
	if p.match(lexer.LParen) {
		params = p.parseParams()
		p.consume(lexer.RParen, "expected ')' to close parameter list")
	}

	p.consume(lexer.Is, "expected 'is'")
	body := p.parseBlock(lexer.End)
	endTok, _ := p.consume(lexer.End, "expected 'end' to close constructor body")

	return &ast.ConstructorDecl{
		Params: params,
		Body:   body,
		Sp:     span.Merge(startTok.Span, endTok.Span),
	}
}

// stopKinds reports whether kind is one of stops, or EOF (always a stop).
func stopKinds(kind lexer.Kind, stops []lexer.Kind) bool {
	if kind == lexer.EOF {
		return true
	}
	for _, s := range stops {
		if kind == s {
			return true
		}
	}
	return false
}

// parseBlock parses statements until the current token is one of stops
// (not consumed) or EOF.
func (p *Parser) parseBlock(stops ...lexer.Kind) []ast.Statement {
	var stmts []ast.Statement
	for !stopKinds(p.current().Kind, stops) {
		before := p.pos
		stmts = append(stmts, p.parseStatement())
		if p.pos == before {
			p.advance()
		}
	}
	return stmts
}
