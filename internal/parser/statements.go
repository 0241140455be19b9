package parser

import (
	"github.com/go-olang/olangc/internal/ast"
	"github.com/go-olang/olangc/internal/lexer"
	"github.com/go-olang/olangc/internal/span"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.current().Kind {
	case lexer.Var:
		decl := p.parseVarDecl()
		return &ast.VariableDeclStatement{Decl: decl, Sp: decl.Span()}
	case lexer.Return:
		return p.parseReturnStatement()
	case lexer.If:
		return p.parseIfStatement()
	case lexer.While:
		return p.parseWhileLoop()
	case lexer.Identifier:
		if p.peek(1).Kind == lexer.Assign {
			return p.parseAssignment()
		}
		return p.parseExpressionStatement()
	case lexer.IntegerLit, lexer.RealLit, lexer.True, lexer.False, lexer.This:
		return p.parseExpressionStatement()
	default:
		tok := p.current()
		p.addError("expression expected", tok.Span)
		return &ast.UnknownStatement{Sp: tok.Span}
	}
}

func (p *Parser) parseAssignment() *ast.Assignment {
	nameTok := p.advance() // Identifier, already confirmed by caller
	p.consume(lexer.Assign, "expected ':=' in assignment")
	value := p.parseExpr()
	return &ast.Assignment{
		TargetName: nameTok.Lexeme,
		Value:      value,
		Sp:         span.Merge(nameTok.Span, value.Span()),
	}
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	expr := p.parseExpr()
	return &ast.ExpressionStatement{Expr: expr, Sp: expr.Span()}
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	startTok := p.advance() // 'return'
	end := startTok.Span
	var value ast.Expression
	if startsExpression(p.current().Kind) {
		value = p.parseExpr()
		end = value.Span()
	}
	return &ast.ReturnStatement{Value: value, Sp: span.Merge(startTok.Span, end)}
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	startTok := p.advance() // 'if'
	cond := p.parseExpr()
	p.consume(lexer.Then, "expected 'then'")
	thenBody := p.parseBlock(lexer.Else, lexer.End)

	var elseBody []ast.Statement
	if p.match(lexer.Else) {
		elseBody = p.parseBlock(lexer.End)
	}
	endTok, _ := p.consume(lexer.End, "expected 'end' to close if statement")

	return &ast.IfStatement{
		Cond: cond,
		Then: thenBody,
		Else: elseBody,
		Sp:   span.Merge(startTok.Span, endTok.Span),
	}
}

func (p *Parser) parseWhileLoop() *ast.WhileLoop {
	startTok := p.advance() // 'while'
	cond := p.parseExpr()
	p.consume(lexer.Loop, "expected 'loop'")
	body := p.parseBlock(lexer.End)
	endTok, _ := p.consume(lexer.End, "expected 'end' to close while loop")

	return &ast.WhileLoop{
		Cond: cond,
		Body: body,
		Sp:   span.Merge(startTok.Span, endTok.Span),
	}
}

// startsExpression reports whether kind can begin a Primary expression,
// used to decide whether a bare 'return' has a following value.
func startsExpression(kind lexer.Kind) bool {
	switch kind {
	case lexer.IntegerLit, lexer.RealLit, lexer.True, lexer.False, lexer.This, lexer.Identifier:
		return true
	}
	return false
}
