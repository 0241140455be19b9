package parser

import (
	"fmt"
	"strconv"

	"github.com/go-olang/olangc/internal/ast"
	"github.com/go-olang/olangc/internal/lexer"
	"github.com/go-olang/olangc/internal/span"
)

// parseExpr parses `Primary { '.' Id [ '(' Args ')' ] }`, left-associative
// member/method chaining.
func (p *Parser) parseExpr() ast.Expression {
	left := p.parsePrimary()
	for p.check(lexer.Dot) {
		p.advance()
		memberTok, ok := p.consume(lexer.Identifier, "expected member name after '.'")
		if !ok {
			return left
		}
		if p.match(lexer.LParen) {
			args := p.parseArgs()
			endTok, _ := p.consume(lexer.RParen, "expected ')' to close argument list")
			left = &ast.MethodCall{
				Target:     left,
				MethodName: memberTok.Lexeme,
				Args:       args,
				Sp:         span.Merge(left.Span(), endTok.Span),
			}
		} else {
			left = &ast.MemberAccess{
				Target:     left,
				MemberName: memberTok.Lexeme,
				Sp:         span.Merge(left.Span(), memberTok.Span),
			}
		}
	}
	return left
}

func (p *Parser) parseArgs() []ast.Expression {
	if p.check(lexer.RParen) {
		return nil
	}
	args := []ast.Expression{p.parseExpr()}
	for p.match(lexer.Comma) {
		args = append(args, p.parseExpr())
	}
	return args
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.current()
	switch tok.Kind {
	case lexer.IntegerLit:
		p.advance()
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			p.addError(fmt.Sprintf("invalid integer literal %q", tok.Lexeme), tok.Span)
			v = 0
		}
		return &ast.IntegerLiteral{Value: v, Sp: tok.Span}
	case lexer.RealLit:
		p.advance()
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			p.addError(fmt.Sprintf("invalid real literal %q", tok.Lexeme), tok.Span)
			v = 0
		}
		return &ast.RealLiteral{Value: v, Sp: tok.Span}
	case lexer.True:
		p.advance()
		return &ast.BooleanLiteral{Value: true, Sp: tok.Span}
	case lexer.False:
		p.advance()
		return &ast.BooleanLiteral{Value: false, Sp: tok.Span}
	case lexer.This:
		p.advance()
		return &ast.ThisExpr{Sp: tok.Span}
	case lexer.Identifier:
		p.advance()
		if p.match(lexer.LParen) {
			args := p.parseArgs()
			endTok, _ := p.consume(lexer.RParen, "expected ')' to close argument list")
			return &ast.ConstructorCall{
				ClassName: tok.Lexeme,
				Args:      args,
				Sp:        span.Merge(tok.Span, endTok.Span),
			}
		}
		return &ast.IdentifierExpr{Name: tok.Lexeme, Sp: tok.Span}
	default:
		p.addError("expression expected", tok.Span)
		p.advance()
		return &ast.UnknownExpression{Sp: tok.Span}
	}
}
