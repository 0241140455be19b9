// Package ast defines olang's Abstract Syntax Tree: a closed set of node
// variants, every one of which carries a source span. Declaration nodes are
// created once by the parser and then mutated in place by later passes,
// which fill in resolution and type-inference slots.
package ast

import (
	"strings"

	"github.com/go-olang/olangc/internal/span"
	"github.com/go-olang/olangc/internal/types"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	Span() span.Span
	String() string
}

// Expression is any node that produces a value. Every expression node
// carries a mutable inferredType slot, filled in by the type checker; it
// is nil until then.
type Expression interface {
	Node
	exprNode()
	Type() *types.Type
	SetType(*types.Type)
}

// Statement is any node that performs an action without producing a value.
type Statement interface {
	Node
	stmtNode()
}

// Member is implemented by VariableDecl, MethodDecl, and ConstructorDecl —
// the three kinds of class member declaration.
type Member interface {
	Node
	memberNode()
}

// Program is the root of the AST: an ordered list of class declarations.
type Program struct {
	Classes []*ClassDecl
	Sp      span.Span
}

func (p *Program) Span() span.Span { return p.Sp }
func (p *Program) String() string {
	var sb strings.Builder
	for i, c := range p.Classes {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}

// Parameter is a single formal parameter: its source name, its declared
// type name (textual, possibly "Array[Inner]"), and the *types.Type the
// type checker resolves it to.
type Parameter struct {
	Name             string
	DeclaredTypeName string
	ResolvedType     *types.Type
	Sp               span.Span
}

func (p *Parameter) Span() span.Span { return p.Sp }
func (p *Parameter) String() string  { return p.Name + " : " + p.DeclaredTypeName }

// literalBase factors the InferredType slot shared by every literal
// expression node.
type literalBase struct {
	InferredType *types.Type
}

func (l *literalBase) Type() *types.Type        { return l.InferredType }
func (l *literalBase) SetType(t *types.Type)     { l.InferredType = t }

// IntegerLiteral is a literal integer value, e.g. "42" or "-7".
type IntegerLiteral struct {
	literalBase
	Value int64
	Sp    span.Span
}

func (n *IntegerLiteral) exprNode()        {}
func (n *IntegerLiteral) Span() span.Span  { return n.Sp }
func (n *IntegerLiteral) String() string   { return formatInt(n.Value) }

// RealLiteral is a literal real (floating point) value, e.g. "3.14".
type RealLiteral struct {
	literalBase
	Value float64
	Sp    span.Span
}

func (n *RealLiteral) exprNode()       {}
func (n *RealLiteral) Span() span.Span { return n.Sp }
func (n *RealLiteral) String() string  { return formatReal(n.Value) }

// BooleanLiteral is a literal "true" or "false".
type BooleanLiteral struct {
	literalBase
	Value bool
	Sp    span.Span
}

func (n *BooleanLiteral) exprNode()       {}
func (n *BooleanLiteral) Span() span.Span { return n.Sp }
func (n *BooleanLiteral) String() string {
	if n.Value {
		return "true"
	}
	return "false"
}

// ThisExpr is the "this" receiver expression, valid only inside a method or
// constructor body.
type ThisExpr struct {
	literalBase
	Sp span.Span
}

func (n *ThisExpr) exprNode()       {}
func (n *ThisExpr) Span() span.Span { return n.Sp }
func (n *ThisExpr) String() string  { return "this" }

// UnknownExpression is a parser-inserted placeholder used to keep the tree
// well-formed after a syntax error; it never type-checks successfully.
type UnknownExpression struct {
	literalBase
	Sp span.Span
}

func (n *UnknownExpression) exprNode()       {}
func (n *UnknownExpression) Span() span.Span { return n.Sp }
func (n *UnknownExpression) String() string  { return "<error>" }

// UnknownStatement is a parser-inserted placeholder statement used for
// error recovery.
type UnknownStatement struct {
	Sp span.Span
}

func (n *UnknownStatement) stmtNode()       {}
func (n *UnknownStatement) Span() span.Span { return n.Sp }
func (n *UnknownStatement) String() string  { return "<error>" }
