package ast

import (
	"strings"

	"github.com/go-olang/olangc/internal/span"
)

// Assignment is `TargetName := Value`. ResolvedTarget is filled by the
// symbol table builder and is either a local variable/parameter or a
// field, distinguished by VariableDecl.IsParameter/IsField.
type Assignment struct {
	TargetName     string
	Value          Expression
	ResolvedTarget *VariableDecl
	Sp             span.Span
}

func (n *Assignment) stmtNode()       {}
func (n *Assignment) Span() span.Span { return n.Sp }
func (n *Assignment) String() string  { return n.TargetName + " := " + n.Value.String() }

// IfStatement is `if Cond then Then [else Else] end`. Else is nil when no
// else-branch was written.
type IfStatement struct {
	Cond Expression
	Then []Statement
	Else []Statement
	Sp   span.Span
}

func (n *IfStatement) stmtNode()       {}
func (n *IfStatement) Span() span.Span { return n.Sp }
func (n *IfStatement) String() string {
	var sb strings.Builder
	sb.WriteString("if ")
	sb.WriteString(n.Cond.String())
	sb.WriteString(" then ")
	writeBlock(&sb, n.Then)
	if n.Else != nil {
		sb.WriteString(" else ")
		writeBlock(&sb, n.Else)
	}
	sb.WriteString(" end")
	return sb.String()
}

// WhileLoop is `while Cond loop Body end`.
type WhileLoop struct {
	Cond Expression
	Body []Statement
	Sp   span.Span
}

func (n *WhileLoop) stmtNode()       {}
func (n *WhileLoop) Span() span.Span { return n.Sp }
func (n *WhileLoop) String() string {
	var sb strings.Builder
	sb.WriteString("while ")
	sb.WriteString(n.Cond.String())
	sb.WriteString(" loop ")
	writeBlock(&sb, n.Body)
	sb.WriteString(" end")
	return sb.String()
}

// ReturnStatement is `return [Value]`. Value is nil for a bare return.
type ReturnStatement struct {
	Value Expression
	Sp    span.Span
}

func (n *ReturnStatement) stmtNode()       {}
func (n *ReturnStatement) Span() span.Span { return n.Sp }
func (n *ReturnStatement) String() string {
	if n.Value == nil {
		return "return"
	}
	return "return " + n.Value.String()
}

// VariableDeclStatement wraps a local VariableDecl appearing as a
// statement inside a method/constructor body.
type VariableDeclStatement struct {
	Decl *VariableDecl
	Sp   span.Span
}

func (n *VariableDeclStatement) stmtNode()       {}
func (n *VariableDeclStatement) Span() span.Span { return n.Sp }
func (n *VariableDeclStatement) String() string  { return n.Decl.String() }

// ExpressionStatement is an expression used in statement position (its
// value, if any, is discarded).
type ExpressionStatement struct {
	Expr Expression
	Sp   span.Span
}

func (n *ExpressionStatement) stmtNode()       {}
func (n *ExpressionStatement) Span() span.Span { return n.Sp }
func (n *ExpressionStatement) String() string  { return n.Expr.String() }

func writeBlock(sb *strings.Builder, stmts []Statement) {
	for i, s := range stmts {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(s.String())
	}
}
