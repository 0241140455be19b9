package ast

import (
	"strings"

	"github.com/go-olang/olangc/internal/span"
	"github.com/go-olang/olangc/internal/types"
)

// IdentifierExpr refers to a local variable, parameter, or field by name.
// ResolvedDecl is filled by the symbol table builder; it is nil only on
// an error path (an "unknown identifier" diagnostic was recorded).
type IdentifierExpr struct {
	literalBase
	Name         string
	ResolvedDecl *VariableDecl
	Sp           span.Span
}

func (n *IdentifierExpr) exprNode()       {}
func (n *IdentifierExpr) Span() span.Span { return n.Sp }
func (n *IdentifierExpr) String() string  { return n.Name }

// ConstructorCall is `ClassName(args...)`: either a built-in wrapper
// construction (Integer(5), Boolean(true), Real(3.14), Printer()) or a
// user-class instantiation.
type ConstructorCall struct {
	literalBase
	ClassName string
	Args      []Expression
	// ResolvedClass is the target *ClassDecl for a user class, nil for a
	// built-in name (Integer/Boolean/Real/Printer).
	ResolvedClass *ClassDecl
	Sp            span.Span
}

func (n *ConstructorCall) exprNode()       {}
func (n *ConstructorCall) Span() span.Span { return n.Sp }
func (n *ConstructorCall) String() string {
	var sb strings.Builder
	sb.WriteString(n.ClassName)
	sb.WriteString("(")
	for i, a := range n.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// IsBuiltinWrapperLiteral reports whether this call is a built-in wrapper
// (Integer/Boolean/Real) around a single literal argument of the matching
// kind — the shape the constant folder and emitter both recognize as a
// "built-in wrapper" value form.
func (n *ConstructorCall) IsBuiltinWrapperLiteral() bool {
	if len(n.Args) != 1 {
		return false
	}
	switch n.ClassName {
	case "Integer":
		_, ok := n.Args[0].(*IntegerLiteral)
		return ok
	case "Real":
		_, ok := n.Args[0].(*RealLiteral)
		return ok
	case "Boolean":
		_, ok := n.Args[0].(*BooleanLiteral)
		return ok
	}
	return false
}

// MethodCall is `target.MethodName(args...)`. ResolvedMethod is filled by
// the type checker for calls on a user-class target; it stays nil for
// built-in (stdlib/array) targets, which are resolved structurally instead.
type MethodCall struct {
	literalBase
	Target         Expression
	MethodName     string
	Args           []Expression
	ResolvedMethod *MethodDecl
	Sp             span.Span
}

func (n *MethodCall) exprNode()       {}
func (n *MethodCall) Span() span.Span { return n.Sp }
func (n *MethodCall) String() string {
	var sb strings.Builder
	sb.WriteString(n.Target.String())
	sb.WriteString(".")
	sb.WriteString(n.MethodName)
	sb.WriteString("(")
	for i, a := range n.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// MemberAccess is `target.MemberName` with no call parentheses: a field
// read. ResolvedField is filled by the type checker.
type MemberAccess struct {
	literalBase
	Target        Expression
	MemberName    string
	ResolvedField *VariableDecl
	Sp            span.Span
}

func (n *MemberAccess) exprNode()       {}
func (n *MemberAccess) Span() span.Span { return n.Sp }
func (n *MemberAccess) String() string {
	return n.Target.String() + "." + n.MemberName
}

// ClassDeclOf recovers the originating *ClassDecl from a *types.Type built
// for a user class, or nil for a built-in type or if t carries no
// declaration. It exists to cross the deliberate type/ast package boundary
// (see internal/types' package doc).
func ClassDeclOf(t *types.Type) *ClassDecl {
	if t == nil || t.Decl == nil {
		return nil
	}
	decl, _ := t.Decl.(*ClassDecl)
	return decl
}
