package ast

import (
	"testing"

	"github.com/go-olang/olangc/internal/scope"
	"github.com/go-olang/olangc/internal/span"
)

func TestClassDeclFieldResolutionThroughInheritance(t *testing.T) {
	base := NewClassDecl("Animal", "", span.Span{})
	x := &VariableDecl{Name: "legs", ResolvedType: nil}
	if err := base.Define(&scope.Symbol{Name: "legs", Payload: x}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	derived := NewClassDecl("Dog", "Animal", span.Span{})
	derived.Base = base

	decl, ok := derived.Field("legs")
	if !ok || decl != x {
		t.Errorf("expected Dog to resolve inherited field legs, got %v, %v", decl, ok)
	}
	if !derived.IsDescendantOf(base) {
		t.Error("Dog should be a descendant of Animal")
	}
}

func TestClassDeclDuplicateField(t *testing.T) {
	c := NewClassDecl("Foo", "", span.Span{})
	_ = c.Define(&scope.Symbol{Name: "x", Payload: &VariableDecl{Name: "x"}})
	err := c.Define(&scope.Symbol{Name: "x", Payload: &VariableDecl{Name: "x"}})
	if err == nil {
		t.Error("expected duplicate field error")
	}
	var dupErr *DuplicateFieldError
	if _, ok := err.(*DuplicateFieldError); !ok {
		t.Errorf("expected *DuplicateFieldError, got %T (%v)", err, dupErr)
	}
}

func TestMethodSignatureAndForwardDeclarationReplacement(t *testing.T) {
	c := NewClassDecl("Foo", "", span.Span{})
	forward := &MethodDecl{Name: "getValue", Params: []*Parameter{{Name: "n", DeclaredTypeName: "Integer"}}}
	if got, want := forward.Signature(), "getValue(Integer)"; got != want {
		t.Errorf("Signature() = %q, want %q", got, want)
	}
	if err := c.DefineMethod(forward); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	withBody := &MethodDecl{
		Name:   "getValue",
		Params: []*Parameter{{Name: "n", DeclaredTypeName: "Integer"}},
		Body:   []Statement{&ReturnStatement{}},
	}
	if err := c.DefineMethod(withBody); err != nil {
		t.Fatalf("forward declaration should be replaceable: %v", err)
	}

	got, ok := c.MethodBySignature("getValue(Integer)")
	if !ok || got != withBody {
		t.Errorf("expected replaced method with body, got %v, %v", got, ok)
	}
}

func TestMethodDuplicateSignature(t *testing.T) {
	c := NewClassDecl("Foo", "", span.Span{})
	m1 := &MethodDecl{Name: "f", Body: []Statement{}}
	m2 := &MethodDecl{Name: "f", Body: []Statement{}}
	_ = c.DefineMethod(m1)
	if err := c.DefineMethod(m2); err == nil {
		t.Error("expected duplicate method signature error")
	}
}

func TestConstructorCallIsBuiltinWrapperLiteral(t *testing.T) {
	wrap := &ConstructorCall{ClassName: "Integer", Args: []Expression{&IntegerLiteral{Value: 5}}}
	if !wrap.IsBuiltinWrapperLiteral() {
		t.Error("expected Integer(5) to be a builtin wrapper literal")
	}
	notWrap := &ConstructorCall{ClassName: "Dog", Args: []Expression{&IntegerLiteral{Value: 5}}}
	if notWrap.IsBuiltinWrapperLiteral() {
		t.Error("user-class construction should not be a builtin wrapper literal")
	}
}

func TestProgramString(t *testing.T) {
	p := &Program{Classes: []*ClassDecl{NewClassDecl("Foo", "", span.Span{})}}
	if got := p.String(); got != "class Foo is  end" {
		t.Errorf("Program.String() = %q", got)
	}
}
