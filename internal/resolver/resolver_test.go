package resolver

import (
	"strings"
	"testing"

	"github.com/go-olang/olangc/internal/ast"
	"github.com/go-olang/olangc/internal/errors"
	"github.com/go-olang/olangc/internal/lexer"
	"github.com/go-olang/olangc/internal/parser"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks := lexer.New(src).Lex()
	p := parser.New(toks)
	prog := p.ParseProgram()
	if p.HasErrors() {
		t.Fatalf("unexpected parse errors: %+v", p.Errors())
	}
	return prog
}

func diagMessages(r *Resolver) []string {
	out := make([]string, len(r.Diagnostics()))
	for i, d := range r.Diagnostics() {
		out[i] = d.Message
	}
	return out
}

func containsSubstring(msgs []string, sub string) bool {
	for _, m := range msgs {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}

func TestResolveFieldThroughInheritance(t *testing.T) {
	src := `
	class Animal is
		var legs : Integer(4)
	end
	class Dog extends Animal is
		this() is end
		method legCount() : Integer => legs
	end
	`
	prog := mustParse(t, src)
	r := New(src, "test.olang")
	r.Resolve(prog)
	if len(r.Diagnostics()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diagMessages(r))
	}

	var dog *ast.ClassDecl
	for _, c := range prog.Classes {
		if c.Name == "Dog" {
			dog = c
		}
	}
	method := dog.Members[1].(*ast.MethodDecl)
	ret := method.Body[0].(*ast.ReturnStatement)
	ident := ret.Value.(*ast.IdentifierExpr)
	if ident.ResolvedDecl == nil || ident.ResolvedDecl.Name != "legs" {
		t.Errorf("expected legs field resolved through inheritance, got %+v", ident.ResolvedDecl)
	}
}

func TestResolveUndefinedIdentifier(t *testing.T) {
	src := `class C is method f() is return missing end end`
	prog := mustParse(t, src)
	r := New(src, "test.olang")
	r.Resolve(prog)
	if !containsSubstring(diagMessages(r), `undefined identifier "missing"`) {
		t.Errorf("expected undefined identifier diagnostic, got %v", diagMessages(r))
	}
}

func TestResolveDuplicateClassName(t *testing.T) {
	src := `class C is this() is end end class C is this() is end end`
	prog := mustParse(t, src)
	r := New(src, "test.olang")
	r.Resolve(prog)
	if !containsSubstring(diagMessages(r), `duplicate class name "C"`) {
		t.Errorf("expected duplicate class name diagnostic, got %v", diagMessages(r))
	}
}

func TestResolveUnknownBaseClass(t *testing.T) {
	src := `class Dog extends Ghost is this() is end end`
	prog := mustParse(t, src)
	r := New(src, "test.olang")
	r.Resolve(prog)
	if !containsSubstring(diagMessages(r), `unknown base class "Ghost"`) {
		t.Errorf("expected unknown base class diagnostic, got %v", diagMessages(r))
	}
}

func TestResolveCannotExtendBuiltin(t *testing.T) {
	src := `class Dog extends Integer is this() is end end`
	prog := mustParse(t, src)
	r := New(src, "test.olang")
	r.Resolve(prog)
	if !containsSubstring(diagMessages(r), `cannot extend built-in type "Integer"`) {
		t.Errorf("expected built-in base class diagnostic, got %v", diagMessages(r))
	}
}

func TestResolveCircularInheritance(t *testing.T) {
	src := `
	class A extends B is this() is end end
	class B extends A is this() is end end
	`
	prog := mustParse(t, src)
	r := New(src, "test.olang")
	r.Resolve(prog)
	if !containsSubstring(diagMessages(r), "circular inheritance detected") {
		t.Errorf("expected circular inheritance diagnostic, got %v", diagMessages(r))
	}
}

func TestResolveDuplicateField(t *testing.T) {
	src := `class C is var x : Integer(1) var x : Integer(2) this() is end end`
	prog := mustParse(t, src)
	r := New(src, "test.olang")
	r.Resolve(prog)
	if !containsSubstring(diagMessages(r), `duplicate field "x"`) {
		t.Errorf("expected duplicate field diagnostic, got %v", diagMessages(r))
	}
}

func TestResolveThisOutsideMethodContext(t *testing.T) {
	src := `class C is var x : Integer(this) this() is end end`
	prog := mustParse(t, src)
	r := New(src, "test.olang")
	r.Resolve(prog)
	if !containsSubstring(diagMessages(r), "'this' used outside a method or constructor context") {
		t.Errorf("expected 'this'-outside-context diagnostic, got %v", diagMessages(r))
	}
}

func TestResolveConstructorCallUnknownClass(t *testing.T) {
	src := `class C is method f() is var v : Ghost() end end`
	prog := mustParse(t, src)
	r := New(src, "test.olang")
	r.Resolve(prog)
	if !containsSubstring(diagMessages(r), `unknown class "Ghost"`) {
		t.Errorf("expected unknown class diagnostic, got %v", diagMessages(r))
	}
}

func TestResolveLocalVariableAndParameterBinding(t *testing.T) {
	src := `class C is method f(n : Integer) is var doubled : n return doubled end end`
	prog := mustParse(t, src)
	r := New(src, "test.olang")
	r.Resolve(prog)
	if len(r.Diagnostics()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diagMessages(r))
	}

	m := prog.Classes[0].Members[0].(*ast.MethodDecl)
	vds := m.Body[0].(*ast.VariableDeclStatement)
	identInit := vds.Decl.Initializer.(*ast.IdentifierExpr)
	if identInit.ResolvedDecl == nil || !identInit.ResolvedDecl.IsParameter {
		t.Errorf("expected 'n' to resolve to the parameter, got %+v", identInit.ResolvedDecl)
	}

	ret := m.Body[1].(*ast.ReturnStatement)
	identRet := ret.Value.(*ast.IdentifierExpr)
	if identRet.ResolvedDecl != vds.Decl {
		t.Errorf("expected 'doubled' to resolve to its own local decl, got %+v", identRet.ResolvedDecl)
	}
}

func TestResolveUnusedLocalVariableWarning(t *testing.T) {
	src := `class C is method f() is var unread : Integer(1) return Integer(0) end end`
	prog := mustParse(t, src)
	r := New(src, "test.olang")
	r.Resolve(prog)

	if !containsSubstring(diagMessages(r), `local variable "unread" is declared but never used`) {
		t.Fatalf("expected unused local variable diagnostic, got %v", diagMessages(r))
	}
	for _, d := range r.Diagnostics() {
		if d.Severity != errors.SeverityWarning {
			t.Errorf("expected unused local diagnostic to be a warning, got severity %v", d.Severity)
		}
	}
}

func TestResolveUsedLocalVariableNoWarning(t *testing.T) {
	src := `class C is method f() is var n : Integer(1) return n end end`
	prog := mustParse(t, src)
	r := New(src, "test.olang")
	r.Resolve(prog)

	if len(r.Diagnostics()) != 0 {
		t.Errorf("expected no diagnostics for a used local, got %v", diagMessages(r))
	}
}

func TestResolveLocalVariableAssignedButNeverReadStillWarns(t *testing.T) {
	src := `class C is method f() is var n : Integer(1) n := Integer(2) return Integer(0) end end`
	prog := mustParse(t, src)
	r := New(src, "test.olang")
	r.Resolve(prog)

	if !containsSubstring(diagMessages(r), `local variable "n" is declared but never used`) {
		t.Errorf("expected assignment-only local to still warn as unused, got %v", diagMessages(r))
	}
}
