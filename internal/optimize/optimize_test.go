package optimize

import (
	"testing"

	"github.com/go-olang/olangc/internal/ast"
	"github.com/go-olang/olangc/internal/errors"
	"github.com/go-olang/olangc/internal/lexer"
	"github.com/go-olang/olangc/internal/parser"
	"github.com/go-olang/olangc/internal/resolver"
	"github.com/go-olang/olangc/internal/typecheck"
)

func compile(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks := lexer.New(src).Lex()
	p := parser.New(toks)
	prog := p.ParseProgram()
	if p.HasErrors() {
		t.Fatalf("unexpected parse errors: %+v", p.Errors())
	}
	res := resolver.New(src, "t.olang")
	res.Resolve(prog)
	if errors.HasErrors(res.Diagnostics()) {
		t.Fatalf("unexpected resolver diagnostics: %v", res.Diagnostics())
	}
	c := typecheck.New(src, "t.olang")
	c.Check(prog)
	if len(c.Diagnostics()) != 0 {
		t.Fatalf("unexpected typecheck diagnostics: %v", c.Diagnostics())
	}
	return prog
}

func countExprNodes(e ast.Expression) int {
	switch v := e.(type) {
	case *ast.ConstructorCall:
		n := 1
		for _, a := range v.Args {
			n += countExprNodes(a)
		}
		return n
	case *ast.MethodCall:
		n := 1 + countExprNodes(v.Target)
		for _, a := range v.Args {
			n += countExprNodes(a)
		}
		return n
	case *ast.MemberAccess:
		return 1 + countExprNodes(v.Target)
	default:
		return 1
	}
}

func firstField(prog *ast.Program, className string) *ast.VariableDecl {
	for _, c := range prog.Classes {
		if c.Name != className {
			continue
		}
		for _, m := range c.Members {
			if vd, ok := m.(*ast.VariableDecl); ok {
				return vd
			}
		}
	}
	return nil
}

func TestDeadCodeAfterReturnRemoved(t *testing.T) {
	src := `
	class C is
		method f() : Integer is
			return Integer(1)
			var x : Integer(2)
		end
		this() is end
	end
	`
	prog := compile(t, src)
	stats := Run(prog)
	if stats.DeadStatementsRemoved != 1 {
		t.Fatalf("expected 1 dead statement removed, got %d", stats.DeadStatementsRemoved)
	}
	m := prog.Classes[0].Members[0].(*ast.MethodDecl)
	if len(m.Body) != 1 {
		t.Fatalf("expected body trimmed to 1 statement, got %d", len(m.Body))
	}
}

func TestDeadCodeInsideIfBranchRemoved(t *testing.T) {
	src := `
	class C is
		method f() is
			if Boolean(true) then
				return
				var x : Integer(2)
			end
		end
		this() is end
	end
	`
	prog := compile(t, src)
	stats := Run(prog)
	if stats.DeadStatementsRemoved != 1 {
		t.Fatalf("expected 1 dead statement removed, got %d", stats.DeadStatementsRemoved)
	}
}

func TestWhileLoopWithReturnIsNotTreatedAsTerminal(t *testing.T) {
	src := `
	class C is
		method f() : Integer is
			while Boolean(true) loop
				return Integer(1)
			end
			return Integer(2)
		end
		this() is end
	end
	`
	prog := compile(t, src)
	stats := Run(prog)
	if stats.DeadStatementsRemoved != 0 {
		t.Fatalf("expected no statements removed past the loop, got %d", stats.DeadStatementsRemoved)
	}
	m := prog.Classes[0].Members[0].(*ast.MethodDecl)
	if len(m.Body) != 2 {
		t.Fatalf("expected both the loop and the trailing return to survive, got %d statements", len(m.Body))
	}
}

func TestConstantFoldingChainedArithmetic(t *testing.T) {
	src := `class ConstFold is var r : Integer(2).Plus(Integer(3)).Mult(Integer(4)) this() is end end`
	prog := compile(t, src)
	Run(prog)
	field := firstField(prog, "ConstFold")
	cc, ok := field.Initializer.(*ast.ConstructorCall)
	if !ok || cc.ClassName != "Integer" || !cc.IsBuiltinWrapperLiteral() {
		t.Fatalf("expected a single Integer literal wrapper, got %v", field.Initializer)
	}
	if cc.Args[0].(*ast.IntegerLiteral).Value != 20 {
		t.Fatalf("expected folded value 20, got %d", cc.Args[0].(*ast.IntegerLiteral).Value)
	}
}

func TestConstantFoldingSelfUnwrap(t *testing.T) {
	src := `class C is var v : Boolean(Boolean(false)) this() is end end`
	prog := compile(t, src)
	Run(prog)
	field := firstField(prog, "C")
	cc, ok := field.Initializer.(*ast.ConstructorCall)
	if !ok || cc.ClassName != "Boolean" || !cc.IsBuiltinWrapperLiteral() {
		t.Fatalf("expected a Boolean literal wrapper, got %v", field.Initializer)
	}
	if cc.Args[0].(*ast.BooleanLiteral).Value != false {
		t.Fatalf("expected folded value false, got %v", cc.Args[0].(*ast.BooleanLiteral).Value)
	}
}

func TestConstantFoldingIntegerDivByZeroLeavesUnfolded(t *testing.T) {
	src := `class C is var v : Integer(5).Div(Integer(0)) this() is end end`
	prog := compile(t, src)
	Run(prog)
	field := firstField(prog, "C")
	call, ok := field.Initializer.(*ast.MethodCall)
	if !ok || call.MethodName != "Div" {
		t.Fatalf("expected Div(0) to remain unfolded, got %v", field.Initializer)
	}
}

func TestConstantFoldingRealEqualUsesTolerance(t *testing.T) {
	src := `class C is var v : Real(1.0).Div(Real(3.0)).Mult(Real(3.0)).Equal(Real(1.0)) this() is end end`
	prog := compile(t, src)
	Run(prog)
	field := firstField(prog, "C")
	cc, ok := field.Initializer.(*ast.ConstructorCall)
	if !ok || cc.ClassName != "Boolean" || !cc.IsBuiltinWrapperLiteral() {
		t.Fatalf("expected a folded Boolean result, got %v", field.Initializer)
	}
	if cc.Args[0].(*ast.BooleanLiteral).Value != true {
		t.Fatalf("expected tolerance-based Equal to fold true, got %v", cc.Args[0].(*ast.BooleanLiteral).Value)
	}
}

func TestConstantFoldingLeavesNonLiteralTargetAlone(t *testing.T) {
	src := `
	class C is
		method f(n : Integer) : Integer is return n.Plus(Integer(1)) end
		this() is end
	end
	`
	prog := compile(t, src)
	stats := Run(prog)
	if stats.FoldsApplied != 0 {
		t.Fatalf("expected no folds against a non-literal target, got %d", stats.FoldsApplied)
	}
}

func TestConstantFoldingIsIdempotentAndMonotonic(t *testing.T) {
	src := `class ConstFold is var r : Integer(2).Plus(Integer(3)).Mult(Integer(4)).Minus(Integer(1)).Plus(Integer(Integer(0).Plus(Integer(0)))) this() is end end`
	prog := compile(t, src)
	before := countExprNodes(firstField(prog, "ConstFold").Initializer)
	stats := Run(prog)
	after := countExprNodes(firstField(prog, "ConstFold").Initializer)
	if after > before {
		t.Fatalf("expected expression count to be non-increasing, went from %d to %d", before, after)
	}
	if stats.FoldOverflow {
		t.Fatalf("did not expect the 10-iteration cap to be hit for this input")
	}

	again := Run(prog)
	if again.FoldsApplied != 0 {
		t.Fatalf("expected a second run to be a no-op, got %d more folds", again.FoldsApplied)
	}
}
