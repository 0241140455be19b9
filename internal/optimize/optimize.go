// Package optimize implements olang's two AST-level optimizations:
// dead-code-after-return elimination and iterative constant folding over
// the built-in Integer/Boolean/Real operators. Both passes run after
// internal/typecheck has annotated the tree and before internal/emitter
// consumes it.
package optimize

import (
	"math"

	"github.com/go-olang/olangc/internal/ast"
	"github.com/go-olang/olangc/internal/span"
	"github.com/go-olang/olangc/internal/types"
)

// maxFoldIterations bounds the constant-folding driver's worst-case
// wall-clock on pathological inputs; reaching it is reported, not fatal.
const maxFoldIterations = 10

// realEqualTolerance is the fixed tolerance Real.Equal folds against.
const realEqualTolerance = 1e-9

// Stats summarizes what a Run did, for diagnostics/logging.
type Stats struct {
	DeadStatementsRemoved int
	FoldIterations        int
	FoldsApplied          int
	FoldOverflow          bool // true iff the 10-iteration cap was hit
}

// Run eliminates dead code after return once, then runs the constant folder
// to a fixed point (or the iteration cap), mutating prog in place.
func Run(prog *ast.Program) Stats {
	var stats Stats
	stats.DeadStatementsRemoved = eliminateDeadCode(prog)
	stats.FoldIterations, stats.FoldsApplied, stats.FoldOverflow = foldConstants(prog)
	return stats
}

// --- dead-code-after-return elimination ---

func eliminateDeadCode(prog *ast.Program) int {
	removed := 0
	for _, c := range prog.Classes {
		for _, m := range c.Members {
			switch member := m.(type) {
			case *ast.MethodDecl:
				if member.Body != nil {
					member.Body = trimBlock(member.Body, &removed)
				}
			case *ast.ConstructorDecl:
				member.Body = trimBlock(member.Body, &removed)
			}
		}
	}
	return removed
}

// trimBlock removes every statement strictly after the first
// ReturnStatement in stmts, after first recursing into nested blocks (an
// if-branch or loop body may itself have dead code regardless of whether
// the enclosing block is ever reached past that point).
func trimBlock(stmts []ast.Statement, removed *int) []ast.Statement {
	for i, s := range stmts {
		trimNested(s, removed)
		if _, ok := s.(*ast.ReturnStatement); ok {
			*removed += len(stmts) - (i + 1)
			return stmts[:i+1]
		}
	}
	return stmts
}

// trimNested recurses into the blocks an if-statement or while-loop owns.
// A while-loop's body is trimmed like any other block, but the loop itself
// never counts as terminating its enclosing block — it may run zero times,
// so a return inside it cannot be assumed to execute.
func trimNested(s ast.Statement, removed *int) {
	switch st := s.(type) {
	case *ast.IfStatement:
		st.Then = trimBlock(st.Then, removed)
		if st.Else != nil {
			st.Else = trimBlock(st.Else, removed)
		}
	case *ast.WhileLoop:
		st.Body = trimBlock(st.Body, removed)
	}
}

// --- iterative constant folding ---

func foldConstants(prog *ast.Program) (iterations, totalFolds int, overflow bool) {
	for iterations = 1; iterations <= maxFoldIterations; iterations++ {
		changed := 0
		foldProgramPass(prog, &changed)
		totalFolds += changed
		if changed == 0 {
			return iterations, totalFolds, false
		}
	}
	return maxFoldIterations, totalFolds, true
}

func foldProgramPass(prog *ast.Program, changed *int) {
	for _, c := range prog.Classes {
		for _, m := range c.Members {
			switch member := m.(type) {
			case *ast.VariableDecl:
				member.Initializer = foldExprTree(member.Initializer, changed)
			case *ast.MethodDecl:
				foldBlock(member.Body, changed)
			case *ast.ConstructorDecl:
				foldBlock(member.Body, changed)
			}
		}
	}
}

func foldBlock(stmts []ast.Statement, changed *int) {
	for _, s := range stmts {
		foldStmt(s, changed)
	}
}

func foldStmt(s ast.Statement, changed *int) {
	switch st := s.(type) {
	case *ast.Assignment:
		st.Value = foldExprTree(st.Value, changed)
	case *ast.IfStatement:
		st.Cond = foldExprTree(st.Cond, changed)
		foldBlock(st.Then, changed)
		foldBlock(st.Else, changed)
	case *ast.WhileLoop:
		st.Cond = foldExprTree(st.Cond, changed)
		foldBlock(st.Body, changed)
	case *ast.ReturnStatement:
		if st.Value != nil {
			st.Value = foldExprTree(st.Value, changed)
		}
	case *ast.VariableDeclStatement:
		st.Decl.Initializer = foldExprTree(st.Decl.Initializer, changed)
	case *ast.ExpressionStatement:
		st.Expr = foldExprTree(st.Expr, changed)
	}
}

// foldExprTree folds e bottom-up: children are rewritten first, then this
// node is tried. *changed is incremented once per node actually rewritten
// (self-unwrap or a method-call fold), giving the driver a rewrite count.
func foldExprTree(e ast.Expression, changed *int) ast.Expression {
	switch v := e.(type) {
	case *ast.ConstructorCall:
		for i, a := range v.Args {
			v.Args[i] = foldExprTree(a, changed)
		}
		if inner, ok := unwrapSelf(v); ok {
			*changed++
			return inner
		}
		return v
	case *ast.MethodCall:
		v.Target = foldExprTree(v.Target, changed)
		for i, a := range v.Args {
			v.Args[i] = foldExprTree(a, changed)
		}
		if folded, ok := foldMethodCall(v); ok {
			*changed++
			return folded
		}
		return v
	case *ast.MemberAccess:
		v.Target = foldExprTree(v.Target, changed)
		return v
	default:
		return e
	}
}

// unwrapSelf implements "a wrapper around itself with a literal unwraps",
// e.g. Boolean(Boolean(false)) -> Boolean(false).
func unwrapSelf(cc *ast.ConstructorCall) (ast.Expression, bool) {
	if len(cc.Args) != 1 {
		return nil, false
	}
	inner, ok := cc.Args[0].(*ast.ConstructorCall)
	if !ok || inner.ClassName != cc.ClassName {
		return nil, false
	}
	if !inner.IsBuiltinWrapperLiteral() {
		return nil, false
	}
	return inner, true
}

// foldMethodCall recognizes a MethodCall whose target and (if any) argument
// are built-in wrapper literals, and evaluates it per the operation tables
// in internal/stdlib, returning a new built-in-wrapper-literal expression.
func foldMethodCall(call *ast.MethodCall) (ast.Expression, bool) {
	target, ok := call.Target.(*ast.ConstructorCall)
	if !ok || !target.IsBuiltinWrapperLiteral() {
		return nil, false
	}
	sp := call.Sp
	switch target.ClassName {
	case "Integer":
		return foldIntegerMethod(call, target.Args[0].(*ast.IntegerLiteral).Value, sp)
	case "Boolean":
		return foldBooleanMethod(call, target.Args[0].(*ast.BooleanLiteral).Value, sp)
	case "Real":
		return foldRealMethod(call, target.Args[0].(*ast.RealLiteral).Value, sp)
	}
	return nil, false
}

func literalArgInt(args []ast.Expression) (int64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	cc, ok := args[0].(*ast.ConstructorCall)
	if !ok || cc.ClassName != "Integer" || !cc.IsBuiltinWrapperLiteral() {
		return 0, false
	}
	return cc.Args[0].(*ast.IntegerLiteral).Value, true
}

func literalArgReal(args []ast.Expression) (float64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	cc, ok := args[0].(*ast.ConstructorCall)
	if !ok || cc.ClassName != "Real" || !cc.IsBuiltinWrapperLiteral() {
		return 0, false
	}
	return cc.Args[0].(*ast.RealLiteral).Value, true
}

func literalArgBool(args []ast.Expression) (bool, bool) {
	if len(args) != 1 {
		return false, false
	}
	cc, ok := args[0].(*ast.ConstructorCall)
	if !ok || cc.ClassName != "Boolean" || !cc.IsBuiltinWrapperLiteral() {
		return false, false
	}
	return cc.Args[0].(*ast.BooleanLiteral).Value, true
}

func foldIntegerMethod(call *ast.MethodCall, a int64, sp span.Span) (ast.Expression, bool) {
	if len(call.Args) == 0 {
		switch call.MethodName {
		case "UnaryMinus":
			return wrapInt(-a, sp), true
		case "UnaryPlus":
			return wrapInt(a, sp), true
		case "toReal":
			return wrapReal(float64(a), sp), true
		}
		return nil, false
	}
	b, ok := literalArgInt(call.Args)
	if !ok {
		return nil, false
	}
	switch call.MethodName {
	case "Plus":
		return wrapInt(a+b, sp), true
	case "Minus":
		return wrapInt(a-b, sp), true
	case "Mult":
		return wrapInt(a*b, sp), true
	case "Div":
		if b == 0 {
			return nil, false
		}
		return wrapInt(a/b, sp), true
	case "Rem":
		if b == 0 {
			return nil, false
		}
		return wrapInt(a%b, sp), true
	case "Less":
		return wrapBool(a < b, sp), true
	case "LessEqual":
		return wrapBool(a <= b, sp), true
	case "Greater":
		return wrapBool(a > b, sp), true
	case "GreaterEqual":
		return wrapBool(a >= b, sp), true
	case "Equal":
		return wrapBool(a == b, sp), true
	}
	return nil, false
}

func foldBooleanMethod(call *ast.MethodCall, a bool, sp span.Span) (ast.Expression, bool) {
	if len(call.Args) == 0 {
		if call.MethodName == "Not" {
			return wrapBool(!a, sp), true
		}
		return nil, false
	}
	b, ok := literalArgBool(call.Args)
	if !ok {
		return nil, false
	}
	switch call.MethodName {
	case "And":
		return wrapBool(a && b, sp), true
	case "Or":
		return wrapBool(a || b, sp), true
	case "Xor":
		return wrapBool(a != b, sp), true
	}
	return nil, false
}

func foldRealMethod(call *ast.MethodCall, a float64, sp span.Span) (ast.Expression, bool) {
	if len(call.Args) == 0 {
		switch call.MethodName {
		case "UnaryMinus":
			return wrapReal(-a, sp), true
		case "UnaryPlus":
			return wrapReal(a, sp), true
		case "toInteger":
			return wrapInt(int64(a), sp), true
		}
		return nil, false
	}
	b, ok := literalArgReal(call.Args)
	if !ok {
		return nil, false
	}
	switch call.MethodName {
	case "Plus":
		return wrapReal(a+b, sp), true
	case "Minus":
		return wrapReal(a-b, sp), true
	case "Mult":
		return wrapReal(a*b, sp), true
	case "Div":
		return wrapReal(a/b, sp), true
	case "Rem":
		return wrapReal(math.Mod(a, b), sp), true
	case "Less":
		return wrapBool(a < b, sp), true
	case "LessEqual":
		return wrapBool(a <= b, sp), true
	case "Greater":
		return wrapBool(a > b, sp), true
	case "GreaterEqual":
		return wrapBool(a >= b, sp), true
	case "Equal":
		return wrapBool(math.Abs(a-b) < realEqualTolerance, sp), true
	}
	return nil, false
}

func wrapInt(v int64, sp span.Span) *ast.ConstructorCall {
	lit := &ast.IntegerLiteral{Value: v, Sp: sp}
	lit.SetType(types.Integer)
	cc := &ast.ConstructorCall{ClassName: "Integer", Args: []ast.Expression{lit}, Sp: sp}
	cc.SetType(types.Integer)
	return cc
}

func wrapReal(v float64, sp span.Span) *ast.ConstructorCall {
	lit := &ast.RealLiteral{Value: v, Sp: sp}
	lit.SetType(types.Real)
	cc := &ast.ConstructorCall{ClassName: "Real", Args: []ast.Expression{lit}, Sp: sp}
	cc.SetType(types.Real)
	return cc
}

func wrapBool(v bool, sp span.Span) *ast.ConstructorCall {
	lit := &ast.BooleanLiteral{Value: v, Sp: sp}
	lit.SetType(types.Boolean)
	cc := &ast.ConstructorCall{ClassName: "Boolean", Args: []ast.Expression{lit}, Sp: sp}
	cc.SetType(types.Boolean)
	return cc
}
