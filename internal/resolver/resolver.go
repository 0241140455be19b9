// Package resolver implements olang's symbol table builder, the first of
// the two semantic passes. It registers every class,
// wires up inheritance, populates field/method/constructor tables, and
// resolves every identifier and constructor-call class name against a
// lexical scope chain. Method/member-name resolution on MethodCall and
// MemberAccess targets is deferred to internal/typecheck.
package resolver

import (
	"fmt"

	"github.com/go-olang/olangc/internal/ast"
	"github.com/go-olang/olangc/internal/errors"
	"github.com/go-olang/olangc/internal/scope"
	"github.com/go-olang/olangc/internal/types"
)

// Resolver runs the three symbol-table-builder sub-passes over a Program
// and accumulates diagnostics; it never aborts early so every pass-local
// problem surfaces in one compile.
type Resolver struct {
	source string
	file   string
	diags  []*errors.Diagnostic
	global *scope.GlobalScope
}

// New creates a Resolver. source and file are carried on every Diagnostic
// so Format can render the offending source line.
func New(source, file string) *Resolver {
	return &Resolver{source: source, file: file, global: scope.NewGlobalScope()}
}

// Diagnostics returns every diagnostic recorded so far, in pass order.
func (r *Resolver) Diagnostics() []*errors.Diagnostic { return r.diags }

// Global returns the GlobalScope built by Resolve, containing every
// registered class and the pre-seeded built-in type names.
func (r *Resolver) Global() *scope.GlobalScope { return r.global }

func (r *Resolver) report(s ast.Node, format string, args ...any) {
	r.diags = append(r.diags, errors.New(s.Span(), fmt.Sprintf(format, args...), r.source, r.file))
}

// Resolve runs sub-passes 1-3 over prog and returns the populated
// GlobalScope. Callers should check Diagnostics()/errors.HasErrors before
// proceeding to internal/typecheck, so typecheck never runs over an
// unresolved or partially-resolved tree.
func (r *Resolver) Resolve(prog *ast.Program) *scope.GlobalScope {
	r.registerClasses(prog)
	r.wireInheritance(prog)
	r.populateMemberTables(prog)
	r.resolveBodies(prog)
	return r.global
}

// --- sub-pass 1: class registration, base-class wiring, cycle detection ---

func (r *Resolver) registerClasses(prog *ast.Program) {
	for _, name := range []string{"Integer", "Boolean", "Real", "Printer"} {
		t, _ := types.Builtin(name)
		_ = r.global.Define(&scope.Symbol{Name: name, Payload: t})
	}

	for _, c := range prog.Classes {
		if err := r.global.Define(&scope.Symbol{Name: c.Name, Payload: c}); err != nil {
			r.report(c, "duplicate class name %q", c.Name)
		}
	}
}

func (r *Resolver) wireInheritance(prog *ast.Program) {
	for _, c := range prog.Classes {
		if c.BaseName == "" {
			continue
		}
		if c.BaseName == c.Name {
			r.report(c, "class %q cannot extend itself", c.Name)
			continue
		}
		sym, ok := r.global.Resolve(c.BaseName)
		if !ok {
			r.report(c, "unknown base class %q", c.BaseName)
			continue
		}
		base, ok := sym.Payload.(*ast.ClassDecl)
		if !ok {
			r.report(c, "class %q cannot extend built-in type %q", c.Name, c.BaseName)
			continue
		}
		c.Base = base
	}

	for _, c := range prog.Classes {
		r.checkInheritanceCycle(c)
	}
}

func (r *Resolver) checkInheritanceCycle(start *ast.ClassDecl) {
	visited := map[*ast.ClassDecl]bool{start: true}
	for cur := start.Base; cur != nil; cur = cur.Base {
		if visited[cur] {
			r.report(start, "circular inheritance detected starting at class %q", start.Name)
			return
		}
		visited[cur] = true
	}
}

// --- sub-pass 2: member table population ---

func (r *Resolver) populateMemberTables(prog *ast.Program) {
	for _, c := range prog.Classes {
		for _, m := range c.Members {
			switch member := m.(type) {
			case *ast.VariableDecl:
				member.IsField = true
				if err := c.Define(&scope.Symbol{Name: member.Name, Payload: member}); err != nil {
					r.report(member, "%s", err.Error())
				}
			case *ast.MethodDecl:
				if r.hasDuplicateParamNames(member.Params) {
					r.report(member, "duplicate parameter name in method %q", member.Name)
				}
				if err := c.DefineMethod(member); err != nil {
					r.report(member, "%s", err.Error())
				}
			case *ast.ConstructorDecl:
				if r.hasDuplicateParamNames(member.Params) {
					r.report(member, "duplicate parameter name in constructor of class %q", c.Name)
				}
				if err := c.DefineConstructor(member); err != nil {
					r.report(member, "%s", err.Error())
				}
			}
		}
	}
}

func (r *Resolver) hasDuplicateParamNames(params []*ast.Parameter) bool {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if seen[p.Name] {
			return true
		}
		seen[p.Name] = true
	}
	return false
}

// --- sub-pass 3: body resolution ---

func (r *Resolver) resolveBodies(prog *ast.Program) {
	for _, c := range prog.Classes {
		for _, m := range c.Members {
			switch member := m.(type) {
			case *ast.VariableDecl:
				// Field initializers run before any instance exists; `this`
				// is not yet bound there. There is no enclosing local scope
				// to track unused declarations against.
				r.resolveExpr(member.Initializer, c, false, nil)
			case *ast.MethodDecl:
				r.resolveBody(c, member.Params, member.Body)
			case *ast.ConstructorDecl:
				r.resolveBody(c, member.Params, member.Body)
			}
		}
	}
}

func (r *Resolver) resolveBody(c *ast.ClassDecl, params []*ast.Parameter, body []ast.Statement) {
	local := scope.NewLocalScope(c)
	for _, p := range params {
		decl := ast.NewParameterVariableDecl(p)
		if err := local.Define(&scope.Symbol{Name: p.Name, Payload: decl}); err != nil {
			r.report(p, "duplicate parameter name %q", p.Name)
		}
	}
	locals := newLocalUsage()
	for _, stmt := range body {
		r.resolveStmt(stmt, local, true, locals)
	}
	r.reportUnusedLocals(locals)
}

// localUsage tracks every method-local `var` declared within one method or
// constructor body, in declaration order, and whether each one was ever
// read back by an IdentifierExpr. Assigning to a local does not count as
// a read: a variable that is only ever written to is just as unused as
// one never touched again.
type localUsage struct {
	order []*ast.VariableDecl
	read  map[*ast.VariableDecl]bool
}

func newLocalUsage() *localUsage {
	return &localUsage{read: make(map[*ast.VariableDecl]bool)}
}

func (u *localUsage) declare(decl *ast.VariableDecl) {
	u.order = append(u.order, decl)
	u.read[decl] = false
}

func (u *localUsage) markRead(decl *ast.VariableDecl) {
	if u == nil {
		return
	}
	if _, tracked := u.read[decl]; tracked {
		u.read[decl] = true
	}
}

// reportUnusedLocals emits a warning for every tracked local that was
// never read, in declaration order.
func (r *Resolver) reportUnusedLocals(locals *localUsage) {
	for _, decl := range locals.order {
		if !locals.read[decl] {
			r.diags = append(r.diags, errors.NewWarning(decl.Span(),
				fmt.Sprintf("local variable %q is declared but never used", decl.Name), r.source, r.file))
		}
	}
}

func (r *Resolver) resolveStmt(stmt ast.Statement, sc scope.Scope, allowThis bool, locals *localUsage) {
	switch s := stmt.(type) {
	case *ast.Assignment:
		r.resolveExpr(s.Value, sc, allowThis, locals)
		sym, ok := sc.ResolveRecursive(s.TargetName)
		if !ok {
			r.report(s, "undefined identifier %q", s.TargetName)
			return
		}
		decl, ok := sym.Payload.(*ast.VariableDecl)
		if !ok {
			r.report(s, "%q does not name a variable or field", s.TargetName)
			return
		}
		s.ResolvedTarget = decl
	case *ast.IfStatement:
		r.resolveExpr(s.Cond, sc, allowThis, locals)
		for _, inner := range s.Then {
			r.resolveStmt(inner, sc, allowThis, locals)
		}
		for _, inner := range s.Else {
			r.resolveStmt(inner, sc, allowThis, locals)
		}
	case *ast.WhileLoop:
		r.resolveExpr(s.Cond, sc, allowThis, locals)
		for _, inner := range s.Body {
			r.resolveStmt(inner, sc, allowThis, locals)
		}
	case *ast.ReturnStatement:
		if s.Value != nil {
			r.resolveExpr(s.Value, sc, allowThis, locals)
		}
	case *ast.VariableDeclStatement:
		r.resolveExpr(s.Decl.Initializer, sc, allowThis, locals)
		if err := sc.Define(&scope.Symbol{Name: s.Decl.Name, Payload: s.Decl}); err != nil {
			r.report(s, "duplicate local variable name %q", s.Decl.Name)
			return
		}
		locals.declare(s.Decl)
	case *ast.ExpressionStatement:
		r.resolveExpr(s.Expr, sc, allowThis, locals)
	case *ast.UnknownStatement:
		// placeholder from a parse error; nothing to resolve
	}
}

func (r *Resolver) resolveExpr(expr ast.Expression, sc scope.Scope, allowThis bool, locals *localUsage) {
	switch e := expr.(type) {
	case *ast.IdentifierExpr:
		sym, ok := sc.ResolveRecursive(e.Name)
		if !ok {
			r.report(e, "undefined identifier %q", e.Name)
			return
		}
		decl, ok := sym.Payload.(*ast.VariableDecl)
		if !ok {
			r.report(e, "%q does not name a variable or field", e.Name)
			return
		}
		e.ResolvedDecl = decl
		locals.markRead(decl)
	case *ast.ConstructorCall:
		for _, a := range e.Args {
			r.resolveExpr(a, sc, allowThis, locals)
		}
		if types.IsBuiltin(e.ClassName) {
			return
		}
		sym, ok := r.global.Resolve(e.ClassName)
		if !ok {
			r.report(e, "unknown class %q", e.ClassName)
			return
		}
		decl, ok := sym.Payload.(*ast.ClassDecl)
		if !ok {
			r.report(e, "unknown class %q", e.ClassName)
			return
		}
		e.ResolvedClass = decl
	case *ast.MethodCall:
		r.resolveExpr(e.Target, sc, allowThis, locals)
		for _, a := range e.Args {
			r.resolveExpr(a, sc, allowThis, locals)
		}
	case *ast.MemberAccess:
		r.resolveExpr(e.Target, sc, allowThis, locals)
	case *ast.ThisExpr:
		if !allowThis {
			r.report(e, "'this' used outside a method or constructor context")
		}
	case *ast.IntegerLiteral, *ast.RealLiteral, *ast.BooleanLiteral, *ast.UnknownExpression:
		// no identifiers to resolve
	}
}
