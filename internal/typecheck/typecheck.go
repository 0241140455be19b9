// Package typecheck implements olang's type checker, the second semantic
// pass. The first half resolves every declared type name in the program;
// the second traverses statements and expressions bottom-up, populating
// each Expression's inferredType slot and validating
// assignment/return/condition/constructor/method-call compatibility.
package typecheck

import (
	"fmt"
	"strings"

	"github.com/go-olang/olangc/internal/ast"
	"github.com/go-olang/olangc/internal/errors"
	"github.com/go-olang/olangc/internal/stdlib"
	"github.com/go-olang/olangc/internal/types"
)

// Checker runs the two type-checking sub-passes and accumulates
// diagnostics without aborting on the first one, so every problem in the
// program surfaces in a single compile.
type Checker struct {
	source string
	file   string
	diags  []*errors.Diagnostic

	// classTypes maps every user-declared class name to the *types.Type
	// built for it, so field/parameter/return-type resolution and
	// expression inference can share a single canonical instance per class.
	classTypes map[string]*types.Type
}

// New creates a Checker.
func New(source, file string) *Checker {
	return &Checker{source: source, file: file, classTypes: make(map[string]*types.Type)}
}

// Diagnostics returns every diagnostic recorded so far, in pass order.
func (c *Checker) Diagnostics() []*errors.Diagnostic { return c.diags }

func (c *Checker) report(n ast.Node, format string, args ...any) {
	c.diags = append(c.diags, errors.New(n.Span(), fmt.Sprintf(format, args...), c.source, c.file))
}

// Check runs pass 4.4a then pass 4.4b over prog. Callers should have
// already run internal/resolver and checked it produced no diagnostics.
func (c *Checker) Check(prog *ast.Program) {
	c.registerClassTypes(prog)
	c.resolveTypeNames(prog)
	c.inferProgram(prog)
}

func (c *Checker) registerClassTypes(prog *ast.Program) {
	for _, cls := range prog.Classes {
		c.classTypes[cls.Name] = types.NewClass(cls.Name, cls)
	}
}

func (c *Checker) classTypeOf(decl *ast.ClassDecl) *types.Type {
	if decl == nil {
		return nil
	}
	return c.classTypes[decl.Name]
}

// baseOf implements the callback types.Type.IsCompatibleWith needs to walk
// a ClassType's declared-base-class chain.
func (c *Checker) baseOf(t *types.Type) *types.Type {
	decl := ast.ClassDeclOf(t)
	if decl == nil || decl.Base == nil {
		return nil
	}
	return c.classTypeOf(decl.Base)
}

// --- pass 4.4a: type-name resolution ---

func (c *Checker) resolveTypeNames(prog *ast.Program) {
	for _, cls := range prog.Classes {
		for _, m := range cls.Members {
			switch member := m.(type) {
			case *ast.MethodDecl:
				for _, p := range member.Params {
					p.ResolvedType = c.resolveTypeName(p.DeclaredTypeName, p)
				}
				if member.ReturnTypeName == "" {
					member.ReturnType = types.Void
				} else {
					member.ReturnType = c.resolveTypeName(member.ReturnTypeName, member)
				}
			case *ast.ConstructorDecl:
				for _, p := range member.Params {
					p.ResolvedType = c.resolveTypeName(p.DeclaredTypeName, p)
				}
			}
		}
	}
}

// resolveTypeName accepts a built-in type name, an "Array[Inner]" form
// whose inner name recursively resolves, or the name of a previously
// registered class; anything else (including "String", which is never
// equipped with methods, a constructor, or emitter support) is reported
// as an unknown type against declarer's span.
func (c *Checker) resolveTypeName(name string, declarer ast.Node) *types.Type {
	if strings.HasPrefix(name, "Array[") && strings.HasSuffix(name, "]") {
		inner := name[len("Array[") : len(name)-1]
		elem := c.resolveTypeName(inner, declarer)
		if elem == nil {
			return nil
		}
		return types.NewArray(elem)
	}
	if t, ok := types.Builtin(name); ok {
		return t
	}
	if t, ok := c.classTypes[name]; ok {
		return t
	}
	c.report(declarer, "unknown type %q", name)
	return nil
}

// --- pass 4.4b: bottom-up type inference ---

// exprContext carries the information inference needs at any point inside
// a method/constructor body: the enclosing class (for `this` and field
// resolution) and the enclosing method's declared return type (nil inside
// a field initializer, where `this` and `return` are both unavailable).
type exprContext struct {
	class      *ast.ClassDecl
	returnType *types.Type
	allowThis  bool
}

func (c *Checker) inferProgram(prog *ast.Program) {
	// Field initializers are inferred for every class first, independent of
	// method bodies, so a method anywhere in the program can read a fully
	// resolved field type regardless of declaration order across classes.
	for _, cls := range prog.Classes {
		for _, m := range cls.Members {
			if vd, ok := m.(*ast.VariableDecl); ok {
				ctx := exprContext{class: cls}
				vd.ResolvedType = c.inferExpr(vd.Initializer, ctx)
			}
		}
	}

	for _, cls := range prog.Classes {
		for _, m := range cls.Members {
			switch member := m.(type) {
			case *ast.MethodDecl:
				if member.IsForwardDeclaration() {
					continue
				}
				ctx := exprContext{class: cls, returnType: member.ReturnType, allowThis: true}
				c.inferBlock(member.Body, ctx)
			case *ast.ConstructorDecl:
				ctx := exprContext{class: cls, returnType: types.Void, allowThis: true}
				c.inferBlock(member.Body, ctx)
			}
		}
	}
}

func (c *Checker) inferBlock(stmts []ast.Statement, ctx exprContext) {
	for _, s := range stmts {
		c.inferStmt(s, ctx)
	}
}

func (c *Checker) inferStmt(stmt ast.Statement, ctx exprContext) {
	switch s := stmt.(type) {
	case *ast.Assignment:
		valType := c.inferExpr(s.Value, ctx)
		if s.ResolvedTarget == nil {
			return
		}
		targetType := s.ResolvedTarget.EffectiveType()
		if valType == nil || targetType == nil {
			return
		}
		if !valType.IsCompatibleWith(targetType, c.baseOf) {
			c.report(s, "cannot assign %s to %s", valType, targetType)
		}
	case *ast.IfStatement:
		c.checkBoolean(s.Cond, ctx, "if condition")
		c.inferBlock(s.Then, ctx)
		c.inferBlock(s.Else, ctx)
	case *ast.WhileLoop:
		c.checkBoolean(s.Cond, ctx, "while condition")
		c.inferBlock(s.Body, ctx)
	case *ast.ReturnStatement:
		c.inferReturn(s, ctx)
	case *ast.VariableDeclStatement:
		s.Decl.ResolvedType = c.inferExpr(s.Decl.Initializer, ctx)
	case *ast.ExpressionStatement:
		c.inferExpr(s.Expr, ctx)
	case *ast.UnknownStatement:
		// placeholder from a parse error; nothing to infer
	}
}

func (c *Checker) checkBoolean(cond ast.Expression, ctx exprContext, what string) {
	t := c.inferExpr(cond, ctx)
	if t != nil && !t.Equals(types.Boolean) {
		c.report(cond, "%s must be Boolean, got %s", what, t)
	}
}

func (c *Checker) inferReturn(s *ast.ReturnStatement, ctx exprContext) {
	if s.Value == nil {
		if ctx.returnType != nil && !ctx.returnType.Equals(types.Void) {
			c.report(s, "missing return value; method must return %s", ctx.returnType)
		}
		return
	}
	valType := c.inferExpr(s.Value, ctx)
	if valType == nil || ctx.returnType == nil {
		return
	}
	if ctx.returnType.Equals(types.Void) {
		c.report(s, "unexpected return value in a method with no return type")
		return
	}
	if !valType.IsCompatibleWith(ctx.returnType, c.baseOf) {
		c.report(s, "return type mismatch: expected %s, got %s", ctx.returnType, valType)
	}
}

func (c *Checker) inferExpr(expr ast.Expression, ctx exprContext) *types.Type {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		e.SetType(types.Integer)
		return types.Integer
	case *ast.RealLiteral:
		e.SetType(types.Real)
		return types.Real
	case *ast.BooleanLiteral:
		e.SetType(types.Boolean)
		return types.Boolean
	case *ast.ThisExpr:
		if !ctx.allowThis {
			// internal/resolver already reported this; avoid a duplicate.
			return nil
		}
		t := c.classTypeOf(ctx.class)
		e.SetType(t)
		return t
	case *ast.IdentifierExpr:
		if e.ResolvedDecl == nil {
			return nil
		}
		t := e.ResolvedDecl.EffectiveType()
		e.SetType(t)
		return t
	case *ast.ConstructorCall:
		return c.inferConstructorCall(e, ctx)
	case *ast.MethodCall:
		return c.inferMethodCall(e, ctx)
	case *ast.MemberAccess:
		return c.inferMemberAccess(e, ctx)
	case *ast.UnknownExpression:
		return nil
	default:
		return nil
	}
}

// wrapperArgType validates a built-in wrapper constructor's single
// argument against exact: only an exact type match is accepted, with no
// Integer/Real promotion for any wrapper constructor.
func (c *Checker) wrapperArgType(e *ast.ConstructorCall, argTypes []*types.Type, exact *types.Type) *types.Type {
	if len(e.Args) != 1 {
		c.report(e, "%s constructor expects exactly 1 argument, got %d", e.ClassName, len(e.Args))
		return nil
	}
	if argTypes[0] == nil {
		return nil
	}
	if !argTypes[0].Equals(exact) {
		c.report(e, "%s constructor argument must be %s, got %s", e.ClassName, exact, argTypes[0])
		return nil
	}
	return exact
}

func (c *Checker) inferConstructorCall(e *ast.ConstructorCall, ctx exprContext) *types.Type {
	argTypes := make([]*types.Type, len(e.Args))
	for i, a := range e.Args {
		argTypes[i] = c.inferExpr(a, ctx)
	}

	switch e.ClassName {
	case "Integer":
		t := c.wrapperArgType(e, argTypes, types.Integer)
		e.SetType(t)
		return t
	case "Boolean":
		t := c.wrapperArgType(e, argTypes, types.Boolean)
		e.SetType(t)
		return t
	case "Real":
		t := c.wrapperArgType(e, argTypes, types.Real)
		e.SetType(t)
		return t
	case "Printer":
		if len(e.Args) != 0 {
			c.report(e, "Printer constructor expects no arguments, got %d", len(e.Args))
			return nil
		}
		e.SetType(types.Printer)
		return types.Printer
	default:
		if e.ResolvedClass == nil {
			// internal/resolver already reported the unknown class.
			return nil
		}
		ctor := c.findConstructor(e.ResolvedClass, argTypes)
		if ctor == nil {
			c.report(e, "no matching constructor for %s", signatureText(e.ClassName, argTypes))
			return nil
		}
		t := c.classTypeOf(e.ResolvedClass)
		e.SetType(t)
		return t
	}
}

func (c *Checker) findConstructor(decl *ast.ClassDecl, argTypes []*types.Type) *ast.ConstructorDecl {
	for _, ctor := range decl.Constructors() {
		if c.paramsCompatible(ctor.Params, argTypes) {
			return ctor
		}
	}
	return nil
}

func (c *Checker) paramsCompatible(params []*ast.Parameter, argTypes []*types.Type) bool {
	if len(params) != len(argTypes) {
		return false
	}
	for i, p := range params {
		if argTypes[i] == nil || p.ResolvedType == nil {
			return false
		}
		if !argTypes[i].IsCompatibleWith(p.ResolvedType, c.baseOf) {
			return false
		}
	}
	return true
}

func isLiteralTarget(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.IntegerLiteral, *ast.RealLiteral, *ast.BooleanLiteral:
		return true
	}
	return false
}

func (c *Checker) inferMethodCall(e *ast.MethodCall, ctx exprContext) *types.Type {
	targetType := c.inferExpr(e.Target, ctx)
	argTypes := make([]*types.Type, len(e.Args))
	for i, a := range e.Args {
		argTypes[i] = c.inferExpr(a, ctx)
	}
	if targetType == nil {
		return nil
	}

	if isLiteralTarget(e.Target) {
		c.report(e, "method call on a literal is not allowed; wrap it first, e.g. Integer(...).%s(...)", e.MethodName)
		return nil
	}

	if targetType.Kind == types.ArrayKind {
		return c.inferArrayMethodCall(e, targetType, argTypes)
	}

	if types.IsBuiltin(targetType.Name) {
		m, ok := stdlib.Lookup(targetType.Name, e.MethodName, argTypes)
		if !ok {
			c.report(e, "no method %s on %s", signatureText(e.MethodName, argTypes), targetType.Name)
			return nil
		}
		e.SetType(m.ReturnType)
		return m.ReturnType
	}

	decl := ast.ClassDeclOf(targetType)
	if decl == nil {
		return nil
	}
	method := c.findMethod(decl, e.MethodName, argTypes)
	if method == nil {
		c.report(e, "no method %s on class %q", signatureText(e.MethodName, argTypes), decl.Name)
		return nil
	}
	e.ResolvedMethod = method
	e.SetType(method.ReturnType)
	return method.ReturnType
}

// findMethod locates a method by exact-signature match first (the concrete
// argument types rendered the same way ast.MethodDecl.Signature renders
// its declared parameter types), falling back to name-based candidate
// search with per-argument compatibility, subclass-first along the
// inheritance chain (ast.ClassDecl.MethodsByName already walks that way).
func (c *Checker) findMethod(decl *ast.ClassDecl, name string, argTypes []*types.Type) *ast.MethodDecl {
	for _, t := range argTypes {
		if t == nil {
			return nil
		}
	}
	sig := ast.BuildSignature(name, typeNames(argTypes))
	if m, ok := decl.MethodBySignature(sig); ok {
		return m
	}
	for _, m := range decl.MethodsByName(name) {
		if c.paramsCompatible(m.Params, argTypes) {
			return m
		}
	}
	return nil
}

func (c *Checker) inferArrayMethodCall(e *ast.MethodCall, targetType *types.Type, argTypes []*types.Type) *types.Type {
	elem := targetType.Elem
	switch e.MethodName {
	case "get":
		if len(e.Args) != 1 || argTypes[0] == nil || !argTypes[0].Equals(types.Integer) {
			c.report(e, "Array.get expects a single Integer index argument")
			return nil
		}
		e.SetType(elem)
		return elem
	case "set":
		if len(e.Args) != 2 {
			c.report(e, "Array.set expects an Integer index and a %s value", elem)
			return nil
		}
		if argTypes[0] == nil || !argTypes[0].Equals(types.Integer) {
			c.report(e, "Array.set index must be Integer")
			return nil
		}
		if argTypes[1] == nil || !argTypes[1].IsCompatibleWith(elem, c.baseOf) {
			c.report(e, "Array.set value must be compatible with %s", elem)
			return nil
		}
		e.SetType(types.Void)
		return types.Void
	case "Length":
		if len(e.Args) != 0 {
			c.report(e, "Array.Length expects no arguments")
			return nil
		}
		e.SetType(types.Integer)
		return types.Integer
	default:
		c.report(e, "unknown Array method %q", e.MethodName)
		return nil
	}
}

func (c *Checker) inferMemberAccess(e *ast.MemberAccess, ctx exprContext) *types.Type {
	targetType := c.inferExpr(e.Target, ctx)
	if targetType == nil {
		return nil
	}
	if targetType.Kind != types.ClassKind || types.IsBuiltin(targetType.Name) {
		c.report(e, "member access requires a class-typed target, got %s", targetType)
		return nil
	}
	decl := ast.ClassDeclOf(targetType)
	if decl == nil {
		return nil
	}
	field, ok := decl.Field(e.MemberName)
	if !ok {
		c.report(e, "class %q has no field %q", decl.Name, e.MemberName)
		return nil
	}
	e.ResolvedField = field
	t := field.EffectiveType()
	e.SetType(t)
	return t
}

func typeNames(ts []*types.Type) []string {
	names := make([]string, len(ts))
	for i, t := range ts {
		if t == nil {
			names[i] = "?"
			continue
		}
		names[i] = t.String()
	}
	return names
}

func signatureText(name string, argTypes []*types.Type) string {
	return name + "(" + strings.Join(typeNames(argTypes), ",") + ")"
}
