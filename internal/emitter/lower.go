package emitter

import (
	"fmt"

	"github.com/go-olang/olangc/internal/ast"
	"github.com/go-olang/olangc/internal/stdlib"
	"github.com/go-olang/olangc/internal/types"
)

// defaultRoot is the implicit base class name used when a ClassDecl has no
// "extends" clause.
const defaultRoot = "Object"

// fieldOwner walks from cls up its Base chain to find the class that
// directly declares field name (as opposed to one merely inheriting it),
// for qualifying getfield/putfield with the correct owning class name.
func fieldOwner(cls *ast.ClassDecl, name string) *ast.ClassDecl {
	for cur := cls; cur != nil; cur = cur.Base {
		for _, fn := range cur.FieldOrder() {
			if fn == name {
				return cur
			}
		}
	}
	return nil
}

func methodDescriptor(params []*ast.Parameter, ret *types.Type) (string, error) {
	s := "("
	for _, p := range params {
		if p.ResolvedType == nil {
			return "", fmt.Errorf("emitter: unresolved parameter type for %q", p.Name)
		}
		s += p.ResolvedType.Descriptor()
	}
	s += ")"
	if ret == nil {
		return "", fmt.Errorf("emitter: unresolved return type")
	}
	return s + ret.Descriptor(), nil
}

func ctorDescriptor(params []*ast.Parameter) (string, error) {
	s := "("
	for _, p := range params {
		if p.ResolvedType == nil {
			return "", fmt.Errorf("emitter: unresolved parameter type for %q", p.Name)
		}
		s += p.ResolvedType.Descriptor()
	}
	return s + ")V", nil
}

// lowerExpr emits code that leaves exactly one value (width 1, or 2 for a
// wide Real) on top of the operand stack.
func (e *Emitter) lowerExpr(ctx *methodContext, class *ast.ClassDecl, expr ast.Expression) error {
	switch v := expr.(type) {
	case *ast.IntegerLiteral:
		pushInt(ctx, v.Value)
		return nil
	case *ast.RealLiteral:
		pushReal(ctx, v.Value)
		return nil
	case *ast.BooleanLiteral:
		pushBool(ctx, v.Value)
		return nil
	case *ast.ThisExpr:
		loadLocal(ctx, 0, 'a')
		return nil
	case *ast.IdentifierExpr:
		return e.lowerIdentifier(ctx, class, v)
	case *ast.ConstructorCall:
		return e.lowerConstructorCall(ctx, class, v)
	case *ast.MethodCall:
		return e.lowerMethodCall(ctx, class, v)
	case *ast.MemberAccess:
		return e.lowerMemberAccess(ctx, class, v)
	default:
		return fmt.Errorf("emitter: unsupported expression node %T", expr)
	}
}

func (e *Emitter) lowerIdentifier(ctx *methodContext, class *ast.ClassDecl, v *ast.IdentifierExpr) error {
	decl := v.ResolvedDecl
	if decl == nil {
		return fmt.Errorf("emitter: unresolved identifier %q", v.Name)
	}
	t := decl.EffectiveType()
	if t == nil {
		return fmt.Errorf("emitter: unresolved type for identifier %q", v.Name)
	}
	if decl.IsField {
		loadLocal(ctx, 0, 'a')
		owner := fieldOwner(class, decl.Name)
		if owner == nil {
			return fmt.Errorf("emitter: cannot locate declaring class for field %q", decl.Name)
		}
		ctx.pop(1)
		ctx.emit("getfield %s.%s:%s", owner.Name, decl.Name, t.Descriptor())
		ctx.push(width(t))
		return nil
	}
	slot, ok := ctx.slotOf(decl.Name)
	if !ok {
		return fmt.Errorf("emitter: no local slot allocated for %q", decl.Name)
	}
	loadLocal(ctx, slot, letter(t))
	return nil
}

// lowerConstructorCall lowers Integer/Boolean/Real/Printer construction and
// user-class instantiation. Built-in wrappers are never allocated: they are
// unboxed primitive values in the target assembly, so constructing one just
// lowers its single argument directly.
func (e *Emitter) lowerConstructorCall(ctx *methodContext, class *ast.ClassDecl, v *ast.ConstructorCall) error {
	switch v.ClassName {
	case "Integer", "Boolean", "Real":
		return e.lowerExpr(ctx, class, v.Args[0])
	case "Printer":
		ctx.emit("aconst_null")
		ctx.push(1)
		return nil
	}
	decl := v.ResolvedClass
	if decl == nil {
		return fmt.Errorf("emitter: unresolved class %q in constructor call", v.ClassName)
	}
	ctx.emit("new %s", decl.Name)
	ctx.push(1)
	ctx.emit("dup")
	ctx.push(1)
	for _, a := range v.Args {
		if err := e.lowerExpr(ctx, class, a); err != nil {
			return err
		}
	}
	desc, err := ctorDescriptor(paramTypesOf(v))
	if err != nil {
		return err
	}
	argsWidth := 0
	for _, a := range v.Args {
		argsWidth += width(a.Type())
	}
	ctx.pop(1 + argsWidth)
	ctx.emit("invokespecial %s.<init>%s", decl.Name, desc)
	return nil
}

// paramTypesOf adapts a ConstructorCall's resolved argument types into the
// []*ast.Parameter shape ctorDescriptor expects, via synthetic parameters
// carrying only ResolvedType.
func paramTypesOf(v *ast.ConstructorCall) []*ast.Parameter {
	out := make([]*ast.Parameter, len(v.Args))
	for i, a := range v.Args {
		out[i] = &ast.Parameter{ResolvedType: a.Type()}
	}
	return out
}

func (e *Emitter) lowerMemberAccess(ctx *methodContext, class *ast.ClassDecl, v *ast.MemberAccess) error {
	if err := e.lowerExpr(ctx, class, v.Target); err != nil {
		return err
	}
	field := v.ResolvedField
	if field == nil {
		return fmt.Errorf("emitter: unresolved field %q", v.MemberName)
	}
	t := field.EffectiveType()
	if t == nil {
		return fmt.Errorf("emitter: unresolved type for field %q", v.MemberName)
	}
	targetClass := ast.ClassDeclOf(v.Target.Type())
	if targetClass == nil {
		return fmt.Errorf("emitter: member access target is not a user class")
	}
	owner := fieldOwner(targetClass, v.MemberName)
	if owner == nil {
		return fmt.Errorf("emitter: cannot locate declaring class for field %q", v.MemberName)
	}
	ctx.pop(1)
	ctx.emit("getfield %s.%s:%s", owner.Name, v.MemberName, t.Descriptor())
	ctx.push(width(t))
	return nil
}

func (e *Emitter) lowerMethodCall(ctx *methodContext, class *ast.ClassDecl, v *ast.MethodCall) error {
	targetType := v.Target.Type()
	if targetType == nil {
		return fmt.Errorf("emitter: unresolved target type for call to %q", v.MethodName)
	}
	if targetType.Kind == types.ArrayKind {
		return e.lowerArrayMethodCall(ctx, class, v, targetType)
	}
	if targetType.Name == "Printer" {
		return e.lowerPrint(ctx, class, v)
	}
	if stdlib.HasType(targetType.Name) {
		return e.lowerBuiltinMethodCall(ctx, class, v, targetType)
	}
	return e.lowerUserMethodCall(ctx, class, v, targetType)
}

func (e *Emitter) lowerArrayMethodCall(ctx *methodContext, class *ast.ClassDecl, v *ast.MethodCall, arrType *types.Type) error {
	elem := arrType.Elem
	if err := e.lowerExpr(ctx, class, v.Target); err != nil {
		return err
	}
	switch v.MethodName {
	case "Length":
		ctx.pop(1)
		ctx.emit("arraylength")
		ctx.push(1)
		return nil
	case "get":
		if err := e.lowerExpr(ctx, class, v.Args[0]); err != nil {
			return err
		}
		ctx.pop(1 + 1)
		ctx.emit("%caload", letter(elem))
		ctx.push(width(elem))
		return nil
	case "set":
		if err := e.lowerExpr(ctx, class, v.Args[0]); err != nil {
			return err
		}
		if err := e.lowerExpr(ctx, class, v.Args[1]); err != nil {
			return err
		}
		ctx.pop(1 + 1 + width(elem))
		ctx.emit("%castore", letter(elem))
		return nil
	}
	return fmt.Errorf("emitter: unknown array method %q", v.MethodName)
}

func (e *Emitter) lowerBuiltinMethodCall(ctx *methodContext, class *ast.ClassDecl, v *ast.MethodCall, targetType *types.Type) error {
	if err := e.lowerExpr(ctx, class, v.Target); err != nil {
		return err
	}
	for _, a := range v.Args {
		if err := e.lowerExpr(ctx, class, a); err != nil {
			return err
		}
	}
	switch targetType.Name {
	case "Integer":
		return lowerIntegerOp(ctx, v.MethodName)
	case "Boolean":
		return lowerBooleanOp(ctx, v.MethodName)
	case "Real":
		return lowerRealOp(ctx, v.MethodName)
	}
	return fmt.Errorf("emitter: no built-in lowering for type %q", targetType.Name)
}

func lowerIntegerOp(ctx *methodContext, name string) error {
	switch name {
	case "Plus":
		ctx.pop(2)
		ctx.emit("iadd")
		ctx.push(1)
	case "Minus":
		ctx.pop(2)
		ctx.emit("isub")
		ctx.push(1)
	case "Mult":
		ctx.pop(2)
		ctx.emit("imul")
		ctx.push(1)
	case "Div":
		ctx.pop(2)
		ctx.emit("idiv")
		ctx.push(1)
	case "Rem":
		ctx.pop(2)
		ctx.emit("irem")
		ctx.push(1)
	case "UnaryMinus":
		ctx.pop(1)
		ctx.emit("ineg")
		ctx.push(1)
	case "UnaryPlus":
		// identity: the operand is already on the stack.
	case "toReal":
		ctx.pop(1)
		ctx.emit("i2d")
		ctx.push(2)
	case "Less", "LessEqual", "Greater", "GreaterEqual", "Equal":
		emitIntCompare(ctx, name)
	default:
		return fmt.Errorf("emitter: unknown Integer method %q", name)
	}
	return nil
}

func emitIntCompare(ctx *methodContext, name string) {
	mnemonic := map[string]string{
		"Less":         "if_icmplt",
		"LessEqual":    "if_icmple",
		"Greater":      "if_icmpgt",
		"GreaterEqual": "if_icmpge",
		"Equal":        "if_icmpeq",
	}[name]
	trueLabel := ctx.newLabel("cmp_true")
	endLabel := ctx.newLabel("cmp_end")
	ctx.pop(2)
	ctx.emit("%s %s", mnemonic, trueLabel)
	ctx.emit("iconst_0")
	ctx.emit("goto %s", endLabel)
	ctx.emitLabel(trueLabel)
	ctx.emit("iconst_1")
	ctx.emitLabel(endLabel)
	ctx.push(1)
}

func lowerBooleanOp(ctx *methodContext, name string) error {
	switch name {
	case "And":
		ctx.pop(2)
		ctx.emit("iand")
		ctx.push(1)
	case "Or":
		ctx.pop(2)
		ctx.emit("ior")
		ctx.push(1)
	case "Xor":
		ctx.pop(2)
		ctx.emit("ixor")
		ctx.push(1)
	case "Not":
		ctx.emit("iconst_1")
		ctx.push(1)
		ctx.pop(2)
		ctx.emit("ixor")
		ctx.push(1)
	default:
		return fmt.Errorf("emitter: unknown Boolean method %q", name)
	}
	return nil
}

func lowerRealOp(ctx *methodContext, name string) error {
	switch name {
	case "Plus":
		ctx.pop(4)
		ctx.emit("dadd")
		ctx.push(2)
	case "Minus":
		ctx.pop(4)
		ctx.emit("dsub")
		ctx.push(2)
	case "Mult":
		ctx.pop(4)
		ctx.emit("dmul")
		ctx.push(2)
	case "Div":
		ctx.pop(4)
		ctx.emit("ddiv")
		ctx.push(2)
	case "Rem":
		ctx.pop(4)
		ctx.emit("drem")
		ctx.push(2)
	case "UnaryMinus":
		ctx.pop(2)
		ctx.emit("dneg")
		ctx.push(2)
	case "UnaryPlus":
		// identity
	case "toInteger":
		ctx.pop(2)
		ctx.emit("d2i")
		ctx.push(1)
	case "Less", "LessEqual", "Greater", "GreaterEqual", "Equal":
		emitRealCompare(ctx, name)
	default:
		return fmt.Errorf("emitter: unknown Real method %q", name)
	}
	return nil
}

func emitRealCompare(ctx *methodContext, name string) {
	mnemonic := map[string]string{
		"Less":         "iflt",
		"LessEqual":    "ifle",
		"Greater":      "ifgt",
		"GreaterEqual": "ifge",
		"Equal":        "ifeq",
	}[name]
	trueLabel := ctx.newLabel("cmp_true")
	endLabel := ctx.newLabel("cmp_end")
	ctx.pop(4)
	ctx.emit("dcmpg")
	ctx.push(1)
	ctx.pop(1)
	ctx.emit("%s %s", mnemonic, trueLabel)
	ctx.emit("iconst_0")
	ctx.emit("goto %s", endLabel)
	ctx.emitLabel(trueLabel)
	ctx.emit("iconst_1")
	ctx.emitLabel(endLabel)
	ctx.push(1)
}

func (e *Emitter) lowerUserMethodCall(ctx *methodContext, class *ast.ClassDecl, v *ast.MethodCall, targetType *types.Type) error {
	if err := e.lowerExpr(ctx, class, v.Target); err != nil {
		return err
	}
	for _, a := range v.Args {
		if err := e.lowerExpr(ctx, class, a); err != nil {
			return err
		}
	}
	m := v.ResolvedMethod
	if m == nil {
		return fmt.Errorf("emitter: unresolved method %q", v.MethodName)
	}
	desc, err := methodDescriptor(m.Params, m.ReturnType)
	if err != nil {
		return err
	}
	argsWidth := 0
	for _, a := range v.Args {
		argsWidth += width(a.Type())
	}
	ctx.pop(1 + argsWidth)
	ctx.emit("invokevirtual %s.%s%s", m.Owner.Name, m.Name, desc)
	if !m.ReturnType.Equals(types.Void) {
		ctx.push(width(m.ReturnType))
	}
	return nil
}

// lowerPrint lowers Printer.print(x): the target instance is evaluated for
// side effects (it has none — Printer() is a null placeholder) and
// discarded; the actual call routes to the host VM's stdout object.
func (e *Emitter) lowerPrint(ctx *methodContext, class *ast.ClassDecl, v *ast.MethodCall) error {
	if v.MethodName != "print" {
		return fmt.Errorf("emitter: unknown Printer method %q", v.MethodName)
	}
	if err := e.lowerExpr(ctx, class, v.Target); err != nil {
		return err
	}
	ctx.pop(1)
	ctx.emit("pop")
	ctx.emit("getstatic VM.out:LPrintWriter;")
	ctx.push(1)
	arg := v.Args[0]
	if err := e.lowerExpr(ctx, class, arg); err != nil {
		return err
	}
	argType := arg.Type()
	var desc string
	switch {
	case argType.Equals(types.Integer), argType.Equals(types.Boolean):
		desc = "(I)V"
	case argType.Equals(types.Real):
		desc = "(D)V"
	default:
		desc = "(LObject;)V"
	}
	ctx.pop(1 + width(argType))
	ctx.emit("invokevirtual PrintWriter.println%s", desc)
	return nil
}

// lowerBlock lowers each statement in stmts in turn.
func (e *Emitter) lowerBlock(ctx *methodContext, class *ast.ClassDecl, stmts []ast.Statement) error {
	for _, s := range stmts {
		if err := e.lowerStmt(ctx, class, s); err != nil {
			return err
		}
	}
	return nil
}

// lowerStmt emits code for a single statement. Every statement leaves the
// symbolic operand-stack depth exactly where it found it: statements are
// stack-neutral.
func (e *Emitter) lowerStmt(ctx *methodContext, class *ast.ClassDecl, stmt ast.Statement) error {
	switch v := stmt.(type) {
	case *ast.Assignment:
		return e.lowerAssignment(ctx, class, v)
	case *ast.IfStatement:
		return e.lowerIf(ctx, class, v)
	case *ast.WhileLoop:
		return e.lowerWhile(ctx, class, v)
	case *ast.ReturnStatement:
		return e.lowerReturn(ctx, class, v)
	case *ast.VariableDeclStatement:
		return e.lowerVariableDeclStatement(ctx, class, v)
	case *ast.ExpressionStatement:
		return e.lowerExpressionStatement(ctx, class, v)
	default:
		return fmt.Errorf("emitter: unsupported statement node %T", stmt)
	}
}

func (e *Emitter) lowerAssignment(ctx *methodContext, class *ast.ClassDecl, v *ast.Assignment) error {
	target := v.ResolvedTarget
	if target == nil {
		return fmt.Errorf("emitter: unresolved assignment target %q", v.TargetName)
	}
	t := target.EffectiveType()
	if target.IsField {
		loadLocal(ctx, 0, 'a')
		if err := e.lowerExpr(ctx, class, v.Value); err != nil {
			return err
		}
		owner := fieldOwner(class, target.Name)
		if owner == nil {
			return fmt.Errorf("emitter: cannot locate declaring class for field %q", target.Name)
		}
		ctx.pop(1 + width(t))
		ctx.emit("putfield %s.%s:%s", owner.Name, target.Name, t.Descriptor())
		return nil
	}
	slot, ok := ctx.slotOf(target.Name)
	if !ok {
		return fmt.Errorf("emitter: no local slot allocated for %q", target.Name)
	}
	if err := e.lowerExpr(ctx, class, v.Value); err != nil {
		return err
	}
	storeLocal(ctx, slot, letter(t))
	return nil
}

func (e *Emitter) lowerIf(ctx *methodContext, class *ast.ClassDecl, v *ast.IfStatement) error {
	if err := e.lowerExpr(ctx, class, v.Cond); err != nil {
		return err
	}
	elseLabel := ctx.newLabel("if_else")
	endLabel := ctx.newLabel("if_end")
	ctx.pop(1)
	ctx.emit("ifeq %s", elseLabel)
	if err := e.lowerBlock(ctx, class, v.Then); err != nil {
		return err
	}
	ctx.emit("goto %s", endLabel)
	ctx.emitLabel(elseLabel)
	if v.Else != nil {
		if err := e.lowerBlock(ctx, class, v.Else); err != nil {
			return err
		}
	}
	ctx.emitLabel(endLabel)
	return nil
}

func (e *Emitter) lowerWhile(ctx *methodContext, class *ast.ClassDecl, v *ast.WhileLoop) error {
	startLabel := ctx.newLabel("while_start")
	endLabel := ctx.newLabel("while_end")
	ctx.emitLabel(startLabel)
	if err := e.lowerExpr(ctx, class, v.Cond); err != nil {
		return err
	}
	ctx.pop(1)
	ctx.emit("ifeq %s", endLabel)
	if err := e.lowerBlock(ctx, class, v.Body); err != nil {
		return err
	}
	ctx.emit("goto %s", startLabel)
	ctx.emitLabel(endLabel)
	return nil
}

func (e *Emitter) lowerReturn(ctx *methodContext, class *ast.ClassDecl, v *ast.ReturnStatement) error {
	if v.Value == nil {
		emitReturn(ctx, 'a', false)
		return nil
	}
	if err := e.lowerExpr(ctx, class, v.Value); err != nil {
		return err
	}
	emitReturn(ctx, letter(v.Value.Type()), true)
	return nil
}

func (e *Emitter) lowerVariableDeclStatement(ctx *methodContext, class *ast.ClassDecl, v *ast.VariableDeclStatement) error {
	decl := v.Decl
	if err := e.lowerExpr(ctx, class, decl.Initializer); err != nil {
		return err
	}
	slot := ctx.allocateLocal(decl.Name, decl.EffectiveType())
	storeLocal(ctx, slot, letter(decl.EffectiveType()))
	return nil
}

// lowerExpressionStatement lowers an expression used in statement position,
// popping its result unless it produced none: an expression used as a
// statement must either yield Void or have its result popped.
func (e *Emitter) lowerExpressionStatement(ctx *methodContext, class *ast.ClassDecl, v *ast.ExpressionStatement) error {
	if err := e.lowerExpr(ctx, class, v.Expr); err != nil {
		return err
	}
	t := v.Expr.Type()
	if t != nil && t.Equals(types.Void) {
		return nil
	}
	w := width(t)
	ctx.pop(w)
	if w == 2 {
		ctx.emit("pop2")
	} else {
		ctx.emit("pop")
	}
	return nil
}
