// Package emitter implements olang's Target Assembly emitter: it lowers a
// resolved, type-checked, optimized Program into one textual stack-VM
// assembly file per source class.
package emitter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-olang/olangc/internal/ast"
	"github.com/go-olang/olangc/internal/types"
)

type classState int

const (
	classHeaderState classState = iota
	fieldSectionState
	memberSectionState
	closedState
)

// classBuilder accumulates one class's .assembly text, enforcing the
// per-class state machine {ClassHeader, FieldSection, MemberSection,
// Closed}, transitioned in that order.
type classBuilder struct {
	state classState
	buf   strings.Builder
	pool  *constantPool
}

func newClassBuilder() *classBuilder {
	return &classBuilder{pool: &constantPool{}}
}

func (b *classBuilder) writeHeader(name, superName string) error {
	if b.state != classHeaderState {
		return fmt.Errorf("emitter: class header written out of order for %q", name)
	}
	fmt.Fprintf(&b.buf, "class %s extends %s\n\n", name, superName)
	b.state = fieldSectionState
	return nil
}

func (b *classBuilder) writeField(name string, t *types.Type) error {
	if b.state != fieldSectionState {
		return fmt.Errorf("emitter: field %q written out of order", name)
	}
	fmt.Fprintf(&b.buf, "field %s %s\n", name, t.Descriptor())
	return nil
}

func (b *classBuilder) endFields() {
	if b.state == fieldSectionState {
		b.buf.WriteString("\n")
	}
	b.state = memberSectionState
}

// writeMember prepends the computed stack/locals limits to ctx's body
// buffer: the .stack and .locals directives must precede the body text,
// but the limits are only known once the whole body has been lowered.
func (b *classBuilder) writeMember(header string, ctx *methodContext) error {
	if b.state != memberSectionState {
		return fmt.Errorf("emitter: member %q written out of order", header)
	}
	fmt.Fprintf(&b.buf, "%s\n", header)
	fmt.Fprintf(&b.buf, ".stack %d\n", ctx.maxDepth)
	fmt.Fprintf(&b.buf, ".locals %d\n", ctx.nextSlot)
	b.buf.WriteString(ctx.body.String())
	b.buf.WriteString("end\n\n")
	return nil
}

func (b *classBuilder) close() string {
	b.state = closedState
	return b.buf.String()
}

// Emitter lowers a compiled Program into Target Assembly text, one file per
// class plus an optional synthetic entry point.
type Emitter struct{}

func New() *Emitter { return &Emitter{} }

// EmitProgram emits every class in prog and returns a map of file name
// (e.g. "Start.assembly") to file content, ready to be written out by
// WriteFiles. It returns an error on the first internal invariant violation:
// an unresolved symbol or missing inferred type reaching the emitter is a
// compiler bug, since the driver never invokes the emitter after an
// earlier pass reported diagnostics.
func (e *Emitter) EmitProgram(prog *ast.Program) (map[string]string, error) {
	out := make(map[string]string, len(prog.Classes)+1)
	for _, class := range prog.Classes {
		text, err := e.emitClass(class)
		if err != nil {
			return nil, fmt.Errorf("emitter: class %q: %w", class.Name, err)
		}
		out[class.Name+".assembly"] = text
	}
	if start := findEntryPointClass(prog); start != nil {
		name, text := e.emitEntryPoint(start)
		out[name] = text
	}
	return out, nil
}

// WriteFiles writes every emitted file to dir, creating it if absent.
func WriteFiles(files map[string]string, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("emitter: creating output directory %q: %w", dir, err)
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("emitter: writing %q: %w", path, err)
		}
	}
	return nil
}

func (e *Emitter) emitClass(class *ast.ClassDecl) (string, error) {
	b := newClassBuilder()
	superName := defaultRoot
	if class.Base != nil {
		superName = class.Base.Name
	}
	if err := b.writeHeader(class.Name, superName); err != nil {
		return "", err
	}
	for _, name := range class.FieldOrder() {
		field, ok := class.Field(name)
		if !ok {
			return "", fmt.Errorf("emitter: field %q not found on %q", name, class.Name)
		}
		t := field.EffectiveType()
		if t == nil {
			return "", fmt.Errorf("emitter: unresolved type for field %q on %q", name, class.Name)
		}
		if err := b.writeField(name, t); err != nil {
			return "", err
		}
	}
	b.endFields()

	for _, ctor := range class.Constructors() {
		if err := e.emitConstructor(b, class, ctor); err != nil {
			return "", err
		}
	}
	for _, sig := range class.MethodOrder() {
		m, ok := class.MethodBySignature(sig)
		if !ok || m.Body == nil {
			continue
		}
		if err := e.emitMethod(b, class, m); err != nil {
			return "", err
		}
	}
	return b.close(), nil
}

// emitConstructor lowers ctor: parameters become locals in source order,
// then an implicit call to the base class's parameterless constructor,
// then every field initializer in declaration order, then the written
// body. Field initialization happens after the base-class call so that
// any initializer referencing an inherited field sees a fully
// constructed super-instance.
func (e *Emitter) emitConstructor(b *classBuilder, class *ast.ClassDecl, ctor *ast.ConstructorDecl) error {
	ctx := newMethodContext(class.Name, "this", b.pool)
	ctx.reserveThis()
	for _, p := range ctor.Params {
		ctx.allocateLocal(p.Name, p.ResolvedType)
	}

	superName := defaultRoot
	if class.Base != nil {
		superName = class.Base.Name
	}
	loadLocal(ctx, 0, 'a')
	ctx.pop(1)
	ctx.emit("invokespecial %s.<init>()V", superName)

	for _, name := range class.FieldOrder() {
		field, ok := class.Field(name)
		if !ok || field.Initializer == nil {
			continue
		}
		t := field.EffectiveType()
		if t == nil {
			return fmt.Errorf("emitter: unresolved type for field %q on %q", name, class.Name)
		}
		loadLocal(ctx, 0, 'a')
		if err := e.lowerExpr(ctx, class, field.Initializer); err != nil {
			return err
		}
		ctx.pop(1 + width(t))
		ctx.emit("putfield %s.%s:%s", class.Name, name, t.Descriptor())
	}

	if err := e.lowerBlock(ctx, class, ctor.Body); err != nil {
		return err
	}
	emitReturn(ctx, 'a', false)

	desc, err := ctorDescriptor(ctor.Params)
	if err != nil {
		return err
	}
	return b.writeMember(fmt.Sprintf("constructor <init>%s", desc), ctx)
}

// emitMethod lowers m's body. Void methods get an implicit trailing return
// appended unconditionally (a Void method may fall off the end of its
// source body without an explicit "return").
func (e *Emitter) emitMethod(b *classBuilder, class *ast.ClassDecl, m *ast.MethodDecl) error {
	ctx := newMethodContext(class.Name, m.Name, b.pool)
	ctx.reserveThis()
	for _, p := range m.Params {
		ctx.allocateLocal(p.Name, p.ResolvedType)
	}
	if err := e.lowerBlock(ctx, class, m.Body); err != nil {
		return err
	}
	if m.ReturnType != nil && m.ReturnType.Equals(types.Void) {
		ctx.emit("return")
	}
	desc, err := methodDescriptor(m.Params, m.ReturnType)
	if err != nil {
		return err
	}
	return b.writeMember(fmt.Sprintf("method %s%s", m.Name, desc), ctx)
}

// findEntryPointClass locates a "Start" class with a parameterless
// constructor and a parameterless Void "start" method, the shape that
// triggers entry-point synthesis.
func findEntryPointClass(prog *ast.Program) *ast.ClassDecl {
	for _, c := range prog.Classes {
		if c.Name != "Start" {
			continue
		}
		if hasParameterlessConstructor(c) && hasParameterlessVoidStart(c) {
			return c
		}
	}
	return nil
}

func hasParameterlessConstructor(c *ast.ClassDecl) bool {
	for _, ctor := range c.Constructors() {
		if len(ctor.Params) == 0 {
			return true
		}
	}
	return false
}

func hasParameterlessVoidStart(c *ast.ClassDecl) bool {
	m, ok := c.MethodBySignature(ast.BuildSignature("start", nil))
	if !ok || m.Body == nil {
		return false
	}
	return len(m.Params) == 0 && m.ReturnType != nil && m.ReturnType.Equals(types.Void)
}

// emitEntryPoint synthesizes the companion class that instantiates Start
// and invokes its start method.
func (e *Emitter) emitEntryPoint(start *ast.ClassDecl) (string, string) {
	var sb strings.Builder
	sb.WriteString("class Main extends Object\n\n")
	sb.WriteString("method main()V\n")
	sb.WriteString(".stack 2\n")
	sb.WriteString(".locals 1\n")
	sb.WriteString("    new Start\n")
	sb.WriteString("    dup\n")
	sb.WriteString("    invokespecial Start.<init>()V\n")
	sb.WriteString("    invokevirtual Start.start()V\n")
	sb.WriteString("    return\n")
	sb.WriteString("end\n")
	return "Main.assembly", sb.String()
}
