package ast

import (
	"strings"

	"github.com/go-olang/olangc/internal/scope"
	"github.com/go-olang/olangc/internal/span"
	"github.com/go-olang/olangc/internal/types"
)

// VariableDecl is `var Name : Initializer` (the type is never written
// directly; it is inferred from Initializer's type during type checking,
// e.g. `var value : Integer(42)` declares an Integer field). Fields and
// locals share this node shape; IsParameter/IsField distinguish the three
// declaration contexts a VariableDecl can appear in (field, local, or a
// synthesized wrapper around a Parameter — see NewParameterVariableDecl).
//
// Every VariableDecl produced by the parser has a non-nil Initializer; the
// only exception is a VariableDecl synthesized by the symbol table builder
// to represent a Parameter as a local-scope symbol.
type VariableDecl struct {
	Name         string
	Initializer  Expression
	ResolvedType *types.Type
	IsParameter  bool
	IsField      bool
	// Param is set only when IsParameter is true: the original Parameter
	// this VariableDecl wraps. Type checking resolves parameter types
	// after this wrapper already exists, so EffectiveType reads through
	// Param rather than relying on a copy made before resolution happened.
	Param *Parameter
	Sp    span.Span
}

func (n *VariableDecl) memberNode()     {}
func (n *VariableDecl) Span() span.Span { return n.Sp }
func (n *VariableDecl) String() string {
	if n.Initializer == nil {
		return "var " + n.Name
	}
	return "var " + n.Name + " : " + n.Initializer.String()
}

// EffectiveType returns the declaration's resolved type: the wrapped
// Parameter's ResolvedType for a parameter wrapper, or ResolvedType
// directly for a field or local variable.
func (n *VariableDecl) EffectiveType() *types.Type {
	if n.IsParameter && n.Param != nil {
		return n.Param.ResolvedType
	}
	return n.ResolvedType
}

// NewParameterVariableDecl wraps param as a VariableDecl so it can be
// installed into a method body's LocalScope alongside real local
// variables, marked isParameter.
func NewParameterVariableDecl(param *Parameter) *VariableDecl {
	return &VariableDecl{
		Name:        param.Name,
		IsParameter: true,
		Param:       param,
		Sp:          param.Sp,
	}
}

// MethodDecl is `method Name(Params) [: ReturnType] is Body end`, the
// short form `method Name(Params) [: ReturnType] => Expr`, or a forward
// declaration `method Name(Params) [: ReturnType]` with Body == nil.
type MethodDecl struct {
	Name           string
	Params         []*Parameter
	ReturnTypeName string // "" when no return type was written
	ReturnType     *types.Type
	Body           []Statement // nil => forward declaration
	Owner          *ClassDecl
	Sp             span.Span
}

func (n *MethodDecl) memberNode()     {}
func (n *MethodDecl) Span() span.Span { return n.Sp }
func (n *MethodDecl) String() string {
	var sb strings.Builder
	sb.WriteString("method ")
	sb.WriteString(n.Name)
	sb.WriteString("(")
	for i, p := range n.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
	if n.ReturnTypeName != "" {
		sb.WriteString(" : ")
		sb.WriteString(n.ReturnTypeName)
	}
	if n.Body == nil {
		return sb.String()
	}
	sb.WriteString(" is ")
	writeBlock(&sb, n.Body)
	sb.WriteString(" end")
	return sb.String()
}

// IsForwardDeclaration reports whether this method has no body yet.
func (n *MethodDecl) IsForwardDeclaration() bool { return n.Body == nil }

// Signature builds the `"name(T1,T2,...)"` key used for method lookup and
// duplicate detection, from the textual declared parameter type names.
func (n *MethodDecl) Signature() string {
	return BuildSignature(n.Name, paramTypeNames(n.Params))
}

// ConstructorDecl is `this([Params]) is Body end`.
type ConstructorDecl struct {
	Params []*Parameter
	Body   []Statement
	Owner  *ClassDecl
	Sp     span.Span
}

func (n *ConstructorDecl) memberNode()     {}
func (n *ConstructorDecl) Span() span.Span { return n.Sp }
func (n *ConstructorDecl) String() string {
	var sb strings.Builder
	sb.WriteString("this(")
	for i, p := range n.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(") is ")
	writeBlock(&sb, n.Body)
	sb.WriteString(" end")
	return sb.String()
}

// Signature builds the `"this(T1,T2,...)"` key used for constructor lookup
// and duplicate detection.
func (n *ConstructorDecl) Signature() string {
	return BuildSignature("this", paramTypeNames(n.Params))
}

func paramTypeNames(params []*Parameter) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.DeclaredTypeName
	}
	return names
}

// BuildSignature constructs the `"name(T1,T2,...)"` string used throughout
// the resolver and type checker as a method/constructor key.
func BuildSignature(name string, paramTypeNames []string) string {
	return name + "(" + strings.Join(paramTypeNames, ",") + ")"
}

// ClassDecl is `class Name [extends Base] is Members end`. It doubles as a
// lexical scope.Scope over its field table: resolving a field walks Base's
// field table in turn via Enclosing/ResolveRecursive.
type ClassDecl struct {
	Name     string
	BaseName string // "" when no "extends" clause was written
	Base     *ClassDecl
	Members  []Member // in declaration order, as written

	fields       map[string]*scope.Symbol // field name -> *VariableDecl symbol
	fieldOrder   []string
	methods      map[string]*MethodDecl // signature -> method
	methodOrder  []string
	constructors map[string]*ConstructorDecl // signature -> constructor
	ctorOrder    []string

	Sp span.Span
}

// NewClassDecl creates an empty ClassDecl ready for member registration.
func NewClassDecl(name, baseName string, sp span.Span) *ClassDecl {
	return &ClassDecl{
		Name:         name,
		BaseName:     baseName,
		fields:       make(map[string]*scope.Symbol),
		methods:      make(map[string]*MethodDecl),
		constructors: make(map[string]*ConstructorDecl),
		Sp:           sp,
	}
}

func (c *ClassDecl) Span() span.Span { return c.Sp }
func (c *ClassDecl) String() string {
	var sb strings.Builder
	sb.WriteString("class ")
	sb.WriteString(c.Name)
	if c.BaseName != "" {
		sb.WriteString(" extends ")
		sb.WriteString(c.BaseName)
	}
	sb.WriteString(" is ")
	for i, m := range c.Members {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(m.String())
	}
	sb.WriteString(" end")
	return sb.String()
}

// --- scope.Scope, over the field table ---

// Define registers a field. It fails on a duplicate field name within
// this class.
func (c *ClassDecl) Define(sym *scope.Symbol) error {
	if _, exists := c.fields[sym.Name]; exists {
		return &DuplicateFieldError{ClassName: c.Name, FieldName: sym.Name}
	}
	c.fields[sym.Name] = sym
	c.fieldOrder = append(c.fieldOrder, sym.Name)
	return nil
}

func (c *ClassDecl) Resolve(name string) (*scope.Symbol, bool) {
	sym, ok := c.fields[name]
	return sym, ok
}

// ResolveRecursive looks up name on this class, then walks Base, then
// Base.Base, and so on, implementing field-resolution-through-inheritance.
func (c *ClassDecl) ResolveRecursive(name string) (*scope.Symbol, bool) {
	if sym, ok := c.Resolve(name); ok {
		return sym, true
	}
	if c.Base == nil {
		return nil, false
	}
	return c.Base.ResolveRecursive(name)
}

// Enclosing returns the base class as a scope.Scope, or nil at the root.
func (c *ClassDecl) Enclosing() scope.Scope {
	if c.Base == nil {
		return nil
	}
	return c.Base
}

// Field looks up a field by name on this class or an ancestor, returning
// the underlying *VariableDecl directly.
func (c *ClassDecl) Field(name string) (*VariableDecl, bool) {
	sym, ok := c.ResolveRecursive(name)
	if !ok {
		return nil, false
	}
	decl, _ := sym.Payload.(*VariableDecl)
	return decl, decl != nil
}

// FieldOrder returns field names in declaration order for this class only
// (not ancestors) — used by the emitter to synthesize field declarations.
func (c *ClassDecl) FieldOrder() []string { return c.fieldOrder }

// DefineMethod registers a method under its signature. A method with a
// body is allowed to replace a prior forward declaration under the same
// signature; any other duplicate signature is an error.
func (c *ClassDecl) DefineMethod(m *MethodDecl) error {
	sig := m.Signature()
	if existing, exists := c.methods[sig]; exists {
		if existing.IsForwardDeclaration() && !m.IsForwardDeclaration() {
			c.methods[sig] = m
			return nil
		}
		return &DuplicateMethodError{ClassName: c.Name, Signature: sig}
	}
	c.methods[sig] = m
	c.methodOrder = append(c.methodOrder, sig)
	m.Owner = c
	return nil
}

// MethodBySignature looks up a method by exact signature, on this class or
// an ancestor.
func (c *ClassDecl) MethodBySignature(sig string) (*MethodDecl, bool) {
	if m, ok := c.methods[sig]; ok {
		return m, true
	}
	if c.Base == nil {
		return nil, false
	}
	return c.Base.MethodBySignature(sig)
}

// MethodsByName returns every method named name visible on this class
// (subclass-first) or an ancestor, in declaration order, for overload
// resolution by compatibility when no exact signature match exists.
func (c *ClassDecl) MethodsByName(name string) []*MethodDecl {
	var out []*MethodDecl
	for cls := c; cls != nil; cls = cls.Base {
		for _, sig := range cls.methodOrder {
			m := cls.methods[sig]
			if m.Name == name {
				out = append(out, m)
			}
		}
	}
	return out
}

// MethodOrder returns method signatures declared directly on this class,
// in declaration order.
func (c *ClassDecl) MethodOrder() []string { return c.methodOrder }

// DefineConstructor registers a constructor under its signature.
func (c *ClassDecl) DefineConstructor(ctor *ConstructorDecl) error {
	sig := ctor.Signature()
	if _, exists := c.constructors[sig]; exists {
		return &DuplicateConstructorError{ClassName: c.Name, Signature: sig}
	}
	c.constructors[sig] = ctor
	c.ctorOrder = append(c.ctorOrder, sig)
	ctor.Owner = c
	return nil
}

// Constructors returns every constructor declared directly on this class,
// in declaration order.
func (c *ClassDecl) Constructors() []*ConstructorDecl {
	out := make([]*ConstructorDecl, len(c.ctorOrder))
	for i, sig := range c.ctorOrder {
		out[i] = c.constructors[sig]
	}
	return out
}

// IsDescendantOf reports whether c's declared-base-class chain reaches
// ancestor (used by the type checker's compatibility relation).
func (c *ClassDecl) IsDescendantOf(ancestor *ClassDecl) bool {
	for cur := c.Base; cur != nil; cur = cur.Base {
		if cur == ancestor {
			return true
		}
	}
	return false
}
