// Package types models olang's closed type system: the three built-in
// wrapper classes (Integer, Boolean, Real), the Printer built-in, Array[T],
// user-declared classes, and the distinguished Void return type.
//
// Type carries an opaque Decl field instead of a *ast.ClassDecl pointer to
// avoid an import cycle between this package and internal/ast (every
// expression node's inferredType slot is a *types.Type). Passes that need
// the declaration back cast Decl themselves; see internal/ast.ClassDeclOf.
package types

import "fmt"

// Kind is the closed sum of type shapes in olang.
type Kind int

const (
	// ClassKind covers both built-in wrapper classes (Integer, Boolean,
	// Real, Printer) and user-declared classes.
	ClassKind Kind = iota
	ArrayKind
	VoidKind
)

// Type is an immutable value-object type descriptor. Two Types with equal
// Name (and, for arrays, equal Elem) are interchangeable; see Equals.
type Type struct {
	Kind Kind
	// Name is the class name for ClassKind, "Void" for VoidKind, and unused
	// for ArrayKind (use Descriptor/String instead).
	Name string
	// Elem is the element type for ArrayKind, nil otherwise.
	Elem *Type
	// Decl is the originating *ast.ClassDecl for a user class, nil for
	// built-in ClassKind singletons and for ArrayKind/VoidKind.
	Decl any
}

// Built-in singleton types. These are compared by pointer in fast paths but
// always carry their canonical Name, so value comparisons via Equals remain
// correct even across independently constructed instances.
var (
	Integer = &Type{Kind: ClassKind, Name: "Integer"}
	Boolean = &Type{Kind: ClassKind, Name: "Boolean"}
	Real    = &Type{Kind: ClassKind, Name: "Real"}
	Printer = &Type{Kind: ClassKind, Name: "Printer"}
	Void    = &Type{Kind: VoidKind, Name: "Void"}
)

// builtinNames is the set of names pre-seeded into every GlobalScope.
var builtinNames = map[string]*Type{
	"Integer": Integer,
	"Boolean": Boolean,
	"Real":    Real,
	"Printer": Printer,
}

// Builtin looks up a built-in type singleton by name.
func Builtin(name string) (*Type, bool) {
	t, ok := builtinNames[name]
	return t, ok
}

// IsBuiltin reports whether name is one of the pre-seeded built-in type
// names (Integer, Boolean, Real, Printer).
func IsBuiltin(name string) bool {
	_, ok := builtinNames[name]
	return ok
}

// NewClass creates a ClassKind Type for a user-declared class. decl should
// be the *ast.ClassDecl the type was declared from.
func NewClass(name string, decl any) *Type {
	return &Type{Kind: ClassKind, Name: name, Decl: decl}
}

// NewArray creates an ArrayType wrapping elem.
func NewArray(elem *Type) *Type {
	return &Type{Kind: ArrayKind, Elem: elem}
}

// Equals implements the type-name equality driving the Type's hashability
// and identity: same Kind, same Name (classes), or same Elem (arrays,
// which are invariant in their element type).
func (t *Type) Equals(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case ArrayKind:
		return t.Elem.Equals(other.Elem)
	default:
		return t.Name == other.Name
	}
}

// IsCompatibleWith reports whether a value of type t may be used where
// target is expected:
//
//	A isCompatibleWith B  <=>  A == B
//	                       or  both ClassType and A's base-class chain reaches B
//	                       or  both ArrayType with identical (invariant) element types
func (t *Type) IsCompatibleWith(target *Type, baseOf func(*Type) *Type) bool {
	if t.Equals(target) {
		return true
	}
	if t.Kind == ArrayKind && target.Kind == ArrayKind {
		return t.Elem.Equals(target.Elem)
	}
	if t.Kind == ClassKind && target.Kind == ClassKind {
		for cur := baseOf(t); cur != nil; cur = baseOf(cur) {
			if cur.Equals(target) {
				return true
			}
		}
	}
	return false
}

// Descriptor formats the type using the Target Assembly's descriptor
// grammar: Integer/Boolean -> "I", Real -> "D", Void -> "V",
// Array[T] -> "["+desc(T), user class C -> "LC;".
func (t *Type) Descriptor() string {
	switch t.Kind {
	case VoidKind:
		return "V"
	case ArrayKind:
		return "[" + t.Elem.Descriptor()
	default:
		switch t.Name {
		case "Integer", "Boolean":
			return "I"
		case "Real":
			return "D"
		default:
			return "L" + t.Name + ";"
		}
	}
}

// IsWide reports whether values of this type occupy two operand-stack
// slots (only Real does).
func (t *Type) IsWide() bool {
	return t.Kind == ClassKind && t.Name == "Real"
}

// String renders the type's source-level name, e.g. "Array[Integer]".
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case ArrayKind:
		return fmt.Sprintf("Array[%s]", t.Elem)
	default:
		return t.Name
	}
}
