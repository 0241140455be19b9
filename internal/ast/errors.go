package ast

import "fmt"

// DuplicateFieldError is returned by ClassDecl.Define when a class declares
// two fields with the same name.
type DuplicateFieldError struct {
	ClassName string
	FieldName string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("duplicate field %q in class %q", e.FieldName, e.ClassName)
}

// DuplicateMethodError is returned by ClassDecl.DefineMethod when a class
// declares two members with the same signature, neither of which is a
// forward declaration being completed.
type DuplicateMethodError struct {
	ClassName string
	Signature string
}

func (e *DuplicateMethodError) Error() string {
	return fmt.Sprintf("duplicate method %s in class %q", e.Signature, e.ClassName)
}

// DuplicateConstructorError is returned by ClassDecl.DefineConstructor when
// a class declares two constructors with the same signature.
type DuplicateConstructorError struct {
	ClassName string
	Signature string
}

func (e *DuplicateConstructorError) Error() string {
	return fmt.Sprintf("duplicate constructor %s in class %q", e.Signature, e.ClassName)
}
