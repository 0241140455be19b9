// Package stdlib is the process-wide constant table of built-in methods on
// Integer, Boolean, and Real. It is built once, at package init, and is
// safe to share read-only across the whole pipeline — there is no
// teardown, since the registry is pure static data.
//
// Array[T]'s get/set/Length are deliberately NOT here: they are resolved
// structurally by internal/typecheck because their signature depends on
// the array's element type, which the table cannot express.
package stdlib

import "github.com/go-olang/olangc/internal/types"

// Method is one entry of the registry: a built-in method's parameter types
// and return type, keyed externally by (className, signature).
type Method struct {
	Name       string
	ParamTypes []*types.Type
	ReturnType *types.Type
}

// registry maps className -> signature -> Method. signature is the same
// "name(T1,T2,...)" shape used for user-declared methods, built from each
// parameter's canonical type name.
var registry = map[string]map[string]*Method{}

func register(className string, m *Method) {
	sig := signature(m.Name, m.ParamTypes)
	if registry[className] == nil {
		registry[className] = make(map[string]*Method)
	}
	registry[className][sig] = m
}

func signature(name string, paramTypes []*types.Type) string {
	s := name + "("
	for i, t := range paramTypes {
		if i > 0 {
			s += ","
		}
		s += t.Name
	}
	return s + ")"
}

func init() {
	registerInteger()
	registerBoolean()
	registerReal()
}

func registerInteger() {
	binaryInt := func(name string) { register("Integer", &Method{Name: name, ParamTypes: []*types.Type{types.Integer}, ReturnType: types.Integer}) }
	compareInt := func(name string) { register("Integer", &Method{Name: name, ParamTypes: []*types.Type{types.Integer}, ReturnType: types.Boolean}) }
	unaryInt := func(name string) { register("Integer", &Method{Name: name, ParamTypes: nil, ReturnType: types.Integer}) }

	binaryInt("Plus")
	binaryInt("Minus")
	binaryInt("Mult")
	binaryInt("Div")
	binaryInt("Rem")
	unaryInt("UnaryMinus")
	unaryInt("UnaryPlus")
	compareInt("Less")
	compareInt("LessEqual")
	compareInt("Greater")
	compareInt("GreaterEqual")
	compareInt("Equal")
	register("Integer", &Method{Name: "toReal", ParamTypes: nil, ReturnType: types.Real})
}

func registerBoolean() {
	binaryBool := func(name string) { register("Boolean", &Method{Name: name, ParamTypes: []*types.Type{types.Boolean}, ReturnType: types.Boolean}) }
	binaryBool("And")
	binaryBool("Or")
	binaryBool("Xor")
	register("Boolean", &Method{Name: "Not", ParamTypes: nil, ReturnType: types.Boolean})
}

func registerReal() {
	binaryReal := func(name string) { register("Real", &Method{Name: name, ParamTypes: []*types.Type{types.Real}, ReturnType: types.Real}) }
	compareReal := func(name string) { register("Real", &Method{Name: name, ParamTypes: []*types.Type{types.Real}, ReturnType: types.Boolean}) }
	unaryReal := func(name string) { register("Real", &Method{Name: name, ParamTypes: nil, ReturnType: types.Real}) }

	binaryReal("Plus")
	binaryReal("Minus")
	binaryReal("Mult")
	binaryReal("Div")
	// Rem rounds out Real's arithmetic the same way it does Integer's;
	// covered by TestRealHasRem.
	binaryReal("Rem")
	unaryReal("UnaryMinus")
	unaryReal("UnaryPlus")
	compareReal("Less")
	compareReal("LessEqual")
	compareReal("Greater")
	compareReal("GreaterEqual")
	compareReal("Equal")
	register("Real", &Method{Name: "toInteger", ParamTypes: nil, ReturnType: types.Integer})
}

// Lookup finds a built-in method by (typeName, methodName, argTypes). Arg
// types must match the registered parameter types exactly (built-in
// operators never take subtype-compatible arguments, only the literal
// same-type form); a miss returns ok == false.
//
// Printer is special-cased rather than pre-registered: its sole method,
// print(x), accepts Integer, Real, Boolean, or any user-class reference, a
// span no fixed-signature registry entry can express, so Lookup builds the
// Method on the fly from whatever single argument type was actually passed.
func Lookup(typeName, methodName string, argTypes []*types.Type) (*Method, bool) {
	if typeName == "Printer" {
		return lookupPrinter(methodName, argTypes)
	}
	byType, ok := registry[typeName]
	if !ok {
		return nil, false
	}
	m, ok := byType[signature(methodName, argTypes)]
	return m, ok
}

func lookupPrinter(methodName string, argTypes []*types.Type) (*Method, bool) {
	if methodName != "print" || len(argTypes) != 1 || argTypes[0] == nil {
		return nil, false
	}
	return &Method{Name: "print", ParamTypes: argTypes, ReturnType: types.Void}, true
}

// HasType reports whether typeName has any built-in methods registered
// (i.e. is one of Integer, Boolean, Real, Printer).
func HasType(typeName string) bool {
	if typeName == "Printer" {
		return true
	}
	_, ok := registry[typeName]
	return ok
}
