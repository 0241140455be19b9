package stdlib

import (
	"testing"

	"github.com/go-olang/olangc/internal/types"
)

func TestIntegerPlus(t *testing.T) {
	m, ok := Lookup("Integer", "Plus", []*types.Type{types.Integer})
	if !ok {
		t.Fatal("expected Integer.Plus(Integer) to be registered")
	}
	if !m.ReturnType.Equals(types.Integer) {
		t.Errorf("Plus should return Integer, got %s", m.ReturnType)
	}
}

func TestIntegerComparisonsReturnBoolean(t *testing.T) {
	for _, name := range []string{"Less", "LessEqual", "Greater", "GreaterEqual", "Equal"} {
		m, ok := Lookup("Integer", name, []*types.Type{types.Integer})
		if !ok {
			t.Fatalf("expected Integer.%s(Integer) to be registered", name)
		}
		if !m.ReturnType.Equals(types.Boolean) {
			t.Errorf("%s should return Boolean, got %s", name, m.ReturnType)
		}
	}
}

func TestIntegerToReal(t *testing.T) {
	m, ok := Lookup("Integer", "toReal", nil)
	if !ok || !m.ReturnType.Equals(types.Real) {
		t.Errorf("expected Integer.toReal() -> Real, got %v, %v", m, ok)
	}
}

func TestBooleanMethods(t *testing.T) {
	if _, ok := Lookup("Boolean", "And", []*types.Type{types.Boolean}); !ok {
		t.Error("expected Boolean.And(Boolean)")
	}
	if _, ok := Lookup("Boolean", "Not", nil); !ok {
		t.Error("expected Boolean.Not()")
	}
}

func TestRealHasRem(t *testing.T) {
	// spec.md Open Question (a): Real.Rem is listed in one source of truth
	// only; we include it and keep that choice testable here.
	m, ok := Lookup("Real", "Rem", []*types.Type{types.Real})
	if !ok {
		t.Fatal("expected Real.Rem(Real) to be registered")
	}
	if !m.ReturnType.Equals(types.Real) {
		t.Errorf("Rem should return Real, got %s", m.ReturnType)
	}
}

func TestRealToInteger(t *testing.T) {
	m, ok := Lookup("Real", "toInteger", nil)
	if !ok || !m.ReturnType.Equals(types.Integer) {
		t.Errorf("expected Real.toInteger() -> Integer, got %v, %v", m, ok)
	}
}

func TestLookupMissReturnsFalse(t *testing.T) {
	if _, ok := Lookup("Integer", "Plus", []*types.Type{types.Real}); ok {
		t.Error("Integer.Plus(Real) should not be registered (no cross-type promotion)")
	}
	if _, ok := Lookup("Printer", "print", []*types.Type{types.Integer, types.Integer}); ok {
		t.Error("Printer.print takes exactly one argument; a two-argument call should not resolve")
	}
}

func TestHasType(t *testing.T) {
	for _, name := range []string{"Integer", "Boolean", "Real"} {
		if !HasType(name) {
			t.Errorf("expected %s to have registered methods", name)
		}
	}
	if HasType("Dog") {
		t.Error("user classes should not appear in the stdlib registry")
	}
}
