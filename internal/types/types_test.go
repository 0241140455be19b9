package types

import "testing"

func TestEqualsBuiltins(t *testing.T) {
	if !Integer.Equals(Integer) {
		t.Error("Integer should equal itself")
	}
	if Integer.Equals(Real) {
		t.Error("Integer should not equal Real")
	}
	if !NewClass("Integer", nil).Equals(Integer) {
		t.Error("classes are compared by name, not pointer")
	}
}

func TestEqualsArraysAreInvariant(t *testing.T) {
	a := NewArray(Integer)
	b := NewArray(Integer)
	c := NewArray(Real)
	if !a.Equals(b) {
		t.Error("Array[Integer] should equal Array[Integer]")
	}
	if a.Equals(c) {
		t.Error("Array[Integer] should not equal Array[Real] (invariant)")
	}
}

func TestDescriptors(t *testing.T) {
	tests := []struct {
		typ  *Type
		want string
	}{
		{Integer, "I"},
		{Boolean, "I"},
		{Real, "D"},
		{Void, "V"},
		{NewArray(Integer), "[I"},
		{NewArray(NewArray(Real)), "[[D"},
		{NewClass("Animal", nil), "LAnimal;"},
	}
	for _, tt := range tests {
		if got := tt.typ.Descriptor(); got != tt.want {
			t.Errorf("Descriptor(%s) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestIsCompatibleWithInheritance(t *testing.T) {
	animal := NewClass("Animal", nil)
	dog := NewClass("Dog", nil)
	bases := map[*Type]*Type{dog: animal}
	baseOf := func(t *Type) *Type { return bases[t] }

	if !dog.IsCompatibleWith(animal, baseOf) {
		t.Error("Dog should be compatible with Animal via inheritance")
	}
	if animal.IsCompatibleWith(dog, baseOf) {
		t.Error("Animal should not be compatible with Dog")
	}
}

func TestIsWide(t *testing.T) {
	if !Real.IsWide() {
		t.Error("Real should be wide")
	}
	if Integer.IsWide() || Boolean.IsWide() {
		t.Error("Integer/Boolean should not be wide")
	}
}

func TestIsBuiltin(t *testing.T) {
	for _, name := range []string{"Integer", "Boolean", "Real", "Printer"} {
		if !IsBuiltin(name) {
			t.Errorf("%s should be a builtin", name)
		}
	}
	if IsBuiltin("Animal") {
		t.Error("Animal should not be a builtin")
	}
}
