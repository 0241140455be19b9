package span

import "testing"

func TestPositionString(t *testing.T) {
	tests := []struct {
		name     string
		pos      Position
		expected string
	}{
		{"origin", Position{Line: 0, Column: 0}, "1:1"},
		{"mid-line", Position{Line: 2, Column: 11}, "3:12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	a := New(0, 0, 0, 3)
	b := New(1, 0, 1, 5)
	got := Merge(a, b)
	want := New(0, 0, 1, 5)
	if got != want {
		t.Errorf("Merge() = %+v, want %+v", got, want)
	}
}

func TestContains(t *testing.T) {
	outer := New(0, 0, 2, 0)
	inner := New(1, 0, 1, 4)
	if !outer.Contains(inner) {
		t.Error("expected outer to contain inner")
	}
	if inner.Contains(outer) {
		t.Error("did not expect inner to contain outer")
	}
}

func TestOverlaps(t *testing.T) {
	a := New(0, 0, 0, 5)
	b := New(0, 3, 0, 8)
	c := New(0, 6, 0, 9)
	if !a.Overlaps(b) {
		t.Error("expected a and b to overlap")
	}
	if a.Overlaps(c) {
		t.Error("did not expect a and c to overlap")
	}
}

func TestAt(t *testing.T) {
	p := Position{Line: 4, Column: 2}
	s := At(p)
	if s.Start != p || s.End != p {
		t.Errorf("At() = %+v, want zero-width span at %+v", s, p)
	}
}
