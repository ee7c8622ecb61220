package d3

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestSetBounds(t *testing.T) {
	const tol = 1e-12
	set := Set{
		{X: 1, Y: -2, Z: 3},
		{X: -4, Y: 5, Z: 0},
		{X: 0.5, Y: 0, Z: -6},
	}
	got := set.Bounds()
	want := Box{Min: r3.Vec{X: -4, Y: -2, Z: -6}, Max: r3.Vec{X: 1, Y: 5, Z: 3}}
	if !got.Equals(want, tol) {
		t.Fatalf("got bounds %+v, want %+v", got, want)
	}
	for _, v := range set {
		if !got.Contains(v) {
			t.Errorf("bounds do not contain %v", v)
		}
	}
	if got.MaxSide() != 9 {
		t.Errorf("max side %g, want 9", got.MaxSide())
	}
	if !EqualWithin(got.Center(), r3.Vec{X: -1.5, Y: 1.5, Z: -1.5}, tol) {
		t.Errorf("bad center %v", got.Center())
	}

	single := Set{{X: 2, Y: 2, Z: 2}}.Bounds()
	if single.MaxSide() != 0 || !EqualWithin(single.Center(), Elem(2), tol) {
		t.Errorf("single point bounds %+v", single)
	}

	empty := Set{}.Bounds()
	if empty.Contains(r3.Vec{}) {
		t.Error("empty set bounds must contain nothing")
	}
}

func TestNewBox(t *testing.T) {
	b := NewBox(r3.Vec{X: 1}, r3.Vec{X: 2, Y: 4, Z: 6})
	want := Box{Min: r3.Vec{X: 0, Y: -2, Z: -3}, Max: r3.Vec{X: 2, Y: 2, Z: 3}}
	if !b.Equals(want, 0) {
		t.Fatalf("got %+v, want %+v", b, want)
	}
	if !EqualWithin(b.Size(), r3.Vec{X: 2, Y: 4, Z: 6}, 0) {
		t.Errorf("bad size %v", b.Size())
	}
}

func TestFinite(t *testing.T) {
	for _, tc := range []struct {
		v    r3.Vec
		want bool
	}{
		{r3.Vec{X: 1, Y: -1, Z: 1e300}, true},
		{r3.Vec{X: math.NaN()}, false},
		{r3.Vec{Y: math.Inf(1)}, false},
		{r3.Vec{Z: math.Inf(-1)}, false},
		{r3.Vec{X: math.Inf(1), Y: math.Inf(-1)}, false},
	} {
		if got := Finite(tc.v); got != tc.want {
			t.Errorf("Finite(%v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}
