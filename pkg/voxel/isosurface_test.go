package voxel

import (
	"errors"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestLevelOf(t *testing.T) {
	tests := []struct {
		name string
		v    Voxel
		r    Range
		want float64
	}{
		{"void", Void, Everything(), outside},
		{"on the range", Filled(0), Exactly(0), -0.5},
		{"deep inside", Filled(-10), AtMost(2), -1.5},
		{"one past the range", Filled(3), AtMost(2), 0.5},
		{"far outside", Filled(30), Closed(-2, 2), outside},
		{"below the range", Filled(-3), Closed(-2, 2), 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := levelOf(tt.v, tt.r); got != tt.want {
				t.Errorf("levelOf(%v, %v) = %g, want %g", tt.v, tt.r, got, tt.want)
			}
		})
	}
}

func TestIsoSurfaceEvaluate(t *testing.T) {
	f := filledField(Coord{}, Extents{1, 1, 1}, unit, 0)
	s := f.IsoSurface(Exactly(0))

	if got := s.Evaluate(v3.Vec{}); got >= 0 {
		t.Errorf("Evaluate(centre) = %g, want negative", got)
	}
	if got := s.Evaluate(v3.Vec{X: 3, Y: 3, Z: 3}); got != outside {
		t.Errorf("Evaluate(far) = %g, want %g", got, outside)
	}
	if got := s.Evaluate(v3.Vec{X: 0.5}); got != 0.25 {
		t.Errorf("Evaluate(between) = %g, want 0.25", got)
	}

	bb := s.BoundingBox()
	if bb.Min != (v3.Vec{X: -1.5, Y: -1.5, Z: -1.5}) || bb.Max != (v3.Vec{X: 1.5, Y: 1.5, Z: 1.5}) {
		t.Errorf("BoundingBox() = %v", bb)
	}
}

func TestToMarchingCubes(t *testing.T) {
	f := filledField(Coord{}, Extents{3, 3, 3}, unit, 0)
	m, err := f.ToMarchingCubes(Exactly(0))
	if err != nil {
		t.Fatalf("ToMarchingCubes() error = %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("ToMarchingCubes() produced no faces")
	}
	outer := f.IsoSurface(Exactly(0)).BoundingBox()
	for _, v := range m.Vertices {
		if v.X < outer.Min.X || v.Y < outer.Min.Y || v.Z < outer.Min.Z ||
			v.X > outer.Max.X || v.Y > outer.Max.Y || v.Z > outer.Max.Z {
			t.Fatalf("vertex %v outside %v", v, outer)
		}
	}

	if _, err := New(Coord{}, Extents{}, unit).ToMarchingCubes(Exactly(0)); !errors.Is(err, ErrNothingToMesh) {
		t.Errorf("ToMarchingCubes() error = %v, want ErrNothingToMesh", err)
	}
}
