package voxel

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestFalloff(t *testing.T) {
	tests := []struct {
		name string
		fn   Falloff
		d    float64
		want float64
	}{
		{"linear", Linear(2), 3, 6},
		{"linear negative", Linear(1), -2, -2},
		{"inverse square at surface", InverseSquare(0.5, false), 0, 1},
		{"inverse square outside", InverseSquare(0.5, false), 2, 0.5},
		{"inverse square inside", InverseSquare(0.5, false), -2, 0.5},
		{"inverse square solid inside", InverseSquare(0.5, true), -2, 1},
		{"inverse square solid outside", InverseSquare(1, true), 3, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.d); got != tt.want {
				t.Errorf("falloff(%g) = %g, want %g", tt.d, got, tt.want)
			}
		})
	}
	mustPanic(t, "InverseSquare(0)", func() { InverseSquare(0, false) })
}

func TestComputeFalloffField(t *testing.T) {
	f := New(Coord{}, Extents{5, 1, 1}, unit)
	f.SetValueAt(Coord{}, Filled(0))
	f.ComputeFalloffField(Exactly(0), InverseSquare(1, false))

	want := []float64{1, 0.5, 0.2, 0.1, 1.0 / 17}
	for x, w := range want {
		if got := f.ValueAt(Coord{x, 0, 0}); got != Filled(w) {
			t.Errorf("ValueAt(%d,0,0) = %v, want %g", x, got, w)
		}
	}
}

func TestAddValues(t *testing.T) {
	f := New(Coord{}, Extents{2, 1, 1}, unit)
	f.SetValueAt(Coord{0, 0, 0}, Filled(1))
	f.SetValueAt(Coord{1, 0, 0}, Filled(2))
	other := New(Coord{1, 0, 0}, Extents{2, 1, 1}, unit)
	other.SetValueAt(Coord{1, 0, 0}, Filled(10))
	other.SetValueAt(Coord{2, 0, 0}, Filled(20))

	f.AddValues(other)

	if f.Origin() != (Coord{}) || f.Extents() != (Extents{3, 1, 1}) {
		t.Fatalf("AddValues() = %v, want origin (0,0,0) extents 3x1x1", f)
	}
	for x, w := range []float64{1, 12, 20} {
		if got := f.ValueAt(Coord{x, 0, 0}); got != Filled(w) {
			t.Errorf("ValueAt(%d,0,0) = %v, want %g", x, got, w)
		}
	}
}

func TestAddValuesVoidStaysVoid(t *testing.T) {
	f := New(Coord{}, Extents{2, 1, 1}, unit)
	f.SetValueAt(Coord{}, Filled(1))
	other := New(Coord{}, Extents{2, 1, 1}, unit)

	f.AddValues(other)

	if got := f.ValueAt(Coord{}); got != Filled(1) {
		t.Errorf("ValueAt(0,0,0) = %v, want 1", got)
	}
	if got := f.ValueAt(Coord{1, 0, 0}); got != Void {
		t.Errorf("ValueAt(1,0,0) = %v, want void", got)
	}
}

func TestAddValuesMixedVoxelSize(t *testing.T) {
	f := New(Coord{}, Extents{1, 1, 1}, unit)
	f.SetValueAt(Coord{}, Filled(1))
	other := New(Coord{1, 0, 0}, Extents{1, 1, 1}, v3.Vec{X: 2, Y: 2, Z: 2})
	other.SetValueAt(Coord{1, 0, 0}, Filled(5))

	f.AddValues(other)

	if f.VoxelSize() != unit {
		t.Errorf("VoxelSize() = %v, want unit", f.VoxelSize())
	}
	for x, w := range []float64{1, 5, 5} {
		if got := f.ValueAt(Coord{x, 0, 0}); got != Filled(w) {
			t.Errorf("ValueAt(%d,0,0) = %v, want %g", x, got, w)
		}
	}
}

func TestAddValuesToItself(t *testing.T) {
	f := filledField(Coord{}, Extents{2, 2, 2}, unit, 3)
	f.AddValues(f)
	if got := f.Count(Exactly(6)); got != 8 {
		t.Errorf("voxels at 6 = %d, want 8", got)
	}
}
