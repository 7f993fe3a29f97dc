package voxel

import (
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestTransformTranslate(t *testing.T) {
	f := New(Coord{}, Extents{2, 2, 2}, unit)
	f.SetValueAt(Coord{1, 1, 1}, Filled(0))

	out, ok := f.Transform(Exactly(0), sdf.Translate3d(v3.Vec{X: 10, Y: -3}), unit, 7)
	if !ok {
		t.Fatal("Transform() found nothing to move")
	}
	if got := out.Count(Everything()); got != 1 {
		t.Errorf("present voxels = %d, want 1", got)
	}
	if got := out.ValueAt(Coord{11, -2, 1}); got != Filled(7) {
		t.Errorf("ValueAt(11,-2,1) = %v, want 7", got)
	}
}

func TestTransformScale(t *testing.T) {
	f := New(Coord{}, Extents{1, 1, 1}, unit)
	f.SetValueAt(Coord{}, Filled(0))

	out, ok := f.Transform(Exactly(0), sdf.Scale3d(v3.Vec{X: 3, Y: 3, Z: 3}), unit, 0)
	if !ok {
		t.Fatal("Transform() found nothing to move")
	}
	if out.Origin() != (Coord{-2, -2, -2}) || out.Extents() != (Extents{5, 5, 5}) {
		t.Errorf("Transform() = %v, want origin (-2,-2,-2) extents 5x5x5", out)
	}
	if got := out.Count(Exactly(0)); got != 27 {
		t.Errorf("seeded voxels = %d, want 27", got)
	}
}

func TestTransformRotate(t *testing.T) {
	f := New(Coord{}, Extents{3, 1, 1}, unit)
	f.FillWith(Filled(0))

	out, ok := f.Transform(Exactly(0), sdf.RotateZ(math.Pi/2), unit, 0)
	if !ok {
		t.Fatal("Transform() found nothing to move")
	}
	if got := out.Count(Exactly(0)); got != 3 {
		t.Errorf("seeded voxels = %d, want 3", got)
	}
	for y := 0; y < 3; y++ {
		if got := out.ValueAt(Coord{0, y, 0}); got != Filled(0) {
			t.Errorf("ValueAt(0,%d,0) = %v, want 0", y, got)
		}
	}
}

func TestTransformVoxelSize(t *testing.T) {
	f := filledField(Coord{}, Extents{2, 2, 2}, unit, 0)
	half := v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}

	out, ok := f.Transform(Exactly(0), sdf.Identity3d(), half, 0)
	if !ok {
		t.Fatal("Transform() found nothing to move")
	}
	if out.VoxelSize() != half {
		t.Errorf("VoxelSize() = %v, want %v", out.VoxelSize(), half)
	}
	// Centres on the outer half-voxel faces round away from the source
	// block, so each axis keeps three of its five samples.
	if got := out.Count(Exactly(0)); got != 27 {
		t.Errorf("seeded voxels = %d, want 27", got)
	}
}

func TestTransformNothingInRange(t *testing.T) {
	f := New(Coord{}, Extents{2, 2, 2}, unit)
	if _, ok := f.Transform(Everything(), sdf.Identity3d(), unit, 0); ok {
		t.Error("Transform() of a void field reported a result")
	}
}

func TestTransformSingularPanics(t *testing.T) {
	f := filledField(Coord{}, Extents{1, 1, 1}, unit, 0)
	mustPanic(t, "Transform", func() {
		f.Transform(Everything(), sdf.Scale3d(v3.Vec{X: 1, Z: 1}), unit, 0)
	})
}
