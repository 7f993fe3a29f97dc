package pipeline

import (
	"errors"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/sub-digital/H.U.R.B.A.N.-Selector/pkg/mesh"
)

func box(min, max v3.Vec) *mesh.Mesh {
	return mesh.NewBox(min, max)
}

func cube4() *mesh.Mesh {
	return box(v3.Vec{}, v3.Vec{X: 4, Y: 4, Z: 4})
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{"defaults", func(*Params) {}, false},
		{"zero voxel", func(p *Params) { p.VoxelSize = v3.Vec{X: 1, Y: 0, Z: 1} }, true},
		{"negative growth", func(p *Params) { p.Growth = -1 }, true},
		{"no limit", func(p *Params) { p.MaxVoxels = 0 }, true},
		{"no limit when unguarded", func(p *Params) { p.MaxVoxels = 0; p.PreventUnsafe = false }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVoxelizeFilled(t *testing.T) {
	m, err := Voxelize(cube4(), DefaultParams())
	if err != nil {
		t.Fatalf("Voxelize() error = %v", err)
	}
	// The 5x5x5 block plus one slab on every face; edges and corners lie
	// two or more steps away from the surface.
	if got := m.TriangleCount(); got != 540 {
		t.Errorf("TriangleCount() = %d, want 540", got)
	}
	bb := m.BoundingBox()
	if bb.Min != (v3.Vec{X: -1.5, Y: -1.5, Z: -1.5}) || bb.Max != (v3.Vec{X: 5.5, Y: 5.5, Z: 5.5}) {
		t.Errorf("BoundingBox() = %v", bb)
	}
	if m.Name != "box" {
		t.Errorf("Name = %q, want box", m.Name)
	}
}

func TestVoxelizeShell(t *testing.T) {
	p := DefaultParams()
	p.FillClosedVolumes = false
	m, err := Voxelize(cube4(), p)
	if err != nil {
		t.Fatalf("Voxelize() error = %v", err)
	}
	// Same outer hull plus a one voxel cavity at the centre.
	if got := m.TriangleCount(); got != 552 {
		t.Errorf("TriangleCount() = %d, want 552", got)
	}
}

func TestVoxelizeMarchingCubes(t *testing.T) {
	p := DefaultParams()
	p.MarchingCubes = true
	m, err := Voxelize(cube4(), p)
	if err != nil {
		t.Fatalf("Voxelize() error = %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("Voxelize() with marching cubes produced no faces")
	}
}

func TestVoxelizeTooManyVoxels(t *testing.T) {
	p := DefaultParams()
	p.MaxVoxels = 100

	_, err := Voxelize(cube4(), p)
	var tooMany *TooManyVoxelsError
	if !errors.As(err, &tooMany) {
		t.Fatalf("Voxelize() error = %v, want TooManyVoxelsError", err)
	}
	if tooMany.Count != 343 || tooMany.Limit != 100 {
		t.Errorf("TooManyVoxelsError = %+v, want count 343 limit 100", tooMany)
	}
	if tooMany.Suggested.X <= 1 {
		t.Errorf("Suggested = %v, want larger voxels", tooMany.Suggested)
	}

	p.PreventUnsafe = false
	if _, err := Voxelize(cube4(), p); err != nil {
		t.Errorf("Voxelize() unguarded error = %v", err)
	}
}

func TestVoxelizeErrors(t *testing.T) {
	p := DefaultParams()
	p.VoxelSize = v3.Vec{}
	if _, err := Voxelize(cube4(), p); !errors.Is(err, ErrVoxelSize) {
		t.Errorf("Voxelize() error = %v, want ErrVoxelSize", err)
	}

	if _, err := Voxelize(&mesh.Mesh{}, DefaultParams()); !errors.Is(err, ErrEmptyField) {
		t.Errorf("Voxelize(empty) error = %v, want ErrEmptyField", err)
	}
}

func TestVoxelizeSolid(t *testing.T) {
	s, err := sdf.Box3D(v3.Vec{X: 2.5, Y: 2.5, Z: 2.5}, 0)
	if err != nil {
		t.Fatalf("Box3D() error = %v", err)
	}
	p := DefaultParams()
	p.Growth = 0
	m, err := VoxelizeSolid(s, p)
	if err != nil {
		t.Fatalf("VoxelizeSolid() error = %v", err)
	}
	// A 3x3x3 block of voxels.
	if got := m.TriangleCount(); got != 108 {
		t.Errorf("TriangleCount() = %d, want 108", got)
	}
}

func TestUnion(t *testing.T) {
	b := box(v3.Vec{X: 2}, v3.Vec{X: 6, Y: 4, Z: 4})
	m, err := Union(cube4(), b, DefaultParams())
	if err != nil {
		t.Fatalf("Union() error = %v", err)
	}
	bb := m.BoundingBox()
	if bb.Min != (v3.Vec{X: -1.5, Y: -1.5, Z: -1.5}) || bb.Max != (v3.Vec{X: 7.5, Y: 5.5, Z: 5.5}) {
		t.Errorf("BoundingBox() = %v", bb)
	}
}

func TestIntersection(t *testing.T) {
	b := box(v3.Vec{X: 2}, v3.Vec{X: 6, Y: 4, Z: 4})
	m, err := Intersection(cube4(), b, DefaultParams())
	if err != nil {
		t.Fatalf("Intersection() error = %v", err)
	}
	bb := m.BoundingBox()
	if bb.Min.X != 0.5 || bb.Max.X != 5.5 {
		t.Errorf("BoundingBox() x span = [%g, %g], want [0.5, 5.5]", bb.Min.X, bb.Max.X)
	}

	far := box(v3.Vec{X: 20}, v3.Vec{X: 21, Y: 1, Z: 1})
	if _, err := Intersection(cube4(), far, DefaultParams()); !errors.Is(err, ErrEmptyField) {
		t.Errorf("Intersection() of disjoint boxes error = %v, want ErrEmptyField", err)
	}
}

func TestDifference(t *testing.T) {
	b := box(v3.Vec{X: 2}, v3.Vec{X: 6, Y: 4, Z: 4})
	m, err := Difference(cube4(), b, DefaultParams())
	if err != nil {
		t.Fatalf("Difference() error = %v", err)
	}
	bb := m.BoundingBox()
	if bb.Min.X != -1.5 || bb.Max.X != 1.5 {
		t.Errorf("BoundingBox() x span = [%g, %g], want [-1.5, 1.5]", bb.Min.X, bb.Max.X)
	}

	if _, err := Difference(cube4(), cube4(), DefaultParams()); !errors.Is(err, ErrEmptyField) {
		t.Errorf("Difference(A, A) error = %v, want ErrEmptyField", err)
	}
}

func TestBooleanOperandErrors(t *testing.T) {
	p := DefaultParams()
	p.MaxVoxels = 1000
	huge := box(v3.Vec{}, v3.Vec{X: 40, Y: 40, Z: 40})

	_, err := Union(cube4(), huge, p)
	var tooMany *TooManyVoxelsError
	if !errors.As(err, &tooMany) {
		t.Errorf("Union() error = %v, want TooManyVoxelsError", err)
	}
}
