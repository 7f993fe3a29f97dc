package voxel

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/sub-digital/H.U.R.B.A.N.-Selector/pkg/mesh"
)

// grow returns bb expanded by margin voxels on every side.
func grow(bb sdf.Box3, size v3.Vec, margin int) sdf.Box3 {
	if margin < 0 {
		panic(fmt.Sprintf("voxel: negative margin %d", margin))
	}
	pad := size.MulScalar(float64(margin))
	return sdf.Box3{Min: bb.Min.Sub(pad), Max: bb.Max.Add(pad)}
}

// FromMesh rasterizes the surface of m into a new field. Every voxel
// touched by a triangle is set to seed; all other voxels stay void. The
// block covers the mesh bounding box plus margin voxels on each side. An
// empty mesh yields an empty field.
func FromMesh(m *mesh.Mesh, size v3.Vec, seed float64, margin int) *Field {
	mustVoxelSize(size)
	if m.IsEmpty() {
		return New(Coord{}, Extents{}, size)
	}
	f := FromBoundingBox(grow(m.BoundingBox(), size, margin), size)
	step := minComponent(size)
	value := Filled(seed)

	for _, face := range m.Faces {
		switch t := face.(type) {
		case mesh.Triangle:
			a := m.Vertices[t.Vertices[0]]
			b := m.Vertices[t.Vertices[1]]
			c := m.Vertices[t.Vertices[2]]
			f.rasterizeTriangle(a, b, c, step, value)
		}
	}
	return f
}

// rasterizeTriangle samples abc on a barycentric lattice fine enough that
// neighbouring samples are at most one voxel apart.
func (f *Field) rasterizeTriangle(a, b, c v3.Vec, step float64, value Voxel) {
	longest := math.Max(b.Sub(a).Length(), math.Max(c.Sub(b).Length(), a.Sub(c).Length()))
	d := max(int(math.Ceil(longest/step)), 1)
	fd := float64(d)
	for ui := 0; ui <= d; ui++ {
		for wi := 0; ui+wi <= d; wi++ {
			u := float64(ui) / fd
			w := float64(wi) / fd
			vv := 1 - u - w
			p := a.MulScalar(u).Add(b.MulScalar(vv)).Add(c.MulScalar(w))
			abs := f.clamp(AbsOfCartesian(p, f.voxelSize))
			i, _ := IndexOf(abs, f.origin, f.extents)
			f.cells[i] = value
		}
	}
}

// clamp moves c onto the nearest cell of the block. Lattice samples on a
// half-voxel boundary can round one past the block that the bounding box
// rounded into.
func (f *Field) clamp(c Coord) Coord {
	hi := f.origin.Add(Coord{f.extents.X - 1, f.extents.Y - 1, f.extents.Z - 1})
	return Coord{
		X: min(max(c.X, f.origin.X), hi.X),
		Y: min(max(c.Y, f.origin.Y), hi.Y),
		Z: min(max(c.Z, f.origin.Z), hi.Z),
	}
}

// FromSolid rasterizes an implicit solid: every voxel whose centre
// evaluates to a non-positive distance is set to seed.
func FromSolid(s sdf.SDF3, size v3.Vec, seed float64, margin int) *Field {
	f := FromBoundingBox(grow(s.BoundingBox(), size, margin), size)
	value := Filled(seed)
	for i := range f.cells {
		p := CartesianOf(AbsOf(i, f.origin, f.extents), size)
		if s.Evaluate(p) <= 0 {
			f.cells[i] = value
		}
	}
	return f
}
