package voxel

import (
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/sub-digital/H.U.R.B.A.N.-Selector/pkg/mesh"
)

// outside is the level reported for void voxels.
const outside = 1.0

// levelOf returns how far v lies outside r, shifted so that the surface
// sits half a unit past the range boundary. Negative means inside.
func levelOf(v Voxel, r Range) float64 {
	if !v.Valid || math.IsNaN(v.Value) {
		return outside
	}
	d := -outside
	if r.Lo.Kind != Unbounded {
		d = math.Max(d, r.Lo.Value-v.Value)
	}
	if r.Hi.Kind != Unbounded {
		d = math.Max(d, v.Value-r.Hi.Value)
	}
	return math.Min(d-0.5, outside)
}

// isoSurface samples a field as an sdf.SDF3 by trilinear interpolation of
// the per-voxel levels.
type isoSurface struct {
	f  *Field
	r  Range
	bb sdf.Box3
}

var _ sdf.SDF3 = (*isoSurface)(nil)

// IsoSurface exposes the voxels in r as an implicit solid. The result is
// negative inside the volume and crosses zero roughly half a unit of
// value past the range boundary. The bounding box is the block grown by
// one voxel so the surface is closed.
func (f *Field) IsoSurface(r Range) sdf.SDF3 {
	bb := f.WorldBounds()
	return &isoSurface{
		f:  f,
		r:  r,
		bb: sdf.Box3{Min: bb.Min.Sub(f.voxelSize), Max: bb.Max.Add(f.voxelSize)},
	}
}

func (s *isoSurface) level(c Coord) float64 {
	return levelOf(s.f.ValueAt(c), s.r)
}

// Evaluate returns the interpolated level at p.
func (s *isoSurface) Evaluate(p v3.Vec) float64 {
	size := s.f.voxelSize
	gx, gy, gz := p.X/size.X, p.Y/size.Y, p.Z/size.Z
	x0, y0, z0 := math.Floor(gx), math.Floor(gy), math.Floor(gz)
	tx, ty, tz := gx-x0, gy-y0, gz-z0
	c := Coord{int(x0), int(y0), int(z0)}

	lerp := func(a, b, t float64) float64 { return a + (b-a)*t }
	var plane [2]float64
	for dz := 0; dz < 2; dz++ {
		var row [2]float64
		for dy := 0; dy < 2; dy++ {
			a := s.level(c.Add(Coord{0, dy, dz}))
			b := s.level(c.Add(Coord{1, dy, dz}))
			row[dy] = lerp(a, b, tx)
		}
		plane[dz] = lerp(row[0], row[1], ty)
	}
	return lerp(plane[0], plane[1], tz)
}

// BoundingBox returns the sampled world box.
func (s *isoSurface) BoundingBox() sdf.Box3 {
	return s.bb
}

// ToMarchingCubes meshes the voxels in r with a smooth marching cubes
// surface instead of voxel faces. It returns ErrNothingToMesh for an empty
// block. Slivers that collapse when welding are dropped.
func (f *Field) ToMarchingCubes(r Range) (*mesh.Mesh, error) {
	if f.extents.Empty() {
		return nil, ErrNothingToMesh
	}
	s := f.IsoSurface(r)
	bb := s.BoundingBox()
	span := bb.Max.Sub(bb.Min)
	cells := int(math.Ceil(math.Max(span.X/f.voxelSize.X, math.Max(span.Y/f.voxelSize.Y, span.Z/f.voxelSize.Z))))

	renderer := render.NewMarchingCubesUniform(max(cells, 1))
	triangles := render.ToTriangles(s, renderer)

	b := mesh.NewBuilder()
	for _, tri := range triangles {
		b.AddTriangle(tri[0], tri[1], tri[2])
	}
	return mesh.Compact(b.Mesh(), minComponent(f.voxelSize)/100), nil
}
