package voxel

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Transform returns a new field with voxel size size holding the voxels of
// f in r moved by m. Every voxel of the new block whose centre maps back
// onto such a voxel is set to seed; the rest stay void. It returns false
// when f holds no voxel in r. It panics if m cannot be inverted.
func (f *Field) Transform(r Range, m sdf.M44, size v3.Vec, seed float64) (*Field, bool) {
	mustVoxelSize(size)
	if m.Determinant() == 0 {
		panic(fmt.Sprintf("voxel: singular transform %v", m))
	}
	src, ok := f.VolumeBounds(r)
	if !ok {
		return nil, false
	}
	out := FromBoundingBox(m.MulBox(worldBox(src, f.voxelSize)), size)
	inv := m.Inverse()
	value := Filled(seed)
	for i := range out.cells {
		p := CartesianOf(AbsOf(i, out.origin, out.extents), size)
		back := AbsOfCartesian(inv.MulPosition(p), f.voxelSize)
		if f.ValueWithin(back, r) {
			out.cells[i] = value
		}
	}
	return out, true
}
