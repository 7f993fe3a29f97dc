package voxel

import "fmt"

// Falloff maps a signed distance in voxels to a field value.
type Falloff func(distance float64) float64

// Linear scales the distance by m.
func Linear(m float64) Falloff {
	return func(d float64) float64 { return m * d }
}

// InverseSquare is 1 at the surface and decays as 1/(1+(m*d)^2) away
// from it on both sides. With solid set, every voxel inside the surface
// stays at 1.
func InverseSquare(m float64, solid bool) Falloff {
	if m <= 0 {
		panic(fmt.Sprintf("voxel: falloff multiplier %g must be positive", m))
	}
	return func(d float64) float64 {
		if solid && d < 0 {
			d = 0
		}
		md := m * d
		return 1 / (1 + md*md)
	}
}

// ApplyFalloff replaces the value of every present voxel with fn(value).
// Void voxels stay void.
func (f *Field) ApplyFalloff(fn Falloff) {
	for i, v := range f.cells {
		if v.Valid {
			f.cells[i] = Filled(fn(v.Value))
		}
	}
}

// ComputeFalloffField runs the distance transform from the voxels in r
// and then maps each distance through fn.
func (f *Field) ComputeFalloffField(r Range, fn Falloff) {
	f.ComputeDistanceField(r)
	f.ApplyFalloff(fn)
}

// AddValues grows f to cover other and adds the value of other at each
// position to f. A position present in only one field takes that field's
// value. Values of other are resampled through world space when the voxel
// sizes differ.
func (f *Field) AddValues(other *Field) {
	if other == f {
		other = f.Clone()
	}
	if !other.IsEmpty() {
		target := boxInSpaceOf(other.Bounds(), other.voxelSize, f.voxelSize)
		if !f.IsEmpty() {
			target = target.Union(f.Bounds())
		}
		f.ResizeToBox(target)
	}
	for i, v := range f.cells {
		o := f.sample(i, other)
		switch {
		case !o.Valid:
		case v.Valid:
			f.cells[i] = Filled(v.Value + o.Value)
		default:
			f.cells[i] = o
		}
	}
}
