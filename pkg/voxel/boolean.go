package voxel

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// boxInSpaceOf converts a voxel box of a field with voxel size from into
// the voxel space of a field with voxel size to. The conversion goes
// through the world positions of the first and last voxel centres, so it
// can be off by one voxel when the sizes differ.
func boxInSpaceOf(b Box, from, to v3.Vec) Box {
	if from == to {
		return b
	}
	last := b.Max.Sub(Coord{1, 1, 1})
	return Box{
		Min: AbsOfCartesian(CartesianOf(b.Min, from), to),
		Max: AbsOfCartesian(CartesianOf(last, from), to).Add(Coord{1, 1, 1}),
	}
}

// sample returns the voxel of other at the world position of the centre of
// cell i of f.
func (f *Field) sample(i int, other *Field) Voxel {
	abs := AbsOf(i, f.origin, f.extents)
	if f.voxelSize == other.voxelSize {
		return other.ValueAt(abs)
	}
	return other.ValueAt(AbsOfCartesian(CartesianOf(abs, f.voxelSize), other.voxelSize))
}

// Intersection keeps only the voxels of f in ra whose position also holds
// a voxel of other in rb. The block ends up shrunk to the result, or wiped
// if the volumes do not overlap.
func (f *Field) Intersection(ra Range, other *Field, rb Range) {
	if other == f {
		other = f.Clone()
	}
	own, ok := f.VolumeBounds(ra)
	if !ok {
		f.Wipe()
		return
	}
	theirs, ok := other.VolumeBounds(rb)
	if !ok {
		f.Wipe()
		return
	}
	common, ok := own.Intersect(boxInSpaceOf(theirs, other.voxelSize, f.voxelSize))
	if !ok {
		f.Wipe()
		return
	}
	f.ResizeToBox(common)
	for i := range f.cells {
		if !rb.Holds(f.sample(i, other)) {
			f.cells[i] = Void
		}
	}
	f.ShrinkToFit(ra)
}

// Union adds the volume of other in rb to f. Positions where f has no
// voxel in ra take the value of other, linearly remapped from rb into ra.
// It panics if the two ranges differ and either has an unbounded end.
func (f *Field) Union(ra Range, other *Field, rb Range) {
	if other == f {
		other = f.Clone()
	}
	theirs, ok := other.VolumeBounds(rb)
	if !ok {
		return
	}
	if ra != rb && (!ra.Bounded() || !rb.Bounded()) {
		panic(fmt.Sprintf("voxel: cannot remap union values from %v to %v", rb, ra))
	}
	target := boxInSpaceOf(theirs, other.voxelSize, f.voxelSize)
	if own, ok := f.VolumeBounds(ra); ok {
		target = target.Union(own)
	}
	f.ResizeToBox(target)
	for i, v := range f.cells {
		if ra.Holds(v) {
			continue
		}
		o := f.sample(i, other)
		if !rb.Holds(o) {
			continue
		}
		value, _ := Remap(o.Value, rb, ra)
		f.cells[i] = Filled(value)
	}
	f.ShrinkToFit(ra)
}

// Difference clears every voxel of f in ra whose position holds a voxel of
// other in rb, then shrinks the block to what remains.
func (f *Field) Difference(ra Range, other *Field, rb Range) {
	if other == f {
		other = f.Clone()
	}
	for i, v := range f.cells {
		if ra.Holds(v) && rb.Holds(f.sample(i, other)) {
			f.cells[i] = Void
		}
	}
	f.ShrinkToFit(ra)
}
