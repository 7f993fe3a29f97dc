// Package voxel implements a sparse-bounded scalar field over a regular
// 3D voxel lattice: rasterization of triangle meshes into the field, a
// two-phase distance transform, boolean combination of fields and
// conversion of a value range back into a closed mesh.
//
// A Field owns a dense block of cells between an origin and origin+extents.
// Everything outside the block reads as void. Positions in world space map
// to voxel space by dividing by the voxel size and rounding, so the centre
// of voxel (i,j,k) sits at (i*sx, j*sy, k*sz).
package voxel

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Voxel is one cell of a Field. Valid false means void.
type Voxel struct {
	Value float64
	Valid bool
}

// Void is the empty voxel.
var Void = Voxel{}

// Filled returns a present voxel holding v.
func Filled(v float64) Voxel {
	return Voxel{Value: v, Valid: true}
}

func (v Voxel) String() string {
	if !v.Valid {
		return "void"
	}
	return fmt.Sprintf("%g", v.Value)
}

// Field is a block of voxels with a world-space voxel size.
// A Field is not safe for concurrent mutation.
type Field struct {
	origin    Coord
	extents   Extents
	voxelSize v3.Vec
	cells     []Voxel
}

// New returns a void field at origin with the given extents.
// It panics if any voxel size component is not positive.
func New(origin Coord, ext Extents, size v3.Vec) *Field {
	mustVoxelSize(size)
	return &Field{
		origin:    origin,
		extents:   ext,
		voxelSize: size,
		cells:     make([]Voxel, ext.Len()),
	}
}

// FromBoundingBox returns a void field just large enough to hold every
// voxel whose centre is nearest to some point of bb.
func FromBoundingBox(bb sdf.Box3, size v3.Vec) *Field {
	lo := AbsOfCartesian(bb.Min, size)
	hi := AbsOfCartesian(bb.Max, size)
	d := hi.Sub(lo)
	return New(lo, Extents{d.X + 1, d.Y + 1, d.Z + 1}, size)
}

// Origin returns the voxel-space coordinate of the first cell.
func (f *Field) Origin() Coord { return f.origin }

// Extents returns the block size in voxels.
func (f *Field) Extents() Extents { return f.extents }

// VoxelSize returns the world size of one voxel.
func (f *Field) VoxelSize() v3.Vec { return f.voxelSize }

// Len returns the number of stored cells.
func (f *Field) Len() int { return len(f.cells) }

// IsEmpty reports whether the block holds no cells at all.
func (f *Field) IsEmpty() bool { return len(f.cells) == 0 }

// Bounds returns the voxel-space box covered by the block.
func (f *Field) Bounds() Box { return BoxOf(f.origin, f.extents) }

// WorldBounds returns the world-space box spanned by the outer faces of
// the block's voxels.
func (f *Field) WorldBounds() sdf.Box3 {
	return worldBox(f.Bounds(), f.voxelSize)
}

// worldBox returns the world-space box spanned by the voxels of b.
func worldBox(b Box, size v3.Vec) sdf.Box3 {
	half := size.MulScalar(0.5)
	last := b.Max.Sub(Coord{1, 1, 1})
	return sdf.Box3{
		Min: CartesianOf(b.Min, size).Sub(half),
		Max: CartesianOf(last, size).Add(half),
	}
}

// ValueAt returns the voxel at abs, or Void outside the block.
func (f *Field) ValueAt(abs Coord) Voxel {
	if i, ok := IndexOf(abs, f.origin, f.extents); ok {
		return f.cells[i]
	}
	return Void
}

// ValueWithin reports whether the voxel at abs exists and lies in r.
func (f *Field) ValueWithin(abs Coord, r Range) bool {
	return r.Holds(f.ValueAt(abs))
}

// SetValueAt stores v at abs. It panics if abs lies outside the block.
func (f *Field) SetValueAt(abs Coord, v Voxel) {
	i, ok := IndexOf(abs, f.origin, f.extents)
	if !ok {
		panic(fmt.Sprintf("voxel: set %v outside block %v", abs, f.Bounds()))
	}
	f.cells[i] = v
}

// Each calls fn for every cell in storage order.
func (f *Field) Each(fn func(abs Coord, v Voxel)) {
	for i, v := range f.cells {
		fn(AbsOf(i, f.origin, f.extents), v)
	}
}

// FillWith sets every cell to v.
func (f *Field) FillWith(v Voxel) {
	for i := range f.cells {
		f.cells[i] = v
	}
}

// Wipe drops all cells and resets the origin.
func (f *Field) Wipe() {
	f.origin = Coord{}
	f.extents = Extents{}
	f.cells = nil
}

// Resize moves the block to a new origin and extents, keeping the values
// of cells present in both. Cells that are new read as void. All-zero
// extents wipe the field; a block with only some zero extents keeps its
// origin and extents but holds no cells.
func (f *Field) Resize(origin Coord, ext Extents) {
	if origin == f.origin && ext == f.extents {
		return
	}
	if ext == (Extents{}) {
		f.Wipe()
		return
	}
	cells := make([]Voxel, ext.Len())
	if overlap, ok := f.Bounds().Intersect(BoxOf(origin, ext)); ok {
		for z := overlap.Min.Z; z < overlap.Max.Z; z++ {
			for y := overlap.Min.Y; y < overlap.Max.Y; y++ {
				row := Coord{overlap.Min.X, y, z}
				src, _ := IndexOf(row, f.origin, f.extents)
				dst, _ := IndexOf(row, origin, ext)
				w := overlap.Max.X - overlap.Min.X
				copy(cells[dst:dst+w], f.cells[src:src+w])
			}
		}
	}
	f.origin = origin
	f.extents = ext
	f.cells = cells
}

// ResizeToBox is Resize with the block given as a box.
func (f *Field) ResizeToBox(b Box) {
	f.Resize(b.Min, b.Extents())
}

// VolumeBounds returns the tightest box containing every voxel whose value
// lies in r, and false if there is none.
func (f *Field) VolumeBounds(r Range) (Box, bool) {
	var b Box
	found := false
	for i, v := range f.cells {
		if !r.Holds(v) {
			continue
		}
		c := AbsOf(i, f.origin, f.extents)
		if !found {
			b = Box{Min: c, Max: c.Add(Coord{1, 1, 1})}
			found = true
			continue
		}
		b = b.Union(Box{Min: c, Max: c.Add(Coord{1, 1, 1})})
	}
	return b, found
}

// ShrinkToFit resizes the block to the tightest box around the voxels in
// r. A field with no such voxel is wiped.
func (f *Field) ShrinkToFit(r Range) {
	b, ok := f.VolumeBounds(r)
	if !ok {
		f.Wipe()
		return
	}
	f.ResizeToBox(b)
}

// ContainsAny reports whether at least one voxel lies in r.
func (f *Field) ContainsAny(r Range) bool {
	for _, v := range f.cells {
		if r.Holds(v) {
			return true
		}
	}
	return false
}

// Count returns the number of voxels in r.
func (f *Field) Count(r Range) int {
	n := 0
	for _, v := range f.cells {
		if r.Holds(v) {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of f.
func (f *Field) Clone() *Field {
	c := *f
	c.cells = append([]Voxel(nil), f.cells...)
	return &c
}

// Equal reports whether both fields have the same placement, voxel size
// and cells.
func (f *Field) Equal(o *Field) bool {
	if f.origin != o.origin || f.extents != o.extents || f.voxelSize != o.voxelSize {
		return false
	}
	for i := range f.cells {
		if f.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

func (f *Field) String() string {
	return fmt.Sprintf("Field{origin %v extents %v voxel %v}", f.origin, f.extents, f.voxelSize)
}
