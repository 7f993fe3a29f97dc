package voxel

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Coord is an absolute voxel-space coordinate.
type Coord struct {
	X, Y, Z int
}

// Add returns c + o.
func (c Coord) Add(o Coord) Coord {
	return Coord{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

// Sub returns c - o.
func (c Coord) Sub(o Coord) Coord {
	return Coord{c.X - o.X, c.Y - o.Y, c.Z - o.Z}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Extents is the number of voxels along each axis.
type Extents struct {
	X, Y, Z int
}

// Empty reports whether any axis has no voxels.
func (e Extents) Empty() bool {
	return e.X == 0 || e.Y == 0 || e.Z == 0
}

// Len returns the number of voxels in a block of these extents.
// It panics on negative extents or if the product overflows int.
func (e Extents) Len() int {
	if e.X < 0 || e.Y < 0 || e.Z < 0 {
		panic(fmt.Sprintf("voxel: negative extents %v", e))
	}
	n := 1
	for _, d := range [3]int{e.X, e.Y, e.Z} {
		if d != 0 && n > math.MaxInt/d {
			panic(fmt.Sprintf("voxel: extents %v overflow", e))
		}
		n *= d
	}
	return n
}

func (e Extents) String() string {
	return fmt.Sprintf("%dx%dx%d", e.X, e.Y, e.Z)
}

// IndexOf returns the linear storage index of abs in a block at origin
// with the given extents, and false if abs lies outside the block.
func IndexOf(abs, origin Coord, ext Extents) (int, bool) {
	r := abs.Sub(origin)
	if r.X < 0 || r.Y < 0 || r.Z < 0 || r.X >= ext.X || r.Y >= ext.Y || r.Z >= ext.Z {
		return 0, false
	}
	return relativeIndex(r, ext), true
}

// AbsOf is the inverse of IndexOf for in-range indices.
func AbsOf(index int, origin Coord, ext Extents) Coord {
	return relativeOf(index, ext).Add(origin)
}

func relativeIndex(r Coord, ext Extents) int {
	return (r.Z*ext.Y+r.Y)*ext.X + r.X
}

func relativeOf(index int, ext Extents) Coord {
	area := ext.X * ext.Y
	return Coord{
		X: index % ext.X,
		Y: index % area / ext.X,
		Z: index / area,
	}
}

// CartesianOf returns the world position of the centre of voxel abs.
func CartesianOf(abs Coord, size v3.Vec) v3.Vec {
	mustVoxelSize(size)
	return v3.Vec{
		X: float64(abs.X) * size.X,
		Y: float64(abs.Y) * size.Y,
		Z: float64(abs.Z) * size.Z,
	}
}

// AbsOfCartesian returns the voxel whose centre is nearest to p.
// Halfway cases round away from zero.
func AbsOfCartesian(p v3.Vec, size v3.Vec) Coord {
	mustVoxelSize(size)
	return Coord{
		X: int(math.Round(p.X / size.X)),
		Y: int(math.Round(p.Y / size.Y)),
		Z: int(math.Round(p.Z / size.Z)),
	}
}

func mustVoxelSize(size v3.Vec) {
	if !(size.X > 0 && size.Y > 0 && size.Z > 0) {
		panic(fmt.Sprintf("voxel: voxel size %v must be positive on every axis", size))
	}
}

func minComponent(v v3.Vec) float64 {
	return math.Min(v.X, math.Min(v.Y, v.Z))
}
