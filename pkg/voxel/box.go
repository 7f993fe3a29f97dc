package voxel

import "fmt"

// Box is a half-open block of voxel space, [Min, Max) on every axis.
type Box struct {
	Min, Max Coord
}

// BoxOf returns the box covered by a block at origin with extents ext.
func BoxOf(origin Coord, ext Extents) Box {
	return Box{Min: origin, Max: origin.Add(Coord{ext.X, ext.Y, ext.Z})}
}

// Extents returns the size of the box. Inverted axes count as zero.
func (b Box) Extents() Extents {
	d := b.Max.Sub(b.Min)
	return Extents{max(d.X, 0), max(d.Y, 0), max(d.Z, 0)}
}

// Empty reports whether the box contains no voxel.
func (b Box) Empty() bool {
	return b.Extents().Empty()
}

// Contains reports whether c lies inside the box.
func (b Box) Contains(c Coord) bool {
	return c.X >= b.Min.X && c.Y >= b.Min.Y && c.Z >= b.Min.Z &&
		c.X < b.Max.X && c.Y < b.Max.Y && c.Z < b.Max.Z
}

// Intersect returns the common part of b and o, and false if there is none.
func (b Box) Intersect(o Box) (Box, bool) {
	r := Box{
		Min: Coord{max(b.Min.X, o.Min.X), max(b.Min.Y, o.Min.Y), max(b.Min.Z, o.Min.Z)},
		Max: Coord{min(b.Max.X, o.Max.X), min(b.Max.Y, o.Max.Y), min(b.Max.Z, o.Max.Z)},
	}
	if r.Empty() {
		return Box{}, false
	}
	return r, true
}

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	return Box{
		Min: Coord{min(b.Min.X, o.Min.X), min(b.Min.Y, o.Min.Y), min(b.Min.Z, o.Min.Z)},
		Max: Coord{max(b.Max.X, o.Max.X), max(b.Max.Y, o.Max.Y), max(b.Max.Z, o.Max.Z)},
	}
}

func (b Box) String() string {
	return fmt.Sprintf("[%v, %v)", b.Min, b.Max)
}
