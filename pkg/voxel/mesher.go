package voxel

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/sub-digital/H.U.R.B.A.N.-Selector/pkg/mesh"
)

// ErrNothingToMesh is returned when a field has no cells to mesh.
var ErrNothingToMesh = errors.New("voxel: field has zero extents")

// voxelFace describes one of the six faces of a voxel: the neighbour that
// hides it, its outward normal and two unit tangents with u x v = normal.
type voxelFace struct {
	neighbour Coord
	normal    v3.Vec
	u, v      v3.Vec
}

var (
	unitX = v3.Vec{X: 1}
	unitY = v3.Vec{Y: 1}
	unitZ = v3.Vec{Z: 1}
)

var voxelFaces = [6]voxelFace{
	{Coord{1, 0, 0}, unitX, unitY, unitZ},
	{Coord{-1, 0, 0}, v3.Vec{X: -1}, unitZ, unitY},
	{Coord{0, 1, 0}, unitY, unitZ, unitX},
	{Coord{0, -1, 0}, v3.Vec{Y: -1}, unitX, unitZ},
	{Coord{0, 0, 1}, unitZ, unitX, unitY},
	{Coord{0, 0, -1}, v3.Vec{Z: -1}, unitY, unitX},
}

func scale(a, b v3.Vec) v3.Vec {
	return v3.Vec{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

// ToMesh builds a closed mesh around the voxels in r. Every voxel face
// whose neighbour is not in r becomes a quad, and coincident corners are
// welded with a tolerance of a quarter of the smallest voxel dimension.
//
// It returns ErrNothingToMesh for an empty block and an error wrapping
// mesh.ErrWeldCollapsed if welding degenerates a face.
func (f *Field) ToMesh(r Range) (*mesh.Mesh, error) {
	if f.extents.Empty() {
		return nil, ErrNothingToMesh
	}

	half := f.voxelSize.MulScalar(0.5)
	slabs := make([]*mesh.Mesh, f.extents.Z)
	next := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(runtime.GOMAXPROCS(0), f.extents.Z); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for z := range next {
				slabs[z] = f.meshSlab(z, r, half)
			}
		}()
	}
	for z := 0; z < f.extents.Z; z++ {
		next <- z
	}
	close(next)
	wg.Wait()

	welded, err := mesh.Weld(mesh.Join(slabs...), minComponent(f.voxelSize)/4)
	if err != nil {
		return nil, fmt.Errorf("voxel: mesh %v: %w", f, err)
	}
	return welded, nil
}

// meshSlab emits the exposed faces of the voxels in layer z of the block.
func (f *Field) meshSlab(z int, r Range, half v3.Vec) *mesh.Mesh {
	b := mesh.NewBuilder()
	base := z * f.extents.X * f.extents.Y
	for i := base; i < base+f.extents.X*f.extents.Y; i++ {
		if !r.Holds(f.cells[i]) {
			continue
		}
		abs := AbsOf(i, f.origin, f.extents)
		centre := CartesianOf(abs, f.voxelSize)
		for _, face := range voxelFaces {
			if f.ValueWithin(abs.Add(face.neighbour), r) {
				continue
			}
			c := centre.Add(scale(face.normal, half))
			du := scale(face.u, half)
			dv := scale(face.v, half)
			b.AddQuad([4]v3.Vec{
				c.Sub(du).Sub(dv),
				c.Add(du).Sub(dv),
				c.Add(du).Add(dv),
				c.Sub(du).Add(dv),
			}, face.normal)
		}
	}
	return b.Mesh()
}
