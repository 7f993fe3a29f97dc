// Package pipeline chains the voxel operations into complete steps: a
// mesh goes in, it is rasterized and turned into a distance field,
// optionally combined with a second field, and a new mesh comes out.
package pipeline

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/sub-digital/H.U.R.B.A.N.-Selector/pkg/voxel"
)

// DefaultMaxVoxels is the voxel budget enforced when PreventUnsafe is set.
const DefaultMaxVoxels = 50000

// Params configures a pipeline step.
type Params struct {
	// VoxelSize is the world size of one voxel on each axis.
	VoxelSize v3.Vec
	// Growth is both the rasterization margin and the distance, in voxels,
	// by which the surface is thickened before meshing.
	Growth int
	// FillClosedVolumes meshes everything up to Growth voxels outside the
	// surface, including enclosed space. Otherwise only a shell of Growth
	// voxels on either side of the surface is kept.
	FillClosedVolumes bool
	// MarchingCubes produces a smooth surface instead of voxel faces.
	MarchingCubes bool
	// PreventUnsafe rejects inputs that would allocate more than MaxVoxels.
	PreventUnsafe bool
	MaxVoxels     int
}

// DefaultParams returns unit voxels, growth 1, filled volumes and the
// default voxel budget.
func DefaultParams() Params {
	return Params{
		VoxelSize:         v3.Vec{X: 1, Y: 1, Z: 1},
		Growth:            1,
		FillClosedVolumes: true,
		PreventUnsafe:     true,
		MaxVoxels:         DefaultMaxVoxels,
	}
}

// Validate checks the parameters before any allocation happens.
func (p Params) Validate() error {
	s := p.VoxelSize
	if !(s.X > 0 && s.Y > 0 && s.Z > 0) {
		return fmt.Errorf("%w: %v", ErrVoxelSize, s)
	}
	if p.Growth < 0 {
		return fmt.Errorf("pipeline: growth %d must not be negative", p.Growth)
	}
	if p.PreventUnsafe && p.MaxVoxels <= 0 {
		return fmt.Errorf("pipeline: voxel limit %d must be positive", p.MaxVoxels)
	}
	return nil
}

// meshingRange selects the voxels that end up in the output mesh.
func (p Params) meshingRange() voxel.Range {
	g := float64(p.Growth)
	if p.FillClosedVolumes {
		return voxel.AtMost(g)
	}
	return voxel.Closed(-g, g)
}

// shellRange is the band around the surface used to merge fields in a union.
func (p Params) shellRange() voxel.Range {
	g := float64(p.Growth)
	return voxel.Closed(-g, g)
}
