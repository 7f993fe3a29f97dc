package voxel

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// EstimateVoxelCount returns the number of cells FromBoundingBox would
// allocate for bb.
func EstimateVoxelCount(bb sdf.Box3, size v3.Vec) int {
	lo := AbsOfCartesian(bb.Min, size)
	hi := AbsOfCartesian(bb.Max, size)
	d := hi.Sub(lo)
	return Extents{d.X + 1, d.Y + 1, d.Z + 1}.Len()
}

// SuggestVoxelSize scales size so that a block of count voxels would
// shrink to roughly threshold voxels, with ten percent to spare.
func SuggestVoxelSize(count int, size v3.Vec, threshold int) v3.Vec {
	if count <= threshold || threshold <= 0 {
		return size
	}
	ratio := math.Cbrt(float64(count)/float64(threshold)) * 1.1
	return size.MulScalar(ratio)
}
