package pipeline

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	"github.com/sirupsen/logrus"

	"github.com/sub-digital/H.U.R.B.A.N.-Selector/pkg/mesh"
	"github.com/sub-digital/H.U.R.B.A.N.-Selector/pkg/voxel"
)

// BlendParams configures Metaballs.
type BlendParams struct {
	// Multiplier sets how fast each volume falls off with distance.
	// Lower values give larger, smoother blobs.
	Multiplier float64
	// Min and Max bound the summed field values that are meshed. Max is
	// ignored when closed volumes are filled.
	Min, Max float64
}

// DefaultBlendParams returns a multiplier of 0.5 and the range [0.5, 2].
func DefaultBlendParams() BlendParams {
	return BlendParams{Multiplier: 0.5, Min: 0.5, Max: 2}
}

// Validate checks the blend parameters.
func (b BlendParams) Validate() error {
	if !(b.Multiplier > 0 && b.Multiplier <= 1) {
		return fmt.Errorf("pipeline: falloff multiplier %g must be in (0, 1]", b.Multiplier)
	}
	if b.Min > b.Max {
		return fmt.Errorf("pipeline: volume range [%g, %g] is inverted", b.Min, b.Max)
	}
	return nil
}

// growth is the rasterization margin: far enough for the falloff to drop
// well below any sensible meshing threshold.
func (b BlendParams) growth() int {
	return int(math.Max(math.Round(1/b.Multiplier), 1)) + 5
}

func (b BlendParams) meshingRange(fill bool) voxel.Range {
	if fill {
		return voxel.AtLeast(b.Min)
	}
	return voxel.Closed(b.Min, b.Max)
}

// Metaballs blends a and b: each mesh becomes an inverse-square falloff
// field around its surface, the two fields are summed and the voxels whose
// sum lies in the blend range are meshed. p.Growth is replaced by a margin
// derived from the multiplier.
func Metaballs(a, b *mesh.Mesh, p Params, bp BlendParams) (*mesh.Mesh, error) {
	log := logrus.WithField("step", "metaballs")
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := bp.Validate(); err != nil {
		return nil, err
	}
	p.Growth = bp.growth()
	ab, bb := a.BoundingBox(), b.BoundingBox()
	if err := checkBudget(sdf.Box3{Min: ab.Min.Min(bb.Min), Max: ab.Max.Max(bb.Max)}, p); err != nil {
		return nil, err
	}

	falloff := voxel.InverseSquare(bp.Multiplier, p.FillClosedVolumes)
	fa := voxel.FromMesh(a, p.VoxelSize, 0, p.Growth)
	fb := voxel.FromMesh(b, p.VoxelSize, 0, p.Growth)
	fa.ComputeFalloffField(voxel.Exactly(0), falloff)
	fb.ComputeFalloffField(voxel.Exactly(0), falloff)
	fa.AddValues(fb)
	log.WithFields(logrus.Fields{"voxels": fa.Len(), "extents": fa.Extents().String()}).Debug("fields summed")

	out, err := materialize(fa, bp.meshingRange(p.FillClosedVolumes), p)
	if err != nil {
		return nil, fmt.Errorf("metaballs: %w", err)
	}
	out.Name = "metaballs"
	log.WithField("triangles", out.TriangleCount()).Info("metaballs done")
	return out, nil
}
