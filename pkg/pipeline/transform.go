package pipeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/sirupsen/logrus"

	"github.com/sub-digital/H.U.R.B.A.N.-Selector/pkg/mesh"
	"github.com/sub-digital/H.U.R.B.A.N.-Selector/pkg/voxel"
)

// ErrSingularTransform is returned for a placement that scales an axis to zero.
var ErrSingularTransform = errors.New("pipeline: transform scales an axis to zero")

// Placement moves a voxelized volume: it is scaled, then rotated about X,
// Y and Z (degrees), then translated.
type Placement struct {
	Translate v3.Vec
	Rotate    v3.Vec
	Scale     v3.Vec
}

// Identity returns the placement that leaves a volume where it is.
func Identity() Placement {
	return Placement{Scale: v3.Vec{X: 1, Y: 1, Z: 1}}
}

// Matrix returns the placement as a single transform.
func (pl Placement) Matrix() sdf.M44 {
	rad := pl.Rotate.MulScalar(math.Pi / 180)
	rot := sdf.RotateZ(rad.Z).Mul(sdf.RotateY(rad.Y)).Mul(sdf.RotateX(rad.X))
	return sdf.Translate3d(pl.Translate).Mul(rot).Mul(sdf.Scale3d(pl.Scale))
}

// Transform voxelizes m, moves the volume by pl in voxel space and
// rebuilds the surface around the moved voxels, grown by p.Growth.
func Transform(m *mesh.Mesh, p Params, pl Placement) (*mesh.Mesh, error) {
	log := logrus.WithField("step", "transform")
	if pl.Scale.X == 0 || pl.Scale.Y == 0 || pl.Scale.Z == 0 {
		return nil, ErrSingularTransform
	}
	mat := pl.Matrix()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := checkBudget(mat.MulBox(m.BoundingBox()), p); err != nil {
		return nil, err
	}
	f, err := distanceField(m, p)
	if err != nil {
		return nil, err
	}

	// Filled volumes move as solids, so the interior survives rotation.
	src := voxel.Exactly(0)
	if p.FillClosedVolumes {
		src = voxel.AtMost(0)
	}
	moved, ok := f.Transform(src, mat, p.VoxelSize, 0)
	if !ok {
		return nil, ErrEmptyField
	}
	bounds, ok := moved.VolumeBounds(voxel.Exactly(0))
	if !ok {
		return nil, ErrEmptyField
	}
	g := voxel.Coord{X: p.Growth, Y: p.Growth, Z: p.Growth}
	moved.ResizeToBox(voxel.Box{Min: bounds.Min.Sub(g), Max: bounds.Max.Add(g)})
	moved.ComputeDistanceField(voxel.Exactly(0))
	log.WithFields(logrus.Fields{"voxels": moved.Len(), "extents": moved.Extents().String()}).Debug("volume moved")

	out, err := materialize(moved, p.meshingRange(), p)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	out.Name = m.Name
	log.WithField("triangles", out.TriangleCount()).Info("transformed mesh")
	return out, nil
}
