package pipeline

import (
	"errors"
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	"github.com/sirupsen/logrus"

	"github.com/sub-digital/H.U.R.B.A.N.-Selector/pkg/mesh"
	"github.com/sub-digital/H.U.R.B.A.N.-Selector/pkg/voxel"
)

// checkBudget rejects a world box that would need more voxels than allowed.
func checkBudget(bb sdf.Box3, p Params) error {
	if !p.PreventUnsafe {
		return nil
	}
	pad := p.VoxelSize.MulScalar(float64(p.Growth))
	grown := sdf.Box3{Min: bb.Min.Sub(pad), Max: bb.Max.Add(pad)}
	count := voxel.EstimateVoxelCount(grown, p.VoxelSize)
	if count <= p.MaxVoxels {
		return nil
	}
	return &TooManyVoxelsError{
		Limit:     p.MaxVoxels,
		Count:     count,
		Suggested: voxel.SuggestVoxelSize(count, p.VoxelSize, p.MaxVoxels),
	}
}

// distanceField rasterizes m and converts it to a signed distance field.
func distanceField(m *mesh.Mesh, p Params) (*voxel.Field, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := checkBudget(m.BoundingBox(), p); err != nil {
		return nil, err
	}
	f := voxel.FromMesh(m, p.VoxelSize, 0, p.Growth)
	f.ComputeDistanceField(voxel.Exactly(0))
	return f, nil
}

// materialize meshes the voxels of f in r.
func materialize(f *voxel.Field, r voxel.Range, p Params) (*mesh.Mesh, error) {
	if !f.ContainsAny(r) {
		return nil, ErrEmptyField
	}
	var (
		m   *mesh.Mesh
		err error
	)
	if p.MarchingCubes {
		m, err = f.ToMarchingCubes(r)
	} else {
		m, err = f.ToMesh(r)
	}
	switch {
	case errors.Is(err, voxel.ErrNothingToMesh):
		return nil, ErrEmptyField
	case errors.Is(err, mesh.ErrWeldCollapsed):
		return nil, fmt.Errorf("%w: %w", ErrWeldFailed, err)
	case err != nil:
		return nil, err
	}
	return m, nil
}

// Voxelize rebuilds m from voxels: the surface is rasterized, grown by
// p.Growth voxels and meshed again.
func Voxelize(m *mesh.Mesh, p Params) (*mesh.Mesh, error) {
	log := logrus.WithField("step", "voxelize")
	f, err := distanceField(m, p)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"voxels": f.Len(), "extents": f.Extents().String()}).Debug("distance field ready")

	out, err := materialize(f, p.meshingRange(), p)
	if err != nil {
		return nil, fmt.Errorf("voxelize: %w", err)
	}
	out.Name = m.Name
	log.WithField("triangles", out.TriangleCount()).Info("voxelized mesh")
	return out, nil
}

// VoxelizeSolid meshes an implicit solid through the same voxel path as
// Voxelize. The solid's interior is the seed, so closed volumes are always
// filled.
func VoxelizeSolid(s sdf.SDF3, p Params) (*mesh.Mesh, error) {
	log := logrus.WithField("step", "voxelize-solid")
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := checkBudget(s.BoundingBox(), p); err != nil {
		return nil, err
	}
	f := voxel.FromSolid(s, p.VoxelSize, 0, p.Growth)
	f.ComputeDistanceField(voxel.Exactly(0))
	log.WithField("voxels", f.Len()).Debug("distance field ready")

	out, err := materialize(f, p.meshingRange(), p)
	if err != nil {
		return nil, fmt.Errorf("voxelize solid: %w", err)
	}
	log.WithField("triangles", out.TriangleCount()).Info("voxelized solid")
	return out, nil
}

// combineFunc is one of the boolean methods of voxel.Field.
type combineFunc func(f *voxel.Field, ra voxel.Range, other *voxel.Field, rb voxel.Range)

func combine(name string, a, b *mesh.Mesh, p Params, op combineFunc, r voxel.Range) (*mesh.Mesh, error) {
	log := logrus.WithField("step", name)
	fa, err := distanceField(a, p)
	if err != nil {
		return nil, fmt.Errorf("%s: first operand: %w", name, err)
	}
	fb, err := distanceField(b, p)
	if err != nil {
		return nil, fmt.Errorf("%s: second operand: %w", name, err)
	}
	op(fa, r, fb, r)
	log.WithFields(logrus.Fields{"voxels": fa.Len(), "extents": fa.Extents().String()}).Debug("fields combined")

	out, err := materialize(fa, p.meshingRange(), p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	log.WithField("triangles", out.TriangleCount()).Info("boolean done")
	return out, nil
}

// Union returns the volume covered by a or b. The fields are merged on the
// band of Growth voxels around each surface.
func Union(a, b *mesh.Mesh, p Params) (*mesh.Mesh, error) {
	return combine("union", a, b, p, (*voxel.Field).Union, p.shellRange())
}

// Intersection returns the volume covered by both a and b.
func Intersection(a, b *mesh.Mesh, p Params) (*mesh.Mesh, error) {
	return combine("intersection", a, b, p, (*voxel.Field).Intersection, p.meshingRange())
}

// Difference returns the volume of a not covered by b.
func Difference(a, b *mesh.Mesh, p Params) (*mesh.Mesh, error) {
	return combine("difference", a, b, p, (*voxel.Field).Difference, p.meshingRange())
}
