package pipeline

import (
	"errors"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	// ErrEmptyField is returned when a step leaves no voxel to mesh.
	ErrEmptyField = errors.New("pipeline: the resulting scalar field is empty")
	// ErrWeldFailed is returned when welding the voxel faces collapses a face.
	ErrWeldFailed = errors.New("pipeline: welding of separate voxels failed due to high welding proximity tolerance")
	// ErrVoxelSize is returned for a voxel size that is not positive on every axis.
	ErrVoxelSize = errors.New("pipeline: one or more voxel dimensions are zero or less")
)

// TooManyVoxelsError reports an input that would exceed the voxel budget,
// together with a voxel size that would fit.
type TooManyVoxelsError struct {
	Limit     int
	Count     int
	Suggested v3.Vec
}

func (e *TooManyVoxelsError) Error() string {
	return fmt.Sprintf("pipeline: too many voxels (%d). Limit set to %d. Try setting voxel size to [%.3f, %.3f, %.3f] or more",
		e.Count, e.Limit, e.Suggested.X, e.Suggested.Y, e.Suggested.Z)
}

// PanicError is a panic recovered while running a step, usually a broken
// precondition inside the voxel engine.
type PanicError struct {
	Step  string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("pipeline: panic during %s: %v", e.Step, e.Value)
}
