package voxel

import (
	"fmt"
	"math"
)

// BoundKind tells whether a range end is open, inclusive or exclusive.
type BoundKind int

const (
	Unbounded BoundKind = iota
	Included
	Excluded
)

// Bound is one end of a Range.
type Bound struct {
	Kind  BoundKind
	Value float64
}

// Range is an interval of scalar values used to decide which voxels count
// as volume. The zero Range contains every number.
type Range struct {
	Lo, Hi Bound
}

// Exactly returns [v, v].
func Exactly(v float64) Range {
	return Range{Bound{Included, v}, Bound{Included, v}}
}

// Closed returns [lo, hi].
func Closed(lo, hi float64) Range {
	return Range{Bound{Included, lo}, Bound{Included, hi}}
}

// Between returns [lo, hi).
func Between(lo, hi float64) Range {
	return Range{Bound{Included, lo}, Bound{Excluded, hi}}
}

// AtMost returns (-inf, v].
func AtMost(v float64) Range {
	return Range{Hi: Bound{Included, v}}
}

// AtLeast returns [v, +inf).
func AtLeast(v float64) Range {
	return Range{Lo: Bound{Included, v}}
}

// Everything returns the range containing every number.
func Everything() Range {
	return Range{}
}

// Contains reports whether v lies in r. NaN is never contained.
func (r Range) Contains(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	switch r.Lo.Kind {
	case Included:
		if v < r.Lo.Value {
			return false
		}
	case Excluded:
		if v <= r.Lo.Value {
			return false
		}
	}
	switch r.Hi.Kind {
	case Included:
		if v > r.Hi.Value {
			return false
		}
	case Excluded:
		if v >= r.Hi.Value {
			return false
		}
	}
	return true
}

// Holds reports whether voxel v is present and its value lies in r.
func (r Range) Holds(v Voxel) bool {
	return v.Valid && r.Contains(v.Value)
}

// Bounded reports whether both ends are finite.
func (r Range) Bounded() bool {
	return r.Lo.Kind != Unbounded && r.Hi.Kind != Unbounded
}

func (r Range) String() string {
	lo, hi := "(-inf", "+inf)"
	switch r.Lo.Kind {
	case Included:
		lo = fmt.Sprintf("[%g", r.Lo.Value)
	case Excluded:
		lo = fmt.Sprintf("(%g", r.Lo.Value)
	}
	switch r.Hi.Kind {
	case Included:
		hi = fmt.Sprintf("%g]", r.Hi.Value)
	case Excluded:
		hi = fmt.Sprintf("%g)", r.Hi.Value)
	}
	return lo + ", " + hi
}

// Remap linearly rescales v from the interval of from onto the interval of
// to. Identical ranges return v unchanged. A zero-length source maps to the
// midpoint of the target. The result is false when either range has an
// unbounded end and the ranges differ.
func Remap(v float64, from, to Range) (float64, bool) {
	if from == to {
		return v, true
	}
	if !from.Bounded() || !to.Bounded() {
		return 0, false
	}
	span := from.Hi.Value - from.Lo.Value
	if span == 0 {
		return (to.Lo.Value + to.Hi.Value) / 2, true
	}
	t := (v - from.Lo.Value) / span
	return to.Lo.Value + t*(to.Hi.Value-to.Lo.Value), true
}
