package mesh

import (
	"errors"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// ErrWeldCollapsed is returned by Weld when merging nearby vertices turns a
// face into a degenerate one.
var ErrWeldCollapsed = errors.New("mesh: weld collapsed a face")

// weldPoint is a vertex position tagged with its index in the source mesh.
type weldPoint struct {
	pos   v3.Vec
	index int
}

func (p weldPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(weldPoint)
	switch d {
	case 0:
		return p.pos.X - q.pos.X
	case 1:
		return p.pos.Y - q.pos.Y
	default:
		return p.pos.Z - q.pos.Z
	}
}

func (p weldPoint) Dims() int { return 3 }

// Distance returns the squared euclidean distance.
func (p weldPoint) Distance(c kdtree.Comparable) float64 {
	d := p.pos.Sub(c.(weldPoint).pos)
	return d.Dot(d)
}

type weldPoints []weldPoint

func (p weldPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p weldPoints) Len() int                              { return len(p) }
func (p weldPoints) Pivot(d kdtree.Dim) int                { return weldPlane{weldPoints: p, Dim: d}.Pivot() }
func (p weldPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

type weldPlane struct {
	kdtree.Dim
	weldPoints
}

func (p weldPlane) Less(i, j int) bool {
	return p.weldPoints[i].Compare(p.weldPoints[j], p.Dim) < 0
}
func (p weldPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p weldPlane) Slice(start, end int) kdtree.SortSlicer {
	p.weldPoints = p.weldPoints[start:end]
	return p
}
func (p weldPlane) Swap(i, j int) {
	p.weldPoints[i], p.weldPoints[j] = p.weldPoints[j], p.weldPoints[i]
}

var (
	_ kdtree.Interface  = weldPoints(nil)
	_ kdtree.Comparable = weldPoint{}
)

// cluster maps every vertex of m to a representative. Vertices are visited
// in index order; each unassigned vertex becomes a representative and
// claims every unassigned vertex within tolerance of it.
func cluster(m *Mesh, tolerance float64) (remap []uint32, vertices []v3.Vec) {
	n := len(m.Vertices)
	pts := make(weldPoints, n)
	for i, v := range m.Vertices {
		pts[i] = weldPoint{pos: v, index: i}
	}
	tree := kdtree.New(pts, false)

	remap = make([]uint32, n)
	assigned := make([]bool, n)
	for i, v := range m.Vertices {
		if assigned[i] {
			continue
		}
		target := uint32(len(vertices))
		vertices = append(vertices, v)
		remap[i] = target
		assigned[i] = true

		keep := kdtree.NewDistKeeper(tolerance * tolerance)
		tree.NearestSet(keep, weldPoint{pos: v, index: i})
		for _, c := range keep.Heap {
			if c.Comparable == nil {
				continue
			}
			j := c.Comparable.(weldPoint).index
			if !assigned[j] {
				remap[j] = target
				assigned[j] = true
			}
		}
	}
	return remap, vertices
}

func weld(m *Mesh, tolerance float64, dropCollapsed bool) (*Mesh, error) {
	out := &Mesh{Name: m.Name, Normals: append([]v3.Vec(nil), m.Normals...)}
	if len(m.Vertices) == 0 {
		return out, nil
	}
	remap, vertices := cluster(m, tolerance)
	out.Vertices = vertices
	out.Faces = make([]Face, 0, len(m.Faces))
	for i, f := range m.Faces {
		switch f := f.(type) {
		case Triangle:
			t := f
			for j := range t.Vertices {
				t.Vertices[j] = remap[f.Vertices[j]]
			}
			if t.Vertices[0] == t.Vertices[1] || t.Vertices[1] == t.Vertices[2] || t.Vertices[0] == t.Vertices[2] {
				if dropCollapsed {
					continue
				}
				return nil, fmt.Errorf("%w: triangle %d at tolerance %g", ErrWeldCollapsed, i, tolerance)
			}
			out.Faces = append(out.Faces, t)
		}
	}
	return out, nil
}

// Weld merges vertices closer than tolerance and rewrites face references.
// It fails with ErrWeldCollapsed if any face loses a distinct vertex.
func Weld(m *Mesh, tolerance float64) (*Mesh, error) {
	return weld(m, tolerance, false)
}

// Compact merges vertices like Weld but silently drops faces that collapse.
// It is meant for meshes from external sources that may carry slivers.
func Compact(m *Mesh, tolerance float64) *Mesh {
	out, _ := weld(m, tolerance, true)
	return out
}
