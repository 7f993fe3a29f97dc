// Package mesh defines the indexed polygon mesh that the voxel engine
// reads from and writes to. Vertices and normals are stored once and
// referenced from faces by index.
package mesh

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Face is a polygonal face of a mesh. The set of face kinds is closed;
// consumers switch on the concrete type.
type Face interface {
	// VertexIndices returns the indices into Mesh.Vertices, in winding order.
	VertexIndices() []uint32
	isFace()
}

// Triangle is a face with three vertex references and three normal references.
type Triangle struct {
	Vertices [3]uint32
	Normals  [3]uint32
}

// VertexIndices returns the three vertex indices.
func (t Triangle) VertexIndices() []uint32 { return t.Vertices[:] }

func (Triangle) isFace() {}

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Vertices []v3.Vec
	Normals  []v3.Vec
	Faces    []Face
	Name     string
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangle faces.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, f := range m.Faces {
		if _, ok := f.(Triangle); ok {
			n++
		}
	}
	return n
}

// IsEmpty returns true if the mesh has no faces.
func (m *Mesh) IsEmpty() bool {
	return len(m.Faces) == 0
}

// BoundingBox returns the axis-aligned box enclosing all vertices.
// An empty mesh yields the zero box.
func (m *Mesh) BoundingBox() sdf.Box3 {
	if len(m.Vertices) == 0 {
		return sdf.Box3{}
	}
	lo := v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, v := range m.Vertices {
		lo = v3.Vec{X: math.Min(lo.X, v.X), Y: math.Min(lo.Y, v.Y), Z: math.Min(lo.Z, v.Z)}
		hi = v3.Vec{X: math.Max(hi.X, v.X), Y: math.Max(hi.Y, v.Y), Z: math.Max(hi.Z, v.Z)}
	}
	return sdf.Box3{Min: lo, Max: hi}
}

// EachTriangle calls fn with the vertex positions of every triangle face.
func (m *Mesh) EachTriangle(fn func(a, b, c v3.Vec)) {
	for _, f := range m.Faces {
		switch f := f.(type) {
		case Triangle:
			fn(m.Vertices[f.Vertices[0]], m.Vertices[f.Vertices[1]], m.Vertices[f.Vertices[2]])
		}
	}
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Vertices: append([]v3.Vec(nil), m.Vertices...),
		Normals:  append([]v3.Vec(nil), m.Normals...),
		Faces:    append([]Face(nil), m.Faces...),
		Name:     m.Name,
	}
	return out
}

// faceNormal returns the unit normal of the triangle abc following the
// right hand rule. Degenerate triangles yield the zero vector.
func faceNormal(a, b, c v3.Vec) v3.Vec {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Length()
	if l == 0 {
		return v3.Vec{}
	}
	return n.MulScalar(1 / l)
}
