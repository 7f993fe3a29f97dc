package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Builder accumulates faces into a mesh. Normals are shared by value so a
// mesh made of axis-aligned quads stores only a handful of them.
type Builder struct {
	m       Mesh
	normals map[v3.Vec]uint32
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{normals: make(map[v3.Vec]uint32)}
}

func (b *Builder) normal(n v3.Vec) uint32 {
	if i, ok := b.normals[n]; ok {
		return i
	}
	i := uint32(len(b.m.Normals))
	b.m.Normals = append(b.m.Normals, n)
	b.normals[n] = i
	return i
}

func (b *Builder) vertex(v v3.Vec) uint32 {
	i := uint32(len(b.m.Vertices))
	b.m.Vertices = append(b.m.Vertices, v)
	return i
}

// AddTriangle appends a triangle with its own three vertices and a flat
// normal derived from the winding order.
func (b *Builder) AddTriangle(p0, p1, p2 v3.Vec) {
	n := b.normal(faceNormal(p0, p1, p2))
	b.m.Faces = append(b.m.Faces, Triangle{
		Vertices: [3]uint32{b.vertex(p0), b.vertex(p1), b.vertex(p2)},
		Normals:  [3]uint32{n, n, n},
	})
}

// AddQuad appends the planar quad c[0] c[1] c[2] c[3] as the two triangles
// (0,1,2) and (0,2,3), all referencing the given normal.
func (b *Builder) AddQuad(c [4]v3.Vec, normal v3.Vec) {
	n := b.normal(normal)
	var idx [4]uint32
	for i := range c {
		idx[i] = b.vertex(c[i])
	}
	b.m.Faces = append(b.m.Faces,
		Triangle{Vertices: [3]uint32{idx[0], idx[1], idx[2]}, Normals: [3]uint32{n, n, n}},
		Triangle{Vertices: [3]uint32{idx[0], idx[2], idx[3]}, Normals: [3]uint32{n, n, n}},
	)
}

// Append copies all faces of o into the builder, re-basing their indices.
func (b *Builder) Append(o *Mesh) {
	if o == nil {
		return
	}
	vbase := uint32(len(b.m.Vertices))
	b.m.Vertices = append(b.m.Vertices, o.Vertices...)
	nmap := make([]uint32, len(o.Normals))
	for i, n := range o.Normals {
		nmap[i] = b.normal(n)
	}
	for _, f := range o.Faces {
		switch f := f.(type) {
		case Triangle:
			var t Triangle
			for j := 0; j < 3; j++ {
				t.Vertices[j] = f.Vertices[j] + vbase
				t.Normals[j] = nmap[f.Normals[j]]
			}
			b.m.Faces = append(b.m.Faces, t)
		}
	}
}

// Mesh returns the accumulated mesh. The builder must not be used afterwards.
func (b *Builder) Mesh() *Mesh {
	m := b.m
	b.m = Mesh{}
	b.normals = nil
	return &m
}

// Join concatenates meshes without merging any vertices.
func Join(meshes ...*Mesh) *Mesh {
	b := NewBuilder()
	for _, m := range meshes {
		b.Append(m)
	}
	return b.Mesh()
}

// FromTriangles builds an unwelded mesh from raw triangle corners.
func FromTriangles(tris [][3]v3.Vec) *Mesh {
	b := NewBuilder()
	for _, t := range tris {
		b.AddTriangle(t[0], t[1], t[2])
	}
	return b.Mesh()
}
