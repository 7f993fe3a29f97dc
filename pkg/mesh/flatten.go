package mesh

// Buffers is a triangle mesh laid out for GPU upload.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Buffers struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`
}

// VertexCount returns the number of vertices.
func (b *Buffers) VertexCount() int {
	return len(b.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (b *Buffers) TriangleCount() int {
	return len(b.Indices) / 3
}

// IsEmpty returns true if the buffers hold no geometry.
func (b *Buffers) IsEmpty() bool {
	return len(b.Vertices) == 0
}

// Flatten expands the mesh into per-corner buffers so that every corner
// carries the normal referenced by its face.
func (m *Mesh) Flatten() *Buffers {
	n := m.TriangleCount() * 3
	b := &Buffers{
		Vertices: make([]float32, 0, n*3),
		Normals:  make([]float32, 0, n*3),
		Indices:  make([]uint32, 0, n),
		Name:     m.Name,
	}
	for _, f := range m.Faces {
		switch f := f.(type) {
		case Triangle:
			for j := 0; j < 3; j++ {
				v := m.Vertices[f.Vertices[j]]
				nv := m.Normals[f.Normals[j]]
				b.Indices = append(b.Indices, uint32(len(b.Vertices)/3))
				b.Vertices = append(b.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
				b.Normals = append(b.Normals, float32(nv.X), float32(nv.Y), float32(nv.Z))
			}
		}
	}
	return b
}
