package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// boxQuads lists the six faces of a box as corner indices, counter-clockwise
// when seen from outside. Corner i has x = i&1, y = i>>1&1, z = i>>2&1.
var boxQuads = [6]struct {
	corners [4]uint32
	normal  v3.Vec
}{
	{[4]uint32{1, 3, 7, 5}, v3.Vec{X: 1}},
	{[4]uint32{0, 4, 6, 2}, v3.Vec{X: -1}},
	{[4]uint32{2, 6, 7, 3}, v3.Vec{Y: 1}},
	{[4]uint32{0, 1, 5, 4}, v3.Vec{Y: -1}},
	{[4]uint32{4, 5, 7, 6}, v3.Vec{Z: 1}},
	{[4]uint32{0, 2, 3, 1}, v3.Vec{Z: -1}},
}

// NewBox returns a closed, welded box mesh spanning min to max.
func NewBox(min, max v3.Vec) *Mesh {
	m := &Mesh{Name: "box"}
	for i := 0; i < 8; i++ {
		c := min
		if i&1 != 0 {
			c.X = max.X
		}
		if i&2 != 0 {
			c.Y = max.Y
		}
		if i&4 != 0 {
			c.Z = max.Z
		}
		m.Vertices = append(m.Vertices, c)
	}
	for i, q := range boxQuads {
		n := uint32(i)
		m.Normals = append(m.Normals, q.normal)
		c := q.corners
		m.Faces = append(m.Faces,
			Triangle{Vertices: [3]uint32{c[0], c[1], c[2]}, Normals: [3]uint32{n, n, n}},
			Triangle{Vertices: [3]uint32{c[0], c[2], c[3]}, Normals: [3]uint32{n, n, n}},
		)
	}
	return m
}
