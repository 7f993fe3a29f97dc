package mesh

import (
	"fmt"
	"io"
	"os"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/unixpickle/model3d/model3d"
)

// ReadSTL decodes an STL stream and welds coincident corners within
// tolerance. Faces that collapse during the weld are dropped.
func ReadSTL(r io.Reader, tolerance float64) (*Mesh, error) {
	tris, err := model3d.ReadSTL(r)
	if err != nil {
		return nil, fmt.Errorf("mesh: read stl: %w", err)
	}
	raw := make([][3]v3.Vec, len(tris))
	for i, t := range tris {
		for j := 0; j < 3; j++ {
			raw[i][j] = v3.Vec{X: t[j].X, Y: t[j].Y, Z: t[j].Z}
		}
	}
	return Compact(FromTriangles(raw), tolerance), nil
}

// LoadSTL reads an STL file from disk. See ReadSTL.
func LoadSTL(path string, tolerance float64) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: %w", err)
	}
	defer f.Close()
	return ReadSTL(f, tolerance)
}

// SaveSTL writes the mesh to path as a binary STL file.
func (m *Mesh) SaveSTL(path string) error {
	out := model3d.NewMesh()
	m.EachTriangle(func(a, b, c v3.Vec) {
		out.Add(&model3d.Triangle{coord(a), coord(b), coord(c)})
	})
	if err := out.SaveGroupedSTL(path); err != nil {
		return fmt.Errorf("mesh: save stl %s: %w", path, err)
	}
	return nil
}

func coord(v v3.Vec) model3d.Coord3D {
	return model3d.Coord3D{X: v.X, Y: v.Y, Z: v.Z}
}
