package mesh

import (
	"errors"
	"path/filepath"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time check that Triangle is a Face.
var _ Face = Triangle{}

// edgeUses counts how often each undirected edge is used by a triangle.
func edgeUses(m *Mesh) map[[2]uint32]int {
	uses := make(map[[2]uint32]int)
	for _, f := range m.Faces {
		t := f.(Triangle)
		for j := 0; j < 3; j++ {
			a, b := t.Vertices[j], t.Vertices[(j+1)%3]
			if a > b {
				a, b = b, a
			}
			uses[[2]uint32{a, b}]++
		}
	}
	return uses
}

func TestMeshCounts(t *testing.T) {
	tests := []struct {
		name      string
		mesh      *Mesh
		wantVerts int
		wantTris  int
		wantEmpty bool
	}{
		{"empty", &Mesh{}, 0, 0, true},
		{"box", NewBox(v3.Vec{}, v3.Vec{X: 1, Y: 1, Z: 1}), 8, 12, false},
		{"single triangle", FromTriangles([][3]v3.Vec{{{}, {X: 1}, {Y: 1}}}), 3, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mesh.VertexCount(); got != tt.wantVerts {
				t.Errorf("VertexCount() = %d, want %d", got, tt.wantVerts)
			}
			if got := tt.mesh.TriangleCount(); got != tt.wantTris {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.wantTris)
			}
			if got := tt.mesh.IsEmpty(); got != tt.wantEmpty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.wantEmpty)
			}
		})
	}
}

func TestMeshBoundingBox(t *testing.T) {
	m := NewBox(v3.Vec{X: -1, Y: 2, Z: 3}, v3.Vec{X: 4, Y: 5, Z: 6})
	bb := m.BoundingBox()
	if bb.Min != (v3.Vec{X: -1, Y: 2, Z: 3}) || bb.Max != (v3.Vec{X: 4, Y: 5, Z: 6}) {
		t.Errorf("BoundingBox() = %v, want min (-1,2,3) max (4,5,6)", bb)
	}

	empty := (&Mesh{}).BoundingBox()
	if empty.Min != (v3.Vec{}) || empty.Max != (v3.Vec{}) {
		t.Errorf("empty BoundingBox() = %v, want zero box", empty)
	}
}

func TestNewBoxClosedAndOutward(t *testing.T) {
	m := NewBox(v3.Vec{}, v3.Vec{X: 2, Y: 2, Z: 2})
	for e, n := range edgeUses(m) {
		if n != 2 {
			t.Errorf("edge %v used %d times, want 2", e, n)
		}
	}
	center := v3.Vec{X: 1, Y: 1, Z: 1}
	m.EachTriangle(func(a, b, c v3.Vec) {
		n := faceNormal(a, b, c)
		centroid := a.Add(b).Add(c).MulScalar(1.0 / 3)
		if n.Dot(centroid.Sub(center)) <= 0 {
			t.Errorf("triangle %v %v %v faces inwards", a, b, c)
		}
	})
}

func TestBuilderAddQuad(t *testing.T) {
	b := NewBuilder()
	up := v3.Vec{Z: 1}
	b.AddQuad([4]v3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}, up)
	b.AddQuad([4]v3.Vec{{Z: 1}, {X: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {Y: 1, Z: 1}}, up)
	m := b.Mesh()

	if m.TriangleCount() != 4 {
		t.Fatalf("TriangleCount() = %d, want 4", m.TriangleCount())
	}
	if len(m.Normals) != 1 {
		t.Errorf("len(Normals) = %d, want 1 shared normal", len(m.Normals))
	}
	m.EachTriangle(func(a, b, c v3.Vec) {
		if n := faceNormal(a, b, c); n != up {
			t.Errorf("winding normal = %v, want %v", n, up)
		}
	})
}

func TestJoin(t *testing.T) {
	a := NewBox(v3.Vec{}, v3.Vec{X: 1, Y: 1, Z: 1})
	b := NewBox(v3.Vec{X: 5}, v3.Vec{X: 6, Y: 1, Z: 1})
	j := Join(a, nil, b)

	if j.VertexCount() != 16 {
		t.Errorf("VertexCount() = %d, want 16", j.VertexCount())
	}
	if j.TriangleCount() != 24 {
		t.Errorf("TriangleCount() = %d, want 24", j.TriangleCount())
	}
	if len(j.Normals) != 6 {
		t.Errorf("len(Normals) = %d, want 6", len(j.Normals))
	}
	last := j.Faces[len(j.Faces)-1].(Triangle)
	for _, vi := range last.Vertices {
		if vi < 8 {
			t.Errorf("second mesh face references vertex %d of the first", vi)
		}
	}
}

func TestWeldMergesCoincidentVertices(t *testing.T) {
	quad := FromTriangles([][3]v3.Vec{
		{{}, {X: 1}, {X: 1, Y: 1}},
		{{}, {X: 1, Y: 1}, {Y: 1}},
	})
	if quad.VertexCount() != 6 {
		t.Fatalf("unwelded VertexCount() = %d, want 6", quad.VertexCount())
	}

	w, err := Weld(quad, 1e-6)
	if err != nil {
		t.Fatalf("Weld() error = %v", err)
	}
	if w.VertexCount() != 4 {
		t.Errorf("welded VertexCount() = %d, want 4", w.VertexCount())
	}
	if w.TriangleCount() != 2 {
		t.Errorf("welded TriangleCount() = %d, want 2", w.TriangleCount())
	}
}

func TestWeldWithinTolerance(t *testing.T) {
	m := FromTriangles([][3]v3.Vec{
		{{}, {X: 1}, {Y: 1}},
		{{X: 1.001}, {X: 2}, {X: 1, Y: 1}},
	})

	w, err := Weld(m, 0.01)
	if err != nil {
		t.Fatalf("Weld() error = %v", err)
	}
	if w.VertexCount() != 5 {
		t.Errorf("VertexCount() = %d, want 5", w.VertexCount())
	}
	// The first occurrence wins as representative.
	if w.Vertices[1] != (v3.Vec{X: 1}) {
		t.Errorf("representative = %v, want (1,0,0)", w.Vertices[1])
	}
}

func TestWeldCollapse(t *testing.T) {
	m := FromTriangles([][3]v3.Vec{
		{{}, {X: 1}, {Y: 1}},
		{{}, {X: 0.1}, {X: 5, Y: 5}},
	})

	_, err := Weld(m, 0.5)
	if !errors.Is(err, ErrWeldCollapsed) {
		t.Fatalf("Weld() error = %v, want ErrWeldCollapsed", err)
	}

	c := Compact(m, 0.5)
	if c.TriangleCount() != 1 {
		t.Errorf("Compact() TriangleCount() = %d, want 1", c.TriangleCount())
	}
}

func TestWeldEmpty(t *testing.T) {
	w, err := Weld(&Mesh{Name: "nothing"}, 1)
	if err != nil {
		t.Fatalf("Weld() error = %v", err)
	}
	if !w.IsEmpty() || w.Name != "nothing" {
		t.Errorf("Weld(empty) = %+v, want empty mesh named nothing", w)
	}
}

func TestFlatten(t *testing.T) {
	m := NewBox(v3.Vec{}, v3.Vec{X: 1, Y: 1, Z: 1})
	b := m.Flatten()

	if b.TriangleCount() != 12 {
		t.Errorf("TriangleCount() = %d, want 12", b.TriangleCount())
	}
	if b.VertexCount() != 36 {
		t.Errorf("VertexCount() = %d, want 36", b.VertexCount())
	}
	if len(b.Normals) != len(b.Vertices) {
		t.Errorf("len(Normals) = %d, want %d", len(b.Normals), len(b.Vertices))
	}
	if b.IsEmpty() {
		t.Error("IsEmpty() = true, want false")
	}
	if !(&Mesh{}).Flatten().IsEmpty() {
		t.Error("Flatten of empty mesh is not empty")
	}
}

func TestSTLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "box.stl")
	box := NewBox(v3.Vec{}, v3.Vec{X: 2, Y: 3, Z: 4})
	if err := box.SaveSTL(path); err != nil {
		t.Fatalf("SaveSTL() error = %v", err)
	}

	got, err := LoadSTL(path, 1e-4)
	if err != nil {
		t.Fatalf("LoadSTL() error = %v", err)
	}
	if got.VertexCount() != 8 {
		t.Errorf("VertexCount() = %d, want 8", got.VertexCount())
	}
	if got.TriangleCount() != 12 {
		t.Errorf("TriangleCount() = %d, want 12", got.TriangleCount())
	}
	bb := got.BoundingBox()
	if bb.Max != (v3.Vec{X: 2, Y: 3, Z: 4}) {
		t.Errorf("BoundingBox().Max = %v, want (2,3,4)", bb.Max)
	}
}

func TestLoadSTLMissingFile(t *testing.T) {
	if _, err := LoadSTL(filepath.Join(t.TempDir(), "missing.stl"), 1e-4); err == nil {
		t.Error("LoadSTL() error = nil, want error")
	}
}
