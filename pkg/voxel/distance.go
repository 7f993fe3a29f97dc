package voxel

// faceNeighbours are the six voxels sharing a face with the origin voxel.
var faceNeighbours = [6]Coord{
	{-1, 0, 0}, {1, 0, 0},
	{0, -1, 0}, {0, 1, 0},
	{0, 0, -1}, {0, 0, 1},
}

func onBlockBoundary(r Coord, ext Extents) bool {
	return r.X == 0 || r.Y == 0 || r.Z == 0 ||
		r.X == ext.X-1 || r.Y == ext.Y-1 || r.Z == ext.Z-1
}

// ComputeDistanceField replaces the field with the unsigned Manhattan
// distance from the voxels in r, signed by whether a voxel can reach the
// block boundary without crossing r.
//
// Voxels in r become 0. Voxels outside r that are connected to the block
// boundary through other such voxels get +d; enclosed ones get -d, where d
// is the number of face steps to the nearest voxel in r. Voxels no voxel in
// r can reach keep their previous contents.
func (f *Field) ComputeDistanceField(r Range) {
	n := len(f.cells)
	if n == 0 {
		return
	}
	seed := make([]bool, n)
	outer := make([]bool, n)
	visited := make([]bool, n)

	var frontier, queue []int
	for i, v := range f.cells {
		if r.Holds(v) {
			seed[i] = true
			visited[i] = true
			frontier = append(frontier, i)
			continue
		}
		if onBlockBoundary(relativeOf(i, f.extents), f.extents) {
			outer[i] = true
			queue = append(queue, i)
		}
	}

	// Flood the outside from the boundary through non-range voxels.
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		c := AbsOf(i, f.origin, f.extents)
		for _, off := range faceNeighbours {
			j, ok := IndexOf(c.Add(off), f.origin, f.extents)
			if !ok || outer[j] || seed[j] {
				continue
			}
			outer[j] = true
			queue = append(queue, j)
		}
	}

	// Breadth-first distance from the range voxels, one level at a time.
	for level := 0; len(frontier) > 0; level++ {
		var next []int
		for _, i := range frontier {
			switch {
			case seed[i]:
				f.cells[i] = Filled(0)
			case outer[i]:
				f.cells[i] = Filled(float64(level))
			default:
				f.cells[i] = Filled(-float64(level))
			}
			c := AbsOf(i, f.origin, f.extents)
			for _, off := range faceNeighbours {
				j, ok := IndexOf(c.Add(off), f.origin, f.extents)
				if !ok || visited[j] {
					continue
				}
				visited[j] = true
				next = append(next, j)
			}
		}
		frontier = next
	}
}
