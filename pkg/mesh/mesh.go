// Package mesh provides the in-memory triangle mesh representation fed to
// the slicing kernel, and meshing of sdfx solids so whole models can be
// sliced end to end.
package mesh

// Mesh is an indexed triangle mesh in flat array form: vertices has 3
// floats per vertex (x,y,z), indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 // [x0,y0,z0, x1,y1,z1, ...]
	Indices  []uint32  // [i0,i1,i2, ...] triangles
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// ZExtents computes the vertical extent of every triangle, returning one
// z-minimum and one z-maximum per triangle in structure-of-arrays layout.
// This is the bridge from full geometry to the slicing kernel's input.
func (m *Mesh) ZExtents() (zmin, zmax []float32) {
	n := m.TriangleCount()
	zmin = make([]float32, n)
	zmax = make([]float32, n)
	for t := 0; t < n; t++ {
		z0 := m.Vertices[3*m.Indices[3*t]+2]
		z1 := m.Vertices[3*m.Indices[3*t+1]+2]
		z2 := m.Vertices[3*m.Indices[3*t+2]+2]

		lo, hi := z0, z0
		if z1 < lo {
			lo = z1
		}
		if z1 > hi {
			hi = z1
		}
		if z2 < lo {
			lo = z2
		}
		if z2 > hi {
			hi = z2
		}
		zmin[t] = lo
		zmax[t] = hi
	}
	return zmin, zmax
}
