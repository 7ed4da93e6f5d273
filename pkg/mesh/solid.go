package mesh

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultCells is the marching cubes resolution used when the caller has
// no better number. Higher values give finer meshes and more triangles.
const DefaultCells = 100

// Box returns a box solid with the given dimensions, centered on the
// origin.
func Box(x, y, z float64) (sdf.SDF3, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("box: %w", err)
	}
	return s, nil
}

// Cylinder returns a z-axis cylinder solid with the given height and
// radius, centered on the origin.
func Cylinder(height, radius float64) (sdf.SDF3, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	return s, nil
}

// FromSDF meshes a solid with uniform marching cubes at the given cell
// resolution. Every emitted triangle gets its own three vertices; the
// slicing kernel only consumes per-triangle extents, so vertex sharing
// is not worth the dedup pass.
func FromSDF(s sdf.SDF3, cells int) (*Mesh, error) {
	if cells <= 0 {
		cells = DefaultCells
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("meshing produced no triangles")
	}

	vertices := make([]float32, 0, len(triangles)*9)
	indices := make([]uint32, 0, len(triangles)*3)
	for i, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &Mesh{Vertices: vertices, Indices: indices}, nil
}
