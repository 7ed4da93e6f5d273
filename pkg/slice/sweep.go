package slice

import "fmt"

// Sweep counts intersections for a stack of layers planes starting at z0
// and spaced dz apart, returning one count per layer. Plane heights are
// accumulated in float32 so layer j sees exactly the height a float32
// slicer front-end would compute.
func Sweep(b Batch, z0, dz float32, layers int) ([]int, error) {
	if layers < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeLayers, layers)
	}
	counts := make([]int, layers)
	plane := z0
	for j := 0; j < layers; j++ {
		counts[j] = b.CountLanes(plane)
		plane += dz
	}
	return counts, nil
}
