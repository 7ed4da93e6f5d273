package slice

import "fmt"

// laneWidth is the number of triangles evaluated per lane group. Eight
// float32 lanes fill a 256-bit vector register; the main loop is written
// so the compiler can keep the per-lane counters in registers. The width
// is internal and never affects results.
const laneWidth = 8

// Triangle i crosses the plane iff zmin[i] <= plane <= zmax[i] under
// IEEE-754 comparison, so a NaN in either bound excludes the triangle
// rather than raising an error.

// CountScalar counts triangles whose z-extent contains plane, one at a
// time. It is the reference path: CountLanes must agree with it exactly
// on every input, including NaN, infinities and the empty batch.
func CountScalar(zmin, zmax []float32, plane float32) (int, error) {
	if len(zmin) != len(zmax) {
		return 0, fmt.Errorf("%w: %d z-min vs %d z-max", ErrLengthMismatch, len(zmin), len(zmax))
	}
	count := 0
	for i := range zmin {
		if zmin[i] <= plane && plane <= zmax[i] {
			count++
		}
	}
	return count, nil
}

// CountLanes counts triangles whose z-extent contains plane by evaluating
// the predicate over fixed-width lane groups with one partial counter per
// lane, then reducing the partials and sweeping the tail. The layout
// mirrors the batch SoA kernels in wide-register geometry code: full
// groups first, masked remainder last.
func CountLanes(zmin, zmax []float32, plane float32) (int, error) {
	if len(zmin) != len(zmax) {
		return 0, fmt.Errorf("%w: %d z-min vs %d z-max", ErrLengthMismatch, len(zmin), len(zmax))
	}
	size := len(zmin)

	var lanes [laneWidth]int32
	offset := 0
	for ; offset+laneWidth <= size; offset += laneWidth {
		lo := zmin[offset : offset+laneWidth : offset+laneWidth]
		hi := zmax[offset : offset+laneWidth : offset+laneWidth]
		for k := 0; k < laneWidth; k++ {
			if lo[k] <= plane && plane <= hi[k] {
				lanes[k]++
			}
		}
	}

	// Reduce lane partials.
	count := 0
	for k := range lanes {
		count += int(lanes[k])
	}

	// Tail: fewer than laneWidth triangles remain.
	for ; offset < size; offset++ {
		if zmin[offset] <= plane && plane <= zmax[offset] {
			count++
		}
	}
	return count, nil
}
