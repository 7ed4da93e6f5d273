// Package slice implements the plane-intersection counting kernel.
// Triangles are described solely by their vertical extents, stored in
// structure-of-arrays layout so the hot loop streams two flat float32
// slices. The kernel is stateless and safe for unsynchronized concurrent
// use on disjoint or shared inputs; it never mutates its arguments.
package slice

import (
	"errors"
	"fmt"

	"github.com/chazu/lamina/pkg/mesh"
)

// ErrLengthMismatch reports z-min and z-max sequences of different lengths.
var ErrLengthMismatch = errors.New("z-min and z-max lengths differ")

// ErrNegativeLayers reports a negative layer count passed to Sweep.
var ErrNegativeLayers = errors.New("negative layer count")

// Batch holds the per-triangle vertical extents of a triangle set in
// structure-of-arrays layout. Index i of ZMin and ZMax describe the same
// triangle. A batch never requires ZMin[i] <= ZMax[i]; inverted pairs
// simply never intersect any plane.
type Batch struct {
	ZMin []float32
	ZMax []float32
}

// NewBatch builds a batch from equal-length extent slices. The slices are
// referenced, not copied.
func NewBatch(zmin, zmax []float32) (Batch, error) {
	if len(zmin) != len(zmax) {
		return Batch{}, fmt.Errorf("%w: %d z-min vs %d z-max", ErrLengthMismatch, len(zmin), len(zmax))
	}
	return Batch{ZMin: zmin, ZMax: zmax}, nil
}

// FromMesh computes the z-extent batch of every triangle in m.
func FromMesh(m *mesh.Mesh) Batch {
	zmin, zmax := m.ZExtents()
	return Batch{ZMin: zmin, ZMax: zmax}
}

// Len returns the number of triangles in the batch.
func (b Batch) Len() int {
	return len(b.ZMin)
}

// CountScalar counts the batch's triangles crossing the plane using the
// scalar reference path.
func (b Batch) CountScalar(plane float32) int {
	n, _ := CountScalar(b.ZMin, b.ZMax, plane)
	return n
}

// CountLanes counts the batch's triangles crossing the plane using the
// lane-wise path. Always equal to CountScalar for the same inputs.
func (b Batch) CountLanes(plane float32) int {
	n, _ := CountLanes(b.ZMin, b.ZMax, plane)
	return n
}
