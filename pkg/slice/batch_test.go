package slice

import (
	"errors"
	"testing"

	"github.com/chazu/lamina/pkg/mesh"
)

func TestNewBatch(t *testing.T) {
	t.Run("equal lengths", func(t *testing.T) {
		b, err := NewBatch([]float32{0, 1}, []float32{2, 3})
		if err != nil {
			t.Fatalf("NewBatch: %v", err)
		}
		if b.Len() != 2 {
			t.Errorf("Len() = %d, want 2", b.Len())
		}
	})
	t.Run("empty", func(t *testing.T) {
		b, err := NewBatch(nil, nil)
		if err != nil {
			t.Fatalf("NewBatch: %v", err)
		}
		if b.Len() != 0 {
			t.Errorf("Len() = %d, want 0", b.Len())
		}
	})
	t.Run("mismatched lengths", func(t *testing.T) {
		_, err := NewBatch([]float32{0}, []float32{1, 2})
		if !errors.Is(err, ErrLengthMismatch) {
			t.Errorf("error = %v, want ErrLengthMismatch", err)
		}
	})
}

func TestBatchCountMethods(t *testing.T) {
	b, err := NewBatch([]float32{0, 2, 4}, []float32{1, 3, 5})
	if err != nil {
		t.Fatalf("NewBatch: %v", err)
	}
	if got := b.CountScalar(2.5); got != 1 {
		t.Errorf("CountScalar(2.5) = %d, want 1", got)
	}
	if got := b.CountLanes(2.5); got != 1 {
		t.Errorf("CountLanes(2.5) = %d, want 1", got)
	}
}

func TestFromMesh(t *testing.T) {
	// Two triangles sharing an edge: one spanning z in [0,2], one flat
	// at z=2.
	m := &mesh.Mesh{
		Vertices: []float32{
			0, 0, 0,
			1, 0, 2,
			0, 1, 2,
			1, 1, 2,
		},
		Indices: []uint32{0, 1, 2, 1, 3, 2},
	}

	b := FromMesh(m)
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
	if got := b.CountLanes(1.0); got != 1 {
		t.Errorf("count at z=1.0: %d, want 1 (only the spanning triangle)", got)
	}
	if got := b.CountLanes(2.0); got != 2 {
		t.Errorf("count at z=2.0: %d, want 2 (boundary is inclusive)", got)
	}
	if got := b.CountLanes(3.0); got != 0 {
		t.Errorf("count at z=3.0: %d, want 0", got)
	}
}
