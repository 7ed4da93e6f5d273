package slice

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

var nan32 = float32(math.NaN())
var inf32 = float32(math.Inf(1))

// --- Predicate semantics ---

func TestCountConcreteCases(t *testing.T) {
	tests := []struct {
		name  string
		zmin  []float32
		zmax  []float32
		plane float32
		want  int
	}{
		{"interior plane", []float32{0.0}, []float32{1.0}, 0.5, 1},
		{"plane above", []float32{0.0}, []float32{1.0}, 1.5, 0},
		{"lower boundary inclusive", []float32{0.0}, []float32{1.0}, 0.0, 1},
		{"upper boundary inclusive", []float32{0.0}, []float32{1.0}, 1.0, 1},
		{"plane below", []float32{0.0}, []float32{1.0}, -0.5, 0},
		{"empty batch", nil, nil, 0.5, 0},
		{"nan z-min excluded", []float32{nan32}, []float32{1.0}, 0.5, 0},
		{"nan z-max excluded", []float32{0.0}, []float32{nan32}, 0.5, 0},
		{"nan plane excludes all", []float32{0.0, -1}, []float32{1.0, 2}, nan32, 0},
		{"inverted extents never intersect", []float32{1.0}, []float32{0.0}, 0.5, 0},
		{"infinite extent always intersects", []float32{float32(math.Inf(-1))}, []float32{inf32}, 42, 1},
		{"mixed batch", []float32{0, 2, 4, nan32}, []float32{1, 3, 5, 10}, 2.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scalar, err := CountScalar(tt.zmin, tt.zmax, tt.plane)
			if err != nil {
				t.Fatalf("CountScalar: %v", err)
			}
			if scalar != tt.want {
				t.Errorf("CountScalar = %d, want %d", scalar, tt.want)
			}
			lanes, err := CountLanes(tt.zmin, tt.zmax, tt.plane)
			if err != nil {
				t.Fatalf("CountLanes: %v", err)
			}
			if lanes != tt.want {
				t.Errorf("CountLanes = %d, want %d", lanes, tt.want)
			}
		})
	}
}

func TestCountMismatchedLengths(t *testing.T) {
	zmin := []float32{0, 1, 2}
	zmax := []float32{0, 1, 2, 3}

	if _, err := CountScalar(zmin, zmax, 0.5); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("CountScalar error = %v, want ErrLengthMismatch", err)
	}
	if _, err := CountLanes(zmin, zmax, 0.5); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("CountLanes error = %v, want ErrLengthMismatch", err)
	}
}

func TestCountAllOrNone(t *testing.T) {
	const n = 100
	zmin := make([]float32, n)
	zmax := make([]float32, n)
	for i := range zmin {
		zmin[i] = float32(i)
		zmax[i] = float32(i) + 1000
	}

	t.Run("all intersect", func(t *testing.T) {
		got, _ := CountLanes(zmin, zmax, 500)
		if got != n {
			t.Errorf("count = %d, want %d", got, n)
		}
	})
	t.Run("plane below batch minimum", func(t *testing.T) {
		got, _ := CountLanes(zmin, zmax, -1)
		if got != 0 {
			t.Errorf("count = %d, want 0", got)
		}
	})
	t.Run("plane above batch maximum", func(t *testing.T) {
		got, _ := CountLanes(zmin, zmax, 1e9)
		if got != 0 {
			t.Errorf("count = %d, want 0", got)
		}
	})
}

// --- Scalar/lane equivalence ---

// randomBatch generates extents with occasional NaN and infinite values so
// the equivalence check covers the awkward corners of IEEE comparison.
func randomBatch(rng *rand.Rand, n int) (zmin, zmax []float32) {
	zmin = make([]float32, n)
	zmax = make([]float32, n)
	for i := 0; i < n; i++ {
		lo := float32(rng.Float64()*20 - 10)
		hi := lo + float32(rng.Float64())
		switch rng.Intn(20) {
		case 0:
			lo = nan32
		case 1:
			hi = nan32
		case 2:
			hi = inf32
		case 3:
			lo, hi = hi, lo // inverted
		}
		zmin[i] = lo
		zmax[i] = hi
	}
	return zmin, zmax
}

func TestScalarLaneEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(1137))

	// Sizes straddle the lane width so full groups, exact multiples and
	// tails are all exercised.
	sizes := []int{0, 1, 7, 8, 9, 15, 16, 17, 63, 64, 65, 1000, 4099}
	planes := []float32{-10, -0.5, 0, 0.5, 5, 9.999, 1e6, nan32}

	for _, n := range sizes {
		zmin, zmax := randomBatch(rng, n)
		for _, plane := range planes {
			scalar, err := CountScalar(zmin, zmax, plane)
			if err != nil {
				t.Fatalf("n=%d plane=%v: CountScalar: %v", n, plane, err)
			}
			lanes, err := CountLanes(zmin, zmax, plane)
			if err != nil {
				t.Fatalf("n=%d plane=%v: CountLanes: %v", n, plane, err)
			}
			if scalar != lanes {
				t.Errorf("n=%d plane=%v: scalar=%d lanes=%d", n, plane, scalar, lanes)
			}
		}
	}
}

func TestCountIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	zmin, zmax := randomBatch(rng, 333)

	first, _ := CountLanes(zmin, zmax, 0.25)
	for i := 0; i < 10; i++ {
		again, _ := CountLanes(zmin, zmax, 0.25)
		if again != first {
			t.Fatalf("call %d: count = %d, want %d", i, again, first)
		}
	}
}

func TestCountDoesNotMutateInputs(t *testing.T) {
	zmin := []float32{0, 1, 2, 3, 4, 5, 6, 7, 8}
	zmax := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}
	wantMin := append([]float32(nil), zmin...)
	wantMax := append([]float32(nil), zmax...)

	CountLanes(zmin, zmax, 4.5)
	CountScalar(zmin, zmax, 4.5)

	for i := range zmin {
		if zmin[i] != wantMin[i] || zmax[i] != wantMax[i] {
			t.Fatalf("inputs mutated at %d", i)
		}
	}
}
