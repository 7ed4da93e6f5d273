// Package engine provides the Lamina engine handle. An Engine bundles the
// slicing kernel's public operations with one private ResourceSet for the
// lock stress protocols. Engines are plain values created by New; every
// instance owns its own resources and counter, so independent engines can
// run side by side (and in parallel tests) without touching each other.
package engine

import (
	"errors"
	"fmt"

	"github.com/chazu/lamina/pkg/slice"
	"github.com/chazu/lamina/pkg/stress"
)

// ErrInvalidArgument is the engine's only error kind: malformed input
// detected synchronously before any work begins. Every error returned by
// an Engine method matches it under errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// Engine is the handle through which all kernel and stress operations
// run. The kernel operations are pure and touch no engine state; the
// stress operations contend on the engine's resource set.
type Engine struct {
	resources *stress.ResourceSet
}

// New creates an engine with the default resource set.
func New() *Engine {
	rs, err := stress.NewResourceSet()
	if err != nil {
		// The default set is statically valid.
		panic(fmt.Sprintf("engine: default resource set: %v", err))
	}
	return &Engine{resources: rs}
}

// NewWithResources creates an engine whose stress protocols contend on
// the named resources, locked in the given order. At least two names are
// required.
func NewWithResources(names ...string) (*Engine, error) {
	rs, err := stress.NewResourceSet(names...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return &Engine{resources: rs}, nil
}

// ProcessSTLSIMD counts the triangles whose z-extent contains plane using
// the lane-wise kernel. Safe to call concurrently from any number of
// goroutines; no engine state is read or written.
func (e *Engine) ProcessSTLSIMD(zmin, zmax []float32, plane float32) (int, error) {
	n, err := slice.CountLanes(zmin, zmax, plane)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return n, nil
}

// ProcessSTLScalar counts the triangles whose z-extent contains plane
// using the scalar reference kernel. For identical inputs the result is
// always identical to ProcessSTLSIMD.
func (e *Engine) ProcessSTLScalar(zmin, zmax []float32, plane float32) (int, error) {
	n, err := slice.CountScalar(zmin, zmax, plane)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return n, nil
}

// RunStressTest runs iterations cycles of the ordered (deadlock-free)
// acquisition protocol on the calling goroutine, blocking until done. Any
// number of goroutines may call it concurrently on one engine.
func (e *Engine) RunStressTest(iterations int) error {
	if err := e.resources.RunSafe(iterations); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return nil
}

// RunUnsafeStressTest runs iterations cycles of the direction-selectable
// acquisition pattern on the calling goroutine. Concurrent callers with
// opposite reverse settings can deadlock, in which case the call blocks
// forever; that is not reported as an error (see pkg/stress).
func (e *Engine) RunUnsafeStressTest(iterations int, reverse bool) error {
	if err := e.resources.RunUnsafe(iterations, reverse); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return nil
}

// CycleCount reports the total critical sections completed on this
// engine's resource set, the liveness check surface: after T workers each
// finish RunStressTest(n) it reads exactly T*n.
func (e *Engine) CycleCount() uint64 {
	return e.resources.Cycles()
}

// Resources exposes the engine's resource set for trial harnesses.
func (e *Engine) Resources() *stress.ResourceSet {
	return e.resources
}
