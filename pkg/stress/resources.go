// Package stress implements the lock-contention subsystem: a fixed set of
// ordered shared resources, a deadlock-free acquisition protocol, a
// deliberately unsafe twin used to demonstrate circular wait, and a trial
// harness that observes worker completion under an external timeout.
package stress

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrNegativeIterations reports a negative iteration count.
var ErrNegativeIterations = errors.New("negative iteration count")

// defaultNames are the resources a fresh set guards: the two contended
// hardware axes of the fabrication engine. Two resources is the minimal
// configuration in which reversed acquisition order can produce a
// circular wait.
var defaultNames = []string{"laser", "stage"}

// ResourceSet is a fixed collection of independently lockable resources
// with an engine-assigned total order 0..K-1, plus one shared cycle
// counter incremented once per completed critical section. A set lives
// for the lifetime of its engine instance; distinct sets share nothing.
//
// All access to the resources goes through RunSafe or RunUnsafe. A set
// on which an unsafe run has deadlocked still holds those locks forever
// and must be discarded; there is no way to revoke a blocked acquisition.
type ResourceSet struct {
	names  []string
	locks  []sync.Mutex
	cycles atomic.Uint64
}

// NewResourceSet creates a resource set guarding the named resources in
// the given order. With no names it guards the default laser and stage
// pair. Fewer than two resources cannot exhibit circular wait, so two is
// the enforced minimum.
func NewResourceSet(names ...string) (*ResourceSet, error) {
	if len(names) == 0 {
		names = defaultNames
	}
	if len(names) < 2 {
		return nil, fmt.Errorf("resource set needs at least 2 resources, got %d", len(names))
	}
	rs := &ResourceSet{
		names: append([]string(nil), names...),
		locks: make([]sync.Mutex, len(names)),
	}
	return rs, nil
}

// Size returns the number of resources K.
func (rs *ResourceSet) Size() int {
	return len(rs.locks)
}

// Names returns a copy of the resource names in lock order.
func (rs *ResourceSet) Names() []string {
	return append([]string(nil), rs.names...)
}

// Cycles returns the number of critical sections completed so far across
// all workers and both protocols.
func (rs *ResourceSet) Cycles() uint64 {
	return rs.cycles.Load()
}
