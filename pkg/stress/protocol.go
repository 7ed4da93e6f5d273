package stress

import (
	"fmt"
	"time"
)

// acquireStall widens the window between the first and subsequent
// acquisitions on the unsafe path, forcing a scheduling point so that
// opposed acquisition orders interleave reliably.
const acquireStall = time.Microsecond

// RunSafe executes iterations lock cycles under the ordered acquisition
// discipline: every cycle acquires resources 0..K-1 in ascending order,
// increments the shared cycle counter, and releases K-1..0 in descending
// order. Because every participant acquires in the same total order, no
// cycle of workers can each hold a resource wanted by the next, so the
// structural precondition for circular wait never arises. The call
// returns after completing all iterations for any worker count and any
// iterations >= 0; it blocks the calling goroutine and spawns none.
func (rs *ResourceSet) RunSafe(iterations int) error {
	if iterations < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeIterations, iterations)
	}
	k := len(rs.locks)
	for i := 0; i < iterations; i++ {
		for j := 0; j < k; j++ {
			rs.locks[j].Lock()
		}
		rs.cycles.Add(1)
		for j := k - 1; j >= 0; j-- {
			rs.locks[j].Unlock()
		}
	}
	return nil
}

// RunUnsafe executes iterations lock cycles like RunSafe, except the
// caller chooses the acquisition direction: ascending when reverse is
// false, descending when reverse is true, released in the opposite
// direction either way. Concurrent callers with opposite directions can
// each grab their first resource and then block on one the other holds,
// the classic circular wait. Whether that happens on a given run depends
// on scheduling; a short stall after the first acquisition makes it
// likely under real contention.
//
// There is no avoidance, detection or timeout here. A deadlocked call
// never returns and is not an error from the engine's point of view; it
// is simply still waiting. Bounding the wait is the caller's job, and
// the only error this path reports is a negative iteration count.
func (rs *ResourceSet) RunUnsafe(iterations int, reverse bool) error {
	if iterations < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeIterations, iterations)
	}
	k := len(rs.locks)
	for i := 0; i < iterations; i++ {
		if !reverse {
			rs.locks[0].Lock()
			time.Sleep(acquireStall)
			for j := 1; j < k; j++ {
				rs.locks[j].Lock()
			}
			rs.cycles.Add(1)
			for j := k - 1; j >= 0; j-- {
				rs.locks[j].Unlock()
			}
		} else {
			rs.locks[k-1].Lock()
			time.Sleep(acquireStall)
			for j := k - 2; j >= 0; j-- {
				rs.locks[j].Lock()
			}
			rs.cycles.Add(1)
			for j := 0; j < k; j++ {
				rs.locks[j].Unlock()
			}
		}
	}
	return nil
}
