package script

import (
	"fmt"
	"sync"
	"time"
)

// EvalTimeout is the hard limit for a single evaluation. Scripts drive
// blocking stress runs, so a script that deadlocks the unsafe path is
// cut off here rather than hanging its caller forever; the worker
// goroutine itself cannot be stopped and its engine must be discarded.
const EvalTimeout = 5 * time.Second

// evalOutcome carries one evaluation's results through the channel.
type evalOutcome struct {
	value  any
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch, returning a timeout error
// if the evaluation exceeds EvalTimeout. A generation counter discards
// stale results: on timeout the goroutine may still be running, and its
// eventual result must not be mistaken for a newer evaluation's.
func waitWithTimeout(
	ch <-chan evalOutcome,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (any, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.value, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}
