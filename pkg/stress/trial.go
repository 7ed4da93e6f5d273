package stress

import "time"

// Outcome is the typed result one worker posts when its protocol run
// returns. Workers report through a channel rather than panicking across
// goroutine boundaries, so the collector always sees either a value or
// nothing at all.
type Outcome struct {
	Worker int
	Err    error
}

// TrialResult summarizes one trial: the outcomes that arrived in time,
// whether the trial was declared deadlocked, and how many workers were
// still blocked when the clock ran out.
type TrialResult struct {
	Outcomes   []Outcome
	Deadlocked bool
	Blocked    int
}

// RunTrial starts one goroutine per worker and collects their outcomes
// until all report or the wall-clock timeout expires. Expiry is reported
// as a detected deadlock, a first-class result rather than an error:
// workers blocked inside a lock acquisition cannot be safely stopped, so
// they are left running and their ResourceSet must be considered
// permanently unusable. Completed outcomes gathered before the timeout
// are retained in the result.
func RunTrial(timeout time.Duration, workers ...func() error) TrialResult {
	outcomes := make(chan Outcome, len(workers))
	for i, w := range workers {
		go func(i int, w func() error) {
			outcomes <- Outcome{Worker: i, Err: w()}
		}(i, w)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var res TrialResult
	for range workers {
		select {
		case out := <-outcomes:
			res.Outcomes = append(res.Outcomes, out)
		case <-timer.C:
			res.Deadlocked = true
			res.Blocked = len(workers) - len(res.Outcomes)
			return res
		}
	}
	return res
}
