package mcts

import (
	"sync/atomic"
	"time"
)

// StopReason mirrors the teacher's pkg/mcts/limiter.go bitmask diagnostic,
// narrowed to what this single-threaded engine can actually report.
type StopReason int

const (
	StopNone       StopReason = 0
	StopIterations StopReason = 1 << 0
	StopMovetime   StopReason = 1 << 1
)

func (sr StopReason) String() string {
	switch {
	case sr == StopNone:
		return "None"
	case sr&StopIterations != 0 && sr&StopMovetime != 0:
		return "Iterations|Movetime"
	case sr&StopIterations != 0:
		return "Iterations"
	case sr&StopMovetime != 0:
		return "Movetime"
	default:
		return "Unknown"
	}
}

// timer tracks wall-clock elapsed time since Reset, posting a boolean
// "done" flag asynchronously after the deadline — a single atomic write
// observed by the search loop's poll (§5 "The timer's deadline flag is set
// by a background task whose only effect is a single atomic write").
// Grounded on the teacher's pkg/mcts/timer.go _Timer.
type timer struct {
	start    time.Time
	duration time.Duration
	done     atomic.Bool
	stopCh   chan struct{}
}

func newTimer() *timer {
	return &timer{duration: -1}
}

// reset restarts the timer and, if a positive duration is configured,
// spawns the single background goroutine that flips `done` after the
// deadline (§5: "a background task whose only effect is a single atomic
// write").
func (t *timer) reset(d time.Duration) {
	if t.stopCh != nil {
		close(t.stopCh)
	}
	t.start = time.Now()
	t.duration = d
	t.done.Store(false)
	if d <= 0 {
		t.stopCh = nil
		return
	}
	stopCh := make(chan struct{})
	t.stopCh = stopCh
	go func() {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			t.done.Store(true)
		case <-stopCh:
		}
	}()
}

// elapsed returns milliseconds since the last reset.
func (t *timer) elapsed() int64 {
	ms := time.Since(t.start).Milliseconds()
	if ms < 1 {
		return 1
	}
	return ms
}

// isDone polls the deadline flag set by the background goroutine.
func (t *timer) isDone() bool {
	return t.duration > 0 && t.done.Load()
}

// Budget is the pair (max_iterations, max_time) from §4.7; setting one
// clears the other, consistent with SearchConfig.SetMaxIterations/
// SetMaxTime.
type Budget struct {
	MaxIterations uint64
	MaxTime       time.Duration
}

// budgetLimiter polls a Budget against the iteration counter and the
// background timer, reporting which bound (if any) stopped the search.
type budgetLimiter struct {
	budget Budget
	timer  *timer
	reason StopReason
}

func newBudgetLimiter() *budgetLimiter {
	return &budgetLimiter{timer: newTimer()}
}

func (l *budgetLimiter) reset(b Budget) {
	l.budget = b
	l.reason = StopNone
	l.timer.reset(b.MaxTime)
}

// ok reports whether the search loop may run another iteration. Per §8
// boundary behavior ("max_iterations = 0: returns some root action without
// search"), a Budget with neither knob set (MaxIterations==0 and
// MaxTime==0) means no budget was configured at all — it must not be read
// as "unbounded", or the search loop's for-loop in ChooseAction never
// terminates.
func (l *budgetLimiter) ok(iterations uint64) bool {
	if l.budget.MaxIterations == 0 && l.budget.MaxTime == 0 {
		l.reason |= StopIterations
		return false
	}
	if l.budget.MaxIterations != 0 && iterations >= l.budget.MaxIterations {
		l.reason |= StopIterations
		return false
	}
	if l.timer.isDone() {
		l.reason |= StopMovetime
		return false
	}
	return true
}

func (l *budgetLimiter) stopReason() StopReason { return l.reason }
func (l *budgetLimiter) elapsedMs() int64       { return l.timer.elapsed() }
