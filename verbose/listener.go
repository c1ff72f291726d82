// Package verbose provides optional search-progress instrumentation for
// mcts.SearchLoop: a StatsListener callback hook (grounded on the
// teacher's pkg/mcts/stats_listener.go) and a termenv-colored renderer for
// root-child rankings and the principal variation.
package verbose

import "github.com/IlikeChooros/go-mcts/mcts"

// ChildLine is one root child's summary: its action, visit count, and
// expected score for the player to move, plus the PV continuation below
// it. Grounded on the teacher's SearchLine[T] (pkg/mcts/stats_listener.go).
type ChildLine[A comparable] struct {
	Action   A
	Visits   int32
	Score    float64
	Terminal bool
	PV       []A
}

// TreeStats is the per-callback snapshot handed to a ListenerFunc,
// mirroring the teacher's ListenerTreeStats[T].
type TreeStats[A comparable] struct {
	Iterations uint64
	Depth      float64
	ElapsedMs  int64
	StopReason mcts.StopReason
	Lines      []ChildLine[A]
}

// ListenerFunc receives a TreeStats snapshot; see StatsListener's OnDepth/
// OnCycle/OnStop for when each fires.
type ListenerFunc[A comparable] func(TreeStats[A])

// StatsListener is a fluent attach-point for search-progress callbacks,
// mirroring the teacher's StatsListener[T] (OnDepth/OnCycle/OnStop). None
// of this package's types read or write SearchLoop's internals directly:
// a caller wires a StatsListener's callbacks into its own iteration loop
// by calling the exported Snapshot helper (render.go) at the cadence it wants
// (once per depth increase, once per N iterations, once at the end).
type StatsListener[A comparable] struct {
	onDepth ListenerFunc[A]
	onCycle ListenerFunc[A]
	onStop  ListenerFunc[A]
}

// OnDepth attaches a callback fired when search depth increases.
func (l *StatsListener[A]) OnDepth(f ListenerFunc[A]) *StatsListener[A] {
	l.onDepth = f
	return l
}

// OnCycle attaches a callback fired once per completed iteration; this is
// expensive (it snapshots every root child) so reserve it for debugging.
func (l *StatsListener[A]) OnCycle(f ListenerFunc[A]) *StatsListener[A] {
	l.onCycle = f
	return l
}

// OnStop attaches a callback fired once the search has stopped.
func (l *StatsListener[A]) OnStop(f ListenerFunc[A]) *StatsListener[A] {
	l.onStop = f
	return l
}

// FireDepth invokes the onDepth callback, if any, with stats.
func (l *StatsListener[A]) FireDepth(stats TreeStats[A]) {
	if l.onDepth != nil {
		l.onDepth(stats)
	}
}

// FireCycle invokes the onCycle callback, if any, with stats.
func (l *StatsListener[A]) FireCycle(stats TreeStats[A]) {
	if l.onCycle != nil {
		l.onCycle(stats)
	}
}

// FireStop invokes the onStop callback, if any, with stats.
func (l *StatsListener[A]) FireStop(stats TreeStats[A]) {
	if l.onStop != nil {
		l.onStop(stats)
	}
}
