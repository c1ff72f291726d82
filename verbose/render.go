package verbose

import (
	"fmt"
	"io"
	"sort"

	"github.com/muesli/termenv"

	"github.com/IlikeChooros/go-mcts/mcts"
)

// notationFn renders an action relative to the search's root state, the
// way mcts.Game.Notation does; callers typically pass
// func(a A) string { return game.Notation(rootState, a) }.
type notationFn[A comparable] func(action A) string

// Snapshot builds a TreeStats from a running or finished SearchLoop, for
// handing to a StatsListener's callbacks or straight to Dump.
func Snapshot[S any, A comparable](sl *mcts.SearchLoop[S, A], notate func(A) string) TreeStats[A] {
	children := sl.RootChildren()
	lines := make([]ChildLine[A], len(children))
	for i, c := range children {
		lines[i] = ChildLine[A]{
			Action:   c.Action,
			Visits:   c.Visits,
			Score:    c.Score,
			Terminal: c.Terminal,
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Visits > lines[j].Visits })

	return TreeStats[A]{
		Iterations: sl.Iterations(),
		Depth:      sl.EstimatedDepth(),
		ElapsedMs:  sl.ElapsedMs(),
		StopReason: sl.StopReason(),
		Lines:      lines,
	}
}

// Dump renders up to the top-10 root children by visit count, plus the
// principal variation, colored via termenv the way the teacher's cmd-line
// examples color board output. notate renders one action to a display
// string (e.g. algebraic notation); pass nil for fmt.Sprint.
func Dump[A comparable](w io.Writer, stats TreeStats[A], pv []A, notate func(A) string) {
	if notate == nil {
		notate = func(a A) string { return fmt.Sprint(a) }
	}
	p := termenv.EnvColorProfile()
	header := termenv.String(fmt.Sprintf(
		"iterations=%d depth=%.2f elapsed=%dms stop=%s",
		stats.Iterations, stats.Depth, stats.ElapsedMs, stats.StopReason,
	)).Foreground(p.Color("6")).Bold()
	fmt.Fprintln(w, header)

	n := len(stats.Lines)
	if n > 10 {
		n = 10
	}
	for i := 0; i < n; i++ {
		l := stats.Lines[i]
		rank := termenv.String(fmt.Sprintf("%2d.", i+1)).Foreground(p.Color("8"))
		move := termenv.String(notate(l.Action)).Foreground(p.Color("3")).Bold()
		score := termenv.String(fmt.Sprintf("%.3f", l.Score)).Foreground(scoreColor(p, l.Score))
		visits := termenv.String(fmt.Sprintf("%d visits", l.Visits)).Foreground(p.Color("8"))
		tag := ""
		if l.Terminal {
			tag = termenv.String(" [terminal]").Foreground(p.Color("1")).String()
		}
		fmt.Fprintf(w, "%s %s  score=%s  %s%s\n", rank, move, score, visits, tag)
	}

	if len(pv) > 0 {
		pvStr := make([]string, len(pv))
		for i, a := range pv {
			pvStr[i] = notate(a)
		}
		line := termenv.String(fmt.Sprint(pvStr)).Foreground(p.Color("2"))
		fmt.Fprintf(w, "pv: %s\n", line)
	}
}

// scoreColor grades a [0,1] expected score from red (losing) through
// yellow to green (winning), a cheap three-stop gradient rather than a
// full colorful.Color blend.
func scoreColor(p termenv.Profile, score float64) termenv.Color {
	switch {
	case score >= 0.66:
		return p.Color("2")
	case score >= 0.33:
		return p.Color("3")
	default:
		return p.Color("1")
	}
}
