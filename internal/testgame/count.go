package testgame

// CountState is the single integer counter of the one-player counting
// game (§8 scenario 2), grounded on original_source/src/games/count.rs's
// Count(i32).
type CountState int

// CountMove either increments or decrements the counter.
type CountMove int

const (
	CountAdd CountMove = iota
	CountSub
)

// CountingGame is a trivial one-player puzzle: reach exactly 100 starting
// from 0. Unlike the original's placeholder winner() (which returns
// Some(()) unconditionally and so never actually drives a utility
// signal), ComputeUtilities here rewards reaching the target, which is
// what gives §8 scenario 2's "+1 is the chosen root action" its actual
// grounding: Add starts the random walk one step closer to +100 than Sub
// does, giving it a (small but, across 10 000 iterations, measurable)
// higher probability of reaching the terminal within max_playout_depth.
type CountingGame struct{}

func (CountingGame) NumPlayers() int { return 1 }

func (CountingGame) PlayerToMove(CountState) int { return 0 }

func (CountingGame) IsTerminal(s CountState) bool { return int(s) == 100 }

func (g CountingGame) GenerateActions(s CountState, out []CountMove) []CountMove {
	out = out[:0]
	if g.IsTerminal(s) {
		return out
	}
	return append(out, CountAdd, CountSub)
}

func (CountingGame) Apply(s CountState, a CountMove) CountState {
	if a == CountAdd {
		return s + 1
	}
	return s - 1
}

// Winner always reports the sole player, matching the original's
// unconditional Some(()) (a one-player game has no opponent to lose to).
func (CountingGame) Winner(CountState) (int, bool) { return 0, true }

func (g CountingGame) ComputeUtilities(s CountState) []float64 {
	if g.IsTerminal(s) {
		return []float64{1}
	}
	return []float64{0}
}

// ZobristHash is trivial: this game never enables transposition merging.
func (CountingGame) ZobristHash(CountState) uint64 { return 0 }

func (CountingGame) Notation(_ CountState, a CountMove) string {
	if a == CountAdd {
		return "+1"
	}
	return "-1"
}
