package mcts

// SimulatePolicy is the playout move-choice contract (§4.5):
// `select_move(state, legal_actions, global_stats, player, rng) -> action`.
type SimulatePolicy[S any, A comparable] interface {
	SelectMove(game Game[S, A], state S, actions []A, global *GlobalTables[A], player int, rng Rng) A
	Flags() BackpropFlags
}

// ---- Uniform ----

// Uniform is the default playout policy: uniform random choice (§4.5).
type Uniform[S any, A comparable] struct{}

func (Uniform[S, A]) Flags() BackpropFlags { return BackpropNone }

func (Uniform[S, A]) SelectMove(game Game[S, A], state S, actions []A, global *GlobalTables[A], player int, rng Rng) A {
	return actions[rng.Int63n(int64(len(actions)))]
}

// ---- Epsilon-Greedy<Inner> ----

// SimEpsilonGreedy wraps another SimulatePolicy: with probability Epsilon
// play uniform random, otherwise delegate to Inner (§4.5).
type SimEpsilonGreedy[S any, A comparable] struct {
	Epsilon float64
	Inner   SimulatePolicy[S, A]
}

func (e *SimEpsilonGreedy[S, A]) Flags() BackpropFlags { return e.Inner.Flags() }

func (e *SimEpsilonGreedy[S, A]) SelectMove(game Game[S, A], state S, actions []A, global *GlobalTables[A], player int, rng Rng) A {
	if rng.Float64() < e.Epsilon {
		return actions[rng.Int63n(int64(len(actions)))]
	}
	return e.Inner.SelectMove(game, state, actions, global, player, rng)
}

// ---- MAST ----

// Mast picks, among legal actions, a top-scoring action by the global
// per-player MAST average, breaking ties uniformly at random; an unvisited
// action defaults to an optimistic prior of 1.0 (§4.5).
type Mast[S any, A comparable] struct {
	UnvisitedPrior float64
}

func NewMast[S any, A comparable]() *Mast[S, A] { return &Mast[S, A]{UnvisitedPrior: 1.0} }

func (*Mast[S, A]) Flags() BackpropFlags { return BackpropGLOBAL }

func (m *Mast[S, A]) SelectMove(game Game[S, A], state S, actions []A, global *GlobalTables[A], player int, rng Rng) A {
	idx := randomBestIndex(len(actions), rng, func(i int) float64 {
		return global.MastAverage(player, actions[i], m.UnvisitedPrior)
	})
	return actions[idx]
}

// ---- DecisiveMove<Inner, Mode> ----

// DecisiveMoveMode selects how aggressively DecisiveMove short-circuits
// (§4.5).
type DecisiveMoveMode int

const (
	// DecisiveWin: prefer a move that wins outright for this player, then
	// one that avoids an immediate opponent win, then a terminal draw.
	DecisiveWin DecisiveMoveMode = iota
	// DecisiveWinLoss: prefer the first terminal-with-a-winner move found,
	// else a terminal draw.
	DecisiveWinLoss
	// DecisiveWinLossDraw: prefer any terminal move at all.
	DecisiveWinLossDraw
)

// DecisiveMove scans legal actions for one producing an immediately
// terminal outcome before delegating to Inner (§4.5).
type DecisiveMove[S any, A comparable] struct {
	Inner SimulatePolicy[S, A]
	Mode  DecisiveMoveMode
}

func (d *DecisiveMove[S, A]) Flags() BackpropFlags { return d.Inner.Flags() }

func (d *DecisiveMove[S, A]) SelectMove(game Game[S, A], state S, actions []A, global *GlobalTables[A], player int, rng Rng) A {
	var winForUs, lossAvoidingOpp, draw, anyTerminal, firstWinner A
	haveWin, haveLossAvoid, haveDraw, haveAny, haveFirstWinner := false, false, false, false, false

	for _, a := range actions {
		next := game.Apply(state, a)
		if !game.IsTerminal(next) {
			continue
		}
		if !haveAny {
			anyTerminal, haveAny = a, true
		}
		winner, ok := game.Winner(next)
		if ok && !haveFirstWinner {
			firstWinner, haveFirstWinner = a, true
		}
		switch {
		case ok && winner == player:
			if !haveWin {
				winForUs, haveWin = a, true
			}
		case ok:
			if !haveLossAvoid {
				lossAvoidingOpp, haveLossAvoid = a, true
			}
		default:
			if !haveDraw {
				draw, haveDraw = a, true
			}
		}
	}

	switch d.Mode {
	case DecisiveWin:
		if haveWin {
			return winForUs
		}
		if haveLossAvoid {
			return lossAvoidingOpp
		}
		if haveDraw {
			return draw
		}
	case DecisiveWinLoss:
		// First terminal move with any winner wins regardless of whose
		// win it is, else the first terminal draw (§4.5 "WinLoss returns
		// first terminal with winner else terminal draw" — order-
		// sensitive, unlike Win which prefers our own win first).
		if haveFirstWinner {
			return firstWinner
		}
		if haveDraw {
			return draw
		}
	case DecisiveWinLossDraw:
		if haveAny {
			return anyTerminal
		}
	}

	return d.Inner.SelectMove(game, state, actions, global, player, rng)
}

// ---- MetaMCTS<Inner> ----

// MetaMoveChooser is satisfied by SearchLoop: MetaMCTS runs a full inner
// search to pick every playout move, which is expensive and reserved for
// opening-book construction (§4.5, §4.8).
type MetaMoveChooser[S any, A comparable] interface {
	ChooseAction(state S) A
}

// MetaMCTS delegates move choice, at every playout step, to a full inner
// MCTS search.
type MetaMCTS[S any, A comparable] struct {
	Inner MetaMoveChooser[S, A]
}

func (*MetaMCTS[S, A]) Flags() BackpropFlags { return BackpropNone }

func (m *MetaMCTS[S, A]) SelectMove(game Game[S, A], state S, actions []A, global *GlobalTables[A], player int, rng Rng) A {
	return m.Inner.ChooseAction(state)
}
