package mcts

import "math/rand"

// Rng is the single source of randomness threaded through selection,
// expansion, simulation and tie-breaking. A seeded *rand.Rand satisfies
// this, giving bitwise-reproducible searches for a deterministic Game.
type Rng interface {
	Int63n(n int64) int64
	Float64() float64
}

// NewRand wraps a seed into the package's Rng implementation.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Action is the opaque move token supplied by a Game. It must be cheap to
// clone, comparable (used as transposition/MAST/GRAVE map keys) and must
// print reasonably for diagnostics.
type Action comparable

// Game is the external contract the engine consumes. Implementations own
// their state representation entirely; the engine never inspects S beyond
// what this interface exposes.
//
// S should be small and cheap to Clone; the engine keeps a single working
// copy per iteration (see SearchLoop.ChooseAction) and never mutates a
// state in place that it did not just clone from the caller.
type Game[S any, A Action] interface {
	// NumPlayers returns N >= 1.
	NumPlayers() int

	// PlayerToMove returns the index in [0, NumPlayers()) of the player
	// whose turn it is in state.
	PlayerToMove(state S) int

	// IsTerminal reports whether the game has ended.
	IsTerminal(state S) bool

	// GenerateActions appends every legal action from state to out. Must
	// be deterministic: repeated calls on the same state produce the same
	// sequence of actions (selection-policy edge indices depend on this).
	GenerateActions(state S, out []A) []A

	// Apply is pure: it returns a new state, never mutating state in place.
	Apply(state S, action A) S

	// Winner returns the winning player index for zero-sum convenience, or
	// false if there is no single winner (draw, ongoing, or N>2 game with
	// no singular winner concept).
	Winner(state S) (player int, ok bool)

	// ComputeUtilities returns one utility value per player for a terminal
	// state. Defaults used by games: +1 / -1 / 0 for win/loss/draw.
	ComputeUtilities(state S) []float64

	// ZobristHash is required when transposition merging is enabled; may
	// return a trivial constant otherwise.
	ZobristHash(state S) uint64

	// Notation renders action relative to state, for logging/PV.
	Notation(state S, action A) string
}

// Determinizer is implemented by hidden-information games that want their
// state sampled to a concrete determinization before a playout. The
// default (not implementing this interface) is identity.
type Determinizer[S any] interface {
	Determinize(state S, rng Rng) S
}
