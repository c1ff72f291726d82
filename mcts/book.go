package mcts

import (
	"context"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"
)

// bookEntry is one node of the OpeningBook prefix tree (§4.8): a map from
// action to child entry, an accumulated per-player utility vector, and a
// visit count. Grounded on the teacher's idiom of small value types inside
// a slice-backed arena (arena.go's Node/Edge), adapted here to the
// original_source's rustc_hash-keyed book::Entry.
type bookEntry[A comparable] struct {
	Children  map[A]int
	Utilities []float64
	NumVisits uint64
}

func newBookEntry[A comparable](numPlayers int) bookEntry[A] {
	return bookEntry[A]{Children: make(map[A]int), Utilities: make([]float64, numPlayers)}
}

func (e *bookEntry[A]) update(utilities []float64) {
	for i, u := range utilities {
		e.Utilities[i] += u
	}
	e.NumVisits++
}

// score returns the win-probability estimate ((avg_utility+1)/2) for
// player, or false if the entry has never been visited (§4.8 "score").
func (e *bookEntry[A]) score(player int) (float64, bool) {
	if e.NumVisits == 0 {
		return 0, false
	}
	avg := e.Utilities[player] / float64(e.NumVisits)
	return (avg + 1) / 2, true
}

const bookRoot = 0

// OpeningBook is the rooted, action-prefix-indexed tree of §4.8. Unlike the
// per-search Tree arena, a book outlives individual searches and must
// serialize concurrent writes externally (§5 "Shared resources"); Add and
// Score take an internal mutex so QuasiBestFirst.Build can merge
// concurrent trajectories safely.
type OpeningBook[A comparable] struct {
	mu         sync.Mutex
	entries    []bookEntry[A]
	numPlayers int
}

// NewOpeningBook creates an empty book with a single root entry.
func NewOpeningBook[A comparable](numPlayers int) *OpeningBook[A] {
	b := &OpeningBook[A]{numPlayers: numPlayers}
	b.entries = append(b.entries, newBookEntry[A](numPlayers))
	return b
}

func (b *OpeningBook[A]) childOf(id int, action A) int {
	if cid, ok := b.entries[id].Children[action]; ok {
		return cid
	}
	b.entries = append(b.entries, newBookEntry[A](b.numPlayers))
	cid := len(b.entries) - 1
	b.entries[id].Children[action] = cid
	return cid
}

// Add walks sequence from the root, creating intermediate children on
// demand and incrementing every visited entry's num_visits and utilities
// (§4.8 step 4).
func (b *OpeningBook[A]) Add(sequence []A, utilities []float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := bookRoot
	b.entries[id].update(utilities)
	for _, action := range sequence {
		id = b.childOf(id, action)
		b.entries[id].update(utilities)
	}
}

// Score looks up sequence without creating any node; it returns false if
// any prefix action was never recorded (§4.8 "If num_visits = 0, score is
// absent" generalizes to "never reached" here since an un-added sequence
// has no entry at all).
func (b *OpeningBook[A]) Score(sequence []A, player int) (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := bookRoot
	for _, action := range sequence {
		cid, ok := b.entries[id].Children[action]
		if !ok {
			return 0, false
		}
		id = cid
	}
	return b.entries[id].score(player)
}

// RootVisits reports the root's visit count, the invariant exercised by
// §8 scenario 5 ("10 000 QBF trajectories ... increase book.num_visits at
// root to 10 000").
func (b *OpeningBook[A]) RootVisits() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.entries[bookRoot].NumVisits
}

// Len reports the number of entries currently stored in the book.
func (b *OpeningBook[A]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// defaultQBFK returns the Chaslot-paper K thresholds of §4.4.h: uniform
// 0.5, except the first of exactly two players is lowered to 0.1 "to
// elevate the disadvantaged first player" (original_source's
// strategies/mcts/meta.rs QuasiBestFirst::new comment). §9's open question
// on N>2 defaults is resolved here by leaving every player at 0.5.
func defaultQBFK(numPlayers int) []float64 {
	k := make([]float64, numPlayers)
	for i := range k {
		k[i] = 0.5
	}
	if numPlayers == 2 {
		k[0] = 0.1
	}
	return k
}

// QuasiBestFirst drives opening-book construction: repeated full-game
// trajectories scored against the book-so-far, falling back to a full
// inner MCTS search whenever no candidate action clears its player's K
// threshold (§4.8). Grounded on original_source's
// strategies/mcts/meta.rs::QuasiBestFirst.
type QuasiBestFirst[S any, A comparable] struct {
	Game    Game[S, A]
	Book    *OpeningBook[A]
	Inner   MetaMoveChooser[S, A]
	K       []float64
	Epsilon float64
}

// NewQuasiBestFirst returns a meta-searcher over book with the default K
// thresholds and ε=0.3 (§4.8 "typical inner MCTS config").
func NewQuasiBestFirst[S any, A comparable](game Game[S, A], book *OpeningBook[A], inner MetaMoveChooser[S, A]) *QuasiBestFirst[S, A] {
	return &QuasiBestFirst[S, A]{
		Game:    game,
		Book:    book,
		Inner:   inner,
		K:       defaultQBFK(game.NumPlayers()),
		Epsilon: 0.3,
	}
}

// Trajectory runs one game from init to terminal (§4.8 steps 1-3) without
// touching the book, returning the action sequence and terminal utilities
// so the caller can merge it (Build does this; tests may call Trajectory
// directly for determinism).
func (q *QuasiBestFirst[S, A]) Trajectory(init S, rng Rng) ([]A, []float64) {
	state := init
	var prefix []A
	for !q.Game.IsTerminal(state) {
		actions := q.Game.GenerateActions(state, nil)
		player := q.Game.PlayerToMove(state)
		idx := q.bestChild(player, prefix, state, actions, rng)
		action := actions[idx]
		prefix = append(prefix, action)
		state = q.Game.Apply(state, action)
	}
	return prefix, q.Game.ComputeUtilities(state)
}

// bestChild implements §4.8 step 2: ε-greedy random choice, else the
// highest-scoring candidate action exceeding K[player], else the inner
// MCTS's choice.
func (q *QuasiBestFirst[S, A]) bestChild(player int, prefix []A, state S, actions []A, rng Rng) int {
	if rng.Float64() < q.Epsilon {
		return int(rng.Int63n(int64(len(actions))))
	}

	kScore := q.K[player%len(q.K)]
	best, bestScore, ties := -1, math.Inf(-1), 0
	key := make([]A, len(prefix)+1)
	copy(key, prefix)
	for i, a := range actions {
		key[len(prefix)] = a
		score, ok := q.Book.Score(key, player)
		if !ok || score <= kScore {
			continue
		}
		switch {
		case score > bestScore:
			bestScore, best, ties = score, i, 1
		case score == bestScore:
			ties++
			if rng.Int63n(int64(ties)) == 0 {
				best = i
			}
		}
	}
	if best >= 0 {
		return best
	}

	action := q.Inner.ChooseAction(state)
	for i, a := range actions {
		if a == action {
			return i
		}
	}
	return 0
}

// Build runs n trajectories and merges every one into Book, returning once
// all have completed or ctx is cancelled. Per SPEC_FULL.md's DOMAIN STACK
// wiring, the outer "repeat for N trajectories" loop (§4.8, unconstrained
// to run one at a time) is parallelized in small batches with
// golang.org/x/sync/errgroup; each trajectory's own Trajectory call stays
// single-threaded (§5), and merges into the shared book are serialized
// behind Book's own mutex. newRng must return an independent Rng per
// call, since a single *rand.Rand is not safe for concurrent use.
func (q *QuasiBestFirst[S, A]) Build(ctx context.Context, init S, n int, newRng func() Rng) error {
	const batchSize = 8
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				seq, utilities := q.Trajectory(init, newRng())
				q.Book.Add(seq, utilities)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// QBFSelect is the in-tree selection-policy rendition of Quasi-Best-First
// (§4.4.h): used as SearchConfig.Select with ExpandThreshold=0 and
// MaxIterations=1 so one iteration walks straight to a terminal state,
// letting a SearchLoop double as the "inner MCTS" Trajectory falls back to
// (§4.8 "typical inner MCTS config"). Always wrap it in EpsilonGreedy
// rather than setting its own Epsilon, matching original_source's
// select.rs QuasiBestFirst which is itself epsilon-free and relies on the
// caller's select::EpsilonGreedy wrapper.
type QBFSelect[S any, A comparable] struct {
	Book     *OpeningBook[A]
	K        []float64
	Fallback MetaMoveChooser[S, A]
}

// NewQBFSelect returns a QBFSelect with the default K thresholds of
// §4.4.h/§4.8.
func NewQBFSelect[S any, A comparable](book *OpeningBook[A], numPlayers int, fallback MetaMoveChooser[S, A]) *QBFSelect[S, A] {
	return &QBFSelect[S, A]{Book: book, K: defaultQBFK(numPlayers), Fallback: fallback}
}

func (*QBFSelect[S, A]) Flags() BackpropFlags { return BackpropNone }

func (q *QBFSelect[S, A]) BestChild(ctx *SelectContext[A]) int {
	node := ctx.node()
	n := len(node.Edges)
	kScore := q.K[ctx.Player%len(q.K)]

	prefix := make([]A, len(ctx.Stack)-1)
	for i, id := range ctx.Stack[1:] {
		prefix[i] = ctx.Tree.actionInto(id)
	}

	best, bestScore, ties := -1, math.Inf(-1), 0
	key := make([]A, len(prefix)+1)
	copy(key, prefix)
	for i := 0; i < n; i++ {
		key[len(prefix)] = node.Edges[i].Action
		score, ok := q.Book.Score(key, ctx.Player)
		if !ok || score <= kScore {
			continue
		}
		switch {
		case score > bestScore:
			bestScore, best, ties = score, i, 1
		case score == bestScore:
			ties++
			if ctx.Rng.Int63n(int64(ties)) == 0 {
				best = i
			}
		}
	}
	if best >= 0 {
		return best
	}

	if state, ok := ctx.State.(S); ok && q.Fallback != nil {
		action := q.Fallback.ChooseAction(state)
		for i := range node.Edges {
			if node.Edges[i].Action == action {
				return i
			}
		}
	}
	return int(ctx.Rng.Int63n(int64(n)))
}
