package mcts

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpeningBookAddThenScore(t *testing.T) {
	book := NewOpeningBook[int](2)
	book.Add([]int{1, 2}, []float64{1, -1})

	score, ok := book.Score([]int{1, 2}, 0)
	require.True(t, ok)
	assert.InDelta(t, 1.0, score, 1e-9) // (1+1)/2

	score, ok = book.Score([]int{1, 2}, 1)
	require.True(t, ok)
	assert.InDelta(t, 0.0, score, 1e-9) // (-1+1)/2
}

func TestOpeningBookScoreMissingSequence(t *testing.T) {
	book := NewOpeningBook[int](2)
	book.Add([]int{1}, []float64{1, -1})

	_, ok := book.Score([]int{1, 2}, 0)
	assert.False(t, ok, "an unrecorded prefix extension must report absent")
}

func TestOpeningBookRootVisitsAccumulate(t *testing.T) {
	book := NewOpeningBook[int](1)
	for i := 0; i < 7; i++ {
		book.Add([]int{i}, []float64{1})
	}
	assert.EqualValues(t, 7, book.RootVisits())
}

func TestOpeningBookLenGrowsWithNewPrefixes(t *testing.T) {
	book := NewOpeningBook[int](1)
	assert.Equal(t, 1, book.Len()) // just the root
	book.Add([]int{1, 2, 3}, []float64{1})
	assert.Equal(t, 4, book.Len()) // root + 3 distinct prefixes
	book.Add([]int{1, 2, 3}, []float64{1}) // same path again, no new entries
	assert.Equal(t, 4, book.Len())
}

func TestDefaultQBFKLowersFirstPlayerForTwoPlayers(t *testing.T) {
	k := defaultQBFK(2)
	assert.InDelta(t, 0.1, k[0], 1e-9)
	assert.InDelta(t, 0.5, k[1], 1e-9)
}

func TestDefaultQBFKUniformForOtherPlayerCounts(t *testing.T) {
	for _, n := range []int{1, 3, 4} {
		k := defaultQBFK(n)
		for _, v := range k {
			assert.InDelta(t, 0.5, v, 1e-9)
		}
	}
}

// qbfToy is a trivial 1-player, 2-action, single-move game used to exercise
// QuasiBestFirst.Trajectory/Build deterministically: either action ends the
// game, action 1 always wins and action -1 always loses.
type qbfToy struct{}

func (qbfToy) NumPlayers() int                     { return 1 }
func (qbfToy) PlayerToMove(int) int                { return 0 }
func (qbfToy) IsTerminal(s int) bool                { return s != 0 }
func (qbfToy) GenerateActions(s int, out []int) []int { return append(out[:0], 1, -1) }
func (qbfToy) Apply(s int, a int) int               { return a }
func (qbfToy) Winner(s int) (int, bool)             { return 0, s > 0 }
func (qbfToy) ComputeUtilities(s int) []float64 {
	if s > 0 {
		return []float64{1}
	}
	return []float64{-1}
}
func (qbfToy) ZobristHash(int) uint64    { return 0 }
func (qbfToy) Notation(int, int) string  { return "" }

type alwaysOne struct{}

func (alwaysOne) ChooseAction(state int) int { return 1 }

func TestQuasiBestFirstTrajectoryReachesTerminal(t *testing.T) {
	book := NewOpeningBook[int](1)
	qbf := NewQuasiBestFirst[int, int](qbfToy{}, book, alwaysOne{})
	qbf.Epsilon = 0 // deterministic: always consult the book/fallback

	rng := rand.New(rand.NewSource(1))
	seq, utilities := qbf.Trajectory(0, rng)

	assert.NotEmpty(t, seq)
	assert.InDelta(t, 1.0, utilities[0], 1e-9)
}

func TestQuasiBestFirstBuildAccumulatesRootVisits(t *testing.T) {
	book := NewOpeningBook[int](1)
	qbf := NewQuasiBestFirst[int, int](qbfToy{}, book, alwaysOne{})
	qbf.Epsilon = 0

	n := 0
	newRng := func() Rng { n++; return rand.New(rand.NewSource(int64(n))) }
	err := qbf.Build(context.Background(), 0, 50, newRng)
	require.NoError(t, err)

	assert.EqualValues(t, 50, book.RootVisits())
}

func TestQBFSelectFallsBackWhenBelowThreshold(t *testing.T) {
	tree := NewTree[int](1)
	root := tree.Insert(newRootNode[int](0, 1, false, 1))
	tree.expand(root, []int{1, -1})

	book := NewOpeningBook[int](1) // empty: nothing clears K
	q := NewQBFSelect[int, int](book, 1, alwaysOne{})
	rng := rand.New(rand.NewSource(1))

	ctx := &SelectContext[int]{
		Tree: tree, NodeId: root, Stack: []NodeId{root}, Player: 0,
		Rng: rng, State: 0,
	}
	idx := q.BestChild(ctx)
	assert.Equal(t, 0, idx, "with an empty book, QBFSelect should fall back to the inner chooser's action 1 (edge 0)")
}

func TestQBFSelectUsesBookWhenAboveThreshold(t *testing.T) {
	tree := NewTree[int](1)
	root := tree.Insert(newRootNode[int](0, 1, false, 1))
	tree.expand(root, []int{1, -1})

	book := NewOpeningBook[int](1)
	book.Add([]int{-1}, []float64{1}) // score 1.0 for the losing-looking action, above any K

	q := NewQBFSelect[int, int](book, 1, alwaysOne{})
	rng := rand.New(rand.NewSource(1))
	ctx := &SelectContext[int]{
		Tree: tree, NodeId: root, Stack: []NodeId{root}, Player: 0,
		Rng: rng, State: 0,
	}
	idx := q.BestChild(ctx)
	assert.Equal(t, 1, idx, "book score should override the fallback when it clears K")
}
