package mcts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackpropagateClassicUpdatesStackAndEdges(t *testing.T) {
	tree := NewTree[int](2)
	root := tree.Insert(newRootNode[int](0, 1, false, 2))
	tree.expand(root, []int{10, 20})
	child := tree.linkChild(root, 0, 1, 2, false)

	backpropagate(tree, NewGlobalTables[int](2), []NodeId{root, child}, nil, []float64{1, -1}, BackpropNone)

	rootNode := tree.Get(root)
	assert.EqualValues(t, 1, rootNode.Stats.NumVisits)
	assert.EqualValues(t, 1, rootNode.Edges[0].Stats.NumVisits)
	assert.InDelta(t, 1, rootNode.Edges[0].Stats.PerPlayer[0].Score, 1e-9)
	assert.InDelta(t, -1, rootNode.Edges[0].Stats.PerPlayer[1].Score, 1e-9)

	childNode := tree.Get(child)
	assert.EqualValues(t, 1, childNode.Stats.NumVisits)
}

func TestBackpropagateGlobalUpdatesMast(t *testing.T) {
	tree := NewTree[int](1)
	root := tree.Insert(newRootNode[int](0, 1, false, 1))
	tree.expand(root, []int{10})
	child := tree.linkChild(root, 0, 0, 2, false)

	global := NewGlobalTables[int](1)
	trial := []actionMove[int]{{Action: 99, Player: 0}}
	backpropagate(tree, global, []NodeId{root, child}, trial, []float64{1}, BackpropGLOBAL)

	assert.InDelta(t, 1, global.MastAverage(0, 99, 0), 1e-9)
	// The stack's own edge action (10) is also part of the combined list.
	assert.InDelta(t, 1, global.MastAverage(0, 10, 0), 1e-9)
}

func TestBackpropagateGraveCreditsOnlyActionsAfterEachNodeAndSkipsRoot(t *testing.T) {
	// root --(10)--> A --(20)--> B, with trial action 99 played from B.
	tree := NewTree[int](1)
	root := tree.Insert(newRootNode[int](0, 1, false, 1))
	tree.expand(root, []int{10})
	a := tree.linkChild(root, 0, 0, 2, false)
	tree.expand(a, []int{20})
	b := tree.linkChild(a, 0, 0, 3, false)

	global := NewGlobalTables[int](1)
	trial := []actionMove[int]{{Action: 99, Player: 0}}
	backpropagate(tree, global, []NodeId{root, a, b}, trial, []float64{1}, BackpropGRAVE)

	// B (the leaf) is credited only with the trial's own action.
	avg, visits := global.GraveAverage(tree.Get(b).Hash, 0, 99, 0)
	require.EqualValues(t, 1, visits)
	assert.InDelta(t, 1, avg, 1e-9)
	_, visits = global.GraveAverage(tree.Get(b).Hash, 0, 20, 0)
	assert.Zero(t, visits, "B must not be credited with the edge (20) that produced it")

	// A is credited with the trial action plus action 20, played strictly
	// after A was reached, but not with action 10 which produced A.
	avg, visits = global.GraveAverage(tree.Get(a).Hash, 0, 99, 0)
	require.EqualValues(t, 1, visits)
	assert.InDelta(t, 1, avg, 1e-9)
	avg, visits = global.GraveAverage(tree.Get(a).Hash, 0, 20, 0)
	require.EqualValues(t, 1, visits)
	assert.InDelta(t, 1, avg, 1e-9)
	_, visits = global.GraveAverage(tree.Get(a).Hash, 0, 10, 0)
	assert.Zero(t, visits, "A must not be credited with the edge (10) that produced it")

	// The root is never credited, per original_source's update_grave.
	_, visits = global.GraveAverage(tree.Get(root).Hash, 0, 10, 0)
	assert.Zero(t, visits, "root must never receive a GRAVE credit")
}

func TestBackpropagateAmafCreditsSiblingsOnly(t *testing.T) {
	tree := NewTree[int](1)
	root := tree.Insert(newRootNode[int](0, 1, false, 1))
	tree.expand(root, []int{10, 20})
	child := tree.linkChild(root, 0, 0, 2, false)  // action 10's child, mover 0
	tree.linkChild(root, 1, 0, 3, false)           // action 20's child, also mover 0 (AMAF-eligible)

	trial := []actionMove[int]{{Action: 20, Player: 0}}
	backpropagate(tree, NewGlobalTables[int](1), []NodeId{root, child}, trial, []float64{1}, BackpropAMAF)

	rootNode := tree.Get(root)
	// Edge 20 was never selected this iteration but shares player/action with
	// the trial, so AMAF credits it.
	assert.EqualValues(t, 1, rootNode.Edges[1].Stats.PerPlayer[0].AmafVisits)
	assert.InDelta(t, 1, rootNode.Edges[1].Stats.PerPlayer[0].AmafScore, 1e-9)
	// Edge 10 (the one actually visited) gets no AMAF credit from this trial.
	assert.EqualValues(t, 0, rootNode.Edges[0].Stats.PerPlayer[0].AmafVisits)
}

func TestActionStatAverageUnvisitedUsesPrior(t *testing.T) {
	var s *actionStat
	assert.InDelta(t, 0.5, s.average(0.5), 1e-9)
}
