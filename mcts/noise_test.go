package mcts

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirichletNoiseDelegatesWhenEpsilonZero(t *testing.T) {
	tree, root := buildSelectFixture(t, []int{1, 2, 3}, []int32{5, 5, 5}, []float64{0, 10, 0})
	inner := MaxAvgScore[int]{}
	d := NewDirichletNoise[int](0.3, 0, 1, inner)
	ctx := ctxFor(tree, root, rand.New(rand.NewSource(7)))

	assert.Equal(t, inner.BestChild(ctx), d.BestChild(ctx))
}

func TestDirichletNoiseOnlyPerturbsTheRoot(t *testing.T) {
	tree, root := buildSelectFixture(t, []int{1, 2}, []int32{5, 5}, []float64{1, 1})
	childId := tree.linkChild(root, 0, 0, 42, false)
	tree.expand(childId, []int{10, 20})
	inner := MaxAvgScore[int]{}
	d := NewDirichletNoise[int](0.3, 1.0, 3, inner)

	childCtx := ctxFor(tree, childId, rand.New(rand.NewSource(9)))
	assert.Equal(t, inner.BestChild(childCtx), d.BestChild(childCtx), "non-root nodes are never perturbed")
}

func TestDirichletNoiseFlagsMatchInner(t *testing.T) {
	inner := &UCB1[int]{C: 1}
	d := NewDirichletNoise[int](0.3, 0.25, 1, inner)
	assert.Equal(t, inner.Flags(), d.Flags())
}

func TestDirichletNoiseResamplesOncePerFreshSearch(t *testing.T) {
	tree, root := buildSelectFixture(t, []int{1, 2, 3}, []int32{0, 0, 0}, []float64{0, 0, 0})
	tree.Get(root).Stats.NumVisits = 0 // a freshly-set-up, never-visited root
	d := NewDirichletNoise[int](5.0, 1.0, 11, MaxAvgScore[int]{})
	ctx := ctxFor(tree, root, rand.New(rand.NewSource(13)))

	d.BestChild(ctx)
	assert.Len(t, d.sample, 3)
}

func TestCategoricalIndexFallsBackToUniformOnZeroWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 20; i++ {
		idx := categoricalIndex([]float64{0, 0, 0}, rng)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 3)
	}
}

func TestCategoricalIndexAlwaysPicksTheOnlyPositiveWeight(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 20; i++ {
		assert.Equal(t, 1, categoricalIndex([]float64{0, 1, 0}, rng))
	}
}
