package mcts

import (
	distrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distmv"
)

// DirichletNoise wraps another SelectPolicy and perturbs the root node's
// move choice only: with probability Epsilon it samples an action from a
// fresh Dirichlet(Alpha) draw over the root's actions instead of
// delegating, a categorical generalization of EpsilonGreedy's
// uniform-random branch. Every other node, and every call once Epsilon's
// coin flip misses, is scored by Inner unperturbed.
//
// This is the AlphaZero root-exploration trick grounded on
// Elvenson-alphabeth/mcts/tree.go ("Dirichlet noise for exploration"),
// adapted here to bias which branch gets explored at the root rather than
// perturbing a policy-network prior this engine doesn't have.
type DirichletNoise[A comparable] struct {
	Epsilon float64
	Alpha   float64
	Inner   SelectPolicy[A]

	src    distrand.Source
	sample []float64
}

// NewDirichletNoise builds a DirichletNoise wrapper; seed drives the
// Dirichlet sampler independently of the search's own Rng so that
// re-running a search with a different inner-policy seed doesn't also
// reshuffle the noise draw.
func NewDirichletNoise[A comparable](alpha, epsilon float64, seed uint64, inner SelectPolicy[A]) *DirichletNoise[A] {
	return &DirichletNoise[A]{
		Epsilon: epsilon,
		Alpha:   alpha,
		Inner:   inner,
		src:     distrand.NewSource(seed),
	}
}

func (d *DirichletNoise[A]) Flags() BackpropFlags { return d.Inner.Flags() }

func (d *DirichletNoise[A]) BestChild(ctx *SelectContext[A]) int {
	atRoot := ctx.NodeId == ctx.Tree.Root()
	if atRoot && ctx.node().Stats.NumVisits == 0 {
		d.resample(len(ctx.node().Edges))
	}
	if !atRoot || d.sample == nil || ctx.Rng.Float64() >= d.Epsilon {
		return d.Inner.BestChild(ctx)
	}
	return categoricalIndex(d.sample, ctx.Rng)
}

func (d *DirichletNoise[A]) resample(n int) {
	if n == 0 || d.Alpha <= 0 {
		d.sample = nil
		return
	}
	alpha := make([]float64, n)
	for i := range alpha {
		alpha[i] = d.Alpha
	}
	dist := distmv.NewDirichlet(alpha, d.src)
	d.sample = dist.Rand(nil)
}

// categoricalIndex draws one index from weights, treating them as
// (possibly unnormalized) probabilities; falls back to uniform if the
// weights sum to zero or less.
func categoricalIndex(weights []float64, rng Rng) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return int(rng.Int63n(int64(len(weights))))
	}
	r := rng.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if r < cum {
			return i
		}
	}
	return len(weights) - 1
}
