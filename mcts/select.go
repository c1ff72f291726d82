package mcts

import "math"

// SelectContext is the read-only view a selection policy gets of the
// current descent step (§4.4): the node being expanded from, the
// root-to-here stack of ids, the player the policy should maximize for
// (the mover at nodeId), and optional transposition-merged stats.
type SelectContext[A comparable] struct {
	Tree              *Tree[A]
	NodeId            NodeId
	Stack             []NodeId
	Player            int
	UseTranspositions bool
	TTable            *TranspositionTable
	Global            *GlobalTables[A]
	QInit             QInit
	Rng               Rng

	// State is the working game state at NodeId, boxed as any since
	// SelectContext is parameterized only on the action type A. Only the
	// QBFSelect policy (book.go, §4.4.h) reads it, to fall back to an
	// inner MCTS choice; every other policy ignores it.
	State any
}

func (ctx *SelectContext[A]) node() *Node[A] { return ctx.Tree.Get(ctx.NodeId) }

// edgeStats is what a selection policy scores: either a plain edge's own
// stats, or (when transpositions are enabled) the stats merged across
// every node sharing the child's hash.
func (ctx *SelectContext[A]) edgeStats(edgeIdx int) EdgeStats {
	node := ctx.node()
	e := &node.Edges[edgeIdx]
	if ctx.UseTranspositions && e.ChildId != noNode {
		if merged, ok := MergedStats(ctx.Tree, ctx.Tree.Get(e.ChildId).Hash, ctx.TTable, len(e.Stats.PerPlayer)); ok {
			return merged
		}
	}
	return e.Stats
}

// qInitValue substitutes the unvisited-child value per §4.4's shared
// helper ("unvisited-value estimate QInit").
func qInitValue(qi QInit, parentQ float64) float64 {
	switch qi {
	case QInitWin:
		return 1
	case QInitLoss:
		return -1
	case QInitDraw:
		return 0
	case QInitInfinity:
		return math.Inf(1)
	default: // QInitParent
		return parentQ
	}
}

// SelectPolicy is the contract every in-tree descent policy implements
// (§4.4): `best_child(ctx, rng) -> edge_index`.
type SelectPolicy[A comparable] interface {
	BestChild(ctx *SelectContext[A]) int
	Flags() BackpropFlags
}

// parentQ returns the unvisited-child substitute value, per QInit, for the
// node in ctx.
func parentQ[A comparable](ctx *SelectContext[A]) float64 {
	return qInitValue(ctx.QInit, ctx.node().Stats.ExpectedScore(ctx.Player))
}

// ---- a. MaxAvgScore ----

// MaxAvgScore picks the child with the highest expected_score (§4.4.a).
type MaxAvgScore[A comparable] struct{}

func (MaxAvgScore[A]) Flags() BackpropFlags { return BackpropNone }

func (MaxAvgScore[A]) BestChild(ctx *SelectContext[A]) int {
	pq := parentQ(ctx)
	n := len(ctx.node().Edges)
	return randomBestIndex(n, ctx.Rng, func(i int) float64 {
		stats := ctx.edgeStats(i)
		if stats.NumVisits == 0 {
			return pq
		}
		return stats.ExpectedScore(ctx.Player)
	})
}

// ---- b. RobustChild ----

// RobustChild orders by the tuple (num_visits, expected_score) (§4.4.b).
type RobustChild[A comparable] struct{}

func (RobustChild[A]) Flags() BackpropFlags { return BackpropNone }

func (RobustChild[A]) BestChild(ctx *SelectContext[A]) int {
	n := len(ctx.node().Edges)
	return randomBestIndex(n, ctx.Rng, func(i int) float64 {
		stats := ctx.edgeStats(i)
		// Visits dominates; break ties within equal visit counts by score,
		// scaled well below one additional visit's worth.
		return float64(stats.NumVisits)*1e6 + stats.ExpectedScore(ctx.Player)
	})
}

// ---- c. SecureChild ----

// SecureChild maximizes Q + a/sqrt(n), a=4 by default (§4.4.c).
type SecureChild[A comparable] struct {
	A float64
}

func NewSecureChild[A comparable]() *SecureChild[A] { return &SecureChild[A]{A: 4} }

func (*SecureChild[A]) Flags() BackpropFlags { return BackpropNone }

func (s *SecureChild[A]) BestChild(ctx *SelectContext[A]) int {
	pq := parentQ(ctx)
	n := len(ctx.node().Edges)
	return randomBestIndex(n, ctx.Rng, func(i int) float64 {
		stats := ctx.edgeStats(i)
		if stats.NumVisits == 0 {
			return pq
		}
		q := stats.ExpectedScore(ctx.Player)
		return q + s.A/math.Sqrt(float64(stats.NumVisits))
	})
}

// ---- d. UCB1 ----

// UCB1 maximizes Q + c*sqrt(ln(N)/n), c=sqrt(2) by default (§4.4.d).
type UCB1[A comparable] struct {
	C float64
}

func NewUCB1[A comparable]() *UCB1[A] { return &UCB1[A]{C: math.Sqrt2} }

func (*UCB1[A]) Flags() BackpropFlags { return BackpropNone }

func (u *UCB1[A]) BestChild(ctx *SelectContext[A]) int {
	pq := parentQ(ctx)
	node := ctx.node()
	lnN := math.Log(float64(node.Stats.NumVisits))
	n := len(node.Edges)
	return randomBestIndex(n, ctx.Rng, func(i int) float64 {
		stats := ctx.edgeStats(i)
		if stats.NumVisits == 0 {
			return pq + u.C*math.Sqrt(lnN) // unvisited: Q is the QInit substitute and n is taken as 1
		}
		q := stats.ExpectedScore(ctx.Player)
		return q + u.C*math.Sqrt(lnN/float64(stats.NumVisits))
	})
}

// ---- e. UCB1-Tuned ----

// UCB1Tuned maximizes Q + sqrt((lnN/n) * min(V, variance + c*sqrt(lnN/n)))
// with V=1/4 the upper bound on Bernoulli variance (§4.4.e).
type UCB1Tuned[A comparable] struct {
	C float64
}

func NewUCB1Tuned[A comparable]() *UCB1Tuned[A] { return &UCB1Tuned[A]{C: math.Sqrt2} }

func (*UCB1Tuned[A]) Flags() BackpropFlags { return BackpropNone }

func (u *UCB1Tuned[A]) BestChild(ctx *SelectContext[A]) int {
	const v = 0.25
	pq := parentQ(ctx)
	node := ctx.node()
	lnN := math.Log(float64(node.Stats.NumVisits))
	n := len(node.Edges)
	return randomBestIndex(n, ctx.Rng, func(i int) float64 {
		stats := ctx.edgeStats(i)
		if stats.NumVisits == 0 {
			return pq
		}
		q := stats.ExpectedScore(ctx.Player)
		nf := float64(stats.NumVisits)
		variance := stats.Variance(ctx.Player)
		bound := min(v, variance+u.C*math.Sqrt(lnN/nf))
		return q + math.Sqrt((lnN/nf)*bound)
	})
}

// ---- f. Scalar AMAF (RAVE) ----

// ScalarAMAF is a convex combination (1-beta)*UCB1 + beta*amaf, with
// beta = bias/(bias+n), default bias=700 (§4.4.f).
type ScalarAMAF[A comparable] struct {
	C    float64
	Bias float64
}

func NewScalarAMAF[A comparable]() *ScalarAMAF[A] { return &ScalarAMAF[A]{C: math.Sqrt2, Bias: 700} }

func (*ScalarAMAF[A]) Flags() BackpropFlags { return BackpropAMAF }

func (s *ScalarAMAF[A]) BestChild(ctx *SelectContext[A]) int {
	pq := parentQ(ctx)
	node := ctx.node()
	lnN := math.Log(float64(node.Stats.NumVisits))
	n := len(node.Edges)
	return randomBestIndex(n, ctx.Rng, func(i int) float64 {
		stats := ctx.edgeStats(i)
		if stats.NumVisits == 0 {
			return pq
		}
		nf := float64(stats.NumVisits)
		q := stats.ExpectedScore(ctx.Player)
		ucb1 := q + s.C*math.Sqrt(lnN/nf)
		ps := stats.PerPlayer[ctx.Player]
		if ps.AmafVisits == 0 {
			return ucb1
		}
		beta := s.Bias / (s.Bias + nf)
		amaf := ps.AmafScore / float64(ps.AmafVisits)
		return (1-beta)*ucb1 + beta*amaf
	})
}

// ---- g. MC-BRAVE / MC-GRAVE / UCB1-GRAVE ----

// GraveMode selects which of the three RAVE-ancestor variants to run.
type GraveMode int

const (
	GraveModeBRAVE GraveMode = iota
	GraveModeGRAVE
	GraveModeUCB1Grave
)

// Grave implements BRAVE (walks every ancestor, §4.4.g "BRAVE"), GRAVE
// (caches a single reference ancestor, §4.4.g "GRAVE") and UCB1-GRAVE
// (adds the UCB1 exploration term to the GRAVE value). Defaults for
// UCB1-GRAVE per spec: threshold=100, bias=1e-6, c=sqrt(2).
type Grave[A comparable] struct {
	Mode      GraveMode
	Threshold int32
	Bias      float64
	C         float64
}

func NewGrave[A comparable](mode GraveMode) *Grave[A] {
	return &Grave[A]{Mode: mode, Threshold: 100, Bias: 1e-6, C: math.Sqrt2}
}

func (*Grave[A]) Flags() BackpropFlags { return BackpropGRAVE }

// referenceAncestorHash walks up ctx.Stack (from the current node toward
// the root) and returns the hash of the first ancestor whose own visit
// count exceeds Threshold, refreshing as the walk progresses (§4.4.g
// "GRAVE"; grounded on original_source/src/strategies/mcts/select.rs's
// reference-ancestor cache).
func (g *Grave[A]) referenceAncestorHash(ctx *SelectContext[A]) uint64 {
	for i := len(ctx.Stack) - 1; i >= 0; i-- {
		node := ctx.Tree.Get(ctx.Stack[i])
		if node.Stats.NumVisits > g.Threshold || i == 0 {
			return node.Hash
		}
	}
	return ctx.node().Hash
}

func (g *Grave[A]) BestChild(ctx *SelectContext[A]) int {
	pq := parentQ(ctx)
	node := ctx.node()
	lnN := math.Log(float64(node.Stats.NumVisits))
	n := len(node.Edges)

	var refHash uint64
	if g.Mode != GraveModeBRAVE {
		refHash = g.referenceAncestorHash(ctx)
	}

	return randomBestIndex(n, ctx.Rng, func(i int) float64 {
		stats := ctx.edgeStats(i)
		if stats.NumVisits == 0 {
			return pq
		}
		nf := float64(stats.NumVisits)
		q := stats.ExpectedScore(ctx.Player)
		action := node.Edges[i].Action

		var amafScore float64
		var amafVisits float64

		switch g.Mode {
		case GraveModeBRAVE:
			// Sum grave_stats[action] across every ancestor up to the root.
			for j := len(ctx.Stack) - 1; j >= 0; j-- {
				h := ctx.Tree.Get(ctx.Stack[j]).Hash
				avg, visits := ctx.Global.GraveAverage(h, ctx.Player, action, 0)
				if visits > 0 {
					amafScore += avg * float64(visits)
					amafVisits += float64(visits)
				}
			}
		default: // GRAVE, UCB1Grave: single reference ancestor
			avg, visits := ctx.Global.GraveAverage(refHash, ctx.Player, action, 0)
			amafScore = avg * float64(visits)
			amafVisits = float64(visits)
		}

		if amafVisits == 0 {
			if g.Mode == GraveModeUCB1Grave {
				return q + g.C*math.Sqrt(lnN/nf)
			}
			return q
		}

		amaf := amafScore / amafVisits
		beta := amafVisits / (amafVisits + nf + g.Bias*amafVisits*nf)
		value := (1-beta)*q + beta*amaf
		if g.Mode == GraveModeUCB1Grave {
			value += g.C * math.Sqrt(lnN/nf)
		}
		return value
	})
}

// ---- i. Epsilon-Greedy wrapper ----

// EpsilonGreedy wraps another SelectPolicy: with probability Epsilon it
// picks a uniformly random child, otherwise delegates (§4.4.i).
type EpsilonGreedy[A comparable] struct {
	Epsilon float64
	Inner   SelectPolicy[A]
}

func NewEpsilonGreedy[A comparable](epsilon float64, inner SelectPolicy[A]) *EpsilonGreedy[A] {
	return &EpsilonGreedy[A]{Epsilon: epsilon, Inner: inner}
}

func (e *EpsilonGreedy[A]) Flags() BackpropFlags { return e.Inner.Flags() }

func (e *EpsilonGreedy[A]) BestChild(ctx *SelectContext[A]) int {
	if ctx.Rng.Float64() < e.Epsilon {
		return int(ctx.Rng.Int63n(int64(len(ctx.node().Edges))))
	}
	return e.Inner.BestChild(ctx)
}
