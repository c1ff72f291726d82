package mcts

// RootChildStat is one root edge's aggregate statistics, exposed for
// diagnostics/verbose rendering (§6 "Logging/verbose"); it mirrors the
// teacher's SearchLine[T] (pkg/mcts/stats_listener.go) without depending
// on the verbose package.
type RootChildStat[A comparable] struct {
	Action   A
	Visits   int32
	Score    float64
	Terminal bool
}

// RootChildren returns one RootChildStat per edge of the most recent
// search's root node.
func (sl *SearchLoop[S, A]) RootChildren() []RootChildStat[A] {
	root := sl.tree.Get(sl.tree.Root())
	out := make([]RootChildStat[A], len(root.Edges))
	for i := range root.Edges {
		e := &root.Edges[i]
		var terminal bool
		if e.ChildId != noNode {
			terminal = sl.tree.Get(e.ChildId).State == StateTerminal
		}
		out[i] = RootChildStat[A]{
			Action:   e.Action,
			Visits:   e.Stats.NumVisits,
			Score:    e.Stats.ExpectedScore(sl.initialTurn),
			Terminal: terminal,
		}
	}
	return out
}

// finalAction applies FinalAction from the root and records the PV
// (§4.3 steps 4-5, §6 "Output").
func (sl *SearchLoop[S, A]) finalAction(rootState S) A {
	pv := sl.computePV(rootState)
	sl.lastPV = pv
	var zero A
	if len(pv) == 0 {
		return zero
	}
	return pv[0]
}

// computePV walks the tree from the root repeatedly applying FinalAction,
// iteratively (no recursion needed, §9), until a node has no edges or no
// explored child.
func (sl *SearchLoop[S, A]) computePV(rootState S) []A {
	var pv []A
	id := sl.tree.Root()
	state := rootState
	stack := []NodeId{id}
	for {
		node := sl.tree.Get(id)
		if node.State != StateExpanded || len(node.Edges) == 0 {
			return pv
		}
		edgeIdx := sl.config.FinalAction.BestChild(sl.ctxFor(id, stack, node.PlayerIdx, state))
		e := &node.Edges[edgeIdx]
		pv = append(pv, e.Action)
		if e.ChildId == noNode {
			return pv
		}
		state = sl.game.Apply(state, e.Action)
		id = e.ChildId
		stack = append(stack, id)
	}
}
