package mcts

// actionStat is one MAST/GRAVE table cell: visits and cumulative score for
// one action under one player.
type actionStat struct {
	Visits int32
	Score  float64
}

// average returns the MAST/GRAVE average score, or unvisitedPrior when the
// cell is absent or unvisited (the MAST simulation policy passes its
// optimistic 1.0, §4.5).
func (s *actionStat) average(unvisitedPrior float64) float64 {
	if s == nil || s.Visits == 0 {
		return unvisitedPrior
	}
	return s.Score / float64(s.Visits)
}

// GlobalTables holds the MAST and GRAVE enhancement tables, scoped to a
// single search (§3 "Global MAST tables", "GRAVE tables"; §5 "Global
// mutable state: confine MAST/GRAVE tables ... to per-search scope").
type GlobalTables[A comparable] struct {
	numPlayers int
	mast       []map[A]*actionStat            // mast[player][action]
	grave      map[uint64][]map[A]*actionStat // grave[hash][player][action]
}

// NewGlobalTables allocates empty tables for a search over numPlayers
// players.
func NewGlobalTables[A comparable](numPlayers int) *GlobalTables[A] {
	g := &GlobalTables[A]{numPlayers: numPlayers}
	g.Reset()
	return g
}

// Reset clears both tables; called at the start of every new search.
func (g *GlobalTables[A]) Reset() {
	g.mast = make([]map[A]*actionStat, g.numPlayers)
	for i := range g.mast {
		g.mast[i] = make(map[A]*actionStat)
	}
	g.grave = make(map[uint64][]map[A]*actionStat)
}

// MastAverage returns the global per-player simulation-average score for
// action, or unvisitedPrior if it has never been played.
func (g *GlobalTables[A]) MastAverage(player int, action A, unvisitedPrior float64) float64 {
	return g.mast[player][action].average(unvisitedPrior)
}

func (g *GlobalTables[A]) addMast(player int, action A, utility float64) {
	m := g.mast[player]
	s, ok := m[action]
	if !ok {
		s = &actionStat{}
		m[action] = s
	}
	s.Visits++
	s.Score += utility
}

// graveTable returns (creating if necessary) the per-player action table
// for the given state hash.
func (g *GlobalTables[A]) graveTable(hash uint64) []map[A]*actionStat {
	t, ok := g.grave[hash]
	if !ok {
		t = make([]map[A]*actionStat, g.numPlayers)
		for i := range t {
			t[i] = make(map[A]*actionStat)
		}
		g.grave[hash] = t
	}
	return t
}

// GraveAverage reads the AMAF average for action under player at the node
// whose state hash is given, or unvisitedPrior if absent.
func (g *GlobalTables[A]) GraveAverage(hash uint64, player int, action A, unvisitedPrior float64) (avg float64, visits int32) {
	t, ok := g.grave[hash]
	if !ok {
		return unvisitedPrior, 0
	}
	s, ok := t[player][action]
	if !ok {
		return unvisitedPrior, 0
	}
	return s.average(unvisitedPrior), s.Visits
}

func (g *GlobalTables[A]) addGrave(hash uint64, player int, action A, utility float64) {
	t := g.graveTable(hash)
	m := t[player]
	s, ok := m[action]
	if !ok {
		s = &actionStat{}
		m[action] = s
	}
	s.Visits++
	s.Score += utility
}

// backpropagate implements spec §4.6: walk the stack updating edge
// statistics, and (when flags request it) update the AMAF/GRAVE/MAST
// enhancement tables from the combined list of stack actions and trial
// actions.
//
// stack holds every NodeId visited during selection, root-first, and
// trialActions holds the actions played during the subsequent playout
// (with the mover who played them). utilities has one entry per player.
func backpropagate[A comparable](
	tree *Tree[A],
	global *GlobalTables[A],
	stack []NodeId,
	trialActions []actionMove[A],
	utilities []float64,
	flags BackpropFlags,
) {
	// 1. Classic edge-stat update, leaf -> root, so each node's aggregate
	// visit count increments in an order matching "trial depth reported
	// per node is correct" (§4.6 "Order").
	for i := len(stack) - 1; i >= 1; i-- {
		childId := stack[i]
		parentId := stack[i-1]
		child := tree.Get(childId)
		parent := tree.Get(parentId)
		e := &parent.Edges[child.ActionIdx]
		e.Stats.NumVisits++
		for p, u := range utilities {
			e.Stats.PerPlayer[p].add(u)
		}
	}
	for _, id := range stack {
		node := tree.Get(id)
		node.Stats.NumVisits++
		for p, u := range utilities {
			node.Stats.PerPlayer[p].add(u)
		}
	}

	if flags == BackpropNone {
		return
	}

	// stackActions[i] is the action played descending from stack[i] to
	// stack[i+1] (i.e. the edge leaving stack[i], not the one entering it).
	// combined (stack actions ++ trial actions, in no particular order
	// since the tables below are commutative) feeds MAST/GLOBAL, which
	// credits every action regardless of tree position.
	stackActions := make([]actionMove[A], 0, len(stack))
	for i := 1; i < len(stack); i++ {
		child := tree.Get(stack[i])
		parent := tree.Get(tree.Get(stack[i]).ParentId)
		stackActions = append(stackActions, actionMove[A]{
			Action: parent.Edges[child.ActionIdx].Action,
			Player: parent.PlayerIdx,
		})
	}
	combined := append(append([]actionMove[A](nil), stackActions...), trialActions...)

	if flags.Has(BackpropAMAF) {
		// AMAF (siblings only): for every (action, mover) pair in the
		// trial's action list, credit the parent's edge for that action if
		// its child's mover matches.
		for i := 0; i < len(stack)-1; i++ {
			parent := tree.Get(stack[i])
			for _, am := range trialActions {
				for k := range parent.Edges {
					e := &parent.Edges[k]
					if e.Action != am.Action || e.ChildId == noNode {
						continue
					}
					if tree.Get(e.ChildId).PlayerIdx != am.Player {
						continue
					}
					e.Stats.PerPlayer[am.Player].addAmaf(utilities[am.Player])
				}
			}
		}
	}

	if flags.Has(BackpropGRAVE) {
		// Walk leaf -> root, accumulating the credited list incrementally:
		// a node is credited with the trial's playout actions plus
		// whatever was played strictly *after* it during selection, never
		// the edge that produced it, and the root is never credited.
		// Mirrors original_source/src/strategies/mcts/backprop.rs's
		// update_grave, which builds amaf_actions the same way and skips
		// the root explicitly.
		tail := append([]actionMove[A](nil), trialActions...)
		for i := len(stack) - 1; i >= 1; i-- {
			hash := tree.Get(stack[i]).Hash
			for _, am := range tail {
				global.addGrave(hash, am.Player, am.Action, utilities[am.Player])
			}
			tail = append(tail, stackActions[i-1])
		}
	}

	if flags.Has(BackpropGLOBAL) {
		for _, am := range combined {
			global.addMast(am.Player, am.Action, utilities[am.Player])
		}
	}
}
