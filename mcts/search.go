package mcts

import "math/rand"

// SearchLoop drives the select -> expand -> simulate -> backpropagate loop
// of §4.3. One SearchLoop instance owns one Tree/TranspositionTable/
// GlobalTables arena; ChooseAction resets all of them at the start of
// every call (§3 "Lifecycle": "all tree and statistics storage is created
// at search start ... and discarded before the next choose_action").
type SearchLoop[S any, A comparable] struct {
	game   Game[S, A]
	config *SearchConfig[S, A]

	tree    *Tree[A]
	ttable  *TranspositionTable
	global  *GlobalTables[A]
	limiter *budgetLimiter
	rng     *rand.Rand

	iterations  uint64
	depthSum    uint64
	lastPV      []A
	initialTurn int
}

// NewSearchLoop validates config and returns a SearchLoop ready to run
// repeated ChooseAction calls against game.
func NewSearchLoop[S any, A comparable](game Game[S, A], config *SearchConfig[S, A]) (*SearchLoop[S, A], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	n := game.NumPlayers()
	return &SearchLoop[S, A]{
		game:    game,
		config:  config,
		tree:    NewTree[A](n),
		ttable:  NewTranspositionTable(),
		global:  NewGlobalTables[A](n),
		limiter: newBudgetLimiter(),
		rng:     rand.New(rand.NewSource(config.Seed)),
	}, nil
}

// EstimatedDepth returns the average tree depth reached across iterations
// of the most recent search (§6 "Output").
func (sl *SearchLoop[S, A]) EstimatedDepth() float64 {
	if sl.iterations == 0 {
		return 0
	}
	return float64(sl.depthSum) / float64(sl.iterations)
}

// PrincipalVariation returns the most recent PV (§6 "Output").
func (sl *SearchLoop[S, A]) PrincipalVariation() []A {
	return sl.lastPV
}

// Iterations returns the number of completed iterations of the most
// recent search.
func (sl *SearchLoop[S, A]) Iterations() uint64 { return sl.iterations }

// StopReason reports why the most recent search stopped.
func (sl *SearchLoop[S, A]) StopReason() StopReason { return sl.limiter.stopReason() }

// ElapsedMs reports the elapsed wall-clock time of the most recent search.
func (sl *SearchLoop[S, A]) ElapsedMs() int64 { return sl.limiter.elapsedMs() }

// ChooseAction runs the search from state and returns one action (§4.3).
func (sl *SearchLoop[S, A]) ChooseAction(state S) A {
	sl.setup(state)

	for sl.limiter.ok(sl.iterations) {
		sl.runIteration(state)
		sl.iterations++
	}

	return sl.finalAction(state)
}

func (sl *SearchLoop[S, A]) setup(state S) {
	sl.tree.Clear()
	sl.ttable.Clear()
	sl.global.Reset()
	sl.iterations = 0
	sl.depthSum = 0
	sl.lastPV = nil

	sl.initialTurn = sl.game.PlayerToMove(state)
	terminal := sl.game.IsTerminal(state)
	hash := sl.game.ZobristHash(state)
	root := newRootNode[A](sl.initialTurn, hash, terminal, sl.game.NumPlayers())
	sl.tree.Insert(root)
	if sl.config.UseTranspositions {
		sl.ttable.Insert(hash, sl.tree.Root())
	}

	var budget Budget
	if sl.config.MaxTime > 0 {
		budget = Budget{MaxTime: sl.config.MaxTime}
	} else {
		budget = Budget{MaxIterations: sl.config.MaxIterations}
	}
	sl.limiter.reset(budget)

	// Budget exhaustion at root (§7): if the root would still be a leaf
	// when the budget is immediately exhausted (e.g. max_iterations=0 or
	// below ExpandThreshold), force-expand it once so final-action
	// selection has edges to read, per §9's open-question resolution.
	if !terminal {
		sl.forceExpandRoot(state)
	}
}

func (sl *SearchLoop[S, A]) forceExpandRoot(state S) {
	rootId := sl.tree.Root()
	root := sl.tree.Get(rootId)
	if root.State != StateLeaf {
		return
	}
	actions := sl.game.GenerateActions(state, nil)
	if len(actions) == 0 {
		root.State = StateTerminal
		return
	}
	sl.tree.expand(rootId, actions)
}

// runIteration performs one select->expand->simulate->backpropagate cycle.
func (sl *SearchLoop[S, A]) runIteration(rootState S) {
	stack, leafState := sl.selectAndExpand(rootState)
	trial := sl.simulate(leafState)
	utilities := sl.game.ComputeUtilities(trial.finalState)
	flags := sl.config.Select.Flags() | sl.config.Simulate.Flags()
	backpropagate(sl.tree, sl.global, stack, trial.actions, utilities, flags)
	sl.depthSum += uint64(len(stack) - 1)
}

// selectAndExpand descends from the root applying the select policy,
// expanding a Leaf node once its ExpandThreshold is reached, and stops as
// soon as a fresh child is created or a Terminal/under-threshold Leaf node
// is reached (§4.3 steps a-b).
func (sl *SearchLoop[S, A]) selectAndExpand(rootState S) ([]NodeId, S) {
	id := sl.tree.Root()
	state := rootState
	stack := []NodeId{id}

	for {
		node := sl.tree.Get(id)
		switch node.State {
		case StateTerminal:
			return stack, state

		case StateLeaf:
			if node.Stats.NumVisits < sl.config.ExpandThreshold {
				return stack, state
			}
			actions := sl.game.GenerateActions(state, nil)
			if len(actions) == 0 {
				node.State = StateTerminal
				return stack, state
			}
			sl.tree.expand(id, actions)

			edgeIdx := sl.config.Select.BestChild(sl.ctxFor(id, stack, node.PlayerIdx, state))
			childId, childState := sl.expandEdge(id, edgeIdx, state)
			stack = append(stack, childId)

			if sl.config.ExpandThreshold == 0 {
				id, state = childId, childState
				continue
			}
			return stack, childState

		default: // StateExpanded
			edgeIdx := sl.config.Select.BestChild(sl.ctxFor(id, stack, node.PlayerIdx, state))
			e := &node.Edges[edgeIdx]
			if e.ChildId == noNode {
				childId, childState := sl.expandEdge(id, edgeIdx, state)
				stack = append(stack, childId)
				return stack, childState
			}
			state = sl.game.Apply(state, e.Action)
			id = e.ChildId
			stack = append(stack, id)
		}
	}
}

func (sl *SearchLoop[S, A]) ctxFor(id NodeId, stack []NodeId, player int, state S) *SelectContext[A] {
	return &SelectContext[A]{
		Tree:              sl.tree,
		NodeId:            id,
		Stack:             stack,
		Player:            player,
		UseTranspositions: sl.config.UseTranspositions,
		TTable:            sl.ttable,
		Global:            sl.global,
		QInit:             sl.config.QInit,
		Rng:               sl.rng,
		State:             state,
	}
}

// expandEdge materializes the child node for edges[edgeIdx] of parentId
// (creating it if necessary) and returns its id and resulting state.
func (sl *SearchLoop[S, A]) expandEdge(parentId NodeId, edgeIdx int, state S) (NodeId, S) {
	parent := sl.tree.Get(parentId)
	action := parent.Edges[edgeIdx].Action
	childState := sl.game.Apply(state, action)
	childTerminal := sl.game.IsTerminal(childState)
	childHash := sl.game.ZobristHash(childState)
	var childPlayer int
	if !childTerminal {
		childPlayer = sl.game.PlayerToMove(childState)
	}
	childId := sl.tree.linkChild(parentId, edgeIdx, childPlayer, childHash, childTerminal)
	if sl.config.UseTranspositions {
		sl.ttable.Insert(childHash, childId)
	}
	return childId, childState
}

type trialResult[S any, A comparable] struct {
	finalState S
	actions    []actionMove[A]
	depth      int
	endType    TrialEndKind
}

// simulate runs a playout from state using the configured SimulatePolicy,
// capped at MaxPlayoutDepth (§4.3 step c). A game implementing
// Determinizer has state determinized once before the playout starts.
func (sl *SearchLoop[S, A]) simulate(state S) trialResult[S, A] {
	if d, ok := sl.game.(Determinizer[S]); ok {
		state = d.Determinize(state, sl.rng)
	}
	var taken []actionMove[A]
	depth := 0
	for depth < sl.config.MaxPlayoutDepth {
		if sl.game.IsTerminal(state) {
			return trialResult[S, A]{finalState: state, actions: taken, depth: depth, endType: EndNaturalEnd}
		}
		player := sl.game.PlayerToMove(state)
		actions := sl.game.GenerateActions(state, nil)
		if len(actions) == 0 {
			return trialResult[S, A]{finalState: state, actions: taken, depth: depth, endType: EndNaturalEnd}
		}
		move := sl.config.Simulate.SelectMove(sl.game, state, actions, sl.global, player, sl.rng)
		taken = append(taken, actionMove[A]{Action: move, Player: player})
		state = sl.game.Apply(state, move)
		depth++
	}
	return trialResult[S, A]{finalState: state, actions: taken, depth: depth, endType: EndTurnLimit}
}

