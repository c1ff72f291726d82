package mcts

// Edge is one outgoing transition from an Expanded node: the action that
// produces it, the child it leads to (absent until explored) and its
// accumulated statistics (§3).
type Edge[A comparable] struct {
	Action  A
	ChildId NodeId // noNode until expanded
	Stats   EdgeStats
}

// Node is owned by the Tree arena. See spec §3 for the field-by-field
// contract; this mirrors the teacher's NodeBase in spirit (stats inline,
// move/signature on the node) but trades the teacher's embedded-slice
// child list for a flat arena + stable NodeId, which is what transposition
// merging needs (the table refers to nodes anywhere in the tree by id, so a
// node must stay addressable without being physically relocated). Each
// node is still reached by exactly one edge, its own parent's.
type Node[A comparable] struct {
	ParentId  NodeId // noNode for the root
	ActionIdx int    // index into parent's Edges; -1 for the root
	PlayerIdx int    // mover at this node
	Hash      uint64
	State     NodeState
	Edges     []Edge[A] // nonempty iff State == StateExpanded
	Stats     NodeStats // aggregate stats; NumVisits counts every trial backpropagated through this node
}

// NodeStats is the Node's own aggregate statistics (§3 "aggregate stats"),
// distinct from the per-edge stats: it lets a selection policy read "this
// node's expected score" (used as the QInitParent substitute, §4.4) without
// walking every edge.
type NodeStats struct {
	NumVisits int32
	PerPlayer []PlayerStats
}

// ExpectedScore returns the node's own average utility for player, or 0 if
// unvisited.
func (s *NodeStats) ExpectedScore(player int) float64 {
	if s.NumVisits == 0 {
		return 0
	}
	return s.PerPlayer[player].Score / float64(s.NumVisits)
}

func newRootNode[A comparable](playerIdx int, hash uint64, terminal bool, numPlayers int) Node[A] {
	st := StateLeaf
	if terminal {
		st = StateTerminal
	}
	return Node[A]{
		ParentId:  noNode,
		ActionIdx: -1,
		PlayerIdx: playerIdx,
		Hash:      hash,
		State:     st,
		Stats:     NodeStats{PerPlayer: make([]PlayerStats, numPlayers)},
	}
}

// IsRoot reports whether this node has no parent.
func (n *Node[A]) IsRoot() bool { return n.ParentId == noNode }

// Tree is the arena described in spec §4.1: it owns all nodes, hands out
// stable NodeIds, and supports O(1) access and a bulk Clear between
// searches. Nodes never relocate or get invalidated mid-search; Clear
// resets length to zero and invalidates every previously issued id.
type Tree[A comparable] struct {
	nodes      []Node[A]
	numPlayers int
}

// NewTree creates an empty arena for a game with the given player count.
func NewTree[A comparable](numPlayers int) *Tree[A] {
	return &Tree[A]{numPlayers: numPlayers}
}

// Clear resets the arena to empty. Previously issued NodeIds become
// invalid immediately.
func (t *Tree[A]) Clear() {
	t.nodes = t.nodes[:0]
}

// Len is the number of nodes currently stored.
func (t *Tree[A]) Len() int { return len(t.nodes) }

// Insert appends node to the arena and returns its new stable id.
func (t *Tree[A]) Insert(node Node[A]) NodeId {
	id := NodeId(len(t.nodes))
	t.nodes = append(t.nodes, node)
	return id
}

// Get returns a pointer to the node for id. Total on valid ids (ids
// returned by Insert since the last Clear).
func (t *Tree[A]) Get(id NodeId) *Node[A] {
	return &t.nodes[id]
}

// Root returns the id of the first node inserted after the last Clear.
func (t *Tree[A]) Root() NodeId {
	return 0
}

// actionInto returns the action on the parent edge that created id; used
// by the opening-book select policy to rebuild an action prefix from a
// stack of node ids (§4.4.h, §4.8).
func (t *Tree[A]) actionInto(id NodeId) A {
	n := t.Get(id)
	return t.Get(n.ParentId).Edges[n.ActionIdx].Action
}

// expand transitions a Leaf node into Expanded, allocating one edge per
// legal action. Panics if actions is empty (spec §7: "empty action list
// from a non-terminal state" is a programmer error, fail loudly).
func (t *Tree[A]) expand(id NodeId, actions []A) {
	node := t.Get(id)
	if len(actions) == 0 {
		panic("mcts: expand called with zero legal actions on a non-terminal state")
	}
	edges := make([]Edge[A], len(actions))
	for i, a := range actions {
		edges[i] = Edge[A]{Action: a, ChildId: noNode, Stats: newEdgeStats(t.numPlayers)}
	}
	node.Edges = edges
	node.State = StateExpanded
}

// linkChild creates a child node for edges[edgeIdx] of parent, if one does
// not already exist, and returns its id.
func (t *Tree[A]) linkChild(parentId NodeId, edgeIdx int, childPlayerIdx int, childHash uint64, childTerminal bool) NodeId {
	parent := t.Get(parentId)
	if parent.Edges[edgeIdx].ChildId != noNode {
		return parent.Edges[edgeIdx].ChildId
	}
	st := StateLeaf
	if childTerminal {
		st = StateTerminal
	}
	id := t.Insert(Node[A]{
		ParentId:  parentId,
		ActionIdx: edgeIdx,
		PlayerIdx: childPlayerIdx,
		Hash:      childHash,
		State:     st,
		Stats:     NodeStats{PerPlayer: make([]PlayerStats, t.numPlayers)},
	})
	// re-fetch: Insert may have grown/reallocated the backing slice
	t.Get(parentId).Edges[edgeIdx].ChildId = id
	return id
}
