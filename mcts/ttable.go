package mcts

import "golang.org/x/exp/maps"

// TranspositionTable maps a state's Zobrist hash to the set of NodeIds
// that represent that state in the current tree (spec §4.2). Collision
// policy: two states with the same hash are treated as the same state, no
// key verification is performed — callers must use a hash scheme with
// adequate entropy (64-bit default).
type TranspositionTable struct {
	buckets map[uint64]map[NodeId]struct{}
	reads   uint64
	writes  uint64
	hits    uint64
}

// NewTranspositionTable returns an empty table.
func NewTranspositionTable() *TranspositionTable {
	return &TranspositionTable{buckets: make(map[uint64]map[NodeId]struct{})}
}

// Clear empties the table; called at the start of every new search.
func (tt *TranspositionTable) Clear() {
	clear(tt.buckets)
}

// Get returns the id-set for hash, or (nil, false) if absent.
func (tt *TranspositionTable) Get(hash uint64) ([]NodeId, bool) {
	tt.reads++
	set, ok := tt.buckets[hash]
	if !ok {
		return nil, false
	}
	tt.hits++
	return maps.Keys(set), true
}

// Insert records that id's state hashes to hash.
func (tt *TranspositionTable) Insert(hash uint64, id NodeId) {
	tt.writes++
	set, ok := tt.buckets[hash]
	if !ok {
		set = make(map[NodeId]struct{}, 1)
		tt.buckets[hash] = set
	}
	set[id] = struct{}{}
}

// Reads, Writes, Hits expose diagnostic counters (§4.2).
func (tt *TranspositionTable) Reads() uint64  { return tt.reads }
func (tt *TranspositionTable) Writes() uint64 { return tt.writes }
func (tt *TranspositionTable) Hits() uint64   { return tt.hits }

// MergedStats sums EdgeStats for the edge leading into every node sharing
// hash, realizing "UCD — update descent": siblings that transpose into the
// same state share their estimates. For each node id in the bucket the
// summed stats are those of the edge its own parent used to reach it (each
// node in the arena is reached by exactly one edge from its own parent,
// even though many parents across the tree may share its hash); a root id
// in the bucket has no such edge and is skipped.
func MergedStats[A comparable](tree *Tree[A], hash uint64, tt *TranspositionTable, numPlayers int) (EdgeStats, bool) {
	ids, ok := tt.Get(hash)
	if !ok || len(ids) == 0 {
		return EdgeStats{}, false
	}
	merged := newEdgeStats(numPlayers)
	for _, id := range ids {
		node := tree.Get(id)
		if node.IsRoot() {
			continue
		}
		parent := tree.Get(node.ParentId)
		e := &parent.Edges[node.ActionIdx]
		merged.NumVisits += e.Stats.NumVisits
		merged.NumVisitsVirtual += e.Stats.NumVisitsVirtual
		for p := range merged.PerPlayer {
			merged.PerPlayer[p].Score += e.Stats.PerPlayer[p].Score
			merged.PerPlayer[p].SumSquaredScore += e.Stats.PerPlayer[p].SumSquaredScore
			merged.PerPlayer[p].AmafVisits += e.Stats.PerPlayer[p].AmafVisits
			merged.PerPlayer[p].AmafScore += e.Stats.PerPlayer[p].AmafScore
		}
	}
	return merged, true
}
