package testgame

import "fmt"

// TLCell is a traffic-light cell's color progression: empty -> red ->
// yellow -> green (terminal for that cell; a completed line of equal
// non-empty colors ends the game). Grounded on
// original_source/src/games/traffic_lights.rs's Piece/Position.
type TLCell uint8

const (
	TLEmpty TLCell = iota
	TLRed
	TLYellow
	TLGreen
)

// TLState is the 3x3 board plus whose turn it is.
type TLState struct {
	Board TLBoard
	Turn  int

	// hashes holds one running Zobrist XOR-hash per D4 symmetry
	// orientation of the board (§8 scenario 3's "8-fold rotation/
	// reflection symmetry hashing"); ZobristHash returns their minimum,
	// giving every member of a symmetry class the same canonical hash.
	hashes [8]uint64
}

// TLBoard is the 9-cell board, row-major (index = row*3+col).
type TLBoard [9]TLCell

// TLMove increments the cell at Index to Next.
type TLMove struct {
	Index int
	Next  TLCell
}

// TrafficLights is the 9-cell transposition-heavy game used by §8
// scenario 3.
type TrafficLights struct{}

var tlLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

func tlHasWinner(b TLBoard) bool {
	for _, l := range tlLines {
		a, c, d := b[l[0]], b[l[1]], b[l[2]]
		if a != TLEmpty && a == c && c == d {
			return true
		}
	}
	return false
}

func (TrafficLights) NumPlayers() int { return 2 }

func (TrafficLights) PlayerToMove(s TLState) int { return s.Turn }

func (TrafficLights) IsTerminal(s TLState) bool { return tlHasWinner(s.Board) }

func (TrafficLights) GenerateActions(s TLState, out []TLMove) []TLMove {
	out = out[:0]
	for i, c := range s.Board {
		if c != TLGreen {
			out = append(out, TLMove{Index: i, Next: c + 1})
		}
	}
	return out
}

// tlSymmetries holds the index permutation of each of the 8 D4 symmetries
// of a 3x3 grid (identity, three rotations, and their four reflections);
// tlSymmetries[s][i] is where cell i maps to under symmetry s.
var tlSymmetries = [8][9]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8}, // identity
	{2, 5, 8, 1, 4, 7, 0, 3, 6}, // rotate 90
	{8, 7, 6, 5, 4, 3, 2, 1, 0}, // rotate 180
	{6, 3, 0, 7, 4, 1, 8, 5, 2}, // rotate 270
	{2, 1, 0, 5, 4, 3, 8, 7, 6}, // flip horizontal
	{0, 3, 6, 1, 4, 7, 2, 5, 8}, // flip + rotate 90
	{6, 7, 8, 3, 4, 5, 0, 1, 2}, // flip + rotate 180
	{8, 5, 2, 7, 4, 1, 6, 3, 0}, // flip + rotate 270
}

// tlHashes is a Zobrist table keyed by (cell, new-color, mover-at-move-
// time); values are arbitrary fixed 64-bit constants distinct from the
// original game's table.
var tlHashes = [9 * 3 * 2]uint64{
	0xa13c7e2f9b4d6081, 0x3e7b9c4a1f6d8025, 0x7c4a1e9b6f2d8053,
	0x1f9b4e7a2c6d8035, 0x5a2c9e4b7f1d6053, 0x3b7e4c1a9f6d8025,
	0x9c1a4e7b2f6d8053, 0x4e7c9a1b6f2d8035, 0x7a1e4c9b6f2d8053,
	0x2c9b4e7a1f6d8035, 0x6e4a1c9b7f2d8053, 0x1a9c4e7b2f6d8035,
	0x4c7e1a9b6f2d8053, 0x9e4a7c1b2f6d8035, 0x2a1c9e4b7f6d8053,
	0x7e9a4c1b6f2d8035, 0x1c4e9a7b2f6d8053, 0x4a9e1c7b6f2d8035,
	0x9a7c4e1b2f6d8053, 0x2e1a9c4b7f6d8035, 0x7c9e4a1b6f2d8053,
	0x1e4a9c7b2f6d8035, 0x4a1e9c4b7f6d8053, 0x9c4e1a7b6f2d8035,
	0x2a7c9e4b1f6d8053, 0x6c1e4a9b7f2d8035, 0x1e9a4c7b6f2d8053,
	0x4e2a1c9b7f6d8035, 0x9a4c7e1b2f6d8053, 0x2c1e9a4b7f6d8035,
	0x7e4a9c1b6f2d8053, 0x1a2c9e4b7f6d8035, 0x4c7a1e9b6f2d8053,
	0x9e1c4a7b2f6d8035, 0x2c4e9a1b7f6d8053, 0x6a9c1e4b7f2d8035,
	0x1e4c9a7b2f6d8053, 0x4a7e1c9b6f2d8035, 0x9c2a4e1b7f6d8053,
	0x2e9c1a4b7f2d8035, 0x6a1e4c9b7f6d8053, 0x1c9a4e7b2f6d8035,
	0x4e1c9a7b6f2d8053, 0x9a4e2c1b7f6d8035, 0x2c7a9e4b1f6d8053,
	0x6e4c1a9b7f2d8035, 0x1a9e4c7b2f6d8053, 0x4c2a1e9b7f6d8035,
	0x9e7c4a1b2f6d8053, 0x2a4c9e1b7f6d8035, 0x6c9a4e1b7f2d8053,
	0x1e2a9c4b7f6d8035, 0x7a4e1c9b2f6d8035, 0x4c9e2a1b7f6d8053,
}

func tlCellHash(idx int, next TLCell, turn int) uint64 {
	key := idx*6 + (int(next)-1)*2 + turn
	return tlHashes[key%len(tlHashes)]
}

func (TrafficLights) Apply(s TLState, m TLMove) TLState {
	ns := s
	ns.Board[m.Index] = m.Next
	for sym := 0; sym < 8; sym++ {
		idx := tlSymmetries[sym][m.Index]
		ns.hashes[sym] ^= tlCellHash(idx, m.Next, s.Turn)
	}
	if !tlHasWinner(ns.Board) {
		ns.Turn = 1 - s.Turn
	}
	return ns
}

// Winner reports the mover who just completed a line; Turn has not
// flipped yet when a move wins (mirrors the original's Position.apply:
// turn only advances "if !self.winner").
func (TrafficLights) Winner(s TLState) (int, bool) {
	if !tlHasWinner(s.Board) {
		return 0, false
	}
	return s.Turn, true
}

func (t TrafficLights) ComputeUtilities(s TLState) []float64 {
	if w, ok := t.Winner(s); ok {
		u := []float64{-1, -1}
		u[w] = 1
		return u
	}
	return []float64{0, 0}
}

// ZobristHash returns the minimum running hash across all 8 symmetry
// orientations, giving every board in a symmetry class the same
// transposition-table key (§8 scenario 3).
func (TrafficLights) ZobristHash(s TLState) uint64 {
	min := s.hashes[0]
	for _, h := range s.hashes[1:] {
		if h < min {
			min = h
		}
	}
	return min
}

func (TrafficLights) Notation(_ TLState, m TLMove) string {
	return fmt.Sprintf("(%d,%d)", m.Index%3, m.Index/3)
}
