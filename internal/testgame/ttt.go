// Package testgame provides small, self-contained mcts.Game
// implementations exercising each of spec §8's concrete scenarios:
// tic-tac-toe, a one-player counting game, 9-cell traffic-lights (with
// 8-fold symmetry hashing), and bidding tic-tac-toe. Grounded on
// original_source/src/games/{ttt,count,traffic_lights,bid_ttt}.rs,
// re-expressed in idiomatic Go rather than translated.
package testgame

import "fmt"

// Mark is a tic-tac-toe cell occupant.
type Mark uint8

const (
	Empty Mark = iota
	X
	O
)

// TTTState is a 3x3 board plus whose turn it is (0=X, 1=O).
type TTTState struct {
	Board [9]Mark
	Turn  int
}

// TTTMove places the mover's mark at Cell.
type TTTMove struct {
	Cell int
}

// TicTacToe is the classic perfect-information, zero-sum, two-player
// game used by §8 scenario 1 (UCB1, 10 000 iterations, seed 0).
type TicTacToe struct{}

var tttLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

func tttWinner(b [9]Mark) (Mark, bool) {
	for _, l := range tttLines {
		a, c, d := b[l[0]], b[l[1]], b[l[2]]
		if a != Empty && a == c && c == d {
			return a, true
		}
	}
	return Empty, false
}

func tttFull(b [9]Mark) bool {
	for _, m := range b {
		if m == Empty {
			return false
		}
	}
	return true
}

func (TicTacToe) NumPlayers() int { return 2 }

func (TicTacToe) PlayerToMove(s TTTState) int { return s.Turn }

func (TicTacToe) IsTerminal(s TTTState) bool {
	if _, ok := tttWinner(s.Board); ok {
		return true
	}
	return tttFull(s.Board)
}

func (TicTacToe) GenerateActions(s TTTState, out []TTTMove) []TTTMove {
	out = out[:0]
	for i, m := range s.Board {
		if m == Empty {
			out = append(out, TTTMove{Cell: i})
		}
	}
	return out
}

func (TicTacToe) Apply(s TTTState, a TTTMove) TTTState {
	mark := X
	if s.Turn == 1 {
		mark = O
	}
	ns := s
	ns.Board[a.Cell] = mark
	ns.Turn = 1 - s.Turn
	return ns
}

func (TicTacToe) Winner(s TTTState) (int, bool) {
	mark, ok := tttWinner(s.Board)
	if !ok {
		return 0, false
	}
	if mark == X {
		return 0, true
	}
	return 1, true
}

func (t TicTacToe) ComputeUtilities(s TTTState) []float64 {
	if w, ok := t.Winner(s); ok {
		u := []float64{-1, -1}
		u[w] = 1
		return u
	}
	return []float64{0, 0}
}

// tttHashes is a Zobrist table keyed by (cell, mark, turn-at-move), used
// incrementally the way the teacher's games hash boards: XOR in one entry
// per occupied cell. Values are arbitrary fixed 64-bit constants, not the
// original game's table.
var tttHashes = [9 * 2]uint64{
	0x1c5c8b7a1e9f2d31, 0x4a6f9e2b7c8d1053, 0x7e2b9c4d1a6f8035,
	0x35a79c1e4b6d8f20, 0x6c1f8b3a9e2d7054, 0x2f8d4b7e1c9a6031,
	0x91c4e7a2f6b8d035, 0x4e7a91c2b6f8d053, 0x7b3e9c6a1f4d8025,
	0x1d9a4c7e2b6f8053, 0x5a8e2c9b4d7f1063, 0x3c6f8a1e9b4d7052,
	0x8b2e7c4a1f9d6035, 0x6d4f1a8e3c9b7025, 0x2a7c9e4b1f8d6053,
	0x9e1c4a7b2f6d8035, 0x4b7e2c9a1d8f6053, 0x7c9a4e1b6f2d8035,
}

func (TicTacToe) ZobristHash(s TTTState) uint64 {
	var h uint64
	for i, m := range s.Board {
		if m != Empty {
			h ^= tttHashes[i*2+int(m)-1]
		}
	}
	return h
}

func (TicTacToe) Notation(_ TTTState, a TTTMove) string {
	return fmt.Sprintf("(%d,%d)", a.Cell%3, a.Cell/3)
}
