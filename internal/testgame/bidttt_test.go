package testgame

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBiddingTicTacToeInitialPhaseIsBidX(t *testing.T) {
	s := NewBidState(100)
	g := NewBiddingTicTacToe()
	assert.Equal(t, PhaseBidX, s.Phase)
	assert.Equal(t, 0, g.PlayerToMove(s))
	assert.Len(t, g.GenerateActions(s, nil), 101) // bids 0..100 inclusive
}

func TestBiddingTicTacToeHigherBidWins(t *testing.T) {
	g := BiddingTicTacToe{}
	s := NewBidState(100)
	s = g.Apply(s, BTMove{Kind: MoveBid, Bid: 10}) // X bids 10
	require.Equal(t, PhaseBidO, s.Phase)
	s = g.Apply(s, BTMove{Kind: MoveBid, Bid: 20}) // O outbids

	assert.Equal(t, PhasePlayO, s.Phase)
	assert.Equal(t, 1, g.PlayerToMove(s))
	// O won the auction and plays; the pot (both bids) is refunded to the
	// loser X, not to the winner.
	assert.Equal(t, 100-20, s.O.Chips)
	assert.Equal(t, 100-10+30, s.X.Chips)
}

func TestBiddingTicTacToeEqualBidGoesToTiebreak(t *testing.T) {
	g := BiddingTicTacToe{}
	s := NewBidState(100)
	s = g.Apply(s, BTMove{Kind: MoveBid, Bid: 15})
	s = g.Apply(s, BTMove{Kind: MoveBid, Bid: 15})

	assert.Equal(t, PhaseTie, s.Phase)
	actions := g.GenerateActions(s, nil)
	assert.Len(t, actions, 2)
}

func TestBiddingTicTacToeTiebreakKeepLetsNonTiebreakerPlace(t *testing.T) {
	g := BiddingTicTacToe{}
	s := NewBidState(100)
	s.Tiebreaker = O
	s.Phase = PhaseTie

	s2 := g.Apply(s, BTMove{Kind: MoveTiebreak, Tiebreak: TiebreakKeep})
	assert.Equal(t, PhasePlayX, s2.Phase, "keeping means the non-tiebreaker (X) plays")
}

func TestBiddingTicTacToePlaceAdvancesToNextBidPhase(t *testing.T) {
	g := BiddingTicTacToe{}
	s := NewBidState(100)
	s.Phase = PhasePlayX
	s2 := g.Apply(s, BTMove{Kind: MovePlace, Cell: 4})

	assert.Equal(t, X, s2.Board[4])
	assert.Equal(t, PhaseBidX, s2.Phase)
}

func TestBiddingTicTacToeWinnerMatchesTicTacToeRules(t *testing.T) {
	g := BiddingTicTacToe{}
	s := NewBidState(100)
	s.Board = [9]Mark{X, X, X, O, O, Empty, Empty, Empty, Empty}
	w, ok := g.Winner(s)
	require.True(t, ok)
	assert.Equal(t, 0, w)
}

func TestBiddingTicTacToeDeterminizeOnlyAffectsBidOPhase(t *testing.T) {
	g := BiddingTicTacToe{}
	s := NewBidState(100)
	s.Phase = PhasePlayX
	rng := rand.New(rand.NewSource(1))
	assert.Equal(t, s, g.Determinize(s, rng), "Determinize is identity outside PhaseBidO")
}

func TestBiddingTicTacToeDeterminizePreservesTotalChips(t *testing.T) {
	g := BiddingTicTacToe{}
	s := NewBidState(100)
	s.Phase = PhaseBidO
	s.X.Chips = 60
	s.X.Bid = 10 // total 70 to redistribute

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		ns := g.Determinize(s, rng)
		assert.Equal(t, 70, ns.X.Chips+ns.X.Bid)
		assert.GreaterOrEqual(t, ns.X.Chips, 0)
		assert.LessOrEqual(t, ns.X.Chips, 70)
	}
}
