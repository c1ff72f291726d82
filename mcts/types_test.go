package mcts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeStatsExpectedScore(t *testing.T) {
	e := newEdgeStats(2)
	assert.Zero(t, e.ExpectedScore(0), "unvisited edge scores zero")

	e.NumVisits = 2
	e.PerPlayer[0].add(1)
	e.PerPlayer[0].add(-1)
	assert.Zero(t, e.ExpectedScore(0))

	e.PerPlayer[1].add(1)
	e.PerPlayer[1].add(1)
	assert.InDelta(t, 1.0, e.ExpectedScore(1), 1e-9)
}

func TestEdgeStatsVarianceNeverNegative(t *testing.T) {
	e := newEdgeStats(1)
	e.NumVisits = 3
	e.PerPlayer[0].add(1)
	e.PerPlayer[0].add(1)
	e.PerPlayer[0].add(1)

	assert.Zero(t, e.Variance(0), "constant utility has zero variance")
}

func TestEdgeStatsVarianceOfSpread(t *testing.T) {
	e := newEdgeStats(1)
	e.NumVisits = 2
	e.PerPlayer[0].add(1)
	e.PerPlayer[0].add(-1)

	// mean=0, meanSq=1 => variance=1
	assert.InDelta(t, 1.0, e.Variance(0), 1e-9)
}

func TestBackpropFlagsHas(t *testing.T) {
	f := BackpropAMAF | BackpropGLOBAL
	assert.True(t, f.Has(BackpropAMAF))
	assert.True(t, f.Has(BackpropGLOBAL))
	assert.False(t, f.Has(BackpropGRAVE))
}

func TestNodeStateString(t *testing.T) {
	assert.Equal(t, "Leaf", StateLeaf.String())
	assert.Equal(t, "Expanded", StateExpanded.String())
	assert.Equal(t, "Terminal", StateTerminal.String())
}
