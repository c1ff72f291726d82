package mcts

import (
	"time"

	"github.com/pkg/errors"
)

// FinalActionPolicy picks the root's returned action and drives principal
// variation extraction (§6 "final_action"); it reuses the SelectPolicy
// contract in an exploit-only role (no exploration term is normally
// configured here — RobustChild or MaxAvgScore are the typical choices).
type FinalActionPolicy[A comparable] = SelectPolicy[A]

// SearchConfig enumerates every option in spec §6, built with the
// teacher's fluent Set* builder idiom (pkg/mcts/limits.go: Limits.SetCycles,
// SetMovetime, SetThreads, ...) rather than functional options.
type SearchConfig[S any, A comparable] struct {
	Select      SelectPolicy[A]
	Simulate    SimulatePolicy[S, A]
	FinalAction FinalActionPolicy[A]
	QInit       QInit

	ExpandThreshold   int32
	MaxPlayoutDepth   int
	MaxIterations     uint64
	MaxTime           time.Duration // mutually exclusive with MaxIterations
	UseTranspositions bool
	Seed              int64
	Name              string
}

// DefaultConfig returns a conservative UCB1 / uniform-playout / classic
// backprop configuration, mirroring the teacher's DefaultLimits().
func DefaultConfig[S any, A comparable]() *SearchConfig[S, A] {
	return &SearchConfig[S, A]{
		Select:          NewUCB1[A](),
		Simulate:        Uniform[S, A]{},
		FinalAction:     RobustChild[A]{},
		QInit:           QInitParent,
		ExpandThreshold: 1,
		MaxPlayoutDepth: 1000,
		MaxIterations:   10_000,
		Seed:            SeedGeneratorFn(),
	}
}

func (c *SearchConfig[S, A]) SetSelect(p SelectPolicy[A]) *SearchConfig[S, A] {
	c.Select = p
	return c
}

func (c *SearchConfig[S, A]) SetSimulate(p SimulatePolicy[S, A]) *SearchConfig[S, A] {
	c.Simulate = p
	return c
}

func (c *SearchConfig[S, A]) SetFinalAction(p FinalActionPolicy[A]) *SearchConfig[S, A] {
	c.FinalAction = p
	return c
}

func (c *SearchConfig[S, A]) SetQInit(q QInit) *SearchConfig[S, A] {
	c.QInit = q
	return c
}

func (c *SearchConfig[S, A]) SetExpandThreshold(n int32) *SearchConfig[S, A] {
	c.ExpandThreshold = n
	return c
}

func (c *SearchConfig[S, A]) SetMaxPlayoutDepth(n int) *SearchConfig[S, A] {
	c.MaxPlayoutDepth = n
	return c
}

// SetMaxIterations sets the iteration budget and clears MaxTime, since the
// two budgets are mutually exclusive (§4.7).
func (c *SearchConfig[S, A]) SetMaxIterations(n uint64) *SearchConfig[S, A] {
	c.MaxIterations = n
	c.MaxTime = 0
	return c
}

// SetMaxTime sets the wall-clock budget and clears MaxIterations.
func (c *SearchConfig[S, A]) SetMaxTime(d time.Duration) *SearchConfig[S, A] {
	c.MaxTime = d
	c.MaxIterations = 0
	return c
}

func (c *SearchConfig[S, A]) SetUseTranspositions(v bool) *SearchConfig[S, A] {
	c.UseTranspositions = v
	return c
}

func (c *SearchConfig[S, A]) SetSeed(seed int64) *SearchConfig[S, A] {
	c.Seed = seed
	return c
}

func (c *SearchConfig[S, A]) SetName(name string) *SearchConfig[S, A] {
	c.Name = name
	return c
}

// Validate rejects setup-time policy incompatibilities (§7 "Policy
// incompatibilities"): GRAVE/BRAVE combined with transposition merging is
// a reject-at-setup condition, not a mid-search panic, because it is
// caught before a single node is touched.
func (c *SearchConfig[S, A]) Validate() error {
	if c.Select == nil {
		return errors.New("mcts: SearchConfig.Select must not be nil")
	}
	if c.Simulate == nil {
		return errors.New("mcts: SearchConfig.Simulate must not be nil")
	}
	if c.FinalAction == nil {
		return errors.New("mcts: SearchConfig.FinalAction must not be nil")
	}
	if c.UseTranspositions {
		if _, isGrave := c.Select.(*Grave[A]); isGrave {
			return errors.Errorf("mcts: GRAVE/BRAVE selection is incompatible with transposition merging (%T)", c.Select)
		}
	}
	if c.MaxIterations != 0 && c.MaxTime != 0 {
		return errors.New("mcts: MaxIterations and MaxTime are mutually exclusive, set only one")
	}
	return nil
}
