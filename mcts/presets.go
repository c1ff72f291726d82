package mcts

// Presets mirror original_source's strategies/mcts/util.rs named Strategy
// implementations (Ucb1, Ucb1Mast, ScalarAmaf, McGrave, McBrave, Ucb1Grave,
// QuasiBestFirst, ...), translated into fluent SearchConfig builders since
// this engine has no trait-level Strategy type parameter to dispatch on.

// Ucb1Default is vanilla UCT: UCB1 select, uniform playout, classic
// backprop, robust-child final action.
func Ucb1Default[S any, A comparable]() *SearchConfig[S, A] {
	return DefaultConfig[S, A]().
		SetSelect(NewUCB1[A]()).
		SetSimulate(Uniform[S, A]{}).
		SetFinalAction(RobustChild[A]{}).
		SetQInit(QInitParent).
		SetExpandThreshold(5).
		SetMaxPlayoutDepth(200)
}

// Ucb1MastDefault adds MAST-guided playouts (ε=0.2 over Mast, matching the
// original's EpsilonGreedy<Mast> default) on top of Ucb1Default.
func Ucb1MastDefault[S any, A comparable]() *SearchConfig[S, A] {
	mast := NewMast[S, A]()
	sim := &SimEpsilonGreedy[S, A]{Epsilon: 0.2, Inner: mast}
	return Ucb1Default[S, A]().SetSimulate(sim)
}

// RaveDefault is the ScalarAMAF/RAVE preset: infinity QInit for optimistic
// exploration of unvisited children, per original_source's ScalarAmaf.
func RaveDefault[S any, A comparable]() *SearchConfig[S, A] {
	return Ucb1Default[S, A]().
		SetSelect(NewScalarAMAF[A]()).
		SetQInit(QInitInfinity)
}

// GraveDefault is MC-GRAVE: single reference-ancestor AMAF caching.
func GraveDefault[S any, A comparable]() *SearchConfig[S, A] {
	return Ucb1Default[S, A]().
		SetSelect(NewGrave[A](GraveModeGRAVE)).
		SetQInit(QInitInfinity)
}

// BraveDefault is MC-BRAVE: every-ancestor AMAF summation.
func BraveDefault[S any, A comparable]() *SearchConfig[S, A] {
	return Ucb1Default[S, A]().
		SetSelect(NewGrave[A](GraveModeBRAVE)).
		SetQInit(QInitInfinity)
}

// Ucb1GraveDefault adds the UCB1 exploration term on top of GRAVE's AMAF
// blend, with QInitParent per original_source's Ucb1Grave preset.
func Ucb1GraveDefault[S any, A comparable]() *SearchConfig[S, A] {
	return Ucb1Default[S, A]().
		SetSelect(NewGrave[A](GraveModeUCB1Grave)).
		SetQInit(QInitParent)
}

// Ucb1RootNoiseDefault adds AlphaZero-style Dirichlet root exploration
// (Alpha=0.3, Epsilon=0.25, the canonical Silver et al. values) on top of
// Ucb1Default, so repeated searches from the same root don't collapse
// onto one line before enough iterations have run to trust it.
func Ucb1RootNoiseDefault[S any, A comparable](seed uint64) *SearchConfig[S, A] {
	cfg := Ucb1Default[S, A]()
	return cfg.SetSelect(NewDirichletNoise[A](0.3, 0.25, seed, cfg.Select))
}

// QbfConfig returns the "inner" MCTS configuration §4.8 prescribes for
// opening-book construction: expand straight to a terminal in one
// iteration (expand_threshold=0, max_iterations=1), uniform simulate
// (unreachable in practice once expand_threshold=0 reaches a terminal
// node directly), classic backprop, MaxAvgScore final action.
func QbfConfig[S any, A comparable]() *SearchConfig[S, A] {
	return DefaultConfig[S, A]().
		SetSelect(NewUCB1[A]()).
		SetSimulate(Uniform[S, A]{}).
		SetFinalAction(MaxAvgScore[A]{}).
		SetQInit(QInitParent).
		SetExpandThreshold(0).
		SetMaxIterations(1).
		SetMaxPlayoutDepth(200)
}
