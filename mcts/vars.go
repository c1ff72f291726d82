package mcts

import "time"

// SeedGeneratorFnType mirrors the teacher's pkg/mcts/vars.go: a swappable
// seed source, defaulting to wall-clock time, overridable for
// reproducible tests.
type SeedGeneratorFnType func() int64

var SeedGeneratorFn SeedGeneratorFnType = func() int64 {
	return time.Now().UnixNano()
}

// SetSeedGeneratorFn overrides the default seed source; tests use this to
// pin a fixed seed (teacher pkg/mcts/mcts_test.go TestMain idiom).
func SetSeedGeneratorFn(f SeedGeneratorFnType) {
	if f != nil {
		SeedGeneratorFn = f
	}
}
