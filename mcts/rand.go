package mcts

import "math"

// primes is a set of 16 five-digit primes used as strides for the
// coprime-stride tie-breaking walk (spec §9), ported from
// original_source/src/util.rs PRIMES (re-expressed, not copied, as a Go
// slice consumed by randomBestIndex below).
var primes = [16]int{
	14323, 18713, 19463, 30553, 33469, 45343, 50221, 51991,
	53201, 56923, 64891, 72763, 74471, 81647, 92581, 94693,
}

// randomBestIndex picks the index in [0,n) maximizing score, breaking ties
// uniformly at random, without allocating a temporary slice of maxima. It
// starts at a random offset and strides by a random coprime-with-n amount
// so that repeated ties resolve to a uniform choice over a single rng
// draw, not n draws (§9: "use a coprime-stride traversal seeded by the
// PRNG to avoid allocating temporary arrays").
func randomBestIndex(n int, rng Rng, score func(i int) float64) int {
	if n == 1 {
		return 0
	}
	r := rng.Int63n(int64(n) * int64(len(primes)))
	i := int(r / int64(len(primes)))
	stride := primes[int(r%int64(len(primes)))]

	bestScore := math.Inf(-1)
	best := 0
	for k := 0; k < n; k++ {
		s := score(i)
		if s > bestScore {
			bestScore = s
			best = i
		}
		i = (i + stride) % n
	}
	return best
}
