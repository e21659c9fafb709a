package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Both PCG words are derived from the one seed so every call site gets the
// same sequence for the same value.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Stream returns the generator for sub-stream n of seed. A stream depends
// only on (seed, n), never on which goroutine creates it or when.
func Stream(seed, n uint64) *rand.Rand {
	src := rand.NewPCG(0, 0)
	SeedStream(src, seed, n)
	return rand.New(src)
}

// SeedStream resets src to sub-stream n of seed. Hot loops reuse one source
// per worker and reseed it for every trial instead of allocating.
func SeedStream(src *rand.PCG, seed, n uint64) {
	s := mix(seed) ^ mix(n*goldenRatio64+1)
	src.Seed(mix(s), mix(s+goldenRatio64))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
