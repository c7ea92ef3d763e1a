package sim

import "math/rand/v2"

// Stream identifiers keep the registry and per-tick draws independent
// even though they share one seed.
const (
	registryStream uint64 = 0x5eed_0000_0000_0001
	tickStream     uint64 = 0x5eed_0000_0000_0002
)

func newRegistryRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), registryStream))
}

// newTickRand returns the stream for one tick. Deriving it from (seed, tick)
// means a skipped tick replays the same draws when it is retried.
func newTickRand(seed int64, tick uint64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed)^tickStream, tick))
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
