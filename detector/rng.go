package detector

import (
	"hash/fnv"
	"math/rand/v2"
)

// Each detector channel draws from its own PCG stream seeded from the
// run seed plus a hash of the channel id. Channels never share a
// stream, so parallel fan-out cannot perturb the noise sequence, and a
// rerun with the same seed reproduces it bit for bit.

// newChannelRand returns the PRNG stream for one detector channel.
func newChannelRand(seed int64, detectorID string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(detectorID))
	return rand.New(rand.NewPCG(uint64(seed), h.Sum64()))
}
