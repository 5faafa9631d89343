package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// Subsystem names for partitioned randomness. Keeping the streams separate
// means, e.g., changing how usage durations are drawn does not perturb the
// arrival pacing of the same seed.
const (
	// SubsystemArrival drives the arrival driver: target count, batch
	// sizes, and category assignment. Uses the master seed directly.
	SubsystemArrival = "arrival"
)

// SubsystemSession returns the subsystem name for client N's private
// stream.
func SubsystemSession(id int) string {
	return fmt.Sprintf("session_%d", id)
}

// PartitionedRNG provides deterministic, isolated RNG instances per
// subsystem. The arrival subsystem uses the master seed directly; every
// other subsystem is seeded with masterSeed XOR fnv1a64(name).
//
// Thread-safety: NOT thread-safe. The arrival driver owns it and derives
// each session's stream before the session goroutine starts, so no two
// goroutines ever share a *rand.Rand.
type PartitionedRNG struct {
	seed       int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a master seed.
func NewPartitionedRNG(seed int64) *PartitionedRNG {
	return &PartitionedRNG{
		seed:       seed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named
// subsystem. The same name always returns the same cached instance. Never
// returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derived := p.seed
	if name != SubsystemArrival {
		derived ^= fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derived))
	p.subsystems[name] = rng
	return rng
}

// Seed returns the master seed this PartitionedRNG was created from.
func (p *PartitionedRNG) Seed() int64 {
	return p.seed
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
