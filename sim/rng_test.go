package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionedRNG_SameSubsystem_ReturnsCachedInstance(t *testing.T) {
	rng := NewPartitionedRNG(42)

	a := rng.ForSubsystem(SubsystemArrival)
	b := rng.ForSubsystem(SubsystemArrival)

	require.NotNil(t, a)
	assert.Same(t, a, b)
}

func TestPartitionedRNG_SameSeed_SameDraws(t *testing.T) {
	// GIVEN two partitioned RNGs with the same master seed
	first := NewPartitionedRNG(7).ForSubsystem(SubsystemSession(3))
	second := NewPartitionedRNG(7).ForSubsystem(SubsystemSession(3))

	// THEN their streams match draw for draw
	for i := 0; i < 16; i++ {
		assert.Equal(t, first.Int63(), second.Int63())
	}
}

func TestPartitionedRNG_DifferentSubsystems_IndependentStreams(t *testing.T) {
	rng := NewPartitionedRNG(99)

	arrival := rng.ForSubsystem(SubsystemArrival)
	session := rng.ForSubsystem(SubsystemSession(1))

	// Not a strict guarantee for arbitrary seeds, but with distinct derived
	// seeds the first few draws diverging is the expected behavior.
	same := true
	for i := 0; i < 8; i++ {
		if arrival.Int63() != session.Int63() {
			same = false
		}
	}
	assert.False(t, same)
}

func TestPartitionedRNG_Seed_Roundtrips(t *testing.T) {
	assert.Equal(t, int64(1234), NewPartitionedRNG(1234).Seed())
}
