package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSimulator_InvalidConfig_Rejected(t *testing.T) {
	// GIVEN an inverted client range
	cfg := DefaultConfig()
	cfg.MinClients = 50
	cfg.MaxClients = 10

	// WHEN the simulator is constructed
	_, err := NewSimulator(cfg)

	// THEN construction fails up front
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid simulation config")
}

func TestSimulator_AllOrNothingRun_FullDrainAndConservation(t *testing.T) {
	// GIVEN a quick all-or-nothing run with a pinned population
	cfg := fastConfig(15, 15)
	s, err := NewSimulator(cfg)
	require.NoError(t, err)

	// WHEN the simulation runs to completion
	report := s.Run(context.Background())

	// THEN every spawned client reached exactly one terminal state
	assert.Equal(t, 15, report.ClientsSpawned)
	assert.Equal(t, report.ClientsSpawned, report.Served+report.Starved)

	// AND every unit went back: no leaks across the whole run
	requireDrained(t, s.Pools())

	// AND a fresh snapshot agrees with the report
	assert.Equal(t, report.Snapshot, s.Stats().Snapshot())
}

func TestSimulator_LoneStudentScenario(t *testing.T) {
	// GIVEN capacity one of everything and exactly one student
	pools := NewPools(PoolCapacities{Workstations: 1, Headsets: 1, Seats: 1})
	stats := NewStatsAggregator()
	proto := NewAllOrNothing(pools, 200*time.Millisecond, 10*time.Millisecond)
	session := newTestSession(ClientProfile{ID: 1, Category: Student}, proto, stats)

	// WHEN the single session runs
	session.Run(context.Background())

	// THEN served=1, starved=0, and all pools read full capacity
	snap := stats.Snapshot()
	assert.Equal(t, 1, snap.Served)
	assert.Equal(t, 0, snap.Starved)
	requireDrained(t, pools)
}

func TestSimulator_ConflictingMode_SelectsProtocolAndWatchdog(t *testing.T) {
	// GIVEN a conflicting-order config with an immediate-exhaustion café
	cfg := fastConfig(1, 1)
	cfg.ForceConflictingOrder = true
	cfg.Capacities = PoolCapacities{Workstations: 1, Headsets: 1, Seats: 1}
	s, err := NewSimulator(cfg)
	require.NoError(t, err)

	// THEN the wired protocol is the conflicting one
	assert.Equal(t, "ordered-conflicting", s.protocol.Name())

	// WHEN the one-client run executes (a lone client cannot deadlock)
	report := s.Run(context.Background())

	// THEN it completes and conserves units
	assert.Equal(t, 1, report.ClientsSpawned)
	assert.Equal(t, 1, report.Served+report.Starved)
	requireDrained(t, s.Pools())
}

func TestPools_NearExhaustion(t *testing.T) {
	pools := NewPools(PoolCapacities{Workstations: 2, Headsets: 2, Seats: 2})
	assert.False(t, pools.NearExhaustion())

	var held []*Unit
	for _, k := range AllResourceKinds {
		u, ok := pools.Of(k).TryAcquire()
		require.True(t, ok)
		held = append(held, u)
	}

	// One free unit in each pool is below the threshold of 2.
	assert.True(t, pools.NearExhaustion())
	releaseAll(held)
	assert.False(t, pools.NearExhaustion())
}
