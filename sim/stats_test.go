package sim

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsAggregator_ConcurrentRecording_TotalsAddUp(t *testing.T) {
	// GIVEN many goroutines recording served and starved outcomes
	stats := NewStatsAggregator()
	const servers = 40
	const starvers = 25

	var wg sync.WaitGroup
	for i := 0; i < servers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats.RecordServed(10*time.Millisecond, []ResourceKind{Workstation, Headset})
		}()
	}
	for i := 0; i < starvers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats.RecordStarved(TimedOutOnPrimary)
		}()
	}
	wg.Wait()

	// THEN no update was lost
	snap := stats.Snapshot()
	assert.Equal(t, servers, snap.Served)
	assert.Equal(t, starvers, snap.Starved)
	assert.Equal(t, starvers, snap.StarvedPrimary)
	assert.Equal(t, servers, snap.Usage[Workstation])
	assert.Equal(t, servers, snap.Usage[Headset])
	assert.Equal(t, servers+starvers, snap.Served+snap.Starved)
}

func TestStatsAggregator_Snapshot_Idempotent(t *testing.T) {
	// GIVEN an aggregator with some recorded outcomes
	stats := NewStatsAggregator()
	stats.RecordServed(40*time.Millisecond, []ResourceKind{Workstation})
	stats.RecordServed(80*time.Millisecond, []ResourceKind{Workstation, Seat})
	stats.RecordStarved(TimedOutOnSecondary)

	// WHEN snapshot is taken twice with nothing in between
	first := stats.Snapshot()
	second := stats.Snapshot()

	// THEN both reads are identical
	assert.Equal(t, first, second)
}

func TestStatsAggregator_Snapshot_IsACopy(t *testing.T) {
	// GIVEN a snapshot taken before further recording
	stats := NewStatsAggregator()
	stats.RecordServed(5*time.Millisecond, []ResourceKind{Seat})
	snap := stats.Snapshot()

	// WHEN the aggregator keeps recording
	stats.RecordServed(5*time.Millisecond, []ResourceKind{Seat})

	// THEN the earlier snapshot is unaffected
	assert.Equal(t, 1, snap.Served)
	assert.Equal(t, 1, snap.Usage[Seat])
}

func TestStatsAggregator_WaitDistribution_Reported(t *testing.T) {
	// GIVEN served clients with a spread of waits
	stats := NewStatsAggregator()
	for _, ms := range []int{10, 20, 30, 40, 200} {
		stats.RecordServed(time.Duration(ms)*time.Millisecond, []ResourceKind{Workstation})
	}

	// WHEN the snapshot is read
	snap := stats.Snapshot()

	// THEN average and percentiles are populated and ordered
	require.Equal(t, 5, snap.Served)
	assert.InDelta(t, 60.0, snap.AvgWaitMs, 0.01)
	assert.LessOrEqual(t, snap.P50WaitMs, snap.P95WaitMs)
	assert.LessOrEqual(t, snap.P95WaitMs, snap.P99WaitMs)
	assert.LessOrEqual(t, snap.P99WaitMs, snap.MaxWaitMs)
	assert.InDelta(t, 200, snap.MaxWaitMs, 1)
}

func TestStatsAggregator_Empty_ZeroDistribution(t *testing.T) {
	// GIVEN nothing recorded
	snap := NewStatsAggregator().Snapshot()

	// THEN the distribution fields stay zero (no division by zero)
	assert.Zero(t, snap.AvgWaitMs)
	assert.Zero(t, snap.P50WaitMs)
	assert.Zero(t, snap.MaxWaitMs)
}

func TestSimulationReport_CountsKeyOnSpawned(t *testing.T) {
	stats := NewStatsAggregator()
	stats.RecordServed(time.Millisecond, []ResourceKind{Workstation})
	stats.RecordStarved(TimedOutOnPrimary)

	report := SimulationReport{ClientsSpawned: 2, Snapshot: stats.Snapshot()}

	assert.Equal(t, report.ClientsSpawned, report.Served+report.Starved)
}
