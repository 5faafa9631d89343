// Tracks run-wide statistics: served/starved counts, per-kind usage, and the
// wait-time distribution, all funneled through one mutually-exclusive
// aggregator.

package sim

import (
	"fmt"
	"sync"
	"time"

	"github.com/codahale/hdrhistogram"
)

// Wait times are recorded in milliseconds; anything above an hour is clamped
// into the histogram's top bucket.
const maxTrackableWaitMs = int64(time.Hour / time.Millisecond)

// StatsAggregator collects session outcomes. All methods are safe for
// concurrent use; each applies its update as a single indivisible step under
// the aggregator's lock, and the lock is never held across a suspension
// point by any caller.
type StatsAggregator struct {
	mu        sync.Mutex
	served    int
	starved   int
	byReason  map[AbandonReason]int
	usage     map[ResourceKind]int
	totalWait time.Duration
	waitHisto *hdrhistogram.Histogram
}

// NewStatsAggregator returns an empty aggregator.
func NewStatsAggregator() *StatsAggregator {
	return &StatsAggregator{
		byReason:  make(map[AbandonReason]int),
		usage:     make(map[ResourceKind]int),
		waitHisto: hdrhistogram.New(0, maxTrackableWaitMs, 3),
	}
}

// RecordServed counts one served client, its arrival-to-acquisition wait,
// and one use of each resource kind it held.
func (s *StatsAggregator) RecordServed(wait time.Duration, kinds []ResourceKind) {
	waitMs := wait.Milliseconds()
	if waitMs > maxTrackableWaitMs {
		waitMs = maxTrackableWaitMs
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.served++
	s.totalWait += wait
	for _, k := range kinds {
		s.usage[k]++
	}
	// Error only fires for out-of-range values, which the clamp rules out.
	_ = s.waitHisto.RecordValue(waitMs)
}

// RecordStarved counts one client that abandoned before being served.
func (s *StatsAggregator) RecordStarved(reason AbandonReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.starved++
	s.byReason[reason]++
}

// Snapshot is a consistent, simultaneous read of every counter.
type Snapshot struct {
	Served           int
	Starved          int
	StarvedPrimary   int
	StarvedSecondary int
	Usage            map[ResourceKind]int
	TotalWait        time.Duration

	// Wait distribution over served clients, in milliseconds. Zero-valued
	// when no client was served.
	AvgWaitMs float64
	P50WaitMs int64
	P95WaitMs int64
	P99WaitMs int64
	MaxWaitMs int64
}

// Snapshot returns a copy of all counters taken under the lock; no torn
// reads are observable, and two snapshots with no intervening record are
// identical.
func (s *StatsAggregator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Served:           s.served,
		Starved:          s.starved,
		StarvedPrimary:   s.byReason[TimedOutOnPrimary],
		StarvedSecondary: s.byReason[TimedOutOnSecondary],
		Usage:            make(map[ResourceKind]int, len(s.usage)),
		TotalWait:        s.totalWait,
	}
	for k, n := range s.usage {
		snap.Usage[k] = n
	}
	if s.served > 0 {
		snap.AvgWaitMs = float64(s.totalWait.Milliseconds()) / float64(s.served)
		snap.P50WaitMs = s.waitHisto.ValueAtQuantile(50)
		snap.P95WaitMs = s.waitHisto.ValueAtQuantile(95)
		snap.P99WaitMs = s.waitHisto.ValueAtQuantile(99)
		snap.MaxWaitMs = s.waitHisto.Max()
	}
	return snap
}

// SimulationReport is the read-only result handed to the reporting side
// after every spawned session has terminated. Keyed on the count actually
// spawned, not the originally drawn target.
type SimulationReport struct {
	ClientsSpawned int
	Snapshot
}

// Print displays the final statistics block.
func (r SimulationReport) Print() {
	fmt.Println("\n--- FINAL STATISTICS ---")
	fmt.Printf("Clients actually spawned : %d\n", r.ClientsSpawned)
	fmt.Printf("Clients served           : %d\n", r.Served)
	fmt.Printf("Clients starved          : %d (primary=%d, secondary=%d)\n",
		r.Starved, r.StarvedPrimary, r.StarvedSecondary)
	fmt.Printf("Average wait (ms)        : %.2f\n", r.AvgWaitMs)
	if r.Served > 0 {
		fmt.Printf("Wait p50/p95/p99/max (ms): %d/%d/%d/%d\n",
			r.P50WaitMs, r.P95WaitMs, r.P99WaitMs, r.MaxWaitMs)
	}
	for _, k := range AllResourceKinds {
		fmt.Printf("Total %-18s : %d\n", k.String()+" uses", r.Usage[k])
	}
}
