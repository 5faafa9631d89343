// Simulator: wires pools, protocol, stats, and the arrival driver into one
// run, and hosts the near-deadlock watchdog for the conflicting-order mode.

package sim

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Simulator owns one simulation run.
type Simulator struct {
	cfg      Config
	pools    *Pools
	stats    *StatsAggregator
	protocol AcquisitionProtocol
	driver   *ArrivalDriver
}

// NewSimulator validates cfg and wires the engine. The protocol is chosen by
// cfg.ForceConflictingOrder: all-or-nothing by default, the conflicting
// fixed orders when forced.
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid simulation config")
	}

	pools := NewPools(cfg.Capacities)
	stats := NewStatsAggregator()

	var protocol AcquisitionProtocol
	if cfg.ForceConflictingOrder {
		protocol = NewOrderedConflicting(pools, cfg.AcquireTimeout)
	} else {
		protocol = NewAllOrNothing(pools, cfg.AcquireTimeout, cfg.RetryInterval)
	}

	s := &Simulator{
		cfg:      cfg,
		pools:    pools,
		stats:    stats,
		protocol: protocol,
	}

	var onSpawn func(ClientProfile)
	if cfg.ForceConflictingOrder {
		onSpawn = s.warnNearDeadlock
	}
	s.driver = NewArrivalDriver(cfg, NewPartitionedRNG(cfg.Seed), protocol, stats, onSpawn)
	return s, nil
}

// Pools exposes the run's resource pools for inspection.
func (s *Simulator) Pools() *Pools { return s.pools }

// Stats exposes the run's aggregator for inspection.
func (s *Simulator) Stats() *StatsAggregator { return s.stats }

// Run executes the whole simulation: admits clients over the open window,
// waits for every spawned session to terminate, and returns the final
// report. In conflicting-order mode a genuine circular wait can keep Run
// blocked indefinitely.
func (s *Simulator) Run(ctx context.Context) SimulationReport {
	logrus.Infof("cyberflux opening: protocol=%s clients=[%d,%d] hours=%d seed=%d caps=%d/%d/%d",
		s.protocol.Name(), s.cfg.MinClients, s.cfg.MaxClients, s.cfg.OpenHours, s.cfg.Seed,
		s.cfg.Capacities.Workstations, s.cfg.Capacities.Headsets, s.cfg.Capacities.Seats)

	spawned := s.driver.Run(ctx)
	report := SimulationReport{
		ClientsSpawned: spawned,
		Snapshot:       s.stats.Snapshot(),
	}

	logrus.Infof("cyberflux closed: spawned=%d served=%d starved=%d",
		report.ClientsSpawned, report.Served, report.Starved)
	return report
}

// warnNearDeadlock alerts when every pool is nearly exhausted while the
// conflicting-order protocol is active — the state in which the opposing
// Gamer/Freelancer orders can lock up.
func (s *Simulator) warnNearDeadlock(c ClientProfile) {
	if !s.pools.NearExhaustion() {
		return
	}
	logrus.Warnf("near-deadlock: workstation=%d headset=%d seat=%d free as client %d arrives under conflicting order",
		s.pools.Workstation.Available(), s.pools.Headset.Available(), s.pools.Seat.Available(), c.ID)
}
