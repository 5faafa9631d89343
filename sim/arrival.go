// ArrivalDriver: turns the open window into a concurrently-running set of
// client sessions and knows exactly how many it actually spawned.

package sim

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ArrivalDriver spawns client sessions over the open window. The total it
// aims for is drawn uniformly from [MinClients, MaxClients]; each
// SpawnInterval tick admits a batch of 0–2 clients with random categories.
// Arrivals that have not happened when the window closes never happen at
// all — those clients simply never walked in.
type ArrivalDriver struct {
	cfg      Config
	rng      *PartitionedRNG
	protocol AcquisitionProtocol
	stats    *StatsAggregator

	// onSpawn, when set, observes every client at the moment it is spawned.
	// The simulator hooks the near-deadlock watchdog here.
	onSpawn func(ClientProfile)
}

// NewArrivalDriver builds a driver. rng must be the run's partitioned RNG;
// the driver consumes the arrival subsystem and derives one private stream
// per spawned session.
func NewArrivalDriver(
	cfg Config,
	rng *PartitionedRNG,
	protocol AcquisitionProtocol,
	stats *StatsAggregator,
	onSpawn func(ClientProfile),
) *ArrivalDriver {
	return &ArrivalDriver{
		cfg:      cfg,
		rng:      rng,
		protocol: protocol,
		stats:    stats,
		onSpawn:  onSpawn,
	}
}

// Run admits clients until the drawn target is reached or the window
// elapses, whichever comes first, then blocks until every spawned session
// has reached a terminal state. It returns the count actually spawned — the
// number the final report must be keyed on.
func (d *ArrivalDriver) Run(ctx context.Context) int {
	arrival := d.rng.ForSubsystem(SubsystemArrival)
	target := d.cfg.MinClients
	if span := d.cfg.MaxClients - d.cfg.MinClients; span > 0 {
		target += arrival.Intn(span + 1)
	}
	window := d.cfg.OpenWindow()
	logrus.Infof("doors open: targeting %d clients over %v", target, window)

	closing := time.Now().Add(window)
	ticker := time.NewTicker(d.cfg.SpawnInterval)
	defer ticker.Stop()

	var group errgroup.Group
	spawned := 0

admitting:
	for spawned < target && time.Now().Before(closing) {
		batch := arrival.Intn(3)
		for j := 0; j < batch && spawned < target; j++ {
			spawned++
			profile := ClientProfile{
				ID:       spawned,
				Category: AllCategories[arrival.Intn(len(AllCategories))],
				Arrival:  time.Now(),
			}
			if d.onSpawn != nil {
				d.onSpawn(profile)
			}
			session := NewClientSession(
				profile,
				d.protocol,
				d.stats,
				d.rng.ForSubsystem(SubsystemSession(profile.ID)),
				d.cfg.UsageMin,
				d.cfg.UsageMax,
			)
			group.Go(func() error {
				session.Run(ctx)
				return nil
			})
		}
		if spawned >= target {
			break
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			// Stop admitting; sessions already in flight still drain.
			break admitting
		}
	}

	if spawned < target {
		logrus.Infof("doors closed with %d of %d clients spawned; the rest never walked in",
			spawned, target)
	}

	// Sessions never fail; the group is the single wait-for-all point.
	_ = group.Wait()
	return spawned
}
