// ClientSession: the per-client task. Arrived → Acquiring → Serving →
// Released, or Abandoned. Exactly one stats report per session, and never a
// held unit after the session returns.

package sim

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// ClientSession executes one client's lifecycle against the shared pools.
// Each session owns its profile and its private RNG stream; nothing here is
// shared except the protocol's pools and the stats aggregator.
type ClientSession struct {
	profile  ClientProfile
	protocol AcquisitionProtocol
	stats    *StatsAggregator
	rng      *rand.Rand
	usageMin time.Duration
	usageMax time.Duration
}

// NewClientSession builds a session. rng must be private to this session;
// the arrival driver derives one stream per client before the goroutine
// starts.
func NewClientSession(
	profile ClientProfile,
	protocol AcquisitionProtocol,
	stats *StatsAggregator,
	rng *rand.Rand,
	usageMin, usageMax time.Duration,
) *ClientSession {
	return &ClientSession{
		profile:  profile,
		protocol: protocol,
		stats:    stats,
		rng:      rng,
		usageMin: usageMin,
		usageMax: usageMax,
	}
}

// Run drives the session to a terminal state. It reports to the stats
// aggregator exactly once and returns with every acquired unit released.
func (s *ClientSession) Run(ctx context.Context) {
	if s.profile.Arrival.IsZero() {
		s.profile.Arrival = time.Now()
	}
	logrus.Debugf("client %d (%s) arrived", s.profile.ID, s.profile.Category)

	outcome := s.protocol.Acquire(ctx, s.profile)
	if !outcome.Served {
		logrus.Infof("client %d (%s) gave up: %s",
			s.profile.ID, s.profile.Category, outcome.Reason)
		s.stats.RecordStarved(outcome.Reason)
		return
	}

	kinds := outcome.HeldKinds()
	logrus.Infof("client %d (%s) got %v after %d ms, using",
		s.profile.ID, s.profile.Category, kinds, outcome.Wait.Milliseconds())

	// Serving: only pool units are held here, never the stats lock.
	time.Sleep(s.usageDuration())

	releaseAll(outcome.Held)
	s.stats.RecordServed(outcome.Wait, kinds)
	logrus.Infof("client %d (%s) released resources and left",
		s.profile.ID, s.profile.Category)
}

// usageDuration draws a usage period uniformly from [usageMin, usageMax].
func (s *ClientSession) usageDuration() time.Duration {
	if s.usageMax <= s.usageMin {
		return s.usageMin
	}
	return s.usageMin + time.Duration(s.rng.Int63n(int64(s.usageMax-s.usageMin)+1))
}
