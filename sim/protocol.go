// Implements the two acquisition protocols. AllOrNothing is the
// deadlock-avoiding default; OrderedConflicting is the circular-wait
// demonstration behind --force-conflicting-order.

package sim

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Pools groups the three shared resource pools of one simulation run.
type Pools struct {
	Workstation *ResourcePool
	Headset     *ResourcePool
	Seat        *ResourcePool
}

// NewPools creates the three pools with the given capacities.
func NewPools(c PoolCapacities) *Pools {
	return &Pools{
		Workstation: NewResourcePool(Workstation, c.Workstations),
		Headset:     NewResourcePool(Headset, c.Headsets),
		Seat:        NewResourcePool(Seat, c.Seats),
	}
}

// Of returns the pool holding units of the given kind.
func (p *Pools) Of(kind ResourceKind) *ResourcePool {
	switch kind {
	case Workstation:
		return p.Workstation
	case Headset:
		return p.Headset
	case Seat:
		return p.Seat
	}
	panic("no pool for kind " + kind.String())
}

// NearExhaustion reports whether every pool is down to fewer than 2 free
// units, the condition the near-deadlock watchdog alerts on.
func (p *Pools) NearExhaustion() bool {
	return p.Workstation.Available() < 2 &&
		p.Headset.Available() < 2 &&
		p.Seat.Available() < 2
}

// AcquisitionProtocol attempts to acquire a client's required resource set
// against the shared pools. On success the outcome carries the held units in
// acquisition order; on abandonment nothing is held.
type AcquisitionProtocol interface {
	Name() string
	Acquire(ctx context.Context, client ClientProfile) AcquisitionOutcome
}

// AllOrNothing acquires the workstation under a deadline measured from the
// client's arrival, then completes the mandatory secondary set with
// non-blocking all-or-nothing passes: a pass either grabs every mandatory
// secondary or reverts its partial holds before pausing RetryInterval and
// trying again. A session therefore never sits on a strict subset of its
// mandatory secondaries for longer than one retry pause, which is what rules
// out circular wait.
type AllOrNothing struct {
	pools   *Pools
	timeout time.Duration
	retry   time.Duration
}

// NewAllOrNothing creates the deadlock-avoiding protocol. timeout bounds the
// whole acquisition from arrival; retry is the pause between secondary
// passes.
func NewAllOrNothing(pools *Pools, timeout, retry time.Duration) *AllOrNothing {
	return &AllOrNothing{pools: pools, timeout: timeout, retry: retry}
}

// Name implements AcquisitionProtocol.
func (a *AllOrNothing) Name() string { return "all-or-nothing" }

// Acquire implements AcquisitionProtocol.
func (a *AllOrNothing) Acquire(ctx context.Context, client ClientProfile) AcquisitionOutcome {
	prof := client.Category.Profile()
	deadline := client.Arrival.Add(a.timeout)

	remaining := time.Until(deadline)
	if remaining <= 0 {
		return abandoned(TimedOutOnPrimary)
	}
	primary, ok := a.pools.Of(prof.Primary).AcquireTimed(ctx, remaining)
	if !ok {
		return abandoned(TimedOutOnPrimary)
	}

	held := []*Unit{primary}
	if len(prof.MandatorySecondary) > 0 {
		pass, ok := a.acquireMandatory(ctx, client, prof.MandatorySecondary, deadline)
		if !ok {
			primary.Release()
			return abandoned(TimedOutOnSecondary)
		}
		held = append(held, pass...)
	}

	// Optional kinds get a single non-blocking attempt; unavailable means
	// the client simply does without.
	for _, kind := range prof.OptionalSecondary {
		if u, ok := a.pools.Of(kind).TryAcquire(); ok {
			held = append(held, u)
		}
	}

	return served(held, time.Since(client.Arrival))
}

// acquireMandatory runs all-or-nothing passes over kinds until one pass
// grabs everything or the deadline passes. It returns ok=false holding
// nothing.
func (a *AllOrNothing) acquireMandatory(
	ctx context.Context, client ClientProfile, kinds []ResourceKind, deadline time.Time,
) ([]*Unit, bool) {
	for {
		pass := make([]*Unit, 0, len(kinds))
		complete := true
		for _, kind := range kinds {
			u, ok := a.pools.Of(kind).TryAcquire()
			if !ok {
				complete = false
				break
			}
			pass = append(pass, u)
		}
		if complete {
			return pass, true
		}

		// Revert this pass's partial holds before pausing.
		releaseAll(pass)

		if !time.Now().Before(deadline) {
			return nil, false
		}
		logrus.Debugf("client %d (%s): secondary set incomplete, retrying in %v",
			client.ID, client.Category, a.retry)
		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(a.retry):
		}
	}
}

// OrderedConflicting acquires resources in a fixed per-category order. The
// Gamer and Freelancer orders overlap in opposite directions (seat before
// headset vs. headset before seat), so two such sessions can each block
// indefinitely on a resource the other holds. Only the workstation step is
// time-bounded; the timeout window opens when that step starts.
//
// A run in this mode may never terminate. That is the demonstration.
type OrderedConflicting struct {
	pools   *Pools
	timeout time.Duration
}

// NewOrderedConflicting creates the deadlock-demonstrating protocol.
func NewOrderedConflicting(pools *Pools, timeout time.Duration) *OrderedConflicting {
	return &OrderedConflicting{pools: pools, timeout: timeout}
}

// Name implements AcquisitionProtocol.
func (o *OrderedConflicting) Name() string { return "ordered-conflicting" }

// Acquire implements AcquisitionProtocol. On a workstation timeout every
// earlier hold is released, in reverse order, before the session abandons.
func (o *OrderedConflicting) Acquire(ctx context.Context, client ClientProfile) AcquisitionOutcome {
	prof := client.Category.Profile()
	held := make([]*Unit, 0, len(prof.ConflictOrder))

	for _, kind := range prof.ConflictOrder {
		if kind == prof.Primary {
			u, ok := o.pools.Of(kind).AcquireTimed(ctx, o.timeout)
			if !ok {
				releaseAll(held)
				return abandoned(TimedOutOnPrimary)
			}
			held = append(held, u)
			continue
		}

		// Deliberately unbounded: this is the blocking step that can form
		// the circular wait.
		u, err := o.pools.Of(kind).Acquire(ctx)
		if err != nil {
			releaseAll(held)
			return abandoned(TimedOutOnPrimary)
		}
		held = append(held, u)
	}

	return served(held, time.Since(client.Arrival))
}
