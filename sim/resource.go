// Implements the ResourcePool, the bounded counting primitive underneath
// every acquisition protocol, and the Unit guard returned by a successful
// acquisition.

package sim

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ResourceKind identifies one of the café's finite resource types.
type ResourceKind int

const (
	Workstation ResourceKind = iota
	Headset
	Seat
)

// AllResourceKinds lists every kind in a stable order, for iteration and
// reporting.
var AllResourceKinds = []ResourceKind{Workstation, Headset, Seat}

func (k ResourceKind) String() string {
	switch k {
	case Workstation:
		return "workstation"
	case Headset:
		return "headset"
	case Seat:
		return "seat"
	default:
		return fmt.Sprintf("ResourceKind(%d)", int(k))
	}
}

// ResourcePool is a fixed-capacity pool of interchangeable units of one
// resource kind. Every successful acquisition returns a Unit guard that can
// be released at most once, so double-release and release-without-acquire
// cannot be expressed.
//
// Fairness: waiters are woken in FIFO order (the semaphore.Weighted policy).
// No stronger guarantee is made or relied upon.
type ResourcePool struct {
	kind     ResourceKind
	capacity int64
	sem      *semaphore.Weighted

	// free mirrors the semaphore counter for observation only; the semaphore
	// is the synchronization source. Always within [0, capacity].
	free atomic.Int64
}

// NewResourcePool creates a pool with the given capacity. A zero capacity is
// permitted (a pool nothing can ever acquire from).
func NewResourcePool(kind ResourceKind, capacity int64) *ResourcePool {
	if capacity < 0 {
		panic(fmt.Sprintf("NewResourcePool: negative capacity %d for %s", capacity, kind))
	}
	p := &ResourcePool{
		kind:     kind,
		capacity: capacity,
		sem:      semaphore.NewWeighted(capacity),
	}
	p.free.Store(capacity)
	return p
}

// Kind returns the resource kind this pool holds units of.
func (p *ResourcePool) Kind() ResourceKind { return p.kind }

// Capacity returns the fixed pool capacity.
func (p *ResourcePool) Capacity() int64 { return p.capacity }

// Available returns the number of currently free units. The value is a
// snapshot and may be stale by the time the caller acts on it.
func (p *ResourcePool) Available() int64 { return p.free.Load() }

// Acquire blocks until a unit is free, then takes it. It returns ctx.Err()
// if the context is done first, holding nothing.
func (p *ResourcePool) Acquire(ctx context.Context) (*Unit, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	p.free.Add(-1)
	return &Unit{pool: p}, nil
}

// AcquireTimed behaves like Acquire but gives up after d. On timeout it
// reports ok=false and holds no unit.
func (p *ResourcePool) AcquireTimed(ctx context.Context, d time.Duration) (*Unit, bool) {
	tctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	if err := p.sem.Acquire(tctx, 1); err != nil {
		return nil, false
	}
	p.free.Add(-1)
	return &Unit{pool: p}, true
}

// TryAcquire takes a unit only if one is free right now. It never suspends.
func (p *ResourcePool) TryAcquire() (*Unit, bool) {
	if !p.sem.TryAcquire(1) {
		return nil, false
	}
	p.free.Add(-1)
	return &Unit{pool: p}, true
}

// Unit is one held resource unit. The zero value is not useful; Units come
// only from pool acquisitions.
type Unit struct {
	pool     *ResourcePool
	released atomic.Bool
}

// Kind returns the resource kind of the held unit.
func (u *Unit) Kind() ResourceKind { return u.pool.kind }

// Release returns the unit to its pool. Calling Release more than once is a
// no-op; the unit changes hands exactly once.
func (u *Unit) Release() {
	if u == nil || !u.released.CompareAndSwap(false, true) {
		return
	}
	// Gauge first so Available never over-reports relative to waiters the
	// semaphore is about to wake.
	u.pool.free.Add(1)
	u.pool.sem.Release(1)
}

// releaseAll releases units in strict reverse order of the slice, matching
// the reverse-of-acquisition release discipline.
func releaseAll(units []*Unit) {
	for i := len(units) - 1; i >= 0; i-- {
		units[i].Release()
	}
}
