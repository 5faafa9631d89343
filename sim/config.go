package sim

import (
	"time"

	"github.com/pkg/errors"
)

// PoolCapacities groups the fixed capacity of each resource pool.
type PoolCapacities struct {
	Workstations int64 // default 10
	Headsets     int64 // default 6
	Seats        int64 // default 8
}

// Of returns the capacity for the given kind.
func (c PoolCapacities) Of(kind ResourceKind) int64 {
	switch kind {
	case Workstation:
		return c.Workstations
	case Headset:
		return c.Headsets
	case Seat:
		return c.Seats
	}
	return 0
}

// LegacyDefaultMaxClients is the max-clients default advertised by the older
// program variant's help text. The compiled default of the more developed
// variant was 120, which DefaultConfig uses; this constant is kept so
// scenarios can pin the legacy behavior explicitly.
const LegacyDefaultMaxClients = 50

// Config carries every knob of a simulation run. Zero values are invalid;
// start from DefaultConfig and override.
type Config struct {
	// Arrival population: the actual client total is drawn uniformly from
	// [MinClients, MaxClients] at startup.
	MinClients int
	MaxClients int

	// OpenHours is the café's open window in simulated hours; each hour is
	// compressed to HourLength of wall time.
	OpenHours  int
	HourLength time.Duration

	// ForceConflictingOrder selects the ordered-conflicting acquisition
	// protocol (the deadlock demonstration) instead of all-or-nothing.
	ForceConflictingOrder bool

	// Verbose enables per-client narration at Info level.
	Verbose bool

	// Seed drives every random draw in the run (arrival pacing, category
	// assignment, usage durations).
	Seed int64

	Capacities PoolCapacities

	// AcquireTimeout bounds the whole acquisition attempt, measured from
	// arrival: the workstation wait in both protocols, and additionally the
	// all-or-nothing secondary retry loop.
	AcquireTimeout time.Duration

	// RetryInterval is the pause between all-or-nothing secondary passes.
	RetryInterval time.Duration

	// SpawnInterval is the arrival driver's polling period; each tick spawns
	// a batch of 0–2 new clients.
	SpawnInterval time.Duration

	// UsageMin and UsageMax bound the randomized usage period of a served
	// client.
	UsageMin time.Duration
	UsageMax time.Duration
}

// DefaultConfig returns the canonical parameters: capacities 10/6/8, a
// 1500 ms give-up deadline, 20–120 clients over an 8-hour window with each
// hour compressed to 3 s.
func DefaultConfig() Config {
	return Config{
		MinClients:     20,
		MaxClients:     120,
		OpenHours:      8,
		HourLength:     3 * time.Second,
		Seed:           time.Now().UnixNano(),
		Capacities:     PoolCapacities{Workstations: 10, Headsets: 6, Seats: 8},
		AcquireTimeout: 1500 * time.Millisecond,
		RetryInterval:  25 * time.Millisecond,
		SpawnInterval:  200 * time.Millisecond,
		UsageMin:       1 * time.Second,
		UsageMax:       5 * time.Second,
	}
}

// Validate rejects configurations the engine cannot run. Note the original
// program silently fell back to MinClients when the range was inverted;
// here an inverted range is a configuration error.
func (c Config) Validate() error {
	if c.MinClients < 0 {
		return errors.Errorf("min clients must be >= 0, got %d", c.MinClients)
	}
	if c.MaxClients < c.MinClients {
		return errors.Errorf("max clients (%d) must be >= min clients (%d)", c.MaxClients, c.MinClients)
	}
	if c.OpenHours < 1 {
		return errors.Errorf("open hours must be >= 1, got %d", c.OpenHours)
	}
	if c.HourLength <= 0 {
		return errors.Errorf("hour length must be positive, got %v", c.HourLength)
	}
	if c.Capacities.Workstations < 0 || c.Capacities.Headsets < 0 || c.Capacities.Seats < 0 {
		return errors.New("pool capacities must be >= 0")
	}
	if c.AcquireTimeout <= 0 {
		return errors.Errorf("acquire timeout must be positive, got %v", c.AcquireTimeout)
	}
	if c.RetryInterval <= 0 {
		return errors.Errorf("retry interval must be positive, got %v", c.RetryInterval)
	}
	if c.SpawnInterval <= 0 {
		return errors.Errorf("spawn interval must be positive, got %v", c.SpawnInterval)
	}
	if c.UsageMin <= 0 || c.UsageMax < c.UsageMin {
		return errors.Errorf("usage window [%v, %v] is invalid", c.UsageMin, c.UsageMax)
	}
	return nil
}

// OpenWindow returns the wall-clock duration the café accepts arrivals for.
func (c Config) OpenWindow() time.Duration {
	return time.Duration(c.OpenHours) * c.HourLength
}
