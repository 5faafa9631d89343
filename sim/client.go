// ClientProfile and the tagged acquisition outcome types.

package sim

import "time"

// ClientProfile identifies one arriving client. Immutable after creation and
// owned exclusively by its ClientSession.
type ClientProfile struct {
	ID       int // unique, positive, in spawn order
	Category Category
	Arrival  time.Time
}

// AbandonReason says at which stage a client gave up.
type AbandonReason int

const (
	// TimedOutOnPrimary: the workstation was never acquired within the
	// deadline. Nothing was held when the session abandoned.
	TimedOutOnPrimary AbandonReason = iota

	// TimedOutOnSecondary: the workstation was acquired but the mandatory
	// secondary set could not be completed within the remaining deadline.
	// Used only by the all-or-nothing protocol; the workstation is released
	// before the session reports.
	TimedOutOnSecondary
)

func (r AbandonReason) String() string {
	switch r {
	case TimedOutOnPrimary:
		return "timed-out-on-primary"
	case TimedOutOnSecondary:
		return "timed-out-on-secondary"
	default:
		return "unknown"
	}
}

// AcquisitionOutcome is the tagged result of running an acquisition
// protocol. Exactly one of the two shapes applies: Served=true with Held
// populated, or Served=false with Reason set and Held empty.
type AcquisitionOutcome struct {
	Served bool

	// Held are the acquired units in acquisition order. The session releases
	// them in reverse order after the usage period.
	Held []*Unit

	// Wait is the elapsed time from arrival to full acquisition.
	Wait time.Duration

	Reason AbandonReason
}

// HeldKinds returns the resource kinds actually acquired, in acquisition
// order.
func (o AcquisitionOutcome) HeldKinds() []ResourceKind {
	kinds := make([]ResourceKind, 0, len(o.Held))
	for _, u := range o.Held {
		kinds = append(kinds, u.Kind())
	}
	return kinds
}

func served(held []*Unit, wait time.Duration) AcquisitionOutcome {
	return AcquisitionOutcome{Served: true, Held: held, Wait: wait}
}

func abandoned(reason AbandonReason) AcquisitionOutcome {
	return AcquisitionOutcome{Served: false, Reason: reason}
}
