// Defines the closed set of client categories and the resource requirement
// profile each one carries. The acquisition protocols are data-driven off
// these profiles rather than branching per category.

package sim

import "fmt"

// Category is a client variant. The set is closed: Gamer, Freelancer,
// Student.
type Category int

const (
	Gamer Category = iota
	Freelancer
	Student
)

// AllCategories lists every category in a stable order.
var AllCategories = []Category{Gamer, Freelancer, Student}

func (c Category) String() string {
	switch c {
	case Gamer:
		return "gamer"
	case Freelancer:
		return "freelancer"
	case Student:
		return "student"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Profile describes what a category needs from the café.
//
// Primary is always the workstation: every client needs one, and it is the
// only resource whose acquisition is time-bounded. MandatorySecondary kinds
// must all be held for the client to be served; OptionalSecondary kinds are
// taken with a single non-blocking attempt and skipped if unavailable.
//
// ConflictOrder is the fixed acquisition sequence used by the
// ordered-conflicting protocol. The orders for Gamer and Freelancer overlap
// in opposite directions, which is what makes circular wait reachable.
type Profile struct {
	Primary            ResourceKind
	MandatorySecondary []ResourceKind
	OptionalSecondary  []ResourceKind
	ConflictOrder      []ResourceKind
}

var profiles = map[Category]Profile{
	Gamer: {
		Primary:            Workstation,
		MandatorySecondary: []ResourceKind{Headset},
		OptionalSecondary:  []ResourceKind{Seat},
		ConflictOrder:      []ResourceKind{Seat, Workstation, Headset},
	},
	Freelancer: {
		Primary:            Workstation,
		MandatorySecondary: []ResourceKind{Seat},
		OptionalSecondary:  []ResourceKind{Headset},
		ConflictOrder:      []ResourceKind{Headset, Seat, Workstation},
	},
	Student: {
		Primary:       Workstation,
		ConflictOrder: []ResourceKind{Workstation},
	},
}

// Profile returns the requirement profile for the category.
func (c Category) Profile() Profile {
	p, ok := profiles[c]
	if !ok {
		panic(fmt.Sprintf("no profile for %v", c))
	}
	return p
}
