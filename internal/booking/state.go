package booking

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

// State is the classification a booking listing is requested for.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState matches s against the six state names exactly.
func ParseState(s string) (State, error) {
	switch st := State(s); st {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return st, nil
	default:
		return "", apperror.InvalidArgument("Unknown state: %s", s)
	}
}

// filter builds the store query for listing st bookings of personID at now.
func (st State) filter(role Role, personID string, now time.Time) Filter {
	f := Filter{Role: role, PersonID: personID, Now: now}
	switch st {
	case StateCurrent:
		f.Window = WindowCurrent
	case StatePast:
		f.Window = WindowPast
	case StateFuture:
		f.Window = WindowFuture
	case StateWaiting:
		f.Status = StatusWaiting
	case StateRejected:
		f.Status = StatusRejected
	}
	return f
}

// Matches reports whether b falls into f.
func (f Filter) Matches(b *Booking) bool {
	switch f.Role {
	case RoleBooker:
		if b.BookerID != f.PersonID {
			return false
		}
	case RoleOwner:
		if b.OwnerID != f.PersonID {
			return false
		}
	}

	if f.Status != "" && b.Status != f.Status {
		return false
	}

	switch f.Window {
	case WindowCurrent:
		return !b.Start.After(f.Now) && !b.End.Before(f.Now)
	case WindowPast:
		return b.End.Before(f.Now)
	case WindowFuture:
		return b.Start.After(f.Now)
	}
	return true
}
