package booking

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("booking not found")
	ErrItemUnavailable  = apperror.Validation("item is not available for booking")
	ErrOwnItem          = apperror.Validation("owner cannot book own item")
	ErrInvalidTimeRange = apperror.Validation("end must be after start")
	ErrTimeConflict     = apperror.Validation("time slot occupied")
	ErrNotItemOwner     = apperror.Validation("only the item owner can approve or reject a booking")
	ErrAlreadyDecided   = apperror.Validation("booking has already been decided")
	ErrAccessDenied     = apperror.Validation("only the booker and the item owner can view a booking")
)

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Booking is a request by a booker to use an item during [Start, End].
// Only Status changes after creation.
type Booking struct {
	ID         string
	ItemID     string
	ItemName   string
	OwnerID    string
	BookerID   string
	BookerName string
	Start      time.Time
	End        time.Time
	Status     Status
	CreatedAt  time.Time
}

// Overlaps reports whether b and [start, end] intersect, both ends inclusive.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return !b.Start.After(end) && !b.End.Before(start)
}

// Role selects which side of a booking a listing is made for.
type Role int

const (
	RoleBooker Role = iota
	RoleOwner
)

// Window restricts a listing by the position of a booking relative to Filter.Now.
type Window int

const (
	WindowAny     Window = iota
	WindowCurrent        // Start <= Now <= End
	WindowPast           // End < Now
	WindowFuture         // Start > Now
)

// Filter describes a listing query. Zero Status means any status.
type Filter struct {
	Role     Role
	PersonID string
	Status   Status
	Window   Window
	Now      time.Time
}

// NotFoundError reports a missing booking by id.
func NotFoundError(id string) error {
	return apperror.Detail(ErrNotFound, "booking with ID %s not found", id)
}
