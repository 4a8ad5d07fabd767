package item

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.NotFound("item not found")
	ErrNameRequired        = apperror.Validation("name is required")
	ErrDescriptionRequired = apperror.Validation("description is required")
	ErrCommentTextRequired = apperror.Validation("comment text is required")
	ErrCommentNotAllowed   = apperror.Validation("only users who finished an approved booking can comment")
)

// Item is a thing a user offers for booking.
type Item struct {
	ID          string // UUID
	Name        string
	Description string
	Available   bool
	OwnerID     string  // immutable after creation
	RequestID   *string // item request this item answers, if any
	CreatedAt   time.Time
}

// Comment is feedback left on an item by a past booker.
type Comment struct {
	ID         string
	Text       string
	ItemID     string
	AuthorID   string
	AuthorName string
	CreatedAt  time.Time
}

// BookingRef is a short view of a booking shown on the owner's item page.
type BookingRef struct {
	ID       string
	BookerID string
	Start    time.Time
	End      time.Time
}

// View is an item together with what its detail page shows.
// LastBooking and NextBooking are only filled for the owner.
type View struct {
	Item        *Item
	Comments    []*Comment
	LastBooking *BookingRef
	NextBooking *BookingRef
}

// ErrRequestNotFound is returned when an item answers an unknown item request.
var ErrRequestNotFound = apperror.NotFound("item request not found")

func requestNotFound(id string) error {
	return apperror.Detail(ErrRequestNotFound, "item request with ID %s not found", id)
}

// NotFoundError reports a missing item by id.
func NotFoundError(id string) error {
	return apperror.Detail(ErrNotFound, "item with ID %s not found", id)
}
