package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

// ListBookingsRequest defines query parameters for listing bookings.
// The state token is checked by the service so unknown values get its message.
type ListBookingsRequest struct {
	State string `form:"state"`
}

// ApproveBookingRequest defines query parameters for PATCH /bookings/:id.
type ApproveBookingRequest struct {
	Approved *bool `form:"approved" binding:"required"`
}

type ItemTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID     string           `json:"id"`
	Start  time.Time        `json:"start"`
	End    time.Time        `json:"end"`
	Status string           `json:"status"`
	Item   ItemTag          `json:"item"`
	Booker userHttp.UserTag `json:"booker"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: string(b.Status),
		Item:   ItemTag{ID: b.ItemID, Name: b.ItemName},
		Booker: userHttp.UserTag{ID: b.BookerID, Name: b.BookerName},
	}
}

type CreateBookingRequest struct {
	ItemID string     `json:"item_id" binding:"required,uuid"`
	Start  *time.Time `json:"start" binding:"required"`
	End    *time.Time `json:"end" binding:"required"`
}
