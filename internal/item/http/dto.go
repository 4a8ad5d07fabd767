package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

// CreateItemRequest defines the payload for POST /items.
type CreateItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Available   *bool   `json:"available" binding:"required"`
	RequestID   *string `json:"request_id" binding:"omitempty,uuid"`
}

// UpdateItemRequest defines fields allowed to be updated via PATCH /items/:id.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// SearchItemsRequest defines query parameters for GET /items/search.
type SearchItemsRequest struct {
	Text string `form:"text"`
}

// CreateCommentRequest defines the payload for POST /items/:id/comment.
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type ItemResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Available   bool    `json:"available"`
	OwnerID     string  `json:"owner_id"`
	RequestID   *string `json:"request_id"`
}

type CommentResponse struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	Created    time.Time `json:"created"`
}

type BookingRefResponse struct {
	ID       string    `json:"id"`
	BookerID string    `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// ItemDetailResponse is an item with its comments and, for the owner, adjacent bookings.
type ItemDetailResponse struct {
	ItemResponse
	LastBooking *BookingRefResponse `json:"last_booking"`
	NextBooking *BookingRefResponse `json:"next_booking"`
	Comments    []CommentResponse   `json:"comments"`
}

func NewItemResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		OwnerID:     it.OwnerID,
		RequestID:   it.RequestID,
	}
}

func NewCommentResponse(cm *item.Comment) CommentResponse {
	return CommentResponse{
		ID:         cm.ID,
		Text:       cm.Text,
		AuthorName: cm.AuthorName,
		Created:    cm.CreatedAt,
	}
}

func newBookingRefResponse(b *item.BookingRef) *BookingRefResponse {
	if b == nil {
		return nil
	}
	return &BookingRefResponse{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    b.Start,
		End:      b.End,
	}
}

func NewItemDetailResponse(v *item.View) ItemDetailResponse {
	return ItemDetailResponse{
		ItemResponse: NewItemResponse(v.Item),
		LastBooking:  newBookingRefResponse(v.LastBooking),
		NextBooking:  newBookingRefResponse(v.NextBooking),
		Comments:     response.List(v.Comments, NewCommentResponse),
	}
}
