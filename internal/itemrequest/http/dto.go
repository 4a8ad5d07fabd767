package http

import (
	"time"

	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

// CreateRequestBody defines the payload for POST /requests.
type CreateRequestBody struct {
	Description string `json:"description" binding:"required"`
}

type RequestResponse struct {
	ID          string                  `json:"id"`
	Description string                  `json:"description"`
	RequestorID string                  `json:"requestor_id"`
	Created     time.Time               `json:"created"`
	Items       []itemHttp.ItemResponse `json:"items"`
}

func NewRequestResponse(v *itemrequest.View) RequestResponse {
	return RequestResponse{
		ID:          v.Request.ID,
		Description: v.Request.Description,
		RequestorID: v.Request.RequestorID,
		Created:     v.Request.CreatedAt,
		Items:       response.List(v.Answers, itemHttp.NewItemResponse),
	}
}
