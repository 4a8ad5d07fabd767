package itemrequest

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.NotFound("item request not found")
	ErrDescriptionRequired = apperror.Validation("description is required")
)

// ItemRequest describes an item a user wishes someone would list.
type ItemRequest struct {
	ID          string
	Description string
	RequestorID string
	CreatedAt   time.Time
}

// View is a request with the items listed in answer to it.
type View struct {
	Request *ItemRequest
	Answers []*item.Item
}

// NotFoundError reports a missing item request by id.
func NotFoundError(id string) error {
	return apperror.Detail(ErrNotFound, "item request with ID %s not found", id)
}
