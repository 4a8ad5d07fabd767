package user

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("user not found")
	ErrEmailAlreadyUsed = apperror.Conflict("email already used")
	ErrEmailRequired    = apperror.Validation("email is required")
	ErrNameRequired     = apperror.Validation("name is required")
)

// User represents a user in the system.
type User struct {
	ID        string // UUID
	Name      string
	Email     string
	CreatedAt time.Time
}

// NotFoundError reports a missing user by id.
func NotFoundError(id string) error {
	return apperror.Detail(ErrNotFound, "user with ID %s not found", id)
}
