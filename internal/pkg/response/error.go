package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var kindTitles = map[apperror.Kind]string{
	apperror.KindNotFound:        "not found",
	apperror.KindValidation:      "validation error",
	apperror.KindInvalidArgument: "invalid argument",
	apperror.KindConflict:        "conflict",
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// If it's not an AppError, it logs the cause and answers 500 Internal Server Error.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Kind != apperror.KindInternal {
		c.JSON(appErr.Code, ErrorResponse{Error: kindTitles[appErr.Kind], Message: appErr.Message})
		return
	}

	zerolog.Ctx(c.Request.Context()).Error().Err(err).
		Str("path", c.FullPath()).
		Msg("request failed")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Message: "internal server error"})
}

// BadRequest answers 400 for malformed input rejected before reaching a service.
func BadRequest(c *gin.Context, message string, err error) {
	resp := ErrorResponse{Error: "invalid request", Message: message}
	if err != nil {
		resp.Message = message + ": " + err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}
